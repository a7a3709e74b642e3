// Package feed is the client side of the external settlement feed: an
// append-only list of bet outcomes the wallet reconciles against. The
// feed is authoritative and read-only; the wallet never writes to it.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Statuses observed on the feed. Anything other than StatusWon is
// ignored by reconciliation, so unknown values are harmless.
const (
	StatusPending = "PENDING"
	StatusWon     = "WON"
	StatusLost    = "LOST"
)

// Record is one bet outcome as published by the feed.
type Record struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Stake  decimal.Decimal `json:"stake"`
	Odds   Odds            `json:"odds"`
}

// Odds is the feed's odds field. The feed publishes it as either a JSON
// string ("2.50") or a bare number (2.5) depending on the upstream
// settlement job, so it unmarshals from both.
type Odds string

func (o *Odds) UnmarshalJSON(b []byte) error {
	var s string
	if json.Unmarshal(b, &s) == nil {
		*o = Odds(s)

		return nil
	}

	var n json.Number

	err := json.Unmarshal(b, &n)
	if err != nil {
		return fmt.Errorf("odds is neither string nor number: %w", err)
	}

	*o = Odds(n.String())

	return nil
}

// Multiplier returns the odds as a decimal multiplier. An unparsable
// value falls back to 1: the stake is returned without profit rather
// than failing the whole reconciliation pass.
func (o Odds) Multiplier() decimal.Decimal {
	m, err := decimal.NewFromString(strings.TrimSpace(string(o)))
	if err != nil {
		return decimal.NewFromInt(1)
	}

	return m
}

// Feed fetches the full settlement history. Implementations must treat
// every failure mode (transport, status, decode) as one opaque error;
// the caller aborts the pass and retries on the next trigger.
type Feed interface {
	Fetch(ctx context.Context) ([]Record, error)
}
