// Package ledger holds the wallet's persisted state model: the balance,
// the newest-first transaction log, and the set of settlement ids that
// have already been credited.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeedBalance is the balance a wallet starts with on first run and
// returns to after a reset.
var SeedBalance = decimal.NewFromInt(1000)

// Transaction is one ledger entry. Entries are append-only: once created
// they are never mutated or deleted (a reset drops the whole log, not
// individual entries).
type Transaction struct {
	Desc   string          `json:"desc"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// State is a full snapshot of the wallet. Stores persist and load it as a
// unit; the service mutates it copy-on-write so a failed save leaves the
// previous snapshot untouched.
type State struct {
	Balance      decimal.Decimal
	Transactions []Transaction
	SettledIDs   map[string]struct{}
}

// NewState returns the first-run snapshot: seed balance, empty log,
// empty settlement cursor.
func NewState() State {
	return State{
		Balance:    SeedBalance,
		SettledIDs: make(map[string]struct{}),
	}
}

// Settled reports whether a settlement id has already been credited.
func (s State) Settled(id string) bool {
	_, ok := s.SettledIDs[id]
	return ok
}

// MarkSettled returns a copy of the cursor with the given ids added.
// Adding an id that is already present is a no-op; the cursor only grows.
func (s State) MarkSettled(ids ...string) map[string]struct{} {
	next := make(map[string]struct{}, len(s.SettledIDs)+len(ids))
	for id := range s.SettledIDs {
		next[id] = struct{}{}
	}
	for _, id := range ids {
		next[id] = struct{}{}
	}
	return next
}
