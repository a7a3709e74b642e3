package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantgoal/walletd/internal/feed"
	"github.com/quantgoal/walletd/internal/ledger"
)

// Reconcile runs one settlement pass:
//
// 1) Fetch the full feed (outside the lock; may block on the network).
// 2) Keep WON records whose id is not yet in the settlement cursor.
// 3) Win amount = stake * odds; unparsable odds credit the stake alone.
// 4) If anything was won, apply the whole batch as one commit: balance,
//    log prepend (batch in feed order, ahead of all prior entries) and
//    cursor marks land together or not at all.
//
// A fetch failure aborts the pass with no state written; the next
// trigger retries from scratch. A pass that finds nothing new writes
// nothing, so re-triggering over an unchanged feed is a no-op.
func (s *Service) Reconcile(ctx context.Context) error {
	records, err := s.feed.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch settlement feed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero

	var (
		wins []ledger.Transaction
		ids  []string
	)

	for _, rec := range records {
		if rec.Status != feed.StatusWon {
			continue
		}

		if s.state.Settled(rec.ID) {
			continue
		}

		win := rec.Stake.Mul(rec.Odds.Multiplier())
		total = total.Add(win)

		wins = append(wins, ledger.Transaction{
			Desc:   "Win Settlement: " + rec.ID,
			Amount: win,
			Date:   s.now().UTC(),
		})
		ids = append(ids, rec.ID)
	}

	if !total.IsPositive() {
		return nil
	}

	next := s.state
	next.Balance = s.state.Balance.Add(total)
	next.Transactions = append(wins, s.state.Transactions...)
	next.SettledIDs = s.state.MarkSettled(ids...)

	err = s.commit(ctx, next)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	slog.Info("settlement pass credited wins",
		"records", len(ids),
		"total", total.String(),
		"balance", next.Balance.String(),
	)

	return nil
}

// RunPolling reconciles once immediately, then once per trigger tick,
// until ctx is done or the trigger channel closes. Pass failures are
// logged and never stop the loop; the feed is retried on the next tick.
//
// Production wires a time.Ticker channel; tests drive the channel
// directly instead of waiting on wall-clock timers.
func (s *Service) RunPolling(ctx context.Context, trigger <-chan time.Time) {
	err := s.Reconcile(ctx)
	if err != nil {
		slog.Warn("settlement pass failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-trigger:
			if !ok {
				return
			}

			err := s.Reconcile(ctx)
			if err != nil {
				slog.Warn("settlement pass failed", "error", err)
			}
		}
	}
}
