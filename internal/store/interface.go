package store

import (
	"context"

	"github.com/quantgoal/walletd/internal/ledger"
)

// Store persists wallet snapshots across process restarts.
//
// Load must never fail on a missing or corrupt record: a record that
// cannot be read degrades to its first-run default (seed balance, empty
// log, empty cursor) instead of propagating, because the persisted log
// is informational and the balance scalar is the source of truth going
// forward. Save overwrites the previous snapshot; the single-writer
// assumption means no partial-write protocol is required beyond the
// medium's own atomicity.
type Store interface {
	Load(ctx context.Context) (ledger.State, error)
	Save(ctx context.Context, state ledger.State) error
	Close() error
}
