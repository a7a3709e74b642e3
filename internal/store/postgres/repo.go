// Package postgres implements the wallet store on Postgres. The wallet
// is a singleton row plus its transaction and settled-bet tables; Save
// replaces the whole snapshot inside one DB transaction.
package postgres

import (
	"database/sql"

	"github.com/quantgoal/walletd/internal/store"
)

var _ store.Store = (*pgStore)(nil)

type pgStore struct{ db *sql.DB }

func New(db *sql.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) Close() error {
	return s.db.Close()
}
