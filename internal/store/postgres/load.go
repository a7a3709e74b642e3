package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/quantgoal/walletd/internal/ledger"
)

func (s *pgStore) Load(ctx context.Context) (ledger.State, error) {
	state := ledger.NewState()

	err := s.db.QueryRowContext(ctx, `
		SELECT balance
		FROM wallet_state
		WHERE id = 1
	`).Scan(&state.Balance)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ledger.State{}, fmt.Errorf("load balance: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT description, amount, created_at
		FROM wallet_transactions
		ORDER BY position
	`)
	if err != nil {
		return ledger.State{}, fmt.Errorf("load transactions: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	for rows.Next() {
		var tx ledger.Transaction

		err = rows.Scan(&tx.Desc, &tx.Amount, &tx.Date)
		if err != nil {
			return ledger.State{}, fmt.Errorf("scan transaction: %w", err)
		}

		state.Transactions = append(state.Transactions, tx)
	}

	err = rows.Err()
	if err != nil {
		return ledger.State{}, fmt.Errorf("iterate transactions: %w", err)
	}

	idRows, err := s.db.QueryContext(ctx, `
		SELECT bet_id
		FROM settled_bets
	`)
	if err != nil {
		return ledger.State{}, fmt.Errorf("load settled ids: %w", err)
	}
	//nolint:errcheck
	defer idRows.Close()

	for idRows.Next() {
		var id string

		err = idRows.Scan(&id)
		if err != nil {
			return ledger.State{}, fmt.Errorf("scan settled id: %w", err)
		}

		state.SettledIDs[id] = struct{}{}
	}

	err = idRows.Err()
	if err != nil {
		return ledger.State{}, fmt.Errorf("iterate settled ids: %w", err)
	}

	return state, nil
}
