package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/quantgoal/walletd/internal/infra/pgutils"
	"github.com/quantgoal/walletd/internal/ledger"
)

// Save overwrites the snapshot in one DB transaction:
//
// 1) Upsert the singleton balance row.
// 2) Replace the transaction log (position 0 = newest).
// 3) Add new settled ids; existing ones are left alone, the cursor
//    only grows.
func (s *pgStore) Save(ctx context.Context, state ledger.State) error {
	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO wallet_state (id, balance)
			VALUES (1, $1)
			ON CONFLICT (id) DO UPDATE SET balance = EXCLUDED.balance
		`, state.Balance)
		if err != nil {
			return fmt.Errorf("upsert balance: %w", err)
		}

		_, err = tx.Exec(`DELETE FROM wallet_transactions`)
		if err != nil {
			return fmt.Errorf("clear transactions: %w", err)
		}

		for i, entry := range state.Transactions {
			_, err = tx.Exec(`
				INSERT INTO wallet_transactions (id, position, description, amount, created_at)
				VALUES ($1, $2, $3, $4, $5)
			`, uuid.New(), i, entry.Desc, entry.Amount, entry.Date)
			if err != nil {
				return fmt.Errorf("insert transaction %d: %w", i, err)
			}
		}

		for id := range state.SettledIDs {
			_, err = tx.Exec(`
				INSERT INTO settled_bets (bet_id)
				VALUES ($1)
				ON CONFLICT (bet_id) DO NOTHING
			`, id)
			if err != nil {
				return fmt.Errorf("insert settled id: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("save wallet state: %w", err)
	}

	return nil
}
