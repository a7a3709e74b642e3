// Package file implements the wallet store on top of a local directory,
// one file per record: balance, transactions.json, settled_ids.json.
// Records degrade independently on corruption, so a mangled transaction
// log never takes the balance down with it.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quantgoal/walletd/internal/ledger"
	"github.com/quantgoal/walletd/internal/store"
)

const (
	balanceFile      = "balance"
	transactionsFile = "transactions.json"
	settledIDsFile   = "settled_ids.json"
)

var _ store.Store = (*fileStore)(nil)

type fileStore struct{ dir string }

// New opens (creating if needed) the store directory.
func New(dir string) (*fileStore, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	return &fileStore{dir: dir}, nil
}

func (s *fileStore) Load(_ context.Context) (ledger.State, error) {
	state := ledger.NewState()

	raw, err := s.read(balanceFile)
	if err == nil {
		bal, perr := decimal.NewFromString(strings.TrimSpace(string(raw)))
		if perr != nil {
			slog.Warn("stored balance unreadable, falling back to seed", "error", perr)
		} else {
			state.Balance = bal
		}
	}

	raw, err = s.read(transactionsFile)
	if err == nil {
		var txs []ledger.Transaction

		perr := json.Unmarshal(raw, &txs)
		if perr != nil {
			slog.Warn("stored transaction log unreadable, starting empty", "error", perr)
		} else {
			state.Transactions = txs
		}
	}

	raw, err = s.read(settledIDsFile)
	if err == nil {
		var ids []string

		perr := json.Unmarshal(raw, &ids)
		if perr != nil {
			slog.Warn("stored settled ids unreadable, starting empty", "error", perr)
		} else {
			for _, id := range ids {
				state.SettledIDs[id] = struct{}{}
			}
		}
	}

	return state, nil
}

func (s *fileStore) Save(_ context.Context, state ledger.State) error {
	err := s.write(balanceFile, []byte(state.Balance.String()))
	if err != nil {
		return fmt.Errorf("save balance: %w", err)
	}

	txs := state.Transactions
	if txs == nil {
		txs = []ledger.Transaction{}
	}

	rawTxs, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}

	err = s.write(transactionsFile, rawTxs)
	if err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}

	ids := make([]string, 0, len(state.SettledIDs))
	for id := range state.SettledIDs {
		ids = append(ids, id)
	}

	rawIDs, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode settled ids: %w", err)
	}

	err = s.write(settledIDsFile, rawIDs)
	if err != nil {
		return fmt.Errorf("save settled ids: %w", err)
	}

	return nil
}

func (s *fileStore) Close() error { return nil }

// read returns the record bytes, or an error satisfying fs.ErrNotExist
// on first run. Callers treat any read error as "record absent".
func (s *fileStore) read(name string) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("read store record", "record", name, "error", err)
		}

		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return raw, nil
}

// write replaces a record via temp file + rename so a crash mid-write
// leaves either the old record or the new one, never a torn mix.
func (s *fileStore) write(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}

	_, err = tmp.Write(data)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("write temp: %w", err)
	}

	err = tmp.Close()
	if err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("close temp: %w", err)
	}

	err = os.Rename(tmp.Name(), filepath.Join(s.dir, name))
	if err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("rename into place: %w", err)
	}

	return nil
}
