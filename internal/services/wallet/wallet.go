// Package wallet owns the ledger: a persistent balance, a newest-first
// transaction log, and the settlement cursor. It is the only writer of
// that state. User-driven mutations (spend/earn/reset) and feed-driven
// reconciliation both go through the same mutex and the same
// save-then-commit sequence.
package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantgoal/walletd/internal/feed"
	"github.com/quantgoal/walletd/internal/ledger"
	"github.com/quantgoal/walletd/internal/store"
)

type Service struct {
	store store.Store
	feed  feed.Feed
	now   func() time.Time

	mu    sync.Mutex
	state ledger.State
}

// New loads the persisted snapshot and returns a ready service. Every
// operation requires the load to have completed, so construction is the
// Uninitialized -> Ready transition.
func New(ctx context.Context, st store.Store, fd feed.Feed) (*Service, error) {
	state, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load wallet state: %w", err)
	}

	if state.SettledIDs == nil {
		state.SettledIDs = make(map[string]struct{})
	}

	return &Service{
		store: st,
		feed:  fd,
		now:   time.Now,
		state: state,
	}, nil
}

// Balance returns the current spendable balance.
func (s *Service) Balance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Balance
}

// Transactions returns the log, newest first. The slice is a copy.
func (s *Service) Transactions() []ledger.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ledger.Transaction, len(s.state.Transactions))
	copy(out, s.state.Transactions)

	return out
}

// Spend debits the balance and logs a negative entry.
//
// A spend larger than the balance is refused: returns false with the
// state untouched. Refusal is a domain outcome for the caller to
// surface, not an error.
func (s *Service) Spend(ctx context.Context, amount decimal.Decimal, description string) (bool, error) {
	if !amount.IsPositive() {
		return false, ErrNonPositiveAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if amount.GreaterThan(s.state.Balance) {
		return false, nil
	}

	next := s.state
	next.Balance = s.state.Balance.Sub(amount)
	next.Transactions = s.prepend(ledger.Transaction{
		Desc:   description,
		Amount: amount.Neg(),
		Date:   s.now().UTC(),
	})

	err := s.commit(ctx, next)
	if err != nil {
		return false, fmt.Errorf("spend: %w", err)
	}

	return true, nil
}

// Earn credits the balance unconditionally and logs a positive entry.
func (s *Service) Earn(ctx context.Context, amount decimal.Decimal, description string) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	next.Balance = s.state.Balance.Add(amount)
	next.Transactions = s.prepend(ledger.Transaction{
		Desc:   description,
		Amount: amount,
		Date:   s.now().UTC(),
	})

	err := s.commit(ctx, next)
	if err != nil {
		return fmt.Errorf("earn: %w", err)
	}

	return nil
}

// Reset returns the balance to the seed and clears the transaction log.
// The settlement cursor survives: wins credited before the reset stay
// settled and are never replayed.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := ledger.State{
		Balance:    ledger.SeedBalance,
		SettledIDs: s.state.SettledIDs,
	}

	err := s.commit(ctx, next)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	return nil
}

// prepend builds a new log with entry ahead of everything prior. The
// existing slice is never mutated, so a failed commit keeps the old log.
func (s *Service) prepend(entry ledger.Transaction) []ledger.Transaction {
	next := make([]ledger.Transaction, 0, len(s.state.Transactions)+1)
	next = append(next, entry)
	next = append(next, s.state.Transactions...)

	return next
}

// commit persists the candidate snapshot and only then installs it in
// memory. Caller must hold s.mu. A crash or save failure therefore
// reflects either the full mutation or none of it.
func (s *Service) commit(ctx context.Context, next ledger.State) error {
	err := s.store.Save(ctx, next)
	if err != nil {
		return fmt.Errorf("save wallet state: %w", err)
	}

	s.state = next

	return nil
}
