package wallet

import "errors"

var (
	// ErrNonPositiveAmount is returned by Spend and Earn for zero or
	// negative amounts; nothing is mutated.
	ErrNonPositiveAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds is what an HTTP layer should map a refused
	// spend to. Spend itself reports refusal through its boolean, not
	// through this error.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
