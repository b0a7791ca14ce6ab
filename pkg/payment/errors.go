package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCard is returned when no single ledger record matches the credentials.
	ErrInvalidCard = errors.New("invalid card")

	// ErrInsufficientFunds is matched by every *InsufficientFundsError.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrTimeout is returned when a ledger call does not complete in time. It is never retried.
	ErrTimeout = errors.New("payment timed out")

	// ErrStoreUnavailable wraps a storage error kind from the ledger.
	ErrStoreUnavailable = errors.New("payment store unavailable")
)

// InsufficientFundsError carries the balance observed when the charge was refused.
type InsufficientFundsError struct {
	Balance int64
	Price   int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %d is below price %d", e.Balance, e.Price)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}
