package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnknownWarehouse = errors.New("unknown warehouse")
	ErrUnknownProduct   = errors.New("unknown product")
	ErrUnknownOrder     = errors.New("unknown order")
	ErrNotCancellable   = errors.New("order is not cancellable")

	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrTxConflict marks a storage-level conflict (deadlock, lock wait
	// timeout) that aborted before commit; retrying the whole operation
	// is safe.
	ErrTxConflict = errors.New("transaction conflict")

	// ErrAmbiguous marks a commit whose outcome is unknown. Never retried:
	// the order may or may not exist, which requires manual reconciliation.
	ErrAmbiguous = errors.New("ambiguous commit result")
)

// InsufficientStockError names the product whose reservation failed.
// Matchable with errors.Is(err, ErrInsufficientStock).
type InsufficientStockError struct {
	ProductID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d", e.ProductID)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
