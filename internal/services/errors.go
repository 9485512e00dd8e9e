package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrNotFound          = errors.New("not found")
	ErrProductNotFound   = errors.New("product not found in inventory")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateProduct  = errors.New("a product with similar brand and product details already exists")
	ErrCustomerConflict  = errors.New("customer name already registered")
	ErrStoreFailure      = errors.New("database transaction failed")
)

// StockError reports the product that could not be covered and what was on hand.
type StockError struct {
	Product   string
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s. Available: %d", e.Product, e.Available)
}

func (e *StockError) Is(target error) bool { return target == ErrInsufficientStock }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func storeFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreFailure, err)
}
