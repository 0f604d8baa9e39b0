package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNoItems is returned when an order is created with an empty item list.
	ErrNoItems = errors.New("order must contain at least one item")
	// ErrItemQuantityInvalid is returned when an item quantity is not positive.
	ErrItemQuantityInvalid = errors.New("item quantity must be greater than zero")
)

// ProductNotFoundError aborts order creation when a referenced product id
// does not resolve to a catalog row. No partial order is ever written.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %d", e.ProductID)
}

// InvalidStatusError reports a status value outside the closed enumeration.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status: %q", e.Status)
}

// IsProductNotFound reports whether err is a ProductNotFoundError.
func IsProductNotFound(err error) bool {
	var target *ProductNotFoundError
	return errors.As(err, &target)
}

// IsInvalidStatus reports whether err is an InvalidStatusError.
func IsInvalidStatus(err error) bool {
	var target *InvalidStatusError
	return errors.As(err, &target)
}
