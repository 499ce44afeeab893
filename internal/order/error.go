package order

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyOrder      = errors.New("order has no items")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrOrderNotFound   = errors.New("order not found")
)

// LineItemNotFoundError aborts the whole placement when one requested menu
// item does not exist.
type LineItemNotFoundError struct {
	MenuID int64
}

func (e *LineItemNotFoundError) Error() string {
	return fmt.Sprintf("menu item %d not found", e.MenuID)
}
