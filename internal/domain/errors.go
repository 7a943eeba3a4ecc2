package domain

import "github.com/cockroachdb/errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrItemNotFound      = errors.New("item not found")
	ErrCartEntryNotFound = errors.New("cart entry not found")
	ErrApprovalNotFound  = errors.New("approval not found")
	ErrEmptyCart         = errors.New("cart is empty")
)

// IsNotFound reports whether err is one of the recoverable miss conditions.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrCartEntryNotFound) ||
		errors.Is(err, ErrApprovalNotFound)
}
