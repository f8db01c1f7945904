package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidQuantity is returned for a non-positive stock decrement.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrNestedTransaction is returned when Transaction is called on a Store
	// that is already bound to a transaction.
	ErrNestedTransaction = errors.New("nested transactions are not supported")
)

// notFound converts gorm.ErrRecordNotFound into ErrNotFound with some context.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return fmt.Errorf("failed to get "+format+": %w", append(args, err)...)
}
