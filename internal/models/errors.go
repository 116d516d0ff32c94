package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingName       = errors.New("name is required")
	ErrNegativeQuantity  = errors.New("quantity must not be negative")
	ErrNonPositiveAmount = errors.New("amount must be a positive integer")
	ErrUnknownDirection  = errors.New("direction must be add or deduct")
	ErrEmptySizeName     = errors.New("size name must not be empty")
	ErrSizeTotalMismatch = errors.New("quantity does not match the sum of size quantities")
	ErrSizeNotTracked    = errors.New("item does not track the given size")
	ErrSizeRequired      = errors.New("size is required for size-tracked items")
)

// ErrItemNotFound indicates the referenced item id is absent from the store.
var ErrItemNotFound = errors.New("item not found")

// ErrDuplicateName indicates another item already uses the name (maps to HTTP 409).
var ErrDuplicateName = errors.New("item name already in use")

// ErrVersionConflict indicates a concurrent mutation won the race under
// optimistic concurrency; callers should re-read and retry.
var ErrVersionConflict = errors.New("item was modified concurrently")

// ErrValueTooLong is the sentinel wrapped by every field length violation.
var ErrValueTooLong = errors.New("exceeds maximum length")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s %w of %d", field, ErrValueTooLong, maxLen)
}

// PartialFailureError reports that an item mutation became durable but its
// audit transaction did not. This is the most serious failure mode of the
// ledger and must never be collapsed into plain success or a generic error.
type PartialFailureError struct {
	Op     string
	ItemID string
	Err    error
}

// Error implements the error interface.
func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s on item %s: state changed but audit append failed: %v", e.Op, e.ItemID, e.Err)
}

// Unwrap returns the underlying append error.
func (e *PartialFailureError) Unwrap() error { return e.Err }

// IsPartialFailure reports whether err wraps a PartialFailureError.
func IsPartialFailure(err error) bool {
	var pf *PartialFailureError
	return errors.As(err, &pf)
}
