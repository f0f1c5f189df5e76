package types

import "errors"

// Store lifecycle errors.
var (
	ErrDetached          = errors.New("store is detached")
	ErrAlreadyAttached   = errors.New("store is already attached")
	ErrInsufficientSpace = errors.New("not enough free space in data directory")
)

// Record operation errors.
var (
	ErrNotFound         = errors.New("record not found")
	ErrNilRecord        = errors.New("record is nil")
	ErrInvalidKind      = errors.New("invalid record kind")
	ErrDuplicateID      = errors.New("duplicate record id")
	ErrIDSpaceExhausted = errors.New("no free id left for kind")
	ErrUnknownField     = errors.New("unknown field")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrInvalidDate      = errors.New("invalid date")
	ErrUnknownOrdering  = errors.New("unknown ordering key")
)

// Warehouse stock errors.
var (
	ErrCapacityExceeded  = errors.New("warehouse capacity exceeded")
	ErrInvalidQuantity   = errors.New("quantity must not be negative")
	ErrProductAbsent     = errors.New("product not stocked in warehouse")
	ErrInsufficientStock = errors.New("not enough stock to remove")
)

// Authentication errors.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
)
