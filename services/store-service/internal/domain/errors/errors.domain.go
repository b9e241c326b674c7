// services/store-service/internal/domain/errors/errors.domain.go
package errors

import "errors"

// Standard Sentinel Errors
// Stores translate driver errors into these and services wrap them with
// fmt.Errorf("...: %w"), so the transport layer maps them with errors.Is
// (e.g., ErrInsufficientStock -> 409 Conflict).

var (
	// Ledger Errors
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrSaleAlreadyReversed = errors.New("sale already reversed")

	// Lookup / Uniqueness Errors
	ErrNotFound       = errors.New("entity not found")
	ErrDuplicateEmail = errors.New("email already exists")

	// System/Validation Errors
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrReferentialIntegrity = errors.New("entity is still referenced")
	ErrTransient            = errors.New("transient storage failure")
)
