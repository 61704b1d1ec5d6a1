package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable signals that the provider store could not be reached or timed out.
	ErrStoreUnavailable = errors.New("provider store unavailable")
	// ErrInvalidQuery signals a malformed search request.
	ErrInvalidQuery = errors.New("invalid query")
)

// StoreUnavailableError wraps ErrStoreUnavailable with the underlying store fault.
type StoreUnavailableError struct {
	Err              error
	DeadlineExceeded bool
}

func (e *StoreUnavailableError) Error() string {
	if e.DeadlineExceeded {
		return fmt.Sprintf("%s: deadline exceeded: %v", ErrStoreUnavailable.Error(), e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrStoreUnavailable.Error(), e.Err)
}

// Unwrap exposes both the sentinel and the original cause.
func (e *StoreUnavailableError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStoreUnavailable}
	}
	return []error{ErrStoreUnavailable, e.Err}
}

// NewStoreUnavailable wraps a store fault. Errors that already carry ErrStoreUnavailable
// are returned as-is so the original cause is not wrapped twice.
func NewStoreUnavailable(err error) error {
	var sue *StoreUnavailableError
	if errors.As(err, &sue) {
		return err
	}
	return &StoreUnavailableError{
		Err:              err,
		DeadlineExceeded: errors.Is(err, context.DeadlineExceeded),
	}
}

// InvalidQueryError wraps ErrInvalidQuery with the offending field.
type InvalidQueryError struct {
	Field  string
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidQuery.Error(), e.Field, e.Reason)
}

func (e *InvalidQueryError) Unwrap() error { return ErrInvalidQuery }

// NewInvalidQuery creates an invalid query error for the given field.
func NewInvalidQuery(field, reason string) error {
	return &InvalidQueryError{Field: field, Reason: reason}
}
