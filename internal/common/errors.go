// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound indicates a bill, category, payment, or wallet reference is missing.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a record failed validation before persistence.
	ErrValidation = errors.New("validation failed")
	// ErrStorage indicates an underlying persistence I/O failure.
	ErrStorage = errors.New("storage error")
	// ErrLedgerInconsistency indicates a bill was marked paid but the matching
	// ledger transaction could not be confirmed. Logged distinctly from
	// ordinary storage errors so reconciliation tooling can find it.
	ErrLedgerInconsistency = errors.New("ledger transaction missing for recorded payment")

	// ErrMissingConfig indicates required configuration is absent.
	ErrMissingConfig = errors.New("missing configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrStorage) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
