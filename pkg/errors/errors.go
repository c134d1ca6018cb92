package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrSpamRejected indicates a submission dropped by the anti-spam guard
	ErrSpamRejected = errors.New("spam rejected")

	// ErrDeliveryFailed indicates the lead webhook could not be reached or
	// returned a non-success status
	ErrDeliveryFailed = errors.New("delivery failed")

	// ErrSubmissionInFlight indicates a submission for the same form is
	// already being processed
	ErrSubmissionInFlight = errors.New("submission already in flight")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// DeliveryError wraps a delivery failure with its cause
func DeliveryError(cause error) error {
	return fmt.Errorf("%w: %w", ErrDeliveryFailed, cause)
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
