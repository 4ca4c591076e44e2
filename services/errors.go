// services/errors.go - Error taxonomy shared by the lifecycle and review services
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers a missing record and a record not owned by the
	// caller; the two are deliberately indistinguishable to non-owners.
	ErrNotFound = errors.New("not found")

	// ErrAlreadySubmitted is returned when a submission is requested for an
	// idea that is already past the payment gate.
	ErrAlreadySubmitted = errors.New("idea already submitted")

	// ErrInvalidTransition is returned when a decision targets an idea that
	// exists but is not currently submitted.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidSignature is the webhook trust failure. Nothing past this
	// error may be treated as gateway-authentic.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrGatewayUnavailable means payment credentials are absent.
	ErrGatewayUnavailable = errors.New("payment gateway not configured")
)

// ValidationError is a user-fixable input error.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GatewayError wraps a processor-side rejection. Callers may retry; the
// conditional-update discipline makes retries safe.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
