package types

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")
)

// FraudRejectionError is returned when the fraud gate blocks a booking.
type FraudRejectionError struct {
	Score  int
	Reason string
}

func (e *FraudRejectionError) Error() string {
	return fmt.Sprintf("booking rejected by fraud gate: score %d (%s)", e.Score, e.Reason)
}

func (e *FraudRejectionError) Unwrap() error {
	return ErrForbidden
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Message strips the sentinel prefix so the remaining text can be shown to callers.
func Message(err error) string {
	for _, sentinel := range []error{ErrNotFound, ErrValidation, ErrForbidden} {
		prefix := sentinel.Error() + ": "
		msg := err.Error()
		if errors.Is(err, sentinel) && len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return err.Error()
}
