package parse

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the sentinel every parser failure unwraps to.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes a user-supplied value that could not be parsed.
type InputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid value %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// WithField attaches a form field name to err when it is an *InputError.
// Other errors are returned unchanged.
func WithField(err error, field string) error {
	var ie *InputError
	if errors.As(err, &ie) {
		cp := *ie
		cp.Field = field
		return &cp
	}
	return err
}

func invalid(value, reason string) error {
	return &InputError{Value: value, Reason: reason}
}
