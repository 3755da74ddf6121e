package echo

import (
	"fmt"

	"github.com/pkg/errors"
)

// InternalError marks failures raised by the bot itself rather than by a remote service.
type InternalError struct {
	Cause error
}

func (m *InternalError) Error() string {
	return fmt.Sprintf("echo error: %v", m.Cause)
}

func (m *InternalError) Unwrap() error {
	return m.Cause
}

func NewInternalError(format string, args ...any) error {
	return &InternalError{Cause: errors.Errorf(format, args...)}
}

// WrapInternalError wraps err with a message. A nil err yields nil.
func WrapInternalError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &InternalError{Cause: errors.Wrap(err, message)}
}
