package cart

import "fmt"

// ValidationError reports bad input to a cart or pricing operation. The
// operation it came from has not been applied.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
