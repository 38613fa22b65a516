package session

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is matched by every TransitionError.
var ErrInvalidTransition = errors.New("invalid state transition")

// TransitionError reports an operation invoked from a state that does not allow it.
type TransitionError struct {
	Op   string
	From State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %v from %s", ErrInvalidTransition, e.Op, e.From)
}

// Unwrap lets errors.Is match ErrInvalidTransition.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
