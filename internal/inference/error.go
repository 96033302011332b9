package inference

import (
	"errors"
	"fmt"
)

var (
	ErrCellOutOfBounds = errors.New("cell out of bounds")
	ErrInvalidCount    = errors.New("invalid mine count")
	ErrInconsistent    = errors.New("knowledge base is inconsistent")
)

// AssertionError is panicked when an internal invariant breaks. Public engine
// methods recover it and report it wrapped in [ErrInconsistent].
type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}

func (e AssertionError) Unwrap() error {
	return ErrInconsistent
}

// panics [AssertionError]
func assertf(ok bool, format string, args ...any) {
	if !ok {
		panic(AssertionError{fmt.Sprintf(format, args...)})
	}
}

// recoverAssertion turns an [AssertionError] panic into *err. Any other panic
// is re-raised.
func recoverAssertion(err *error) {
	r := recover()
	if r == nil {
		return
	}
	var ae AssertionError
	if e, ok := r.(error); ok && errors.As(e, &ae) {
		*err = fmt.Errorf("%w: %s", ErrInconsistent, ae.message)
		return
	}
	panic(r)
}
