package helper

import (
	"fmt"
	"strings"
)

// Error wraps an error together with the steps it travelled through.
// The trace is ordered from the innermost step to the outermost one.
type Error struct {
	Original error
	Trace    []string
}

// NewError wraps err with the given step. If err itself is an Error,
// the step is appended to its trace instead of nesting a new one.
// An Error inside another wrapper is nested so the wrapper stays in the chain.
func NewError(step string, err error) error {
	if err == nil {
		return nil
	}

	if e, ok := err.(*Error); ok {
		trace := make([]string, len(e.Trace), len(e.Trace)+1)
		copy(trace, e.Trace)
		return &Error{
			Original: e.Original,
			Trace:    append(trace, step),
		}
	}

	return &Error{
		Original: err,
		Trace:    []string{step},
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if len(e.Trace) == 0 {
		return e.Original.Error()
	}
	return fmt.Sprintf("%s: %v", strings.Join(reversed(e.Trace), ": "), e.Original)
}

// Unwrap returns the original error so errors.Is and errors.As keep working
func (e *Error) Unwrap() error {
	return e.Original
}

func reversed(s []string) []string {
	r := make([]string, len(s))
	for i, v := range s {
		r[len(s)-1-i] = v
	}
	return r
}
