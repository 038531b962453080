package ams

import "fmt"

// FormatError is returned when a NetID string cannot be parsed.
type FormatError struct {
	// Input is the offending string
	Input string
	// Reason describes what was wrong with it
	Reason string
	// Underlying parse error, if any
	Err error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid NetID %q: %s: %v", e.Input, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid NetID %q: %s", e.Input, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// InvariantError reports a violated internal precondition. It is never the
// result of bad network input and is not meant to be handled; callers either
// propagate it or panic with it.
type InvariantError struct {
	// Op is the operation whose precondition failed
	Op string
	// Detail explains the violation
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated in %s: %s", e.Op, e.Detail)
}
