// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsax

import "fmt"

// ParseError is the concrete type of errors reported for lexical errors,
// grammar violations, numeric overflow, and handler failures.
type ParseError struct {
	Msg    string // what went wrong
	Offset int64  // approximate input offset, in bytes from the first chunk
	Cause  error  // for handler failures, the error the handler returned
}

// Error satisfies the error interface.
func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (offset %d): %v", e.Msg, e.Offset, e.Cause)
	}
	return fmt.Sprintf("%s (offset %d)", e.Msg, e.Offset)
}

// Unwrap supports error wrapping.
func (e *ParseError) Unwrap() error { return e.Cause }
