// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsax

import (
	"errors"

	"go4.org/mem"
)

// Stop is a sentinel a handler may return to cancel parsing without error.
// When a handler returns Stop (or an error wrapping it), Parse returns
// (false, nil) and the parser refuses further input until Reset.
var Stop = errors.New("stop parsing")

// Handler functions receive parse events. A handler returns nil to continue,
// Stop to cancel parsing, or any other error to fail the parse; the error is
// preserved as the cause of the resulting *ParseError.
//
// mem.RO payloads are views into parser- or caller-owned storage and are
// valid only for the duration of the call; a handler that needs the bytes
// afterward must copy them.
type (
	// ObjectStartHandler is called for "{".
	ObjectStartHandler func() error

	// ObjectEndHandler is called for "}".
	ObjectEndHandler func() error

	// ArrayStartHandler is called for "[".
	ArrayStartHandler func() error

	// ArrayEndHandler is called for "]".
	ArrayEndHandler func() error

	// ObjectKeyHandler is called with each object key, unescaped, without
	// quotes.
	ObjectKeyHandler func(key mem.RO) error

	// StringValueHandler is called with each string value, unescaped, without
	// quotes. When the source contained no escapes the view aliases the input
	// bytes directly.
	StringValueHandler func(value mem.RO) error

	// BooleanHandler is called with each true or false value.
	BooleanHandler func(value bool) error

	// NullHandler is called for each null value.
	NullHandler func() error

	// NumberHandler is called with the raw text of each number value, exactly
	// as it appeared in the input. Registering it is mutually exclusive with
	// IntegerHandler and FloatingHandler.
	NumberHandler func(text mem.RO) error

	// IntegerHandler is called with each number value having no fraction or
	// exponent, parsed as a signed 64-bit integer.
	IntegerHandler func(value int64) error

	// FloatingHandler is called with each number value having a fraction or
	// exponent, parsed as an IEEE 754 binary64.
	FloatingHandler func(value float64) error

	// ResetHook is called at the end of each Reset. It does not count as a
	// token handler.
	ResetHook func()
)
