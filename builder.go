// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsax

import "errors"

// A TopLevelStrategy controls what the parser accepts after a complete
// top-level value.
type TopLevelStrategy byte

const (
	// SingleValue requires the input to end after one top-level value.
	// Trailing whitespace is accepted; anything else is "trailing garbage".
	// This is the default.
	SingleValue TopLevelStrategy = iota

	// AllowTrailingGarbage stops after one top-level value and leaves any
	// remaining input unexamined.
	AllowTrailingGarbage

	// AllowMultipleValues accepts any number of whitespace-separated
	// top-level values until the input ends.
	AllowMultipleValues
)

// A Builder configures and constructs a Parser. The zero value is not ready
// for use; call NewBuilder.
type Builder struct {
	allowComments       bool
	dontValidateStrings bool
	allowPartialValues  bool
	eachTokenHandled    bool
	topLevel            TopLevelStrategy

	h   handlers
	err error // first configuration error, reported by Build
}

// handlers is the full set of registered event handlers, shared between the
// builder and the parser it constructs.
type handlers struct {
	objectStart ObjectStartHandler
	objectEnd   ObjectEndHandler
	arrayStart  ArrayStartHandler
	arrayEnd    ArrayEndHandler
	objectKey   ObjectKeyHandler
	stringValue StringValueHandler
	boolean     BooleanHandler
	null        NullHandler
	number      NumberHandler
	integer     IntegerHandler
	floating    FloatingHandler
	resetHook   ResetHook
}

func (h *handlers) any() bool {
	return h.objectStart != nil || h.objectEnd != nil ||
		h.arrayStart != nil || h.arrayEnd != nil ||
		h.objectKey != nil || h.stringValue != nil ||
		h.boolean != nil || h.null != nil ||
		h.number != nil || h.integer != nil || h.floating != nil
	// intentionally without the reset hook
}

// NewBuilder returns a Builder with default options: strict strings, no
// comments, complete values only, every token must be handled, and a single
// top-level value.
func NewBuilder() *Builder { return &Builder{eachTokenHandled: true} }

// AllowComments sets whether JavaScript-style comments are consumed and
// discarded (true) or rejected as a lexical error (false, the default).
func (b *Builder) AllowComments(ok bool) *Builder { b.allowComments = ok; return b }

// DontValidateStrings disables UTF-8 well-formedness checking of string
// contents. By default strings are validated.
func (b *Builder) DontValidateStrings(ok bool) *Builder { b.dontValidateStrings = ok; return b }

// AllowPartialValues makes Finish succeed even when the input ends in the
// middle of a value.
func (b *Builder) AllowPartialValues(ok bool) *Builder { b.allowPartialValues = ok; return b }

// EachTokenMustBeHandled sets whether a token arriving with no registered
// handler is a configuration error (true, the default) or silently dropped.
func (b *Builder) EachTokenMustBeHandled(ok bool) *Builder { b.eachTokenHandled = ok; return b }

// TopLevel sets the strategy for input following a complete top-level value.
func (b *Builder) TopLevel(s TopLevelStrategy) *Builder { b.topLevel = s; return b }

// ObjectStartHandler registers h for "{" tokens.
func (b *Builder) ObjectStartHandler(h ObjectStartHandler) *Builder { b.h.objectStart = h; return b }

// ObjectEndHandler registers h for "}" tokens.
func (b *Builder) ObjectEndHandler(h ObjectEndHandler) *Builder { b.h.objectEnd = h; return b }

// ArrayStartHandler registers h for "[" tokens.
func (b *Builder) ArrayStartHandler(h ArrayStartHandler) *Builder { b.h.arrayStart = h; return b }

// ArrayEndHandler registers h for "]" tokens.
func (b *Builder) ArrayEndHandler(h ArrayEndHandler) *Builder { b.h.arrayEnd = h; return b }

// ObjectKeyHandler registers h for object keys.
func (b *Builder) ObjectKeyHandler(h ObjectKeyHandler) *Builder { b.h.objectKey = h; return b }

// StringValueHandler registers h for string values.
func (b *Builder) StringValueHandler(h StringValueHandler) *Builder { b.h.stringValue = h; return b }

// BooleanHandler registers h for true and false values.
func (b *Builder) BooleanHandler(h BooleanHandler) *Builder { b.h.boolean = h; return b }

// NullHandler registers h for null values.
func (b *Builder) NullHandler(h NullHandler) *Builder { b.h.null = h; return b }

// NumberHandler registers h to receive the raw text of every number value.
// It conflicts with IntegerHandler and FloatingHandler: the raw handler
// preserves text, the typed handlers parse, and the parser will not guess
// which the caller meant.
func (b *Builder) NumberHandler(h NumberHandler) *Builder {
	if h != nil && (b.h.integer != nil || b.h.floating != nil) {
		b.fail("a number handler conflicts with integer and floating handlers")
	}
	b.h.number = h
	return b
}

// IntegerHandler registers h for integer values. It conflicts with
// NumberHandler.
func (b *Builder) IntegerHandler(h IntegerHandler) *Builder {
	if h != nil && b.h.number != nil {
		b.fail("an integer handler conflicts with a number handler")
	}
	b.h.integer = h
	return b
}

// FloatingHandler registers h for floating-point values. It conflicts with
// NumberHandler.
func (b *Builder) FloatingHandler(h FloatingHandler) *Builder {
	if h != nil && b.h.number != nil {
		b.fail("a floating handler conflicts with a number handler")
	}
	b.h.floating = h
	return b
}

// ResetHook registers a hook invoked at the end of each Reset.
func (b *Builder) ResetHook(h ResetHook) *Builder { b.h.resetHook = h; return b }

func (b *Builder) fail(msg string) {
	if b.err == nil {
		b.err = errors.New("jsax: " + msg)
	}
}

// Build constructs the parser, reporting any configuration error recorded
// while the builder was populated. At least one token handler must be
// registered; the reset hook alone does not qualify.
func (b *Builder) Build() (*Parser, error) {
	if b.err != nil {
		return nil, b.err
	}
	if !b.h.any() {
		return nil, errors.New("jsax: at least one token handler must be registered")
	}
	p := &Parser{
		lex:              newLexer(b.allowComments, !b.dontValidateStrings),
		topLevel:         b.topLevel,
		allowPartial:     b.allowPartialValues,
		eachTokenHandled: b.eachTokenHandled,
		h:                b.h,
	}
	p.Reset()
	return p, nil
}
