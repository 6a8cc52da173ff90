// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsax

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/creachadair/jsax/internal/escape"

	"go4.org/mem"
)

// A Parser is an event-driven JSON parser fed by arbitrary byte chunks.
// Construct one with a Builder, feed it with Parse, and terminate the stream
// with Finish. A Parser may be reused for any number of documents via Reset;
// its internal buffers are retained across documents, so steady-state parsing
// allocates only to convert floating-point values and to report errors.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	lex    *lexer
	states stateStack

	topLevel         TopLevelStrategy
	allowPartial     bool
	eachTokenHandled bool

	h handlers

	decodeBuf    []byte // reusable scratch for unescaped strings and keys
	parseErr     string // message for the sticky error states
	handlerCause error  // the error a failing handler returned
	consumed     int64  // bytes consumed by completed Parse calls
}

var finishSpace = []byte{' '}

// Parse consumes one chunk of input, invoking handlers for each complete
// token recognized. It returns (true, nil) when the chunk is exhausted,
// possibly mid-token (parsing resumes with the next call), and (false, nil)
// when a handler cancelled the parse by returning Stop. Lexical errors,
// grammar violations, and handler failures are reported as a *ParseError.
//
// After an error or a cancellation the parser is stuck: every further call
// fails until Reset is called. The exception is the configuration error for a
// token with no registered handler, which is not a *ParseError and leaves the
// parser state unchanged.
func (p *Parser) Parse(data []byte) (bool, error) {
	w := newWindow(data)
	ok, err := p.parse(&w)
	p.consumed += int64(w.pos)
	return ok, err
}

// Finish declares the end of input. It supplies a single synthetic space to
// force termination of a trailing number (the one token that is only
// complete when the byte past it is seen), then checks that the document is
// complete. An incomplete document is a "premature EOF" error unless the
// parser was built with AllowPartialValues.
func (p *Parser) Finish() (bool, error) {
	w := newWindow(finishSpace)
	ok, err := p.parse(&w)
	if err != nil {
		return false, err
	} else if !ok {
		return false, nil
	}
	switch p.states.top() {
	case stateParseComplete, stateGotValue:
		return true, nil
	}
	if p.allowPartial {
		return true, nil
	}
	p.states.replace(stateParseError)
	p.parseErr = "premature EOF"
	return false, &ParseError{Msg: p.parseErr, Offset: p.consumed}
}

// Close implements io.Closer by calling Finish and discarding its boolean.
func (p *Parser) Close() error {
	_, err := p.Finish()
	return err
}

// Reset returns the parser to its initial state so it can parse a new
// document, then invokes the reset hook if one is registered. Internal buffer
// capacity is retained.
func (p *Parser) Reset() {
	p.lex.reset()
	p.states.clear()
	p.states.push(stateStart)
	p.parseErr = ""
	p.handlerCause = nil
	p.consumed = 0
	if p.h.resetHook != nil {
		p.h.resetHook()
	}
}

// Depth reports the number of currently open containers.
func (p *Parser) Depth() int { return p.states.depth() - 1 }

// deliver translates a handler's return into parser state: nil continues,
// Stop sticks the parser in the cancelled state, and any other error sticks
// it in the handler-error state.
func (p *Parser) deliver(w *window, err error) (cancel bool, fail error) {
	if err == nil {
		return false, nil
	}
	if errors.Is(err, Stop) {
		p.states.replace(stateHandlerCancel)
		return true, nil
	}
	p.states.replace(stateHandlerError)
	p.handlerCause = err
	return false, &ParseError{Msg: "error in handler", Offset: p.offset(w), Cause: err}
}

// unhandled reports a configuration error for a token that arrived with no
// registered handler, when the parser is configured to require one. The
// parser state is deliberately left alone: the condition is a programming
// error, not an input error.
func (p *Parser) unhandled(tok token) error {
	if p.eachTokenHandled {
		return fmt.Errorf("jsax: no handler registered for %v token", tok)
	}
	return nil
}

// offset reports the absolute input offset of the current cursor.
func (p *Parser) offset(w *window) int64 { return p.consumed + int64(w.pos) }

// stringPayload returns the decoded payload for a string or key token,
// undoing escapes into the parser's scratch buffer when needed. The view is
// valid only until the next token.
func (p *Parser) stringPayload(tok token) mem.RO {
	if tok == tokStringEsc {
		p.decodeBuf = escape.Decode(p.decodeBuf[:0], p.lex.out)
		return mem.B(p.decodeBuf)
	}
	return p.lex.out
}

// tryRestoreErrorEffect rewinds the window to the start of the offending
// token so the reported offset points at it. Best effort: if the token
// started in a previous chunk the window rewinds to the chunk start.
func (p *Parser) tryRestoreErrorEffect(w *window, startOffset int) {
	if w.pos-startOffset >= p.lex.outLen {
		w.pos -= p.lex.outLen
	} else {
		w.pos = startOffset
	}
}

// parse runs the state machine over one window. The loop structure mirrors
// the grammar: the state on top of the stack says what class of token is
// acceptable next, value tokens transition it, container opens push, and
// container closes pop.
func (p *Parser) parse(w *window) (bool, error) {
	startOffset := w.pos

	for {
		switch top := p.states.top(); top {
		case stateParseComplete:
			switch p.topLevel {
			case AllowMultipleValues:
				p.states.replace(stateGotValue)
				continue
			case AllowTrailingGarbage:
				return true, nil
			}
			// A single value only: anything but whitespace after it is an
			// error. The lexer skips whitespace, so a clean end lexes as EOF.
			if w.remaining() > 0 {
				if tok := p.lex.lex(w); tok != tokEOF {
					p.states.replace(stateParseError)
					p.parseErr = "trailing garbage"
				}
				continue
			}
			return true, nil

		case stateLexicalError:
			return false, &ParseError{
				Msg:    "lexical error: " + p.lex.err.String(),
				Offset: p.offset(w),
			}

		case stateParseError:
			return false, &ParseError{Msg: p.parseErr, Offset: p.offset(w)}

		case stateHandlerCancel:
			return false, errors.New("jsax: parse was cancelled by a handler; Reset to continue")

		case stateHandlerError:
			return false, &ParseError{
				Msg:    "error in handler",
				Offset: p.offset(w),
				Cause:  p.handlerCause,
			}

		case stateStart, stateGotValue, stateMapNeedVal, stateArrayNeedVal, stateArrayStart:
			// A value is expected. Container opens push the state of the new
			// depth after the current depth's state has been advanced; if the
			// nested entity fails to parse, the state at this level no longer
			// matters.
			stateToPush := stateStart

			tok := p.lex.lex(w)
			switch tok {
			case tokEOF:
				return true, nil

			case tokError:
				p.states.replace(stateLexicalError)
				continue

			case tokString, tokStringEsc:
				if h := p.h.stringValue; h != nil {
					if cancel, err := p.deliver(w, h(p.stringPayload(tok))); cancel || err != nil {
						return false, err
					}
				} else if err := p.unhandled(tok); err != nil {
					return false, err
				}

			case tokBool:
				if h := p.h.boolean; h != nil {
					if cancel, err := p.deliver(w, h(p.lex.out.At(0) == 't')); cancel || err != nil {
						return false, err
					}
				} else if err := p.unhandled(tok); err != nil {
					return false, err
				}

			case tokNull:
				if h := p.h.null; h != nil {
					if cancel, err := p.deliver(w, h()); cancel || err != nil {
						return false, err
					}
				} else if err := p.unhandled(tok); err != nil {
					return false, err
				}

			case tokObjOpen:
				if h := p.h.objectStart; h != nil {
					if cancel, err := p.deliver(w, h()); cancel || err != nil {
						return false, err
					}
				} else if err := p.unhandled(tok); err != nil {
					return false, err
				}
				stateToPush = stateMapStart

			case tokArrayOpen:
				if h := p.h.arrayStart; h != nil {
					if cancel, err := p.deliver(w, h()); cancel || err != nil {
						return false, err
					}
				} else if err := p.unhandled(tok); err != nil {
					return false, err
				}
				stateToPush = stateArrayStart

			case tokInteger:
				if h := p.h.number; h != nil {
					if cancel, err := p.deliver(w, h(p.lex.out)); cancel || err != nil {
						return false, err
					}
				} else if h := p.h.integer; h != nil {
					v, ok := parseInteger(p.lex.out)
					if !ok {
						p.states.replace(stateParseError)
						p.parseErr = "integer overflow"
						p.tryRestoreErrorEffect(w, startOffset)
						continue
					}
					if cancel, err := p.deliver(w, h(v)); cancel || err != nil {
						return false, err
					}
				} else if err := p.unhandled(tok); err != nil {
					return false, err
				}

			case tokDouble:
				if h := p.h.number; h != nil {
					if cancel, err := p.deliver(w, h(p.lex.out)); cancel || err != nil {
						return false, err
					}
				} else if h := p.h.floating; h != nil {
					v, ok := parseFloating(p.lex.out)
					if !ok {
						p.states.replace(stateParseError)
						p.parseErr = "numeric (floating point) overflow"
						p.tryRestoreErrorEffect(w, startOffset)
						continue
					}
					if cancel, err := p.deliver(w, h(v)); cancel || err != nil {
						return false, err
					}
				} else if err := p.unhandled(tok); err != nil {
					return false, err
				}

			case tokArrayClose:
				if top == stateArrayStart {
					// Empty array.
					if h := p.h.arrayEnd; h != nil {
						if cancel, err := p.deliver(w, h()); cancel || err != nil {
							return false, err
						}
					} else if err := p.unhandled(tok); err != nil {
						return false, err
					}
					p.states.pop()
					continue
				}
				fallthrough
			case tokObjClose, tokComma, tokColon:
				p.states.replace(stateParseError)
				p.parseErr = "unallowed token at this point in JSON text"
				continue

			default:
				p.states.replace(stateParseError)
				p.parseErr = "invalid token, internal error"
				continue
			}

			// Got a value: advance the state at this depth, then enter the
			// container if the value opened one.
			switch p.states.top() {
			case stateStart, stateGotValue:
				p.states.replace(stateParseComplete)
			case stateMapNeedVal:
				p.states.replace(stateMapGotVal)
			default:
				p.states.replace(stateArrayGotVal)
			}
			if stateToPush != stateStart {
				p.states.push(stateToPush)
			}
			continue

		case stateMapStart, stateMapNeedKey:
			// The only difference between these states: in stateMapStart a
			// "}" is valid (empty object), whereas after a comma a key must
			// follow.
			tok := p.lex.lex(w)
			switch tok {
			case tokEOF:
				return true, nil

			case tokError:
				p.states.replace(stateLexicalError)
				continue

			case tokString, tokStringEsc:
				if h := p.h.objectKey; h != nil {
					if cancel, err := p.deliver(w, h(p.stringPayload(tok))); cancel || err != nil {
						return false, err
					}
				} else if err := p.unhandled(tok); err != nil {
					return false, err
				}
				p.states.replace(stateMapSep)
				continue

			case tokObjClose:
				if top == stateMapStart {
					if h := p.h.objectEnd; h != nil {
						if cancel, err := p.deliver(w, h()); cancel || err != nil {
							return false, err
						}
					} else if err := p.unhandled(tok); err != nil {
						return false, err
					}
					p.states.pop()
					continue
				}
				fallthrough
			default:
				p.states.replace(stateParseError)
				p.parseErr = "invalid object key (must be a string)"
				continue
			}

		case stateMapSep:
			switch tok := p.lex.lex(w); tok {
			case tokColon:
				p.states.replace(stateMapNeedVal)
				continue
			case tokEOF:
				return true, nil
			case tokError:
				p.states.replace(stateLexicalError)
				continue
			default:
				p.states.replace(stateParseError)
				p.parseErr = "object key and value must be separated by a colon (':')"
				continue
			}

		case stateMapGotVal:
			switch tok := p.lex.lex(w); tok {
			case tokObjClose:
				if h := p.h.objectEnd; h != nil {
					if cancel, err := p.deliver(w, h()); cancel || err != nil {
						return false, err
					}
				} else if err := p.unhandled(tok); err != nil {
					return false, err
				}
				p.states.pop()
				continue
			case tokComma:
				p.states.replace(stateMapNeedKey)
				continue
			case tokEOF:
				return true, nil
			case tokError:
				p.states.replace(stateLexicalError)
				continue
			default:
				p.states.replace(stateParseError)
				p.parseErr = "after key and value, inside map, I expect ',' or '}'"
				p.tryRestoreErrorEffect(w, startOffset)
				continue
			}

		case stateArrayGotVal:
			switch tok := p.lex.lex(w); tok {
			case tokArrayClose:
				if h := p.h.arrayEnd; h != nil {
					if cancel, err := p.deliver(w, h()); cancel || err != nil {
						return false, err
					}
				} else if err := p.unhandled(tok); err != nil {
					return false, err
				}
				p.states.pop()
				continue
			case tokComma:
				p.states.replace(stateArrayNeedVal)
				continue
			case tokEOF:
				return true, nil
			case tokError:
				p.states.replace(stateLexicalError)
				continue
			default:
				p.states.replace(stateParseError)
				p.parseErr = "after array element, I expect ',' or ']'"
				continue
			}
		}
	}
}

// parseInteger converts a lexically valid integer token to int64. It
// accumulates in the negative domain so that the minimum value is
// representable before the final negation; overflow past either limit
// reports ok == false.
func parseInteger(s mem.RO) (v int64, ok bool) {
	neg := false
	cutLim := int64(math.MaxInt64 % 10)
	i := 0
	c := s.At(0)
	if c == '-' {
		neg = true
		cutLim++
		i = 1
		c = s.At(1)
	}
	ret := int64(c - '0')
	i++
	if ret == 0 {
		// A lone zero; the grammar forbids further digits after it.
		return 0, true
	}
	ret = -ret
	const cutoff = -math.MaxInt64 / 10
	for ; i < s.Len(); i++ {
		d := int64(s.At(i) - '0')
		if ret < cutoff || (ret == cutoff && d > cutLim) {
			return 0, false
		}
		ret = 10*ret - d
	}
	if neg {
		return ret, true
	}
	return -ret, true
}

// parseFloating converts a lexically valid number token to float64.
// Overflow to infinity reports ok == false; underflow to zero is accepted.
func parseFloating(s mem.RO) (float64, bool) {
	v, err := strconv.ParseFloat(s.StringCopy(), 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && math.IsInf(v, 0) {
			return 0, false
		}
		if !errors.Is(err, strconv.ErrRange) {
			// The lexer guarantees syntax; range is the only possible error.
			return 0, false
		}
	}
	return v, true
}
