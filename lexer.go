// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsax

import "go4.org/mem"

// A lexer reads one lexical token per call to lex, tolerating chunk
// boundaries that fall in the middle of a token.
//
// When input runs out before a token is complete, the consumed prefix of the
// token is copied into the carry buffer and lex reports tokEOF. On the next
// call, bytes are served from the carry before the new window, so the token
// is re-scanned as if it were contiguous. Whitespace and (when enabled)
// comments are consumed silently and never reach the parser.
type lexer struct {
	allowComments bool
	validateUTF8  bool

	carry    carryBuf
	carrying bool // the carry holds the prefix of an unfinished token
	lastRead src  // source of the most recently read byte, for unread

	err LexError // kind of the last tokError

	// Payload of the last emitted token. For strings the surrounding quotes
	// are excluded. The view aliases either the caller's chunk or the carry
	// buffer and is valid only until the next call to lex.
	out    mem.RO
	outLen int
}

type src byte

const (
	srcWindow src = iota
	srcCarry
)

func newLexer(allowComments, validateUTF8 bool) *lexer {
	return &lexer{allowComments: allowComments, validateUTF8: validateUTF8}
}

func (l *lexer) reset() {
	l.carrying = false
	l.carry.reset()
	l.err = LexNoError
	l.out = mem.RO{}
	l.outLen = 0
}

// read returns the next input byte, draining the carry before the window.
// The caller must have checked w.remaining.
func (l *lexer) read(w *window) byte {
	if l.carrying && l.carry.remaining() > 0 {
		l.lastRead = srcCarry
		return l.carry.readByte()
	}
	l.lastRead = srcWindow
	return w.readByte()
}

// unread puts back the byte most recently returned by read.
func (l *lexer) unread(w *window) {
	if l.lastRead == srcCarry {
		l.carry.pos--
	} else {
		w.pos--
	}
}

// stringScan skips bytes whose class bits are all clear under mask, returning
// the position of the first byte needing individual attention.
func stringScan(data []byte, pos int, mask byte) int {
	for pos < len(data) && classTable[data[pos]]&mask == 0 {
		pos++
	}
	return pos
}

// lexUTF8 validates a possibly multi-byte UTF-8 sequence whose first byte is
// c. It reports tokString when the lead byte is followed by the number of
// continuation bytes it announces, tokEOF when input ran out mid-sequence, and
// tokError otherwise. Only this structure is checked: overlong encodings,
// encoded surrogates, and sequences above U+10FFFF are not rejected.
func (l *lexer) lexUTF8(w *window, c byte) token {
	switch {
	case c <= 0x7f:
		return tokString
	case c>>5 == 0x6: // two byte
		if w.remaining() == 0 {
			return tokEOF
		}
		if l.read(w)>>6 == 0x2 {
			return tokString
		}
	case c>>4 == 0xe: // three byte
		if w.remaining() == 0 {
			return tokEOF
		}
		if l.read(w)>>6 == 0x2 {
			if w.remaining() == 0 {
				return tokEOF
			}
			if l.read(w)>>6 == 0x2 {
				return tokString
			}
		}
	case c>>3 == 0x1e: // four byte
		if w.remaining() == 0 {
			return tokEOF
		}
		if l.read(w)>>6 == 0x2 {
			if w.remaining() == 0 {
				return tokEOF
			}
			if l.read(w)>>6 == 0x2 {
				if w.remaining() == 0 {
					return tokEOF
				}
				if l.read(w)>>6 == 0x2 {
					return tokString
				}
			}
		}
	}
	return tokError
}

// lexString scans the body of a string after the opening quote. On success
// the cursor rests just past the terminating quote.
func (l *lexer) lexString(w *window) token {
	tok := tokError
	hasEscapes := false
	mask := cInvalid | cStop
	if l.validateUTF8 {
		mask |= cUTF8
	}

loop:
	for {
		// Fast path: skip runs of ordinary characters in whichever source is
		// currently being read.
		if l.carrying && l.carry.remaining() > 0 {
			l.carry.pos = stringScan(l.carry.data, l.carry.pos, mask)
		} else if w.remaining() > 0 {
			w.pos = stringScan(w.data, w.pos, mask)
		}

		if w.remaining() == 0 {
			tok = tokEOF
			break
		}

		c := l.read(w)
		switch {
		case c == '"':
			tok = tokString
			break loop

		case c == '\\':
			hasEscapes = true
			if w.remaining() == 0 {
				tok = tokEOF
				break loop
			}
			c = l.read(w)
			if c == 'u' {
				for i := 0; i < 4; i++ {
					if w.remaining() == 0 {
						tok = tokEOF
						break loop
					}
					if classTable[l.read(w)]&cHex == 0 {
						l.unread(w) // rest at the offending byte
						l.err = LexStringInvalidHexChar
						break loop
					}
				}
			} else if classTable[c]&cEscape == 0 {
				l.unread(w)
				l.err = LexStringInvalidEscapedChar
				break loop
			}

		case classTable[c]&cInvalid != 0:
			l.unread(w)
			l.err = LexStringInvalidJSONChar
			break loop

		case l.validateUTF8:
			switch l.lexUTF8(w, c) {
			case tokEOF:
				tok = tokEOF
				break loop
			case tokError:
				l.err = LexStringInvalidUTF8
				break loop
			}
		}
	}

	if hasEscapes && tok == tokString {
		tok = tokStringEsc
	}
	return tok
}

// lexNumber scans a number from its first character. Numbers are the one
// token that must be read one byte beyond the end to detect termination; the
// terminator is pushed back before returning.
func (l *lexer) lexNumber(w *window) token {
	tok := tokInteger

	if w.remaining() == 0 {
		return tokEOF
	}
	c := l.read(w)

	// Optional leading minus.
	if c == '-' {
		if w.remaining() == 0 {
			return tokEOF
		}
		c = l.read(w)
	}

	// A single zero, or a nonzero digit followed by any digits.
	if c == '0' {
		if w.remaining() == 0 {
			return tokEOF
		}
		c = l.read(w)
	} else if c >= '1' && c <= '9' {
		for c >= '0' && c <= '9' {
			if w.remaining() == 0 {
				return tokEOF
			}
			c = l.read(w)
		}
	} else {
		l.unread(w)
		l.err = LexMissingIntegerAfterMinus
		return tokError
	}

	// Optional fraction.
	if c == '.' {
		readSome := false
		if w.remaining() == 0 {
			return tokEOF
		}
		c = l.read(w)
		for c >= '0' && c <= '9' {
			readSome = true
			if w.remaining() == 0 {
				return tokEOF
			}
			c = l.read(w)
		}
		if !readSome {
			l.unread(w)
			l.err = LexMissingIntegerAfterDecimal
			return tokError
		}
		tok = tokDouble
	}

	// Optional exponent.
	if c == 'e' || c == 'E' {
		if w.remaining() == 0 {
			return tokEOF
		}
		c = l.read(w)
		if c == '+' || c == '-' {
			if w.remaining() == 0 {
				return tokEOF
			}
			c = l.read(w)
		}
		if c >= '0' && c <= '9' {
			for c >= '0' && c <= '9' {
				if w.remaining() == 0 {
					return tokEOF
				}
				c = l.read(w)
			}
		} else {
			l.unread(w)
			l.err = LexMissingIntegerAfterExponent
			return tokError
		}
		tok = tokDouble
	}

	// We always go one byte too far.
	l.unread(w)
	return tok
}

// lexComment consumes a comment after its leading slash. Comments are not
// tokens: the caller resumes lexing when tokComment is returned.
func (l *lexer) lexComment(w *window) token {
	if w.remaining() == 0 {
		return tokEOF
	}
	c := l.read(w)

	switch c {
	case '/': // line comment, discard to end of line
		for {
			if w.remaining() == 0 {
				return tokEOF
			}
			if l.read(w) == '\n' {
				return tokComment
			}
		}
	case '*': // block comment, discard to "*/"
		for {
			if w.remaining() == 0 {
				return tokEOF
			}
			if l.read(w) != '*' {
				continue
			}
			if w.remaining() == 0 {
				return tokEOF
			}
			if l.read(w) == '/' {
				return tokComment
			}
			l.unread(w)
		}
	default:
		l.err = LexInvalidChar
		return tokError
	}
}

// lexKeyword matches the remaining bytes of true, false, or null.
func (l *lexer) lexKeyword(w *window, suffix string, tok token) token {
	for i := 0; i < len(suffix); i++ {
		if w.remaining() == 0 {
			return tokEOF
		}
		if l.read(w) != suffix[i] {
			l.unread(w)
			l.err = LexInvalidString
			return tokError
		}
	}
	return tok
}

// lex returns the next token from w, transparently resuming a token whose
// prefix was carried over from a previous chunk. On tokEOF the unfinished
// token's bytes have been saved to the carry; on any other non-error token
// l.out locates the payload.
func (l *lexer) lex(w *window) token {
	startOffset := w.pos
	l.out = mem.RO{}
	l.outLen = 0

	var tok token
lexing:
	for {
		if w.remaining() == 0 {
			tok = tokEOF
			break
		}
		c := l.read(w)

		switch c {
		case '{':
			tok = tokObjOpen
			break lexing
		case '}':
			tok = tokObjClose
			break lexing
		case '[':
			tok = tokArrayOpen
			break lexing
		case ']':
			tok = tokArrayClose
			break lexing
		case ',':
			tok = tokComma
			break lexing
		case ':':
			tok = tokColon
			break lexing
		case '\t', '\n', '\v', '\f', '\r', ' ':
			startOffset++
		case 't':
			tok = l.lexKeyword(w, "rue", tokBool)
			break lexing
		case 'f':
			tok = l.lexKeyword(w, "alse", tokBool)
			break lexing
		case 'n':
			tok = l.lexKeyword(w, "ull", tokNull)
			break lexing
		case '"':
			tok = l.lexString(w)
			break lexing
		case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			// Number scanning wants to start from the first character.
			l.unread(w)
			tok = l.lexNumber(w)
			break lexing
		case '/':
			if !l.allowComments {
				l.unread(w)
				l.err = LexUnallowedComment
				tok = tokError
				break lexing
			}
			tok = l.lexComment(w)
			if tok == tokComment {
				l.carry.reset()
				l.carrying = false
				startOffset = w.pos
				continue lexing
			}
			break lexing // error or EOF
		default:
			l.err = LexInvalidChar
			tok = tokError
			break lexing
		}
	}

	// Save to the carry when the token is unfinished, or finish assembling a
	// token that began in a previous chunk. Otherwise the payload aliases the
	// window directly (the zero-copy fast path).
	if tok == tokEOF || l.carrying {
		if !l.carrying {
			l.carry.reset()
			l.carrying = true
		}
		l.carry.appendBytes(w.data[startOffset:w.pos])
		l.carry.pos = 0
		if tok != tokEOF {
			l.out = mem.B(l.carry.data)
			l.outLen = len(l.carry.data)
			l.carrying = false // carry is released on the next token
		}
	} else if tok != tokError {
		l.out = mem.B(w.data[startOffset:w.pos])
		l.outLen = w.pos - startOffset
	}

	// Strings exclude the surrounding quotes from the payload.
	if tok == tokString || tok == tokStringEsc {
		l.out = l.out.SliceFrom(1)
		l.out = l.out.SliceTo(l.out.Len() - 1)
	}
	return tok
}
