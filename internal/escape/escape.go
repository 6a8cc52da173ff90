// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package escape handles decoding and encoding of JSON string escapes.
package escape

import (
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Decode appends to dst the unescaped form of a JSON string body whose
// enclosing quotation marks have been removed, and returns the extended
// buffer. The input must already be lexically valid: every backslash is
// followed by a legal escape and every \u escape has four hex digits.
// Decode panics if that precondition is violated.
//
// A \uXXXX escape denotes a UTF-16 code unit. A valid surrogate pair is
// combined into the code point it denotes; an unpaired surrogate half
// becomes U+FFFD.
func Decode(dst []byte, src mem.RO) []byte {
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(dst, src)
	}
	for {
		// Blit everything up to the escape, then substitute.
		dst = mem.Append(dst, src.SliceTo(i))
		src = src.SliceFrom(i + 1)

		switch c := src.At(0); c {
		case '"', '\\', '/':
			dst = append(dst, c)
			src = src.SliceFrom(1)
		case 'b':
			dst = append(dst, '\b')
			src = src.SliceFrom(1)
		case 'f':
			dst = append(dst, '\f')
			src = src.SliceFrom(1)
		case 'n':
			dst = append(dst, '\n')
			src = src.SliceFrom(1)
		case 'r':
			dst = append(dst, '\r')
			src = src.SliceFrom(1)
		case 't':
			dst = append(dst, '\t')
			src = src.SliceFrom(1)
		case 'u':
			r := rune(hex4(src.SliceFrom(1)))
			src = src.SliceFrom(5)
			if utf16.IsSurrogate(r) {
				if src.Len() >= 6 && src.At(0) == '\\' && src.At(1) == 'u' {
					r2 := rune(hex4(src.SliceFrom(2)))
					if c := utf16.DecodeRune(r, r2); c != utf8.RuneError {
						r = c
						src = src.SliceFrom(6)
					} else {
						r = utf8.RuneError
					}
				} else {
					r = utf8.RuneError
				}
			}
			dst = utf8.AppendRune(dst, r)
		default:
			panic("escape: invalid escape sequence")
		}

		i = mem.IndexByte(src, '\\')
		if i < 0 {
			return mem.Append(dst, src)
		}
	}
}

// hex4 decodes four case-insensitive hex digits.
func hex4(src mem.RO) (v int) {
	for i := 0; i < 4; i++ {
		b := src.At(i)
		v <<= 4
		switch {
		case b >= '0' && b <= '9':
			v += int(b - '0')
		case b >= 'a' && b <= 'f':
			v += int(b-'a') + 10
		case b >= 'A' && b <= 'F':
			v += int(b-'A') + 10
		default:
			panic("escape: invalid hex digit")
		}
	}
	return
}

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Quote encodes a string to escape characters for inclusion in a JSON string.
func Quote(src mem.RO) []byte {
	buf := make([]byte, 0, src.Len())
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		if r < utf8.RuneSelf {
			if r < ' ' {
				if b := controlEsc[r]; b != 0 {
					buf = append(buf, '\\', b)
				} else {
					buf = append(buf, '\\', 'u', '0', '0', hexDigit[int(r>>4)], hexDigit[int(r&15)])
				}
			} else if r == '\\' || r == '"' {
				buf = append(buf, '\\', byte(r))
			} else {
				buf = append(buf, byte(r))
			}
			src = src.SliceFrom(n)
			continue
		}

		switch r {
		case '\ufffd': // replacement rune
			buf = append(buf, `\ufffd`...)
		case '\u2028': // line separator
			buf = append(buf, `\u2028`...)
		case '\u2029': // paragraph separator
			buf = append(buf, `\u2029`...)
		default:
			var rbuf [6]byte
			n := utf8.EncodeRune(rbuf[:], r)
			buf = append(buf, rbuf[:n]...)
		}

		src = src.SliceFrom(n)
	}
	return buf
}
