// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package fix implements an event-driven scanner for FIX protocol messages.
//
// A FIX message is a sequence of fields, each "<tag>=<value>" terminated by
// the SOH byte (0x01). The scanner splits chunks of message bytes into
// (tag, value) pairs and delivers them to a handler, with value bytes
// exposed as zero-copy views into the caller's chunk.
package fix

import (
	"errors"
	"fmt"

	"go4.org/mem"
)

// soh is the FIX field terminator.
const soh = 0x01

// A Handler receives one field per call. The value view borrows the caller's
// chunk and is valid only for the duration of the call. Returning a non-nil
// error stops the scan; the error is propagated to the Parse caller.
type Handler func(tag uint64, value mem.RO) error

// A Parser splits FIX message bytes into field events. The zero value is not
// ready for use; call New.
type Parser struct {
	h Handler
}

// New constructs a Parser delivering fields to h.
func New(h Handler) *Parser { return &Parser{h: h} }

// Parse scans data for complete fields and invokes the handler for each. A
// trailing field whose terminator has not arrived yet is not delivered: it
// is returned as rest, a suffix of data for the caller to prepend to the
// next chunk. Tags are non-negative decimal integers; a field that does not
// start with "digits =" stops the scan with an error.
func (p *Parser) Parse(data []byte) (rest []byte, err error) {
	// Exclude the trailing partial field, if any, from the scan.
	end := len(data)
	for end > 0 && data[end-1] != soh {
		end--
	}
	rest = data[end:]

	pos := 0
	for pos < end {
		tag, n, err := parseTag(data[pos:end])
		if err != nil {
			return data[pos:], err
		}
		pos += n

		start := pos
		for data[pos] != soh {
			pos++ // the scan region ends with a terminator, so this halts
		}
		if err := p.h(tag, mem.B(data[start:pos])); err != nil {
			return data[pos+1:], err
		}
		pos++
	}
	return rest, nil
}

// parseTag reads a decimal tag and its "=" separator from the front of data,
// returning the tag and the number of bytes consumed.
func parseTag(data []byte) (tag uint64, n int, err error) {
	for n < len(data) && data[n] >= '0' && data[n] <= '9' {
		tag = 10*tag + uint64(data[n]-'0')
		n++
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("fix: malformed field tag %q", data[0])
	}
	if n >= len(data) || data[n] != '=' {
		return 0, 0, errors.New("fix: field tag is not followed by '='")
	}
	return tag, n + 1, nil
}
