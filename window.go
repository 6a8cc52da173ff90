// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsax

// A window is a positioned view over one input chunk. The caller owns the
// underlying bytes; a window is never retained across a Parse return except
// by explicit copy into the lexer's carry buffer.
type window struct {
	data []byte
	pos  int // read cursor; data[pos:] is unread
}

func newWindow(data []byte) window { return window{data: data} }

func (w *window) remaining() int { return len(w.data) - w.pos }

// readByte returns the byte at the cursor and advances. The caller must have
// checked remaining.
func (w *window) readByte() byte {
	b := w.data[w.pos]
	w.pos++
	return b
}

// A carryBuf stitches tokens across chunk boundaries. When the lexer runs out
// of input mid-token it appends the partial prefix here, and on the next
// chunk serves bytes from the carry before the new window, so a token always
// reads as if it were contiguous. Owned by the lexer; grows on demand and is
// never released until the parser is discarded.
type carryBuf struct {
	data []byte // valid bytes
	pos  int    // read cursor within data
}

const carryInitSize = 2048

// appendBytes adds p at the end of the valid region, growing capacity as
// needed.
func (c *carryBuf) appendBytes(p []byte) {
	if c.data == nil && len(p) > 0 {
		c.data = make([]byte, 0, max(carryInitSize, len(p)))
	}
	c.data = append(c.data, p...)
}

func (c *carryBuf) remaining() int { return len(c.data) - c.pos }

func (c *carryBuf) readByte() byte {
	b := c.data[c.pos]
	c.pos++
	return b
}

// reset empties the buffer, retaining capacity.
func (c *carryBuf) reset() {
	c.data = c.data[:0]
	c.pos = 0
}
