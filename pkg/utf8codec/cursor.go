package utf8codec

// ByteCursor is a minimal read head over a byte slice.
type ByteCursor struct {
	data []byte
	pos  int
}

// NewByteCursor returns a cursor positioned on the first byte of data.
func NewByteCursor(data []byte) *ByteCursor {
	return &ByteCursor{data: data}
}

// Cur returns the byte under the cursor, or 0 when done.
func (c *ByteCursor) Cur() byte {
	if c.pos >= len(c.data) {
		return 0
	}
	return c.data[c.pos]
}

// Next advances and returns the new current byte.
func (c *ByteCursor) Next() byte {
	if c.pos < len(c.data) {
		c.pos++
	}
	return c.Cur()
}

// Done reports whether the cursor has consumed all bytes.
func (c *ByteCursor) Done() bool {
	return c.pos >= len(c.data)
}

// Pos returns the current offset.
func (c *ByteCursor) Pos() int {
	return c.pos
}

// DecodeRune reads one code point starting at the current byte and leaves
// the cursor on the byte after it. Truncated input yields RuneError.
func (c *ByteCursor) DecodeRune() rune {
	var acc Accumulator
	for !c.Done() {
		b := c.Cur()
		c.Next()
		if r, ok := acc.Decode(b); ok {
			return r
		}
	}
	return RuneError
}
