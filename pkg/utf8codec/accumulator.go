package utf8codec

// Accumulator rebuilds code points from a stream of UTF-8 bytes, one byte
// at a time. The zero value is ready to use.
type Accumulator struct {
	remaining int
	value     rune
}

// Decode feeds one byte. It reports a code point once the sequence is
// complete. A malformed sequence yields RuneError and resets the state.
func (a *Accumulator) Decode(b byte) (rune, bool) {
	if a.remaining == 0 {
		switch {
		case b < 0x80:
			return rune(b), true
		case b&0xe0 == 0xc0:
			a.value = rune(b & 0x1f)
			a.remaining = 1
		case b&0xf0 == 0xe0:
			a.value = rune(b & 0x0f)
			a.remaining = 2
		case b&0xf8 == 0xf0:
			a.value = rune(b & 0x07)
			a.remaining = 3
		default:
			return RuneError, true
		}
		return 0, false
	}
	if b&0xc0 != 0x80 {
		a.Reset()
		return RuneError, true
	}
	a.value = a.value<<6 | rune(b&0x3f)
	a.remaining--
	if a.remaining > 0 {
		return 0, false
	}
	r := a.value
	a.value = 0
	return r, true
}

// Pending reports whether a multibyte sequence is incomplete.
func (a *Accumulator) Pending() bool {
	return a.remaining > 0
}

// Reset drops any partial sequence.
func (a *Accumulator) Reset() {
	a.remaining = 0
	a.value = 0
}

// Clone returns a copy of the accumulator state. Walkers branch on the
// state at every byte edge.
func (a Accumulator) Clone() *Accumulator {
	return &a
}
