/*
Package utf8codec packs Unicode code points into 32-bit UTF-8 words.

A packed word holds the UTF-8 bytes of one code point. The big-endian form
keeps the lead byte in the most significant used byte, so packed values sort
the same way the byte sequences do:

	'é' (U+00E9) -> 0xc3a9

The reversed (little-endian) form stores the lead byte in the lowest byte,
which lets a writer emit bytes by shifting right until the value is zero:

	'é' (U+00E9) -> 0xa9c3

The package also exposes an incremental byte Accumulator and a ByteCursor
read head used by the binary trie loader.
*/
package utf8codec

import (
	"fmt"
	"unicode/utf8"
)

// Invalid input decodes to the replacement character.
const RuneError = utf8.RuneError

// PackRune packs a code point big-endian style.
func PackRune(code rune) uint32 {
	c := uint32(code)
	switch {
	case code < 0:
		return PackRune(RuneError)
	case c < 0x80:
		return c
	case c < 0x800:
		return 0xc080 | ((c & 0x7c0) << 2) | (c & 0x3f)
	case c < 0x10000:
		return 0xe08080 | ((c & 0xf000) << 4) | ((c & 0x0fc0) << 2) | (c & 0x3f)
	case c <= utf8.MaxRune:
		return 0xf0808080 | ((c & 0x1c0000) << 6) | ((c & 0x03f000) << 4) | ((c & 0x0fc0) << 2) | (c & 0x3f)
	}
	return PackRune(RuneError)
}

// UnpackRune unpacks a big-endian packed value.
func UnpackRune(v uint32) rune {
	switch {
	case v < 0x80:
		return rune(v)
	case v&0xffffe0c0 == 0xc080:
		r := rune(((v & 0x1f00) >> 2) | (v & 0x3f))
		if r < 0x80 {
			return RuneError
		}
		return r
	case v&0xfff0c0c0 == 0xe08080:
		r := rune(((v & 0x0f0000) >> 4) | ((v & 0x3f00) >> 2) | (v & 0x3f))
		if r < 0x800 {
			return RuneError
		}
		return r
	case v&0xf8c0c0c0 == 0xf0808080:
		r := rune(((v & 0x07000000) >> 6) | ((v & 0x3f0000) >> 4) | ((v & 0x3f00) >> 2) | (v & 0x3f))
		if r < 0x10000 || r > utf8.MaxRune {
			return RuneError
		}
		return r
	}
	return RuneError
}

// PackRuneReverse packs a code point with the lead byte lowest.
func PackRuneReverse(code rune) uint32 {
	c := uint32(code)
	switch {
	case code < 0:
		return PackRuneReverse(RuneError)
	case c < 0x80:
		return c
	case c < 0x800:
		return 0x80c0 | ((c & 0x7c0) >> 6) | ((c & 0x3f) << 8)
	case c < 0x10000:
		return 0x8080e0 | ((c & 0xf000) >> 12) | ((c & 0x0fc0) << 2) | ((c & 0x3f) << 16)
	case c <= utf8.MaxRune:
		return 0x808080f0 | ((c & 0x1c0000) >> 18) | ((c & 0x03f000) >> 4) | ((c & 0x0fc0) << 10) | ((c & 0x3f) << 24)
	}
	return PackRuneReverse(RuneError)
}

// UnpackRuneReverse unpacks a value produced by PackRuneReverse.
func UnpackRuneReverse(v uint32) rune {
	return UnpackRune(reverseBytes(v))
}

// reverseBytes turns a packed little-endian value into its big-endian twin.
// Only the used bytes are moved.
func reverseBytes(v uint32) uint32 {
	if v < 0x100 {
		return v
	}
	var out uint32
	for v != 0 {
		out = out<<8 | (v & 0xff)
		v >>= 8
	}
	return out
}

// EncodeRuneInto writes the UTF-8 bytes of code into dst and returns the
// number of bytes written. dst must have room for 4 bytes.
func EncodeRuneInto(code rune, dst []byte) int {
	v := PackRuneReverse(code)
	n := 0
	for {
		dst[n] = byte(v)
		n++
		v >>= 8
		if v == 0 {
			return n
		}
	}
}

// EncodeTextUTF8 returns the UTF-8 bytes of every code point in text.
// Invalid sequences in text become U+FFFD.
func EncodeTextUTF8(text string) []byte {
	out := make([]byte, 0, len(text))
	var buf [4]byte
	for _, r := range text {
		n := EncodeRuneInto(r, buf[:])
		out = append(out, buf[:n]...)
	}
	return out
}

// TextToCodePoints splits text into code points.
func TextToCodePoints(text string) []rune {
	return []rune(text)
}

// PackText packs each code point of text.
func PackText(text string) []uint32 {
	out := make([]uint32, 0, len(text))
	for _, r := range text {
		out = append(out, PackRune(r))
	}
	return out
}

// DecodeByteStream decodes a byte stream through an Accumulator.
// Broken sequences produce U+FFFD.
func DecodeByteStream(data []byte) []rune {
	out := make([]rune, 0, len(data))
	var acc Accumulator
	for _, b := range data {
		if r, ok := acc.Decode(b); ok {
			out = append(out, r)
		}
	}
	if acc.Pending() {
		out = append(out, RuneError)
	}
	return out
}

// Hex32 formats n as a zero padded 8 digit hex value, handy in tests and logs.
func Hex32(n uint32) string {
	return fmt.Sprintf("0x%08x", n)
}
