package lcdtext

import (
	"iter"
	"math/bits"
)

// ReplacementChar is substituted for every malformed UTF-8 sequence.
// Decoding never aborts; broken input degrades to replacement characters.
const ReplacementChar rune = 0xFFFD

// DecodeNext decodes the codepoint starting at pos in buf, reading no
// further than end (exclusive). It returns the decoded codepoint and the
// cursor position for the next call.
//
// The function is pure and restartable from any valid cursor position:
//
//   - At end, or on a zero byte, it returns codepoint 0 (the terminator)
//     without moving the cursor.
//   - A well-formed sequence decodes to its scalar value and the cursor
//     advances past all consumed bytes.
//   - A lead byte claiming more continuation bytes than remain before end
//     yields ReplacementChar with the cursor moved to end.
//   - A byte that fails the 10xxxxxx continuation pattern mid-sequence
//     yields ReplacementChar with the cursor left on the offending byte,
//     so the next call reinterprets it as a fresh lead byte or terminator.
//   - A stray continuation byte where a lead byte was expected consumes
//     the whole contiguous run of continuation bytes and yields a single
//     ReplacementChar.
//   - An overlong encoding (a value encoded with more bytes than needed)
//     yields ReplacementChar with the cursor past the consumed sequence.
func DecodeNext(buf []byte, pos, end int) (rune, int) {
	if end > len(buf) {
		end = len(buf)
	}
	if pos < 0 || pos >= end {
		return 0, pos
	}

	b := buf[pos]
	if b == 0 {
		return 0, pos
	}
	pos++

	// Count the leading one bits of the byte. Flipping the byte and
	// placing it in the top bits of a 32-bit word lets LeadingZeros32 do
	// the counting.
	leadingOnes := bits.LeadingZeros32(^(uint32(b) << 24))

	if leadingOnes == 1 {
		// Stray continuation byte where a lead byte was expected. Skip
		// the whole contiguous run and report it as one broken sequence.
		for pos < end && buf[pos]&0xC0 == 0x80 {
			pos++
		}
		return ReplacementChar, pos
	}

	dataBits := 8 - 1 - leadingOnes
	if dataBits < 0 {
		dataBits = 0 // 0xFF lead, no data bits survive
	}
	cp := rune(b) & (1<<dataBits - 1)

	// additional is -1 for a one-byte codepoint. The loop below is
	// skipped in that case, no special handling needed.
	additional := leadingOnes - 1
	if additional > end-pos {
		// Buffer does not contain all bytes of this sequence.
		return ReplacementChar, end
	}

	for i := 0; i < additional; i++ {
		b = buf[pos]
		if b&0xC0 != 0x80 {
			// Not a continuation byte: either the terminator or the
			// start of a new codepoint. Leave the cursor on it.
			return ReplacementChar, pos
		}
		cp = cp<<6 | rune(b&0x3F)
		pos++
	}

	if additional >= 1 && additional <= 3 && cp < overlongMin[additional] {
		// Overlong encoding (e.g. 0xC0 0x80 for NUL). The sequence was
		// consumed; the value is rejected.
		return ReplacementChar, pos
	}

	return cp, pos
}

// overlongMin[n] is the smallest scalar value that legitimately needs
// n continuation bytes.
var overlongMin = [4]rune{0, 0x80, 0x800, 0x10000}

// Cursor iterates the codepoints of a UTF-8 byte buffer. The zero bound
// is len(buf); NewCursorBound restricts it further. A zero byte or the
// bound terminates iteration with codepoint 0.
type Cursor struct {
	buf []byte
	pos int
	end int
}

// NewCursor creates a cursor over the whole buffer.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf, end: len(buf)}
}

// NewCursorBound creates a cursor that never reads at or past end.
func NewCursorBound(buf []byte, end int) *Cursor {
	if end > len(buf) {
		end = len(buf)
	}
	if end < 0 {
		end = 0
	}
	return &Cursor{buf: buf, end: end}
}

// Next decodes and returns the next codepoint. It returns 0 at the
// terminator and keeps returning 0 on subsequent calls.
func (c *Cursor) Next() rune {
	cp, pos := DecodeNext(c.buf, c.pos, c.end)
	c.pos = pos
	return cp
}

// Pos returns the current byte position of the cursor.
func (c *Cursor) Pos() int {
	return c.pos
}

// Codepoints returns an iterator over the codepoints of buf, stopping at
// the first zero byte or the end of the buffer. Malformed sequences are
// yielded as ReplacementChar.
func Codepoints(buf []byte) iter.Seq[rune] {
	return func(yield func(rune) bool) {
		c := NewCursor(buf)
		for cp := c.Next(); cp != 0; cp = c.Next() {
			if !yield(cp) {
				return
			}
		}
	}
}
