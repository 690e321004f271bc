package lcdtext

import (
	"testing"
	"unicode/utf8"
)

// TestDecodeNext_RoundTrip encodes every valid Unicode scalar value with
// the standard library and decodes it back, checking both the value and
// the cursor advance.
func TestDecodeNext_RoundTrip(t *testing.T) {
	buf := make([]byte, 0, 4)
	for r := rune(1); r <= utf8.MaxRune; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue // surrogates are not scalar values
		}
		buf = utf8.AppendRune(buf[:0], r)

		got, next := DecodeNext(buf, 0, len(buf))
		if got != r {
			t.Fatalf("decode %U: got %U", r, got)
		}
		if next != len(buf) {
			t.Fatalf("decode %U: cursor %d, want %d", r, next, len(buf))
		}
	}
}

// TestDecodeNext_Terminator tests the end-of-string conditions.
func TestDecodeNext_Terminator(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		pos  int
		end  int
	}{
		{"empty buffer", nil, 0, 0},
		{"at end bound", []byte("abc"), 2, 2},
		{"zero byte", []byte{'a', 0, 'b'}, 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp, next := DecodeNext(tt.buf, tt.pos, tt.end)
			if cp != 0 {
				t.Errorf("codepoint = %U, want 0", cp)
			}
			if next != tt.pos {
				t.Errorf("cursor moved from %d to %d on terminator", tt.pos, next)
			}
		})
	}
}

// TestDecodeNext_Malformed covers the recovery rules for broken input.
func TestDecodeNext_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		buf      []byte
		wantPos  int
		wantNext rune // codepoint produced by the call after the error
	}{
		{
			// Overlong two-byte encoding of NUL. One replacement char,
			// cursor resumes on the byte after the pair.
			name:     "overlong C0 80",
			buf:      []byte{0xC0, 0x80, 'x'},
			wantPos:  2,
			wantNext: 'x',
		},
		{
			// Lead byte expecting two continuations, buffer ends after
			// one. Cursor lands on the end bound.
			name:     "truncated E2 82",
			buf:      []byte{0xE2, 0x82},
			wantPos:  2,
			wantNext: 0,
		},
		{
			// Continuation run with no lead: consumed as a single error.
			name:     "stray continuation run",
			buf:      []byte{0x80, 0x81, 0x82, 'y'},
			wantPos:  3,
			wantNext: 'y',
		},
		{
			// A new lead byte where a continuation was expected: the
			// cursor stops before it so it decodes cleanly next.
			name:     "interrupted sequence",
			buf:      []byte{0xE2, 0x82, 'z'},
			wantPos:  2,
			wantNext: 'z',
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp, pos := DecodeNext(tt.buf, 0, len(tt.buf))
			if cp != ReplacementChar {
				t.Errorf("codepoint = %U, want U+FFFD", cp)
			}
			if pos != tt.wantPos {
				t.Errorf("cursor = %d, want %d", pos, tt.wantPos)
			}
			next, _ := DecodeNext(tt.buf, pos, len(tt.buf))
			if next != tt.wantNext {
				t.Errorf("resumed codepoint = %U, want %U", next, tt.wantNext)
			}
		})
	}
}

// TestDecodeNext_NeverReadsPastEnd bounds the buffer short of a valid
// sequence and checks the decoder treats the bound as hard.
func TestDecodeNext_NeverReadsPastEnd(t *testing.T) {
	buf := []byte("€") // E2 82 AC
	cp, pos := DecodeNext(buf, 0, 2)
	if cp != ReplacementChar {
		t.Errorf("codepoint = %U, want U+FFFD", cp)
	}
	if pos != 2 {
		t.Errorf("cursor = %d, want end bound 2", pos)
	}
}

func TestCursor_Iteration(t *testing.T) {
	buf := []byte("a€\x00b") // 'b' is behind the terminator
	c := NewCursor(buf)

	var got []rune
	for cp := c.Next(); cp != 0; cp = c.Next() {
		got = append(got, cp)
	}
	want := []rune{'a', '€'}
	if len(got) != len(want) {
		t.Fatalf("decoded %d codepoints, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("codepoint %d = %U, want %U", i, got[i], want[i])
		}
	}

	// Terminator is sticky.
	if cp := c.Next(); cp != 0 {
		t.Errorf("post-terminator codepoint = %U, want 0", cp)
	}
}

func TestCodepoints_Seq(t *testing.T) {
	var got []rune
	for cp := range Codepoints([]byte("hi\xC0\x80!")) {
		got = append(got, cp)
	}
	want := []rune{'h', 'i', ReplacementChar, '!'}
	if len(got) != len(want) {
		t.Fatalf("got %d codepoints %q, want %d", len(got), string(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("codepoint %d = %U, want %U", i, got[i], want[i])
		}
	}
}
