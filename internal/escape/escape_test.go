// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package escape_test

import (
	"testing"

	"github.com/creachadair/jsax/internal/escape"

	"github.com/creachadair/mds/mtest"
	"go4.org/mem"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		input string // a string body, quotes removed, lexically valid
		want  string
	}{
		{``, ``},
		{`ok go`, "ok go"},
		{`abc\ndef`, "abc\ndef"},
		{`\tabc\n`, "\tabc\n"},
		{`\b\f\n\r\t`, "\b\f\n\r\t"},
		{`a\"b`, `a"b`},
		{`a\\b\\cd`, `a\b\cd`},
		{`a\/b`, "a/b"},
		{`a \u0026 b`, "a & b"},
		{`\u0041\u00e9`, "A\u00e9"},
		{`\u00C9`, "\u00c9"}, // hex digits are case-insensitive
		{`\uAA9C`, "\uaa9c"},

		// A surrogate pair combines into the code point it denotes.
		{`\uD83D\uDE03`, "\U0001f603"},
		// Unpaired surrogate halves become the replacement rune.
		{`\uD83Dx`, "\ufffdx"},
		{`\uDE03`, "\ufffd"},
		{`\uD83D\u0041`, "\ufffdA"},
		{`\uD83D\\`, "\ufffd\\"},

		// Multi-byte characters pass through untouched.
		{"caf\u00e9 \U0001f603", "caf\u00e9 \U0001f603"},
	}
	for _, test := range tests {
		got := escape.Decode(nil, mem.S(test.input))
		if string(got) != test.want {
			t.Errorf("Decode(%#q): got %#q, want %#q", test.input, got, test.want)
		}
	}
}

func TestDecodeAppends(t *testing.T) {
	dst := []byte("prefix:")
	got := escape.Decode(dst, mem.S(`a\tb`))
	if string(got) != "prefix:a\tb" {
		t.Errorf("Decode: got %#q, want %#q", got, "prefix:a\tb")
	}
}

func TestDecodeInvalid(t *testing.T) {
	// The lexer never lets these reach the decoder; feeding them directly is
	// a programming error and panics.
	mtest.MustPanic(t, func() { escape.Decode(nil, mem.S(`a\qb`)) })
	mtest.MustPanic(t, func() { escape.Decode(nil, mem.S(`\uXYZW`)) })
	mtest.MustPanic(t, func() { escape.Decode(nil, mem.S(`trailing\`)) })
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ``},
		{" ", ` `},
		{"a\t\nb", `a\t\nb`},
		{"\x00\x01\x02", `\u0000\u0001\u0002`},
		{`a "b" c`, `a \"b\" c`},
		{`back\slash`, `back\\slash`},
		{"\u2028 \u2029 \ufffd", `\u2028 \u2029 \ufffd`},
		{"end\v", `end\u000b`},
		{"caf\u00e9 \U0001f603", "caf\u00e9 \U0001f603"},
	}
	for _, test := range tests {
		got := string(escape.Quote(mem.S(test.input)))
		if got != test.want {
			t.Errorf("Quote(%#q): got %#q, want %#q", test.input, got, test.want)
		}
	}
}

func TestQuoteDecodeRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"tabs\tand\nnewlines",
		`quotes " and \ slashes`,
		"controls \x01\x1f\x7f",
		"unicode caf\u00e9 \U0001f603 \uaa9c",
	}
	for _, input := range inputs {
		q := escape.Quote(mem.S(input))
		got := escape.Decode(nil, mem.B(q))
		if string(got) != input {
			t.Errorf("Decode(Quote(%#q)): got %#q", input, got)
		}
	}
}
