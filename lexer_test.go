// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsax

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// scanChunks feeds each chunk to l in order, then a single space to flush a
// trailing number, and collects the tokens and payload texts emitted.
func scanChunks(l *lexer, chunks ...string) (toks []token, texts []string) {
	for _, c := range append(chunks, " ") {
		w := newWindow([]byte(c))
		for {
			tok := l.lex(&w)
			if tok == tokEOF {
				break
			}
			toks = append(toks, tok)
			if tok == tokError {
				return
			}
			texts = append(texts, l.out.StringCopy())
		}
	}
	return
}

func TestLexTokens(t *testing.T) {
	tests := []struct {
		input string
		want  []token
	}{
		// Empty inputs
		{"", nil},
		{"  ", nil},
		{"\t \r\n \v\f ", nil},

		// Constants
		{"true false null", []token{tokBool, tokBool, tokNull}},

		// Punctuation
		{"{ [ ] } , :", []token{
			tokObjOpen, tokArrayOpen, tokArrayClose, tokObjClose, tokComma, tokColon,
		}},

		// Strings
		{`"" "a b c"`, []token{tokString, tokString}},
		{`"a\nb\tc" "\"\\\/\b\f\n\r\t"`, []token{tokStringEsc, tokStringEsc}},
		{`"\u0041\u01fc\uAA9c"`, []token{tokStringEsc}},

		// Numbers
		{`0 -1 5139 2.3 5e+9 3.6E4 -0.001E-100`, []token{
			tokInteger, tokInteger, tokInteger,
			tokDouble, tokDouble, tokDouble, tokDouble,
		}},

		// Mixed types
		{`{true,"false":-15 null[]}`, []token{
			tokObjOpen, tokBool, tokComma, tokString, tokColon,
			tokInteger, tokNull, tokArrayOpen, tokArrayClose, tokObjClose,
		}},
	}

	for _, test := range tests {
		l := newLexer(false, true)
		got, _ := scanChunks(l, test.input)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestLexChunked(t *testing.T) {
	// Splitting the input at any byte boundary must not change the tokens.
	inputs := []string{
		`{"a": true, "b":[null, 1, 0.5]}`,
		`[9223372036854775807, -9223372036854775808]`,
		`"aAb😃c"`,
		"\"café 日本 \U0001f603\"",
		`[1.25e-3, -0, 17]`,
		"true false null",
	}
	for _, input := range inputs {
		l := newLexer(false, true)
		want, wantText := scanChunks(l, input)
		for i := 1; i < len(input); i++ {
			l := newLexer(false, true)
			got, gotText := scanChunks(l, input[:i], input[i:])
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Input: %#q split at %d\nTokens: (-want, +got)\n%s", input, i, diff)
			}
			if diff := cmp.Diff(wantText, gotText); diff != "" {
				t.Errorf("Input: %#q split at %d\nTexts: (-want, +got)\n%s", input, i, diff)
			}
		}
	}
}

func TestLexPayloads(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		// String payloads exclude the quotes but keep escapes undecoded.
		{`"foo"`, []string{"foo"}},
		{`""`, []string{""}},
		{`"a\nb"`, []string{`a\nb`}},

		// Number payloads are the raw digits.
		{`-12.5e+7`, []string{"-12.5e+7"}},
		{`0`, []string{"0"}},

		// Keyword and punctuation payloads are their own text.
		{`[true]`, []string{"[", "true", "]"}},
	}
	for _, test := range tests {
		l := newLexer(false, true)
		_, got := scanChunks(l, test.input)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTexts: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestLexComments(t *testing.T) {
	l := newLexer(true, true)
	toks, _ := scanChunks(l, "[1, /* block */ 2, // line\n 3]")
	want := []token{tokArrayOpen, tokInteger, tokComma, tokInteger, tokComma, tokInteger, tokArrayClose}
	if diff := cmp.Diff(want, toks); diff != "" {
		t.Errorf("Tokens: (-want, +got)\n%s", diff)
	}

	// A block comment spanning a chunk boundary.
	l = newLexer(true, true)
	toks, _ = scanChunks(l, "1 /* split ", " here */ 2")
	want = []token{tokInteger, tokInteger}
	if diff := cmp.Diff(want, toks); diff != "" {
		t.Errorf("Split comment tokens: (-want, +got)\n%s", diff)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input string
		want  LexError
	}{
		{"@", LexInvalidChar},
		{"\xef\xbb\xbf{}", LexInvalidChar}, // byte order mark
		{`"a\qb"`, LexStringInvalidEscapedChar},
		{`"\u12G4"`, LexStringInvalidHexChar},
		{"\"a\x01b\"", LexStringInvalidJSONChar},
		{"\"a\xffb\"", LexStringInvalidUTF8},
		{"\"a\xc3(\"", LexStringInvalidUTF8}, // truncated two-byte sequence
		{"tru ", LexInvalidString},
		{"falze", LexInvalidString},
		{"nul!", LexInvalidString},
		{"-x", LexMissingIntegerAfterMinus},
		{"1.x", LexMissingIntegerAfterDecimal},
		{"1e ", LexMissingIntegerAfterExponent},
		{"// comment\n1", LexUnallowedComment},
		{"/@", LexInvalidChar}, // only with comments enabled; see below
	}
	for _, test := range tests {
		allowComments := test.input == "/@"
		l := newLexer(allowComments, true)
		toks, _ := scanChunks(l, test.input)
		if n := len(toks); n == 0 || toks[n-1] != tokError {
			t.Errorf("Input: %#q: got tokens %v, want trailing error", test.input, toks)
			continue
		}
		if l.err != test.want {
			t.Errorf("Input: %#q: got lex error %v, want %v", test.input, l.err, test.want)
		}
	}
}

func TestLexUTF8Unvalidated(t *testing.T) {
	// With validation disabled, arbitrary non-control bytes pass through.
	l := newLexer(false, false)
	toks, texts := scanChunks(l, "\"a\xffb\"")
	if diff := cmp.Diff([]token{tokString}, toks); diff != "" {
		t.Fatalf("Tokens: (-want, +got)\n%s", diff)
	}
	if got, want := texts[0], "a\xffb"; got != want {
		t.Errorf("Text: got %#q, want %#q", got, want)
	}
}

func TestCarryReuse(t *testing.T) {
	// The same lexer handles a long run of split tokens without confusing
	// carry contents between them.
	l := newLexer(false, true)
	toks, texts := scanChunks(l, `["abc`, `def", 12`, `34, "x`, `yz"]`)
	wantToks := []token{tokArrayOpen, tokString, tokComma, tokInteger, tokComma, tokString, tokArrayClose}
	wantTexts := []string{"[", "abcdef", ",", "1234", ",", "xyz", "]"}
	if diff := cmp.Diff(wantToks, toks); diff != "" {
		t.Errorf("Tokens: (-want, +got)\n%s", diff)
	}
	if diff := cmp.Diff(wantTexts, texts); diff != "" {
		t.Errorf("Texts: (-want, +got)\n%s", diff)
	}
}
