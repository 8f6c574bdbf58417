package tokenizer

import (
	"errors"
	"math"
	"testing"
)

func tokenize(t *testing.T, src string) []*Token {
	t.Helper()
	tokens, err := NewTokenizer(src).Tokenize()
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	return tokens
}

func TestTokenTypes(t *testing.T) {
	tokens := tokenize(t, "let x = 0x1F;")
	want := []TokenType{NameTokenType, NameTokenType, PunctuatorTokenType, NumericTokenType, PunctuatorTokenType, EOFTokenType}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, tok := range tokens {
		if tok.Type != want[i] {
			t.Errorf("token %d: got %s, want %s", i, tok.Type, want[i])
		}
	}
	if tokens[3].Number != 31 || tokens[3].Text != "0x1F" {
		t.Errorf("hex literal: got %v from %q", tokens[3].Number, tokens[3].Text)
	}
}

func TestNumericLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"0", 0},
		{"0.5", 0.5},
		{"1e3", 1000},
		{"0o17", 15},
		{"0b101", 5},
		{"0777", 511},
		{"010", 8},
		{"08", 8},
		{"09.5", 9.5},
		{"1e400", math.Inf(1)},
	}
	for _, tt := range tests {
		tokens := tokenize(t, tt.src)
		if tokens[0].Type != NumericTokenType || tokens[0].Text != tt.src {
			t.Errorf("%q: got %s %q", tt.src, tokens[0].Type, tokens[0].Text)
			continue
		}
		if tokens[0].Number != tt.want {
			t.Errorf("%q: got %v, want %v", tt.src, tokens[0].Number, tt.want)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	tokens := tokenize(t, `'a\nA\x42'`)
	if got := tokens[0].Value; got != "a\nAB" {
		t.Errorf("got %q", got)
	}
}

func TestRegExpOrDivision(t *testing.T) {
	division := tokenize(t, "a / b")
	if !division[1].Is("/") {
		t.Errorf("expected a division operator, got %s", division[1])
	}

	regexp := tokenize(t, "x = /ab+[/]c/gi")
	tok := regexp[2]
	if tok.Type != RegExpTokenType || tok.Value != "ab+[/]c" || tok.Flags != "gi" {
		t.Errorf("got %s %q %q", tok.Type, tok.Value, tok.Flags)
	}
}

func TestComments(t *testing.T) {
	tz := NewTokenizer("/* b */ a // l\nb")
	tokens, err := tz.Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	comments := tz.Comments()
	if len(comments) != 2 {
		t.Fatalf("got %d comments", len(comments))
	}
	if !comments[0].Block || comments[0].Value != " b " {
		t.Errorf("first comment: %+v", comments[0])
	}
	if comments[1].Block || comments[1].Value != " l" {
		t.Errorf("second comment: %+v", comments[1])
	}
	if tokens[0].LnBefore || !tokens[1].LnBefore {
		t.Errorf("line breaks: %v %v", tokens[0].LnBefore, tokens[1].LnBefore)
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		src    string
		strict bool
		want   string
	}{
		{"'abc", false, "Unterminated string constant (1:0)"},
		{"x = 1n", false, "BigInt literals are not supported (1:4)"},
		{"/re/q", false, "Invalid regular expression flag (1:4)"},
		{"x = 0777", true, "Invalid number (1:4)"},
		{"x = 08", true, "Invalid number (1:4)"},
		{"00", true, "Invalid number (1:0)"},
		{"0x", false, "Expected number in radix 16 (1:2)"},
		{"1e+", false, "Invalid number (1:0)"},
		{"3in x", false, "Identifier directly after number (1:1)"},
	}
	for _, tt := range tests {
		tz := NewTokenizer(tt.src)
		tz.Strict = tt.strict
		_, err := tz.Tokenize()
		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Errorf("%q: expected SyntaxError, got %v", tt.src, err)
			continue
		}
		if err.Error() != tt.want {
			t.Errorf("%q: got %q, want %q", tt.src, err.Error(), tt.want)
		}
	}
}
