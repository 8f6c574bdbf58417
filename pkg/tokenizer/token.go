package tokenizer

import (
	"fmt"

	"github.com/spicery/jsast/pkg/common"
)

// TokenType represents the different types of tokens.
type TokenType string

const (
	EOFTokenType        TokenType = "eof"
	NameTokenType       TokenType = "name"     // Identifiers and keywords
	NumericTokenType    TokenType = "num"      // Numeric literals
	StringTokenType     TokenType = "string"   // Quoted string literals
	TemplateTokenType   TokenType = "template" // The text between template delimiters
	RegExpTokenType     TokenType = "regexp"   // Regular expression literals
	PunctuatorTokenType TokenType = "punc"     // Operators and delimiters
)

// Token represents a single token of JavaScript source.
type Token struct {
	Type TokenType   `json:"type"`
	Text string      `json:"text"` // Raw source text of the token
	Span common.Span `json:"span"`

	// Value is the cooked string value for string and template tokens and
	// the pattern for regular expressions.
	Value string `json:"value,omitempty"`
	// Number is the numeric value of numeric tokens.
	Number float64 `json:"number,omitempty"`
	// Flags holds regular expression flags.
	Flags string `json:"flags,omitempty"`
	// InvalidEscape is set on template chunks whose cooked value is undefined.
	InvalidEscape bool `json:"invalid_escape,omitempty"`

	// LnBefore is true if a line terminator precedes the token.
	LnBefore bool `json:"ln_before,omitempty"`
}

// Is reports whether the token is the given punctuator.
func (t *Token) Is(text string) bool {
	return t.Type == PunctuatorTokenType && t.Text == text
}

// IsName reports whether the token is the given identifier or keyword.
func (t *Token) IsName(text string) bool {
	return t.Type == NameTokenType && t.Text == text
}

func (t *Token) String() string {
	if t.Type == EOFTokenType {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", t.Text)
}

// Comment is a line or block comment. Value excludes the delimiters.
type Comment struct {
	Block bool
	Value string
	Span  common.Span
}

// SyntaxError reports malformed source text at a position.
type SyntaxError struct {
	Message  string
	Position common.Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (%d:%d)", e.Message, e.Position.Line, e.Position.Column)
}
