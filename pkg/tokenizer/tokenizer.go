package tokenizer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/spicery/jsast/pkg/common"
)

type context int

const (
	braceContext context = iota
	templateContext
	templateExprContext
)

// Tokenizer splits JavaScript source into tokens and comments.
type Tokenizer struct {
	src        []rune
	u16        []int // UTF-16 offset of each rune, plus one past the end
	lineStarts []int // Rune index at which each line starts
	pos        int
	tokens     []*Token
	comments   []*Comment
	stack      []context
	lnBefore   bool

	// Strict rejects legacy octal literals, as module code does.
	Strict bool
}

func NewTokenizer(input string) *Tokenizer {
	src := []rune(input)
	u16 := make([]int, len(src)+1)
	lineStarts := []int{0}
	offset := 0
	for i, r := range src {
		u16[i] = offset
		offset += utf16.RuneLen(r)
		switch r {
		case '\n', '\u2028', '\u2029':
			lineStarts = append(lineStarts, i+1)
		case '\r':
			if i+1 >= len(src) || src[i+1] != '\n' {
				lineStarts = append(lineStarts, i+1)
			}
		}
	}
	u16[len(src)] = offset
	return &Tokenizer{
		src:        src,
		u16:        u16,
		lineStarts: lineStarts,
	}
}

const utf8RuneError = '\uFFFD'

// Comments returns the comments seen by Tokenize, in source order.
func (t *Tokenizer) Comments() []*Comment {
	return t.comments
}

// Position converts a rune index into a source position.
func (t *Tokenizer) Position(i int) common.Position {
	if i > len(t.src) {
		i = len(t.src)
	}
	line := sort.Search(len(t.lineStarts), func(k int) bool { return t.lineStarts[k] > i }) - 1
	return common.Position{
		Offset: t.u16[i],
		Line:   line + 1,
		Column: t.u16[i] - t.u16[t.lineStarts[line]],
	}
}

func (t *Tokenizer) span(start, end int) common.Span {
	return common.Span{Start: t.Position(start), End: t.Position(end)}
}

func (t *Tokenizer) errorAt(i int, format string, args ...any) error {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Position: t.Position(i)}
}

func (t *Tokenizer) peekRune(offset int) rune {
	if t.pos+offset < len(t.src) {
		return t.src[t.pos+offset]
	}
	return -1
}

func (t *Tokenizer) push(tokenType TokenType, start int) *Token {
	token := &Token{
		Type:     tokenType,
		Text:     string(t.src[start:t.pos]),
		Span:     t.span(start, t.pos),
		LnBefore: t.lnBefore,
	}
	t.lnBefore = false
	t.tokens = append(t.tokens, token)
	return token
}

func (t *Tokenizer) top() (context, bool) {
	if len(t.stack) == 0 {
		return braceContext, false
	}
	return t.stack[len(t.stack)-1], true
}

func (t *Tokenizer) pop() {
	if len(t.stack) > 0 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

// Tokenize scans the whole input. The returned slice always ends with an
// EOF token.
func (t *Tokenizer) Tokenize() ([]*Token, error) {
	for {
		if ctx, ok := t.top(); ok && ctx == templateContext {
			if err := t.readTemplateChunk(); err != nil {
				return nil, err
			}
			continue
		}
		if err := t.skipSpace(); err != nil {
			return nil, err
		}
		if t.pos >= len(t.src) {
			if len(t.stack) > 0 {
				if ctx, _ := t.top(); ctx != braceContext {
					return nil, t.errorAt(t.pos, "Unterminated template")
				}
			}
			t.push(EOFTokenType, t.pos)
			return t.tokens, nil
		}
		if err := t.readToken(); err != nil {
			return nil, err
		}
	}
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\v', '\f', '\u00a0', '\ufeff':
		return true
	}
	return r > 0x7f && unicode.Is(unicode.Zs, r)
}

func IsIdentifierStart(r rune) bool {
	return r == '$' || r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r > 0x7f && unicode.IsLetter(r))
}

func IsIdentifierChar(r rune) bool {
	return IsIdentifierStart(r) || (r >= '0' && r <= '9') || r == '\u200c' || r == '\u200d' ||
		(r > 0x7f && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r)))
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (t *Tokenizer) skipSpace() error {
	for t.pos < len(t.src) {
		r := t.src[t.pos]
		switch {
		case isLineTerminator(r):
			t.lnBefore = true
			t.pos++
		case isWhitespace(r):
			t.pos++
		case r == '/' && t.peekRune(1) == '/':
			start := t.pos
			t.pos += 2
			for t.pos < len(t.src) && !isLineTerminator(t.src[t.pos]) {
				t.pos++
			}
			t.comments = append(t.comments, &Comment{
				Value: string(t.src[start+2 : t.pos]),
				Span:  t.span(start, t.pos),
			})
		case r == '/' && t.peekRune(1) == '*':
			start := t.pos
			t.pos += 2
			for {
				if t.pos+1 >= len(t.src) {
					return t.errorAt(start, "Unterminated comment")
				}
				if t.src[t.pos] == '*' && t.src[t.pos+1] == '/' {
					break
				}
				if isLineTerminator(t.src[t.pos]) {
					t.lnBefore = true
				}
				t.pos++
			}
			t.pos += 2
			t.comments = append(t.comments, &Comment{
				Block: true,
				Value: string(t.src[start+2 : t.pos-2]),
				Span:  t.span(start, t.pos),
			})
		default:
			return nil
		}
	}
	return nil
}

// regexAllowed decides whether a slash starts a regular expression, based
// on the previous token.
func (t *Tokenizer) regexAllowed() bool {
	if len(t.tokens) == 0 {
		return true
	}
	last := t.tokens[len(t.tokens)-1]
	switch last.Type {
	case NameTokenType:
		return regexAfterKeyword[last.Text]
	case PunctuatorTokenType:
		switch last.Text {
		case ")", "]", "}", "`", "++", "--":
			return false
		}
		return true
	}
	return false
}

func (t *Tokenizer) readToken() error {
	r := t.src[t.pos]
	switch {
	case r == '`':
		start := t.pos
		t.pos++
		t.push(PunctuatorTokenType, start)
		t.stack = append(t.stack, templateContext)
		return nil
	case IsIdentifierStart(r) || r == '\\':
		return t.readWord()
	case isDigit(r) || (r == '.' && isDigit(t.peekRune(1))):
		return t.readNumber()
	case r == '"' || r == '\'':
		return t.readString(r)
	case r == '/' && t.regexAllowed():
		return t.readRegExp()
	}
	return t.readPunctuator()
}

func (t *Tokenizer) readWord() error {
	start := t.pos
	if t.src[t.pos] == '\\' {
		return t.errorAt(t.pos, "Escape sequences in identifiers are not supported")
	}
	for t.pos < len(t.src) && IsIdentifierChar(t.src[t.pos]) {
		t.pos++
	}
	t.push(NameTokenType, start)
	return nil
}

func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10
	}
	return 99
}

func (t *Tokenizer) readNumber() error {
	start := t.pos
	var value float64
	if t.src[t.pos] == '0' && strings.ContainsRune("xXoObB", t.peekRune(1)) {
		base := 16
		switch t.peekRune(1) {
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		t.pos += 2
		digits := 0
		for t.pos < len(t.src) && digitValue(t.src[t.pos]) < base {
			value = value*float64(base) + float64(digitValue(t.src[t.pos]))
			t.pos++
			digits++
		}
		if digits == 0 {
			return t.errorAt(start+2, "Expected number in radix %d", base)
		}
	} else {
		for t.pos < len(t.src) && isDigit(t.src[t.pos]) {
			t.pos++
		}
		// A leading zero followed by digits is a legacy octal literal, or
		// decimal when an 8 or 9 appears.
		if t.pos-start >= 2 && t.src[start] == '0' {
			if t.Strict {
				return t.errorAt(start, "Invalid number")
			}
			digits := string(t.src[start:t.pos])
			if !strings.ContainsAny(digits, "89") {
				for _, r := range digits {
					value = value*8 + float64(r-'0')
				}
				return t.finishNumber(start, value)
			}
		}
		if t.pos < len(t.src) && t.src[t.pos] == '.' {
			t.pos++
			for t.pos < len(t.src) && isDigit(t.src[t.pos]) {
				t.pos++
			}
		}
		if t.pos < len(t.src) && (t.src[t.pos] == 'e' || t.src[t.pos] == 'E') {
			t.pos++
			if t.pos < len(t.src) && (t.src[t.pos] == '+' || t.src[t.pos] == '-') {
				t.pos++
			}
			if t.pos >= len(t.src) || !isDigit(t.src[t.pos]) {
				return t.errorAt(start, "Invalid number")
			}
			for t.pos < len(t.src) && isDigit(t.src[t.pos]) {
				t.pos++
			}
		}
		f, err := strconv.ParseFloat(string(t.src[start:t.pos]), 64)
		if err != nil {
			// Out of range values still parse to +/-Inf, which JavaScript keeps.
			if numErr, ok := err.(*strconv.NumError); !ok || numErr.Err != strconv.ErrRange {
				return t.errorAt(start, "Invalid number")
			}
		}
		value = f
	}
	return t.finishNumber(start, value)
}

func (t *Tokenizer) finishNumber(start int, value float64) error {
	if t.pos < len(t.src) && t.src[t.pos] == 'n' {
		return t.errorAt(start, "BigInt literals are not supported")
	}
	if t.pos < len(t.src) && IsIdentifierStart(t.src[t.pos]) {
		return t.errorAt(t.pos, "Identifier directly after number")
	}
	token := t.push(NumericTokenType, start)
	token.Number = value
	return nil
}

func hexValue(runes []rune) (int, bool) {
	if len(runes) == 0 {
		return 0, false
	}
	v := 0
	for _, r := range runes {
		d := digitValue(r)
		if d >= 16 {
			return 0, false
		}
		v = v*16 + d
	}
	return v, true
}

// readEscape reads the escape sequence after a backslash at t.pos and
// appends its cooked value to sb. It reports false for malformed escapes.
func (t *Tokenizer) readEscape(sb *strings.Builder, inTemplate bool) bool {
	r := t.src[t.pos]
	t.pos++
	switch r {
	case 'n':
		sb.WriteRune('\n')
	case 't':
		sb.WriteRune('\t')
	case 'r':
		sb.WriteRune('\r')
	case 'b':
		sb.WriteRune('\b')
	case 'v':
		sb.WriteRune('\v')
	case 'f':
		sb.WriteRune('\f')
	case '\r':
		if t.pos < len(t.src) && t.src[t.pos] == '\n' {
			t.pos++
		}
	case '\n', '\u2028', '\u2029':
	case 'x':
		if t.pos+2 > len(t.src) {
			return false
		}
		v, ok := hexValue(t.src[t.pos : t.pos+2])
		if !ok {
			return false
		}
		t.pos += 2
		sb.WriteRune(rune(v))
	case 'u':
		if t.pos < len(t.src) && t.src[t.pos] == '{' {
			end := t.pos + 1
			for end < len(t.src) && t.src[end] != '}' {
				end++
			}
			if end >= len(t.src) {
				return false
			}
			v, ok := hexValue(t.src[t.pos+1 : end])
			if !ok || v > 0x10FFFF {
				return false
			}
			t.pos = end + 1
			sb.WriteRune(rune(v))
			return true
		}
		if t.pos+4 > len(t.src) {
			return false
		}
		v, ok := hexValue(t.src[t.pos : t.pos+4])
		if !ok {
			return false
		}
		t.pos += 4
		// Combine a surrogate pair written as two escapes.
		if utf16.IsSurrogate(rune(v)) && t.pos+6 <= len(t.src) && t.src[t.pos] == '\\' && t.src[t.pos+1] == 'u' {
			if lo, ok := hexValue(t.src[t.pos+2 : t.pos+6]); ok {
				if combined := utf16.DecodeRune(rune(v), rune(lo)); combined != utf8RuneError {
					t.pos += 6
					sb.WriteRune(combined)
					return true
				}
			}
		}
		sb.WriteRune(rune(v))
	case '0':
		if t.pos < len(t.src) && isDigit(t.src[t.pos]) {
			return !inTemplate && t.readLegacyOctal(sb, r)
		}
		sb.WriteRune(0)
	case '1', '2', '3', '4', '5', '6', '7':
		if inTemplate {
			return false
		}
		return t.readLegacyOctal(sb, r)
	default:
		sb.WriteRune(r)
	}
	return true
}

func (t *Tokenizer) readLegacyOctal(sb *strings.Builder, first rune) bool {
	v := int(first - '0')
	for i := 0; i < 2 && t.pos < len(t.src) && t.src[t.pos] >= '0' && t.src[t.pos] <= '7' && v*8 < 256; i++ {
		v = v*8 + int(t.src[t.pos]-'0')
		t.pos++
	}
	sb.WriteRune(rune(v))
	return true
}

func (t *Tokenizer) readString(quote rune) error {
	start := t.pos
	t.pos++
	var sb strings.Builder
	for {
		if t.pos >= len(t.src) || t.src[t.pos] == '\n' || t.src[t.pos] == '\r' {
			return t.errorAt(start, "Unterminated string constant")
		}
		r := t.src[t.pos]
		if r == quote {
			t.pos++
			break
		}
		if r == '\\' {
			t.pos++
			if t.pos >= len(t.src) {
				return t.errorAt(start, "Unterminated string constant")
			}
			escapeStart := t.pos - 1
			if !t.readEscape(&sb, false) {
				return t.errorAt(escapeStart, "Bad character escape sequence")
			}
			continue
		}
		sb.WriteRune(r)
		t.pos++
	}
	token := t.push(StringTokenType, start)
	token.Value = sb.String()
	return nil
}

// readTemplateChunk reads template text up to the next backquote or ${ and
// then the delimiter itself.
func (t *Tokenizer) readTemplateChunk() error {
	start := t.pos
	var sb strings.Builder
	invalid := false
	for {
		if t.pos >= len(t.src) {
			return t.errorAt(start, "Unterminated template")
		}
		r := t.src[t.pos]
		if r == '`' || (r == '$' && t.peekRune(1) == '{') {
			break
		}
		if r == '\\' {
			t.pos++
			if t.pos >= len(t.src) {
				return t.errorAt(start, "Unterminated template")
			}
			if !t.readEscape(&sb, true) {
				invalid = true
			}
			continue
		}
		if r == '\r' {
			// Line terminators are normalised to \n in both values.
			sb.WriteRune('\n')
			t.pos++
			if t.pos < len(t.src) && t.src[t.pos] == '\n' {
				t.pos++
			}
			continue
		}
		sb.WriteRune(r)
		t.pos++
	}
	chunk := t.push(TemplateTokenType, start)
	chunk.Text = strings.ReplaceAll(strings.ReplaceAll(chunk.Text, "\r\n", "\n"), "\r", "\n")
	chunk.Value = sb.String()
	chunk.InvalidEscape = invalid

	delimStart := t.pos
	if t.src[t.pos] == '`' {
		t.pos++
		t.pop()
	} else {
		t.pos += 2
		t.stack = append(t.stack, templateExprContext)
	}
	t.push(PunctuatorTokenType, delimStart)
	return nil
}

func (t *Tokenizer) readRegExp() error {
	start := t.pos
	t.pos++
	inClass := false
	for {
		if t.pos >= len(t.src) || isLineTerminator(t.src[t.pos]) {
			return t.errorAt(start, "Unterminated regular expression")
		}
		r := t.src[t.pos]
		if r == '\\' {
			t.pos += 2
			continue
		}
		if r == '[' {
			inClass = true
		} else if r == ']' && inClass {
			inClass = false
		} else if r == '/' && !inClass {
			break
		}
		t.pos++
	}
	pattern := string(t.src[start+1 : t.pos])
	t.pos++
	flagsStart := t.pos
	for t.pos < len(t.src) && IsIdentifierChar(t.src[t.pos]) {
		t.pos++
	}
	flags := string(t.src[flagsStart:t.pos])
	for _, f := range flags {
		if !strings.ContainsRune("gimsuy", f) {
			return t.errorAt(flagsStart, "Invalid regular expression flag")
		}
	}
	token := t.push(RegExpTokenType, start)
	token.Value = pattern
	token.Flags = flags
	return nil
}

func (t *Tokenizer) hasPrefix(s string) bool {
	i := t.pos
	for _, r := range s {
		if i >= len(t.src) || t.src[i] != r {
			return false
		}
		i++
	}
	return true
}

func (t *Tokenizer) readPunctuator() error {
	start := t.pos
	for _, p := range punctuators {
		if !t.hasPrefix(p) {
			continue
		}
		// `a?.5:b` is a conditional, not optional chaining.
		if p == "?." && isDigit(t.peekRune(2)) {
			continue
		}
		t.pos += len(p)
		t.push(PunctuatorTokenType, start)
		switch p {
		case "{":
			t.stack = append(t.stack, braceContext)
		case "}":
			t.pop()
		}
		return nil
	}
	return t.errorAt(start, "Unexpected character '%c'", t.src[start])
}
