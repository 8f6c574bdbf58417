package codegen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/spicery/jsast/pkg/common"
)

// sameValue compares two primitive tree values, numbers by magnitude.
func sameValue(a, b common.Value) bool {
	switch x := a.(type) {
	case common.Number:
		y, ok := b.(common.Number)
		if !ok {
			return false
		}
		if x == y {
			return true
		}
		fx, errx := strconv.ParseFloat(string(x), 64)
		fy, erry := strconv.ParseFloat(string(y), 64)
		return errx == nil && erry == nil && fx == fy
	case common.String:
		y, ok := b.(common.String)
		return ok && x == y
	case common.Bool:
		y, ok := b.(common.Bool)
		return ok && x == y
	case common.Null:
		// Non-finite numbers come back from JSON as null on both sides.
		_, ok := b.(common.Null)
		return ok
	}
	return false
}

// rawText returns extra.raw when it still describes the node's value.
func rawText(node *common.Mapping) (string, bool) {
	extra := node.Node("extra")
	if extra == nil {
		return "", false
	}
	raw, ok := extra.Get("raw")
	if !ok {
		return "", false
	}
	rawString, ok := raw.(common.String)
	if !ok {
		return "", false
	}
	rawValue, ok := extra.Get("rawValue")
	if !ok {
		return "", false
	}
	value, _ := node.Get("value")
	if !sameValue(rawValue, value) {
		return "", false
	}
	return string(rawString), true
}

func isParenthesized(node *common.Mapping) bool {
	if extra := node.Node("extra"); extra != nil {
		return extra.Flag("parenthesized")
	}
	return false
}

// quoteString writes a double-quoted JavaScript string literal. Characters
// outside printable ASCII are escaped.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	runes := []rune(s)
	for i, r := range runes {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			if i+1 < len(runes) && '0' <= runes[i+1] && runes[i+1] <= '9' {
				sb.WriteString(`\x00`)
			} else {
				sb.WriteString(`\0`)
			}
		default:
			switch {
			case r < 0x20 || r == 0x7f:
				fmt.Fprintf(&sb, `\x%02X`, r)
			case r < 0x7f:
				sb.WriteRune(r)
			case r <= 0xff:
				fmt.Fprintf(&sb, `\x%02X`, r)
			case r <= 0xffff:
				fmt.Fprintf(&sb, `\u%04X`, r)
			default:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(&sb, `\u%04X\u%04X`, hi, lo)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func (g *CodeGenerator) printStringLiteral(node *common.Mapping) {
	if raw, ok := rawText(node); ok {
		g.token(raw)
		return
	}
	g.token(quoteString(node.Str("value")))
}

// numberText is the source form of a numeric literal.
func numberText(node *common.Mapping) string {
	if raw, ok := rawText(node); ok {
		return raw
	}
	v, _ := node.Get("value")
	n, ok := v.(common.Number)
	if !ok {
		return "0"
	}
	if f, err := strconv.ParseFloat(string(n), 64); err == nil {
		return common.FormatJSNumber(f)
	}
	return string(n)
}

func (g *CodeGenerator) printNumericLiteral(node *common.Mapping) {
	text := numberText(node)
	if strings.HasPrefix(text, "-") {
		g.token("-")
		text = text[1:]
	}
	g.word(text)
}

// needsDotAfter reports whether a member access on this literal needs a
// second dot, as in 1..toString().
func needsDotAfter(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}
	return text != "" && !(len(text) > 1 && text[0] == '0')
}
