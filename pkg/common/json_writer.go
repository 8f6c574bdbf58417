package common

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// quoteJSONString quotes a string the way JSON.stringify does: only quotes,
// backslashes and control characters are escaped, everything else is
// written through unchanged.
func quoteJSONString(value string) string {
	var sb strings.Builder
	sb.Grow(len(value) + 2)
	sb.WriteByte('"')
	for _, r := range value {
		switch r {
		case '"':
			sb.WriteString("\\\"")
		case '\\':
			sb.WriteString("\\\\")
		case '\b':
			sb.WriteString("\\b")
		case '\f':
			sb.WriteString("\\f")
		case '\n':
			sb.WriteString("\\n")
		case '\r':
			sb.WriteString("\\r")
		case '\t':
			sb.WriteString("\\t")
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, "\\u%04x", r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// WriteJSON serializes v. An empty indentDelta produces compact output;
// otherwise the layout matches JSON.stringify(v, null, indentDelta). No
// trailing newline is written.
func WriteJSON(output io.Writer, v Value, indentDelta string) error {
	w := bufio.NewWriter(output)
	writeJSONValue(w, v, "", indentDelta)
	return w.Flush()
}

// MarshalJSON returns the serialized form of v as a string.
func MarshalJSON(v Value, indentDelta string) string {
	var sb strings.Builder
	// A strings.Builder never fails to write.
	_ = WriteJSON(&sb, v, indentDelta)
	return sb.String()
}

func writeJSONValue(w *bufio.Writer, v Value, currentIndent string, indentDelta string) {
	nextIndent := currentIndent + indentDelta
	colon := ":"
	if indentDelta != "" {
		colon = ": "
	}

	switch x := v.(type) {
	case nil, Null:
		w.WriteString("null")
	case Bool:
		if x {
			w.WriteString("true")
		} else {
			w.WriteString("false")
		}
	case Number:
		// JSON has no spelling for Infinity or NaN; JSON.stringify writes null.
		if x.Finite() {
			w.WriteString(string(x))
		} else {
			w.WriteString("null")
		}
	case String:
		w.WriteString(quoteJSONString(string(x)))
	case Sequence:
		if len(x) == 0 {
			w.WriteString("[]")
			return
		}
		w.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				w.WriteByte(',')
			}
			if indentDelta != "" {
				w.WriteByte('\n')
				w.WriteString(nextIndent)
			}
			writeJSONValue(w, e, nextIndent, indentDelta)
		}
		if indentDelta != "" {
			w.WriteByte('\n')
			w.WriteString(currentIndent)
		}
		w.WriteByte(']')
	case *Mapping:
		if x.Len() == 0 {
			w.WriteString("{}")
			return
		}
		w.WriteByte('{')
		for i, f := range x.Fields {
			if i > 0 {
				w.WriteByte(',')
			}
			if indentDelta != "" {
				w.WriteByte('\n')
				w.WriteString(nextIndent)
			}
			w.WriteString(quoteJSONString(f.Key))
			w.WriteString(colon)
			writeJSONValue(w, f.Value, nextIndent, indentDelta)
		}
		if indentDelta != "" {
			w.WriteByte('\n')
			w.WriteString(currentIndent)
		}
		w.WriteByte('}')
	default:
		panic(fmt.Sprintf("unexpected tree value %T", v))
	}
}

// ReadJSON decodes exactly one JSON value, preserving object key order and
// the text of numbers.
func ReadJSON(input io.Reader) (Value, error) {
	decoder := json.NewDecoder(input)
	decoder.UseNumber()

	v, err := readJSONValue(decoder)
	if err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected data after JSON value at offset %d", decoder.InputOffset())
	}
	return v, nil
}

// ParseJSON decodes a JSON document held in a string.
func ParseJSON(s string) (Value, error) {
	return ReadJSON(strings.NewReader(s))
}

func readJSONValue(decoder *json.Decoder) (Value, error) {
	token, err := decoder.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch t := token.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String()), nil
	case json.Delim:
		switch t {
		case '[':
			seq := Sequence{}
			for decoder.More() {
				e, err := readJSONValue(decoder)
				if err != nil {
					return nil, err
				}
				seq = append(seq, e)
			}
			if _, err := decoder.Token(); err != nil {
				return nil, err
			}
			return seq, nil
		case '{':
			m := NewMapping()
			for decoder.More() {
				keyToken, err := decoder.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyToken.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, found %v", keyToken)
				}
				e, err := readJSONValue(decoder)
				if err != nil {
					return nil, err
				}
				// Later duplicates win, as with JSON.parse.
				m.Set(key, e)
			}
			if _, err := decoder.Token(); err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", token)
}

// PrintASTJSON is the JSON tree writer.
func PrintASTJSON(root Value, indentDelta string, output io.Writer, options *PrintOptions) error {
	if err := WriteJSON(output, root, indentDelta); err != nil {
		return err
	}
	_, err := io.WriteString(output, "\n")
	return err
}
