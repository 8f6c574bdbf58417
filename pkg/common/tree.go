package common

import (
	"fmt"
	"math"
	"strconv"
)

// Kind classifies a tree value. The set is closed: every Value is exactly
// one of these.
type Kind int

const (
	KindNull Kind = iota
	KindPrimitive
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindPrimitive:
		return "primitive"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a node of an untyped syntax tree: Null, Bool, String, Number,
// Sequence or *Mapping.
type Value interface {
	Kind() Kind
}

type Null struct{}

type Bool bool

type String string

// Number keeps the textual form of a JSON number so that values round-trip
// without float formatting drift.
type Number string

type Sequence []Value

func (Null) Kind() Kind     { return KindNull }
func (Bool) Kind() Kind     { return KindPrimitive }
func (String) Kind() Kind   { return KindPrimitive }
func (Number) Kind() Kind   { return KindPrimitive }
func (Sequence) Kind() Kind { return KindSequence }

// KindOf is nil-safe: a nil Value is treated as Null.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

// Field is one key/value pair of a Mapping.
type Field struct {
	Key   string
	Value Value
}

// Mapping is an insertion-ordered string-keyed node. Syntax tree nodes have
// a handful of fields so lookups are linear.
type Mapping struct {
	Fields []Field
}

func (*Mapping) Kind() Kind { return KindMapping }

func NewMapping() *Mapping {
	return &Mapping{Fields: []Field{}}
}

// NewNode creates a mapping whose first field is "type".
func NewNode(nodeType string) *Mapping {
	m := NewMapping()
	m.Set("type", String(nodeType))
	return m
}

func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Fields)
}

func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		keys[i] = f.Key
	}
	return keys
}

// index is safe on a nil mapping, which makes every getter report an
// absent field.
func (m *Mapping) index(key string) int {
	if m == nil {
		return -1
	}
	for i, f := range m.Fields {
		if f.Key == key {
			return i
		}
	}
	return -1
}

func (m *Mapping) Has(key string) bool {
	return m.index(key) >= 0
}

func (m *Mapping) Get(key string) (Value, bool) {
	if i := m.index(key); i >= 0 {
		return m.Fields[i].Value, true
	}
	return nil, false
}

// Set replaces the value of an existing key in place or appends a new field.
func (m *Mapping) Set(key string, v Value) *Mapping {
	if v == nil {
		v = Null{}
	}
	if i := m.index(key); i >= 0 {
		m.Fields[i].Value = v
	} else {
		m.Fields = append(m.Fields, Field{Key: key, Value: v})
	}
	return m
}

func (m *Mapping) Delete(key string) {
	if i := m.index(key); i >= 0 {
		m.Fields = append(m.Fields[:i], m.Fields[i+1:]...)
	}
}

// Type returns the "type" field of a node, or "" when absent.
func (m *Mapping) Type() string {
	return m.Str("type")
}

func (m *Mapping) Str(key string) string {
	if v, ok := m.Get(key); ok {
		if s, ok := v.(String); ok {
			return string(s)
		}
	}
	return ""
}

func (m *Mapping) Flag(key string) bool {
	if v, ok := m.Get(key); ok {
		if b, ok := v.(Bool); ok {
			return bool(b)
		}
	}
	return false
}

// Node returns the mapping stored under key, or nil when the field is
// absent, null or not a mapping.
func (m *Mapping) Node(key string) *Mapping {
	if v, ok := m.Get(key); ok {
		if n, ok := v.(*Mapping); ok {
			return n
		}
	}
	return nil
}

// List returns the elements of a sequence field as mappings. Holes and
// non-mapping elements come back as nil entries.
func (m *Mapping) List(key string) []*Mapping {
	v, ok := m.Get(key)
	if !ok {
		return nil
	}
	seq, ok := v.(Sequence)
	if !ok {
		return nil
	}
	nodes := make([]*Mapping, len(seq))
	for i, e := range seq {
		if n, ok := e.(*Mapping); ok {
			nodes[i] = n
		}
	}
	return nodes
}

// Num returns the numeric field as a float, or 0 when absent.
func (m *Mapping) Num(key string) float64 {
	if v, ok := m.Get(key); ok {
		if n, ok := v.(Number); ok {
			f, err := strconv.ParseFloat(string(n), 64)
			if err == nil {
				return f
			}
		}
	}
	return 0
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch x := v.(type) {
	case *Mapping:
		c := &Mapping{Fields: make([]Field, len(x.Fields))}
		for i, f := range x.Fields {
			c.Fields[i] = Field{Key: f.Key, Value: Clone(f.Value)}
		}
		return c
	case Sequence:
		c := make(Sequence, len(x))
		for i, e := range x {
			c[i] = Clone(e)
		}
		return c
	case nil:
		return Null{}
	default:
		return x
	}
}

// Finite reports whether n is neither an infinity nor NaN.
func (n Number) Finite() bool {
	switch n {
	case "Infinity", "-Infinity", "NaN":
		return false
	}
	return true
}

// Int formats an integer as a Number.
func Int(i int) Number {
	return Number(strconv.Itoa(i))
}

// Float formats a float the way JavaScript's Number#toString does for the
// values a parser produces.
func Float(f float64) Number {
	return Number(FormatJSNumber(f))
}

// FormatJSNumber renders f like JavaScript: plain decimal notation between
// 1e-6 and 1e21, exponent notation without zero padding outside that range.
func FormatJSNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	// Go writes e+07 / e-07; JavaScript writes e+7 / e-7.
	for i := 0; i < len(s); i++ {
		if s[i] == 'e' && i+2 < len(s) {
			exp := s[i+2:]
			for len(exp) > 1 && exp[0] == '0' {
				exp = exp[1:]
			}
			return s[:i+2] + exp
		}
	}
	return s
}
