package common

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadJSONPreservesOrderAndNumbers(t *testing.T) {
	v, err := ParseJSON(`{"z": 1.50, "a": [1e3, null, true], "m": {}}`)
	require.NoError(t, err)
	m, ok := v.(*Mapping)
	require.True(t, ok)
	require.Equal(t, []string{"z", "a", "m"}, m.Keys())
	require.Equal(t, `{"z":1.50,"a":[1e3,null,true],"m":{}}`, MarshalJSON(v, ""))
	require.Equal(t, 1.5, m.Num("z"))
}

func TestReadJSONDuplicateKeyKeepsFirstPosition(t *testing.T) {
	v, err := ParseJSON(`{"a": 1, "b": 2, "a": 3}`)
	require.NoError(t, err)
	require.Equal(t, `{"a":3,"b":2}`, MarshalJSON(v, ""))
}

func TestReadJSONErrors(t *testing.T) {
	for _, input := range []string{``, `{"a": }`, `[1, 2`, `1 2`, `{} []`} {
		_, err := ParseJSON(input)
		require.Error(t, err, input)
	}
}

func TestMarshalJSONIndent(t *testing.T) {
	v := NewNode("Identifier").Set("name", String("x\n\"y\"")).Set("list", Sequence{Int(1), Sequence{}})
	want := "{\n  \"type\": \"Identifier\",\n  \"name\": \"x\\n\\\"y\\\"\",\n  \"list\": [\n    1,\n    []\n  ]\n}"
	require.Equal(t, want, MarshalJSON(v, "  "))
	require.Equal(t, `{"type":"Identifier","name":"x\n\"y\"","list":[1,[]]}`, MarshalJSON(v, ""))
}

func TestMarshalJSONLeavesUnicodeUnescaped(t *testing.T) {
	require.Equal(t, "\"é\\u0001<\"", MarshalJSON(String("é\x01<"), ""))
}

func TestMarshalJSONWritesNonFiniteNumbersAsNull(t *testing.T) {
	v := NewNode("NumericLiteral").Set("value", Float(math.Inf(1))).Set("list", Sequence{Float(math.Inf(-1)), Float(math.NaN())})
	require.Equal(t, `{"type":"NumericLiteral","value":null,"list":[null,null]}`, MarshalJSON(v, ""))

	back, err := ParseJSON(MarshalJSON(v, "  "))
	require.NoError(t, err)
	require.Equal(t, KindNull, KindOf(back.(*Mapping).Fields[1].Value))
}

func TestPrintASTYAMLNonFiniteNumbers(t *testing.T) {
	tree := NewMapping().Set("a", Float(math.Inf(1))).Set("b", Float(math.Inf(-1))).Set("c", Float(math.NaN()))
	var buf bytes.Buffer
	require.NoError(t, PrintASTYAML(tree, "  ", &buf, &PrintOptions{}))
	require.Equal(t, "a: .inf\nb: -.inf\nc: .nan\n", buf.String())
}

func TestFormatJSNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{31, "31"},
		{-2.5, "-2.5"},
		{0.1, "0.1"},
		{1e-6, "0.000001"},
		{1e-7, "1e-7"},
		{1e21, "1e+21"},
		{1.5e300, "1.5e+300"},
		{123456789012345680000, "123456789012345680000"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, FormatJSNumber(tt.in), "%v", tt.in)
	}
}

func TestMappingNilSafe(t *testing.T) {
	var m *Mapping
	require.Equal(t, 0, m.Len())
	require.Empty(t, m.Keys())
	require.Equal(t, "", m.Type())
	require.Nil(t, m.Node("x"))
}

func TestCloneIsDeep(t *testing.T) {
	orig := NewNode("A").Set("child", NewNode("B"))
	c := Clone(orig).(*Mapping)
	c.Node("child").Set("type", String("C"))
	require.Equal(t, "B", orig.Node("child").Type())
}

func TestPickPrintFunc(t *testing.T) {
	_, err := PickPrintFunc("xml")
	require.EqualError(t, err, "unknown format: xml")

	tree := NewMapping().Set("b", Int(1)).Set("a", Sequence{Bool(true), Null{}})
	for _, format := range []string{"json", "YAML", "asciitree"} {
		write, err := PickPrintFunc(format)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, write(tree, "  ", &buf, &PrintOptions{}))
		require.NotEmpty(t, buf.String(), format)
	}
}

func TestPrintASTYAMLKeepsKeyOrder(t *testing.T) {
	tree := NewMapping().Set("b", Int(1)).Set("a", Sequence{Bool(true), Null{}})
	var buf bytes.Buffer
	require.NoError(t, PrintASTYAML(tree, "  ", &buf, &PrintOptions{}))
	require.Equal(t, "b: 1\na:\n  - true\n  - null\n", buf.String())
}

func TestTrimValue(t *testing.T) {
	require.Equal(t, "abcdef", TrimValue("abcdef", 0))
	require.Equal(t, "abc…", TrimValue("abcdef", 4))
	require.Equal(t, "a", TrimValue("abcdef", 1))
	require.Equal(t, "ab", TrimValue("ab", 4))
}
