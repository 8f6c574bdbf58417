package strip

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spicery/jsast/pkg/common"
)

func mustParse(t *testing.T, s string) common.Value {
	t.Helper()
	v, err := common.ParseJSON(s)
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	return v
}

func TestStripStringLiteral(t *testing.T) {
	input := mustParse(t, `{"type":"StringLiteral","value":"x","loc":{"start":{"line":1,"column":0},"end":{"line":1,"column":3}}}`)

	got := common.MarshalJSON(Strip(input, LocationKeys), "")
	want := `{"type":"StringLiteral","value":"x"}`
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestStripSequenceOfNodes(t *testing.T) {
	input := mustParse(t, `{"type":"ArrayExpression","elements":[{"type":"Identifier","name":"a","start":4},{"type":"Identifier","name":"b"}]}`)

	got := Strip(input, LocationKeys).(*common.Mapping)
	elements := got.List("elements")
	if len(elements) != 2 {
		t.Fatalf("Expected 2 elements, got %d", len(elements))
	}
	if elements[0].Has("start") {
		t.Errorf("Expected start to be removed from first element")
	}
	want := mustParse(t, `{"type":"Identifier","name":"b"}`)
	if diff := cmp.Diff(want, common.Value(elements[1])); diff != "" {
		t.Errorf("Second element changed (-want +got):\n%s", diff)
	}
}

func TestStripKeepsNullsAndPrimitives(t *testing.T) {
	input := mustParse(t, `{"a":null,"b":[1,"two",true,null],"c":false,"d":3.5,"end":9}`)

	got := common.MarshalJSON(Strip(input, LocationKeys), "")
	want := `{"a":null,"b":[1,"two",true,null],"c":false,"d":3.5}`
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestStripNestedExtra(t *testing.T) {
	input := mustParse(t, `{"type":"Identifier","name":"x","extra":{"parenthesized":true,"parenStart":0}}`)

	got := common.MarshalJSON(Strip(input, LocationKeys), "")
	want := `{"type":"Identifier","name":"x","extra":{"parenthesized":true}}`
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestStripDoesNotMutateInput(t *testing.T) {
	text := `{"type":"File","start":0,"program":{"type":"Program","start":0,"body":[{"type":"EmptyStatement","end":1}]}}`
	input := mustParse(t, text)

	_ = Strip(input, LocationKeys)

	if got := common.MarshalJSON(input, ""); got != text {
		t.Errorf("Input was modified: %s", got)
	}
}

func TestStripIsIdempotent(t *testing.T) {
	input := mustParse(t, `{"type":"File","start":0,"end":5,"loc":{},"program":{"type":"Program","body":[{"type":"ExpressionStatement","start":0,"expression":{"type":"NumericLiteral","value":1,"extra":{"raw":"1","parenStart":0}}}]}}`)

	once := Strip(input, LocationKeys)
	twice := Strip(once, LocationKeys)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("Second strip changed the tree (-once +twice):\n%s", diff)
	}
}

// checkShape walks both trees in step and verifies that surviving keys,
// sequence lengths and primitives match.
func checkShape(t *testing.T, path string, in, out common.Value, keys KeySet) {
	t.Helper()
	if common.KindOf(in) != common.KindOf(out) {
		t.Fatalf("%s: kind changed from %v to %v", path, common.KindOf(in), common.KindOf(out))
	}
	switch x := in.(type) {
	case *common.Mapping:
		y := out.(*common.Mapping)
		want := []string{}
		for _, k := range x.Keys() {
			if !keys.Contains(k) {
				want = append(want, k)
			}
		}
		if diff := cmp.Diff(want, y.Keys()); diff != "" {
			t.Fatalf("%s: keys differ (-want +got):\n%s", path, diff)
		}
		for _, k := range want {
			a, _ := x.Get(k)
			b, _ := y.Get(k)
			checkShape(t, path+"."+k, a, b, keys)
		}
	case common.Sequence:
		y := out.(common.Sequence)
		if len(x) != len(y) {
			t.Fatalf("%s: length changed from %d to %d", path, len(x), len(y))
		}
		for i := range x {
			checkShape(t, path+"[]", x[i], y[i], keys)
		}
	default:
		if in != out {
			t.Fatalf("%s: primitive changed from %v to %v", path, in, out)
		}
	}
}

func TestStripPreservesShape(t *testing.T) {
	inputs := []string{
		`{"type":"Program","start":0,"end":10,"body":[],"directives":[]}`,
		`{"start":{"start":1},"items":[{"end":2,"x":[{"loc":null,"y":"z"}]}],"keep":"start"}`,
		`{"type":"ClassBody","body":[{"type":"ClassProperty","key":{"type":"Identifier","name":"v","loc":{"start":{"line":4,"column":2}}},"value":null,"variance":null,"static":false}]}`,
	}
	custom := NewKeySet("x", "start")
	for _, s := range inputs {
		for _, keys := range []KeySet{LocationKeys, custom} {
			in := mustParse(t, s)
			checkShape(t, "$", in, Strip(in, keys), keys)
		}
	}
}

func TestKeySet(t *testing.T) {
	if LocationKeys.Len() != 4 {
		t.Errorf("Expected 4 location keys, got %d", LocationKeys.Len())
	}
	if diff := cmp.Diff([]string{"end", "loc", "parenStart", "start"}, LocationKeys.Keys()); diff != "" {
		t.Errorf("Unexpected keys (-want +got):\n%s", diff)
	}
	if LocationKeys.Contains("type") {
		t.Errorf("type must not be a location key")
	}
}

func TestStripNilMapping(t *testing.T) {
	var m *common.Mapping
	if got := Mapping(m, LocationKeys); got == nil || got.Len() != 0 {
		t.Errorf("Expected an empty mapping, got %v", got)
	}
	if got := common.MarshalJSON(Strip(m, LocationKeys), ""); got != "{}" {
		t.Errorf("Expected {}, got %s", got)
	}
}
