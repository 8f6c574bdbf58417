package parser

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spicery/jsast/pkg/common"
	"github.com/spicery/jsast/pkg/strip"
)

func mustParse(t *testing.T, src string) *common.Mapping {
	t.Helper()
	file, err := Parse(src, DefaultDialect())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return file
}

// plain converts a tree into generic Go values so that comparisons ignore
// key order.
func plain(t *testing.T, v common.Value) any {
	t.Helper()
	var out any
	if err := json.Unmarshal([]byte(common.MarshalJSON(v, "")), &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	return out
}

func plainJSON(t *testing.T, text string) any {
	t.Helper()
	var out any
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	return out
}

func firstStatement(t *testing.T, file *common.Mapping) *common.Mapping {
	t.Helper()
	body := file.Node("program").List("body")
	if len(body) == 0 {
		t.Fatalf("Expected at least one statement")
	}
	return body[0]
}

func firstExpression(t *testing.T, src string) *common.Mapping {
	t.Helper()
	stmt := firstStatement(t, mustParse(t, src))
	if stmt.Type() != "ExpressionStatement" {
		t.Fatalf("Expected ExpressionStatement, got %s", stmt.Type())
	}
	return stmt.Node("expression")
}

func TestParseDeclareTypeAlias(t *testing.T) {
	src := "// @flow\n\ndeclare type Nested = {\n  x: ?string,\n\n  constructor(data: ?Object): void\n};\n"
	got := strip.Strip(mustParse(t, src), strip.LocationKeys)

	want := `{
	  "type": "File",
	  "program": {
	    "type": "Program",
	    "sourceType": "module",
	    "body": [{
	      "type": "DeclareTypeAlias",
	      "id": {"type": "Identifier", "name": "Nested"},
	      "typeParameters": null,
	      "right": {
	        "type": "ObjectTypeAnnotation",
	        "properties": [
	          {
	            "type": "ObjectTypeProperty",
	            "key": {"type": "Identifier", "name": "x"},
	            "value": {"type": "NullableTypeAnnotation", "typeAnnotation": {"type": "StringTypeAnnotation"}},
	            "static": false, "kind": "init", "method": false, "optional": false, "variance": null
	          },
	          {
	            "type": "ObjectTypeProperty",
	            "key": {"type": "Identifier", "name": "constructor"},
	            "value": {
	              "type": "FunctionTypeAnnotation",
	              "params": [{
	                "type": "FunctionTypeParam",
	                "name": {"type": "Identifier", "name": "data"},
	                "optional": false,
	                "typeAnnotation": {
	                  "type": "NullableTypeAnnotation",
	                  "typeAnnotation": {"type": "GenericTypeAnnotation", "id": {"type": "Identifier", "name": "Object"}, "typeParameters": null}
	                }
	              }],
	              "rest": null,
	              "typeParameters": null,
	              "returnType": {"type": "VoidTypeAnnotation"}
	            },
	            "static": false, "kind": "init", "method": true, "optional": false
	          }
	        ],
	        "callProperties": [],
	        "indexers": [],
	        "exact": false
	      },
	      "leadingComments": [{"type": "CommentLine", "value": " @flow"}]
	    }],
	    "directives": []
	  },
	  "comments": [{"type": "CommentLine", "value": " @flow"}]
	}`
	if diff := cmp.Diff(plainJSON(t, want), plain(t, got)); diff != "" {
		t.Errorf("Unexpected tree (-want +got):\n%s", diff)
	}
}

func TestParseLocations(t *testing.T) {
	file := mustParse(t, "let x = 1;\n")
	if file.Num("start") != 0 || file.Num("end") != 11 {
		t.Errorf("Expected File to span 0-11, got %v-%v", file.Num("start"), file.Num("end"))
	}
	decl := firstStatement(t, file)
	if decl.Num("start") != 0 || decl.Num("end") != 10 {
		t.Errorf("Expected declaration to span 0-10, got %v-%v", decl.Num("start"), decl.Num("end"))
	}
	declarator := decl.List("declarations")[0]
	want := `{"start":{"line":1,"column":4},"end":{"line":1,"column":9}}`
	if got := common.MarshalJSON(declarator.Node("loc"), ""); got != want {
		t.Errorf("Expected loc %s, got %s", want, got)
	}
	if got := common.MarshalJSON(declarator.Node("init").Node("extra"), ""); got != `{"rawValue":1,"raw":"1"}` {
		t.Errorf("Unexpected literal extra %s", got)
	}
}

func TestParseOffsetsCountUTF16(t *testing.T) {
	expr := firstExpression(t, "\"\U0001F600\" + a;")
	right := expr.Node("right")
	if right.Num("start") != 7 {
		t.Errorf("Expected identifier at offset 7, got %v", right.Num("start"))
	}
	if col := right.Node("loc").Node("start").Num("column"); col != 7 {
		t.Errorf("Expected column 7, got %v", col)
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a b", "Unexpected token, expected ; (1:2)"},
		{"var x = (1;", "Unexpected token, expected , (1:10)"},
		{"({a = 1});", "Unexpected token (1:4)"},
		{"const x;", "Missing initializer in const declaration (1:7)"},
		{"return 1;", "'return' outside of function (1:0)"},
		{"1 = 2;", "Assigning to rvalue (1:0)"},
		{"x = 010;", "Invalid number (1:4)"},
	}
	for _, test := range tests {
		_, err := Parse(test.src, DefaultDialect())
		if err == nil {
			t.Errorf("Expected error for %q", test.src)
			continue
		}
		var syntaxError *SyntaxError
		if !errors.As(err, &syntaxError) {
			t.Errorf("Expected *SyntaxError for %q, got %T", test.src, err)
		}
		if err.Error() != test.want {
			t.Errorf("Expected %q for %q, got %q", test.want, test.src, err.Error())
		}
	}
}

func TestParseLegacyOctalInScript(t *testing.T) {
	file, err := Parse("x = 0777;", Dialect{SourceType: SourceTypeScript})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	literal := firstStatement(t, file).Node("expression").Node("right")
	if literal.Num("value") != 511 {
		t.Errorf("Expected 511, got %v", literal.Num("value"))
	}
	if raw := literal.Node("extra").Str("raw"); raw != "0777" {
		t.Errorf("Expected raw 0777, got %q", raw)
	}
}

func TestParseModuleSyntaxInScript(t *testing.T) {
	_, err := Parse(`import a from "a";`, Dialect{SourceType: SourceTypeScript})
	if err == nil || !strings.Contains(err.Error(), "sourceType: module") {
		t.Errorf("Expected module error, got %v", err)
	}
}

func TestDialectValidation(t *testing.T) {
	if _, err := Parse("1;", Dialect{SourceType: "module", Plugins: []string{"jsx"}}); err == nil {
		t.Errorf("Expected unknown plugin error")
	}
	if _, err := Parse("1;", Dialect{SourceType: "esm"}); err == nil {
		t.Errorf("Expected unknown source type error")
	}
	d, err := LoadDialectFromString("source-type: script\n")
	if err != nil {
		t.Fatalf("LoadDialectFromString failed: %v", err)
	}
	if d.SourceType != SourceTypeScript || !d.HasPlugin(PluginFlow) {
		t.Errorf("Expected script dialect keeping the flow plugin, got %+v", d)
	}
}

func TestParseParenthesized(t *testing.T) {
	expr := firstExpression(t, "(a);")
	want := `{"parenthesized":true,"parenStart":0}`
	if got := common.MarshalJSON(expr.Node("extra"), ""); got != want {
		t.Errorf("Expected extra %s, got %s", want, got)
	}
}

func TestParseTypeCast(t *testing.T) {
	expr := firstExpression(t, "(x: any);")
	if expr.Type() != "TypeCastExpression" {
		t.Fatalf("Expected TypeCastExpression, got %s", expr.Type())
	}
	if expr.Num("start") != 1 || expr.Num("end") != 7 {
		t.Errorf("Expected cast to span 1-7, got %v-%v", expr.Num("start"), expr.Num("end"))
	}
	annotation := expr.Node("typeAnnotation")
	if annotation.Type() != "TypeAnnotation" || annotation.Node("typeAnnotation").Type() != "AnyTypeAnnotation" {
		t.Errorf("Unexpected annotation %s", common.MarshalJSON(annotation, ""))
	}
	if !isParenthesized(expr) {
		t.Errorf("Expected cast to be parenthesized")
	}
}

func TestParseArrowFunction(t *testing.T) {
	decl := firstStatement(t, mustParse(t, "const f = (a: number, b = 2): number => a + b;"))
	arrow := decl.List("declarations")[0].Node("init")
	if arrow.Type() != "ArrowFunctionExpression" {
		t.Fatalf("Expected ArrowFunctionExpression, got %s", arrow.Type())
	}
	params := arrow.List("params")
	if len(params) != 2 {
		t.Fatalf("Expected 2 params, got %d", len(params))
	}
	if params[0].Type() != "Identifier" || params[0].Node("typeAnnotation") == nil {
		t.Errorf("Expected annotated identifier, got %s", common.MarshalJSON(params[0], ""))
	}
	if params[1].Type() != "AssignmentPattern" {
		t.Errorf("Expected AssignmentPattern, got %s", params[1].Type())
	}
	if arrow.Node("returnType") == nil {
		t.Errorf("Expected return type")
	}
	if arrow.Node("body").Type() != "BinaryExpression" {
		t.Errorf("Expected expression body, got %s", arrow.Node("body").Type())
	}
}

func TestParseConditionalIsNotArrowReturnType(t *testing.T) {
	expr := firstExpression(t, "a ? (b) : c => d;")
	if expr.Type() != "ConditionalExpression" {
		t.Fatalf("Expected ConditionalExpression, got %s", expr.Type())
	}
	if got := expr.Node("consequent").Type(); got != "Identifier" {
		t.Errorf("Expected Identifier consequent, got %s", got)
	}
	if got := expr.Node("alternate").Type(); got != "ArrowFunctionExpression" {
		t.Errorf("Expected arrow alternate, got %s", got)
	}
}

func TestParseNestedTypeArguments(t *testing.T) {
	decl := firstStatement(t, mustParse(t, "let x: Array<Array<T>> = [];"))
	id := decl.List("declarations")[0].Node("id")
	outer := id.Node("typeAnnotation").Node("typeAnnotation")
	inner := outer.Node("typeParameters").List("params")[0]
	if inner.Node("id").Str("name") != "Array" {
		t.Errorf("Expected inner Array, got %s", common.MarshalJSON(inner, ""))
	}
	if got := inner.Node("typeParameters").List("params")[0].Node("id").Str("name"); got != "T" {
		t.Errorf("Expected T, got %s", got)
	}
}

func TestParseDestructuringAssignment(t *testing.T) {
	expr := firstExpression(t, "({a = 1, b: [c, ...d]} = e);")
	left := expr.Node("left")
	if left.Type() != "ObjectPattern" {
		t.Fatalf("Expected ObjectPattern, got %s", left.Type())
	}
	props := left.List("properties")
	if props[0].Node("value").Type() != "AssignmentPattern" {
		t.Errorf("Expected default value pattern")
	}
	array := props[1].Node("value")
	if array.Type() != "ArrayPattern" || array.List("elements")[1].Type() != "RestElement" {
		t.Errorf("Expected array pattern with rest, got %s", common.MarshalJSON(array, ""))
	}
}

func TestParseClassMembers(t *testing.T) {
	src := "export class Value {\n  v: ?number;\n\n  constructor(data: Object = {}) {\n    this.v = data.v;\n  }\n}\n"
	export := strip.Mapping(firstStatement(t, mustParse(t, src)), strip.LocationKeys)
	if diff := cmp.Diff([]string{"type", "specifiers", "source", "declaration", "exportKind"}, export.Keys()); diff != "" {
		t.Errorf("Unexpected export keys (-want +got):\n%s", diff)
	}
	members := export.Node("declaration").Node("body").List("body")
	if len(members) != 2 {
		t.Fatalf("Expected 2 members, got %d", len(members))
	}
	if diff := cmp.Diff([]string{"type", "static", "key", "computed", "variance", "typeAnnotation", "value"}, members[0].Keys()); diff != "" {
		t.Errorf("Unexpected property keys (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"type", "static", "key", "computed", "kind", "generator", "async", "params", "body"}, members[1].Keys()); diff != "" {
		t.Errorf("Unexpected method keys (-want +got):\n%s", diff)
	}
	if members[1].Str("kind") != "constructor" {
		t.Errorf("Expected constructor kind, got %s", members[1].Str("kind"))
	}
	param := members[1].List("params")[0]
	if param.Type() != "AssignmentPattern" || param.Node("right").Type() != "ObjectExpression" {
		t.Errorf("Unexpected parameter %s", common.MarshalJSON(param, ""))
	}
}

func TestParseComments(t *testing.T) {
	body := mustParse(t, "a(); // note\n/* lead */\nb();\n").Node("program").List("body")
	trailing := body[0].List("trailingComments")
	if len(trailing) != 1 || trailing[0].Str("value") != " note" {
		t.Errorf("Expected trailing line comment on first statement, got %s", common.MarshalJSON(body[0], ""))
	}
	leading := body[1].List("leadingComments")
	if len(leading) != 1 || leading[0].Type() != "CommentBlock" || leading[0].Str("value") != " lead " {
		t.Errorf("Expected leading block comment on second statement")
	}

	block := firstStatement(t, mustParse(t, "{\n  // empty\n}"))
	if inner := block.List("innerComments"); len(inner) != 1 {
		t.Errorf("Expected inner comment on empty block, got %d", len(inner))
	}
}

func TestParseDirectives(t *testing.T) {
	file, err := Parse("'use strict';\nfoo();\n", Dialect{SourceType: SourceTypeScript})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	program := file.Node("program")
	directives := program.List("directives")
	if len(directives) != 1 {
		t.Fatalf("Expected 1 directive, got %d", len(directives))
	}
	literal := directives[0].Node("value")
	if literal.Type() != "DirectiveLiteral" || literal.Str("value") != "use strict" {
		t.Errorf("Unexpected directive %s", common.MarshalJSON(literal, ""))
	}
	if len(program.List("body")) != 1 {
		t.Errorf("Expected directive to be removed from body")
	}
}

func TestParseTemplateLiteral(t *testing.T) {
	expr := firstExpression(t, "`a${b}c`;")
	quasis := expr.List("quasis")
	if len(quasis) != 2 || len(expr.List("expressions")) != 1 {
		t.Fatalf("Unexpected template %s", common.MarshalJSON(expr, ""))
	}
	if quasis[0].Node("value").Str("cooked") != "a" || !quasis[1].Flag("tail") {
		t.Errorf("Unexpected quasis %s", common.MarshalJSON(strip.Strip(expr, strip.LocationKeys), ""))
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	expr, err := ParseExpression("a || b && c + d * e", DefaultDialect())
	if err != nil {
		t.Fatalf("ParseExpression failed: %v", err)
	}
	if expr.Type() != "LogicalExpression" || expr.Str("operator") != "||" {
		t.Fatalf("Expected || at the root, got %s", expr.Str("operator"))
	}
	and := expr.Node("right")
	plus := and.Node("right")
	times := plus.Node("right")
	if and.Str("operator") != "&&" || plus.Str("operator") != "+" || times.Str("operator") != "*" {
		t.Errorf("Unexpected nesting %s", common.MarshalJSON(strip.Strip(expr, strip.LocationKeys), ""))
	}
}
