package codegen

import (
	"strings"

	"github.com/spicery/jsast/pkg/common"
)

var functionTypes = map[string]bool{
	"FunctionDeclaration":     true,
	"FunctionExpression":      true,
	"ArrowFunctionExpression": true,
	"ObjectMethod":            true,
	"ClassMethod":             true,
}

var blankAroundTypes = map[string]bool{
	"ClassDeclaration": true,
	"ClassExpression":  true,
	"ForStatement":     true,
	"ForInStatement":   true,
	"ForOfStatement":   true,
	"WhileStatement":   true,
	"DoWhileStatement": true,
	"LabeledStatement": true,
	"SwitchStatement":  true,
	"TryStatement":     true,
	"TypeAlias":        true,
	"DeclareTypeAlias": true,
	"DeclareFunction":  true,
}

func isFunction(node *common.Mapping) bool {
	return node != nil && functionTypes[node.Type()]
}

// isHelper matches the names of runtime helpers: require and anything
// starting with an underscore.
func isHelper(node *common.Mapping) bool {
	if node == nil {
		return false
	}
	switch node.Type() {
	case "MemberExpression":
		return isHelper(node.Node("object")) || isHelper(node.Node("property"))
	case "Identifier":
		name := node.Str("name")
		return name == "require" || strings.HasPrefix(name, "_")
	case "CallExpression":
		return isHelper(node.Node("callee"))
	case "BinaryExpression", "AssignmentExpression":
		left := node.Node("left")
		return (left != nil && left.Type() == "Identifier" && isHelper(left)) || isHelper(node.Node("right"))
	}
	return false
}

func isSimpleValue(node *common.Mapping) bool {
	if node == nil {
		return false
	}
	switch node.Type() {
	case "StringLiteral", "NumericLiteral", "BooleanLiteral", "NullLiteral", "RegExpLiteral",
		"TemplateLiteral", "ObjectExpression", "ArrayExpression", "Identifier", "MemberExpression":
		return true
	}
	return false
}

type crawlState struct {
	hasCall     bool
	hasFunction bool
	hasHelper   bool
}

// crawl follows the spine of an expression: member objects, operator
// operands and callees. Arguments are not visited.
func crawl(node *common.Mapping, state *crawlState) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "MemberExpression":
		crawl(node.Node("object"), state)
		if node.Flag("computed") {
			crawl(node.Node("property"), state)
		}
	case "BinaryExpression", "LogicalExpression", "AssignmentExpression":
		crawl(node.Node("left"), state)
		crawl(node.Node("right"), state)
	case "CallExpression":
		state.hasCall = true
		state.hasHelper = state.hasHelper || isHelper(node.Node("callee"))
		crawl(node.Node("callee"), state)
	default:
		if isFunction(node) {
			state.hasFunction = true
		}
	}
}

func indexOf(nodes []*common.Mapping, node *common.Mapping) int {
	for i, n := range nodes {
		if n == node {
			return i
		}
	}
	return -1
}

// needsWhitespace reports whether a statement-like node wants a blank line
// before and after it.
func needsWhitespace(node, parent *common.Mapping) (before, after bool) {
	if node.Type() == "ExpressionStatement" {
		if expr := node.Node("expression"); expr != nil {
			node = expr
		}
	}
	if before, after, ok := whitespaceRule(node, parent); ok {
		return before, after
	}
	var items []*common.Mapping
	switch node.Type() {
	case "VariableDeclaration":
		for _, d := range node.List("declarations") {
			if d != nil {
				items = append(items, d.Node("init"))
			}
		}
	case "ArrayExpression":
		items = node.List("elements")
	case "ObjectExpression":
		items = node.List("properties")
	}
	for _, item := range items {
		if item == nil {
			continue
		}
		if before, after, ok := whitespaceRule(item, node); ok && (before || after) {
			return before, after
		}
	}
	return false, false
}

func whitespaceRule(node, parent *common.Mapping) (before, after, ok bool) {
	if isFunction(node) {
		return true, true, true
	}
	if blankAroundTypes[node.Type()] {
		return true, true, true
	}

	switch node.Type() {
	case "ExportNamedDeclaration", "ExportDefaultDeclaration":
		if decl := node.Node("declaration"); decl != nil {
			return whitespaceRule(decl, node)
		}
		return false, false, true

	case "AssignmentExpression":
		var state crawlState
		crawl(node.Node("right"), &state)
		if (state.hasCall && state.hasHelper) || state.hasFunction {
			return state.hasFunction, true, true
		}
		return false, false, true

	case "SwitchCase":
		cases := parent.List("cases")
		return len(node.List("consequent")) > 0 || (len(cases) > 0 && cases[0] == node), false, true

	case "LogicalExpression":
		if isFunction(node.Node("left")) || isFunction(node.Node("right")) {
			return false, true, true
		}
		return false, false, true

	case "StringLiteral", "DirectiveLiteral":
		return false, node.Str("value") == "use strict", true

	case "Directive":
		if value := node.Node("value"); value != nil {
			return false, value.Str("value") == "use strict", true
		}

	case "CallExpression":
		if isFunction(node.Node("callee")) || isHelper(node) {
			return true, true, true
		}
		return false, false, true

	case "VariableDeclaration":
		for _, d := range node.List("declarations") {
			if d == nil {
				continue
			}
			init := d.Node("init")
			enabled := isHelper(d.Node("id")) && !isSimpleValue(init)
			if !enabled && init != nil {
				var state crawlState
				crawl(init, &state)
				enabled = (isHelper(init) && state.hasCall) || state.hasFunction
			}
			if enabled {
				return true, true, true
			}
		}
		return false, false, false

	case "IfStatement":
		if cons := node.Node("consequent"); cons != nil && cons.Type() == "BlockStatement" {
			return true, true, true
		}
		return false, false, true

	case "ObjectProperty", "ObjectTypeProperty":
		return indexOf(parent.List("properties"), node) == 0, false, true

	case "ObjectTypeCallProperty":
		first := indexOf(parent.List("callProperties"), node) == 0
		return first && len(parent.List("properties")) == 0, false, true

	case "ObjectTypeIndexer":
		first := indexOf(parent.List("indexers"), node) == 0
		return first && len(parent.List("properties")) == 0 && len(parent.List("callProperties")) == 0, false, true
	}
	return false, false, false
}
