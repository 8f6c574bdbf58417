package codegen

import (
	"github.com/spicery/jsast/pkg/common"
)

// precedence of binary and logical operators; higher binds tighter.
var precedence = map[string]int{
	"??":         0,
	"||":         0,
	"&&":         1,
	"|":          2,
	"^":          3,
	"&":          4,
	"==":         5,
	"===":        5,
	"!=":         5,
	"!==":        5,
	"<":          6,
	">":          6,
	"<=":         6,
	">=":         6,
	"in":         6,
	"instanceof": 6,
	">>":         7,
	"<<":         7,
	">>>":        7,
	"+":          8,
	"-":          8,
	"*":          9,
	"/":          9,
	"%":          9,
	"**":         10,
}

func isBinary(node *common.Mapping) bool {
	if node == nil {
		return false
	}
	t := node.Type()
	return t == "BinaryExpression" || t == "LogicalExpression"
}

func is(node *common.Mapping, nodeType string) bool {
	return node != nil && node.Type() == nodeType
}

// isChild reports whether parent holds node under key.
func isChild(parent *common.Mapping, key string, node *common.Mapping) bool {
	return parent != nil && parent.Node(key) == node
}

func isCallee(node, parent *common.Mapping) bool {
	if parent == nil {
		return false
	}
	switch parent.Type() {
	case "CallExpression", "NewExpression", "OptionalCallExpression":
		return isChild(parent, "callee", node)
	}
	return false
}

func isMemberObject(node, parent *common.Mapping) bool {
	if parent == nil {
		return false
	}
	switch parent.Type() {
	case "MemberExpression", "OptionalMemberExpression":
		return isChild(parent, "object", node)
	}
	return false
}

func isClassExtendsClause(node, parent *common.Mapping) bool {
	if parent == nil {
		return false
	}
	switch parent.Type() {
	case "ClassDeclaration", "ClassExpression":
		return isChild(parent, "superClass", node)
	}
	return false
}

// unaryLikeNeedsParens covers operators that bind looser than member
// access and calls.
func unaryLikeNeedsParens(node, parent *common.Mapping) bool {
	return isMemberObject(node, parent) ||
		isCallee(node, parent) ||
		(is(parent, "BinaryExpression") && parent.Str("operator") == "**" && isChild(parent, "left", node)) ||
		isClassExtendsClause(node, parent)
}

func conditionalNeedsParens(node, parent *common.Mapping) bool {
	if parent == nil {
		return false
	}
	switch parent.Type() {
	case "UnaryExpression", "SpreadElement", "BinaryExpression", "LogicalExpression",
		"AwaitExpression", "TaggedTemplateExpression":
		return true
	case "ConditionalExpression":
		return isChild(parent, "test", node)
	}
	return unaryLikeNeedsParens(node, parent)
}

func hasCallExpression(node *common.Mapping) bool {
	for node != nil {
		switch node.Type() {
		case "CallExpression", "OptionalCallExpression":
			return true
		case "MemberExpression", "OptionalMemberExpression":
			node = node.Node("object")
		default:
			return false
		}
	}
	return false
}

// needsParens decides whether node must be wrapped in parentheses when
// printed as a child of parent.
func (g *CodeGenerator) needsParens(node, parent *common.Mapping) bool {
	if parent == nil {
		return false
	}
	if is(parent, "NewExpression") && isChild(parent, "callee", node) && hasCallExpression(node) {
		return true
	}

	switch node.Type() {
	case "BinaryExpression", "LogicalExpression":
		op := node.Str("operator")
		if g.inForInit > 0 && op == "in" {
			return true
		}
		if op == "**" && is(parent, "BinaryExpression") && parent.Str("operator") == "**" {
			return isChild(parent, "left", node)
		}
		if isClassExtendsClause(node, parent) || isCallee(node, parent) || isMemberObject(node, parent) {
			return true
		}
		switch parent.Type() {
		case "UnaryExpression", "SpreadElement", "AwaitExpression":
			return true
		}
		if isBinary(parent) {
			parentPrec := precedence[parent.Str("operator")]
			nodePrec := precedence[op]
			if parentPrec > nodePrec {
				return true
			}
			if parentPrec == nodePrec && isChild(parent, "right", node) {
				return true
			}
			// ?? cannot be mixed with || or && without parentheses.
			parentOp := parent.Str("operator")
			if (op == "??") != (parentOp == "??") && nodePrec <= precedence["&&"] && parentPrec <= precedence["&&"] {
				return true
			}
		}
		return false

	case "SequenceExpression":
		switch parent.Type() {
		case "ForStatement", "ThrowStatement", "ReturnStatement":
			return false
		case "IfStatement", "WhileStatement", "DoWhileStatement":
			return !isChild(parent, "test", node)
		case "ForInStatement", "ForOfStatement":
			return !isChild(parent, "right", node)
		case "SwitchStatement":
			return !isChild(parent, "discriminant", node)
		case "ExpressionStatement":
			return !isChild(parent, "expression", node)
		}
		return true

	case "YieldExpression", "AwaitExpression":
		if isBinary(parent) || isCallee(node, parent) || isMemberObject(node, parent) ||
			isClassExtendsClause(node, parent) {
			return true
		}
		switch parent.Type() {
		case "UnaryExpression", "SpreadElement", "TaggedTemplateExpression":
			return true
		case "AwaitExpression":
			return node.Type() == "AwaitExpression"
		case "ConditionalExpression":
			return isChild(parent, "test", node)
		}
		return false

	case "ConditionalExpression":
		return conditionalNeedsParens(node, parent)

	case "AssignmentExpression":
		if left := node.Node("left"); is(left, "ObjectPattern") && g.isFirstInStatement(true, false) {
			return true
		}
		return conditionalNeedsParens(node, parent)

	case "ArrowFunctionExpression":
		if is(parent, "ExportDefaultDeclaration") {
			return false
		}
		return conditionalNeedsParens(node, parent)

	case "UnaryExpression", "UpdateExpression":
		return unaryLikeNeedsParens(node, parent)

	case "FunctionExpression":
		return g.isFirstInStatement(false, true) || (isCallee(node, parent) && is(parent, "NewExpression"))

	case "ClassExpression":
		return g.isFirstInStatement(false, true)

	case "ObjectExpression":
		return g.isFirstInStatement(true, false)

	case "OptionalMemberExpression", "OptionalCallExpression":
		return (isCallee(node, parent) && !is(parent, "OptionalCallExpression")) ||
			(isMemberObject(node, parent) && !is(parent, "OptionalMemberExpression"))

	case "NullableTypeAnnotation":
		return is(parent, "ArrayTypeAnnotation")

	case "UnionTypeAnnotation", "IntersectionTypeAnnotation":
		switch parent.Type() {
		case "ArrayTypeAnnotation", "NullableTypeAnnotation", "IntersectionTypeAnnotation", "UnionTypeAnnotation":
			return true
		}
		return false

	case "FunctionTypeAnnotation":
		switch parent.Type() {
		case "UnionTypeAnnotation", "IntersectionTypeAnnotation", "ArrayTypeAnnotation", "NullableTypeAnnotation":
			return true
		case "TypeAnnotation":
			// An arrow's return type would otherwise swallow the arrow.
			return is(g.parentOf(2), "ArrowFunctionExpression")
		}
		return false
	}
	return false
}

// isFirstInStatement reports whether the node on top of the stack is the
// leftmost part of an expression statement (or, optionally, of an arrow
// body or a default export), where it would be read as a declaration or a
// block.
func (g *CodeGenerator) isFirstInStatement(considerArrow, considerDefaultExport bool) bool {
	i := len(g.stack) - 1
	node := g.stack[i]
	for i--; i >= 0; i-- {
		parent := g.stack[i]
		switch {
		case is(parent, "ExpressionStatement") && isChild(parent, "expression", node):
			return true
		case considerArrow && is(parent, "ArrowFunctionExpression") && isChild(parent, "body", node):
			return true
		case considerDefaultExport && is(parent, "ExportDefaultDeclaration") && isChild(parent, "declaration", node):
			return true
		}
		if !isLeftmostChild(node, parent) {
			return false
		}
		node = parent
	}
	return false
}

func isLeftmostChild(node, parent *common.Mapping) bool {
	switch parent.Type() {
	case "CallExpression", "NewExpression", "OptionalCallExpression":
		return isChild(parent, "callee", node) && parent.Type() != "NewExpression"
	case "MemberExpression", "OptionalMemberExpression":
		return isChild(parent, "object", node)
	case "SequenceExpression":
		exprs := parent.List("expressions")
		return len(exprs) > 0 && exprs[0] == node
	case "ConditionalExpression":
		return isChild(parent, "test", node)
	case "BinaryExpression", "LogicalExpression", "AssignmentExpression":
		return isChild(parent, "left", node)
	case "TaggedTemplateExpression":
		return isChild(parent, "tag", node)
	case "UpdateExpression":
		return !parent.Flag("prefix")
	}
	return false
}
