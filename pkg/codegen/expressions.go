package codegen

import (
	"github.com/spicery/jsast/pkg/common"
)

func isWordOperator(op string) bool {
	switch op {
	case "typeof", "void", "delete", "in", "instanceof", "throw":
		return true
	}
	return false
}

func (g *CodeGenerator) printExpression(node, parent *common.Mapping) error {
	switch node.Type() {
	case "Identifier":
		g.word(node.Str("name"))
		return g.printPatternTypes(node)
	case "ThisExpression":
		g.word("this")
		return nil
	case "Super":
		g.word("super")
		return nil
	case "NullLiteral":
		g.word("null")
		return nil
	case "BooleanLiteral":
		if node.Flag("value") {
			g.word("true")
		} else {
			g.word("false")
		}
		return nil
	case "NumericLiteral":
		g.printNumericLiteral(node)
		return nil
	case "StringLiteral":
		g.printStringLiteral(node)
		return nil
	case "RegExpLiteral":
		g.word("/" + node.Str("pattern") + "/" + node.Str("flags"))
		return nil

	case "TemplateLiteral":
		return g.printTemplateLiteral(node)
	case "TemplateElement":
		if value := node.Node("value"); value != nil {
			g.out.append(value.Str("raw"))
		}
		return nil
	case "TaggedTemplateExpression":
		if err := g.print(node.Node("tag"), node); err != nil {
			return err
		}
		if err := g.print(node.Node("typeParameters"), node); err != nil {
			return err
		}
		return g.print(node.Node("quasi"), node)

	case "ArrayExpression", "ArrayPattern":
		return g.printArray(node)
	case "ObjectExpression", "ObjectPattern":
		return g.printObject(node)
	case "ObjectProperty":
		return g.printObjectProperty(node)
	case "SpreadElement", "RestElement":
		g.token("...")
		if err := g.print(node.Node("argument"), node); err != nil {
			return err
		}
		return g.printPatternTypes(node)
	case "AssignmentPattern":
		if err := g.print(node.Node("left"), node); err != nil {
			return err
		}
		g.space()
		g.token("=")
		g.space()
		return g.print(node.Node("right"), node)

	case "MemberExpression", "OptionalMemberExpression":
		return g.printMember(node)
	case "CallExpression", "OptionalCallExpression":
		if err := g.print(node.Node("callee"), node); err != nil {
			return err
		}
		if node.Type() == "OptionalCallExpression" && node.Flag("optional") {
			g.token("?.")
		}
		if err := g.print(node.Node("typeArguments"), node); err != nil {
			return err
		}
		return g.printArguments(node)
	case "NewExpression":
		g.word("new")
		g.space()
		if err := g.print(node.Node("callee"), node); err != nil {
			return err
		}
		if err := g.print(node.Node("typeArguments"), node); err != nil {
			return err
		}
		return g.printArguments(node)
	case "MetaProperty":
		if err := g.print(node.Node("meta"), node); err != nil {
			return err
		}
		g.token(".")
		return g.print(node.Node("property"), node)

	case "SequenceExpression":
		return g.printList(node.List("expressions"), node)
	case "ParenthesizedExpression":
		g.token("(")
		if err := g.print(node.Node("expression"), node); err != nil {
			return err
		}
		g.token(")")
		return nil
	case "ConditionalExpression":
		return g.printConditional(node)
	case "UnaryExpression":
		op := node.Str("operator")
		if isWordOperator(op) {
			g.word(op)
			g.space()
		} else {
			g.token(op)
		}
		return g.print(node.Node("argument"), node)
	case "UpdateExpression":
		op := node.Str("operator")
		if node.Flag("prefix") {
			g.token(op)
			return g.print(node.Node("argument"), node)
		}
		if err := g.print(node.Node("argument"), node); err != nil {
			return err
		}
		g.token(op)
		return nil
	case "BinaryExpression", "LogicalExpression", "AssignmentExpression":
		return g.printBinary(node)
	case "AwaitExpression", "YieldExpression":
		if node.Type() == "AwaitExpression" {
			g.word("await")
		} else {
			g.word("yield")
			if node.Flag("delegate") {
				g.token("*")
			}
		}
		if argument := node.Node("argument"); argument != nil {
			g.space()
			return g.print(argument, node)
		}
		return nil
	}
	return &UnsupportedNodeError{Type: node.Type()}
}

// printPatternTypes writes the optional marker and type annotation that a
// binding may carry.
func (g *CodeGenerator) printPatternTypes(node *common.Mapping) error {
	if node.Flag("optional") {
		g.token("?")
	}
	return g.print(node.Node("typeAnnotation"), node)
}

func (g *CodeGenerator) printTemplateLiteral(node *common.Mapping) error {
	g.token("`")
	quasis := node.List("quasis")
	expressions := node.List("expressions")
	for i, quasi := range quasis {
		if err := g.print(quasi, node); err != nil {
			return err
		}
		if i+1 < len(quasis) && i < len(expressions) {
			g.out.append("${")
			if err := g.print(expressions[i], node); err != nil {
				return err
			}
			g.out.append("}")
		}
	}
	g.out.append("`")
	return nil
}

func (g *CodeGenerator) printArray(node *common.Mapping) error {
	elements := node.List("elements")
	g.token("[")
	g.printInnerComments(node)
	for i, e := range elements {
		if e != nil {
			if i > 0 {
				g.space()
			}
			if err := g.print(e, node); err != nil {
				return err
			}
			if i < len(elements)-1 {
				g.token(",")
			}
		} else {
			// A hole needs its comma even at the end: [a,,] has length 2.
			g.token(",")
		}
	}
	g.token("]")
	return g.printPatternTypes(node)
}

func (g *CodeGenerator) printObject(node *common.Mapping) error {
	props := node.List("properties")
	g.token("{")
	g.printInnerComments(node)
	if len(props) > 0 {
		g.space()
		err := g.printJoin(props, node, sequenceOptions{
			indent:      true,
			statement:   true,
			separator:   g.commaSeparator,
			addNewlines: firstOnNewLine(props, node),
		})
		if err != nil {
			return err
		}
		g.space()
	}
	g.token("}")
	return g.printPatternTypes(node)
}

// firstOnNewLine starts a braced member list on a fresh line when the
// whitespace rules do not already do so.
func firstOnNewLine(members []*common.Mapping, parent *common.Mapping) func(bool, *common.Mapping) int {
	return func(leading bool, node *common.Mapping) int {
		if !leading || len(members) == 0 || node != members[0] {
			return 0
		}
		if before, _ := needsWhitespace(node, parent); before {
			return 0
		}
		return 1
	}
}

func (g *CodeGenerator) printObjectProperty(node *common.Mapping) error {
	key := node.Node("key")
	value := node.Node("value")
	if node.Flag("computed") {
		g.token("[")
		if err := g.print(key, node); err != nil {
			return err
		}
		g.token("]")
	} else {
		shorthand := node.Flag("shorthand") || !node.Has("shorthand")
		// {a = 1} in a pattern is a shorthand with a default.
		if shorthand && is(value, "AssignmentPattern") && is(key, "Identifier") {
			if left := value.Node("left"); is(left, "Identifier") && left.Str("name") == key.Str("name") {
				return g.print(value, node)
			}
		}
		if err := g.print(key, node); err != nil {
			return err
		}
		if shorthand && is(key, "Identifier") && is(value, "Identifier") &&
			key.Str("name") == value.Str("name") {
			return nil
		}
	}
	g.token(":")
	g.space()
	return g.print(value, node)
}

func (g *CodeGenerator) printMember(node *common.Mapping) error {
	object := node.Node("object")
	if err := g.print(object, node); err != nil {
		return err
	}
	optional := node.Type() == "OptionalMemberExpression" && node.Flag("optional")
	if node.Flag("computed") {
		if optional {
			g.token("?.")
		}
		g.token("[")
		if err := g.print(node.Node("property"), node); err != nil {
			return err
		}
		g.token("]")
		return nil
	}
	if optional {
		g.token("?.")
	} else {
		if is(object, "NumericLiteral") && !isParenthesized(object) && needsDotAfter(numberText(object)) {
			g.token(".")
		}
		g.token(".")
	}
	return g.print(node.Node("property"), node)
}

func (g *CodeGenerator) printArguments(node *common.Mapping) error {
	g.token("(")
	if err := g.printList(node.List("arguments"), node); err != nil {
		return err
	}
	g.token(")")
	return nil
}

func (g *CodeGenerator) printConditional(node *common.Mapping) error {
	if err := g.print(node.Node("test"), node); err != nil {
		return err
	}
	g.space()
	g.token("?")
	g.space()
	if err := g.print(node.Node("consequent"), node); err != nil {
		return err
	}
	g.space()
	g.token(":")
	g.space()
	return g.print(node.Node("alternate"), node)
}

func (g *CodeGenerator) printBinary(node *common.Mapping) error {
	if err := g.print(node.Node("left"), node); err != nil {
		return err
	}
	g.space()
	op := node.Str("operator")
	if isWordOperator(op) {
		g.word(op)
	} else {
		g.token(op)
	}
	g.space()
	return g.print(node.Node("right"), node)
}
