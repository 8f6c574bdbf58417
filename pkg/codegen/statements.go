package codegen

import (
	"strings"

	"github.com/spicery/jsast/pkg/common"
)

func (g *CodeGenerator) printStatement(node, parent *common.Mapping) error {
	switch node.Type() {
	case "ExpressionStatement":
		if err := g.print(node.Node("expression"), node); err != nil {
			return err
		}
		g.semicolon()
		return nil

	case "BlockStatement":
		return g.printBraced(node.List("directives"), node.List("body"), node)

	case "EmptyStatement":
		g.semicolon()
		return nil

	case "DebuggerStatement":
		g.word("debugger")
		g.semicolon()
		return nil

	case "VariableDeclaration":
		return g.printVariableDeclaration(node, parent)

	case "VariableDeclarator":
		if err := g.print(node.Node("id"), node); err != nil {
			return err
		}
		if node.Flag("definite") {
			g.token("!")
		}
		if init := node.Node("init"); init != nil {
			g.space()
			g.token("=")
			g.space()
			return g.print(init, node)
		}
		return nil

	case "IfStatement":
		return g.printIf(node)

	case "ForStatement":
		return g.printFor(node)

	case "ForInStatement", "ForOfStatement":
		g.word("for")
		g.space()
		if node.Flag("await") {
			g.word("await")
			g.space()
		}
		g.token("(")
		g.inForInit++
		err := g.print(node.Node("left"), node)
		g.inForInit--
		if err != nil {
			return err
		}
		g.space()
		if node.Type() == "ForInStatement" {
			g.word("in")
		} else {
			g.word("of")
		}
		g.space()
		if err := g.print(node.Node("right"), node); err != nil {
			return err
		}
		g.token(")")
		return g.printLoopBody(node)

	case "WhileStatement":
		g.word("while")
		g.space()
		g.token("(")
		if err := g.print(node.Node("test"), node); err != nil {
			return err
		}
		g.token(")")
		return g.printLoopBody(node)

	case "DoWhileStatement":
		g.word("do")
		g.space()
		if err := g.print(node.Node("body"), node); err != nil {
			return err
		}
		g.space()
		g.word("while")
		g.space()
		g.token("(")
		if err := g.print(node.Node("test"), node); err != nil {
			return err
		}
		g.token(")")
		g.semicolon()
		return nil

	case "ReturnStatement", "ThrowStatement":
		if node.Type() == "ReturnStatement" {
			g.word("return")
		} else {
			g.word("throw")
		}
		if argument := node.Node("argument"); argument != nil {
			g.space()
			if err := g.print(argument, node); err != nil {
				return err
			}
		}
		g.semicolon()
		return nil

	case "BreakStatement", "ContinueStatement":
		if node.Type() == "BreakStatement" {
			g.word("break")
		} else {
			g.word("continue")
		}
		if label := node.Node("label"); label != nil {
			g.space()
			if err := g.print(label, node); err != nil {
				return err
			}
		}
		g.semicolon()
		return nil

	case "LabeledStatement":
		if err := g.print(node.Node("label"), node); err != nil {
			return err
		}
		g.token(":")
		g.space()
		return g.print(node.Node("body"), node)

	case "TryStatement":
		g.word("try")
		g.space()
		if err := g.print(node.Node("block"), node); err != nil {
			return err
		}
		g.space()
		if err := g.print(node.Node("handler"), node); err != nil {
			return err
		}
		if finalizer := node.Node("finalizer"); finalizer != nil {
			g.space()
			g.word("finally")
			g.space()
			return g.print(finalizer, node)
		}
		return nil

	case "CatchClause":
		g.word("catch")
		g.space()
		if param := node.Node("param"); param != nil {
			g.token("(")
			if err := g.print(param, node); err != nil {
				return err
			}
			g.token(")")
			g.space()
		}
		return g.print(node.Node("body"), node)

	case "SwitchStatement":
		return g.printSwitch(node)

	case "SwitchCase":
		if test := node.Node("test"); test != nil {
			g.word("case")
			g.space()
			if err := g.print(test, node); err != nil {
				return err
			}
		} else {
			g.word("default")
		}
		g.token(":")
		if consequent := node.List("consequent"); len(consequent) > 0 {
			g.out.newline(1)
			return g.printSequence(consequent, node, sequenceOptions{indent: true})
		}
		return nil

	case "Directive":
		if err := g.print(node.Node("value"), node); err != nil {
			return err
		}
		g.semicolon()
		return nil

	case "DirectiveLiteral":
		if raw, ok := rawText(node); ok {
			g.token(raw)
			return nil
		}
		value := node.Str("value")
		switch {
		case !strings.Contains(value, `"`):
			g.token(`"` + value + `"`)
		case !strings.Contains(value, "'"):
			g.token("'" + value + "'")
		default:
			return &UnsupportedNodeError{Type: "DirectiveLiteral with both quote characters"}
		}
		return nil
	}
	return &UnsupportedNodeError{Type: node.Type()}
}

func isForHead(node, parent *common.Mapping) bool {
	switch parent.Type() {
	case "ForStatement":
		return isChild(parent, "init", node)
	case "ForInStatement", "ForOfStatement":
		return isChild(parent, "left", node)
	}
	return false
}

func (g *CodeGenerator) printVariableDeclaration(node, parent *common.Mapping) error {
	if node.Flag("declare") {
		g.word("declare")
		g.space()
	}
	kind := node.Str("kind")
	g.word(kind)
	g.space()

	declarations := node.List("declarations")
	inHead := parent != nil && isForHead(node, parent)
	hasInits := false
	if !inHead {
		for _, d := range declarations {
			if d != nil && d.Node("init") != nil {
				hasInits = true
			}
		}
	}
	separator := g.commaSeparator
	if hasInits {
		// Continuation lines line up under the first declarator.
		separator = func() {
			g.token(",")
			g.out.newline(1)
			if g.out.endsWith("\n") {
				g.out.append(strings.Repeat(" ", len(kind)+1))
			}
		}
	}
	if err := g.printJoin(declarations, node, sequenceOptions{separator: separator}); err != nil {
		return err
	}
	if !inHead {
		g.semicolon()
	}
	return nil
}

// lastStatement follows the final branch of nested statements, so that a
// dangling else can be detected.
func lastStatement(node *common.Mapping) *common.Mapping {
	for node != nil {
		switch node.Type() {
		case "IfStatement":
			if alternate := node.Node("alternate"); alternate != nil {
				node = alternate
				continue
			}
			return node
		case "ForStatement", "ForInStatement", "ForOfStatement", "WhileStatement", "LabeledStatement":
			node = node.Node("body")
			continue
		}
		return node
	}
	return nil
}

func (g *CodeGenerator) printIf(node *common.Mapping) error {
	g.word("if")
	g.space()
	g.token("(")
	if err := g.print(node.Node("test"), node); err != nil {
		return err
	}
	g.token(")")
	g.space()

	consequent := node.Node("consequent")
	alternate := node.Node("alternate")
	needsBlock := alternate != nil && is(lastStatement(consequent), "IfStatement")
	if needsBlock {
		g.token("{")
		g.out.newline(1)
		g.out.indent++
	}
	if err := g.printIndentedOnComments(consequent, node); err != nil {
		return err
	}
	if needsBlock {
		g.out.indent--
		g.out.lineBreak()
		g.token("}")
	}
	if alternate != nil {
		g.space()
		g.word("else")
		g.space()
		return g.printIndentedOnComments(alternate, node)
	}
	return nil
}

// printIndentedOnComments indents a single-statement branch that carries
// leading comments, which would otherwise start at the margin.
func (g *CodeGenerator) printIndentedOnComments(node, parent *common.Mapping) error {
	indent := node != nil && len(node.List("leadingComments")) > 0
	if indent {
		g.out.indent++
	}
	err := g.print(node, parent)
	if indent {
		g.out.indent--
	}
	return err
}

func (g *CodeGenerator) printFor(node *common.Mapping) error {
	g.word("for")
	g.space()
	g.token("(")
	g.inForInit++
	err := g.print(node.Node("init"), node)
	g.inForInit--
	if err != nil {
		return err
	}
	g.token(";")
	if test := node.Node("test"); test != nil {
		g.space()
		if err := g.print(test, node); err != nil {
			return err
		}
	}
	g.token(";")
	if update := node.Node("update"); update != nil {
		g.space()
		if err := g.print(update, node); err != nil {
			return err
		}
	}
	g.token(")")
	return g.printLoopBody(node)
}

func (g *CodeGenerator) printLoopBody(node *common.Mapping) error {
	body := node.Node("body")
	if !is(body, "EmptyStatement") {
		g.space()
	}
	return g.print(body, node)
}

func (g *CodeGenerator) printSwitch(node *common.Mapping) error {
	g.word("switch")
	g.space()
	g.token("(")
	if err := g.print(node.Node("discriminant"), node); err != nil {
		return err
	}
	g.token(")")
	g.space()
	g.token("{")
	cases := node.List("cases")
	err := g.printSequence(cases, node, sequenceOptions{
		indent: true,
		addNewlines: func(leading bool, c *common.Mapping) int {
			if !leading && len(cases) > 0 && cases[len(cases)-1] == c {
				return -1
			}
			return 0
		},
	})
	if err != nil {
		return err
	}
	if len(cases) > 0 {
		g.out.lineBreak()
	}
	g.token("}")
	return nil
}
