package codegen

import (
	"github.com/spicery/jsast/pkg/common"
)

func (g *CodeGenerator) printFunctionOrClass(node, parent *common.Mapping) error {
	switch node.Type() {
	case "FunctionDeclaration", "FunctionExpression":
		if node.Flag("async") {
			g.word("async")
			g.space()
		}
		g.word("function")
		if node.Flag("generator") {
			g.token("*")
		}
		g.space()
		if err := g.print(node.Node("id"), node); err != nil {
			return err
		}
		if err := g.printParams(node); err != nil {
			return err
		}
		g.space()
		return g.print(node.Node("body"), node)

	case "ArrowFunctionExpression":
		return g.printArrow(node)

	case "ClassDeclaration", "ClassExpression":
		return g.printClass(node)

	case "ClassBody":
		body := node.List("body")
		g.token("{")
		g.printInnerComments(node)
		if len(body) == 0 {
			g.token("}")
			return nil
		}
		g.out.newline(1)
		if err := g.printSequence(body, node, sequenceOptions{indent: true}); err != nil {
			return err
		}
		g.out.removeTrailingNewline()
		g.out.lineBreak()
		g.token("}")
		return nil

	case "ClassProperty":
		return g.printClassProperty(node)

	case "ClassMethod", "ObjectMethod":
		if node.Type() == "ClassMethod" && node.Flag("static") {
			g.word("static")
			g.space()
		}
		if err := g.printMethodHead(node); err != nil {
			return err
		}
		g.space()
		return g.print(node.Node("body"), node)
	}
	return &UnsupportedNodeError{Type: node.Type()}
}

// printParams writes type parameters, the parameter list and the return
// type of a function-like node.
func (g *CodeGenerator) printParams(node *common.Mapping) error {
	if err := g.print(node.Node("typeParameters"), node); err != nil {
		return err
	}
	g.token("(")
	if err := g.printList(node.List("params"), node); err != nil {
		return err
	}
	g.token(")")
	if err := g.print(node.Node("returnType"), node); err != nil {
		return err
	}
	return g.print(node.Node("predicate"), node)
}

// printMethodHead writes the key and signature of a method.
func (g *CodeGenerator) printMethodHead(node *common.Mapping) error {
	kind := node.Str("kind")
	if kind == "get" || kind == "set" {
		g.word(kind)
		g.space()
	}
	if node.Flag("async") {
		g.word("async")
		g.space()
	}
	if (kind == "" || kind == "method" || kind == "init") && node.Flag("generator") {
		g.token("*")
	}
	if err := g.printPropertyKey(node); err != nil {
		return err
	}
	if node.Flag("optional") {
		g.token("?")
	}
	return g.printParams(node)
}

func (g *CodeGenerator) printPropertyKey(node *common.Mapping) error {
	if node.Flag("computed") {
		g.token("[")
		if err := g.print(node.Node("key"), node); err != nil {
			return err
		}
		g.token("]")
		return nil
	}
	return g.print(node.Node("key"), node)
}

// hasParamTypes reports whether an arrow with a single parameter still
// needs parentheses around it.
func hasParamTypes(node, param *common.Mapping) bool {
	return node.Node("typeParameters") != nil || node.Node("returnType") != nil ||
		node.Node("predicate") != nil || param.Node("typeAnnotation") != nil ||
		param.Flag("optional") || len(param.List("leadingComments")) > 0 ||
		len(param.List("trailingComments")) > 0
}

func (g *CodeGenerator) printArrow(node *common.Mapping) error {
	if node.Flag("async") {
		g.word("async")
		g.space()
	}
	params := node.List("params")
	if len(params) == 1 && is(params[0], "Identifier") && !hasParamTypes(node, params[0]) {
		if err := g.print(params[0], node); err != nil {
			return err
		}
	} else if err := g.printParams(node); err != nil {
		return err
	}
	g.space()
	g.token("=>")
	g.space()
	return g.print(node.Node("body"), node)
}

func (g *CodeGenerator) printClass(node *common.Mapping) error {
	if node.Flag("declare") {
		g.word("declare")
		g.space()
	}
	if node.Flag("abstract") {
		g.word("abstract")
		g.space()
	}
	g.word("class")
	if id := node.Node("id"); id != nil {
		g.space()
		if err := g.print(id, node); err != nil {
			return err
		}
	}
	if err := g.print(node.Node("typeParameters"), node); err != nil {
		return err
	}
	if superClass := node.Node("superClass"); superClass != nil {
		g.space()
		g.word("extends")
		g.space()
		if err := g.print(superClass, node); err != nil {
			return err
		}
		if err := g.print(node.Node("superTypeParameters"), node); err != nil {
			return err
		}
	}
	if implements := node.List("implements"); len(implements) > 0 {
		g.space()
		g.word("implements")
		g.space()
		if err := g.printList(implements, node); err != nil {
			return err
		}
	}
	g.space()
	return g.print(node.Node("body"), node)
}

func (g *CodeGenerator) printClassProperty(node *common.Mapping) error {
	if node.Flag("declare") {
		g.word("declare")
		g.space()
	}
	if node.Flag("static") {
		g.word("static")
		g.space()
	}
	if err := g.print(node.Node("variance"), node); err != nil {
		return err
	}
	if err := g.printPropertyKey(node); err != nil {
		return err
	}
	if node.Flag("optional") {
		g.token("?")
	}
	if node.Flag("definite") {
		g.token("!")
	}
	if err := g.print(node.Node("typeAnnotation"), node); err != nil {
		return err
	}
	if value := node.Node("value"); value != nil {
		g.space()
		g.token("=")
		g.space()
		if err := g.print(value, node); err != nil {
			return err
		}
	}
	g.semicolon()
	return nil
}
