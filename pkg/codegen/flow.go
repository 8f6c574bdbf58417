package codegen

import (
	"github.com/spicery/jsast/pkg/common"
)

var keywordTypes = map[string]string{
	"AnyTypeAnnotation":         "any",
	"MixedTypeAnnotation":       "mixed",
	"EmptyTypeAnnotation":       "empty",
	"NumberTypeAnnotation":      "number",
	"StringTypeAnnotation":      "string",
	"BooleanTypeAnnotation":     "boolean",
	"VoidTypeAnnotation":        "void",
	"NullLiteralTypeAnnotation": "null",
	"ThisTypeAnnotation":        "this",
}

func (g *CodeGenerator) printFlow(node, parent *common.Mapping) error {
	if text, ok := keywordTypes[node.Type()]; ok {
		g.word(text)
		return nil
	}
	switch node.Type() {
	case "ExistsTypeAnnotation":
		g.token("*")
		return nil

	case "TypeAnnotation":
		g.token(":")
		g.space()
		if node.Flag("optional") {
			g.token("?")
		}
		return g.print(node.Node("typeAnnotation"), node)

	case "TypeCastExpression":
		g.token("(")
		if err := g.print(node.Node("expression"), node); err != nil {
			return err
		}
		if err := g.print(node.Node("typeAnnotation"), node); err != nil {
			return err
		}
		g.token(")")
		return nil

	case "TypeAlias", "DeclareTypeAlias":
		if node.Type() == "DeclareTypeAlias" {
			g.word("declare")
			g.space()
		}
		g.word("type")
		g.space()
		if err := g.print(node.Node("id"), node); err != nil {
			return err
		}
		if err := g.print(node.Node("typeParameters"), node); err != nil {
			return err
		}
		g.space()
		g.token("=")
		g.space()
		if err := g.print(node.Node("right"), node); err != nil {
			return err
		}
		g.semicolon()
		return nil

	case "DeclareVariable":
		g.word("declare")
		g.space()
		g.word("var")
		g.space()
		if err := g.print(node.Node("id"), node); err != nil {
			return err
		}
		g.semicolon()
		return nil

	case "DeclareFunction":
		g.word("declare")
		g.space()
		g.word("function")
		g.space()
		id := node.Node("id")
		if id == nil {
			return &UnsupportedNodeError{Type: "DeclareFunction without id"}
		}
		g.word(id.Str("name"))
		if annotation := id.Node("typeAnnotation"); annotation != nil {
			if err := g.print(annotation.Node("typeAnnotation"), node); err != nil {
				return err
			}
		}
		if err := g.print(node.Node("predicate"), node); err != nil {
			return err
		}
		g.semicolon()
		return nil

	case "TypeParameterDeclaration", "TypeParameterInstantiation":
		g.token("<")
		if err := g.printList(node.List("params"), node); err != nil {
			return err
		}
		g.token(">")
		return nil

	case "TypeParameter":
		if err := g.print(node.Node("variance"), node); err != nil {
			return err
		}
		g.word(node.Str("name"))
		if err := g.print(node.Node("bound"), node); err != nil {
			return err
		}
		if def := node.Node("default"); def != nil {
			g.space()
			g.token("=")
			g.space()
			return g.print(def, node)
		}
		return nil

	case "Variance":
		switch node.Str("kind") {
		case "plus":
			g.token("+")
		case "minus":
			g.token("-")
		}
		return nil

	case "ClassImplements", "InterfaceExtends", "GenericTypeAnnotation":
		if err := g.print(node.Node("id"), node); err != nil {
			return err
		}
		return g.print(node.Node("typeParameters"), node)

	case "QualifiedTypeIdentifier":
		if err := g.print(node.Node("qualification"), node); err != nil {
			return err
		}
		g.token(".")
		return g.print(node.Node("id"), node)

	case "BooleanLiteralTypeAnnotation":
		if node.Flag("value") {
			g.word("true")
		} else {
			g.word("false")
		}
		return nil

	case "NumberLiteralTypeAnnotation":
		g.printNumericLiteral(node)
		return nil

	case "StringLiteralTypeAnnotation":
		g.printStringLiteral(node)
		return nil

	case "NullableTypeAnnotation":
		g.token("?")
		return g.print(node.Node("typeAnnotation"), node)

	case "ArrayTypeAnnotation":
		if err := g.print(node.Node("elementType"), node); err != nil {
			return err
		}
		g.token("[")
		g.token("]")
		return nil

	case "TupleTypeAnnotation":
		g.token("[")
		if err := g.printList(node.List("types"), node); err != nil {
			return err
		}
		g.token("]")
		return nil

	case "TypeofTypeAnnotation":
		g.word("typeof")
		g.space()
		return g.print(node.Node("argument"), node)

	case "UnionTypeAnnotation", "IntersectionTypeAnnotation":
		sep := "|"
		if node.Type() == "IntersectionTypeAnnotation" {
			sep = "&"
		}
		return g.printJoin(node.List("types"), node, sequenceOptions{separator: func() {
			g.space()
			g.token(sep)
			g.space()
		}})

	case "FunctionTypeAnnotation":
		return g.printFunctionType(node, parent)

	case "FunctionTypeParam":
		if name := node.Node("name"); name != nil {
			if err := g.print(name, node); err != nil {
				return err
			}
			if node.Flag("optional") {
				g.token("?")
			}
			g.token(":")
			g.space()
		}
		return g.print(node.Node("typeAnnotation"), node)

	case "ObjectTypeAnnotation":
		return g.printObjectType(node)

	case "ObjectTypeProperty":
		if node.Flag("static") {
			g.word("static")
			g.space()
		}
		if err := g.print(node.Node("variance"), node); err != nil {
			return err
		}
		if err := g.print(node.Node("key"), node); err != nil {
			return err
		}
		if node.Flag("optional") {
			g.token("?")
		}
		if !node.Flag("method") {
			g.token(":")
			g.space()
		}
		return g.print(node.Node("value"), node)

	case "ObjectTypeIndexer":
		if node.Flag("static") {
			g.word("static")
			g.space()
		}
		if err := g.print(node.Node("variance"), node); err != nil {
			return err
		}
		g.token("[")
		if id := node.Node("id"); id != nil {
			if err := g.print(id, node); err != nil {
				return err
			}
			g.token(":")
			g.space()
		}
		if err := g.print(node.Node("key"), node); err != nil {
			return err
		}
		g.token("]")
		g.token(":")
		g.space()
		return g.print(node.Node("value"), node)

	case "ObjectTypeCallProperty":
		if node.Flag("static") {
			g.word("static")
			g.space()
		}
		return g.print(node.Node("value"), node)

	case "ObjectTypeSpreadProperty":
		g.token("...")
		return g.print(node.Node("argument"), node)
	}
	return &UnsupportedNodeError{Type: node.Type()}
}

// printFunctionType writes a function type. As a method, call property or
// declared function the return type follows a colon; elsewhere an arrow.
func (g *CodeGenerator) printFunctionType(node, parent *common.Mapping) error {
	if err := g.print(node.Node("typeParameters"), node); err != nil {
		return err
	}
	g.token("(")
	params := node.List("params")
	if err := g.printList(params, node); err != nil {
		return err
	}
	if rest := node.Node("rest"); rest != nil {
		if len(params) > 0 {
			g.token(",")
			g.space()
		}
		g.token("...")
		if err := g.print(rest, node); err != nil {
			return err
		}
	}
	g.token(")")

	method := parent != nil && (parent.Type() == "ObjectTypeCallProperty" ||
		parent.Type() == "DeclareFunction" ||
		(parent.Type() == "ObjectTypeProperty" && parent.Flag("method")))
	if method {
		g.token(":")
	} else {
		g.space()
		g.token("=>")
	}
	g.space()
	return g.print(node.Node("returnType"), node)
}

// printObjectType writes an object type one member per line, with a comma
// after each member when there is more than one.
func (g *CodeGenerator) printObjectType(node *common.Mapping) error {
	exact := node.Flag("exact")
	if exact {
		g.token("{|")
	} else {
		g.token("{")
	}
	var members []*common.Mapping
	for _, key := range []string{"properties", "callProperties", "indexers"} {
		for _, m := range node.List(key) {
			if m != nil {
				members = append(members, m)
			}
		}
	}
	if len(members) > 0 {
		g.space()
		err := g.printJoin(members, node, sequenceOptions{
			indent:            true,
			statement:         true,
			addNewlines:       firstOnNewLine(members, node),
			separator:         g.commaSeparator,
			trailingSeparator: len(members) > 1,
		})
		if err != nil {
			return err
		}
		g.space()
	}
	if exact {
		g.token("|}")
	} else {
		g.token("}")
	}
	return nil
}
