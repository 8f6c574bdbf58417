package codegen

import (
	"github.com/spicery/jsast/pkg/common"
)

func (g *CodeGenerator) printModuleItem(node *common.Mapping) error {
	switch node.Type() {
	case "ImportDeclaration":
		return g.printImport(node)

	case "ImportDefaultSpecifier":
		return g.print(node.Node("local"), node)

	case "ImportNamespaceSpecifier", "ExportNamespaceSpecifier":
		g.token("*")
		g.space()
		g.word("as")
		g.space()
		if node.Type() == "ExportNamespaceSpecifier" {
			return g.print(node.Node("exported"), node)
		}
		return g.print(node.Node("local"), node)

	case "ImportSpecifier":
		if kind := node.Str("importKind"); kind == "type" || kind == "typeof" {
			g.word(kind)
			g.space()
		}
		return g.printAliased(node.Node("imported"), node.Node("local"), node)

	case "ExportSpecifier":
		return g.printAliased(node.Node("local"), node.Node("exported"), node)

	case "ExportDefaultSpecifier":
		return g.print(node.Node("exported"), node)

	case "ExportAllDeclaration":
		g.word("export")
		g.space()
		if node.Str("exportKind") == "type" {
			g.word("type")
			g.space()
		}
		g.token("*")
		g.space()
		g.word("from")
		g.space()
		if err := g.print(node.Node("source"), node); err != nil {
			return err
		}
		g.semicolon()
		return nil

	case "ExportDefaultDeclaration":
		g.word("export")
		g.space()
		g.word("default")
		g.space()
		declaration := node.Node("declaration")
		if err := g.print(declaration, node); err != nil {
			return err
		}
		if !isDeclaration(declaration) {
			g.semicolon()
		}
		return nil

	case "ExportNamedDeclaration":
		return g.printExportNamed(node)
	}
	return &UnsupportedNodeError{Type: node.Type()}
}

func isDeclaration(node *common.Mapping) bool {
	switch node.Type() {
	case "FunctionDeclaration", "ClassDeclaration", "VariableDeclaration", "TypeAlias":
		return true
	}
	return false
}

// printAliased writes `name` or `name as alias`.
func (g *CodeGenerator) printAliased(name, alias, parent *common.Mapping) error {
	if err := g.print(name, parent); err != nil {
		return err
	}
	if alias == nil || (is(name, "Identifier") && is(alias, "Identifier") &&
		name.Str("name") == alias.Str("name")) {
		return nil
	}
	g.space()
	g.word("as")
	g.space()
	return g.print(alias, parent)
}

// printSpecifiers writes the unbraced default and namespace specifiers
// followed by the braced named ones.
func (g *CodeGenerator) printSpecifiers(specifiers []*common.Mapping, parent *common.Mapping) error {
	var named []*common.Mapping
	first := true
	for _, spec := range specifiers {
		if spec == nil {
			continue
		}
		switch spec.Type() {
		case "ImportDefaultSpecifier", "ImportNamespaceSpecifier",
			"ExportDefaultSpecifier", "ExportNamespaceSpecifier":
			if !first {
				g.commaSeparator()
			}
			if err := g.print(spec, parent); err != nil {
				return err
			}
			first = false
		default:
			named = append(named, spec)
		}
	}
	if len(named) == 0 && !first {
		return nil
	}
	if !first {
		g.commaSeparator()
	}
	g.token("{")
	if len(named) > 0 {
		g.space()
		if err := g.printList(named, parent); err != nil {
			return err
		}
		g.space()
	}
	g.token("}")
	return nil
}

func (g *CodeGenerator) printImport(node *common.Mapping) error {
	g.word("import")
	g.space()
	if kind := node.Str("importKind"); kind == "type" || kind == "typeof" {
		g.word(kind)
		g.space()
	}
	if specifiers := node.List("specifiers"); len(specifiers) > 0 {
		if err := g.printSpecifiers(specifiers, node); err != nil {
			return err
		}
		g.space()
		g.word("from")
		g.space()
	}
	if err := g.print(node.Node("source"), node); err != nil {
		return err
	}
	g.semicolon()
	return nil
}

func (g *CodeGenerator) printExportNamed(node *common.Mapping) error {
	g.word("export")
	g.space()
	if declaration := node.Node("declaration"); declaration != nil {
		return g.print(declaration, node)
	}
	if node.Str("exportKind") == "type" {
		g.word("type")
		g.space()
	}
	if err := g.printSpecifiers(node.List("specifiers"), node); err != nil {
		return err
	}
	if source := node.Node("source"); source != nil {
		g.space()
		g.word("from")
		g.space()
		if err := g.print(source, node); err != nil {
			return err
		}
	}
	g.semicolon()
	return nil
}
