// Package codegen prints Babel-shaped syntax trees, as produced by
// pkg/parser or deserialized from JSON, back into JavaScript source text.
package codegen

import (
	"fmt"

	"github.com/spicery/jsast/pkg/common"
)

// Options controls the layout of generated code.
type Options struct {
	// Compact drops optional whitespace and line breaks.
	Compact bool
}

// UnsupportedNodeError reports a node the generator has no printer for.
type UnsupportedNodeError struct {
	Type string
}

func (e *UnsupportedNodeError) Error() string {
	if e.Type == "" {
		return "cannot generate code for a node without a type"
	}
	return fmt.Sprintf("cannot generate code for node type %q", e.Type)
}

// Generate renders a tree as source text. The root may be a File, a Program
// or any statement or expression node. Trailing whitespace is trimmed.
func Generate(root common.Value, opts Options) (string, error) {
	node, ok := root.(*common.Mapping)
	if !ok {
		return "", fmt.Errorf("expected a syntax tree node at the root, got %s", common.KindOf(root))
	}
	g := newGenerator(opts)
	if err := g.print(node, nil); err != nil {
		return "", err
	}
	return g.out.String(), nil
}

// CodeGenerator walks a tree and writes its source form into a buffer.
type CodeGenerator struct {
	opts Options
	out  buffer
	// stack holds the nodes being printed, innermost last.
	stack []*common.Mapping
	// statement is true while printing a node that occupies its own line,
	// which lets comments keep their own lines too.
	statement bool
	// inForInit counts enclosing for-statement initialisers, where a bare
	// `in` operator must be parenthesised.
	inForInit int
	printed   map[string]bool
}

func newGenerator(opts Options) *CodeGenerator {
	return &CodeGenerator{
		opts:    opts,
		out:     buffer{compact: opts.Compact},
		printed: map[string]bool{},
	}
}

func (g *CodeGenerator) word(s string)  { g.out.word(s) }
func (g *CodeGenerator) token(s string) { g.out.token(s) }
func (g *CodeGenerator) space()         { g.out.space() }
func (g *CodeGenerator) semicolon()     { g.out.token(";") }

func (g *CodeGenerator) parentOf(depth int) *common.Mapping {
	i := len(g.stack) - 1 - depth
	if i < 0 {
		return nil
	}
	return g.stack[i]
}

// print writes one node with its comments and any parentheses that the
// surrounding context demands. A nil node prints nothing.
func (g *CodeGenerator) print(node, parent *common.Mapping) error {
	if node == nil {
		return nil
	}
	statement := g.statement
	g.statement = false
	g.stack = append(g.stack, node)
	defer func() {
		g.stack = g.stack[:len(g.stack)-1]
	}()

	g.printComments(node.List("leadingComments"), statement, true)
	// Parentheses present in the source are kept so that a printed tree
	// parses back to the same shape.
	parens := g.needsParens(node, parent) ||
		(isParenthesized(node) && node.Type() != "TypeCastExpression")
	if parens {
		g.token("(")
	}
	oldForInit := g.inForInit
	if parens {
		g.inForInit = 0
	}
	err := g.printNode(node, parent)
	g.inForInit = oldForInit
	if err != nil {
		return err
	}
	if parens {
		g.token(")")
	}
	g.printComments(node.List("trailingComments"), statement, false)
	return nil
}

// printStatementNode prints a node that stands on its own line.
func (g *CodeGenerator) printStatementNode(node, parent *common.Mapping) error {
	g.statement = true
	return g.print(node, parent)
}

// printNode dispatches on the node type.
func (g *CodeGenerator) printNode(node, parent *common.Mapping) error {
	switch node.Type() {
	case "File":
		return g.print(node.Node("program"), node)
	case "Program":
		return g.printProgram(node)

	case "ExpressionStatement", "BlockStatement", "EmptyStatement", "DebuggerStatement",
		"VariableDeclaration", "VariableDeclarator",
		"IfStatement", "ForStatement", "ForInStatement", "ForOfStatement",
		"WhileStatement", "DoWhileStatement", "ReturnStatement", "ThrowStatement",
		"BreakStatement", "ContinueStatement", "LabeledStatement",
		"TryStatement", "CatchClause", "SwitchStatement", "SwitchCase",
		"Directive", "DirectiveLiteral":
		return g.printStatement(node, parent)

	case "ImportDeclaration", "ImportSpecifier", "ImportDefaultSpecifier", "ImportNamespaceSpecifier",
		"ExportNamedDeclaration", "ExportDefaultDeclaration", "ExportAllDeclaration",
		"ExportSpecifier", "ExportDefaultSpecifier", "ExportNamespaceSpecifier":
		return g.printModuleItem(node)

	case "FunctionDeclaration", "FunctionExpression", "ArrowFunctionExpression",
		"ClassDeclaration", "ClassExpression", "ClassBody", "ClassProperty", "ClassMethod",
		"ObjectMethod":
		return g.printFunctionOrClass(node, parent)

	case "TypeAnnotation", "TypeAlias", "DeclareTypeAlias", "DeclareVariable", "DeclareFunction",
		"TypeCastExpression", "TypeParameterDeclaration", "TypeParameterInstantiation", "TypeParameter",
		"Variance", "ClassImplements", "InterfaceExtends", "QualifiedTypeIdentifier",
		"AnyTypeAnnotation", "MixedTypeAnnotation", "EmptyTypeAnnotation", "NumberTypeAnnotation",
		"StringTypeAnnotation", "BooleanTypeAnnotation", "VoidTypeAnnotation", "NullLiteralTypeAnnotation",
		"ThisTypeAnnotation", "ExistsTypeAnnotation", "BooleanLiteralTypeAnnotation",
		"NumberLiteralTypeAnnotation", "StringLiteralTypeAnnotation",
		"GenericTypeAnnotation", "NullableTypeAnnotation", "ArrayTypeAnnotation", "TupleTypeAnnotation",
		"TypeofTypeAnnotation", "UnionTypeAnnotation", "IntersectionTypeAnnotation",
		"FunctionTypeAnnotation", "FunctionTypeParam",
		"ObjectTypeAnnotation", "ObjectTypeProperty", "ObjectTypeIndexer", "ObjectTypeCallProperty",
		"ObjectTypeSpreadProperty":
		return g.printFlow(node, parent)
	}
	return g.printExpression(node, parent)
}

func (g *CodeGenerator) printProgram(node *common.Mapping) error {
	g.printInnerComments(node)
	directives := node.List("directives")
	if err := g.printSequence(directives, node, sequenceOptions{}); err != nil {
		return err
	}
	if len(directives) > 0 {
		g.out.newline(1)
	}
	return g.printSequence(node.List("body"), node, sequenceOptions{})
}

type sequenceOptions struct {
	indent bool
	// addNewlines adjusts the line count computed before (leading) or
	// after a node.
	addNewlines func(leading bool, node *common.Mapping) int
	// separator is written between consecutive nodes, and after the last
	// one too when trailingSeparator is set.
	separator         func()
	trailingSeparator bool
	// statement puts each node on its own line.
	statement bool
}

// printSequence prints statement-like nodes one per line, with blank lines
// where the whitespace rules ask for them.
func (g *CodeGenerator) printSequence(nodes []*common.Mapping, parent *common.Mapping, opts sequenceOptions) error {
	opts.statement = true
	return g.printJoin(nodes, parent, opts)
}

func (g *CodeGenerator) printJoin(nodes []*common.Mapping, parent *common.Mapping, opts sequenceOptions) error {
	if len(nodes) == 0 {
		return nil
	}
	if opts.indent {
		g.out.indent++
		defer func() { g.out.indent-- }()
	}
	for i, node := range nodes {
		if node == nil {
			continue
		}
		if opts.statement {
			g.printNewline(true, node, parent, opts)
			if err := g.printStatementNode(node, parent); err != nil {
				return err
			}
		} else if err := g.print(node, parent); err != nil {
			return err
		}
		if opts.separator != nil && (i < len(nodes)-1 || opts.trailingSeparator) {
			opts.separator()
		}
		if opts.statement {
			g.printNewline(false, node, parent, opts)
		}
	}
	return nil
}

func (g *CodeGenerator) printNewline(leading bool, node, parent *common.Mapping, opts sequenceOptions) {
	if g.opts.Compact || !g.out.hasContent() {
		return
	}
	lines := 0
	if !leading {
		lines++
	}
	if opts.addNewlines != nil {
		lines += opts.addNewlines(leading, node)
	}
	before, after := needsWhitespace(node, parent)
	if (leading && before) || (!leading && after) {
		lines++
	}
	g.out.newline(lines)
}

// printList prints nodes separated by commas.
func (g *CodeGenerator) printList(nodes []*common.Mapping, parent *common.Mapping) error {
	return g.printJoin(nodes, parent, sequenceOptions{separator: g.commaSeparator})
}

func (g *CodeGenerator) commaSeparator() {
	g.token(",")
	g.space()
}

// printBraced prints a braced statement list: a block, a function body or
// a static block.
func (g *CodeGenerator) printBraced(directives, body []*common.Mapping, node *common.Mapping) error {
	g.token("{")
	g.printInnerComments(node)
	if len(directives) == 0 && len(body) == 0 {
		g.token("}")
		return nil
	}
	g.out.newline(1)
	if err := g.printSequence(directives, node, sequenceOptions{indent: true}); err != nil {
		return err
	}
	if len(directives) > 0 {
		g.out.newline(1)
	}
	if err := g.printSequence(body, node, sequenceOptions{indent: true}); err != nil {
		return err
	}
	g.out.removeTrailingNewline()
	g.out.lineBreak()
	g.token("}")
	return nil
}
