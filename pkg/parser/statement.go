package parser

import (
	"github.com/spicery/jsast/pkg/common"
	"github.com/spicery/jsast/pkg/tokenizer"
)

// parseBlockBody reads statements up to the closing brace (or the end of
// input at top level) and consumes the terminator. A prologue of string
// expression statements becomes the directive list.
func (p *Parser) parseBlockBody(allowDirectives bool, topLevel bool) (common.Sequence, common.Sequence, error) {
	body := common.Sequence{}
	directives := common.Sequence{}
	prologue := allowDirectives
	for {
		if topLevel && p.atEOF() {
			break
		}
		if !topLevel && p.eat("}") {
			break
		}
		if p.atEOF() {
			return nil, nil, p.unexpected()
		}
		isString := p.cur().Type == tokenizer.StringTokenType
		stmt, err := p.parseStatement(topLevel)
		if err != nil {
			return nil, nil, err
		}
		if prologue && isString && isDirectiveStatement(stmt) {
			directives = append(directives, p.toDirective(stmt))
			continue
		}
		prologue = false
		body = append(body, stmt)
	}
	return body, directives, nil
}

func isDirectiveStatement(stmt *common.Mapping) bool {
	if stmt.Type() != "ExpressionStatement" {
		return false
	}
	expr := stmt.Node("expression")
	return expr != nil && expr.Type() == "StringLiteral" && !isParenthesized(expr)
}

func (p *Parser) toDirective(stmt *common.Mapping) *common.Mapping {
	expr := stmt.Node("expression")
	extra := expr.Node("extra")
	raw := extra.Str("raw")

	literal := p.startNodeAt("DirectiveLiteral", p.startOf(expr))
	literal.Set("value", common.String(raw[1:len(raw)-1]))
	addExtra(literal, "raw", common.String(raw))
	addExtra(literal, "rawValue", common.String(raw[1:len(raw)-1]))
	p.finishAt(literal, p.endOf(expr))

	directive := p.startNodeAt("Directive", p.startOf(stmt))
	directive.Set("value", literal)
	return p.finishAt(directive, p.endOf(stmt))
}

func (p *Parser) parseStatement(topLevel bool) (*common.Mapping, error) {
	t := p.cur()
	switch t.Type {
	case tokenizer.PunctuatorTokenType:
		switch t.Text {
		case "{":
			return p.parseBlock()
		case ";":
			node := p.startNode("EmptyStatement")
			p.next()
			return p.finish(node), nil
		}
	case tokenizer.NameTokenType:
		switch t.Text {
		case "var", "const":
			return p.parseVarStatement(t.Text)
		case "let":
			if n := p.peek(1); n.Type == tokenizer.NameTokenType || n.Is("[") || n.Is("{") {
				return p.parseVarStatement("let")
			}
		case "function":
			node := p.startNode("FunctionDeclaration")
			p.next()
			return p.parseFunction(node, true, false)
		case "async":
			if n := p.peek(1); n.IsName("function") && !n.LnBefore {
				node := p.startNode("FunctionDeclaration")
				p.next()
				p.next()
				return p.parseFunction(node, true, true)
			}
		case "class":
			return p.parseClass(p.startNode("ClassDeclaration"), true)
		case "if":
			return p.parseIfStatement()
		case "for":
			return p.parseForStatement()
		case "while":
			return p.parseWhileStatement()
		case "do":
			return p.parseDoStatement()
		case "return":
			return p.parseReturnStatement()
		case "break", "continue":
			return p.parseBreakContinueStatement(t.Text)
		case "throw":
			return p.parseThrowStatement()
		case "try":
			return p.parseTryStatement()
		case "switch":
			return p.parseSwitchStatement()
		case "debugger":
			node := p.startNode("DebuggerStatement")
			p.next()
			if err := p.semicolon(); err != nil {
				return nil, err
			}
			return p.finish(node), nil
		case "import", "export":
			if t.Text == "import" && (p.peek(1).Is("(") || p.peek(1).Is(".")) {
				break
			}
			if !p.module {
				return nil, p.raise(t.Span.Start, "'import' and 'export' may appear only with 'sourceType: module'")
			}
			if !topLevel {
				return nil, p.raise(t.Span.Start, "'import' and 'export' may only appear at the top level")
			}
			if t.Text == "import" {
				return p.parseImport()
			}
			return p.parseExport()
		case "type":
			if p.flow && p.isTypeAliasStart() {
				node := p.startNode("TypeAlias")
				p.next()
				return p.flowParseTypeAlias(node)
			}
		case "declare":
			if p.flow && p.isDeclareStart() {
				return p.flowParseDeclare()
			}
		}
	}
	return p.parseExpressionStatement()
}

// isTypeAliasStart distinguishes `type T = ...` from an identifier named
// type.
func (p *Parser) isTypeAliasStart() bool {
	n := p.peek(1)
	return n.Type == tokenizer.NameTokenType && !n.LnBefore && !tokenizer.Keywords[n.Text]
}

func (p *Parser) parseExpressionStatement() (*common.Mapping, error) {
	start := p.cur().Span.Start
	startsWithName := p.cur().Type == tokenizer.NameTokenType
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if startsWithName && expr.Type() == "Identifier" && !isParenthesized(expr) && p.eat(":") {
		node := p.startNodeAt("LabeledStatement", start)
		node.Set("label", expr)
		body, err := p.parseStatement(false)
		if err != nil {
			return nil, err
		}
		node.Set("body", body)
		return p.finish(node), nil
	}
	node := p.startNodeAt("ExpressionStatement", start)
	node.Set("expression", expr)
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.finish(node), nil
}

func (p *Parser) parseBlock() (*common.Mapping, error) {
	node := p.startNode("BlockStatement")
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	body, directives, err := p.parseBlockBody(false, false)
	if err != nil {
		return nil, err
	}
	node.Set("body", body)
	node.Set("directives", directives)
	return p.finish(node), nil
}

func (p *Parser) parseVarStatement(kind string) (*common.Mapping, error) {
	node := p.startNode("VariableDeclaration")
	p.next()
	if err := p.parseVar(node, kind, false); err != nil {
		return nil, err
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.finish(node), nil
}

// parseVar reads the declarator list after the var, let or const keyword.
func (p *Parser) parseVar(node *common.Mapping, kind string, isFor bool) error {
	declarations := common.Sequence{}
	node.Set("declarations", declarations)
	node.Set("kind", common.String(kind))
	for {
		decl := p.startNode("VariableDeclarator")
		id, err := p.parseBindingAtom()
		if err != nil {
			return err
		}
		if p.flow && p.is(":") {
			annotation, err := p.flowParseTypeAnnotation()
			if err != nil {
				return err
			}
			id.Set("typeAnnotation", annotation)
			p.finish(id)
		}
		decl.Set("id", id)
		if p.eat("=") {
			init, err := p.parseMaybeAssign()
			if err != nil {
				return err
			}
			decl.Set("init", init)
		} else {
			if !isFor || !(p.isName("in") || p.isName("of")) {
				if kind == "const" {
					return p.raise(p.cur().Span.Start, "Missing initializer in const declaration")
				}
				if id.Type() != "Identifier" {
					return p.raise(p.cur().Span.Start, "Complex binding patterns require an initialization value")
				}
			}
			decl.Set("init", common.Null{})
		}
		declarations = append(declarations, p.finish(decl))
		if !p.eat(",") {
			break
		}
	}
	node.Set("declarations", declarations)
	return nil
}

func (p *Parser) parseParenExpression() (*common.Mapping, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseIfStatement() (*common.Mapping, error) {
	node := p.startNode("IfStatement")
	p.next()
	test, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	node.Set("test", test)
	consequent, err := p.parseStatement(false)
	if err != nil {
		return nil, err
	}
	node.Set("consequent", consequent)
	node.Set("alternate", common.Null{})
	if p.eatName("else") {
		alternate, err := p.parseStatement(false)
		if err != nil {
			return nil, err
		}
		node.Set("alternate", alternate)
	}
	return p.finish(node), nil
}

func (p *Parser) parseForStatement() (*common.Mapping, error) {
	node := p.startNode("ForStatement")
	p.next()
	if err := p.expect("("); err != nil {
		return nil, err
	}

	var init *common.Mapping
	if !p.is(";") {
		oldNoIn := p.noIn
		p.noIn = true
		t := p.cur()
		isDecl := t.IsName("var") || t.IsName("const") ||
			(t.IsName("let") && (p.peek(1).Type == tokenizer.NameTokenType || p.peek(1).Is("[") || p.peek(1).Is("{")))
		var err error
		if isDecl {
			init = p.startNode("VariableDeclaration")
			p.next()
			err = p.parseVar(init, t.Text, true)
			if err == nil {
				p.finish(init)
			}
		} else {
			init, err = p.parseExpression()
		}
		p.noIn = oldNoIn
		if err != nil {
			return nil, err
		}
		if p.isName("in") || p.isName("of") {
			if isDecl {
				if len(init.List("declarations")) != 1 {
					return nil, p.raise(p.startOf(init), "Only one variable may be declared in a for-in or for-of loop")
				}
			} else if err := p.toAssignable(init); err != nil {
				return nil, err
			}
			return p.parseForIn(node, init)
		}
	}

	node.Set("init", nullable(init))
	if err := p.expect(";"); err != nil {
		return nil, err
	}
	node.Set("test", common.Null{})
	if !p.is(";") {
		test, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		node.Set("test", test)
	}
	if err := p.expect(";"); err != nil {
		return nil, err
	}
	node.Set("update", common.Null{})
	if !p.is(")") {
		update, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		node.Set("update", update)
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement(false)
	if err != nil {
		return nil, err
	}
	node.Set("body", body)
	return p.finish(node), nil
}

func (p *Parser) parseForIn(node, left *common.Mapping) (*common.Mapping, error) {
	if p.isName("in") {
		node.Set("type", common.String("ForInStatement"))
	} else {
		node.Set("type", common.String("ForOfStatement"))
		node.Set("await", common.Bool(false))
	}
	p.next()
	node.Set("left", left)
	var right *common.Mapping
	var err error
	if node.Type() == "ForOfStatement" {
		right, err = p.parseMaybeAssign()
	} else {
		right, err = p.parseExpression()
	}
	if err != nil {
		return nil, err
	}
	node.Set("right", right)
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement(false)
	if err != nil {
		return nil, err
	}
	node.Set("body", body)
	return p.finish(node), nil
}

func (p *Parser) parseWhileStatement() (*common.Mapping, error) {
	node := p.startNode("WhileStatement")
	p.next()
	test, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	node.Set("test", test)
	body, err := p.parseStatement(false)
	if err != nil {
		return nil, err
	}
	node.Set("body", body)
	return p.finish(node), nil
}

func (p *Parser) parseDoStatement() (*common.Mapping, error) {
	node := p.startNode("DoWhileStatement")
	p.next()
	body, err := p.parseStatement(false)
	if err != nil {
		return nil, err
	}
	node.Set("body", body)
	if err := p.expectName("while"); err != nil {
		return nil, err
	}
	test, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	node.Set("test", test)
	p.eat(";")
	return p.finish(node), nil
}

func (p *Parser) parseReturnStatement() (*common.Mapping, error) {
	start := p.cur().Span.Start
	if !p.inFunction {
		return nil, p.raise(start, "'return' outside of function")
	}
	node := p.startNode("ReturnStatement")
	p.next()
	node.Set("argument", common.Null{})
	if !p.is(";") && !p.canInsertSemicolon() {
		argument, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		node.Set("argument", argument)
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.finish(node), nil
}

func (p *Parser) parseBreakContinueStatement(keyword string) (*common.Mapping, error) {
	nodeType := "BreakStatement"
	if keyword == "continue" {
		nodeType = "ContinueStatement"
	}
	node := p.startNode(nodeType)
	p.next()
	node.Set("label", common.Null{})
	if p.cur().Type == tokenizer.NameTokenType && !p.cur().LnBefore && !tokenizer.Keywords[p.cur().Text] {
		label, err := p.parseIdentifier(false)
		if err != nil {
			return nil, err
		}
		node.Set("label", label)
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.finish(node), nil
}

func (p *Parser) parseThrowStatement() (*common.Mapping, error) {
	node := p.startNode("ThrowStatement")
	p.next()
	if p.cur().LnBefore {
		return nil, p.raise(p.prevEnd(), "Illegal newline after throw")
	}
	argument, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	node.Set("argument", argument)
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.finish(node), nil
}

func (p *Parser) parseTryStatement() (*common.Mapping, error) {
	node := p.startNode("TryStatement")
	p.next()
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	node.Set("block", block)
	node.Set("handler", common.Null{})
	if p.isName("catch") {
		clause := p.startNode("CatchClause")
		p.next()
		clause.Set("param", common.Null{})
		if p.eat("(") {
			param, err := p.parseBindingAtom()
			if err != nil {
				return nil, err
			}
			clause.Set("param", param)
			if err := p.expect(")"); err != nil {
				return nil, err
			}
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		clause.Set("body", body)
		node.Set("handler", p.finish(clause))
	}
	node.Set("finalizer", common.Null{})
	if p.eatName("finally") {
		finalizer, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		node.Set("finalizer", finalizer)
	}
	if node.Node("handler") == nil && node.Node("finalizer") == nil {
		return nil, p.raise(p.startOf(node), "Missing catch or finally clause")
	}
	return p.finish(node), nil
}

func (p *Parser) parseSwitchStatement() (*common.Mapping, error) {
	node := p.startNode("SwitchStatement")
	p.next()
	discriminant, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	node.Set("discriminant", discriminant)
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	cases := common.Sequence{}
	sawDefault := false
	for !p.eat("}") {
		c := p.startNode("SwitchCase")
		switch {
		case p.eatName("case"):
			test, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			c.Set("test", test)
		case p.isName("default"):
			if sawDefault {
				return nil, p.raise(p.cur().Span.Start, "Multiple default clauses")
			}
			sawDefault = true
			p.next()
			c.Set("test", common.Null{})
		default:
			return nil, p.unexpected()
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		consequent := common.Sequence{}
		for !p.is("}") && !p.isName("case") && !p.isName("default") {
			if p.atEOF() {
				return nil, p.unexpected()
			}
			stmt, err := p.parseStatement(false)
			if err != nil {
				return nil, err
			}
			consequent = append(consequent, stmt)
		}
		c.Set("consequent", consequent)
		cases = append(cases, p.finish(c))
	}
	node.Set("cases", cases)
	return p.finish(node), nil
}

// Modules.

func (p *Parser) parseStringLiteralNode() (*common.Mapping, error) {
	if p.cur().Type != tokenizer.StringTokenType {
		return nil, p.unexpected()
	}
	return p.parseLiteral("StringLiteral"), nil
}

func (p *Parser) parseImport() (*common.Mapping, error) {
	node := p.startNode("ImportDeclaration")
	p.next()
	if p.flow {
		node.Set("importKind", common.String("value"))
		if (p.isName("type") || p.isName("typeof")) && !p.peek(1).IsName("from") &&
			(p.peek(1).Type == tokenizer.NameTokenType || p.peek(1).Is("{") || p.peek(1).Is("*")) {
			node.Set("importKind", common.String(p.next().Text))
		}
	}
	specifiers := common.Sequence{}
	if p.cur().Type != tokenizer.StringTokenType {
		var err error
		specifiers, err = p.parseImportSpecifiers()
		if err != nil {
			return nil, err
		}
		if err := p.expectName("from"); err != nil {
			return nil, err
		}
	}
	node.Set("specifiers", specifiers)
	source, err := p.parseStringLiteralNode()
	if err != nil {
		return nil, err
	}
	node.Set("source", source)
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.finish(node), nil
}

func (p *Parser) parseImportSpecifiers() (common.Sequence, error) {
	specifiers := common.Sequence{}
	if p.cur().Type == tokenizer.NameTokenType {
		spec := p.startNode("ImportDefaultSpecifier")
		local, err := p.parseIdentifier(false)
		if err != nil {
			return nil, err
		}
		spec.Set("local", local)
		specifiers = append(specifiers, p.finish(spec))
		if !p.eat(",") {
			return specifiers, nil
		}
	}
	if p.is("*") {
		spec := p.startNode("ImportNamespaceSpecifier")
		p.next()
		if err := p.expectName("as"); err != nil {
			return nil, err
		}
		local, err := p.parseIdentifier(false)
		if err != nil {
			return nil, err
		}
		spec.Set("local", local)
		return append(specifiers, p.finish(spec)), nil
	}
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.eat("}") {
		spec := p.startNode("ImportSpecifier")
		imported, err := p.parseIdentifier(true)
		if err != nil {
			return nil, err
		}
		spec.Set("imported", imported)
		local := p.cloneNode(imported)
		if p.eatName("as") {
			local, err = p.parseIdentifier(false)
			if err != nil {
				return nil, err
			}
		} else if tokenizer.Keywords[imported.Str("name")] {
			return nil, p.raise(p.startOf(imported), "Unexpected keyword '%s'", imported.Str("name"))
		}
		spec.Set("local", local)
		if p.flow {
			spec.Set("importKind", common.Null{})
		}
		specifiers = append(specifiers, p.finish(spec))
		if !p.is("}") {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
	}
	return specifiers, nil
}

func (p *Parser) parseExport() (*common.Mapping, error) {
	start := p.cur().Span.Start
	p.next()

	if p.is("*") {
		node := p.startNodeAt("ExportAllDeclaration", start)
		p.next()
		if err := p.expectName("from"); err != nil {
			return nil, err
		}
		source, err := p.parseStringLiteralNode()
		if err != nil {
			return nil, err
		}
		node.Set("source", source)
		if p.flow {
			node.Set("exportKind", common.String("value"))
		}
		if err := p.semicolon(); err != nil {
			return nil, err
		}
		return p.finish(node), nil
	}

	if p.isName("default") {
		node := p.startNodeAt("ExportDefaultDeclaration", start)
		p.next()
		var declaration *common.Mapping
		var err error
		switch {
		case p.isName("function"):
			fn := p.startNode("FunctionDeclaration")
			p.next()
			declaration, err = p.parseFunctionMaybeAnonymous(fn, false)
		case p.isName("async") && p.peek(1).IsName("function") && !p.peek(1).LnBefore:
			fn := p.startNode("FunctionDeclaration")
			p.next()
			p.next()
			declaration, err = p.parseFunctionMaybeAnonymous(fn, true)
		case p.isName("class"):
			declaration, err = p.parseClassMaybeAnonymous(p.startNode("ClassDeclaration"))
		default:
			declaration, err = p.parseMaybeAssign()
			if err == nil {
				err = p.semicolon()
			}
		}
		if err != nil {
			return nil, err
		}
		node.Set("declaration", declaration)
		return p.finish(node), nil
	}

	node := p.startNodeAt("ExportNamedDeclaration", start)
	node.Set("specifiers", common.Sequence{})
	node.Set("source", common.Null{})
	node.Set("declaration", common.Null{})
	if p.flow {
		node.Set("exportKind", common.String("value"))
	}

	if p.is("{") {
		p.next()
		specifiers := common.Sequence{}
		for !p.eat("}") {
			spec := p.startNode("ExportSpecifier")
			local, err := p.parseIdentifier(true)
			if err != nil {
				return nil, err
			}
			spec.Set("local", local)
			exported := p.cloneNode(local)
			if p.eatName("as") {
				exported, err = p.parseIdentifier(true)
				if err != nil {
					return nil, err
				}
			}
			spec.Set("exported", exported)
			specifiers = append(specifiers, p.finish(spec))
			if !p.is("}") {
				if err := p.expect(","); err != nil {
					return nil, err
				}
			}
		}
		node.Set("specifiers", specifiers)
		if p.eatName("from") {
			source, err := p.parseStringLiteralNode()
			if err != nil {
				return nil, err
			}
			node.Set("source", source)
		}
		if err := p.semicolon(); err != nil {
			return nil, err
		}
		return p.finish(node), nil
	}

	var declaration *common.Mapping
	var err error
	switch t := p.cur(); {
	case t.IsName("var") || t.IsName("let") || t.IsName("const"):
		declaration, err = p.parseVarStatement(t.Text)
	case t.IsName("function") || t.IsName("class") || (t.IsName("async") && p.peek(1).IsName("function")):
		declaration, err = p.parseStatement(false)
	case p.flow && t.IsName("type") && p.isTypeAliasStart():
		node.Set("exportKind", common.String("type"))
		alias := p.startNode("TypeAlias")
		p.next()
		declaration, err = p.flowParseTypeAlias(alias)
	default:
		return nil, p.unexpected()
	}
	if err != nil {
		return nil, err
	}
	node.Set("declaration", declaration)
	return p.finish(node), nil
}
