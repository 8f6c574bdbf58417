package parser

import (
	"github.com/spicery/jsast/pkg/common"
	"github.com/spicery/jsast/pkg/tokenizer"
)

// nested runs fn with the flags that do not reach inside brackets cleared.
func (p *Parser) nested(fn func() error) error {
	oldNoIn, oldConsequent := p.noIn, p.inConsequent
	p.noIn, p.inConsequent = false, false
	err := fn()
	p.noIn, p.inConsequent = oldNoIn, oldConsequent
	return err
}

func (p *Parser) parseExpression() (*common.Mapping, error) {
	start := p.cur().Span.Start
	expr, err := p.parseMaybeAssign()
	if err != nil {
		return nil, err
	}
	if !p.is(",") {
		return expr, nil
	}
	node := p.startNodeAt("SequenceExpression", start)
	expressions := common.Sequence{expr}
	for p.eat(",") {
		e, err := p.parseMaybeAssign()
		if err != nil {
			return nil, err
		}
		expressions = append(expressions, e)
	}
	node.Set("expressions", expressions)
	return p.finish(node), nil
}

func (p *Parser) parseMaybeAssign() (*common.Mapping, error) {
	if p.inGenerator && p.isName("yield") {
		return p.parseYield()
	}
	arrow, ok, err := p.tryParseArrow()
	if err != nil {
		return nil, err
	}
	if ok {
		return arrow, nil
	}

	start := p.cur().Span.Start
	outerCover := p.coverInit
	p.coverInit = nil
	left, err := p.parseMaybeConditional()
	if err != nil {
		return nil, err
	}

	op := p.cur()
	if op.Type == tokenizer.PunctuatorTokenType && tokenizer.IsAssignmentOperator(op.Text) {
		if op.Text == "=" {
			if err := p.toAssignable(left); err != nil {
				return nil, err
			}
		} else if err := p.checkSimpleTarget(left, "assignment expression"); err != nil {
			return nil, err
		}
		p.coverInit = outerCover
		p.next()
		node := p.startNodeAt("AssignmentExpression", start)
		node.Set("operator", common.String(op.Text))
		node.Set("left", left)
		right, err := p.parseMaybeAssign()
		if err != nil {
			return nil, err
		}
		node.Set("right", right)
		return p.finish(node), nil
	}

	if p.coverInit != nil && p.patternDepth == 0 {
		return nil, p.raise(p.coverInit.Span.Start, "Unexpected token")
	}
	if p.coverInit == nil {
		p.coverInit = outerCover
	}
	return left, nil
}

func (p *Parser) parseYield() (*common.Mapping, error) {
	node := p.startNode("YieldExpression")
	p.next()
	node.Set("delegate", common.Bool(false))
	node.Set("argument", common.Null{})
	t := p.cur()
	if t.LnBefore || t.Type == tokenizer.EOFTokenType ||
		(t.Type == tokenizer.PunctuatorTokenType && (t.Text == ")" || t.Text == "]" || t.Text == "}" || t.Text == "," || t.Text == ";" || t.Text == ":")) {
		return p.finish(node), nil
	}
	node.Set("delegate", common.Bool(p.eat("*")))
	argument, err := p.parseMaybeAssign()
	if err != nil {
		return nil, err
	}
	node.Set("argument", argument)
	return p.finish(node), nil
}

// tryParseArrow reads an arrow function if one starts at the current token.
// It reports false, and leaves the parser where it was, when the tokens
// turn out to be something else.
func (p *Parser) tryParseArrow() (*common.Mapping, bool, error) {
	t := p.cur()
	isPlainName := func(t *Token) bool {
		return t.Type == tokenizer.NameTokenType && !tokenizer.Keywords[t.Text]
	}
	arrowAt := func(n int) bool {
		a := p.peek(n)
		return a.Is("=>") && !a.LnBefore
	}

	switch {
	case isPlainName(t) && arrowAt(1):
		node := p.startNode("ArrowFunctionExpression")
		initFunction(node, false)
		param, err := p.parseIdentifier(false)
		if err != nil {
			return nil, false, err
		}
		node.Set("params", common.Sequence{param})
		p.next()
		arrow, err := p.parseArrowBody(node, false)
		return arrow, err == nil, err
	case t.IsName("async") && !p.peek(1).LnBefore && isPlainName(p.peek(1)) && arrowAt(2):
		node := p.startNode("ArrowFunctionExpression")
		initFunction(node, true)
		p.next()
		param, err := p.parseIdentifier(false)
		if err != nil {
			return nil, false, err
		}
		node.Set("params", common.Sequence{param})
		p.next()
		arrow, err := p.parseArrowBody(node, true)
		return arrow, err == nil, err
	case t.IsName("async") && !p.peek(1).LnBefore && (p.peek(1).Is("(") || (p.flow && p.peek(1).Is("<"))):
		return p.tryParseParenArrow(true)
	case t.Is("(") || (p.flow && t.Is("<")):
		return p.tryParseParenArrow(false)
	}
	return nil, false, nil
}

func (p *Parser) tryParseParenArrow(isAsync bool) (*common.Mapping, bool, error) {
	saved := p.snapshot()
	arrow, ok, err := p.parseParenArrow(isAsync, p.flow)
	if ok && err == nil && p.inConsequent && arrow.Node("returnType") != nil && !p.is(":") {
		// The colon belonged to the enclosing conditional.
		p.restore(saved)
		arrow, ok, err = p.parseParenArrow(isAsync, false)
	}
	if !ok {
		p.restore(saved)
	}
	return arrow, ok, err
}

// parseParenArrow reads `(params) => body`. Until the arrow token has been
// seen, failures are reported as "not an arrow" rather than as errors.
func (p *Parser) parseParenArrow(isAsync bool, allowReturnType bool) (*common.Mapping, bool, error) {
	node := p.startNode("ArrowFunctionExpression")
	initFunction(node, isAsync)
	if isAsync {
		p.next()
	}
	if p.flow && p.is("<") {
		typeParameters, err := p.flowParseTypeParameterDeclaration()
		if err != nil {
			return nil, false, nil
		}
		node.Set("typeParameters", typeParameters)
	}
	if !p.is("(") {
		return nil, false, nil
	}
	params, err := p.parseBindingList("(", ")", false)
	if err != nil {
		return nil, false, nil
	}
	node.Set("params", params)
	if allowReturnType && p.is(":") {
		old := p.noAnonFunctionType
		p.noAnonFunctionType = true
		returnType, err := p.flowParseTypeAnnotation()
		p.noAnonFunctionType = old
		if err != nil {
			return nil, false, nil
		}
		node.Set("returnType", returnType)
	}
	if !p.is("=>") || p.cur().LnBefore {
		return nil, false, nil
	}
	p.next()
	arrow, err := p.parseArrowBody(node, isAsync)
	if err != nil {
		return nil, true, err
	}
	return arrow, true, nil
}

func (p *Parser) parseArrowBody(node *common.Mapping, isAsync bool) (*common.Mapping, error) {
	if err := p.parseFunctionBody(node, isAsync, false, true); err != nil {
		return nil, err
	}
	return p.finish(node), nil
}

// initFunction lays down the fields every function node starts with.
func initFunction(node *common.Mapping, isAsync bool) {
	node.Set("id", common.Null{})
	node.Set("generator", common.Bool(false))
	node.Set("async", common.Bool(isAsync))
}

// parseFunctionBody reads a block body, or for arrows an expression body,
// inside a fresh function context.
func (p *Parser) parseFunctionBody(node *common.Mapping, isAsync, isGenerator, isArrow bool) error {
	oldFunction, oldGenerator, oldAsync := p.inFunction, p.inGenerator, p.inAsync
	oldDepth, oldCover := p.patternDepth, p.coverInit
	p.inFunction, p.inGenerator, p.inAsync = true, isGenerator, isAsync
	p.patternDepth, p.coverInit = 0, nil
	defer func() {
		p.inFunction, p.inGenerator, p.inAsync = oldFunction, oldGenerator, oldAsync
		p.patternDepth, p.coverInit = oldDepth, oldCover
	}()

	if isArrow && !p.is("{") {
		body, err := p.parseMaybeAssign()
		if err != nil {
			return err
		}
		node.Set("body", body)
		return nil
	}
	return p.nested(func() error {
		block := p.startNode("BlockStatement")
		if err := p.expect("{"); err != nil {
			return err
		}
		body, directives, err := p.parseBlockBody(true, false)
		if err != nil {
			return err
		}
		block.Set("body", body)
		block.Set("directives", directives)
		node.Set("body", p.finish(block))
		return nil
	})
}

func (p *Parser) parseMaybeConditional() (*common.Mapping, error) {
	start := p.cur().Span.Start
	expr, err := p.parseExprOps()
	if err != nil {
		return nil, err
	}
	if !p.eat("?") {
		return expr, nil
	}
	node := p.startNodeAt("ConditionalExpression", start)
	node.Set("test", expr)

	oldNoIn, oldConsequent := p.noIn, p.inConsequent
	p.noIn, p.inConsequent = false, true
	consequent, err := p.parseMaybeAssign()
	p.noIn, p.inConsequent = oldNoIn, oldConsequent
	if err != nil {
		return nil, err
	}
	node.Set("consequent", consequent)
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	alternate, err := p.parseMaybeAssign()
	if err != nil {
		return nil, err
	}
	node.Set("alternate", alternate)
	return p.finish(node), nil
}

func (p *Parser) binaryPrecedence(t *Token) int {
	switch t.Type {
	case tokenizer.PunctuatorTokenType:
		return tokenizer.BinaryPrecedence(t.Text)
	case tokenizer.NameTokenType:
		if t.Text == "instanceof" || (t.Text == "in" && !p.noIn) {
			return tokenizer.BinaryPrecedence(t.Text)
		}
	}
	return 0
}

func (p *Parser) parseExprOps() (*common.Mapping, error) {
	start := p.cur().Span.Start
	left, err := p.parseMaybeUnary()
	if err != nil {
		return nil, err
	}
	return p.parseExprOp(left, start, 0)
}

// parseExprOp climbs operator precedence: it folds operators binding
// tighter than minPrec onto left.
func (p *Parser) parseExprOp(left *common.Mapping, start common.Position, minPrec int) (*common.Mapping, error) {
	op := p.cur()
	prec := p.binaryPrecedence(op)
	if prec == 0 || prec <= minPrec {
		return left, nil
	}
	p.next()
	rightStart := p.cur().Span.Start
	operand, err := p.parseMaybeUnary()
	if err != nil {
		return nil, err
	}
	nextMin := prec
	if op.Text == "**" {
		nextMin = prec - 1
	}
	right, err := p.parseExprOp(operand, rightStart, nextMin)
	if err != nil {
		return nil, err
	}
	nodeType := "BinaryExpression"
	if tokenizer.IsLogicalOperator(op.Text) {
		nodeType = "LogicalExpression"
	}
	node := p.startNodeAt(nodeType, start)
	node.Set("left", left)
	node.Set("operator", common.String(op.Text))
	node.Set("right", right)
	return p.parseExprOp(p.finish(node), start, minPrec)
}

func isUnaryOperator(t *Token) bool {
	switch t.Type {
	case tokenizer.PunctuatorTokenType:
		return t.Text == "!" || t.Text == "~" || t.Text == "+" || t.Text == "-"
	case tokenizer.NameTokenType:
		return t.Text == "typeof" || t.Text == "void" || t.Text == "delete"
	}
	return false
}

func (p *Parser) parseMaybeUnary() (*common.Mapping, error) {
	t := p.cur()
	switch {
	case p.inAsync && t.IsName("await"):
		node := p.startNode("AwaitExpression")
		p.next()
		argument, err := p.parseMaybeUnary()
		if err != nil {
			return nil, err
		}
		node.Set("argument", argument)
		return p.finish(node), nil

	case isUnaryOperator(t):
		node := p.startNode("UnaryExpression")
		p.next()
		node.Set("operator", common.String(t.Text))
		node.Set("prefix", common.Bool(true))
		argStartsWithParen := p.is("(")
		argument, err := p.parseMaybeUnary()
		if err != nil {
			return nil, err
		}
		node.Set("argument", argument)
		addExtra(node, "parenthesizedArgument", common.Bool(argStartsWithParen && !isParenthesized(argument)))
		if p.is("**") {
			return nil, p.raise(p.cur().Span.Start, "Illegal expression. Wrap left hand side or entire exponentiation in parentheses.")
		}
		return p.finish(node), nil

	case t.Is("++") || t.Is("--"):
		node := p.startNode("UpdateExpression")
		p.next()
		node.Set("operator", common.String(t.Text))
		node.Set("prefix", common.Bool(true))
		argument, err := p.parseMaybeUnary()
		if err != nil {
			return nil, err
		}
		if err := p.checkSimpleTarget(argument, "prefix operation"); err != nil {
			return nil, err
		}
		node.Set("argument", argument)
		return p.finish(node), nil
	}

	start := t.Span.Start
	expr, err := p.parseExprSubscripts()
	if err != nil {
		return nil, err
	}
	for (p.is("++") || p.is("--")) && !p.cur().LnBefore {
		if err := p.checkSimpleTarget(expr, "postfix operation"); err != nil {
			return nil, err
		}
		node := p.startNodeAt("UpdateExpression", start)
		node.Set("operator", common.String(p.next().Text))
		node.Set("prefix", common.Bool(false))
		node.Set("argument", expr)
		expr = p.finish(node)
	}
	return expr, nil
}

func (p *Parser) parseExprSubscripts() (*common.Mapping, error) {
	start := p.cur().Span.Start
	base, err := p.parseExprAtom()
	if err != nil {
		return nil, err
	}
	return p.parseSubscripts(base, start, false)
}

func (p *Parser) parseSubscripts(base *common.Mapping, start common.Position, noCalls bool) (*common.Mapping, error) {
	for {
		switch {
		case p.eat("."):
			node := p.startNodeAt("MemberExpression", start)
			node.Set("object", base)
			property, err := p.parseIdentifier(true)
			if err != nil {
				return nil, err
			}
			node.Set("property", property)
			node.Set("computed", common.Bool(false))
			base = p.finish(node)

		case p.eat("["):
			node := p.startNodeAt("MemberExpression", start)
			node.Set("object", base)
			var property *common.Mapping
			err := p.nested(func() error {
				var err error
				property, err = p.parseExpression()
				return err
			})
			if err != nil {
				return nil, err
			}
			node.Set("property", property)
			node.Set("computed", common.Bool(true))
			if err := p.expect("]"); err != nil {
				return nil, err
			}
			base = p.finish(node)

		case !noCalls && p.is("("):
			node := p.startNodeAt("CallExpression", start)
			node.Set("callee", base)
			arguments, err := p.parseCallArguments()
			if err != nil {
				return nil, err
			}
			node.Set("arguments", arguments)
			base = p.finish(node)

		case p.is("`"):
			node := p.startNodeAt("TaggedTemplateExpression", start)
			node.Set("tag", base)
			quasi, err := p.parseTemplate(true)
			if err != nil {
				return nil, err
			}
			node.Set("quasi", quasi)
			base = p.finish(node)

		default:
			return base, nil
		}
	}
}

func (p *Parser) parseCallArguments() (common.Sequence, error) {
	arguments := common.Sequence{}
	if err := p.expect("("); err != nil {
		return nil, err
	}
	err := p.nested(func() error {
		for !p.eat(")") {
			arg, err := p.parseSpreadOrAssign()
			if err != nil {
				return err
			}
			arguments = append(arguments, arg)
			if !p.is(")") {
				if err := p.expect(","); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return arguments, nil
}

func (p *Parser) parseSpreadOrAssign() (*common.Mapping, error) {
	if !p.is("...") {
		return p.parseMaybeAssign()
	}
	node := p.startNode("SpreadElement")
	p.next()
	argument, err := p.parseMaybeAssign()
	if err != nil {
		return nil, err
	}
	node.Set("argument", argument)
	return p.finish(node), nil
}

func (p *Parser) parseExprAtom() (*common.Mapping, error) {
	t := p.cur()
	switch t.Type {
	case tokenizer.NameTokenType:
		switch t.Text {
		case "this":
			node := p.startNode("ThisExpression")
			p.next()
			return p.finish(node), nil
		case "super":
			node := p.startNode("Super")
			p.next()
			if !p.is("(") && !p.is(".") && !p.is("[") {
				return nil, p.unexpected()
			}
			return p.finish(node), nil
		case "null":
			node := p.startNode("NullLiteral")
			p.next()
			return p.finish(node), nil
		case "true", "false":
			node := p.startNode("BooleanLiteral")
			p.next()
			node.Set("value", common.Bool(t.Text == "true"))
			return p.finish(node), nil
		case "function":
			node := p.startNode("FunctionExpression")
			p.next()
			return p.parseFunction(node, false, false)
		case "async":
			if n := p.peek(1); n.IsName("function") && !n.LnBefore {
				node := p.startNode("FunctionExpression")
				p.next()
				p.next()
				return p.parseFunction(node, false, true)
			}
		case "class":
			return p.parseClass(p.startNode("ClassExpression"), false)
		case "new":
			return p.parseNew()
		}
		if tokenizer.Keywords[t.Text] {
			return nil, p.unexpected()
		}
		return p.parseIdentifier(false)

	case tokenizer.NumericTokenType:
		return p.parseLiteral("NumericLiteral"), nil
	case tokenizer.StringTokenType:
		return p.parseLiteral("StringLiteral"), nil
	case tokenizer.RegExpTokenType:
		node := p.startNode("RegExpLiteral")
		p.next()
		addExtra(node, "raw", common.String(t.Text))
		node.Set("pattern", common.String(t.Value))
		node.Set("flags", common.String(t.Flags))
		return p.finish(node), nil

	case tokenizer.PunctuatorTokenType:
		switch t.Text {
		case "(":
			return p.parseParenAndDistinguish()
		case "[":
			return p.parseArrayLiteral()
		case "{":
			return p.parseObjectLiteral()
		case "`":
			return p.parseTemplate(false)
		}
	}
	return nil, p.unexpected()
}

func (p *Parser) parseIdentifier(liberal bool) (*common.Mapping, error) {
	t := p.cur()
	if t.Type != tokenizer.NameTokenType {
		return nil, p.unexpected()
	}
	if !liberal && tokenizer.Keywords[t.Text] {
		return nil, p.raise(t.Span.Start, "Unexpected keyword '%s'", t.Text)
	}
	node := p.startNode("Identifier")
	node.Set("name", common.String(t.Text))
	p.next()
	return p.finish(node), nil
}

// parseLiteral reads a numeric or string token into a literal node with
// its raw text kept under extra.
func (p *Parser) parseLiteral(nodeType string) *common.Mapping {
	t := p.cur()
	node := p.startNode(nodeType)
	var value common.Value
	if t.Type == tokenizer.NumericTokenType {
		value = common.Float(t.Number)
	} else {
		value = common.String(t.Value)
	}
	addExtra(node, "rawValue", value)
	addExtra(node, "raw", common.String(t.Text))
	node.Set("value", value)
	p.next()
	return p.finish(node)
}

func (p *Parser) parseNew() (*common.Mapping, error) {
	node := p.startNode("NewExpression")
	p.next()
	if p.is(".") {
		meta := p.startNodeAt("Identifier", p.startOf(node))
		meta.Set("name", common.String("new"))
		p.finish(meta)
		p.next()
		if !p.isName("target") || !p.inFunction {
			return nil, p.unexpected()
		}
		node.Set("type", common.String("MetaProperty"))
		node.Set("meta", meta)
		property, err := p.parseIdentifier(true)
		if err != nil {
			return nil, err
		}
		node.Set("property", property)
		return p.finish(node), nil
	}
	calleeStart := p.cur().Span.Start
	callee, err := p.parseExprAtom()
	if err != nil {
		return nil, err
	}
	callee, err = p.parseSubscripts(callee, calleeStart, true)
	if err != nil {
		return nil, err
	}
	node.Set("callee", callee)
	arguments := common.Sequence{}
	if p.is("(") {
		arguments, err = p.parseCallArguments()
		if err != nil {
			return nil, err
		}
	}
	node.Set("arguments", arguments)
	return p.finish(node), nil
}

// parseParenAndDistinguish reads a parenthesised expression. Arrow
// functions have already been ruled out. With Flow enabled, `(e: T)` is a
// type cast.
func (p *Parser) parseParenAndDistinguish() (*common.Mapping, error) {
	start := p.cur().Span.Start
	p.next()
	innerStart := p.cur().Span.Start
	var exprs []*common.Mapping
	err := p.nested(func() error {
		for !p.is(")") {
			if len(exprs) > 0 {
				if err := p.expect(","); err != nil {
					return err
				}
				if p.is(")") {
					return p.unexpected()
				}
			}
			exprStart := p.cur().Span.Start
			e, err := p.parseMaybeAssign()
			if err != nil {
				return err
			}
			if p.flow && p.is(":") {
				cast := p.startNodeAt("TypeCastExpression", exprStart)
				cast.Set("expression", e)
				annotation, err := p.flowParseTypeAnnotation()
				if err != nil {
					return err
				}
				cast.Set("typeAnnotation", annotation)
				e = p.finish(cast)
			}
			exprs = append(exprs, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	innerEnd := p.prevEnd()
	if len(exprs) == 0 {
		return nil, p.unexpected()
	}
	p.next()

	val := exprs[0]
	if len(exprs) > 1 {
		val = p.startNodeAt("SequenceExpression", innerStart)
		expressions := common.Sequence{}
		for _, e := range exprs {
			expressions = append(expressions, e)
		}
		val.Set("expressions", expressions)
		p.finishAt(val, innerEnd)
	}
	addExtra(val, "parenthesized", common.Bool(true))
	addExtra(val, "parenStart", common.Int(start.Offset))
	return val, nil
}

func (p *Parser) parseArrayLiteral() (*common.Mapping, error) {
	node := p.startNode("ArrayExpression")
	p.next()
	elements := common.Sequence{}
	p.patternDepth++
	err := p.nested(func() error {
		for !p.eat("]") {
			if p.eat(",") {
				elements = append(elements, common.Null{})
				continue
			}
			e, err := p.parseSpreadOrAssign()
			if err != nil {
				return err
			}
			elements = append(elements, e)
			if !p.is("]") {
				if err := p.expect(","); err != nil {
					return err
				}
			}
		}
		return nil
	})
	p.patternDepth--
	if err != nil {
		return nil, err
	}
	node.Set("elements", elements)
	return p.finish(node), nil
}

func (p *Parser) parseObjectLiteral() (*common.Mapping, error) {
	node := p.startNode("ObjectExpression")
	p.next()
	properties := common.Sequence{}
	p.patternDepth++
	err := p.nested(func() error {
		for !p.eat("}") {
			var prop *common.Mapping
			var err error
			if p.is("...") {
				prop, err = p.parseSpreadOrAssign()
			} else {
				prop, err = p.parseObjectMember()
			}
			if err != nil {
				return err
			}
			properties = append(properties, prop)
			if !p.is("}") {
				if err := p.expect(","); err != nil {
					return err
				}
			}
		}
		return nil
	})
	p.patternDepth--
	if err != nil {
		return nil, err
	}
	node.Set("properties", properties)
	return p.finish(node), nil
}

// isPropertyNameStart reports whether t can begin a property key.
func isPropertyNameStart(t *Token) bool {
	switch t.Type {
	case tokenizer.NameTokenType, tokenizer.StringTokenType, tokenizer.NumericTokenType:
		return true
	}
	return t.Is("[")
}

// parseMemberModifiers reads the async, generator star and get/set prefixes
// shared by object and class members.
func (p *Parser) parseMemberModifiers() (isAsync bool, isGenerator bool, kind string) {
	kind = "method"
	if p.isName("async") && !p.peek(1).LnBefore && (isPropertyNameStart(p.peek(1)) || p.peek(1).Is("*")) {
		p.next()
		isAsync = true
	}
	if p.eat("*") {
		isGenerator = true
	}
	if !isAsync && !isGenerator && (p.isName("get") || p.isName("set")) && isPropertyNameStart(p.peek(1)) {
		kind = p.next().Text
	}
	return isAsync, isGenerator, kind
}

// parsePropertyName sets the key and computed fields of a member node.
func (p *Parser) parsePropertyName(node *common.Mapping) error {
	if p.eat("[") {
		var key *common.Mapping
		err := p.nested(func() error {
			var err error
			key, err = p.parseMaybeAssign()
			return err
		})
		if err != nil {
			return err
		}
		node.Set("key", key)
		node.Set("computed", common.Bool(true))
		return p.expect("]")
	}
	var key *common.Mapping
	var err error
	switch p.cur().Type {
	case tokenizer.StringTokenType:
		key = p.parseLiteral("StringLiteral")
	case tokenizer.NumericTokenType:
		key = p.parseLiteral("NumericLiteral")
	default:
		key, err = p.parseIdentifier(true)
	}
	if err != nil {
		return err
	}
	node.Set("key", key)
	node.Set("computed", common.Bool(false))
	return nil
}

func (p *Parser) parseObjectMember() (*common.Mapping, error) {
	start := p.cur().Span.Start
	isAsync, isGenerator, kind := p.parseMemberModifiers()
	prop := p.startNodeAt("ObjectProperty", start)
	prop.Set("method", common.Bool(false))
	if err := p.parsePropertyName(prop); err != nil {
		return nil, err
	}

	if p.is("(") || (p.flow && p.is("<")) {
		prop.Set("type", common.String("ObjectMethod"))
		prop.Set("method", common.Bool(kind == "method"))
		prop.Set("kind", common.String(kind))
		if err := p.parseMethod(prop, isGenerator, isAsync); err != nil {
			return nil, err
		}
		return p.finish(prop), nil
	}
	if isAsync || isGenerator || kind != "method" {
		return nil, p.unexpected()
	}

	prop.Set("shorthand", common.Bool(false))
	if p.eat(":") {
		value, err := p.parseMaybeAssign()
		if err != nil {
			return nil, err
		}
		prop.Set("value", value)
		return p.finish(prop), nil
	}

	key := prop.Node("key")
	if prop.Flag("computed") || key.Type() != "Identifier" || tokenizer.Keywords[key.Str("name")] {
		return nil, p.unexpected()
	}
	prop.Set("shorthand", common.Bool(true))
	if p.is("=") {
		if p.coverInit == nil {
			p.coverInit = p.cur()
		}
		p.next()
		pattern := p.startNodeAt("AssignmentPattern", p.startOf(key))
		pattern.Set("left", p.cloneNode(key))
		right, err := p.parseMaybeAssign()
		if err != nil {
			return nil, err
		}
		pattern.Set("right", right)
		prop.Set("value", p.finish(pattern))
	} else {
		prop.Set("value", p.cloneNode(key))
	}
	return p.finish(prop), nil
}

func (p *Parser) parseTemplate(tagged bool) (*common.Mapping, error) {
	node := p.startNode("TemplateLiteral")
	if err := p.expect("`"); err != nil {
		return nil, err
	}
	expressions := common.Sequence{}
	quasis := common.Sequence{}
	node.Set("expressions", expressions)
	node.Set("quasis", quasis)
	for {
		chunk := p.cur()
		if chunk.Type != tokenizer.TemplateTokenType {
			return nil, p.unexpected()
		}
		elem := p.startNode("TemplateElement")
		value := common.NewMapping()
		value.Set("raw", common.String(chunk.Text))
		if chunk.InvalidEscape {
			if !tagged {
				return nil, p.raise(chunk.Span.Start, "Invalid escape sequence in template")
			}
			value.Set("cooked", common.Null{})
		} else {
			value.Set("cooked", common.String(chunk.Value))
		}
		elem.Set("value", value)
		p.next()
		tail := p.is("`")
		elem.Set("tail", common.Bool(tail))
		quasis = append(quasis, p.finish(elem))
		if tail {
			p.next()
			break
		}
		if err := p.expect("${"); err != nil {
			return nil, err
		}
		var expr *common.Mapping
		err := p.nested(func() error {
			var err error
			expr, err = p.parseExpression()
			return err
		})
		if err != nil {
			return nil, err
		}
		expressions = append(expressions, expr)
		if err := p.expect("}"); err != nil {
			return nil, err
		}
	}
	node.Set("expressions", expressions)
	node.Set("quasis", quasis)
	return p.finish(node), nil
}

// Functions and classes.

// parseFunction reads a function after its keyword (and any async prefix).
// Declarations need a name; expressions may omit it.
func (p *Parser) parseFunction(node *common.Mapping, isStatement bool, isAsync bool) (*common.Mapping, error) {
	initFunction(node, isAsync)
	isGenerator := p.eat("*")
	node.Set("generator", common.Bool(isGenerator))
	if isStatement || p.cur().Type == tokenizer.NameTokenType {
		id, err := p.parseIdentifier(false)
		if err != nil {
			return nil, err
		}
		node.Set("id", id)
	}
	if err := p.parseFunctionRest(node, isGenerator, isAsync); err != nil {
		return nil, err
	}
	return p.finish(node), nil
}

// parseFunctionMaybeAnonymous reads `export default function`, whose name
// is optional.
func (p *Parser) parseFunctionMaybeAnonymous(node *common.Mapping, isAsync bool) (*common.Mapping, error) {
	return p.parseFunction(node, false, isAsync)
}

func (p *Parser) parseMethod(node *common.Mapping, isGenerator, isAsync bool) error {
	node.Set("generator", common.Bool(isGenerator))
	node.Set("async", common.Bool(isAsync))
	return p.parseFunctionRest(node, isGenerator, isAsync)
}

// parseFunctionRest reads type parameters, parameters, return type and
// body.
func (p *Parser) parseFunctionRest(node *common.Mapping, isGenerator, isAsync bool) error {
	if p.flow && p.is("<") {
		typeParameters, err := p.flowParseTypeParameterDeclaration()
		if err != nil {
			return err
		}
		node.Set("typeParameters", typeParameters)
	}
	oldGenerator, oldAsync := p.inGenerator, p.inAsync
	p.inGenerator, p.inAsync = isGenerator, isAsync
	params, err := p.parseBindingList("(", ")", false)
	p.inGenerator, p.inAsync = oldGenerator, oldAsync
	if err != nil {
		return err
	}
	node.Set("params", params)
	if p.flow && p.is(":") {
		returnType, err := p.flowParseTypeAnnotation()
		if err != nil {
			return err
		}
		node.Set("returnType", returnType)
	}
	return p.parseFunctionBody(node, isAsync, isGenerator, false)
}

// parseClass reads a class after recording its start; the current token is
// the class keyword.
func (p *Parser) parseClass(node *common.Mapping, isStatement bool) (*common.Mapping, error) {
	p.next()
	node.Set("id", common.Null{})
	if p.cur().Type == tokenizer.NameTokenType && !p.isName("extends") && !p.isName("implements") {
		id, err := p.parseIdentifier(false)
		if err != nil {
			return nil, err
		}
		node.Set("id", id)
	} else if isStatement {
		return nil, p.raise(p.cur().Span.Start, "A class name is required")
	}
	if p.flow && p.is("<") {
		typeParameters, err := p.flowParseTypeParameterDeclaration()
		if err != nil {
			return nil, err
		}
		node.Set("typeParameters", typeParameters)
	}
	node.Set("superClass", common.Null{})
	if p.eatName("extends") {
		superClass, err := p.parseExprSubscripts()
		if err != nil {
			return nil, err
		}
		node.Set("superClass", superClass)
		if p.flow && p.is("<") {
			superTypeParameters, err := p.flowParseTypeParameterInstantiation()
			if err != nil {
				return nil, err
			}
			node.Set("superTypeParameters", superTypeParameters)
		}
	}
	if p.flow && p.eatName("implements") {
		implements, err := p.flowParseClassImplements()
		if err != nil {
			return nil, err
		}
		node.Set("implements", implements)
	}
	body, err := p.parseClassBody()
	if err != nil {
		return nil, err
	}
	node.Set("body", body)
	return p.finish(node), nil
}

func (p *Parser) parseClassMaybeAnonymous(node *common.Mapping) (*common.Mapping, error) {
	return p.parseClass(node, false)
}

func (p *Parser) parseClassBody() (*common.Mapping, error) {
	node := p.startNode("ClassBody")
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	members := common.Sequence{}
	err := p.nested(func() error {
		for !p.eat("}") {
			if p.eat(";") {
				continue
			}
			if p.atEOF() {
				return p.unexpected()
			}
			member, err := p.parseClassMember()
			if err != nil {
				return err
			}
			members = append(members, member)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	node.Set("body", members)
	return p.finish(node), nil
}

// isMemberNameEnd reports whether t ends a member name, meaning a preceding
// modifier word is itself the name.
func isMemberNameEnd(t *Token) bool {
	if t.Type == tokenizer.EOFTokenType {
		return true
	}
	return t.Is("(") || t.Is("=") || t.Is(";") || t.Is("}") || t.Is(":") || t.Is("?") || t.Is("<")
}

func (p *Parser) parseClassMember() (*common.Mapping, error) {
	member := p.startNode("ClassMethod")
	isStatic := false
	if p.isName("static") && !isMemberNameEnd(p.peek(1)) {
		p.next()
		isStatic = true
	}
	member.Set("static", common.Bool(isStatic))

	variance := p.flowParseVariance()
	isAsync, isGenerator, kind := false, false, "method"
	if !isMemberNameEnd(p.peek(1)) {
		isAsync, isGenerator, kind = p.parseMemberModifiers()
	}
	if err := p.parsePropertyName(member); err != nil {
		return nil, err
	}

	if p.is("(") || (p.flow && p.is("<")) {
		if variance != nil {
			return nil, p.raise(p.startOf(variance), "Unexpected token")
		}
		key := member.Node("key")
		isConstructor := !member.Flag("computed") && !isStatic &&
			((key.Type() == "Identifier" && key.Str("name") == "constructor") ||
				(key.Type() == "StringLiteral" && key.Str("value") == "constructor"))
		if isConstructor {
			if kind != "method" || isAsync || isGenerator {
				return nil, p.raise(p.startOf(key), "Constructor can't be a special method")
			}
			kind = "constructor"
		}
		member.Set("kind", common.String(kind))
		if err := p.parseMethod(member, isGenerator, isAsync); err != nil {
			return nil, err
		}
		return p.finish(member), nil
	}
	if isAsync || isGenerator || kind != "method" {
		return nil, p.unexpected()
	}

	member.Set("type", common.String("ClassProperty"))
	if p.flow {
		member.Set("variance", nullable(variance))
		if p.is(":") {
			annotation, err := p.flowParseTypeAnnotation()
			if err != nil {
				return nil, err
			}
			member.Set("typeAnnotation", annotation)
		}
	}
	member.Set("value", common.Null{})
	if p.eat("=") {
		oldFunction := p.inFunction
		p.inFunction = true
		value, err := p.parseMaybeAssign()
		p.inFunction = oldFunction
		if err != nil {
			return nil, err
		}
		member.Set("value", value)
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.finish(member), nil
}
