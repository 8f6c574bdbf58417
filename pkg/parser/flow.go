package parser

import (
	"github.com/spicery/jsast/pkg/common"
	"github.com/spicery/jsast/pkg/tokenizer"
)

// Flow type annotations.

var primitiveTypes = map[string]string{
	"any":     "AnyTypeAnnotation",
	"mixed":   "MixedTypeAnnotation",
	"empty":   "EmptyTypeAnnotation",
	"number":  "NumberTypeAnnotation",
	"string":  "StringTypeAnnotation",
	"boolean": "BooleanTypeAnnotation",
	"bool":    "BooleanTypeAnnotation",
	"void":    "VoidTypeAnnotation",
	"null":    "NullLiteralTypeAnnotation",
	"this":    "ThisTypeAnnotation",
}

// typeContext runs fn with anonymous function types allowed again, as they
// are inside any bracket.
func (p *Parser) typeContext(fn func() error) error {
	old := p.noAnonFunctionType
	p.noAnonFunctionType = false
	err := fn()
	p.noAnonFunctionType = old
	return err
}

// flowParseTypeAnnotation reads `: T` into a TypeAnnotation node that
// starts at the colon.
func (p *Parser) flowParseTypeAnnotation() (*common.Mapping, error) {
	node := p.startNode("TypeAnnotation")
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	t, err := p.flowParseType()
	if err != nil {
		return nil, err
	}
	node.Set("typeAnnotation", t)
	return p.finish(node), nil
}

func (p *Parser) flowParseType() (*common.Mapping, error) {
	return p.flowParseUnionType()
}

func (p *Parser) flowParseUnionType() (*common.Mapping, error) {
	node := p.startNode("UnionTypeAnnotation")
	p.eat("|")
	first, err := p.flowParseIntersectionType()
	if err != nil {
		return nil, err
	}
	types := common.Sequence{first}
	for p.is("|") && !p.peek(1).Is("}") {
		p.next()
		t, err := p.flowParseIntersectionType()
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if len(types) == 1 {
		return first, nil
	}
	node.Set("types", types)
	return p.finish(node), nil
}

func (p *Parser) flowParseIntersectionType() (*common.Mapping, error) {
	node := p.startNode("IntersectionTypeAnnotation")
	p.eat("&")
	first, err := p.flowParseAnonFunctionWithoutParens()
	if err != nil {
		return nil, err
	}
	types := common.Sequence{first}
	for p.eat("&") {
		t, err := p.flowParseAnonFunctionWithoutParens()
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if len(types) == 1 {
		return first, nil
	}
	node.Set("types", types)
	return p.finish(node), nil
}

// flowParseAnonFunctionWithoutParens reads `T => U`, a function type whose
// single parameter is unnamed and unparenthesised.
func (p *Parser) flowParseAnonFunctionWithoutParens() (*common.Mapping, error) {
	param, err := p.flowParsePrefixType()
	if err != nil {
		return nil, err
	}
	if p.noAnonFunctionType || !p.is("=>") {
		return param, nil
	}
	p.next()
	node := p.startNodeAt("FunctionTypeAnnotation", p.startOf(param))
	node.Set("params", common.Sequence{p.reinterpretTypeAsFunctionTypeParam(param)})
	node.Set("rest", common.Null{})
	node.Set("typeParameters", common.Null{})
	returnType, err := p.flowParseType()
	if err != nil {
		return nil, err
	}
	node.Set("returnType", returnType)
	return p.finish(node), nil
}

func (p *Parser) flowParsePrefixType() (*common.Mapping, error) {
	if !p.is("?") {
		return p.flowParsePostfixType()
	}
	node := p.startNode("NullableTypeAnnotation")
	p.next()
	t, err := p.flowParsePrefixType()
	if err != nil {
		return nil, err
	}
	node.Set("typeAnnotation", t)
	return p.finish(node), nil
}

func (p *Parser) flowParsePostfixType() (*common.Mapping, error) {
	start := p.cur().Span.Start
	t, err := p.flowParsePrimaryType()
	if err != nil {
		return nil, err
	}
	for p.is("[") && !p.cur().LnBefore && p.peek(1).Is("]") {
		p.next()
		p.next()
		node := p.startNodeAt("ArrayTypeAnnotation", start)
		node.Set("elementType", t)
		t = p.finish(node)
	}
	return t, nil
}

func (p *Parser) flowParsePrimaryType() (*common.Mapping, error) {
	t := p.cur()
	switch t.Type {
	case tokenizer.NameTokenType:
		if nodeType, ok := primitiveTypes[t.Text]; ok {
			node := p.startNode(nodeType)
			p.next()
			return p.finish(node), nil
		}
		switch t.Text {
		case "true", "false":
			node := p.startNode("BooleanLiteralTypeAnnotation")
			p.next()
			node.Set("value", common.Bool(t.Text == "true"))
			return p.finish(node), nil
		case "typeof":
			node := p.startNode("TypeofTypeAnnotation")
			p.next()
			argument, err := p.flowParsePrimaryType()
			if err != nil {
				return nil, err
			}
			node.Set("argument", argument)
			return p.finish(node), nil
		}
		return p.flowParseGenericType()

	case tokenizer.StringTokenType:
		return p.parseLiteral("StringLiteralTypeAnnotation"), nil
	case tokenizer.NumericTokenType:
		return p.parseLiteral("NumberLiteralTypeAnnotation"), nil

	case tokenizer.PunctuatorTokenType:
		switch t.Text {
		case "{":
			if p.peek(1).Is("|") {
				return p.flowParseObjectType(true)
			}
			return p.flowParseObjectType(false)
		case "[":
			return p.flowParseTupleType()
		case "<":
			node := p.startNode("FunctionTypeAnnotation")
			typeParameters, err := p.flowParseTypeParameterDeclaration()
			if err != nil {
				return nil, err
			}
			if err := p.expect("("); err != nil {
				return nil, err
			}
			return p.flowParseFunctionTypeRest(node, nil, typeParameters)
		case "(":
			return p.flowParseParenType()
		case "*":
			node := p.startNode("ExistsTypeAnnotation")
			p.next()
			return p.finish(node), nil
		case "-":
			if n := p.peek(1); n.Type == tokenizer.NumericTokenType && n.Span.Start.Offset == t.Span.End.Offset {
				node := p.startNode("NumberLiteralTypeAnnotation")
				p.next()
				p.next()
				value := common.Float(-n.Number)
				addExtra(node, "rawValue", value)
				addExtra(node, "raw", common.String("-"+n.Text))
				node.Set("value", value)
				return p.finish(node), nil
			}
		}
	}
	return nil, p.unexpected()
}

func (p *Parser) flowParseGenericType() (*common.Mapping, error) {
	start := p.cur().Span.Start
	node := p.startNode("GenericTypeAnnotation")
	id, err := p.parseIdentifier(true)
	if err != nil {
		return nil, err
	}
	for p.eat(".") {
		qualified := p.startNodeAt("QualifiedTypeIdentifier", start)
		qualified.Set("qualification", id)
		property, err := p.parseIdentifier(true)
		if err != nil {
			return nil, err
		}
		qualified.Set("id", property)
		id = p.finish(qualified)
	}
	node.Set("id", id)
	node.Set("typeParameters", common.Null{})
	if p.is("<") {
		typeParameters, err := p.flowParseTypeParameterInstantiation()
		if err != nil {
			return nil, err
		}
		node.Set("typeParameters", typeParameters)
	}
	return p.finish(node), nil
}

func (p *Parser) flowParseTupleType() (*common.Mapping, error) {
	node := p.startNode("TupleTypeAnnotation")
	p.next()
	types := common.Sequence{}
	err := p.typeContext(func() error {
		for !p.eat("]") {
			t, err := p.flowParseType()
			if err != nil {
				return err
			}
			types = append(types, t)
			if !p.is("]") {
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
	node.Set("types", types)
	return p.finish(node), nil
}

// flowParseParenType reads either a parenthesised type or a function type.
// A `,` or `) =>` after the first type means the parentheses held function
// parameters.
func (p *Parser) flowParseParenType() (*common.Mapping, error) {
	node := p.startNode("FunctionTypeAnnotation")
	p.next()
	var first *common.Mapping
	if !p.is(")") && !p.is("...") {
		grouped := true
		if p.cur().Type == tokenizer.NameTokenType {
			n := p.peek(1)
			grouped = !n.Is("?") && !n.Is(":")
		}
		if grouped {
			var t *common.Mapping
			err := p.typeContext(func() error {
				var err error
				t, err = p.flowParseType()
				return err
			})
			if err != nil {
				return nil, err
			}
			if p.noAnonFunctionType || !(p.is(",") || (p.is(")") && p.peek(1).Is("=>"))) {
				if err := p.expect(")"); err != nil {
					return nil, err
				}
				return t, nil
			}
			p.eat(",")
			first = p.reinterpretTypeAsFunctionTypeParam(t)
		}
	}
	return p.flowParseFunctionTypeRest(node, first, nil)
}

// flowParseFunctionTypeRest finishes `(params) => R` after the opening
// parenthesis.
func (p *Parser) flowParseFunctionTypeRest(node *common.Mapping, first *common.Mapping, typeParameters *common.Mapping) (*common.Mapping, error) {
	params := common.Sequence{}
	if first != nil {
		params = append(params, first)
	}
	var rest *common.Mapping
	err := p.typeContext(func() error {
		var err error
		params, rest, err = p.flowParseFunctionTypeParams(params)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	if err := p.expect("=>"); err != nil {
		return nil, err
	}
	node.Set("params", params)
	node.Set("rest", nullable(rest))
	node.Set("typeParameters", nullable(typeParameters))
	returnType, err := p.flowParseType()
	if err != nil {
		return nil, err
	}
	node.Set("returnType", returnType)
	return p.finish(node), nil
}

func (p *Parser) reinterpretTypeAsFunctionTypeParam(t *common.Mapping) *common.Mapping {
	node := p.startNodeAt("FunctionTypeParam", p.startOf(t))
	node.Set("name", common.Null{})
	node.Set("optional", common.Bool(false))
	node.Set("typeAnnotation", t)
	return p.finishAt(node, p.endOf(t))
}

// flowParseFunctionTypeParams reads parameters up to, but not including,
// the closing parenthesis.
func (p *Parser) flowParseFunctionTypeParams(params common.Sequence) (common.Sequence, *common.Mapping, error) {
	for !p.is(")") && !p.is("...") {
		param, err := p.flowParseFunctionTypeParam()
		if err != nil {
			return nil, nil, err
		}
		params = append(params, param)
		if !p.is(")") {
			if err := p.expect(","); err != nil {
				return nil, nil, err
			}
		}
	}
	if !p.eat("...") {
		return params, nil, nil
	}
	rest, err := p.flowParseFunctionTypeParam()
	if err != nil {
		return nil, nil, err
	}
	p.eat(",")
	return params, rest, nil
}

func (p *Parser) flowParseFunctionTypeParam() (*common.Mapping, error) {
	node := p.startNode("FunctionTypeParam")
	if p.cur().Type == tokenizer.NameTokenType && (p.peek(1).Is(":") || p.peek(1).Is("?")) {
		name, err := p.parseIdentifier(true)
		if err != nil {
			return nil, err
		}
		node.Set("name", name)
		node.Set("optional", common.Bool(p.eat("?")))
		if err := p.expect(":"); err != nil {
			return nil, err
		}
	} else {
		node.Set("name", common.Null{})
		node.Set("optional", common.Bool(false))
	}
	t, err := p.flowParseType()
	if err != nil {
		return nil, err
	}
	node.Set("typeAnnotation", t)
	return p.finish(node), nil
}

// flowParseObjectTypeMethodish reads the signature of a method in an object
// type, starting at its parameter list or type parameters.
func (p *Parser) flowParseObjectTypeMethodish(node *common.Mapping) (*common.Mapping, error) {
	node.Set("params", common.Sequence{})
	node.Set("rest", common.Null{})
	node.Set("typeParameters", common.Null{})
	if p.is("<") {
		typeParameters, err := p.flowParseTypeParameterDeclaration()
		if err != nil {
			return nil, err
		}
		node.Set("typeParameters", typeParameters)
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var params common.Sequence
	var rest *common.Mapping
	err := p.typeContext(func() error {
		var err error
		params, rest, err = p.flowParseFunctionTypeParams(common.Sequence{})
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	node.Set("params", params)
	node.Set("rest", nullable(rest))
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	returnType, err := p.flowParseType()
	if err != nil {
		return nil, err
	}
	node.Set("returnType", returnType)
	return p.finish(node), nil
}

func (p *Parser) flowParseVariance() *common.Mapping {
	if !p.flow || !(p.is("+") || p.is("-")) {
		return nil
	}
	node := p.startNode("Variance")
	kind := "plus"
	if p.next().Text == "-" {
		kind = "minus"
	}
	node.Set("kind", common.String(kind))
	return p.finish(node)
}

func (p *Parser) flowParseObjectType(exact bool) (*common.Mapping, error) {
	node := p.startNode("ObjectTypeAnnotation")
	properties := common.Sequence{}
	callProperties := common.Sequence{}
	indexers := common.Sequence{}
	p.next()
	if exact {
		p.next()
	}
	atEnd := func() bool {
		if exact {
			return p.is("|") && p.peek(1).Is("}")
		}
		return p.is("}")
	}
	err := p.typeContext(func() error {
		for !atEnd() {
			if p.atEOF() {
				return p.unexpected()
			}
			start := p.cur().Span.Start
			variance := p.flowParseVariance()
			switch {
			case p.is("["):
				indexer, err := p.flowParseObjectTypeIndexer(start, variance)
				if err != nil {
					return err
				}
				indexers = append(indexers, indexer)
			case p.is("(") || p.is("<"):
				if variance != nil {
					return p.raise(p.startOf(variance), "Unexpected token")
				}
				call := p.startNodeAt("ObjectTypeCallProperty", start)
				value, err := p.flowParseObjectTypeMethodish(p.startNode("FunctionTypeAnnotation"))
				if err != nil {
					return err
				}
				call.Set("value", value)
				call.Set("static", common.Bool(false))
				callProperties = append(callProperties, p.finish(call))
			case p.is("..."):
				spread := p.startNodeAt("ObjectTypeSpreadProperty", start)
				p.next()
				argument, err := p.flowParseType()
				if err != nil {
					return err
				}
				spread.Set("argument", argument)
				properties = append(properties, p.finish(spread))
			default:
				prop, err := p.flowParseObjectTypeProperty(start, variance)
				if err != nil {
					return err
				}
				properties = append(properties, prop)
			}
			if !p.eat(";") && !p.eat(",") && !atEnd() {
				return p.unexpected()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if exact {
		p.next()
	}
	p.next()
	node.Set("properties", properties)
	node.Set("callProperties", callProperties)
	node.Set("indexers", indexers)
	node.Set("exact", common.Bool(exact))
	return p.finish(node), nil
}

func (p *Parser) flowParseObjectTypeIndexer(start common.Position, variance *common.Mapping) (*common.Mapping, error) {
	node := p.startNodeAt("ObjectTypeIndexer", start)
	p.next()
	node.Set("id", common.Null{})
	if p.cur().Type == tokenizer.NameTokenType && p.peek(1).Is(":") {
		id, err := p.parseIdentifier(true)
		if err != nil {
			return nil, err
		}
		node.Set("id", id)
		p.next()
	}
	key, err := p.flowParseType()
	if err != nil {
		return nil, err
	}
	node.Set("key", key)
	if err := p.expect("]"); err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	value, err := p.flowParseType()
	if err != nil {
		return nil, err
	}
	node.Set("value", value)
	node.Set("static", common.Bool(false))
	node.Set("variance", nullable(variance))
	return p.finish(node), nil
}

func (p *Parser) flowParseObjectTypeProperty(start common.Position, variance *common.Mapping) (*common.Mapping, error) {
	node := p.startNodeAt("ObjectTypeProperty", start)
	var key *common.Mapping
	var err error
	if p.cur().Type == tokenizer.StringTokenType {
		key = p.parseLiteral("StringLiteral")
	} else {
		key, err = p.parseIdentifier(true)
		if err != nil {
			return nil, err
		}
	}
	node.Set("key", key)

	if p.is("(") || p.is("<") {
		if variance != nil {
			return nil, p.raise(p.startOf(variance), "Unexpected token")
		}
		value, err := p.flowParseObjectTypeMethodish(p.startNodeAt("FunctionTypeAnnotation", start))
		if err != nil {
			return nil, err
		}
		node.Set("value", value)
		node.Set("static", common.Bool(false))
		node.Set("kind", common.String("init"))
		node.Set("method", common.Bool(true))
		node.Set("optional", common.Bool(false))
		return p.finish(node), nil
	}

	optional := p.eat("?")
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	value, err := p.flowParseType()
	if err != nil {
		return nil, err
	}
	node.Set("value", value)
	node.Set("static", common.Bool(false))
	node.Set("kind", common.String("init"))
	node.Set("method", common.Bool(false))
	node.Set("optional", common.Bool(optional))
	node.Set("variance", nullable(variance))
	return p.finish(node), nil
}

func (p *Parser) flowParseTypeParameterDeclaration() (*common.Mapping, error) {
	node := p.startNode("TypeParameterDeclaration")
	if err := p.expect("<"); err != nil {
		return nil, err
	}
	params := common.Sequence{}
	for {
		param := p.startNode("TypeParameter")
		variance := p.flowParseVariance()
		name := p.cur()
		if _, err := p.parseIdentifier(false); err != nil {
			return nil, err
		}
		param.Set("name", common.String(name.Text))
		param.Set("variance", nullable(variance))
		if p.is(":") {
			bound, err := p.flowParseTypeAnnotation()
			if err != nil {
				return nil, err
			}
			param.Set("bound", bound)
		}
		if p.eat("=") {
			def, err := p.flowParseType()
			if err != nil {
				return nil, err
			}
			param.Set("default", def)
		}
		params = append(params, p.finish(param))
		p.splitGreater()
		if p.is(">") {
			break
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
		p.splitGreater()
		if p.is(">") {
			break
		}
	}
	if err := p.expectGreater(); err != nil {
		return nil, err
	}
	node.Set("params", params)
	return p.finish(node), nil
}

func (p *Parser) flowParseTypeParameterInstantiation() (*common.Mapping, error) {
	node := p.startNode("TypeParameterInstantiation")
	if err := p.expect("<"); err != nil {
		return nil, err
	}
	params := common.Sequence{}
	err := p.typeContext(func() error {
		for {
			p.splitGreater()
			if p.is(">") {
				return nil
			}
			t, err := p.flowParseType()
			if err != nil {
				return err
			}
			params = append(params, t)
			p.splitGreater()
			if p.is(">") {
				return nil
			}
			if err := p.expect(","); err != nil {
				return err
			}
		}
	})
	if err != nil {
		return nil, err
	}
	if err := p.expectGreater(); err != nil {
		return nil, err
	}
	node.Set("params", params)
	return p.finish(node), nil
}

func (p *Parser) flowParseClassImplements() (common.Sequence, error) {
	implements := common.Sequence{}
	for {
		node := p.startNode("ClassImplements")
		id, err := p.parseIdentifier(false)
		if err != nil {
			return nil, err
		}
		node.Set("id", id)
		node.Set("typeParameters", common.Null{})
		if p.is("<") {
			typeParameters, err := p.flowParseTypeParameterInstantiation()
			if err != nil {
				return nil, err
			}
			node.Set("typeParameters", typeParameters)
		}
		implements = append(implements, p.finish(node))
		if !p.eat(",") {
			return implements, nil
		}
	}
}

// Flow declarations.

// flowParseTypeAlias reads `T<Params> = Type;` after the type keyword.
func (p *Parser) flowParseTypeAlias(node *common.Mapping) (*common.Mapping, error) {
	id, err := p.parseIdentifier(false)
	if err != nil {
		return nil, err
	}
	node.Set("id", id)
	node.Set("typeParameters", common.Null{})
	if p.is("<") {
		typeParameters, err := p.flowParseTypeParameterDeclaration()
		if err != nil {
			return nil, err
		}
		node.Set("typeParameters", typeParameters)
	}
	if err := p.expect("="); err != nil {
		return nil, err
	}
	right, err := p.flowParseType()
	if err != nil {
		return nil, err
	}
	node.Set("right", right)
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.finish(node), nil
}

// isDeclareStart reports whether the declare keyword at the current token
// opens a Flow declaration.
func (p *Parser) isDeclareStart() bool {
	n := p.peek(1)
	if n.Type != tokenizer.NameTokenType || n.LnBefore {
		return false
	}
	switch n.Text {
	case "type", "var", "let", "const", "function":
		return true
	}
	return false
}

func (p *Parser) flowParseDeclare() (*common.Mapping, error) {
	start := p.cur().Span.Start
	p.next()
	switch t := p.cur(); t.Text {
	case "type":
		node := p.startNodeAt("DeclareTypeAlias", start)
		p.next()
		return p.flowParseTypeAlias(node)

	case "var", "let", "const":
		node := p.startNodeAt("DeclareVariable", start)
		p.next()
		id, err := p.parseIdentifier(false)
		if err != nil {
			return nil, err
		}
		if p.is(":") {
			annotation, err := p.flowParseTypeAnnotation()
			if err != nil {
				return nil, err
			}
			id.Set("typeAnnotation", annotation)
			p.finish(id)
		}
		node.Set("id", id)
		if err := p.semicolon(); err != nil {
			return nil, err
		}
		return p.finish(node), nil

	case "function":
		node := p.startNodeAt("DeclareFunction", start)
		p.next()
		id, err := p.parseIdentifier(false)
		if err != nil {
			return nil, err
		}
		container := p.startNode("TypeAnnotation")
		signature, err := p.flowParseObjectTypeMethodish(p.startNode("FunctionTypeAnnotation"))
		if err != nil {
			return nil, err
		}
		container.Set("typeAnnotation", signature)
		id.Set("typeAnnotation", p.finish(container))
		p.finish(id)
		node.Set("id", id)
		node.Set("predicate", common.Null{})
		if err := p.semicolon(); err != nil {
			return nil, err
		}
		return p.finish(node), nil
	}
	return nil, p.unexpected()
}
