package parser

import (
	"github.com/spicery/jsast/pkg/common"
	"github.com/spicery/jsast/pkg/tokenizer"
)

// parseBindingList reads a bracketed list of binding elements: function
// parameters, or array pattern elements when allowHoles is set.
func (p *Parser) parseBindingList(open, close string, allowHoles bool) (common.Sequence, error) {
	if err := p.expect(open); err != nil {
		return nil, err
	}
	elements := common.Sequence{}
	err := p.nested(func() error {
		for !p.eat(close) {
			if allowHoles && p.eat(",") {
				elements = append(elements, common.Null{})
				continue
			}
			if p.is("...") {
				rest, err := p.parseRestBinding()
				if err != nil {
					return err
				}
				elements = append(elements, rest)
				return p.expect(close)
			}
			e, err := p.parseBindingElement()
			if err != nil {
				return err
			}
			elements = append(elements, e)
			if !p.is(close) {
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
	return elements, nil
}

func (p *Parser) parseRestBinding() (*common.Mapping, error) {
	node := p.startNode("RestElement")
	p.next()
	argument, err := p.parseBindingAtom()
	if err != nil {
		return nil, err
	}
	node.Set("argument", argument)
	if err := p.parseAssignableListItemTypes(node); err != nil {
		return nil, err
	}
	return p.finish(node), nil
}

// parseBindingElement reads a binding target with its optional Flow
// annotation and default value.
func (p *Parser) parseBindingElement() (*common.Mapping, error) {
	start := p.cur().Span.Start
	left, err := p.parseBindingAtom()
	if err != nil {
		return nil, err
	}
	if err := p.parseAssignableListItemTypes(left); err != nil {
		return nil, err
	}
	if !p.eat("=") {
		return left, nil
	}
	node := p.startNodeAt("AssignmentPattern", start)
	node.Set("left", left)
	right, err := p.parseMaybeAssign()
	if err != nil {
		return nil, err
	}
	node.Set("right", right)
	return p.finish(node), nil
}

// parseAssignableListItemTypes attaches `?` and `: T` to a binding and
// extends its location over them.
func (p *Parser) parseAssignableListItemTypes(node *common.Mapping) error {
	if !p.flow {
		return nil
	}
	changed := false
	if p.eat("?") {
		if node.Type() != "Identifier" {
			return p.raise(p.prevEnd(), "A binding pattern parameter cannot be optional in an implementation signature.")
		}
		node.Set("optional", common.Bool(true))
		changed = true
	}
	if p.is(":") {
		annotation, err := p.flowParseTypeAnnotation()
		if err != nil {
			return err
		}
		node.Set("typeAnnotation", annotation)
		changed = true
	}
	if changed {
		p.finish(node)
	}
	return nil
}

func (p *Parser) parseBindingAtom() (*common.Mapping, error) {
	switch {
	case p.is("["):
		node := p.startNode("ArrayPattern")
		elements, err := p.parseBindingList("[", "]", true)
		if err != nil {
			return nil, err
		}
		node.Set("elements", elements)
		return p.finish(node), nil
	case p.is("{"):
		return p.parseObjectPattern()
	}
	return p.parseIdentifier(false)
}

func (p *Parser) parseObjectPattern() (*common.Mapping, error) {
	node := p.startNode("ObjectPattern")
	p.next()
	properties := common.Sequence{}
	err := p.nested(func() error {
		for !p.eat("}") {
			if p.is("...") {
				rest, err := p.parseRestBinding()
				if err != nil {
					return err
				}
				properties = append(properties, rest)
				return p.expect("}")
			}
			prop := p.startNode("ObjectProperty")
			prop.Set("method", common.Bool(false))
			if err := p.parsePropertyName(prop); err != nil {
				return err
			}
			prop.Set("shorthand", common.Bool(false))
			if p.eat(":") {
				value, err := p.parseBindingElement()
				if err != nil {
					return err
				}
				prop.Set("value", value)
			} else {
				key := prop.Node("key")
				if prop.Flag("computed") || key.Type() != "Identifier" || tokenizer.Keywords[key.Str("name")] {
					return p.unexpected()
				}
				prop.Set("shorthand", common.Bool(true))
				value := p.cloneNode(key)
				if p.eat("=") {
					pattern := p.startNodeAt("AssignmentPattern", p.startOf(key))
					pattern.Set("left", value)
					right, err := p.parseMaybeAssign()
					if err != nil {
						return err
					}
					pattern.Set("right", right)
					value = p.finish(pattern)
				}
				prop.Set("value", value)
			}
			properties = append(properties, p.finish(prop))
			if !p.is("}") {
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
	node.Set("properties", properties)
	return p.finish(node), nil
}

// toAssignable rewrites an expression parsed ahead of an `=` into the
// pattern it denotes.
func (p *Parser) toAssignable(node *common.Mapping) error {
	switch node.Type() {
	case "Identifier", "MemberExpression", "ObjectPattern", "ArrayPattern", "AssignmentPattern", "RestElement":
		return nil

	case "ObjectExpression":
		node.Set("type", common.String("ObjectPattern"))
		for i, prop := range node.List("properties") {
			switch prop.Type() {
			case "ObjectMethod":
				return p.raise(p.startOf(prop), "Object pattern can't contain getter or setter")
			case "SpreadElement":
				if i != len(node.List("properties"))-1 {
					return p.raise(p.startOf(prop), "The rest element has to be the last element when destructuring")
				}
				prop.Set("type", common.String("RestElement"))
				if err := p.toAssignable(prop.Node("argument")); err != nil {
					return err
				}
			default:
				if err := p.toAssignable(prop.Node("value")); err != nil {
					return err
				}
			}
		}
		return nil

	case "ArrayExpression":
		node.Set("type", common.String("ArrayPattern"))
		elements := node.List("elements")
		for i, e := range elements {
			if e == nil {
				continue
			}
			if e.Type() == "SpreadElement" {
				if i != len(elements)-1 {
					return p.raise(p.startOf(e), "The rest element has to be the last element when destructuring")
				}
				e.Set("type", common.String("RestElement"))
				e = e.Node("argument")
			}
			if err := p.toAssignable(e); err != nil {
				return err
			}
		}
		return nil

	case "AssignmentExpression":
		if node.Str("operator") != "=" {
			return p.raise(p.endOf(node.Node("left")), "Only '=' operator can be used for specifying default value.")
		}
		node.Set("type", common.String("AssignmentPattern"))
		node.Delete("operator")
		return p.toAssignable(node.Node("left"))
	}
	return p.raise(p.startOf(node), "Assigning to rvalue")
}

// checkSimpleTarget accepts only identifiers and member expressions, the
// targets of compound assignment and update operators.
func (p *Parser) checkSimpleTarget(node *common.Mapping, context string) error {
	switch node.Type() {
	case "Identifier", "MemberExpression":
		return nil
	}
	return p.raise(p.startOf(node), "Invalid left-hand side in %s", context)
}
