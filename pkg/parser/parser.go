// Package parser reads JavaScript, optionally with Flow type annotations,
// into Babel-shaped syntax trees built from common.Mapping nodes.
package parser

import (
	"fmt"

	"github.com/spicery/jsast/pkg/common"
	"github.com/spicery/jsast/pkg/tokenizer"
)

type SyntaxError = tokenizer.SyntaxError

type Token = tokenizer.Token

// Parser is a recursive-descent parser over a fully tokenized input. Every
// parse method leaves the parser positioned on the first token it did not
// consume.
type Parser struct {
	tokens   []*Token
	comments []*tokenizer.Comment
	pos      int
	starts   map[*common.Mapping]common.Position
	dialect  Dialect
	flow     bool
	module   bool

	inFunction  bool
	inGenerator bool
	inAsync     bool
	noIn        bool

	// inConsequent is set while parsing the middle operand of a
	// conditional, where `(a) : b => c` must not be read as an arrow with
	// a return type.
	inConsequent bool
	// noAnonFunctionType stops `T => U` from being read as a function
	// type inside an arrow's return type.
	noAnonFunctionType bool
	// patternDepth counts enclosing array and object literals, which may
	// yet turn out to be assignment patterns.
	patternDepth int
	coverInit    *Token
}

// state is the part of the parser that speculative parsing must restore.
type state struct {
	pos          int
	noIn         bool
	patternDepth int
	coverInit    *Token
}

func (p *Parser) snapshot() state {
	return state{pos: p.pos, noIn: p.noIn, patternDepth: p.patternDepth, coverInit: p.coverInit}
}

func (p *Parser) restore(s state) {
	p.pos = s.pos
	p.noIn = s.noIn
	p.patternDepth = s.patternDepth
	p.coverInit = s.coverInit
}

// Parse reads a complete source text and returns its File node.
func Parse(src string, dialect Dialect) (*common.Mapping, error) {
	if err := dialect.Validate(); err != nil {
		return nil, err
	}
	t := tokenizer.NewTokenizer(src)
	t.Strict = dialect.SourceType == SourceTypeModule
	tokens, err := t.Tokenize()
	if err != nil {
		return nil, err
	}
	p := NewParserFromTokens(tokens, t.Comments(), dialect)
	file, err := p.ParseFile()
	if err != nil {
		return nil, err
	}
	return file, nil
}

// ParseExpression reads a source text holding a single expression.
func ParseExpression(src string, dialect Dialect) (*common.Mapping, error) {
	if err := dialect.Validate(); err != nil {
		return nil, err
	}
	t := tokenizer.NewTokenizer(src)
	t.Strict = dialect.SourceType == SourceTypeModule
	tokens, err := t.Tokenize()
	if err != nil {
		return nil, err
	}
	p := NewParserFromTokens(tokens, t.Comments(), dialect)
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.unexpected()
	}
	return expr, nil
}

func NewParserFromTokens(tokens []*Token, comments []*tokenizer.Comment, dialect Dialect) *Parser {
	return &Parser{
		tokens:   tokens,
		comments: comments,
		starts:   map[*common.Mapping]common.Position{},
		dialect:  dialect,
		flow:     dialect.HasPlugin(PluginFlow),
		module:   dialect.SourceType == SourceTypeModule,
	}
}

// ParseFile parses the whole token stream into a File node and attaches
// comments to the nodes around them.
func (p *Parser) ParseFile() (*common.Mapping, error) {
	origin := common.Position{Offset: 0, Line: 1, Column: 0}
	file := p.startNodeAt("File", origin)
	program := p.startNodeAt("Program", origin)
	program.Set("sourceType", common.String(p.dialect.SourceType))
	body, directives, err := p.parseBlockBody(true, true)
	if err != nil {
		return nil, err
	}
	program.Set("body", body)
	program.Set("directives", directives)

	end := p.cur().Span.Start
	file.Set("program", p.finishAt(program, end))
	comments := common.Sequence{}
	for _, c := range p.comments {
		comments = append(comments, commentNode(c))
	}
	file.Set("comments", comments)
	p.finishAt(file, end)

	attachComments(file, p.comments)
	return file, nil
}

// Token navigation.

func (p *Parser) cur() *Token {
	return p.tokens[p.pos]
}

// peek returns the token n places after the current one, or the EOF token.
func (p *Parser) peek(n int) *Token {
	if p.pos+n < len(p.tokens) {
		return p.tokens[p.pos+n]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) next() *Token {
	t := p.cur()
	if t.Type != tokenizer.EOFTokenType {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool {
	return p.cur().Type == tokenizer.EOFTokenType
}

func (p *Parser) is(text string) bool {
	return p.cur().Is(text)
}

func (p *Parser) isName(text string) bool {
	return p.cur().IsName(text)
}

func (p *Parser) eat(text string) bool {
	if p.is(text) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) eatName(text string) bool {
	if p.isName(text) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(text string) error {
	if p.eat(text) {
		return nil
	}
	return p.raise(p.cur().Span.Start, "Unexpected token, expected %s", text)
}

func (p *Parser) expectName(text string) error {
	if p.eatName(text) {
		return nil
	}
	return p.raise(p.cur().Span.Start, "Unexpected token, expected %s", text)
}

// prevEnd is the end of the last consumed token.
func (p *Parser) prevEnd() common.Position {
	if p.pos == 0 {
		return p.cur().Span.Start
	}
	return p.tokens[p.pos-1].Span.End
}

// canInsertSemicolon reports whether automatic semicolon insertion applies
// at the current token.
func (p *Parser) canInsertSemicolon() bool {
	return p.atEOF() || p.is("}") || p.cur().LnBefore
}

func (p *Parser) semicolon() error {
	if p.eat(";") || p.canInsertSemicolon() {
		return nil
	}
	return p.raise(p.cur().Span.Start, "Unexpected token, expected ;")
}

// splitGreater breaks a token such as ">>" at the current position into
// ">" and the remainder, for closing nested type arguments.
func (p *Parser) splitGreater() {
	t := p.cur()
	if t.Type != tokenizer.PunctuatorTokenType || len(t.Text) < 2 || t.Text[0] != '>' {
		return
	}
	mid := t.Span.Start
	mid.Offset++
	mid.Column++
	first := *t
	first.Text = ">"
	first.Span = common.Span{Start: t.Span.Start, End: mid}
	rest := *t
	rest.Text = t.Text[1:]
	rest.Span = common.Span{Start: mid, End: t.Span.End}
	rest.LnBefore = false

	tokens := make([]*Token, 0, len(p.tokens)+1)
	tokens = append(tokens, p.tokens[:p.pos]...)
	tokens = append(tokens, &first, &rest)
	tokens = append(tokens, p.tokens[p.pos+1:]...)
	p.tokens = tokens
}

func (p *Parser) expectGreater() error {
	p.splitGreater()
	return p.expect(">")
}

// Errors.

func (p *Parser) raise(pos common.Position, format string, args ...any) error {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Position: pos}
}

func (p *Parser) unexpected() error {
	return p.raise(p.cur().Span.Start, "Unexpected token")
}

// Node construction.

func (p *Parser) startNode(nodeType string) *common.Mapping {
	return p.startNodeAt(nodeType, p.cur().Span.Start)
}

// startNodeAt creates a node whose location fields come straight after
// "type", so that later fields keep source order behind them.
func (p *Parser) startNodeAt(nodeType string, start common.Position) *common.Mapping {
	node := common.NewNode(nodeType)
	common.SetLocation(node, common.Span{Start: start, End: start})
	p.starts[node] = start
	return node
}

func (p *Parser) startOf(node *common.Mapping) common.Position {
	if start, ok := p.starts[node]; ok {
		return start
	}
	return p.cur().Span.Start
}

func (p *Parser) finish(node *common.Mapping) *common.Mapping {
	return p.finishAt(node, p.prevEnd())
}

func (p *Parser) finishAt(node *common.Mapping, end common.Position) *common.Mapping {
	common.SetLocation(node, common.Span{Start: p.startOf(node), End: end})
	return node
}

func (p *Parser) endOf(node *common.Mapping) common.Position {
	loc := node.Node("loc")
	if loc == nil {
		return p.prevEnd()
	}
	end := loc.Node("end")
	return common.Position{
		Offset: int(node.Num("end")),
		Line:   int(end.Num("line")),
		Column: int(end.Num("column")),
	}
}

// cloneNode copies a node and registers the copy's start.
func (p *Parser) cloneNode(node *common.Mapping) *common.Mapping {
	c := common.Clone(node).(*common.Mapping)
	p.starts[c] = p.startOf(node)
	return c
}

// addExtra records a field under the node's "extra" mapping.
func addExtra(node *common.Mapping, key string, value common.Value) {
	extra := node.Node("extra")
	if extra == nil {
		extra = common.NewMapping()
		node.Set("extra", extra)
	}
	extra.Set(key, value)
}

func isParenthesized(node *common.Mapping) bool {
	extra := node.Node("extra")
	return extra != nil && extra.Flag("parenthesized")
}

func nullable(node *common.Mapping) common.Value {
	if node == nil {
		return common.Null{}
	}
	return node
}

func commentNode(c *tokenizer.Comment) *common.Mapping {
	nodeType := "CommentLine"
	if c.Block {
		nodeType = "CommentBlock"
	}
	node := common.NewNode(nodeType)
	node.Set("value", common.String(c.Value))
	common.SetLocation(node, c.Span)
	return node
}
