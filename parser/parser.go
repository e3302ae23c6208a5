// Package parser builds an ast.Program from a token stream by recursive
// descent with one token of lookahead.
//
// Every missing token or construct is reported to the diag.Sink. Whether
// parsing then stops or continues with a nil node depends on the sink's
// policy. Expression nesting is limited only by the goroutine stack.
package parser

import (
	"github.com/gosuda/variant/ast"
	"github.com/gosuda/variant/diag"
	"github.com/gosuda/variant/lexer"
)

// hollowIdentifier stands in for a name the source did not provide.
const hollowIdentifier = "identifier_is_hollow"

var dataTypes = map[lexer.Kind]ast.DataType{
	lexer.Int:       ast.Int,
	lexer.String:    ast.String,
	lexer.File:      ast.File,
	lexer.Directory: ast.Directory,
}

var comparisonOps = map[lexer.Kind]string{
	lexer.Equals:         "==",
	lexer.NotEquals:      "!=",
	lexer.Greater:        ">",
	lexer.GreaterOrEqual: ">=",
	lexer.Lesser:         "<",
	lexer.LesserOrEqual:  "<=",
}

var additionOps = map[lexer.Kind]string{
	lexer.Plus:  "+",
	lexer.Minus: "-",
}

var multiplicationOps = map[lexer.Kind]string{
	lexer.Multiplication: "*",
	lexer.Division:       "/",
	lexer.Modulo:         "%",
}

// objectKeywords may start a value getter as the constructor of that type.
var objectKeywords = map[lexer.Kind]string{
	lexer.File:      "File",
	lexer.Directory: "Directory",
}

type Parser struct {
	lx   *lexer.Lexer
	sink *diag.Sink
	tok  lexer.Token
	prog *ast.Program
}

func New(lx *lexer.Lexer, sink *diag.Sink) *Parser {
	return &Parser{lx: lx, sink: sink}
}

// ParseString parses a whole script held in memory.
func ParseString(src string, sink *diag.Sink) (*ast.Program, error) {
	return New(lexer.New(lexer.NewStringSource(src), sink), sink).Parse()
}

// Parse consumes the token stream up to EOF. A diagnostic that aborts
// parsing is returned as a *diag.Error and the program is discarded.
func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer diag.Recover(&err)
	p.prog = ast.NewProgram()
	p.next()
	for p.parseDllLoad() || p.parseFunctionDefinition() {
	}
	if !p.is(lexer.EOF) {
		p.sink.Desynchronized(p.tok.Line, p.tok.Column, p.tok.Kind.String())
	}
	return p.prog, nil
}

func (p *Parser) next() {
	p.tok = p.lx.Next()
}

func (p *Parser) is(k lexer.Kind) bool {
	return p.tok.Kind == k
}

func (p *Parser) consume(k lexer.Kind) bool {
	if !p.is(k) {
		return false
	}
	p.next()
	return true
}

func (p *Parser) pos() ast.Pos {
	return ast.Pos{Line: p.tok.Line, Column: p.tok.Column}
}

func (p *Parser) expect(k lexer.Kind) {
	if !p.consume(k) {
		p.sink.UnexpectedToken(p.tok.Line, p.tok.Column, k.String(), p.tok.Kind.String())
	}
}

func (p *Parser) missing(what string) {
	p.sink.UnexpectStatement(p.tok.Line, p.tok.Column, what, p.tok.Kind.String())
}

// identifier reads a name, consuming the current token even when it is not
// an identifier.
func (p *Parser) identifier() string {
	if !p.is(lexer.Identifier) {
		p.sink.UnexpectedToken(p.tok.Line, p.tok.Column, lexer.Identifier.String(), p.tok.Kind.String())
	}
	name := p.tok.Text
	if !p.is(lexer.Identifier) || name == "" {
		p.sink.IdentifierIsNull(p.tok.Line, p.tok.Column)
		name = hollowIdentifier
	}
	p.next()
	return name
}

func (p *Parser) dataType() (ast.DataType, bool) {
	t, ok := dataTypes[p.tok.Kind]
	if ok {
		p.next()
	}
	return t, ok
}

// Top level

func (p *Parser) parseDllLoad() bool {
	pos := p.pos()
	if !p.consume(lexer.DllLoad) {
		return false
	}
	name := p.identifier()
	p.expect(lexer.Semicolon)
	p.prog.DllLoaders = append(p.prog.DllLoaders, ast.DllLoader{Pos: pos, Name: name})
	return true
}

func (p *Parser) parseFunctionDefinition() bool {
	pos := p.pos()
	ret, ok := p.dataType()
	if !ok {
		return false
	}
	fn := &ast.FunctionDefinition{Pos: pos, Name: p.identifier(), ReturnType: ret}
	p.expect(lexer.ParenthesesOpen)
	fn.Parameters = p.parseParameters()
	p.expect(lexer.ParenthesesClose)

	body, ok := p.parseBlock()
	if !ok {
		p.missing("block of statements")
	}
	fn.Body = body

	if !p.prog.Add(fn) {
		p.sink.FunctionNameAlreadyExists(pos.Line, pos.Column, fn.Name)
	}
	return true
}

func (p *Parser) parseParameters() []ast.Parameter {
	var params []ast.Parameter
	param, ok := p.parseParameter()
	if !ok {
		return params
	}
	params = append(params, param)
	for p.consume(lexer.Comma) {
		param, ok := p.parseParameter()
		if !ok {
			p.sink.MissingParameter(p.tok.Line, p.tok.Column)
			continue
		}
		params = append(params, param)
	}
	return params
}

func (p *Parser) parseParameter() (ast.Parameter, bool) {
	pos := p.pos()
	t, ok := p.dataType()
	if !ok {
		return ast.Parameter{}, false
	}
	return ast.Parameter{Pos: pos, Type: t, Name: p.identifier()}, true
}

// Statements

func (p *Parser) parseBlock() ([]ast.Instruction, bool) {
	if !p.consume(lexer.BracketsOpen) {
		return nil, false
	}
	body := []ast.Instruction{}
	for {
		in, ok := p.parseInstruction()
		if !ok {
			break
		}
		body = append(body, in)
	}
	p.expect(lexer.BracketsClose)
	return body, true
}

func (p *Parser) parseInstruction() (ast.Instruction, bool) {
	switch {
	case p.is(lexer.Foreach):
		return p.parseForeach(), true
	case p.is(lexer.If):
		return p.parseIf(), true
	case p.is(lexer.Return):
		return p.parseReturn(), true
	}
	if _, ok := dataTypes[p.tok.Kind]; ok {
		return p.parseDeclaration(), true
	}
	return p.parseExpressionOrAssignment()
}

func (p *Parser) parseDeclaration() ast.Instruction {
	pos := p.pos()
	t, _ := p.dataType()
	decl := ast.DeclaringVariable{Pos: pos, Type: t, Name: p.identifier()}
	if p.consume(lexer.Assign) {
		decl.Init = p.parseMathExpression()
		if decl.Init == nil {
			p.missing("expression")
		}
	}
	p.expect(lexer.Semicolon)
	return decl
}

func (p *Parser) parseForeach() ast.Instruction {
	loop := ast.ForeachLoop{Pos: p.pos()}
	p.next()
	p.expect(lexer.ParenthesesOpen)

	t, ok := p.dataType()
	if !ok {
		p.missing("data type")
		p.next()
	}
	loop.ElementType = t
	loop.Name = p.identifier()
	p.expect(lexer.In)

	loop.Iterable = p.parseMathExpression()
	if loop.Iterable == nil {
		p.missing("expression")
	}
	p.expect(lexer.ParenthesesClose)

	body, ok := p.parseBlock()
	if !ok {
		p.missing("block of statements")
	}
	loop.Body = body
	return loop
}

func (p *Parser) parseIf() ast.Instruction {
	stmt := ast.IfOrIfElse{Pos: p.pos()}
	p.next()
	p.expect(lexer.ParenthesesOpen)
	stmt.Cond = p.parseLogicalExpression()
	if stmt.Cond == nil {
		p.missing("logical expression")
	}
	p.expect(lexer.ParenthesesClose)

	then, ok := p.parseBlock()
	if !ok {
		p.missing("block of statements")
	}
	stmt.Then = then

	if p.consume(lexer.Else) {
		els, ok := p.parseBlock()
		if !ok {
			p.missing("block of statements")
		}
		stmt.Else = els
		stmt.HasElse = true
	}
	return stmt
}

func (p *Parser) parseReturn() ast.Instruction {
	ret := ast.Returning{Pos: p.pos()}
	p.next()
	ret.Expr = p.parseMathExpression()
	if ret.Expr == nil {
		p.missing("expression")
	}
	p.expect(lexer.Semicolon)
	return ret
}

func (p *Parser) parseExpressionOrAssignment() (ast.Instruction, bool) {
	pos := p.pos()
	expr := p.parseMathExpression()
	if expr == nil {
		return nil, false
	}
	if p.consume(lexer.Assign) {
		value := p.parseMathExpression()
		if value == nil {
			p.missing("expression")
		}
		p.expect(lexer.Semicolon)
		return ast.AssigningToMember{Pos: pos, Target: expr, Expr: value}, true
	}
	p.expect(lexer.Semicolon)
	return ast.ExpressionInstruction{Pos: pos, Expr: expr}, true
}

// Expressions, lowest precedence first. Each level returns its operand
// unchanged when no operator of that level follows.

func (p *Parser) parseLogicalExpression() ast.Expr {
	pos := p.pos()
	init := p.parseConjunction()
	if init == nil {
		return nil
	}
	var alts []ast.Expr
	for p.consume(lexer.Or) {
		e := p.parseConjunction()
		if e == nil {
			p.missing("condition")
		}
		alts = append(alts, e)
	}
	if len(alts) == 0 {
		return init
	}
	return ast.LogicalExpression{Pos: pos, Init: init, Alternatives: alts}
}

func (p *Parser) parseConjunction() ast.Expr {
	pos := p.pos()
	init := p.parseCondition()
	if init == nil {
		return nil
	}
	var conj []ast.Expr
	for p.consume(lexer.And) {
		e := p.parseCondition()
		if e == nil {
			p.missing("condition")
		}
		conj = append(conj, e)
	}
	if len(conj) == 0 {
		return init
	}
	return ast.ConditionConjunction{Pos: pos, Init: init, Conjunctions: conj}
}

func (p *Parser) parseCondition() ast.Expr {
	pos := p.pos()
	left := p.parseMathExpression()
	if left == nil {
		return nil
	}
	op, ok := comparisonOps[p.tok.Kind]
	if !ok {
		return left
	}
	p.next()
	right := p.parseMathExpression()
	if right == nil {
		p.missing("expression")
	}
	return ast.Condition{Pos: pos, Left: left, Op: op, Right: right}
}

func (p *Parser) parseMathExpression() ast.Expr {
	pos := p.pos()
	init := p.parseMathMultiplication()
	if init == nil {
		return nil
	}
	var ops []ast.Operation
	for {
		op, ok := additionOps[p.tok.Kind]
		if !ok {
			break
		}
		p.next()
		term := p.parseMathMultiplication()
		if term == nil {
			p.missing("value or multiplication")
		}
		ops = append(ops, ast.Operation{Op: op, Term: term})
	}
	if len(ops) == 0 {
		return init
	}
	return ast.MathExpression{Pos: pos, Init: init, Operations: ops}
}

func (p *Parser) parseMathMultiplication() ast.Expr {
	pos := p.pos()
	init := p.parseUnary()
	if init == nil {
		return nil
	}
	var ops []ast.Operation
	for {
		op, ok := multiplicationOps[p.tok.Kind]
		if !ok {
			break
		}
		p.next()
		term := p.parseUnary()
		if term == nil {
			p.missing("value or expression")
		}
		ops = append(ops, ast.Operation{Op: op, Term: term})
	}
	if len(ops) == 0 {
		return init
	}
	return ast.MathMultiplication{Pos: pos, Init: init, Operations: ops}
}

func (p *Parser) parseUnary() ast.Expr {
	pos := p.pos()
	negated := p.consume(lexer.Minus)
	v := p.parseIncrement()
	if v == nil {
		v = p.parseParenthesized()
	}
	if v == nil {
		if negated {
			p.missing("value or expression")
		}
		return nil
	}
	if negated {
		return ast.NegatedExpression{Pos: pos, Inner: v}
	}
	return v
}

func (p *Parser) parseParenthesized() ast.Expr {
	if !p.consume(lexer.ParenthesesOpen) {
		return nil
	}
	e := p.parseLogicalExpression()
	if e == nil {
		p.missing("logical expression")
	}
	p.expect(lexer.ParenthesesClose)
	return e
}

func (p *Parser) parseIncrement() ast.Expr {
	pos := p.pos()
	v := p.parseValue()
	if v == nil {
		return nil
	}
	if p.consume(lexer.Increment) {
		return ast.IncrementedExpression{Pos: pos, Inner: v}
	}
	return v
}

func (p *Parser) parseValue() ast.Expr {
	pos := p.pos()
	switch p.tok.Kind {
	case lexer.StringLiteral:
		s := p.tok.Text
		p.next()
		return ast.StringExpression{Pos: pos, Value: s}
	case lexer.IntLiteral:
		v := p.tok.Int
		p.next()
		return ast.IntExpression{Pos: pos, Value: v}
	}
	return p.parseValueGetter()
}

func (p *Parser) parseValueGetter() ast.Expr {
	pos := p.pos()
	first := p.parseSegment()
	if first == nil {
		return nil
	}
	chain := []ast.Expr{first}
	for p.consume(lexer.Dot) {
		seg := p.parseSegment()
		if seg == nil {
			p.missing("field access")
			continue
		}
		chain = append(chain, seg)
	}
	return ast.ValueGetter{Pos: pos, Chain: chain}
}

// parseSegment reads one name of a value getter, optionally followed by a
// call's argument list.
func (p *Parser) parseSegment() ast.Expr {
	pos := p.pos()
	var name string
	if p.is(lexer.Identifier) {
		name = p.identifier()
	} else if n, ok := objectKeywords[p.tok.Kind]; ok {
		name = n
		p.next()
	} else {
		return nil
	}

	if !p.consume(lexer.ParenthesesOpen) {
		return ast.Variable{Pos: pos, Name: name}
	}
	args := p.parseArguments()
	p.expect(lexer.ParenthesesClose)
	return ast.FunctionCall{Pos: pos, Name: name, Args: args}
}

func (p *Parser) parseArguments() []ast.Expr {
	args := []ast.Expr{}
	arg := p.parseMathExpression()
	if arg == nil {
		return args
	}
	args = append(args, arg)
	for p.consume(lexer.Comma) {
		arg := p.parseMathExpression()
		if arg == nil {
			p.missing("argument")
		}
		args = append(args, arg)
	}
	return args
}
