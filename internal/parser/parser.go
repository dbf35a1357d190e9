package parser

import (
	"errors"
	"fmt"

	"github.com/hajdbo/jqsh/internal/ast"
	"github.com/hajdbo/jqsh/internal/lexer"
	"github.com/hajdbo/jqsh/internal/token"
)

// Operator precedence, loosest binding first. The dot operator and
// juxtaposition are handled below expression level, so they do not
// appear here.
const (
	_ int = iota
	LOWEST
	SEQUENCE // ;
	BINDING  // =
	PIPELINE // |
	ELEMENTS // ,
	PAIRING  // :
	SUM      // +
	PRODUCT  // *
)

var precedences = map[token.Type]int{
	token.SEMICOLON: SEQUENCE,
	token.ASSIGN:    BINDING,
	token.PIPE:      PIPELINE,
	token.COMMA:     ELEMENTS,
	token.COLON:     PAIRING,
	token.PLUS:      SUM,
	token.ASTERISK:  PRODUCT,
}

// TokenSource yields one token per call, ending with EOF.
type TokenSource interface {
	NextToken() token.Token
}

type Parser struct {
	source TokenSource

	curToken  token.Token
	peekToken token.Token

	errors []error
}

func New(source TokenSource) *Parser {
	p := &Parser{source: source}
	// Read two tokens, so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()
	return p
}

// Parse turns source text into a filter tree. Whitespace-only input is
// the empty filter.
func Parse(input string) (ast.Filter, error) {
	return New(lexer.New(input)).ParseFilter()
}

// ParseTokens parses an already-lexed token stream, as produced by the
// tokenization stage.
func ParseTokens(toks []token.Token) (ast.Filter, error) {
	return New(&tokenBuffer{toks: toks}).ParseFilter()
}

// tokenBuffer replays a buffered token stream.
type tokenBuffer struct {
	toks []token.Token
	pos  int
}

func (b *tokenBuffer) NextToken() token.Token {
	if b.pos >= len(b.toks) {
		return token.Token{Type: token.EOF}
	}
	tok := b.toks[b.pos]
	b.pos++
	return tok
}

func (p *Parser) ParseFilter() (ast.Filter, error) {
	if p.curTokenIs(token.EOF) {
		return ast.Empty{}, nil
	}
	f := p.parseExpression(LOWEST)
	if len(p.errors) == 0 && !p.peekTokenIs(token.EOF) {
		p.errorf("unexpected token %q", p.peekToken.Lexeme)
	}
	if len(p.errors) > 0 {
		return nil, errors.Join(p.errors...)
	}
	return f, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.source.NextToken()
	for p.peekToken.Type == token.COMMENT {
		p.peekToken = p.source.NextToken()
	}
	if p.peekToken.Type == token.ILLEGAL {
		p.errorf("illegal character %q", p.peekToken.Lexeme)
	}
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf("expected %q, got %q", string(t), p.peekToken.Lexeme)
	return false
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Errorf("%d:%d: "+format,
		append([]any{p.peekToken.Line, p.peekToken.Column}, args...)...))
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) parseExpression(precedence int) ast.Filter {
	left := p.parseOperand()
	for precedence < p.peekPrecedence() {
		p.nextToken()
		left = p.parseInfix(left)
	}
	return left
}

func (p *Parser) parseInfix(left ast.Filter) ast.Filter {
	op := p.curToken.Type
	prec := precedences[op]
	var right ast.Filter = ast.Empty{}
	if p.peekStartsOperand() {
		p.nextToken()
		right = p.parseExpression(prec)
	}
	switch op {
	case token.SEMICOLON:
		return &ast.Semicolon{Left: left, Right: right}
	case token.ASSIGN:
		return &ast.Assign{Left: left, Right: right}
	case token.PIPE:
		return &ast.Pipe{Left: left, Right: right}
	case token.COMMA:
		return &ast.Comma{Left: left, Right: right}
	case token.COLON:
		return &ast.Pair{Left: left, Right: right}
	case token.PLUS:
		return &ast.Add{Left: left, Right: right}
	case token.ASTERISK:
		return &ast.Multiply{Left: left, Right: right}
	}
	p.errorf("unknown operator %q", p.curToken.Lexeme)
	return left
}

// parseOperand parses one operand of a binary operator: a dotted unit,
// or a juxtaposed run of dotted units forming a variadic call
// (builtin or command application).
func (p *Parser) parseOperand() ast.Filter {
	first := p.parseDotted()
	if !p.peekStartsOperand() {
		return first
	}
	operands := []ast.Filter{first}
	for p.peekStartsOperand() {
		p.nextToken()
		operands = append(operands, p.parseDotted())
	}
	return ast.NewApplyCall(operands...)
}

// parseDotted parses a unary unit optionally chained with dots. A dot
// with a missing side gets the empty filter there: "." alone is
// identity, ".key" indexes the input.
func (p *Parser) parseDotted() ast.Filter {
	var left ast.Filter
	if p.curTokenIs(token.DOT) {
		left = ast.Empty{}
	} else {
		left = p.parseUnary()
		if !p.peekTokenIs(token.DOT) {
			return left
		}
		p.nextToken()
	}
	// curToken is the dot
	for {
		var right ast.Filter = ast.Empty{}
		if p.peekStartsUnary() {
			p.nextToken()
			right = p.parseUnary()
		}
		left = ast.NewApplyDot(left, right)
		if !p.peekTokenIs(token.DOT) {
			return left
		}
		p.nextToken()
	}
}

func (p *Parser) parseUnary() ast.Filter {
	switch p.curToken.Type {
	case token.BANG:
		if !p.peekStartsUnary() {
			p.errorf("expected command name after %q", "!")
			return ast.Empty{}
		}
		p.nextToken()
		return &ast.Command{Child: p.parseUnary()}
	case token.DOLLAR:
		if !p.peekStartsUnary() {
			p.errorf("expected variable name after %q", "$")
			return ast.Empty{}
		}
		p.nextToken()
		return &ast.GlobalVariable{Child: p.parseUnary()}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Filter {
	switch p.curToken.Type {
	case token.NUMBER:
		return &ast.NumberLiteral{Digits: p.curToken.Literal}
	case token.STRING:
		return &ast.StringLiteral{Text: p.curToken.Literal}
	case token.NAME:
		return &ast.Name{Name: p.curToken.Literal}
	case token.LPAREN:
		return &ast.Parens{Child: p.parseGroup(token.RPAREN)}
	case token.LBRACKET:
		return &ast.ArrayLiteral{Child: p.parseGroup(token.RBRACKET)}
	case token.LBRACE:
		return &ast.ObjectLiteral{Child: p.parseGroup(token.RBRACE)}
	case token.IF:
		return p.parseConditional()
	case token.TRY:
		return p.parseTry()
	}
	p.errorf("unexpected token %q", p.curToken.Lexeme)
	return ast.Empty{}
}

func (p *Parser) parseGroup(closing token.Type) ast.Filter {
	if p.peekTokenIs(closing) {
		p.nextToken()
		return ast.Empty{}
	}
	p.nextToken()
	child := p.parseExpression(LOWEST)
	p.expectPeek(closing)
	return child
}

// parseClauseBody parses the filter of one clause, which may be empty
// when the next keyword follows immediately.
func (p *Parser) parseClauseBody(stops ...token.Type) ast.Filter {
	for _, s := range stops {
		if p.peekTokenIs(s) {
			return ast.Empty{}
		}
	}
	p.nextToken()
	return p.parseExpression(LOWEST)
}

func (p *Parser) parseConditional() ast.Filter {
	var clauses []ast.Clause
	keyword := "if"
	for {
		cond := p.parseClauseBody(token.THEN)
		clauses = append(clauses, ast.Clause{Keyword: keyword, Body: cond})
		if !p.expectPeek(token.THEN) {
			return ast.Empty{}
		}
		body := p.parseClauseBody(token.ELIF, token.ELSE, token.END)
		clauses = append(clauses, ast.Clause{Keyword: "then", Body: body})
		if p.peekTokenIs(token.ELIF) {
			p.nextToken()
			keyword = "elif"
			continue
		}
		break
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		clauses = append(clauses, ast.Clause{Keyword: "else", Body: p.parseClauseBody(token.END)})
	}
	if !p.expectPeek(token.END) {
		return ast.Empty{}
	}
	return &ast.Conditional{Clauses: clauses}
}

func (p *Parser) parseTry() ast.Filter {
	clauses := []ast.Clause{{
		Keyword: "try",
		Body:    p.parseClauseBody(token.CATCH, token.EXCEPT, token.ELSE, token.END),
	}}
	for p.peekTokenIs(token.CATCH) {
		p.nextToken()
		clauses = append(clauses, ast.Clause{Keyword: "catch", Body: p.parseClauseBody(token.THEN, token.CATCH)})
		if p.peekTokenIs(token.CATCH) {
			continue
		}
		if !p.expectPeek(token.THEN) {
			return ast.Empty{}
		}
		clauses = append(clauses, ast.Clause{
			Keyword: "then",
			Body:    p.parseClauseBody(token.CATCH, token.EXCEPT, token.ELSE, token.END),
		})
	}
	if p.peekTokenIs(token.EXCEPT) {
		p.nextToken()
		clauses = append(clauses, ast.Clause{Keyword: "except", Body: p.parseClauseBody(token.ELSE, token.END)})
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		clauses = append(clauses, ast.Clause{Keyword: "else", Body: p.parseClauseBody(token.END)})
	}
	if !p.expectPeek(token.END) {
		return ast.Empty{}
	}
	return &ast.Try{Clauses: clauses}
}

func (p *Parser) peekStartsOperand() bool {
	return p.peekStartsUnary() || p.peekTokenIs(token.DOT)
}

func (p *Parser) peekStartsUnary() bool {
	switch p.peekToken.Type {
	case token.NUMBER, token.STRING, token.NAME, token.LPAREN, token.LBRACKET,
		token.LBRACE, token.IF, token.TRY, token.BANG, token.DOLLAR:
		return true
	}
	return false
}
