// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package parser builds Lamina syntax trees from scanned tokens.
//
// Expressions are parsed by precedence climbing. Binding power, from highest
// to lowest: call, index and field access; prefix - + !; ^ (right
// associative); postfix !; * / %; + -; < > <= >=; == !=; &&; ||; assignment
// (right associative).
package parser

import (
	"nickandperla.net/lamina/internal/ast"
	"nickandperla.net/lamina/internal/diag"
	"nickandperla.net/lamina/internal/scanner"
	"nickandperla.net/lamina/internal/token"
)

const (
	lowest = iota
	assignPrec
	orPrec
	andPrec
	equalityPrec
	relationalPrec
	sumPrec
	productPrec
	factorialPrec
	powerPrec
	prefixPrec
	callPrec
)

// maxNesting bounds expression and block nesting so hostile input cannot
// exhaust the Go stack.
const maxNesting = 1000

var infixPrec = map[token.Token]int{
	token.ASSIGN:   assignPrec,
	token.OR:       orPrec,
	token.AND:      andPrec,
	token.EQ:       equalityPrec,
	token.NEQ:      equalityPrec,
	token.LT:       relationalPrec,
	token.GT:       relationalPrec,
	token.LTE:      relationalPrec,
	token.GTE:      relationalPrec,
	token.PLUS:     sumPrec,
	token.MINUS:    sumPrec,
	token.STAR:     productPrec,
	token.SLASH:    productPrec,
	token.PERCENT:  productPrec,
	token.BANG:     factorialPrec,
	token.CARET:    powerPrec,
	token.LPAREN:   callPrec,
	token.LBRACKET: callPrec,
	token.DOT:      callPrec,
}

// Parser consumes a token slice produced by scanner.Tokenize.
type Parser struct {
	items     []token.Item
	pos       int
	loopDepth int
	funcDepth int
	nesting   int
}

// New creates a parser over items, which must end with an EOF item.
func New(items []token.Item) *Parser {
	if len(items) == 0 || items[len(items)-1].Token != token.EOF {
		var pos token.Pos
		if len(items) > 0 {
			pos = items[len(items)-1].Pos
		}
		items = append(items, token.Item{Token: token.EOF, Pos: pos})
	}
	return &Parser{items: items}
}

// Parse parses a complete program.
func Parse(items []token.Item) (*ast.Block, error) {
	return New(items).ParseProgram()
}

// ParseString scans and parses src.
func ParseString(src string) (*ast.Block, error) {
	items, err := scanner.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(items)
}

// ParseExpression parses a single expression with an optional trailing
// semicolon.
func ParseExpression(items []token.Item) (ast.Expr, error) {
	p := New(items)
	x, err := p.parseExpr(lowest)
	if err != nil {
		return nil, err
	}
	p.accept(token.SEMICOLON)
	if p.peek().Token != token.EOF {
		return nil, p.unexpected(p.peek(), "end of expression")
	}
	return x, nil
}

// ParseExpressionString scans src and parses it as a single expression.
func ParseExpressionString(src string) (ast.Expr, error) {
	items, err := scanner.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseExpression(items)
}

// ParseProgram parses statements until end of input.
func (p *Parser) ParseProgram() (*ast.Block, error) {
	prog := &ast.Block{P: p.peek().Pos}
	for {
		p.skipSemicolons()
		if p.peek().Token == token.EOF {
			return prog, nil
		}
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, st)
	}
}

func (p *Parser) peek() token.Item { return p.items[p.pos] }

func (p *Parser) peekAt(n int) token.Item {
	if p.pos+n < len(p.items) {
		return p.items[p.pos+n]
	}
	return p.items[len(p.items)-1]
}

func (p *Parser) next() token.Item {
	it := p.items[p.pos]
	if it.Token != token.EOF {
		p.pos++
	}
	return it
}

func (p *Parser) accept(t token.Token) bool {
	if p.peek().Token == t {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(t token.Token) (token.Item, error) {
	it := p.peek()
	if it.Token != t {
		want := "'" + t.String() + "'"
		if t == token.IDENT {
			want = "identifier"
		}
		return it, p.unexpected(it, want)
	}
	return p.next(), nil
}

func (p *Parser) unexpected(it token.Item, want string) error {
	return diag.At(diag.ParseError, it.Pos.Line, it.Pos.Col, "unexpected %s, expected %s", it, want)
}

func (p *Parser) errorf(pos token.Pos, format string, args ...any) error {
	return diag.At(diag.ParseError, pos.Line, pos.Col, format, args...)
}

func (p *Parser) skipSemicolons() {
	for p.accept(token.SEMICOLON) {
	}
}

// terminator ends a simple statement. The semicolon may be omitted before a
// closing brace or at end of input.
func (p *Parser) terminator() error {
	switch p.peek().Token {
	case token.SEMICOLON:
		p.next()
		return nil
	case token.RBRACE, token.EOF:
		return nil
	}
	return p.unexpected(p.peek(), "';'")
}

func (p *Parser) enter(pos token.Pos) error {
	p.nesting++
	if p.nesting > maxNesting {
		return p.errorf(pos, "nesting exceeds %d levels", maxNesting)
	}
	return nil
}

func (p *Parser) leave() { p.nesting-- }
