// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package parser

import (
	"nickandperla.net/lamina/internal/ast"
	"nickandperla.net/lamina/internal/token"
)

// parseExpr parses an expression whose operators bind tighter than prec.
func (p *Parser) parseExpr(prec int) (ast.Expr, error) {
	if err := p.enter(p.peek().Pos); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		opPrec, ok := infixPrec[op.Token]
		if !ok || opPrec <= prec {
			return left, nil
		}
		if left, err = p.parseInfix(left, op, opPrec); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parsePrefix() (ast.Expr, error) {
	it := p.peek()
	switch it.Token {
	case token.INT:
		p.next()
		return &ast.IntLit{Lit: it.Value, P: it.Pos}, nil
	case token.DECIMAL:
		p.next()
		return &ast.DecimalLit{Lit: it.Value, P: it.Pos}, nil
	case token.STRING:
		p.next()
		return &ast.StringLit{Value: it.Value, P: it.Pos}, nil
	case token.TRUE, token.FALSE:
		p.next()
		return &ast.BoolLit{Value: it.Token == token.TRUE, P: it.Pos}, nil
	case token.NULL:
		p.next()
		return &ast.NullLit{P: it.Pos}, nil
	case token.IDENT:
		p.next()
		return &ast.Ident{Name: it.Value, P: it.Pos}, nil
	case token.MINUS, token.PLUS, token.BANG:
		p.next()
		x, err := p.parseExpr(prefixPrec)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: it.Token, X: x, P: it.Pos}, nil
	case token.LPAREN:
		p.next()
		x, err := p.parseExpr(lowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return x, nil
	case token.LBRACKET:
		p.next()
		elems, err := p.parseList(token.RBRACKET)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayLit{Elems: elems, P: it.Pos}, nil
	case token.LBRACE:
		return p.parseStructLit()
	case token.FUNC:
		return p.parseFuncLit()
	}
	return nil, p.unexpected(it, "expression")
}

func (p *Parser) parseInfix(left ast.Expr, op token.Item, prec int) (ast.Expr, error) {
	p.next()
	switch op.Token {
	case token.BANG:
		return &ast.Factorial{X: left, P: op.Pos}, nil
	case token.LPAREN:
		args, err := p.parseList(token.RPAREN)
		if err != nil {
			return nil, err
		}
		return &ast.Call{Fn: left, Args: args, P: op.Pos}, nil
	case token.LBRACKET:
		idx, err := p.parseExpr(lowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		return &ast.Index{X: left, Index: idx, P: op.Pos}, nil
	case token.DOT:
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		return &ast.Field{X: left, Name: name.Value, P: op.Pos}, nil
	case token.ASSIGN:
		switch left.(type) {
		case *ast.Ident, *ast.Index, *ast.Field:
		default:
			return nil, p.errorf(op.Pos, "cannot assign to %s", left)
		}
		// Right associative: a = b = c.
		val, err := p.parseExpr(prec - 1)
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Target: left, Value: val, P: op.Pos}, nil
	case token.CARET:
		right, err := p.parseExpr(prec - 1)
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: op.Token, L: left, R: right, P: op.Pos}, nil
	}
	right, err := p.parseExpr(prec)
	if err != nil {
		return nil, err
	}
	return &ast.Binary{Op: op.Token, L: left, R: right, P: op.Pos}, nil
}

// parseList parses comma-separated expressions up to and including end.
// A trailing comma is allowed.
func (p *Parser) parseList(end token.Token) ([]ast.Expr, error) {
	var out []ast.Expr
	for p.peek().Token != end {
		x, err := p.parseExpr(lowest)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
		if !p.accept(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(end); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) parseStructLit() (ast.Expr, error) {
	open := p.next()
	lit := &ast.StructLit{P: open.Pos}
	for p.peek().Token != token.RBRACE {
		key := p.peek()
		if key.Token != token.IDENT && key.Token != token.STRING {
			return nil, p.unexpected(key, "field name")
		}
		p.next()
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		val, err := p.parseExpr(lowest)
		if err != nil {
			return nil, err
		}
		lit.Keys = append(lit.Keys, key.Value)
		lit.Values = append(lit.Values, val)
		if !p.accept(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return lit, nil
}
