// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package parser

import (
	"nickandperla.net/lamina/internal/ast"
	"nickandperla.net/lamina/internal/token"
)

func (p *Parser) parseStatement() (ast.Stmt, error) {
	it := p.peek()
	if err := p.enter(it.Pos); err != nil {
		return nil, err
	}
	defer p.leave()

	switch it.Token {
	case token.VAR, token.BIGINT:
		decl, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		return decl, p.terminator()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.FUNC:
		if p.peekAt(1).Token == token.IDENT {
			return p.parseFuncDecl()
		}
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK, token.CONTINUE:
		p.next()
		if p.loopDepth == 0 {
			return nil, p.errorf(it.Pos, "%s outside loop", it.Token)
		}
		if err := p.terminator(); err != nil {
			return nil, err
		}
		if it.Token == token.BREAK {
			return &ast.Break{P: it.Pos}, nil
		}
		return &ast.Continue{P: it.Pos}, nil
	case token.LBRACE:
		return p.parseBlock()
	}

	x, err := p.parseExpr(lowest)
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: x, P: it.Pos}, p.terminator()
}

// parseVarDecl parses `var name [= value]` or `bigint name = value` without
// the terminator.
func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	kw := p.next()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.VarDecl{Name: name.Value, BigInt: kw.Token == token.BIGINT, P: kw.Pos}
	if !p.accept(token.ASSIGN) {
		if decl.BigInt {
			return nil, p.unexpected(p.peek(), "'=' after bigint name")
		}
		return decl, nil
	}
	if decl.Value, err = p.parseExpr(lowest); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	b := &ast.Block{P: open.Pos}
	for {
		p.skipSemicolons()
		switch p.peek().Token {
		case token.RBRACE:
			p.next()
			return b, nil
		case token.EOF:
			return nil, p.unexpected(p.peek(), "'}'")
		}
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, st)
	}
}

func (p *Parser) parseLoopBody() (*ast.Block, error) {
	p.loopDepth++
	defer func() { p.loopDepth-- }()
	return p.parseBlock()
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	kw := p.next()
	cond, err := p.parseExpr(lowest)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	st := &ast.If{Cond: cond, Then: then, P: kw.Pos}
	if !p.accept(token.ELSE) {
		return st, nil
	}
	if p.peek().Token == token.IF {
		if st.Else, err = p.parseIf(); err != nil {
			return nil, err
		}
		return st, nil
	}
	els, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	st.Else = els
	return st, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	kw := p.next()
	cond, err := p.parseExpr(lowest)
	if err != nil {
		return nil, err
	}
	body, err := p.parseLoopBody()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, P: kw.Pos}, nil
}

// parseFor parses `for name in iter { }` and `for (init; cond; step) { }`.
func (p *Parser) parseFor() (ast.Stmt, error) {
	kw := p.next()
	if p.peek().Token == token.IDENT && p.peekAt(1).Token == token.IN {
		name := p.next()
		p.next() // in
		iter, err := p.parseExpr(lowest)
		if err != nil {
			return nil, err
		}
		body, err := p.parseLoopBody()
		if err != nil {
			return nil, err
		}
		return &ast.ForIn{Var: name.Value, Iter: iter, Body: body, P: kw.Pos}, nil
	}

	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	st := &ast.For{P: kw.Pos}
	var err error
	switch p.peek().Token {
	case token.SEMICOLON:
	case token.VAR:
		if st.Init, err = p.parseVarDecl(); err != nil {
			return nil, err
		}
	default:
		start := p.peek().Pos
		x, err := p.parseExpr(lowest)
		if err != nil {
			return nil, err
		}
		st.Init = &ast.ExprStmt{X: x, P: start}
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	if p.peek().Token != token.SEMICOLON {
		if st.Cond, err = p.parseExpr(lowest); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	if p.peek().Token != token.RPAREN {
		if st.Step, err = p.parseExpr(lowest); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if st.Body, err = p.parseLoopBody(); err != nil {
		return nil, err
	}
	return st, nil
}

func (p *Parser) parseFuncDecl() (ast.Stmt, error) {
	kw := p.peek()
	fn, err := p.parseFuncLit()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Func: fn, P: kw.Pos}, nil
}

// parseFuncLit parses `func [name](params) { body }`.
func (p *Parser) parseFuncLit() (*ast.FuncLit, error) {
	kw, err := p.expect(token.FUNC)
	if err != nil {
		return nil, err
	}
	fn := &ast.FuncLit{P: kw.Pos}
	if p.peek().Token == token.IDENT {
		fn.Name = p.next().Value
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for p.peek().Token != token.RPAREN {
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if seen[name.Value] {
			return nil, p.errorf(name.Pos, "duplicate parameter %q", name.Value)
		}
		seen[name.Value] = true
		fn.Params = append(fn.Params, name.Value)
		if !p.accept(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	// Loops outside the function do not extend into its body.
	loops := p.loopDepth
	p.loopDepth = 0
	p.funcDepth++
	fn.Body, err = p.parseBlock()
	p.funcDepth--
	p.loopDepth = loops
	if err != nil {
		return nil, err
	}
	return fn, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	kw := p.next()
	if p.funcDepth == 0 {
		return nil, p.errorf(kw.Pos, "return outside function")
	}
	st := &ast.Return{P: kw.Pos}
	switch p.peek().Token {
	case token.SEMICOLON, token.RBRACE, token.EOF:
	default:
		x, err := p.parseExpr(lowest)
		if err != nil {
			return nil, err
		}
		st.Value = x
	}
	return st, p.terminator()
}
