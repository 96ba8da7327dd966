// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package ast defines the Lamina syntax tree.
//
// Every node prints back to Lamina source with String. Printed expressions are
// fully parenthesized, so re-parsing the output yields an equivalent tree.
package ast

import (
	"strconv"
	"strings"

	"nickandperla.net/lamina/internal/token"
)

// Node is implemented by every syntax tree node.
type Node interface {
	// String returns the source representation of the node.
	String() string
	// Pos returns the position of the node's first token.
	Pos() token.Pos
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Ident is a variable or function name.
type Ident struct {
	Name string
	P    token.Pos
}

// IntLit is an integer literal; Lit holds its digits.
type IntLit struct {
	Lit string
	P   token.Pos
}

// DecimalLit is a decimal literal such as 0.1 or 2e10. It denotes an exact value.
type DecimalLit struct {
	Lit string
	P   token.Pos
}

// StringLit is a string literal with escapes already decoded.
type StringLit struct {
	Value string
	P     token.Pos
}

// BoolLit is true or false.
type BoolLit struct {
	Value bool
	P     token.Pos
}

// NullLit is the null literal.
type NullLit struct {
	P token.Pos
}

// ArrayLit is [a, b, ...]. A list of non-empty rows evaluates to a matrix.
type ArrayLit struct {
	Elems []Expr
	P     token.Pos
}

// StructLit is {key: value, ...}.
type StructLit struct {
	Keys   []string
	Values []Expr
	P      token.Pos
}

// Unary is a prefix operation: -x, +x or !x.
type Unary struct {
	Op token.Token
	X  Expr
	P  token.Pos
}

// Factorial is the postfix x!.
type Factorial struct {
	X Expr
	P token.Pos
}

// Binary is an infix operation, including the short-circuit && and ||.
type Binary struct {
	Op   token.Token
	L, R Expr
	P    token.Pos
}

// Assign is target = value. Target is an Ident, Index or Field.
type Assign struct {
	Target Expr
	Value  Expr
	P      token.Pos
}

// Call is fn(args...).
type Call struct {
	Fn   Expr
	Args []Expr
	P    token.Pos
}

// Index is x[i].
type Index struct {
	X, Index Expr
	P        token.Pos
}

// Field is x.name.
type Field struct {
	X    Expr
	Name string
	P    token.Pos
}

// FuncLit is a function body with its parameters. Name is empty for
// anonymous functions.
type FuncLit struct {
	Name   string
	Params []string
	Body   *Block
	P      token.Pos
}

func (*Ident) exprNode()      {}
func (*IntLit) exprNode()     {}
func (*DecimalLit) exprNode() {}
func (*StringLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*NullLit) exprNode()    {}
func (*ArrayLit) exprNode()   {}
func (*StructLit) exprNode()  {}
func (*Unary) exprNode()      {}
func (*Factorial) exprNode()  {}
func (*Binary) exprNode()     {}
func (*Assign) exprNode()     {}
func (*Call) exprNode()       {}
func (*Index) exprNode()      {}
func (*Field) exprNode()      {}
func (*FuncLit) exprNode()    {}

func (e *Ident) Pos() token.Pos      { return e.P }
func (e *IntLit) Pos() token.Pos     { return e.P }
func (e *DecimalLit) Pos() token.Pos { return e.P }
func (e *StringLit) Pos() token.Pos  { return e.P }
func (e *BoolLit) Pos() token.Pos    { return e.P }
func (e *NullLit) Pos() token.Pos    { return e.P }
func (e *ArrayLit) Pos() token.Pos   { return e.P }
func (e *StructLit) Pos() token.Pos  { return e.P }
func (e *Unary) Pos() token.Pos      { return e.P }
func (e *Factorial) Pos() token.Pos  { return e.P }
func (e *Binary) Pos() token.Pos     { return e.P }
func (e *Assign) Pos() token.Pos     { return e.P }
func (e *Call) Pos() token.Pos       { return e.P }
func (e *Index) Pos() token.Pos      { return e.P }
func (e *Field) Pos() token.Pos      { return e.P }
func (e *FuncLit) Pos() token.Pos    { return e.P }

func (e *Ident) String() string      { return e.Name }
func (e *IntLit) String() string     { return e.Lit }
func (e *DecimalLit) String() string { return e.Lit }
func (e *StringLit) String() string  { return strconv.Quote(e.Value) }
func (e *BoolLit) String() string    { return strconv.FormatBool(e.Value) }
func (e *NullLit) String() string    { return "null" }

func (e *ArrayLit) String() string {
	return "[" + joinExprs(e.Elems) + "]"
}

func (e *StructLit) String() string {
	parts := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		parts[i] = strconv.Quote(k) + ": " + e.Values[i].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (e *Unary) String() string     { return "(" + e.Op.String() + e.X.String() + ")" }
func (e *Factorial) String() string { return "(" + e.X.String() + "!)" }

func (e *Binary) String() string {
	return "(" + e.L.String() + " " + e.Op.String() + " " + e.R.String() + ")"
}

func (e *Assign) String() string {
	return "(" + e.Target.String() + " = " + e.Value.String() + ")"
}

func (e *Call) String() string {
	return e.Fn.String() + "(" + joinExprs(e.Args) + ")"
}

func (e *Index) String() string { return e.X.String() + "[" + e.Index.String() + "]" }
func (e *Field) String() string { return e.X.String() + "." + e.Name }

func (e *FuncLit) String() string {
	var sb strings.Builder
	sb.WriteString("func")
	if e.Name != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Name)
	}
	sb.WriteString("(")
	sb.WriteString(strings.Join(e.Params, ", "))
	sb.WriteString(") ")
	sb.WriteString(e.Body.String())
	return sb.String()
}

func joinExprs(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// Block is a brace-delimited statement list, or a whole program.
type Block struct {
	Stmts []Stmt
	P     token.Pos
}

// VarDecl is `var name = value;` or, with BigInt set, `bigint name = value;`.
// Value is nil when the initializer is omitted.
type VarDecl struct {
	Name   string
	Value  Expr
	BigInt bool
	P      token.Pos
}

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	X Expr
	P token.Pos
}

// If is an if statement. Else is nil, an *If, or a *Block.
type If struct {
	Cond Expr
	Then *Block
	Else Stmt
	P    token.Pos
}

// While is `while cond { }`.
type While struct {
	Cond Expr
	Body *Block
	P    token.Pos
}

// ForIn is `for name in iter { }`.
type ForIn struct {
	Var  string
	Iter Expr
	Body *Block
	P    token.Pos
}

// For is `for (init; cond; step) { }`. Any clause may be nil.
type For struct {
	Init Stmt
	Cond Expr
	Step Expr
	Body *Block
	P    token.Pos
}

// FuncDecl is a named function declaration.
type FuncDecl struct {
	Func *FuncLit
	P    token.Pos
}

// Return is `return [value];`.
type Return struct {
	Value Expr
	P     token.Pos
}

// Break is `break;`.
type Break struct {
	P token.Pos
}

// Continue is `continue;`.
type Continue struct {
	P token.Pos
}

func (*Block) stmtNode()    {}
func (*VarDecl) stmtNode()  {}
func (*ExprStmt) stmtNode() {}
func (*If) stmtNode()       {}
func (*While) stmtNode()    {}
func (*ForIn) stmtNode()    {}
func (*For) stmtNode()      {}
func (*FuncDecl) stmtNode() {}
func (*Return) stmtNode()   {}
func (*Break) stmtNode()    {}
func (*Continue) stmtNode() {}

func (s *Block) Pos() token.Pos    { return s.P }
func (s *VarDecl) Pos() token.Pos  { return s.P }
func (s *ExprStmt) Pos() token.Pos { return s.P }
func (s *If) Pos() token.Pos       { return s.P }
func (s *While) Pos() token.Pos    { return s.P }
func (s *ForIn) Pos() token.Pos    { return s.P }
func (s *For) Pos() token.Pos      { return s.P }
func (s *FuncDecl) Pos() token.Pos { return s.P }
func (s *Return) Pos() token.Pos   { return s.P }
func (s *Break) Pos() token.Pos    { return s.P }
func (s *Continue) Pos() token.Pos { return s.P }

// String prints the block in braces on one line.
func (s *Block) String() string {
	if len(s.Stmts) == 0 {
		return "{ }"
	}
	return "{ " + s.Program() + " }"
}

// Program prints the statements without surrounding braces.
func (s *Block) Program() string {
	parts := make([]string, len(s.Stmts))
	for i, st := range s.Stmts {
		parts[i] = st.String()
	}
	return strings.Join(parts, " ")
}

func (s *VarDecl) String() string {
	kw := "var"
	if s.BigInt {
		kw = "bigint"
	}
	if s.Value == nil {
		return kw + " " + s.Name + ";"
	}
	return kw + " " + s.Name + " = " + s.Value.String() + ";"
}

func (s *ExprStmt) String() string {
	// A top-level assignment needs no parentheses.
	if a, ok := s.X.(*Assign); ok {
		return a.Target.String() + " = " + a.Value.String() + ";"
	}
	return s.X.String() + ";"
}

func (s *If) String() string {
	out := "if " + s.Cond.String() + " " + s.Then.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}

func (s *While) String() string {
	return "while " + s.Cond.String() + " " + s.Body.String()
}

func (s *ForIn) String() string {
	return "for " + s.Var + " in " + s.Iter.String() + " " + s.Body.String()
}

func (s *For) String() string {
	var init, cond, step string
	if s.Init != nil {
		init = strings.TrimSuffix(s.Init.String(), ";")
	}
	if s.Cond != nil {
		cond = " " + s.Cond.String()
	}
	if s.Step != nil {
		step = " " + s.Step.String()
	}
	return "for (" + init + ";" + cond + ";" + step + ") " + s.Body.String()
}

func (s *FuncDecl) String() string { return s.Func.String() }

func (s *Return) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}

func (s *Break) String() string    { return "break;" }
func (s *Continue) String() string { return "continue;" }
