// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"fmt"

	"nickandperla.net/lamina/internal/ast"
	"nickandperla.net/lamina/internal/diag"
	"nickandperla.net/lamina/internal/token"
	"nickandperla.net/lamina/internal/value"
)

var arithOps = map[token.Token]value.Op{
	token.PLUS:    value.OpAdd,
	token.MINUS:   value.OpSub,
	token.STAR:    value.OpMul,
	token.SLASH:   value.OpDiv,
	token.PERCENT: value.OpMod,
	token.CARET:   value.OpPow,
}

// eval evaluates x in env. Errors carry the position of the innermost node
// that produced them.
func (e *Evaluator) eval(x ast.Expr, env *Env) (value.Value, error) {
	v, err := e.evalNode(x, env)
	if err != nil {
		return nil, errorAt(err, x)
	}
	return v, nil
}

func (e *Evaluator) evalNode(x ast.Expr, env *Env) (value.Value, error) {
	switch x := x.(type) {
	case *ast.IntLit:
		return value.ParseInt(x.Lit)
	case *ast.DecimalLit:
		return value.ParseDecimal(x.Lit)
	case *ast.StringLit:
		return value.String(x.Value), nil
	case *ast.BoolLit:
		return value.Bool(x.Value), nil
	case *ast.NullLit:
		return value.Null{}, nil

	case *ast.Ident:
		if v, ok := env.Lookup(x.Name); ok {
			return v, nil
		}
		if b, ok := e.builtins.Lookup(x.Name); ok {
			return builtinValue{b}, nil
		}
		return nil, diag.Errorf(diag.UndefinedVariableError, "undefined variable %q", x.Name)

	case *ast.ArrayLit:
		elems, err := e.evalList(x.Elems, env)
		if err != nil {
			return nil, err
		}
		return value.FromList(elems)

	case *ast.StructLit:
		vals, err := e.evalList(x.Values, env)
		if err != nil {
			return nil, err
		}
		return value.NewStruct(x.Keys, vals), nil

	case *ast.FuncLit:
		return &Func{decl: x, env: env}, nil

	case *ast.Unary:
		v, err := e.eval(x.X, env)
		if err != nil {
			return nil, err
		}
		switch x.Op {
		case token.MINUS:
			return value.Neg(v)
		case token.BANG:
			return value.Not(v), nil
		}
		switch v.(type) {
		case value.Array, value.Matrix:
			return v, nil
		}
		if !value.IsNumber(v) {
			return nil, diag.Errorf(diag.TypeError, "unsupported operand type for unary +: %s", v.Kind())
		}
		return v, nil

	case *ast.Factorial:
		v, err := e.eval(x.X, env)
		if err != nil {
			return nil, err
		}
		return value.Factorial(v)

	case *ast.Binary:
		return e.binary(x, env)

	case *ast.Assign:
		v, err := e.eval(x.Value, env)
		if err != nil {
			return nil, err
		}
		if err := e.assign(x.Target, v, env); err != nil {
			return nil, err
		}
		return v, nil

	case *ast.Call:
		return e.callExpr(x, env)

	case *ast.Index:
		c, err := e.eval(x.X, env)
		if err != nil {
			return nil, err
		}
		i, err := e.eval(x.Index, env)
		if err != nil {
			return nil, err
		}
		return index(c, i)

	case *ast.Field:
		c, err := e.eval(x.X, env)
		if err != nil {
			return nil, err
		}
		s, ok := c.(value.Struct)
		if !ok {
			return nil, diag.Errorf(diag.TypeError, "%s has no field %q", c.Kind(), x.Name)
		}
		v, ok := s.Get(x.Name)
		if !ok {
			return nil, diag.Errorf(diag.IndexError, "no field %q", x.Name)
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown expression %T", x)
}

func (e *Evaluator) evalList(xs []ast.Expr, env *Env) ([]value.Value, error) {
	out := make([]value.Value, len(xs))
	for i, x := range xs {
		v, err := e.eval(x, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *Evaluator) binary(x *ast.Binary, env *Env) (value.Value, error) {
	l, err := e.eval(x.L, env)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case token.AND:
		if !value.Truthy(l) {
			return value.Bool(false), nil
		}
		r, err := e.eval(x.R, env)
		if err != nil {
			return nil, err
		}
		return value.Bool(value.Truthy(r)), nil
	case token.OR:
		if value.Truthy(l) {
			return value.Bool(true), nil
		}
		r, err := e.eval(x.R, env)
		if err != nil {
			return nil, err
		}
		return value.Bool(value.Truthy(r)), nil
	}

	r, err := e.eval(x.R, env)
	if err != nil {
		return nil, err
	}
	if op, ok := arithOps[x.Op]; ok {
		return value.Binary(op, l, r)
	}
	switch x.Op {
	case token.EQ:
		return value.Bool(value.Equal(l, r)), nil
	case token.NEQ:
		return value.Bool(!value.Equal(l, r)), nil
	}
	c, err := value.Compare(l, r)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case token.LT:
		return value.Bool(c < 0), nil
	case token.GT:
		return value.Bool(c > 0), nil
	case token.LTE:
		return value.Bool(c <= 0), nil
	case token.GTE:
		return value.Bool(c >= 0), nil
	}
	return nil, fmt.Errorf("unknown operator %s", x.Op)
}

// assign stores v into target. Index and field targets rebuild their
// container and assign it back, since values are immutable.
func (e *Evaluator) assign(target ast.Expr, v value.Value, env *Env) error {
	switch t := target.(type) {
	case *ast.Ident:
		env.Assign(t.Name, v)
		return nil
	case *ast.Index:
		c, err := e.eval(t.X, env)
		if err != nil {
			return err
		}
		i, err := e.eval(t.Index, env)
		if err != nil {
			return err
		}
		nc, err := setIndex(c, i, v)
		if err != nil {
			return errorAt(err, t)
		}
		return e.assign(t.X, nc, env)
	case *ast.Field:
		c, err := e.eval(t.X, env)
		if err != nil {
			return err
		}
		s, ok := c.(value.Struct)
		if !ok {
			return diag.Errorf(diag.TypeError, "cannot set field %q on %s", t.Name, c.Kind())
		}
		return e.assign(t.X, s.With(t.Name, v), env)
	}
	return diag.Errorf(diag.TypeError, "cannot assign to %s", target)
}

func (e *Evaluator) callExpr(x *ast.Call, env *Env) (value.Value, error) {
	var fn value.Value
	if id, ok := x.Fn.(*ast.Ident); ok {
		if v, ok := env.Lookup(id.Name); ok {
			fn = v
		} else if b, ok := e.builtins.Lookup(id.Name); ok {
			fn = builtinValue{b}
		} else {
			return nil, diag.Errorf(diag.UndefinedVariableError, "undefined function %q", id.Name)
		}
	} else {
		var err error
		if fn, err = e.eval(x.Fn, env); err != nil {
			return nil, err
		}
	}
	args, err := e.evalList(x.Args, env)
	if err != nil {
		return nil, err
	}
	return e.call(fn, args)
}

// call applies a function value to evaluated arguments.
func (e *Evaluator) call(fn value.Value, args []value.Value) (value.Value, error) {
	if err := e.interrupted(); err != nil {
		return nil, err
	}
	switch f := fn.(type) {
	case builtinValue:
		if err := f.b.checkArity(len(args)); err != nil {
			return nil, err
		}
		return f.b.Fn(e, args)
	case *Func:
		params := f.decl.Params
		if len(args) != len(params) {
			return nil, diag.Errorf(diag.ArityError, "%s expects %s, got %d", funcName(f), plural(len(params), "argument"), len(args))
		}
		if e.depth >= e.maxDepth {
			return nil, diag.Errorf(diag.RecursionError, "maximum recursion depth %d exceeded", e.maxDepth)
		}
		e.depth++
		defer func() { e.depth-- }()

		scope := NewEnv(f.env, true)
		for i, p := range params {
			scope.Declare(p, args[i])
		}
		ctl, v, err := e.execBlock(f.decl.Body.Stmts, scope)
		if err != nil {
			return nil, err
		}
		if ctl == ctlReturn {
			return v, nil
		}
		return value.Null{}, nil
	}
	return nil, diag.Errorf(diag.TypeError, "%s is not callable", fn.Kind())
}

func funcName(f *Func) string {
	if f.decl.Name == "" {
		return "function"
	}
	return f.decl.Name
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// index reads c[i].
func index(c, i value.Value) (value.Value, error) {
	if s, ok := c.(value.Struct); ok {
		key, ok := i.(value.String)
		if !ok {
			return nil, diag.Errorf(diag.TypeError, "struct index must be a string, got %s", i.Kind())
		}
		v, ok := s.Get(string(key))
		if !ok {
			return nil, diag.Errorf(diag.IndexError, "no field %q", string(key))
		}
		return v, nil
	}
	var n int
	switch c := c.(type) {
	case value.Array:
		n = c.Len()
	case value.Matrix:
		n = c.Rows()
	case value.String:
		n = len([]rune(string(c)))
	default:
		return nil, diag.Errorf(diag.TypeError, "cannot index %s", c.Kind())
	}
	k, err := position(i, n)
	if err != nil {
		return nil, err
	}
	switch c := c.(type) {
	case value.Array:
		return c.At(k), nil
	case value.Matrix:
		return c.Row(k), nil
	default:
		return value.String(string([]rune(string(c.(value.String)))[k])), nil
	}
}

// setIndex returns a copy of c with c[i] = v.
func setIndex(c, i, v value.Value) (value.Value, error) {
	switch c := c.(type) {
	case value.Struct:
		key, ok := i.(value.String)
		if !ok {
			return nil, diag.Errorf(diag.TypeError, "struct index must be a string, got %s", i.Kind())
		}
		return c.With(string(key), v), nil
	case value.Array:
		k, err := position(i, c.Len())
		if err != nil {
			return nil, err
		}
		return c.With(k, v), nil
	case value.Matrix:
		k, err := position(i, c.Rows())
		if err != nil {
			return nil, err
		}
		row, ok := v.(value.Array)
		if !ok || row.Len() != c.Cols() {
			return nil, diag.Errorf(diag.DimensionError, "matrix row must be an array of length %d", c.Cols())
		}
		rows := c.RowValues()
		rows[k] = row.Elems()
		return value.NewMatrix(rows)
	case value.String:
		return nil, diag.Errorf(diag.TypeError, "strings are immutable")
	}
	return nil, diag.Errorf(diag.TypeError, "cannot index %s", c.Kind())
}

// position validates a 0-based index into a sequence of length n.
func position(i value.Value, n int) (int, error) {
	if !value.IsNumber(i) {
		return 0, diag.Errorf(diag.TypeError, "index must be an integer, got %s", i.Kind())
	}
	k, ok := value.ToInt(i)
	if !ok {
		if value.IsInteger(i) {
			return 0, diag.Errorf(diag.IndexError, "index %s out of range [0, %d)", i, n)
		}
		return 0, diag.Errorf(diag.TypeError, "index must be an integer, got %s", i.Kind())
	}
	if k < 0 || k >= n {
		return 0, diag.Errorf(diag.IndexError, "index %d out of range [0, %d)", k, n)
	}
	return k, nil
}
