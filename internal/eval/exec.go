// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"fmt"

	"nickandperla.net/lamina/internal/ast"
	"nickandperla.net/lamina/internal/diag"
	"nickandperla.net/lamina/internal/value"
)

// control is how a statement finished.
type control int

const (
	ctlNone control = iota
	ctlBreak
	ctlContinue
	ctlReturn
)

// exec runs one statement. For ctlReturn the returned value is the
// function result.
func (e *Evaluator) exec(s ast.Stmt, env *Env) (control, value.Value, error) {
	switch s := s.(type) {
	case *ast.ExprStmt:
		_, err := e.eval(s.X, env)
		return ctlNone, nil, err

	case *ast.VarDecl:
		var v value.Value = value.Null{}
		if s.Value != nil {
			var err error
			if v, err = e.eval(s.Value, env); err != nil {
				return ctlNone, nil, err
			}
		}
		if s.BigInt {
			b, err := toBigInt(v)
			if err != nil {
				return ctlNone, nil, errorAt(err, s)
			}
			v = b
		}
		env.Declare(s.Name, v)
		return ctlNone, nil, nil

	case *ast.Block:
		return e.execBlock(s.Stmts, NewEnv(env, false))

	case *ast.If:
		c, err := e.eval(s.Cond, env)
		if err != nil {
			return ctlNone, nil, err
		}
		if value.Truthy(c) {
			return e.execBlock(s.Then.Stmts, NewEnv(env, false))
		}
		if s.Else != nil {
			return e.exec(s.Else, env)
		}
		return ctlNone, nil, nil

	case *ast.While:
		for {
			if err := e.interrupted(); err != nil {
				return ctlNone, nil, errorAt(err, s)
			}
			c, err := e.eval(s.Cond, env)
			if err != nil {
				return ctlNone, nil, err
			}
			if !value.Truthy(c) {
				return ctlNone, nil, nil
			}
			ctl, v, err := e.execBlock(s.Body.Stmts, NewEnv(env, false))
			if err != nil || ctl == ctlReturn {
				return ctl, v, err
			}
			if ctl == ctlBreak {
				return ctlNone, nil, nil
			}
		}

	case *ast.ForIn:
		it, err := e.eval(s.Iter, env)
		if err != nil {
			return ctlNone, nil, err
		}
		items, err := iterate(it)
		if err != nil {
			return ctlNone, nil, errorAt(err, s.Iter)
		}
		for _, item := range items {
			if err := e.interrupted(); err != nil {
				return ctlNone, nil, errorAt(err, s)
			}
			scope := NewEnv(env, false)
			scope.Declare(s.Var, item)
			ctl, v, err := e.execBlock(s.Body.Stmts, scope)
			if err != nil || ctl == ctlReturn {
				return ctl, v, err
			}
			if ctl == ctlBreak {
				break
			}
		}
		return ctlNone, nil, nil

	case *ast.For:
		outer := NewEnv(env, false)
		if s.Init != nil {
			if _, _, err := e.exec(s.Init, outer); err != nil {
				return ctlNone, nil, err
			}
		}
		for {
			if err := e.interrupted(); err != nil {
				return ctlNone, nil, errorAt(err, s)
			}
			if s.Cond != nil {
				c, err := e.eval(s.Cond, outer)
				if err != nil {
					return ctlNone, nil, err
				}
				if !value.Truthy(c) {
					return ctlNone, nil, nil
				}
			}
			ctl, v, err := e.execBlock(s.Body.Stmts, NewEnv(outer, false))
			if err != nil || ctl == ctlReturn {
				return ctl, v, err
			}
			if ctl == ctlBreak {
				return ctlNone, nil, nil
			}
			if s.Step != nil {
				if _, err := e.eval(s.Step, outer); err != nil {
					return ctlNone, nil, err
				}
			}
		}

	case *ast.FuncDecl:
		env.Declare(s.Func.Name, &Func{decl: s.Func, env: env})
		return ctlNone, nil, nil

	case *ast.Return:
		if s.Value == nil {
			return ctlReturn, value.Null{}, nil
		}
		v, err := e.eval(s.Value, env)
		if err != nil {
			return ctlNone, nil, err
		}
		return ctlReturn, v, nil

	case *ast.Break:
		return ctlBreak, nil, nil

	case *ast.Continue:
		return ctlContinue, nil, nil
	}
	return ctlNone, nil, fmt.Errorf("unknown statement %T", s)
}

// execBlock runs stmts in env, stopping at the first break, continue or
// return and passing it up to the enclosing loop or call.
func (e *Evaluator) execBlock(stmts []ast.Stmt, env *Env) (control, value.Value, error) {
	for _, st := range stmts {
		ctl, v, err := e.exec(st, env)
		if err != nil {
			return ctlNone, nil, err
		}
		if ctl != ctlNone {
			return ctl, v, nil
		}
	}
	return ctlNone, nil, nil
}

// iterate returns the items a for-in loop visits.
func iterate(v value.Value) ([]value.Value, error) {
	switch v := v.(type) {
	case value.Array:
		return v.Elems(), nil
	case value.Matrix:
		rows := make([]value.Value, v.Rows())
		for i := range rows {
			rows[i] = v.Row(i)
		}
		return rows, nil
	case value.String:
		var out []value.Value
		for _, r := range string(v) {
			out = append(out, value.String(string(r)))
		}
		return out, nil
	case value.Struct:
		keys := v.Keys()
		out := make([]value.Value, len(keys))
		for i, k := range keys {
			out[i] = value.String(k)
		}
		return out, nil
	}
	return nil, diag.Errorf(diag.TypeError, "cannot iterate over %s", v.Kind())
}

func toBigInt(v value.Value) (value.Value, error) {
	if b, ok := value.ToBigInt(v); ok {
		return value.NewBigInt(b), nil
	}
	if value.IsNumber(v) {
		return nil, diag.Errorf(diag.ValueError, "bigint requires an integer, got %s", v)
	}
	return nil, diag.Errorf(diag.TypeError, "bigint requires an integer, got %s", v.Kind())
}
