// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"nickandperla.net/lamina/internal/ast"
	"nickandperla.net/lamina/internal/value"
)

// Func is a user function closing over the scope it was defined in.
type Func struct {
	decl *ast.FuncLit
	env  *Env
}

func (*Func) Kind() value.Kind { return value.FuncKind }

func (f *Func) String() string {
	if f.decl.Name == "" {
		return "<func>"
	}
	return "<func " + f.decl.Name + ">"
}

// Name returns the declared name, empty for anonymous functions.
func (f *Func) Name() string { return f.decl.Name }

// Source returns the function's source text. Captured non-global bindings
// are not part of it.
func (f *Func) Source() (string, bool) {
	return f.decl.String(), true
}

// builtinValue is a built-in referenced as a value, as in `var f = sqrt;`.
type builtinValue struct {
	b *Builtin
}

func (builtinValue) Kind() value.Kind { return value.FuncKind }

func (v builtinValue) String() string { return "<builtin " + v.b.Name + ">" }
