// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"maps"
	"slices"

	"nickandperla.net/lamina/internal/diag"
	"nickandperla.net/lamina/internal/value"
)

// BuiltinFunc is the signature for builtin functions. Arguments arrive
// evaluated and already checked against the builtin's arity.
type BuiltinFunc func(e *Evaluator, args []value.Value) (value.Value, error)

// Builtin describes one built-in function. MaxArgs < 0 means variadic.
type Builtin struct {
	Name    string
	MinArgs int
	MaxArgs int
	Fn      BuiltinFunc
}

func (b *Builtin) checkArity(n int) error {
	switch {
	case b.MaxArgs < 0 && n < b.MinArgs:
		return diag.Errorf(diag.ArityError, "%s expects at least %s, got %d", b.Name, plural(b.MinArgs, "argument"), n)
	case b.MaxArgs >= 0 && (n < b.MinArgs || n > b.MaxArgs):
		if b.MinArgs == b.MaxArgs {
			return diag.Errorf(diag.ArityError, "%s expects %s, got %d", b.Name, plural(b.MinArgs, "argument"), n)
		}
		return diag.Errorf(diag.ArityError, "%s expects %d to %d arguments, got %d", b.Name, b.MinArgs, b.MaxArgs, n)
	}
	return nil
}

// Builtins is an immutable table of built-in functions.
type Builtins struct {
	byName map[string]*Builtin
}

// NewBuiltins builds a table. A later entry replaces an earlier one with
// the same name.
func NewBuiltins(bs ...Builtin) *Builtins {
	t := &Builtins{byName: make(map[string]*Builtin, len(bs))}
	for _, b := range bs {
		t.byName[b.Name] = &b
	}
	return t
}

// Lookup returns the named builtin.
func (t *Builtins) Lookup(name string) (*Builtin, bool) {
	b, ok := t.byName[name]
	return b, ok
}

// Names returns the builtin names, sorted.
func (t *Builtins) Names() []string {
	return slices.Sorted(maps.Keys(t.byName))
}

// With returns a new table extended with bs.
func (t *Builtins) With(bs ...Builtin) *Builtins {
	n := &Builtins{byName: maps.Clone(t.byName)}
	for _, b := range bs {
		n.byName[b.Name] = &b
	}
	return n
}

var defaultBuiltins = NewBuiltins(slices.Concat(
	mathBuiltins,
	linalgBuiltins,
	utilBuiltins,
	randomBuiltins,
	stringBuiltins,
	timeBuiltins,
	ioBuiltins,
	historyBuiltins,
)...)

// DefaultBuiltins returns the shared standard table.
func DefaultBuiltins() *Builtins {
	return defaultBuiltins
}

// Argument helpers. Each reports a TypeError naming the builtin.

func number(name string, v value.Value) (value.Value, error) {
	if !value.IsNumber(v) {
		return nil, diag.Errorf(diag.TypeError, "%s expects a number, got %s", name, v.Kind())
	}
	return v, nil
}

func float(name string, v value.Value) (float64, error) {
	f, ok := value.ToFloat(v)
	if !ok {
		return 0, diag.Errorf(diag.TypeError, "%s expects a number, got %s", name, v.Kind())
	}
	return f, nil
}

func integer(name string, v value.Value) (int, error) {
	if !value.IsNumber(v) {
		return 0, diag.Errorf(diag.TypeError, "%s expects an integer, got %s", name, v.Kind())
	}
	n, ok := value.ToInt(v)
	if !ok {
		return 0, diag.Errorf(diag.ValueError, "%s expects an integer, got %s", name, v)
	}
	return n, nil
}

func str(name string, v value.Value) (string, error) {
	s, ok := v.(value.String)
	if !ok {
		return "", diag.Errorf(diag.TypeError, "%s expects a string, got %s", name, v.Kind())
	}
	return string(s), nil
}

func array(name string, v value.Value) (value.Array, error) {
	a, ok := v.(value.Array)
	if !ok {
		return value.Array{}, diag.Errorf(diag.TypeError, "%s expects an array, got %s", name, v.Kind())
	}
	return a, nil
}

func matrix(name string, v value.Value) (value.Matrix, error) {
	m, ok := v.(value.Matrix)
	if !ok {
		return value.Matrix{}, diag.Errorf(diag.TypeError, "%s expects a matrix, got %s", name, v.Kind())
	}
	return m, nil
}

// floatFn adapts a float64 function into a one-argument builtin.
func floatFn(name string, f func(float64) float64) Builtin {
	return Builtin{Name: name, MinArgs: 1, MaxArgs: 1, Fn: func(_ *Evaluator, args []value.Value) (value.Value, error) {
		x, err := float(name, args[0])
		if err != nil {
			return nil, err
		}
		return value.Float(f(x)), nil
	}}
}
