// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"math"
	"unicode/utf8"

	"nickandperla.net/lamina/internal/diag"
	"nickandperla.net/lamina/internal/value"
)

// maxRange bounds the number of elements range may produce.
const maxRange = 10_000_000

var utilBuiltins = []Builtin{
	{"size", 1, 1, builtinSize},
	{"fraction", 1, 1, builtinFraction},
	{"decimal", 1, 1, builtinDecimal},
	{"range", 1, 3, builtinRange},
	{"typeof", 1, 1, func(_ *Evaluator, args []value.Value) (value.Value, error) {
		return value.String(args[0].Kind().String()), nil
	}},
	{"to_string", 1, 1, func(_ *Evaluator, args []value.Value) (value.Value, error) {
		return value.String(args[0].String()), nil
	}},
}

func builtinSize(_ *Evaluator, args []value.Value) (value.Value, error) {
	switch v := args[0].(type) {
	case value.Array:
		return value.Int(v.Len()), nil
	case value.Matrix:
		return value.Int(v.Rows()), nil
	case value.String:
		return value.Int(utf8.RuneCountInString(string(v))), nil
	case value.Struct:
		return value.Int(v.Len()), nil
	}
	return nil, diag.Errorf(diag.TypeError, "size expects an array, matrix, string or struct, got %s", args[0].Kind())
}

// builtinFraction converts a number to an exact value. Floats go through
// their shortest decimal rendering, so fraction(0.1) is 1/10.
func builtinFraction(_ *Evaluator, args []value.Value) (value.Value, error) {
	x, err := number("fraction", args[0])
	if err != nil {
		return nil, err
	}
	if _, ok := value.ToRat(x); ok {
		return x, nil
	}
	f, _ := value.ToFloat(x)
	return value.FloatToExact(f)
}

func builtinDecimal(_ *Evaluator, args []value.Value) (value.Value, error) {
	f, err := float("decimal", args[0])
	if err != nil {
		return nil, err
	}
	return value.Float(f), nil
}

// builtinRange implements range(end), range(start, end) and
// range(start, end, step). The end is exclusive.
func builtinRange(_ *Evaluator, args []value.Value) (value.Value, error) {
	for _, a := range args {
		if _, err := number("range", a); err != nil {
			return nil, err
		}
	}
	var start, end, step value.Value = value.Int(0), args[0], value.Int(1)
	if len(args) >= 2 {
		start, end = args[0], args[1]
	}
	if len(args) == 3 {
		step = args[2]
	}
	dir := value.Sign(step)
	if dir == 0 {
		return nil, diag.Errorf(diag.ValueError, "range step must not be zero")
	}

	s, _ := value.ToFloat(start)
	e, _ := value.ToFloat(end)
	st, _ := value.ToFloat(step)
	if n := math.Ceil((e - s) / st); n > maxRange || math.IsNaN(n) {
		return nil, diag.Errorf(diag.ValueError, "range of %.0f elements exceeds the limit of %d", n, maxRange)
	}

	var out []value.Value
	for x := start; ; {
		c, err := value.Compare(x, end)
		if err != nil {
			return nil, err
		}
		if c*dir >= 0 {
			break
		}
		out = append(out, x)
		if x, err = value.Add(x, step); err != nil {
			return nil, err
		}
	}
	return value.NewArray(out), nil
}
