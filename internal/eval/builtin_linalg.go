// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"nickandperla.net/lamina/internal/diag"
	"nickandperla.net/lamina/internal/value"
)

// maxIdentity bounds the size of identity matrices.
const maxIdentity = 4096

var linalgBuiltins = []Builtin{
	{"dot", 2, 2, builtinDot},
	{"cross", 2, 2, builtinCross},
	{"norm", 1, 1, builtinNorm},
	{"det", 1, 1, builtinDet},
	{"transpose", 1, 1, builtinTranspose},
	{"identity", 1, 1, builtinIdentity},
	{"shape", 1, 1, builtinShape},
}

func builtinDot(_ *Evaluator, args []value.Value) (value.Value, error) {
	a, err := array("dot", args[0])
	if err != nil {
		return nil, err
	}
	b, err := array("dot", args[1])
	if err != nil {
		return nil, err
	}
	return value.Dot(a, b)
}

func builtinCross(_ *Evaluator, args []value.Value) (value.Value, error) {
	a, err := array("cross", args[0])
	if err != nil {
		return nil, err
	}
	b, err := array("cross", args[1])
	if err != nil {
		return nil, err
	}
	if a.Len() != 3 || b.Len() != 3 {
		return nil, diag.Errorf(diag.DimensionError, "cross product requires vectors of length 3, got %d and %d", a.Len(), b.Len())
	}
	x, y := a.Elems(), b.Elems()
	out := make([]value.Value, 3)
	for i := range out {
		j, k := (i+1)%3, (i+2)%3
		l, err := value.Mul(x[j], y[k])
		if err != nil {
			return nil, err
		}
		r, err := value.Mul(x[k], y[j])
		if err != nil {
			return nil, err
		}
		if out[i], err = value.Sub(l, r); err != nil {
			return nil, err
		}
	}
	return value.NewArray(out), nil
}

// builtinNorm is sqrt(dot(v, v)), exact where the square root is.
func builtinNorm(_ *Evaluator, args []value.Value) (value.Value, error) {
	a, err := array("norm", args[0])
	if err != nil {
		return nil, err
	}
	d, err := value.Dot(a, a)
	if err != nil {
		return nil, err
	}
	return value.Sqrt(d)
}

func builtinDet(_ *Evaluator, args []value.Value) (value.Value, error) {
	m, err := matrix("det", args[0])
	if err != nil {
		return nil, err
	}
	if !m.IsSquare() {
		return nil, diag.Errorf(diag.DimensionError, "det requires a square matrix, got %dx%d", m.Rows(), m.Cols())
	}
	rows := m.RowValues()
	if len(rows) <= 3 {
		return cofactorDet(rows)
	}
	return eliminationDet(rows)
}

// cofactorDet expands along the first row.
func cofactorDet(rows [][]value.Value) (value.Value, error) {
	n := len(rows)
	if n == 1 {
		return number("det", rows[0][0])
	}
	var sum value.Value = value.Int(0)
	for j := 0; j < n; j++ {
		minor := make([][]value.Value, 0, n-1)
		for _, r := range rows[1:] {
			row := make([]value.Value, 0, n-1)
			row = append(row, r[:j]...)
			row = append(row, r[j+1:]...)
			minor = append(minor, row)
		}
		sub, err := cofactorDet(minor)
		if err != nil {
			return nil, err
		}
		term, err := value.Mul(rows[0][j], sub)
		if err != nil {
			return nil, err
		}
		if j%2 == 0 {
			sum, err = value.Add(sum, term)
		} else {
			sum, err = value.Sub(sum, term)
		}
		if err != nil {
			return nil, err
		}
	}
	return sum, nil
}

// eliminationDet runs Gaussian elimination over Values, so rational
// entries stay exact.
func eliminationDet(rows [][]value.Value) (value.Value, error) {
	n := len(rows)
	var det value.Value = value.Int(1)
	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if !value.IsNumber(rows[r][col]) {
				return nil, diag.Errorf(diag.TypeError, "det expects numeric entries, got %s", rows[r][col].Kind())
			}
			if value.Sign(rows[r][col]) != 0 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return value.Int(0), nil
		}
		if pivot != col {
			rows[pivot], rows[col] = rows[col], rows[pivot]
			var err error
			if det, err = value.Neg(det); err != nil {
				return nil, err
			}
		}
		p := rows[col][col]
		var err error
		if det, err = value.Mul(det, p); err != nil {
			return nil, err
		}
		for r := col + 1; r < n; r++ {
			if value.Sign(rows[r][col]) == 0 {
				continue
			}
			f, err := value.Div(rows[r][col], p)
			if err != nil {
				return nil, err
			}
			for c := col; c < n; c++ {
				t, err := value.Mul(f, rows[col][c])
				if err != nil {
					return nil, err
				}
				if rows[r][c], err = value.Sub(rows[r][c], t); err != nil {
					return nil, err
				}
			}
		}
	}
	return det, nil
}

func builtinTranspose(_ *Evaluator, args []value.Value) (value.Value, error) {
	switch v := args[0].(type) {
	case value.Matrix:
		return value.Transpose(v), nil
	case value.Array:
		col := make([][]value.Value, v.Len())
		for i, x := range v.Elems() {
			col[i] = []value.Value{x}
		}
		if len(col) == 0 {
			return v, nil
		}
		return value.NewMatrix(col)
	}
	return nil, diag.Errorf(diag.TypeError, "transpose expects a matrix, got %s", args[0].Kind())
}

func builtinIdentity(_ *Evaluator, args []value.Value) (value.Value, error) {
	n, err := integer("identity", args[0])
	if err != nil {
		return nil, err
	}
	if n > maxIdentity {
		return nil, diag.Errorf(diag.ValueError, "identity size %d exceeds the limit of %d", n, maxIdentity)
	}
	return value.Identity(n)
}

func builtinShape(_ *Evaluator, args []value.Value) (value.Value, error) {
	switch v := args[0].(type) {
	case value.Matrix:
		return value.NewArray([]value.Value{value.Int(v.Rows()), value.Int(v.Cols())}), nil
	case value.Array:
		return value.NewArray([]value.Value{value.Int(v.Len())}), nil
	}
	return nil, diag.Errorf(diag.TypeError, "shape expects an array or matrix, got %s", args[0].Kind())
}
