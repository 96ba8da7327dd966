// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package value

import (
	"strings"

	"nickandperla.net/lamina/internal/diag"
)

// Array is an ordered, heterogeneous sequence of values.
type Array struct {
	elems []Value
}

// NewArray returns an Array that takes ownership of elems.
func NewArray(elems []Value) Array {
	return Array{elems: elems}
}

func (Array) Kind() Kind { return ArrayKind }
func (a Array) String() string {
	return "[" + joinRepr(a.elems) + "]"
}

// Len returns the number of elements.
func (a Array) Len() int { return len(a.elems) }

// At returns the i-th element.
func (a Array) At(i int) Value { return a.elems[i] }

// Elems returns a copy of the elements.
func (a Array) Elems() []Value { return append([]Value(nil), a.elems...) }

// With returns a copy of a whose i-th element is v.
func (a Array) With(i int, v Value) Array {
	elems := a.Elems()
	elems[i] = v
	return Array{elems: elems}
}

func (a Array) mapElems(f func(Value) (Value, error)) (Value, error) {
	out := make([]Value, len(a.elems))
	for i, v := range a.elems {
		r, err := f(v)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return Array{elems: out}, nil
}

// Matrix is a rectangular grid of values; every row has the same length.
type Matrix struct {
	rows [][]Value
	cols int
}

// NewMatrix validates that rows are rectangular and builds a Matrix.
func NewMatrix(rows [][]Value) (Matrix, error) {
	if len(rows) == 0 {
		return Matrix{}, diag.Errorf(diag.DimensionError, "matrix must have at least one row")
	}
	cols := len(rows[0])
	if cols == 0 {
		return Matrix{}, diag.Errorf(diag.DimensionError, "matrix must have at least one column")
	}
	for i, r := range rows {
		if len(r) != cols {
			return Matrix{}, diag.Errorf(diag.DimensionError,
				"matrix row %d has %d columns, expected %d", i, len(r), cols)
		}
	}
	return Matrix{rows: rows, cols: cols}, nil
}

func (Matrix) Kind() Kind { return MatrixKind }
func (m Matrix) String() string {
	parts := make([]string, len(m.rows))
	for i, r := range m.rows {
		parts[i] = "[" + joinRepr(r) + "]"
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Rows returns the number of rows.
func (m Matrix) Rows() int { return len(m.rows) }

// Cols returns the number of columns.
func (m Matrix) Cols() int { return m.cols }

// At returns the element at row i, column j.
func (m Matrix) At(i, j int) Value { return m.rows[i][j] }

// Row returns row i as an Array.
func (m Matrix) Row(i int) Array { return NewArray(append([]Value(nil), m.rows[i]...)) }

// RowValues returns a copy of every row.
func (m Matrix) RowValues() [][]Value {
	out := make([][]Value, len(m.rows))
	for i, r := range m.rows {
		out[i] = append([]Value(nil), r...)
	}
	return out
}

// IsSquare reports whether the matrix has as many rows as columns.
func (m Matrix) IsSquare() bool { return len(m.rows) == m.cols }

func (m Matrix) mapElems(f func(Value) (Value, error)) (Value, error) {
	out := make([][]Value, len(m.rows))
	for i, r := range m.rows {
		out[i] = make([]Value, len(r))
		for j, v := range r {
			x, err := f(v)
			if err != nil {
				return nil, err
			}
			out[i][j] = x
		}
	}
	return Matrix{rows: out, cols: m.cols}, nil
}

// FromList builds the value of a list literal. A non-empty list whose
// elements are all non-empty arrays is a Matrix and must be rectangular.
func FromList(elems []Value) (Value, error) {
	if len(elems) == 0 {
		return NewArray(elems), nil
	}
	rows := make([][]Value, len(elems))
	for i, e := range elems {
		a, ok := e.(Array)
		if !ok || a.Len() == 0 {
			return NewArray(elems), nil
		}
		rows[i] = a.elems
	}
	return NewMatrix(rows)
}

// Struct maps field names to values, preserving insertion order.
type Struct struct {
	keys []string
	vals map[string]Value
}

// NewStruct builds a Struct; a repeated key keeps its first position and last value.
func NewStruct(keys []string, vals []Value) Struct {
	s := Struct{vals: make(map[string]Value, len(keys))}
	for i, k := range keys {
		if _, ok := s.vals[k]; !ok {
			s.keys = append(s.keys, k)
		}
		s.vals[k] = vals[i]
	}
	return s
}

func (Struct) Kind() Kind { return StructKind }
func (s Struct) String() string {
	parts := make([]string, len(s.keys))
	for i, k := range s.keys {
		parts[i] = k + ": " + repr(s.vals[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Keys returns the field names in insertion order.
func (s Struct) Keys() []string { return append([]string(nil), s.keys...) }

// Get returns the named field.
func (s Struct) Get(key string) (Value, bool) {
	v, ok := s.vals[key]
	return v, ok
}

// Len returns the number of fields.
func (s Struct) Len() int { return len(s.keys) }

// With returns a copy of s with key set to v.
func (s Struct) With(key string, v Value) Struct {
	keys := s.Keys()
	vals := make([]Value, 0, len(keys)+1)
	for _, k := range keys {
		vals = append(vals, s.vals[k])
	}
	return NewStruct(append(keys, key), append(vals, v))
}

// Dot returns the inner product of two equal-length vectors.
func Dot(a, b Array) (Value, error) {
	if a.Len() != b.Len() {
		return nil, diag.Errorf(diag.DimensionError, "dot product of vectors with lengths %d and %d", a.Len(), b.Len())
	}
	var sum Value = Int(0)
	for i := range a.elems {
		if !IsNumber(a.elems[i]) || !IsNumber(b.elems[i]) {
			return nil, diag.Errorf(diag.TypeError, "dot product requires numeric vectors, got %s and %s",
				a.elems[i].Kind(), b.elems[i].Kind())
		}
		p, err := Mul(a.elems[i], b.elems[i])
		if err != nil {
			return nil, err
		}
		if sum, err = Add(sum, p); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

// MatMul returns the matrix product a × b.
func MatMul(a, b Matrix) (Value, error) {
	if a.cols != b.Rows() {
		return nil, diag.Errorf(diag.DimensionError, "cannot multiply %dx%d matrix by %dx%d matrix",
			a.Rows(), a.cols, b.Rows(), b.cols)
	}
	out := make([][]Value, a.Rows())
	for i := range out {
		out[i] = make([]Value, b.cols)
		for j := 0; j < b.cols; j++ {
			var sum Value = Int(0)
			for k := 0; k < a.cols; k++ {
				p, err := Mul(a.rows[i][k], b.rows[k][j])
				if err != nil {
					return nil, err
				}
				if sum, err = Add(sum, p); err != nil {
					return nil, err
				}
			}
			out[i][j] = sum
		}
	}
	return Matrix{rows: out, cols: b.cols}, nil
}

// column views a vector as a single-column matrix.
func column(a Array) Matrix {
	rows := make([][]Value, a.Len())
	for i, v := range a.elems {
		rows[i] = []Value{v}
	}
	return Matrix{rows: rows, cols: 1}
}

// row views a vector as a single-row matrix.
func row(a Array) Matrix {
	return Matrix{rows: [][]Value{a.elems}, cols: a.Len()}
}

// collection applies op when at least one operand is an Array or Matrix.
func collection(op Op, a, b Value) (Value, error) {
	switch x := a.(type) {
	case Array:
		switch y := b.(type) {
		case Array:
			switch op {
			case OpAdd, OpSub:
				if x.Len() != y.Len() {
					return nil, diag.Errorf(diag.DimensionError, "vector lengths %d and %d differ for %s", x.Len(), y.Len(), op)
				}
				return zip(op, x.elems, y.elems)
			case OpMul:
				return Dot(x, y)
			}
		case Matrix:
			if op == OpMul {
				if x.Len() != y.Rows() {
					return nil, diag.Errorf(diag.DimensionError, "cannot multiply vector of length %d by %dx%d matrix",
						x.Len(), y.Rows(), y.cols)
				}
				p, err := MatMul(row(x), y)
				if err != nil {
					return nil, err
				}
				return p.(Matrix).Row(0), nil
			}
		default:
			if IsNumber(b) && (op == OpMul || op == OpDiv) {
				return x.mapElems(func(v Value) (Value, error) { return Binary(op, v, b) })
			}
		}
	case Matrix:
		switch y := b.(type) {
		case Matrix:
			switch op {
			case OpAdd, OpSub:
				if x.Rows() != y.Rows() || x.cols != y.cols {
					return nil, diag.Errorf(diag.DimensionError, "matrix shapes %dx%d and %dx%d differ for %s",
						x.Rows(), x.cols, y.Rows(), y.cols, op)
				}
				out := make([][]Value, x.Rows())
				for i := range out {
					r, err := zip(op, x.rows[i], y.rows[i])
					if err != nil {
						return nil, err
					}
					out[i] = r.(Array).elems
				}
				return Matrix{rows: out, cols: x.cols}, nil
			case OpMul:
				return MatMul(x, y)
			}
		case Array:
			if op == OpMul {
				if x.cols != y.Len() {
					return nil, diag.Errorf(diag.DimensionError, "cannot multiply %dx%d matrix by vector of length %d",
						x.Rows(), x.cols, y.Len())
				}
				p, err := MatMul(x, column(y))
				if err != nil {
					return nil, err
				}
				m := p.(Matrix)
				out := make([]Value, m.Rows())
				for i := range out {
					out[i] = m.rows[i][0]
				}
				return NewArray(out), nil
			}
		default:
			if IsNumber(b) {
				switch op {
				case OpMul, OpDiv:
					return x.mapElems(func(v Value) (Value, error) { return Binary(op, v, b) })
				case OpPow:
					return matrixPower(x, b)
				}
			}
		}
	default:
		if IsNumber(a) && op == OpMul {
			switch y := b.(type) {
			case Array:
				return y.mapElems(func(v Value) (Value, error) { return Binary(op, a, v) })
			case Matrix:
				return y.mapElems(func(v Value) (Value, error) { return Binary(op, a, v) })
			}
		}
	}
	return nil, typeError(op, a, b)
}

func zip(op Op, xs, ys []Value) (Value, error) {
	out := make([]Value, len(xs))
	for i := range xs {
		v, err := Binary(op, xs[i], ys[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return NewArray(out), nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) (Matrix, error) {
	if n < 1 {
		return Matrix{}, diag.Errorf(diag.DimensionError, "identity matrix size must be positive, got %d", n)
	}
	rows := make([][]Value, n)
	for i := range rows {
		rows[i] = make([]Value, n)
		for j := range rows[i] {
			rows[i][j] = Int(0)
		}
		rows[i][i] = Int(1)
	}
	return Matrix{rows: rows, cols: n}, nil
}

// matrixPower raises a square matrix to a non-negative integer power.
func matrixPower(m Matrix, b Value) (Value, error) {
	if !m.IsSquare() {
		return nil, diag.Errorf(diag.DimensionError, "matrix power requires a square matrix, got %dx%d", m.Rows(), m.cols)
	}
	n, ok := ToInt(b)
	if !ok || n < 0 || n > maxExactExponent {
		return nil, diag.Errorf(diag.ValueError, "matrix exponent must be a non-negative integer, got %s", b)
	}
	result, _ := Identity(m.Rows())
	var acc Value = result
	base := Value(m)
	for n > 0 {
		var err error
		if n&1 == 1 {
			if acc, err = MatMul(acc.(Matrix), base.(Matrix)); err != nil {
				return nil, err
			}
		}
		n >>= 1
		if n > 0 {
			if base, err = MatMul(base.(Matrix), base.(Matrix)); err != nil {
				return nil, err
			}
		}
	}
	return acc, nil
}

// Transpose returns the transpose of m.
func Transpose(m Matrix) Matrix {
	out := make([][]Value, m.cols)
	for j := range out {
		out[j] = make([]Value, len(m.rows))
		for i := range m.rows {
			out[j][i] = m.rows[i][j]
		}
	}
	return Matrix{rows: out, cols: len(m.rows)}
}
