// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package value

import (
	"math"
	"math/big"
	"strings"

	"nickandperla.net/lamina/internal/diag"
)

// CompareTolerance is the relative tolerance used when two irrationals with
// different radicals can only be compared numerically. Magnitudes below 1
// are compared with an absolute tolerance of the same size.
const CompareTolerance = 1e-12

// Compare orders two numbers or two strings, returning -1, 0 or +1.
func Compare(a, b Value) (int, error) {
	if sa, ok := a.(String); ok {
		if sb, ok := b.(String); ok {
			return strings.Compare(string(sa), string(sb)), nil
		}
	}
	if !IsNumber(a) || !IsNumber(b) {
		return 0, diag.Errorf(diag.TypeError, "cannot compare %s and %s", a.Kind(), b.Kind())
	}

	r := max(rank(a), rank(b))
	switch {
	case r <= 2:
		x, _ := ToRat(a)
		y, _ := ToRat(b)
		return x.Cmp(y), nil
	case r == 3:
		x, _ := toMono(a)
		y, _ := toMono(b)
		if x.sameRadix(y) {
			// √r, π^p and e^q are all positive.
			return x.coef.Cmp(y.coef), nil
		}
		if x.pi == 0 && x.e == 0 && y.pi == 0 && y.e == 0 {
			return compareRadicals(x, y), nil
		}
		return approxCompare(x.float(), y.float()), nil
	}
	x, _ := ToFloat(a)
	y, _ := ToFloat(b)
	if rank(a) == 3 || rank(b) == 3 {
		return approxCompare(x, y), nil
	}
	switch {
	case x < y:
		return -1, nil
	case x > y:
		return 1, nil
	}
	return 0, nil
}

// compareRadicals orders c1√r1 and c2√r2 exactly by comparing signs and then
// the rationals c²r.
func compareRadicals(x, y mono) int {
	sx, sy := x.coef.Sign(), y.coef.Sign()
	if sx != sy {
		if sx < sy {
			return -1
		}
		return 1
	}
	square := func(m mono) *big.Rat {
		c := new(big.Rat).Mul(m.coef, m.coef)
		return c.Mul(c, new(big.Rat).SetInt(m.rad))
	}
	c := square(x).Cmp(square(y))
	if sx < 0 {
		return -c
	}
	return c
}

func approxCompare(x, y float64) int {
	scale := math.Max(1, math.Max(math.Abs(x), math.Abs(y)))
	if math.Abs(x-y) <= CompareTolerance*scale {
		return 0
	}
	if x < y {
		return -1
	}
	return 1
}

// Equal reports whether a and b are the same value. Values of unrelated
// kinds are unequal rather than an error.
func Equal(a, b Value) bool {
	if IsNumber(a) && IsNumber(b) {
		c, err := Compare(a, b)
		return err == nil && c == 0
	}
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Array:
		y, ok := b.(Array)
		return ok && equalSlices(x.elems, y.elems)
	case Matrix:
		y, ok := b.(Matrix)
		if !ok || x.Rows() != y.Rows() || x.cols != y.cols {
			return false
		}
		for i := range x.rows {
			if !equalSlices(x.rows[i], y.rows[i]) {
				return false
			}
		}
		return true
	case Struct:
		y, ok := b.(Struct)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, k := range x.keys {
			yv, ok := y.vals[k]
			if !ok || !Equal(x.vals[k], yv) {
				return false
			}
		}
		return true
	}
	return a == b
}

func equalSlices(xs, ys []Value) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !Equal(xs[i], ys[i]) {
			return false
		}
	}
	return true
}
