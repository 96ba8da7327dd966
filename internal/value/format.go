// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package value

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"nickandperla.net/lamina/internal/token"
)

// Sourcer is implemented by values that carry their own source text, such as
// user functions.
type Sourcer interface {
	Source() (string, bool)
}

// Source renders v as a Lamina expression that evaluates back to an equal
// value. It reports false for values with no source form (NaN, infinities,
// built-in functions).
func Source(v Value) (string, bool) {
	switch v := v.(type) {
	case Null, Bool, Int, BigInt:
		return v.String(), true
	case Rational:
		return "(" + v.v.RatString() + ")", true
	case Irrational:
		return irrationalSource(v), true
	case Float:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", false
		}
		return "decimal(" + strconv.FormatFloat(f, 'g', -1, 64) + ")", true
	case String:
		return strconv.Quote(string(v)), true
	case Array:
		return listSource(v.elems)
	case Matrix:
		rows := make([]string, len(v.rows))
		for i, r := range v.rows {
			s, ok := listSource(r)
			if !ok {
				return "", false
			}
			rows[i] = s
		}
		return "[" + strings.Join(rows, ", ") + "]", true
	case Struct:
		parts := make([]string, len(v.keys))
		for i, k := range v.keys {
			s, ok := Source(v.vals[k])
			if !ok {
				return "", false
			}
			key := k
			if !isPlainKey(k) {
				key = strconv.Quote(k)
			}
			parts[i] = key + ": " + s
		}
		return "{" + strings.Join(parts, ", ") + "}", true
	case Sourcer:
		return v.Source()
	}
	return "", false
}

func listSource(vs []Value) (string, bool) {
	parts := make([]string, len(vs))
	for i, e := range vs {
		s, ok := Source(e)
		if !ok {
			return "", false
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, ", ") + "]", true
}

// irrationalSource spells a monomial as a product of exact factors:
// (3/4)*sqrt(2)*pi()^(-1).
func irrationalSource(x Irrational) string {
	parts := []string{"(" + x.coef.RatString() + ")"}
	if x.rad.Cmp(bigOne) != 0 {
		parts = append(parts, "sqrt("+x.rad.String()+")")
	}
	constant := func(name string, exp int) {
		switch exp {
		case 0:
		case 1:
			parts = append(parts, name)
		default:
			parts = append(parts, name+"^("+strconv.Itoa(exp)+")")
		}
	}
	constant("pi()", x.pi)
	constant("e()", x.e)
	return strings.Join(parts, "*")
}

func isPlainKey(k string) bool {
	if k == "" {
		return false
	}
	for i, r := range k {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return token.Lookup(k) == token.IDENT
}

// Not returns the logical negation of v's truthiness.
func Not(v Value) Value {
	return Bool(!Truthy(v))
}
