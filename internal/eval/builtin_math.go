// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"math"
	"math/big"

	"nickandperla.net/lamina/internal/diag"
	"nickandperla.net/lamina/internal/value"
)

var mathBuiltins = []Builtin{
	{"sqrt", 1, 1, func(_ *Evaluator, args []value.Value) (value.Value, error) { return value.Sqrt(args[0]) }},
	{"pi", 0, 0, func(*Evaluator, []value.Value) (value.Value, error) { return value.Pi(), nil }},
	{"e", 0, 0, func(*Evaluator, []value.Value) (value.Value, error) { return value.E(), nil }},
	{"abs", 1, 1, func(_ *Evaluator, args []value.Value) (value.Value, error) { return value.Abs(args[0]) }},
	{"factorial", 1, 1, func(_ *Evaluator, args []value.Value) (value.Value, error) { return value.Factorial(args[0]) }},
	trig("sin", math.Sin, value.Int(0)),
	trig("cos", math.Cos, value.Int(1)),
	trig("tan", math.Tan, value.Int(0)),
	trig("asin", math.Asin, value.Int(0)),
	floatFn("acos", math.Acos),
	trig("atan", math.Atan, value.Int(0)),
	{"exp", 1, 1, builtinExp},
	{"log", 1, 2, builtinLog},
	{"log10", 1, 1, func(e *Evaluator, args []value.Value) (value.Value, error) {
		return builtinLog(e, []value.Value{args[0], value.Int(10)})
	}},
	{"floor", 1, 1, rounding("floor", floorRat, math.Floor)},
	{"ceil", 1, 1, rounding("ceil", ceilRat, math.Ceil)},
	{"round", 1, 1, rounding("round", roundRat, math.Round)},
	{"min", 1, -1, extremum("min", -1)},
	{"max", 1, -1, extremum("max", 1)},
	{"gcd", 2, 2, builtinGCD},
	{"lcm", 2, 2, builtinLCM},
}

// trig is a float function whose value at an exact zero is exact.
func trig(name string, f func(float64) float64, atZero value.Value) Builtin {
	b := floatFn(name, f)
	fn := b.Fn
	b.Fn = func(e *Evaluator, args []value.Value) (value.Value, error) {
		if isExactZero(args[0]) {
			return atZero, nil
		}
		return fn(e, args)
	}
	return b
}

func isExactZero(v value.Value) bool {
	if _, ok := v.(value.Float); ok {
		return false
	}
	return value.IsNumber(v) && value.Sign(v) == 0
}

// builtinExp is exact for integer arguments: exp(n) is e^n.
func builtinExp(_ *Evaluator, args []value.Value) (value.Value, error) {
	if value.IsInteger(args[0]) {
		if n, ok := value.ToInt(args[0]); ok && n >= -64 && n <= 64 {
			return value.Pow(value.E(), args[0])
		}
	}
	x, err := float("exp", args[0])
	if err != nil {
		return nil, err
	}
	return value.Float(math.Exp(x)), nil
}

// builtinLog returns the natural logarithm, or the logarithm to a base.
// Exact powers of e and integer powers of an integer base give integers.
func builtinLog(_ *Evaluator, args []value.Value) (value.Value, error) {
	x, err := number("log", args[0])
	if err != nil {
		return nil, err
	}
	if value.Sign(x) <= 0 {
		return nil, diag.Errorf(diag.ValueError, "log of non-positive number %s", x)
	}
	if len(args) == 1 {
		if n, ok := ePower(x); ok {
			return value.Int(n), nil
		}
		f, _ := value.ToFloat(x)
		return value.Float(math.Log(f)), nil
	}

	base, err := number("log", args[1])
	if err != nil {
		return nil, err
	}
	if value.Sign(base) <= 0 || value.Equal(base, value.Int(1)) {
		return nil, diag.Errorf(diag.ValueError, "invalid logarithm base %s", base)
	}
	if n, ok := intLog(x, base); ok {
		return value.Int(n), nil
	}
	f, _ := value.ToFloat(x)
	b, _ := value.ToFloat(base)
	return value.Float(math.Log(f) / math.Log(b)), nil
}

// ePower reports n when x is exactly e^n.
func ePower(x value.Value) (int, bool) {
	if value.Equal(x, value.Int(1)) {
		return 0, true
	}
	ir, ok := x.(value.Irrational)
	if !ok || ir.PiExp() != 0 || ir.Radicand().Cmp(big.NewInt(1)) != 0 || ir.Coef().Cmp(big.NewRat(1, 1)) != 0 {
		return 0, false
	}
	return ir.EExp(), true
}

// intLog reports n when x == base^n for integers x, base > 1.
func intLog(x, base value.Value) (int, bool) {
	xi, ok1 := value.ToBigInt(x)
	bi, ok2 := value.ToBigInt(base)
	if !ok1 || !ok2 || bi.Cmp(big.NewInt(1)) <= 0 {
		return 0, false
	}
	p := big.NewInt(1)
	for n := 0; p.Cmp(xi) <= 0; n++ {
		if p.Cmp(xi) == 0 {
			return n, true
		}
		p.Mul(p, bi)
	}
	return 0, false
}

// rounding builds floor, ceil and round: exact on rationals, via float64
// otherwise. The result is always an integer value.
func rounding(name string, exact func(*big.Rat) *big.Int, approx func(float64) float64) BuiltinFunc {
	return func(_ *Evaluator, args []value.Value) (value.Value, error) {
		x, err := number(name, args[0])
		if err != nil {
			return nil, err
		}
		if r, ok := value.ToRat(x); ok {
			return value.IntValue(exact(r)), nil
		}
		f, _ := value.ToFloat(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return value.Float(f), nil
		}
		z, _ := big.NewFloat(approx(f)).Int(nil)
		return value.IntValue(z), nil
	}
}

func floorRat(r *big.Rat) *big.Int {
	// Euclidean division with a positive divisor is floor division.
	q, m := new(big.Int), new(big.Int)
	q.DivMod(r.Num(), r.Denom(), m)
	return q
}

func ceilRat(r *big.Rat) *big.Int {
	return new(big.Int).Neg(floorRat(new(big.Rat).Neg(r)))
}

// roundRat rounds half away from zero.
func roundRat(r *big.Rat) *big.Int {
	half := big.NewRat(1, 2)
	if r.Sign() < 0 {
		return new(big.Int).Neg(floorRat(new(big.Rat).Add(new(big.Rat).Neg(r), half)))
	}
	return floorRat(new(big.Rat).Add(r, half))
}

// extremum builds min (dir -1) and max (dir +1). A single array argument
// is searched elementwise.
func extremum(name string, dir int) BuiltinFunc {
	return func(_ *Evaluator, args []value.Value) (value.Value, error) {
		if len(args) == 1 {
			if a, ok := args[0].(value.Array); ok {
				args = a.Elems()
				if len(args) == 0 {
					return nil, diag.Errorf(diag.ValueError, "%s of empty array", name)
				}
			}
		}
		best := args[0]
		for _, v := range args[1:] {
			c, err := value.Compare(v, best)
			if err != nil {
				return nil, err
			}
			if c*dir > 0 {
				best = v
			}
		}
		if _, err := number(name, best); err != nil {
			if _, ok := best.(value.String); !ok {
				return nil, err
			}
		}
		return best, nil
	}
}

func intArgs(name string, args []value.Value) (*big.Int, *big.Int, error) {
	a, ok1 := value.ToBigInt(args[0])
	b, ok2 := value.ToBigInt(args[1])
	if !ok1 || !ok2 {
		return nil, nil, diag.Errorf(diag.TypeError, "%s expects integers, got %s and %s", name, args[0].Kind(), args[1].Kind())
	}
	return a, b, nil
}

func builtinGCD(_ *Evaluator, args []value.Value) (value.Value, error) {
	a, b, err := intArgs("gcd", args)
	if err != nil {
		return nil, err
	}
	return value.IntValue(new(big.Int).GCD(nil, nil, a.Abs(a), b.Abs(b))), nil
}

func builtinLCM(_ *Evaluator, args []value.Value) (value.Value, error) {
	a, b, err := intArgs("lcm", args)
	if err != nil {
		return nil, err
	}
	if a.Sign() == 0 || b.Sign() == 0 {
		return value.Int(0), nil
	}
	a.Abs(a)
	b.Abs(b)
	g := new(big.Int).GCD(nil, nil, a, b)
	return value.IntValue(new(big.Int).Mul(new(big.Int).Quo(a, g), b)), nil
}
