// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package value

import (
	"math"
	"math/big"

	"nickandperla.net/lamina/internal/diag"
)

// Op is a binary arithmetic operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpPow:
		return "^"
	}
	return "?"
}

// maxExactExponent bounds integer exponents applied to exact bases.
const maxExactExponent = 1 << 16

// maxFactorial bounds the argument of Factorial.
const maxFactorial = 100000

func typeError(op Op, a, b Value) error {
	return diag.Errorf(diag.TypeError, "unsupported operand types for %s: %s and %s", op, a.Kind(), b.Kind())
}

func divisionByZero() error {
	return diag.Errorf(diag.ValueError, "division by zero")
}

// Add returns a + b.
func Add(a, b Value) (Value, error) { return Binary(OpAdd, a, b) }

// Sub returns a - b.
func Sub(a, b Value) (Value, error) { return Binary(OpSub, a, b) }

// Mul returns a * b.
func Mul(a, b Value) (Value, error) { return Binary(OpMul, a, b) }

// Div returns a / b.
func Div(a, b Value) (Value, error) { return Binary(OpDiv, a, b) }

// Mod returns a % b.
func Mod(a, b Value) (Value, error) { return Binary(OpMod, a, b) }

// Pow returns a ^ b.
func Pow(a, b Value) (Value, error) { return Binary(OpPow, a, b) }

// Binary applies op to a and b, promoting numeric operands to the weakest
// representation that holds the exact result.
func Binary(op Op, a, b Value) (Value, error) {
	if IsNumber(a) && IsNumber(b) {
		if op == OpPow {
			return power(a, b)
		}
		return numeric(op, a, b)
	}
	switch a.Kind() {
	case ArrayKind, MatrixKind:
		return collection(op, a, b)
	case StringKind:
		if s, ok := b.(String); ok && op == OpAdd {
			return a.(String) + s, nil
		}
	}
	switch b.Kind() {
	case ArrayKind, MatrixKind:
		return collection(op, a, b)
	}
	return nil, typeError(op, a, b)
}

func numeric(op Op, a, b Value) (Value, error) {
	r := max(rank(a), rank(b))
	switch r {
	case 0:
		return intOp(op, int64(a.(Int)), int64(b.(Int)))
	case 1:
		x, _ := ToBigInt(a)
		y, _ := ToBigInt(b)
		return bigOp(op, x, y)
	case 2:
		x, _ := ToRat(a)
		y, _ := ToRat(b)
		return ratOp(op, x, y)
	case 3:
		x, _ := toMono(a)
		y, _ := toMono(b)
		return monoOp(op, x, y)
	}
	x, _ := ToFloat(a)
	y, _ := ToFloat(b)
	return floatOp(op, x, y)
}

func intOp(op Op, x, y int64) (Value, error) {
	var (
		z  int64
		ok bool
	)
	switch op {
	case OpAdd:
		z, ok = addInt(x, y)
	case OpSub:
		z, ok = subInt(x, y)
	case OpMul:
		z, ok = mulInt(x, y)
	case OpDiv:
		if y == 0 {
			return nil, divisionByZero()
		}
		if x%y == 0 && !(x == math.MinInt64 && y == -1) {
			return Int(x / y), nil
		}
		return RatValue(new(big.Rat).SetFrac(big.NewInt(x), big.NewInt(y))), nil
	case OpMod:
		if y == 0 {
			return nil, divisionByZero()
		}
		return Int(x % y), nil
	}
	if ok {
		return Int(z), nil
	}
	// Overflow: redo the operation with arbitrary precision.
	v, err := bigOp(op, big.NewInt(x), big.NewInt(y))
	if err != nil {
		return nil, err
	}
	return v, nil
}

// bigOp keeps integer results as BigInt; BigInt is the stronger representation.
func bigOp(op Op, x, y *big.Int) (Value, error) {
	z := new(big.Int)
	switch op {
	case OpAdd:
		z.Add(x, y)
	case OpSub:
		z.Sub(x, y)
	case OpMul:
		z.Mul(x, y)
	case OpDiv:
		if y.Sign() == 0 {
			return nil, divisionByZero()
		}
		rem := new(big.Int)
		z.QuoRem(x, y, rem)
		if rem.Sign() != 0 {
			return RatValue(new(big.Rat).SetFrac(x, y)), nil
		}
	case OpMod:
		if y.Sign() == 0 {
			return nil, divisionByZero()
		}
		z.Rem(x, y)
	}
	return BigInt{v: z}, nil
}

func ratOp(op Op, x, y *big.Rat) (Value, error) {
	z := new(big.Rat)
	switch op {
	case OpAdd:
		z.Add(x, y)
	case OpSub:
		z.Sub(x, y)
	case OpMul:
		z.Mul(x, y)
	case OpDiv:
		if y.Sign() == 0 {
			return nil, divisionByZero()
		}
		z.Quo(x, y)
	case OpMod:
		if y.Sign() == 0 {
			return nil, divisionByZero()
		}
		// x - y*trunc(x/y)
		q := new(big.Rat).Quo(x, y)
		t := new(big.Int).Quo(q.Num(), q.Denom())
		z.Sub(x, new(big.Rat).Mul(y, new(big.Rat).SetInt(t)))
	}
	return RatValue(z), nil
}

func monoOp(op Op, x, y mono) (Value, error) {
	switch op {
	case OpAdd, OpSub:
		if !x.sameRadix(y) {
			break
		}
		c := new(big.Rat)
		if op == OpAdd {
			c.Add(x.coef, y.coef)
		} else {
			c.Sub(x.coef, y.coef)
		}
		return mono{coef: c, rad: x.rad, pi: x.pi, e: x.e}.value(), nil
	case OpMul:
		return x.mul(y).value(), nil
	case OpDiv:
		m, err := x.div(y)
		if err != nil {
			return nil, err
		}
		return m.value(), nil
	}
	return floatOp(op, x.float(), y.float())
}

func floatOp(op Op, x, y float64) (Value, error) {
	switch op {
	case OpAdd:
		return Float(x + y), nil
	case OpSub:
		return Float(x - y), nil
	case OpMul:
		return Float(x * y), nil
	case OpDiv:
		if y == 0 {
			return nil, divisionByZero()
		}
		return Float(x / y), nil
	case OpMod:
		if y == 0 {
			return nil, divisionByZero()
		}
		return Float(math.Mod(x, y)), nil
	}
	return Float(math.Pow(x, y)), nil
}

// power computes a ^ b. Integer exponents on exact bases stay exact; an
// exponent with denominator 2 goes through Sqrt.
func power(a, b Value) (Value, error) {
	if rank(a) == 4 || rank(b) >= 3 {
		return floatPower(a, b)
	}
	if r, ok := b.(Rational); ok {
		if r.v.Denom().Cmp(big.NewInt(2)) != 0 {
			return floatPower(a, b)
		}
		p, err := power(a, IntValue(r.v.Num()))
		if err != nil {
			return nil, err
		}
		return Sqrt(p)
	}

	n, ok := ToInt(b)
	m, _ := toMono(a)
	if m.coef.Sign() == 0 {
		if Sign(b) < 0 {
			return nil, divisionByZero()
		}
		if Sign(b) == 0 {
			return Int(1), nil
		}
		return a, nil
	}
	if m.isRational() && m.coef.IsInt() && m.coef.Num().CmpAbs(bigOne) == 0 {
		// ±1 to any integer power
		if m.coef.Sign() > 0 || isEven(b) {
			return Int(1), nil
		}
		return Int(-1), nil
	}
	if !ok || n > maxExactExponent || n < -maxExactExponent {
		return nil, diag.Errorf(diag.ValueError, "exponent %s too large for exact arithmetic", b)
	}
	p, err := m.pow(n)
	if err != nil {
		return nil, err
	}
	v := p.value()
	if _, isBig := a.(BigInt); isBig && n >= 0 {
		if x, ok := ToBigInt(v); ok {
			return BigInt{v: x}, nil
		}
	}
	return v, nil
}

func isEven(v Value) bool {
	x, _ := ToBigInt(v)
	return x.Bit(0) == 0
}

func floatPower(a, b Value) (Value, error) {
	x, _ := ToFloat(a)
	y, _ := ToFloat(b)
	if x == 0 && y < 0 {
		return nil, divisionByZero()
	}
	z := math.Pow(x, y)
	if math.IsNaN(z) {
		return nil, diag.Errorf(diag.ValueError, "%s ^ %s has no real result", a, b)
	}
	return Float(z), nil
}

// Neg returns -v.
func Neg(v Value) (Value, error) {
	switch v := v.(type) {
	case Int:
		if v == math.MinInt64 {
			return BigInt{v: new(big.Int).Neg(big.NewInt(int64(v)))}, nil
		}
		return -v, nil
	case BigInt:
		return BigInt{v: new(big.Int).Neg(v.v)}, nil
	case Rational:
		return Rational{v: new(big.Rat).Neg(v.v)}, nil
	case Irrational:
		return Irrational{coef: new(big.Rat).Neg(v.coef), rad: v.rad, pi: v.pi, e: v.e}, nil
	case Float:
		return -v, nil
	case Array:
		return v.mapElems(Neg)
	case Matrix:
		return v.mapElems(Neg)
	}
	return nil, diag.Errorf(diag.TypeError, "bad operand type for unary -: %s", v.Kind())
}

// Abs returns |v|.
func Abs(v Value) (Value, error) {
	if !IsNumber(v) {
		return nil, diag.Errorf(diag.TypeError, "abs expects a number, got %s", v.Kind())
	}
	if Sign(v) < 0 {
		return Neg(v)
	}
	return v, nil
}

// Factorial returns n! for a non-negative integer n. Results that do not fit
// in int64 are BigInt; a BigInt argument always yields a BigInt.
func Factorial(v Value) (Value, error) {
	if !IsNumber(v) {
		return nil, diag.Errorf(diag.TypeError, "factorial expects an integer, got %s", v.Kind())
	}
	n, ok := ToBigInt(v)
	if !ok {
		return nil, diag.Errorf(diag.ValueError, "factorial is only defined for non-negative integers, got %s", v)
	}
	if n.Sign() < 0 {
		return nil, diag.Errorf(diag.ValueError, "factorial of negative number %s", v)
	}
	if n.Cmp(big.NewInt(maxFactorial)) > 0 {
		return nil, diag.Errorf(diag.ValueError, "factorial argument %s too large", v)
	}
	z := new(big.Int).MulRange(1, n.Int64())
	if _, isBig := v.(BigInt); isBig {
		return BigInt{v: z}, nil
	}
	return IntValue(z), nil
}
