// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package value

import (
	"math"
	"math/big"
	"strconv"

	"nickandperla.net/lamina/internal/diag"
)

// Int is a machine-width integer.
type Int int64

func (Int) Kind() Kind       { return IntKind }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// BigInt is an arbitrary precision integer.
type BigInt struct {
	v *big.Int
}

// NewBigInt returns a BigInt holding a copy of x.
func NewBigInt(x *big.Int) BigInt {
	return BigInt{v: new(big.Int).Set(x)}
}

func (BigInt) Kind() Kind       { return BigIntKind }
func (b BigInt) String() string { return b.v.String() }

// Big returns a copy of the underlying integer.
func (b BigInt) Big() *big.Int { return new(big.Int).Set(b.v) }

// Rational is an exact fraction in lowest terms with denominator > 1.
type Rational struct {
	v *big.Rat
}

func (Rational) Kind() Kind       { return RationalKind }
func (r Rational) String() string { return r.v.RatString() }

// Rat returns a copy of the underlying fraction.
func (r Rational) Rat() *big.Rat { return new(big.Rat).Set(r.v) }

// Float is an IEEE double, used only when exactness cannot be preserved.
type Float float64

func (Float) Kind() Kind { return FloatKind }
func (f Float) String() string {
	return formatFloat(float64(f))
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if a := math.Abs(f); a == 0 || (a >= 1e-6 && a < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// IntValue returns x as an Int when it fits in int64, otherwise as a BigInt.
func IntValue(x *big.Int) Value {
	if x.IsInt64() {
		return Int(x.Int64())
	}
	return BigInt{v: new(big.Int).Set(x)}
}

// RatValue returns r in its weakest exact representation: Int or BigInt when
// the denominator is 1, Rational otherwise.
func RatValue(r *big.Rat) Value {
	if r.IsInt() {
		return IntValue(r.Num())
	}
	return Rational{v: new(big.Rat).Set(r)}
}

// NewRational returns num/den reduced to lowest terms.
func NewRational(num, den *big.Int) (Value, error) {
	if den.Sign() == 0 {
		return nil, diag.Errorf(diag.ValueError, "division by zero")
	}
	return RatValue(new(big.Rat).SetFrac(num, den)), nil
}

// ParseDecimal converts a decimal literal such as "0.1" or "1.5e-3" to an
// exact value.
func ParseDecimal(lit string) (Value, error) {
	if len(lit) > 0 && lit[0] == '.' {
		lit = "0" + lit
	}
	r, ok := new(big.Rat).SetString(lit)
	if !ok {
		return nil, diag.Errorf(diag.LexError, "invalid numeric literal %q", lit)
	}
	return RatValue(r), nil
}

// ParseInt converts an integer literal, promoting to BigInt when it exceeds int64.
func ParseInt(lit string) (Value, error) {
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return Int(i), nil
	}
	x, ok := new(big.Int).SetString(lit, 10)
	if !ok {
		return nil, diag.Errorf(diag.LexError, "invalid numeric literal %q", lit)
	}
	return BigInt{v: x}, nil
}

// IsNumber reports whether v belongs to the numeric tower.
func IsNumber(v Value) bool {
	switch v.(type) {
	case Int, BigInt, Rational, Irrational, Float:
		return true
	}
	return false
}

// IsInteger reports whether v is an Int or BigInt.
func IsInteger(v Value) bool {
	switch v.(type) {
	case Int, BigInt:
		return true
	}
	return false
}

// rank orders numeric kinds from weakest to strongest.
func rank(v Value) int {
	switch v.(type) {
	case Int:
		return 0
	case BigInt:
		return 1
	case Rational:
		return 2
	case Irrational:
		return 3
	case Float:
		return 4
	}
	return -1
}

// ToBigInt returns the integer held by an Int or BigInt.
func ToBigInt(v Value) (*big.Int, bool) {
	switch v := v.(type) {
	case Int:
		return big.NewInt(int64(v)), true
	case BigInt:
		return new(big.Int).Set(v.v), true
	}
	return nil, false
}

// ToRat returns the exact fraction held by an Int, BigInt or Rational.
func ToRat(v Value) (*big.Rat, bool) {
	switch v := v.(type) {
	case Int:
		return new(big.Rat).SetInt64(int64(v)), true
	case BigInt:
		return new(big.Rat).SetInt(v.v), true
	case Rational:
		return new(big.Rat).Set(v.v), true
	}
	return nil, false
}

// ToFloat approximates any numeric value as a float64.
func ToFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int:
		return float64(v), true
	case BigInt:
		f, _ := new(big.Float).SetInt(v.v).Float64()
		return f, true
	case Rational:
		f, _ := v.v.Float64()
		return f, true
	case Irrational:
		return v.float(), true
	case Float:
		return float64(v), true
	}
	return 0, false
}

// ToInt returns v as an int when it is an integer that fits.
func ToInt(v Value) (int, bool) {
	switch v := v.(type) {
	case Int:
		if int64(int(v)) == int64(v) {
			return int(v), true
		}
	case BigInt:
		if v.v.IsInt64() {
			i := v.v.Int64()
			if int64(int(i)) == i {
				return int(i), true
			}
		}
	}
	return 0, false
}

// Sign returns -1, 0 or +1 for a numeric value.
func Sign(v Value) int {
	switch v := v.(type) {
	case Int:
		switch {
		case v < 0:
			return -1
		case v > 0:
			return 1
		}
		return 0
	case BigInt:
		return v.v.Sign()
	case Rational:
		return v.v.Sign()
	case Irrational:
		return v.coef.Sign()
	case Float:
		switch {
		case v < 0:
			return -1
		case v > 0:
			return 1
		}
	}
	return 0
}

// FloatToExact converts f to the exact rational of its shortest decimal
// rendering, so 0.1 becomes 1/10 rather than its binary expansion.
func FloatToExact(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, diag.Errorf(diag.ValueError, "cannot convert %s to a fraction", formatFloat(f))
	}
	return ParseDecimal(strconv.FormatFloat(f, 'g', -1, 64))
}

func addInt(a, b int64) (int64, bool) {
	c := a + b
	return c, (c > a) == (b > 0)
}

func subInt(a, b int64) (int64, bool) {
	c := a - b
	return c, (c < a) == (b > 0)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	c := a * b
	return c, c/b == a
}
