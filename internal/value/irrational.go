// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package value

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"nickandperla.net/lamina/internal/diag"
)

// trialDivisionLimit bounds the primes tried when extracting square factors.
// A cofactor left after trial division is only checked for being a perfect
// square, so radicands with two large repeated prime factors may stay
// unsimplified.
const trialDivisionLimit = 1_000_000

// Irrational is an exact symbolic monomial coef × √rad × π^pi × e^e.
// coef is non-zero, rad is square-free and ≥ 1, and at least one of
// rad > 1, pi ≠ 0, e ≠ 0 holds (otherwise the value is rational).
type Irrational struct {
	coef *big.Rat
	rad  *big.Int
	pi   int
	e    int
}

func (Irrational) Kind() Kind { return IrrationalKind }

// Coef returns a copy of the rational coefficient.
func (x Irrational) Coef() *big.Rat { return new(big.Rat).Set(x.coef) }

// Radicand returns a copy of the square-free radicand.
func (x Irrational) Radicand() *big.Int { return new(big.Int).Set(x.rad) }

// PiExp returns the exponent of π.
func (x Irrational) PiExp() int { return x.pi }

// EExp returns the exponent of e.
func (x Irrational) EExp() int { return x.e }

// Pi is the exact constant π.
func Pi() Value { return mono{coef: big.NewRat(1, 1), rad: big.NewInt(1), pi: 1}.value() }

// E is the exact constant e.
func E() Value { return mono{coef: big.NewRat(1, 1), rad: big.NewInt(1), e: 1}.value() }

// mono is the working form of any exact number: rationals have rad 1 and zero
// exponents.
type mono struct {
	coef *big.Rat
	rad  *big.Int
	pi   int
	e    int
}

func toMono(v Value) (mono, bool) {
	if x, ok := v.(Irrational); ok {
		return mono{coef: x.coef, rad: x.rad, pi: x.pi, e: x.e}, true
	}
	if r, ok := ToRat(v); ok {
		return mono{coef: r, rad: big.NewInt(1)}, true
	}
	return mono{}, false
}

// sameRadix reports whether m and n differ only in their coefficient.
func (m mono) sameRadix(n mono) bool {
	return m.rad.Cmp(n.rad) == 0 && m.pi == n.pi && m.e == n.e
}

func (m mono) isRational() bool {
	return m.rad.Cmp(bigOne) == 0 && m.pi == 0 && m.e == 0
}

// value demotes m to its weakest representation.
func (m mono) value() Value {
	if m.coef.Sign() == 0 {
		return Int(0)
	}
	if m.isRational() {
		return RatValue(m.coef)
	}
	return Irrational{coef: new(big.Rat).Set(m.coef), rad: new(big.Int).Set(m.rad), pi: m.pi, e: m.e}
}

func (m mono) float() float64 {
	c, _ := m.coef.Float64()
	r, _ := new(big.Float).SetInt(m.rad).Float64()
	return c * math.Sqrt(r) * math.Pow(math.Pi, float64(m.pi)) * math.Pow(math.E, float64(m.e))
}

func (x Irrational) float() float64 {
	return mono{coef: x.coef, rad: x.rad, pi: x.pi, e: x.e}.float()
}

var bigOne = big.NewInt(1)

func (m mono) mul(n mono) mono {
	coef := new(big.Rat).Mul(m.coef, n.coef)
	// √a·√b = √(ab); pull out the square part of ab.
	s, f := squareFactor(new(big.Int).Mul(m.rad, n.rad))
	coef.Mul(coef, new(big.Rat).SetInt(s))
	return mono{coef: coef, rad: f, pi: m.pi + n.pi, e: m.e + n.e}
}

func (m mono) inverse() (mono, error) {
	if m.coef.Sign() == 0 {
		return mono{}, diag.Errorf(diag.ValueError, "division by zero")
	}
	// 1/(c√r) = √r/(c·r)
	coef := new(big.Rat).Inv(m.coef)
	coef.Quo(coef, new(big.Rat).SetInt(m.rad))
	return mono{coef: coef, rad: new(big.Int).Set(m.rad), pi: -m.pi, e: -m.e}, nil
}

func (m mono) div(n mono) (mono, error) {
	inv, err := n.inverse()
	if err != nil {
		return mono{}, err
	}
	return m.mul(inv), nil
}

// pow raises m to an integer power.
func (m mono) pow(n int) (mono, error) {
	if n < 0 {
		inv, err := m.inverse()
		if err != nil {
			return mono{}, err
		}
		return inv.pow(-n)
	}
	num := new(big.Int).Exp(m.coef.Num(), big.NewInt(int64(n)), nil)
	den := new(big.Int).Exp(m.coef.Denom(), big.NewInt(int64(n)), nil)
	coef := new(big.Rat).SetFrac(num, den)
	// (√r)^n = r^(n/2) · √r^(n%2)
	half := new(big.Int).Exp(m.rad, big.NewInt(int64(n/2)), nil)
	coef.Mul(coef, new(big.Rat).SetInt(half))
	rad := big.NewInt(1)
	if n%2 == 1 {
		rad.Set(m.rad)
	}
	return mono{coef: coef, rad: rad, pi: m.pi * n, e: m.e * n}, nil
}

// Sqrt returns the principal square root of v, exact whenever the result is a
// rational multiple of a square-free radical.
func Sqrt(v Value) (Value, error) {
	if !IsNumber(v) {
		return nil, diag.Errorf(diag.TypeError, "sqrt expects a number, got %s", v.Kind())
	}
	if Sign(v) < 0 {
		return nil, diag.Errorf(diag.ValueError, "sqrt of negative number %s", v)
	}
	if f, ok := v.(Float); ok {
		return Float(math.Sqrt(float64(f))), nil
	}
	m, _ := toMono(v)
	if m.rad.Cmp(bigOne) != 0 || m.pi%2 != 0 || m.e%2 != 0 {
		f, _ := ToFloat(v)
		return Float(math.Sqrt(f)), nil
	}
	// √(p/q) = √(pq)/q
	pq := new(big.Int).Mul(m.coef.Num(), m.coef.Denom())
	s, f := squareFactor(pq)
	coef := new(big.Rat).SetFrac(s, m.coef.Denom())
	return mono{coef: coef, rad: f, pi: m.pi / 2, e: m.e / 2}.value(), nil
}

// squareFactor splits n ≥ 0 into s²·f with f square-free (see trialDivisionLimit).
func squareFactor(n *big.Int) (s, f *big.Int) {
	s, f = big.NewInt(1), big.NewInt(1)
	if n.Sign() == 0 {
		return big.NewInt(0), big.NewInt(1)
	}
	m := new(big.Int).Set(n)
	if r := new(big.Int).Sqrt(m); new(big.Int).Mul(r, r).Cmp(m) == 0 {
		return r, f
	}

	p := new(big.Int)
	q, rem := new(big.Int), new(big.Int)
	for i := int64(2); i <= trialDivisionLimit; i++ {
		p.SetInt64(i)
		if new(big.Int).Mul(p, p).Cmp(m) > 0 {
			break
		}
		count := 0
		for {
			q.QuoRem(m, p, rem)
			if rem.Sign() != 0 {
				break
			}
			m.Set(q)
			count++
		}
		if count == 0 {
			continue
		}
		if count/2 > 0 {
			s.Mul(s, new(big.Int).Exp(p, big.NewInt(int64(count/2)), nil))
		}
		if count%2 == 1 {
			f.Mul(f, p)
		}
	}
	if m.Cmp(bigOne) > 0 {
		if r := new(big.Int).Sqrt(m); new(big.Int).Mul(r, r).Cmp(m) == 0 {
			s.Mul(s, r)
		} else {
			f.Mul(f, m)
		}
	}
	return s, f
}

// String renders the monomial symbolically: 2√2, π, √2/2, 3/(2π), π^2.
func (x Irrational) String() string {
	var num, den []string

	symbol := func(name string, exp int) {
		switch {
		case exp == 1:
			num = append(num, name)
		case exp > 1:
			num = append(num, name+"^"+strconv.Itoa(exp))
		case exp == -1:
			den = append(den, name)
		case exp < -1:
			den = append(den, name+"^"+strconv.Itoa(-exp))
		}
	}
	symbol("π", x.pi)
	symbol("e", x.e)
	if x.rad.Cmp(bigOne) != 0 {
		num = append(num, "√"+x.rad.String())
	}

	var b strings.Builder
	n := new(big.Int).Abs(x.coef.Num())
	if x.coef.Sign() < 0 {
		b.WriteByte('-')
	}
	if n.Cmp(bigOne) != 0 || len(num) == 0 {
		b.WriteString(n.String())
	}
	b.WriteString(strings.Join(num, ""))

	d := x.coef.Denom()
	if d.Cmp(bigOne) != 0 {
		den = append([]string{d.String()}, den...)
	}
	switch {
	case len(den) == 1:
		b.WriteString("/" + den[0])
	case len(den) > 1:
		b.WriteString("/(" + strings.Join(den, "") + ")")
	}
	return b.String()
}
