package value

import (
	"errors"
	"math/big"
	"testing"

	"nickandperla.net/lamina/internal/diag"
)

func TestSqrt(t *testing.T) {
	tests := []struct {
		in   Value
		want string
		kind Kind
	}{
		{Int(8), "2√2", IrrationalKind},
		{Int(16), "4", IntKind},
		{Int(0), "0", IntKind},
		{Int(12), "2√3", IrrationalKind},
		{rat(1, 2), "√2/2", IrrationalKind},
		{rat(9, 4), "3/2", RationalKind},
		{rat(8, 9), "2√2/3", IrrationalKind},
		{Int(1000000), "1000", IntKind},
		{Float(2.25), "1.5", FloatKind},
	}
	for _, tt := range tests {
		got, err := Sqrt(tt.in)
		if err != nil {
			t.Fatalf("Sqrt(%s): unexpected error: %v", tt.in, err)
		}
		if got.String() != tt.want || got.Kind() != tt.kind {
			t.Errorf("Sqrt(%s) = %s (%s), want %s (%s)", tt.in, got, got.Kind(), tt.want, tt.kind)
		}
	}

	if _, err := Sqrt(Int(-4)); !errors.Is(err, diag.ValueError) {
		t.Errorf("Sqrt(-4): expected ValueError, got %v", err)
	}
	if _, err := Sqrt(String("4")); !errors.Is(err, diag.TypeError) {
		t.Errorf("Sqrt(string): expected TypeError, got %v", err)
	}
}

func TestSqrtOfIrrational(t *testing.T) {
	// sqrt(π^2) is exact, sqrt(π) and sqrt(√2) are not.
	p2, _ := Mul(Pi(), Pi())
	got := sqrtOf(t, p2)
	if got.String() != "π" {
		t.Errorf("sqrt(π^2) = %s", got)
	}
	if got := sqrtOf(t, Pi()); got.Kind() != FloatKind {
		t.Errorf("sqrt(π) has kind %s, want float", got.Kind())
	}
	if got := sqrtOf(t, sqrtOf(t, Int(2))); got.Kind() != FloatKind {
		t.Errorf("sqrt(√2) has kind %s, want float", got.Kind())
	}
}

func TestIrrationalArithmetic(t *testing.T) {
	sqrt2 := sqrtOf(t, Int(2))
	sqrt3 := sqrtOf(t, Int(3))

	tests := []struct {
		name string
		op   Op
		a, b Value
		want string
	}{
		{"sqrt2 squared", OpMul, sqrt2, sqrt2, "2"},
		{"sqrt2 times sqrt3", OpMul, sqrt2, sqrt3, "√6"},
		{"same radix add", OpAdd, sqrt2, sqrt2, "2√2"},
		{"same radix sub", OpSub, sqrt2, sqrt2, "0"},
		{"scalar times pi", OpMul, Int(2), Pi(), "2π"},
		{"three over two pi", OpDiv, Int(3), mustMul(t, Int(2), Pi()), "3/(2π)"},
		{"one over pi", OpDiv, Int(1), Pi(), "1/π"},
		{"pi squared", OpPow, Pi(), Int(2), "π^2"},
		{"three pi over four", OpDiv, mustMul(t, Int(3), Pi()), Int(4), "3π/4"},
		{"pi times root", OpMul, mustMul(t, Int(2), Pi()), sqrt3, "2π√3"},
		{"rationalize", OpDiv, Int(1), sqrt2, "√2/2"},
		{"pi over pi", OpDiv, Pi(), Pi(), "1"},
		{"e times pi", OpMul, E(), Pi(), "πe"},
		{"root squared power", OpPow, sqrt2, Int(4), "4"},
		{"root odd power", OpPow, sqrt2, Int(3), "2√2"},
		{"root negative power", OpPow, sqrt2, Int(-1), "√2/2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Binary(tt.op, tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("%s %s %s = %s, want %s", tt.a, tt.op, tt.b, got, tt.want)
			}
		})
	}
}

func TestMixedRadixAddIsFloat(t *testing.T) {
	got, err := Add(sqrtOf(t, Int(2)), sqrtOf(t, Int(3)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != FloatKind {
		t.Fatalf("√2 + √3 has kind %s, want float", got.Kind())
	}
	f, _ := ToFloat(got)
	if f < 3.1462 || f > 3.1463 {
		t.Errorf("√2 + √3 = %v", f)
	}

	got, err = Add(Pi(), Int(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != FloatKind {
		t.Errorf("π + 1 has kind %s, want float", got.Kind())
	}
}

func TestNegativeIrrationalString(t *testing.T) {
	got, err := Neg(sqrtOf(t, Int(5)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "-√5" {
		t.Errorf("-√5 renders as %s", got)
	}
}

func TestSquareFactor(t *testing.T) {
	tests := []struct {
		n, s, f int64
	}{
		{1, 1, 1},
		{2, 1, 2},
		{8, 2, 2},
		{72, 6, 2},
		{49, 7, 1},
		{30, 1, 30},
		{1000003 * 1000003 * 2, 1000003, 2},
	}
	for _, tt := range tests {
		s, f := squareFactor(big.NewInt(tt.n))
		if s.Int64() != tt.s || f.Int64() != tt.f {
			t.Errorf("squareFactor(%d) = %s, %s, want %d, %d", tt.n, s, f, tt.s, tt.f)
		}
	}
}

func mustMul(t *testing.T, a, b Value) Value {
	t.Helper()
	v, err := Mul(a, b)
	if err != nil {
		t.Fatalf("%s * %s: unexpected error: %v", a, b, err)
	}
	return v
}
