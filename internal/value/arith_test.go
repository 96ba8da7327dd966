package value

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"nickandperla.net/lamina/internal/diag"
)

func bigInt(x int64) *big.Int { return big.NewInt(x) }

func rat(a, b int64) Value {
	v, err := NewRational(bigInt(a), bigInt(b))
	if err != nil {
		panic(err)
	}
	return v
}

func sqrtOf(t *testing.T, v Value) Value {
	t.Helper()
	r, err := Sqrt(v)
	if err != nil {
		t.Fatalf("Sqrt(%s): unexpected error: %v", v, err)
	}
	return r
}

func TestBinary(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		a, b Value
		want string
		kind Kind
	}{
		{"int add", OpAdd, Int(2), Int(3), "5", IntKind},
		{"rational sum", OpAdd, rat(1, 3), rat(1, 6), "1/2", RationalKind},
		{"rational to int", OpAdd, rat(1, 2), rat(1, 2), "1", IntKind},
		{"exact division", OpDiv, Int(6), Int(3), "2", IntKind},
		{"division to rational", OpDiv, Int(1), Int(3), "1/3", RationalKind},
		{"negative rational", OpDiv, Int(1), Int(-2), "-1/2", RationalKind},
		{"overflow add", OpAdd, Int(math.MaxInt64), Int(1), "9223372036854775808", BigIntKind},
		{"overflow mul", OpMul, Int(math.MaxInt64), Int(2), "18446744073709551614", BigIntKind},
		{"underflow sub", OpSub, Int(math.MinInt64), Int(1), "-9223372036854775809", BigIntKind},
		{"int mod sign of dividend", OpMod, Int(-7), Int(3), "-1", IntKind},
		{"rational mod", OpMod, rat(7, 2), Int(1), "1/2", RationalKind},
		{"float mod", OpMod, Float(7.5), Int(2), "1.5", FloatKind},
		{"float add", OpAdd, Float(0.5), Int(1), "1.5", FloatKind},
		{"decimal sum is exact", OpAdd, rat(1, 10), rat(2, 10), "3/10", RationalKind},
		{"string concat", OpAdd, String("ab"), String("cd"), "abcd", StringKind},
		{"pow int", OpPow, Int(2), Int(10), "1024", IntKind},
		{"pow negative exponent", OpPow, Int(2), Int(-2), "1/4", RationalKind},
		{"pow rational", OpPow, rat(2, 3), Int(3), "8/27", RationalKind},
		{"pow half", OpPow, Int(4), rat(1, 2), "2", IntKind},
		{"pow half irrational", OpPow, Int(2), rat(1, 2), "√2", IrrationalKind},
		{"pow three halves", OpPow, Int(2), rat(3, 2), "2√2", IrrationalKind},
		{"pow minus one odd", OpPow, Int(-1), Int(7), "-1", IntKind},
		{"pow zero exponent", OpPow, Int(0), Int(0), "1", IntKind},
		{"pow float exponent", OpPow, Int(4), Float(0.5), "2", FloatKind},
		{"pow big", OpPow, Int(2), Int(64), "18446744073709551616", BigIntKind},
		{"bigint stays bigint", OpSub, NewBigInt(bigInt(10)), Int(3), "7", BigIntKind},
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
			if got.Kind() != tt.kind {
				t.Errorf("%s %s %s has kind %s, want %s", tt.a, tt.op, tt.b, got.Kind(), tt.kind)
			}
		})
	}
}

func TestBinaryErrors(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		a, b Value
		kind diag.Kind
	}{
		{"int division by zero", OpDiv, Int(1), Int(0), diag.ValueError},
		{"rational division by zero", OpDiv, rat(1, 2), Int(0), diag.ValueError},
		{"float division by zero", OpDiv, Float(1), Float(0), diag.ValueError},
		{"irrational division by zero", OpDiv, Pi(), Int(0), diag.ValueError},
		{"mod by zero", OpMod, Int(5), Int(0), diag.ValueError},
		{"zero to negative power", OpPow, Int(0), Int(-1), diag.ValueError},
		{"huge exponent", OpPow, Int(3), Int(1 << 20), diag.ValueError},
		{"negative base fractional exponent", OpPow, Int(-8), Float(0.5), diag.ValueError},
		{"string plus number", OpAdd, String("a"), Int(1), diag.TypeError},
		{"number plus string", OpAdd, Int(1), String("a"), diag.TypeError},
		{"string times string", OpMul, String("a"), String("b"), diag.TypeError},
		{"bool plus int", OpAdd, Bool(true), Int(1), diag.TypeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Binary(tt.op, tt.a, tt.b)
			if err == nil {
				t.Fatalf("expected %s, got nil", tt.kind)
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestTypeErrorNamesOperands(t *testing.T) {
	_, err := Add(String("a"), Int(1))
	if err == nil {
		t.Fatal("expected error")
	}
	want := "TypeError: unsupported operand types for +: string and int"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestNeg(t *testing.T) {
	got, err := Neg(Int(math.MinInt64))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "9223372036854775808" || got.Kind() != BigIntKind {
		t.Errorf("Neg(MinInt64) = %s (%s)", got, got.Kind())
	}

	got, err = Neg(NewArray([]Value{Int(1), rat(1, 2)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "[-1, -1/2]" {
		t.Errorf("Neg(array) = %s", got)
	}

	if _, err := Neg(String("x")); !errors.Is(err, diag.TypeError) {
		t.Errorf("Neg(string): expected TypeError, got %v", err)
	}
}

func TestFactorial(t *testing.T) {
	got, err := Factorial(Int(25))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "15511210043330985984000000" {
		t.Errorf("25! = %s", got)
	}
	if got.Kind() != BigIntKind {
		t.Errorf("25! has kind %s, want bigint", got.Kind())
	}

	got, err = Factorial(Int(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Int(120) {
		t.Errorf("5! = %s", got)
	}

	got, err = Factorial(Int(0))
	if err != nil || got != Int(1) {
		t.Errorf("0! = %v, %v", got, err)
	}

	for _, v := range []Value{Int(-1), rat(1, 2), Float(2.5), Int(maxFactorial + 1)} {
		if _, err := Factorial(v); !errors.Is(err, diag.ValueError) {
			t.Errorf("Factorial(%s): expected ValueError, got %v", v, err)
		}
	}
	if _, err := Factorial(String("3")); !errors.Is(err, diag.TypeError) {
		t.Errorf("Factorial(string): expected TypeError, got %v", err)
	}
}

func TestAbs(t *testing.T) {
	got, err := Abs(rat(-3, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "3/4" {
		t.Errorf("Abs(-3/4) = %s", got)
	}
	neg, _ := Neg(sqrtOf(t, Int(5)))
	got, err = Abs(neg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "√5" {
		t.Errorf("Abs(-√5) = %s", got)
	}
}

func TestFloatString(t *testing.T) {
	tests := []struct {
		f    float64
		want string
	}{
		{0.5, "0.5"},
		{2, "2"},
		{-1.25, "-1.25"},
		{1e21, "1e+21"},
		{1e-7, "1e-07"},
		{math.Inf(1), "inf"},
		{math.NaN(), "nan"},
	}
	for _, tt := range tests {
		if got := Float(tt.f).String(); got != tt.want {
			t.Errorf("Float(%v) = %q, want %q", tt.f, got, tt.want)
		}
	}
}

func TestParseLiterals(t *testing.T) {
	v, err := ParseDecimal("0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "1/10" {
		t.Errorf("ParseDecimal(0.1) = %s", v)
	}
	v, err = ParseDecimal("1.5e-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "3/2000" {
		t.Errorf("ParseDecimal(1.5e-3) = %s", v)
	}
	v, err = ParseDecimal("2e10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != Int(20000000000) {
		t.Errorf("ParseDecimal(2e10) = %s (%s)", v, v.Kind())
	}
	v, err = ParseInt("123456789012345678901234567890")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != BigIntKind {
		t.Errorf("large literal has kind %s", v.Kind())
	}
}

func TestFloatToExact(t *testing.T) {
	v, err := FloatToExact(0.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "1/10" {
		t.Errorf("FloatToExact(0.1) = %s", v)
	}
	if _, err := FloatToExact(math.NaN()); !errors.Is(err, diag.ValueError) {
		t.Errorf("FloatToExact(NaN): expected ValueError, got %v", err)
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Null{}, false},
		{Bool(false), false},
		{Int(0), false},
		{Int(2), true},
		{rat(1, 2), true},
		{Float(0), false},
		{String(""), false},
		{String("x"), true},
		{NewArray(nil), false},
		{NewArray([]Value{Int(0)}), true},
		{Pi(), true},
	}
	for _, tt := range tests {
		if got := Truthy(tt.v); got != tt.want {
			t.Errorf("Truthy(%s) = %v, want %v", tt.v, got, tt.want)
		}
	}
	if Not(Int(0)) != Bool(true) {
		t.Error("Not(0) should be true")
	}
}
