package value

import (
	"errors"
	"testing"

	"nickandperla.net/lamina/internal/diag"
)

func TestCompare(t *testing.T) {
	sqrt2 := sqrtOf(t, Int(2))
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"ints", Int(1), Int(2), -1},
		{"int and rational", Int(1), rat(1, 2), 1},
		{"equal rationals", rat(2, 4), rat(1, 2), 0},
		{"bigint and int", NewBigInt(bigInt(5)), Int(5), 0},
		{"radical and rational", sqrt2, rat(3, 2), -1},
		{"radical and rational above", sqrt2, rat(7, 5), 1},
		{"different radicals", sqrtOf(t, Int(3)), sqrt2, 1},
		{"negative radicals", mustMul(t, Int(-1), sqrtOf(t, Int(3))), mustMul(t, Int(-1), sqrt2), -1},
		{"same radix", mustMul(t, Int(2), Pi()), Pi(), 1},
		{"pi and float", Pi(), Float(3.14159), 1},
		{"pi and close float", Pi(), Float(3.141592653589793), 0},
		{"pi and e", Pi(), E(), 1},
		{"floats", Float(0.5), Float(0.25), 1},
		{"strings", String("abc"), String("abd"), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompareTypeError(t *testing.T) {
	if _, err := Compare(String("a"), Int(1)); !errors.Is(err, diag.TypeError) {
		t.Errorf("expected TypeError, got %v", err)
	}
	if _, err := Compare(Null{}, Null{}); !errors.Is(err, diag.TypeError) {
		t.Errorf("expected TypeError, got %v", err)
	}
}

func TestEqual(t *testing.T) {
	six := sqrtOf(t, Int(6))
	tests := []struct {
		a, b Value
		want bool
	}{
		{Int(1), Float(1), true},
		{rat(1, 3), rat(2, 6), true},
		{mustMul(t, sqrtOf(t, Int(2)), sqrtOf(t, Int(3))), six, true},
		{String("a"), String("a"), true},
		{String("1"), Int(1), false},
		{Null{}, Null{}, true},
		{Null{}, Bool(false), false},
		{NewArray([]Value{Int(1), String("x")}), NewArray([]Value{Int(1), String("x")}), true},
		{NewArray([]Value{Int(1)}), NewArray([]Value{Int(1), Int(2)}), false},
		{NewStruct([]string{"a", "b"}, []Value{Int(1), Int(2)}), NewStruct([]string{"b", "a"}, []Value{Int(2), Int(1)}), true},
		{NewStruct([]string{"a"}, []Value{Int(1)}), NewStruct([]string{"a"}, []Value{Int(2)}), false},
	}
	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
