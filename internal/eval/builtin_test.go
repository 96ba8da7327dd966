package eval

import (
	"errors"
	"strings"
	"testing"
	"time"

	"nickandperla.net/lamina/internal/diag"
)

func TestBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// math
		{"sin(0)", "0"},
		{"cos(0)", "1"},
		{"typeof(sin(1))", "float"},
		{"exp(0)", "1"},
		{"exp(2)", "e^2"},
		{"log(1)", "0"},
		{"log(e())", "1"},
		{"log(8, 2)", "3"},
		{"log10(1000)", "3"},
		{"floor(7/2)", "3"},
		{"floor(-7/2)", "-4"},
		{"ceil(7/2)", "4"},
		{"round(5/2)", "3"},
		{"round(-5/2)", "-3"},
		{"round(decimal(2.4))", "2"},
		{"min(3, 1/2, 2)", "1/2"},
		{"max([1, 5, 2])", "5"},
		{"gcd(12, 18)", "6"},
		{"lcm(4, 6)", "12"},
		{"factorial(5)", "120"},
		{"abs(-3/4)", "3/4"},

		// vectors and matrices
		{"dot([1, 2, 3], [4, 5, 6])", "32"},
		{"cross([1, 0, 0], [0, 1, 0])", "[0, 0, 1]"},
		{"det([[1, 2], [3, 4]])", "-2"},
		{"det([[2, 0, 1], [1, 3, 2], [1, 1, 2]])", "6"},
		{"det(2 * identity(4))", "16"},
		{"det([[1/2, 0, 0, 0], [0, 1, 0, 0], [0, 0, 1, 0], [0, 0, 0, 3]])", "3/2"},
		{"det([[0, 1, 0, 0], [1, 0, 0, 0], [0, 0, 1, 0], [0, 0, 0, 1]])", "-1"},
		{"norm([3, 4])", "5"},
		{"norm([1, 1])", "√2"},
		{"transpose([[1, 2], [3, 4]])", "[[1, 3], [2, 4]]"},
		{"shape([[1, 2, 3], [4, 5, 6]])", "[2, 3]"},
		{"identity(2)", "[[1, 0], [0, 1]]"},

		// utility
		{"size([1, 2, 3])", "3"},
		{`size("héllo")`, "5"},
		{"fraction(decimal(0.1))", "1/10"},
		{"decimal(1/4)", "0.25"},
		{"range(3)", "[0, 1, 2]"},
		{"range(1, 4)", "[1, 2, 3]"},
		{"range(0, 1, 1/4)", "[0, 1/4, 1/2, 3/4]"},
		{"range(3, 0, -1)", "[3, 2, 1]"},
		{"range(0)", "[]"},
		{"typeof(sqrt(2))", "irrational"},
		{"typeof([[1]])", "matrix"},
		{"typeof({a: 1})", "struct"},
		{"typeof(null)", "null"},
		{"typeof(sqrt)", "func"},
		{"to_string(1/3)", "1/3"},

		// strings
		{`string_concat("a", 1, "b", 1/2)`, "a1b1/2"},
		{`string_char_at("héllo", 1)`, "é"},
		{`string_length("héllo")`, "5"},
		{`string_find("hello", "l")`, "2"},
		{`string_find("hello", "l", 3)`, "3"},
		{`string_find("héllo", "o")`, "4"},
		{`string_find("hello", "z")`, "-1"},
		{`string_sub_string("hello", 1, 3)`, "ell"},
		{`string_replace_by_index("hello", 1, 3, "EY")`, "hEYlo"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e := New()
			if got := evalString(t, e, tt.input); got != tt.expected {
				t.Errorf("Eval(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  diag.Kind
	}{
		{"dot([1, 2], [1, 2, 3])", diag.DimensionError},
		{"cross([1, 2], [3, 4])", diag.DimensionError},
		{"det([[1, 2, 3], [4, 5, 6]])", diag.DimensionError},
		{"det([1, 2])", diag.TypeError},
		{`det([["a"]])`, diag.TypeError},
		{"range(1, 5, 0)", diag.ValueError},
		{"range(0, 1e8)", diag.ValueError},
		{`range("a")`, diag.TypeError},
		{`string_char_at("abc", 3)`, diag.IndexError},
		{`string_char_at("abc", -1)`, diag.IndexError},
		{`string_sub_string("abc", 2, 5)`, diag.IndexError},
		{`string_replace_by_index("abc", 2, 1, "")`, diag.IndexError},
		{`string_length(5)`, diag.TypeError},
		{"log(0)", diag.ValueError},
		{"log(8, 1)", diag.ValueError},
		{"sqrt(-1)", diag.ValueError},
		{"randint(5, 1)", diag.ValueError},
		{"randstr(-1)", diag.ValueError},
		{"gcd(1/2, 3)", diag.TypeError},
		{"identity(0)", diag.DimensionError},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := New().Eval(tt.input)
			if !errors.Is(err, tt.kind) {
				t.Errorf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestSeededRandom(t *testing.T) {
	const src = `[rand(), randint(1, 100), randstr(8), randint(0, 10^30)]`
	a := evalString(t, New(WithSeed(7)), src)
	b := evalString(t, New(WithSeed(7)), src)
	if a != b {
		t.Errorf("same seed gave different results:\n%s\n%s", a, b)
	}
	if c := evalString(t, New(WithSeed(8)), src); c == a {
		t.Errorf("different seeds gave the same results: %s", c)
	}

	e := New(WithSeed(1))
	for i := 0; i < 200; i++ {
		if got := evalString(t, e, "abs(randint(-3, 3)) <= 3"); got != "true" {
			t.Fatal("randint(-3, 3) out of range")
		}
	}
	s := evalString(t, e, "randstr(32)")
	if len(s) != 32 || strings.Trim(s, alphanumeric) != "" {
		t.Errorf("randstr(32) = %q", s)
	}
	if f := evalString(t, e, "rand() < 1 && rand() >= 0"); f != "true" {
		t.Errorf("rand() outside [0, 1)")
	}
}

func TestClock(t *testing.T) {
	fixed := time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC)
	e := New(WithClock(func() time.Time { return fixed }))
	for input, expected := range map[string]string{
		"time()":     "1709641800",
		"date()":     "2024-03-05",
		"datetime()": "2024-03-05T12:30:00Z",
	} {
		if got := evalString(t, e, input); got != expected {
			t.Errorf("%s = %s, expected %s", input, got, expected)
		}
	}
}

func TestBuiltinTable(t *testing.T) {
	names := DefaultBuiltins().Names()
	for _, want := range []string{"sqrt", "det", "range", "randstr", "string_find", "datetime", "print", "persist"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("builtin %s missing from the default table", want)
		}
	}
	if New().Builtins() != DefaultBuiltins() {
		t.Error("evaluators should share the default table")
	}
}
