package parser

import (
	"errors"
	"strings"
	"testing"

	"nickandperla.net/lamina/internal/ast"
	"nickandperla.net/lamina/internal/diag"
)

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"2 ^ 3 ^ 2", "(2 ^ (3 ^ 2))"},
		{"-2 ^ 2", "((-2) ^ 2)"},
		{"2 ^ 3!", "((2 ^ 3)!)"},
		{"3! * 2", "((3!) * 2)"},
		{"a < b == c > d", "((a < b) == (c > d))"},
		{"a || b && c", "(a || (b && c))"},
		{"!a && b", "((!a) && b)"},
		{"x = y = 1 + 2", "(x = (y = (1 + 2)))"},
		{"f(1, 2)[0].name", "f(1, 2)[0].name"},
		{"-f(x)", "(-f(x))"},
		{"a % b * c", "((a % b) * c)"},
		{"2 ^ -1", "(2 ^ (-1))"},
		{"[1, [2, 3],]", "[1, [2, 3]]"},
		{`{a: 1, "b c": 2}`, `{"a": 1, "b c": 2}`},
		{"func(x, y) { return x + y; }", "func(x, y) { return (x + y); }"},
		{"0.5e3 + .25", "(0.5e3 + .25)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			x, err := ParseExpressionString(tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := x.String(); got != tt.want {
				t.Errorf("parse(%q) = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"var x = 1;", "var x = 1;"},
		{"var x;", "var x;"},
		{"bigint r = 25!;", "bigint r = (25!);"},
		{"x = 2", "x = 2;"},
		{"if x { y = 1; } else if z { y = 2; } else { y = 3; }",
			"if x { y = 1; } else if z { y = 2; } else { y = 3; }"},
		{"while i < 10 { i = i + 1; }", "while (i < 10) { i = (i + 1); }"},
		{"for v in [1, 2] { print(v); }", "for v in [1, 2] { print(v); }"},
		{"for (var i = 0; i < 3; i = i + 1) { continue; }",
			"for (var i = 0; (i < 3); (i = (i + 1))) { continue; }"},
		{"for (;;) { break; }", "for (;;) { break; }"},
		{"func add(a, b) { return a + b }", "func add(a, b) { return (a + b); }"},
		{"func f() { return; }", "func f() { return; }"},
		{"var a = 1; var b = 2", "var a = 1; var b = 2;"},
		{";; x;", "x;"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog, err := ParseString(tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := prog.Program(); got != tt.want {
				t.Errorf("parse(%q) = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestPrintedSourceReparses(t *testing.T) {
	src := `
func fib(n) {
	if n < 2 { return n; }
	return fib(n - 1) + fib(n - 2);
}
var m = [[1, 2], [3, 4]];
var s = {name: "x", v: -1/3};
for (var i = 0; i < 3; i = i + 1) { s.v = s.v + i; }
`
	first, err := ParseString(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ParseString(first.Program())
	if err != nil {
		t.Fatalf("reparse failed: %v\n%s", err, first.Program())
	}
	if first.Program() != second.Program() {
		t.Errorf("printing is not stable:\n%s\n%s", first.Program(), second.Program())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src     string
		wantMsg string
	}{
		{"1 +", "unexpected end of input, expected expression"},
		{"(1 + 2", "expected ')'"},
		{"var = 3;", "unexpected '=', expected identifier"},
		{"x y", "unexpected 'y', expected ';'"},
		{"1 = 2;", "cannot assign to 1"},
		{"break;", "break outside loop"},
		{"continue;", "continue outside loop"},
		{"return 1;", "return outside function"},
		{"while true { func f() { break; } }", "break outside loop"},
		{"if x { y", "expected '}'"},
		{"func f(a, a) {}", "duplicate parameter"},
		{"bigint r;", "'=' after bigint name"},
		{"{a 1}", "expected ';'"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := ParseString(tt.src)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, diag.ParseError) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := ParseString("var x = 1;\nvar y = ;")
	if err == nil {
		t.Fatal("expected error")
	}
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *diag.Error, got %T", err)
	}
	if de.Line != 2 || de.Col != 9 {
		t.Errorf("error at %d:%d, want 2:9", de.Line, de.Col)
	}
}

func TestLexErrorPropagates(t *testing.T) {
	_, err := ParseString(`var s = "open;`)
	if !errors.Is(err, diag.LexError) {
		t.Errorf("expected LexError, got %v", err)
	}
}

func TestNestingLimit(t *testing.T) {
	src := strings.Repeat("(", maxNesting+10) + "1" + strings.Repeat(")", maxNesting+10)
	_, err := ParseExpressionString(src)
	if !errors.Is(err, diag.ParseError) {
		t.Errorf("expected ParseError for deep nesting, got %v", err)
	}
}

func TestParseExpressionRejectsStatements(t *testing.T) {
	if _, err := ParseExpressionString("1; 2"); err == nil {
		t.Error("expected error for two expressions")
	}
	x, err := ParseExpressionString("1 + 1;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := x.(*ast.Binary); !ok {
		t.Errorf("got %T, want *ast.Binary", x)
	}
}
