package scanner

import (
	"errors"
	"strings"
	"testing"

	"nickandperla.net/lamina/internal/diag"
	"nickandperla.net/lamina/internal/token"
)

func TestTokenize(t *testing.T) {
	items, err := Tokenize(`var x = 1.5e-3 + .5; // comment
/* block
comment */ if x >= 2 && !y { s = "a\tb"; } f(a, b)[0].c != null`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Token{
		token.VAR, token.IDENT, token.ASSIGN, token.DECIMAL, token.PLUS, token.DECIMAL, token.SEMICOLON,
		token.IF, token.IDENT, token.GTE, token.INT, token.AND, token.BANG, token.IDENT, token.LBRACE,
		token.IDENT, token.ASSIGN, token.STRING, token.SEMICOLON, token.RBRACE,
		token.IDENT, token.LPAREN, token.IDENT, token.COMMA, token.IDENT, token.RPAREN,
		token.LBRACKET, token.INT, token.RBRACKET, token.DOT, token.IDENT, token.NEQ, token.NULL,
		token.EOF,
	}
	if len(items) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(items), len(want), items)
	}
	for i, it := range items {
		if it.Token != want[i] {
			t.Errorf("token %d: got %s (%q), want %s", i, it.Token, it.Value, want[i])
		}
	}
	if items[3].Value != "1.5e-3" {
		t.Errorf("decimal literal = %q", items[3].Value)
	}
	if items[17].Value != "a\tb" {
		t.Errorf("string literal = %q", items[17].Value)
	}
	if items[7].Pos != (token.Pos{Line: 3, Col: 12}) {
		t.Errorf("'if' at %v, want 3:12", items[7].Pos)
	}
}

func TestStringEscapes(t *testing.T) {
	items, err := Tokenize(`"\n\t\r\\\"\0\x41é"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := items[0].Value; got != "\n\t\r\\\"\x00Aé" {
		t.Errorf("decoded %q", got)
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	items, err := Tokenize("café_2 = 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Token != token.IDENT || items[0].Value != "café_2" {
		t.Errorf("got %s %q", items[0].Token, items[0].Value)
	}
	if items[1].Pos.Col != 8 {
		t.Errorf("'=' at column %d, want 8", items[1].Pos.Col)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`"abc`, "unterminated string"},
		{"\"ab\ncd\"", "unterminated string"},
		{"/* open", "unterminated block comment"},
		{`"\q"`, "invalid escape"},
		{"1e", "missing exponent"},
		{"1.2.3", "invalid numeric literal"},
		{"12abc", "invalid numeric literal"},
		{"1.", `invalid numeric literal "1."`},
		{"var x = 1. + 2;", `invalid numeric literal "1."`},
		{"\"a\xffb\"", "invalid UTF-8 byte 0xff"},
		{"a # b", "unexpected character '#'"},
		{"a & b", "unexpected character '&'"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Tokenize(tt.src)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, diag.LexError) {
				t.Fatalf("expected LexError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestInvalidUTF8Position(t *testing.T) {
	_, err := Tokenize("var s = 1;\nvar t = \"é\xfe\";")
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *diag.Error, got %v", err)
	}
	if de.Kind != diag.LexError || de.Line != 2 || de.Col != 11 {
		t.Errorf("got %s at %d:%d, want LexError at 2:11", de.Kind, de.Line, de.Col)
	}
}

func TestNumberFieldAccess(t *testing.T) {
	items, err := Tokenize("1.5 x.y")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []token.Token{token.DECIMAL, token.IDENT, token.DOT, token.IDENT, token.EOF}
	if len(items) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(items), len(want))
	}
	for i, tok := range want {
		if items[i].Token != tok {
			t.Errorf("token %d = %s, want %s", i, items[i].Token, tok)
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	for name, want := range map[string]bool{
		"x":      true,
		"_tmp":   true,
		"π":      true,
		"2x":     false,
		"":       false,
		"while":  false,
		"a-b":    false,
		"bigint": false,
	} {
		if got := IsIdentifier(name); got != want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", name, got, want)
		}
	}
}
