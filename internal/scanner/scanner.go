// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides the Unicode-aware lexer for Lamina source.
package scanner

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"nickandperla.net/lamina/internal/diag"
	"nickandperla.net/lamina/internal/token"
)

// Scanner tokenizes Lamina input rune-by-rune.
type Scanner struct {
	src  []rune
	off  int
	line int // Current line number (1-based)
	col  int // Column of src[off] (1-based)
	err  error
}

// New creates a new Scanner from an io.Reader. The input is read fully up front.
func New(r io.Reader) *Scanner {
	s := &Scanner{line: 1, col: 1}
	b, err := io.ReadAll(r)
	if err != nil {
		s.err = err
		return s
	}
	if !utf8.Valid(b) {
		s.err = invalidUTF8(b)
		return s
	}
	s.src = []rune(string(b))
	// Skip UTF-8 BOM if present.
	if len(s.src) > 0 && s.src[0] == 0xFEFF {
		s.off++
	}
	return s
}

// invalidUTF8 reports the position of the first byte in b that does not
// start a valid UTF-8 sequence.
func invalidUTF8(b []byte) error {
	line, col := 1, 1
	b = bytes.TrimPrefix(b, []byte("\uFEFF"))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			return diag.At(diag.LexError, line, col, "invalid UTF-8 byte 0x%02x", b[0])
		}
		if r == '\n' {
			line, col = line+1, 1
		} else {
			col++
		}
		b = b[size:]
	}
	return nil
}

// NewFromString creates a new Scanner from a string.
func NewFromString(src string) *Scanner {
	return New(strings.NewReader(src))
}

// Tokenize scans the complete source and returns every token, ending with EOF.
func Tokenize(src string) ([]token.Item, error) {
	s := NewFromString(src)
	var items []token.Item
	for {
		item, err := s.Next()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if item.Token == token.EOF {
			return items, nil
		}
	}
}

func (s *Scanner) at(i int) rune {
	if s.off+i < len(s.src) {
		return s.src[s.off+i]
	}
	return 0
}

func (s *Scanner) eof() bool { return s.off >= len(s.src) }

func (s *Scanner) advance() rune {
	r := s.src[s.off]
	s.off++
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

func (s *Scanner) errorf(pos token.Pos, format string, args ...any) error {
	return diag.At(diag.LexError, pos.Line, pos.Col, format, args...)
}

// Next returns the next token from the input.
func (s *Scanner) Next() (token.Item, error) {
	if s.err != nil {
		return token.Item{}, s.err
	}

	if err := s.skipWhitespaceAndComments(); err != nil {
		return token.Item{}, err
	}

	pos := token.Pos{Line: s.line, Col: s.col}
	if s.eof() {
		return token.Item{Token: token.EOF, Pos: pos}, nil
	}

	r := s.at(0)
	switch {
	case isDigit(r) || (r == '.' && isDigit(s.at(1))):
		return s.scanNumber(pos)
	case isIdentStart(r):
		return s.scanIdent(pos), nil
	case r == '"':
		return s.scanString(pos)
	}

	s.advance()
	tok := func(t token.Token) (token.Item, error) {
		return token.Item{Token: t, Value: t.String(), Pos: pos}, nil
	}
	// two-rune operators
	two := func(next rune, double, single token.Token) (token.Item, error) {
		if s.at(0) == next {
			s.advance()
			return tok(double)
		}
		return tok(single)
	}

	switch r {
	case '+':
		return tok(token.PLUS)
	case '-':
		return tok(token.MINUS)
	case '*':
		return tok(token.STAR)
	case '/':
		return tok(token.SLASH)
	case '%':
		return tok(token.PERCENT)
	case '^':
		return tok(token.CARET)
	case '!':
		return two('=', token.NEQ, token.BANG)
	case '=':
		return two('=', token.EQ, token.ASSIGN)
	case '<':
		return two('=', token.LTE, token.LT)
	case '>':
		return two('=', token.GTE, token.GT)
	case '&':
		if s.at(0) == '&' {
			s.advance()
			return tok(token.AND)
		}
	case '|':
		if s.at(0) == '|' {
			s.advance()
			return tok(token.OR)
		}
	case '(':
		return tok(token.LPAREN)
	case ')':
		return tok(token.RPAREN)
	case '{':
		return tok(token.LBRACE)
	case '}':
		return tok(token.RBRACE)
	case '[':
		return tok(token.LBRACKET)
	case ']':
		return tok(token.RBRACKET)
	case ',':
		return tok(token.COMMA)
	case ';':
		return tok(token.SEMICOLON)
	case ':':
		return tok(token.COLON)
	case '.':
		return tok(token.DOT)
	}
	return token.Item{}, s.errorf(pos, "unexpected character %q", r)
}

// skipWhitespaceAndComments consumes whitespace, // line comments and /* block */ comments.
func (s *Scanner) skipWhitespaceAndComments() error {
	for !s.eof() {
		r := s.at(0)
		switch {
		case unicode.IsSpace(r):
			s.advance()
		case r == '/' && s.at(1) == '/':
			for !s.eof() && s.at(0) != '\n' {
				s.advance()
			}
		case r == '/' && s.at(1) == '*':
			pos := token.Pos{Line: s.line, Col: s.col}
			s.advance()
			s.advance()
			for {
				if s.eof() {
					return s.errorf(pos, "unterminated block comment")
				}
				if s.at(0) == '*' && s.at(1) == '/' {
					s.advance()
					s.advance()
					break
				}
				s.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

// scanNumber scans an integer or decimal literal. Decimal literals keep their
// exact text; the parser turns them into rationals.
func (s *Scanner) scanNumber(pos token.Pos) (token.Item, error) {
	var b strings.Builder
	kind := token.INT

	for isDigit(s.at(0)) {
		b.WriteRune(s.advance())
	}
	if s.at(0) == '.' && isDigit(s.at(1)) {
		kind = token.DECIMAL
		b.WriteRune(s.advance())
		for isDigit(s.at(0)) {
			b.WriteRune(s.advance())
		}
	}

	if r := s.at(0); r == 'e' || r == 'E' {
		next := s.at(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(s.at(2))) {
			kind = token.DECIMAL
			b.WriteRune(s.advance())
			if next == '+' || next == '-' {
				b.WriteRune(s.advance())
			}
			for isDigit(s.at(0)) {
				b.WriteRune(s.advance())
			}
		} else {
			return token.Item{}, s.errorf(pos, "invalid numeric literal %q: missing exponent digits", b.String()+string(r))
		}
	}

	// A dot after the digits must start a field name.
	if s.at(0) == '.' && !isIdentStart(s.at(1)) {
		return token.Item{}, s.errorf(pos, "invalid numeric literal %q", b.String()+".")
	}
	if r := s.at(0); isIdentStart(r) || isDigit(r) || (r == '.' && isDigit(s.at(1))) {
		return token.Item{}, s.errorf(pos, "invalid numeric literal %q", b.String()+string(r))
	}
	return token.Item{Token: kind, Value: b.String(), Pos: pos}, nil
}

func (s *Scanner) scanIdent(pos token.Pos) token.Item {
	var b strings.Builder
	for !s.eof() && isIdentChar(s.at(0)) {
		b.WriteRune(s.advance())
	}
	name := b.String()
	return token.Item{Token: token.Lookup(name), Value: name, Pos: pos}
}

// scanString scans a double-quoted string literal, decoding escapes.
func (s *Scanner) scanString(pos token.Pos) (token.Item, error) {
	s.advance() // opening quote
	var b strings.Builder
	for {
		if s.eof() || s.at(0) == '\n' {
			return token.Item{}, s.errorf(pos, "unterminated string literal")
		}
		r := s.advance()
		if r == '"' {
			return token.Item{Token: token.STRING, Value: b.String(), Pos: pos}, nil
		}
		if r != '\\' {
			b.WriteRune(r)
			continue
		}

		escPos := token.Pos{Line: s.line, Col: s.col - 1}
		if s.eof() {
			return token.Item{}, s.errorf(pos, "unterminated string literal")
		}
		if s.at(0) == '0' && !isDigit(s.at(1)) {
			s.advance()
			b.WriteRune(0)
			continue
		}
		// Collect the escape sequence and decode it with strconv.
		seq := []rune{'\\', s.advance()}
		switch seq[1] {
		case 'x':
			seq = append(seq, s.take(2)...)
		case 'u':
			seq = append(seq, s.take(4)...)
		case 'U':
			seq = append(seq, s.take(8)...)
		}
		v, _, tail, err := strconv.UnquoteChar(string(seq), '"')
		if err != nil || tail != "" {
			return token.Item{}, s.errorf(escPos, "invalid escape sequence %q", string(seq))
		}
		b.WriteRune(v)
	}
}

// take consumes up to n runes, stopping at end of input or a quote.
func (s *Scanner) take(n int) []rune {
	var out []rune
	for i := 0; i < n && !s.eof() && s.at(0) != '"'; i++ {
		out = append(out, s.advance())
	}
	return out
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool { return unicode.IsLetter(r) || r == '_' }

// isIdentChar returns true if the rune is valid in an identifier (letter, digit, underscore).
func isIdentChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// IsIdentifier reports whether name is a valid, non-keyword Lamina identifier.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentChar(r) {
			return false
		}
	}
	return token.Lookup(name) == token.IDENT
}
