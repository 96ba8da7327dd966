// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines Lamina token types and the keyword table.
package token

// Token represents a Lamina token type.
type Token int

const (
	EOF Token = iota

	// Literals
	IDENT
	INT     // 42
	DECIMAL // 0.1, 1e-3
	STRING  // "text"

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	CARET   // ^
	BANG    // !
	ASSIGN  // =
	EQ      // ==
	NEQ     // !=
	LT      // <
	GT      // >
	LTE     // <=
	GTE     // >=
	AND     // &&
	OR      // ||

	// Punctuation
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	DOT       // .

	keywordStart
	VAR
	BIGINT
	IF
	ELSE
	WHILE
	FOR
	IN
	FUNC
	RETURN
	BREAK
	CONTINUE
	TRUE
	FALSE
	NULL
	keywordEnd
)

var names = [...]string{
	EOF:       "EOF",
	IDENT:     "IDENT",
	INT:       "INT",
	DECIMAL:   "DECIMAL",
	STRING:    "STRING",
	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	CARET:     "^",
	BANG:      "!",
	ASSIGN:    "=",
	EQ:        "==",
	NEQ:       "!=",
	LT:        "<",
	GT:        ">",
	LTE:       "<=",
	GTE:       ">=",
	AND:       "&&",
	OR:        "||",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	DOT:       ".",
	VAR:       "var",
	BIGINT:    "bigint",
	IF:        "if",
	ELSE:      "else",
	WHILE:     "while",
	FOR:       "for",
	IN:        "in",
	FUNC:      "func",
	RETURN:    "return",
	BREAK:     "break",
	CONTINUE:  "continue",
	TRUE:      "true",
	FALSE:     "false",
	NULL:      "null",
}

// String returns the string representation of a token.
func (t Token) String() string {
	if t >= 0 && int(t) < len(names) && names[t] != "" {
		return names[t]
	}
	return "UNKNOWN"
}

// IsKeyword returns true if the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t > keywordStart && t < keywordEnd
}

var keywords map[string]Token

func init() {
	keywords = make(map[string]Token, keywordEnd-keywordStart)
	for t := keywordStart + 1; t < keywordEnd; t++ {
		keywords[names[t]] = t
	}
}

// Lookup maps an identifier to its keyword token, or IDENT.
func Lookup(ident string) Token {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}

// Pos is a 1-based source position.
type Pos struct {
	Line int
	Col  int
}

// Item represents a scanned token with its literal text.
type Item struct {
	Token Token
	Value string // Literal text; decoded contents for STRING
	Pos   Pos
}

// String returns a description used in diagnostics.
func (i Item) String() string {
	switch i.Token {
	case EOF:
		return "end of input"
	case IDENT, INT, DECIMAL:
		return "'" + i.Value + "'"
	case STRING:
		return "string literal"
	}
	return "'" + i.Token.String() + "'"
}
