// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package diag defines the error taxonomy shared by the scanner, parser,
// numeric tower and evaluator.
package diag

import (
	"errors"
	"fmt"
)

// Kind classifies a Lamina error.
type Kind int

const (
	Unknown Kind = iota
	LexError
	ParseError
	TypeError
	DimensionError
	ArityError
	IndexError
	ValueError
	RecursionError
	UndefinedVariableError
	InterruptError
)

// String returns the name of the error kind.
func (k Kind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case TypeError:
		return "TypeError"
	case DimensionError:
		return "DimensionError"
	case ArityError:
		return "ArityError"
	case IndexError:
		return "IndexError"
	case ValueError:
		return "ValueError"
	case RecursionError:
		return "RecursionError"
	case UndefinedVariableError:
		return "UndefinedVariableError"
	case InterruptError:
		return "InterruptError"
	}
	return "Error"
}

// Error lets a Kind be used as an errors.Is target.
func (k Kind) Error() string { return k.String() }

// Error is a classified error with an optional source position.
type Error struct {
	Kind Kind
	Msg  string
	Line int // 1-based, 0 when unknown
	Col  int // 1-based, 0 when unknown
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is reports whether target is the Kind of this error.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Errorf creates an Error of the given kind without a position.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// At creates an Error of the given kind at line:col.
func At(kind Kind, line, col int, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Line: line, Col: col}
}

// WithPos attaches a position to err if it is an *Error that has none.
// Other errors are returned unchanged.
func WithPos(err error, line, col int) error {
	var de *Error
	if errors.As(err, &de) && de.Line == 0 && line > 0 {
		cp := *de
		cp.Line, cp.Col = line, col
		return &cp
	}
	return err
}

// KindOf returns the Kind of err, or Unknown.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return Unknown
}
