// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package value implements Lamina runtime values and the exact numeric tower.
//
// Numbers are promoted along Int → BigInt → Rational → Irrational → Float.
// A binary operation runs in the strongest representation of its operands and
// falls back to Float only when no exact result exists. All values are
// immutable; operations return new values.
package value

import (
	"strconv"
	"strings"
)

// Kind identifies the variant of a Value.
type Kind int

const (
	NullKind Kind = iota
	BoolKind
	IntKind
	BigIntKind
	RationalKind
	IrrationalKind
	FloatKind
	StringKind
	ArrayKind
	MatrixKind
	StructKind
	FuncKind
)

// String returns the name of the kind as reported by typeof.
func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case BigIntKind:
		return "bigint"
	case RationalKind:
		return "rational"
	case IrrationalKind:
		return "irrational"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case ArrayKind:
		return "array"
	case MatrixKind:
		return "matrix"
	case StructKind:
		return "struct"
	case FuncKind:
		return "func"
	}
	return "unknown"
}

// Value is a Lamina runtime datum.
type Value interface {
	Kind() Kind
	// String returns the display rendering of the value.
	String() string
}

// Null is the absent value.
type Null struct{}

func (Null) Kind() Kind     { return NullKind }
func (Null) String() string { return "null" }

// Bool is a boolean value.
type Bool bool

func (Bool) Kind() Kind { return BoolKind }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// String is a text value.
type String string

func (String) Kind() Kind       { return StringKind }
func (s String) String() string { return string(s) }

// Truthy reports whether v counts as true in a condition.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(v)
	case String:
		return v != ""
	case Array:
		return v.Len() > 0
	}
	if IsNumber(v) {
		return Sign(v) != 0
	}
	return true
}

// repr renders v for display inside a collection; strings are quoted.
func repr(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}

func joinRepr(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = repr(v)
	}
	return strings.Join(parts, ", ")
}
