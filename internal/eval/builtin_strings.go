// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"strings"

	"nickandperla.net/lamina/internal/diag"
	"nickandperla.net/lamina/internal/value"
)

// String builtins index by rune, from 0.
var stringBuiltins = []Builtin{
	{"string_concat", 0, -1, builtinConcat},
	{"string_length", 1, 1, func(_ *Evaluator, args []value.Value) (value.Value, error) {
		s, err := runes("string_length", args[0])
		if err != nil {
			return nil, err
		}
		return value.Int(len(s)), nil
	}},
	{"string_char_at", 2, 2, builtinCharAt},
	{"string_find", 2, 3, builtinFind},
	{"string_sub_string", 3, 3, builtinSubString},
	{"string_replace_by_index", 4, 4, builtinReplaceByIndex},
}

func runes(name string, v value.Value) ([]rune, error) {
	s, err := str(name, v)
	if err != nil {
		return nil, err
	}
	return []rune(s), nil
}

// bound checks 0 <= i <= limit.
func bound(name string, v value.Value, limit int) (int, error) {
	i, err := integer(name, v)
	if err != nil {
		if diag.KindOf(err) == diag.ValueError && value.IsInteger(v) {
			return 0, diag.Errorf(diag.IndexError, "%s: index %s out of range", name, v)
		}
		return 0, err
	}
	if i < 0 || i > limit {
		return 0, diag.Errorf(diag.IndexError, "%s: index %d out of range [0, %d]", name, i, limit)
	}
	return i, nil
}

// builtinConcat joins the display renderings of its arguments.
func builtinConcat(_ *Evaluator, args []value.Value) (value.Value, error) {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(a.String())
	}
	return value.String(sb.String()), nil
}

func builtinCharAt(_ *Evaluator, args []value.Value) (value.Value, error) {
	s, err := runes("string_char_at", args[0])
	if err != nil {
		return nil, err
	}
	i, err := bound("string_char_at", args[1], len(s)-1)
	if err != nil {
		return nil, err
	}
	return value.String(string(s[i])), nil
}

// builtinFind returns the rune index of the first match at or after start,
// or -1.
func builtinFind(_ *Evaluator, args []value.Value) (value.Value, error) {
	s, err := runes("string_find", args[0])
	if err != nil {
		return nil, err
	}
	sub, err := str("string_find", args[1])
	if err != nil {
		return nil, err
	}
	start := 0
	if len(args) == 3 {
		if start, err = bound("string_find", args[2], len(s)); err != nil {
			return nil, err
		}
	}
	i := strings.Index(string(s[start:]), sub)
	if i < 0 {
		return value.Int(-1), nil
	}
	return value.Int(start + len([]rune(string(s[start:])[:i]))), nil
}

func builtinSubString(_ *Evaluator, args []value.Value) (value.Value, error) {
	s, err := runes("string_sub_string", args[0])
	if err != nil {
		return nil, err
	}
	start, err := bound("string_sub_string", args[1], len(s))
	if err != nil {
		return nil, err
	}
	n, err := bound("string_sub_string", args[2], len(s)-start)
	if err != nil {
		return nil, err
	}
	return value.String(string(s[start : start+n])), nil
}

// builtinReplaceByIndex replaces the runes in [start, end).
func builtinReplaceByIndex(_ *Evaluator, args []value.Value) (value.Value, error) {
	s, err := runes("string_replace_by_index", args[0])
	if err != nil {
		return nil, err
	}
	start, err := bound("string_replace_by_index", args[1], len(s))
	if err != nil {
		return nil, err
	}
	end, err := bound("string_replace_by_index", args[2], len(s))
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, diag.Errorf(diag.IndexError, "string_replace_by_index: end %d before start %d", end, start)
	}
	repl, err := str("string_replace_by_index", args[3])
	if err != nil {
		return nil, err
	}
	return value.String(string(s[:start]) + repl + string(s[end:])), nil
}
