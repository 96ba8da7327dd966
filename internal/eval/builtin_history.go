// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"nickandperla.net/lamina/internal/value"
)

var historyBuiltins = []Builtin{
	{"persist", 1, -1, builtinPersist},
	{"load", 1, 1, builtinLoad},
	{"forget", 1, 1, builtinForget},
	{"history", 1, 2, builtinHistory},
	{"rollback", 2, 2, builtinRollback},
}

func stringArgs(name string, args []value.Value) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		s, err := str(name, a)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// builtinPersist writes globals by name, as in persist("x", "f").
func builtinPersist(e *Evaluator, args []value.Value) (value.Value, error) {
	names, err := stringArgs("persist", args)
	if err != nil {
		return nil, err
	}
	if err := e.Persist(names...); err != nil {
		return nil, err
	}
	return value.Null{}, nil
}

// builtinLoad restores one stored variable and reports whether it existed.
func builtinLoad(e *Evaluator, args []value.Value) (value.Value, error) {
	name, err := str("load", args[0])
	if err != nil {
		return nil, err
	}
	ok, err := e.load(name)
	if err != nil {
		return nil, err
	}
	return value.Bool(ok), nil
}

func builtinForget(e *Evaluator, args []value.Value) (value.Value, error) {
	name, err := str("forget", args[0])
	if err != nil {
		return nil, err
	}
	if err := e.Forget(name); err != nil {
		return nil, err
	}
	return value.Null{}, nil
}

// builtinHistory returns the stored versions of a variable, newest first,
// as structs {version, source, time}.
func builtinHistory(e *Evaluator, args []value.Value) (value.Value, error) {
	name, err := str("history", args[0])
	if err != nil {
		return nil, err
	}
	limit := e.historyLimit
	if len(args) == 2 {
		if limit, err = integer("history", args[1]); err != nil {
			return nil, err
		}
	}
	entries, err := e.History(name, limit)
	if err != nil {
		return nil, err
	}
	keys := []string{"version", "source", "time"}
	out := make([]value.Value, len(entries))
	for i, ve := range entries {
		out[i] = value.NewStruct(keys, []value.Value{
			value.Int(ve.Version),
			value.String(ve.Value),
			value.String(ve.Ts),
		})
	}
	return value.NewArray(out), nil
}

// builtinRollback redefines a variable from one of its stored versions.
func builtinRollback(e *Evaluator, args []value.Value) (value.Value, error) {
	name, err := str("rollback", args[0])
	if err != nil {
		return nil, err
	}
	version, err := integer("rollback", args[1])
	if err != nil {
		return nil, err
	}
	if err := e.rollback(name, version); err != nil {
		return nil, err
	}
	return value.Null{}, nil
}
