// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"strings"

	"nickandperla.net/lamina/internal/value"
)

var ioBuiltins = []Builtin{
	{"print", 0, -1, builtinPrint},
	{"input", 0, 1, builtinInput},
}

// builtinPrint writes its arguments separated by spaces, then a newline.
func builtinPrint(e *Evaluator, args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	if e.outputWriter != nil {
		if err := e.outputWriter(strings.Join(parts, " ") + "\n"); err != nil {
			return nil, err
		}
	}
	return value.Null{}, nil
}

// builtinInput reads a line. Without an input reader it returns "".
func builtinInput(e *Evaluator, args []value.Value) (value.Value, error) {
	prompt := ""
	if len(args) == 1 {
		prompt = args[0].String()
	}
	if e.inputReader == nil {
		return value.String(""), nil
	}
	line, err := e.inputReader(prompt)
	if err != nil {
		return nil, err
	}
	return value.String(strings.TrimRight(line, "\r\n")), nil
}
