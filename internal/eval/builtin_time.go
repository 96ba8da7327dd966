// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"time"

	"nickandperla.net/lamina/internal/value"
)

var timeBuiltins = []Builtin{
	{"time", 0, 0, func(e *Evaluator, _ []value.Value) (value.Value, error) {
		return value.Int(e.clock().Unix()), nil
	}},
	{"date", 0, 0, func(e *Evaluator, _ []value.Value) (value.Value, error) {
		return value.String(e.clock().Format(time.DateOnly)), nil
	}},
	{"datetime", 0, 0, func(e *Evaluator, _ []value.Value) (value.Value, error) {
		return value.String(e.clock().Format(time.RFC3339)), nil
	}},
}
