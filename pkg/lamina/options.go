// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package lamina

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"nickandperla.net/lamina/internal/eval"
	"nickandperla.net/lamina/internal/store"
)

// Option configures an Interpreter.
type Option func(*Interpreter)

// Store interface for custom stores.
type Store = store.Store

// VersionEntry is one stored version of a variable.
type VersionEntry = store.VersionEntry

// PersistMode controls when variables are persisted.
type PersistMode = eval.PersistMode

// Persist mode constants.
const (
	PersistOnDemand = eval.PersistOnDemand
	PersistAlways   = eval.PersistAlways
	PersistNever    = eval.PersistNever
)

// ParsePersistMode parses a string into a PersistMode.
func ParsePersistMode(s string) (PersistMode, bool) {
	return eval.ParsePersistMode(s)
}

// WithStore sets the persistence store. The interpreter closes it on Close.
func WithStore(s Store) Option {
	return func(r *Interpreter) {
		r.store = s
	}
}

// WithSQLiteStore configures SQLite persistence at the given path. If the
// database cannot be opened the interpreter runs without a store and logs a
// warning.
func WithSQLiteStore(path string) Option {
	return func(r *Interpreter) {
		r.dbPath = path
	}
}

// WithMemoryStore configures an in-memory store (for testing).
func WithMemoryStore() Option {
	return func(r *Interpreter) {
		r.store = store.NewMemory()
	}
}

// WithPersistMode sets the persistence mode.
func WithPersistMode(mode PersistMode) Option {
	return func(r *Interpreter) {
		r.persistMode = mode
	}
}

// WithLogger sets the logger shared by the interpreter and its evaluator.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Interpreter) {
		r.log = l
	}
}

// WithSeed makes the random builtins reproducible.
func WithSeed(seed int64) Option {
	return func(r *Interpreter) {
		r.seed = &seed
	}
}

// WithMaxDepth sets the maximum call depth.
func WithMaxDepth(n int) Option {
	return func(r *Interpreter) {
		r.maxDepth = n
	}
}

// WithHistoryLimit caps how many versions the history builtin returns.
func WithHistoryLimit(n int) Option {
	return func(r *Interpreter) {
		r.historyLimit = n
	}
}

// WithTimeout bounds each Execute and Eval call. Zero means no limit.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Interpreter) {
		r.timeout = timeout
	}
}

// WithInputReader sets the input reader for the input builtin.
func WithInputReader(reader func(prompt string) (string, error)) Option {
	return func(r *Interpreter) {
		r.inputReader = reader
	}
}

// WithOutputWriter sets the output writer for the print builtin.
func WithOutputWriter(writer func(text string) error) Option {
	return func(r *Interpreter) {
		r.outputWriter = writer
	}
}

// WithOutput sets the io.Writer for output.
func WithOutput(w io.Writer) Option {
	return func(r *Interpreter) {
		r.outputWriter = func(text string) error {
			_, err := w.Write([]byte(text))
			return err
		}
	}
}

// WithPrelude sets a custom prelude source to be loaded on startup.
// If not set, the standard prelude is used.
func WithPrelude(source string) Option {
	return func(r *Interpreter) {
		r.prelude = source
	}
}

// WithNoStdlib disables loading the prelude.
func WithNoStdlib() Option {
	return func(r *Interpreter) {
		r.noStdlib = true
	}
}
