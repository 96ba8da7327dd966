// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package lamina provides the public API for the Lamina interpreter.
package lamina

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"nickandperla.net/lamina/internal/eval"
	"nickandperla.net/lamina/internal/stdlib"
	"nickandperla.net/lamina/internal/store"
	"nickandperla.net/lamina/internal/value"
)

const version = "Lamina.go 1.0.0"

// Version returns the engine name and version.
func Version() string {
	return version
}

// Interpreter is a Lamina interpreter with its own global scope. Calls are
// serialized, so one Interpreter may be shared between goroutines.
type Interpreter struct {
	mu           sync.Mutex
	evaluator    *eval.Evaluator
	store        store.Store
	dbPath       string
	log          zerolog.Logger
	seed         *int64
	maxDepth     int
	historyLimit int
	timeout      time.Duration
	inputReader  func(prompt string) (string, error)
	outputWriter func(text string) error
	prelude      string // custom prelude source (if empty, uses stdlib.Prelude)
	noStdlib     bool
	persistMode  PersistMode
}

// New creates a new interpreter with the given options and runs the prelude.
// In PersistAlways mode every stored variable is loaded as well.
func New(opts ...Option) *Interpreter {
	r := &Interpreter{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}

	if r.store == nil && r.dbPath != "" {
		s, err := store.NewSQLite(r.dbPath)
		if err != nil {
			r.log.Warn().Err(err).Str("path", r.dbPath).Msg("store unavailable, persistence disabled")
		} else {
			r.store = s
		}
	}

	evalOpts := []eval.Option{
		eval.WithLogger(r.log),
		eval.WithPersistMode(r.persistMode),
		eval.WithMaxDepth(r.maxDepth),
		eval.WithHistoryLimit(r.historyLimit),
	}
	if r.store != nil {
		evalOpts = append(evalOpts, eval.WithStore(r.store))
	}
	if r.seed != nil {
		evalOpts = append(evalOpts, eval.WithSeed(*r.seed))
	}
	if r.inputReader != nil {
		evalOpts = append(evalOpts, eval.WithInputReader(r.inputReader))
	}
	if r.outputWriter != nil {
		evalOpts = append(evalOpts, eval.WithOutputWriter(r.outputWriter))
	}
	r.evaluator = eval.New(evalOpts...)

	if ms, ok := r.store.(store.MetadataStore); ok {
		if err := ms.SetMetadata("engine_version", version); err != nil {
			r.log.Warn().Err(err).Msg("failed to record engine version")
		}
	}

	r.loadPrelude()
	if r.persistMode == PersistAlways {
		if err := r.evaluator.LoadAll(); err != nil {
			r.log.Warn().Err(err).Msg("some stored variables failed to load")
		}
	}
	return r
}

func (r *Interpreter) loadPrelude() {
	if r.noStdlib {
		return
	}
	prelude := r.prelude
	if prelude == "" {
		prelude = stdlib.Prelude
	}
	if err := r.evaluator.Preload(prelude); err != nil {
		r.log.Warn().Err(err).Msg("prelude failed")
	}
}

func (r *Interpreter) callContext() (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(context.Background(), r.timeout)
	}
	return context.WithCancel(context.Background())
}

// Execute runs a sequence of statements. Statements before a failing one
// stay applied; the failing one leaves no trace.
func (r *Interpreter) Execute(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx, cancel := r.callContext()
	defer cancel()
	return r.evaluator.ExecuteContext(ctx, code)
}

// Eval evaluates a single expression and returns its rendering.
func (r *Interpreter) Eval(expr string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx, cancel := r.callContext()
	defer cancel()
	v, err := r.evaluator.EvalContext(ctx, expr)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// ExecuteReader runs the program read from rd.
func (r *Interpreter) ExecuteReader(rd io.Reader) error {
	src, err := io.ReadAll(rd)
	if err != nil {
		return fmt.Errorf("read program: %w", err)
	}
	return r.Execute(string(src))
}

// ExecuteFile runs a Lamina source file.
func (r *Interpreter) ExecuteFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.ExecuteReader(f)
}

// SetVariable binds a number. Integral values become integers. An invalid
// name is ignored.
func (r *Interpreter) SetVariable(name string, x float64) {
	r.set(name, numberValue(x))
}

// SetStringVariable binds a string. An invalid name is ignored.
func (r *Interpreter) SetStringVariable(name, s string) {
	r.set(name, value.String(s))
}

func (r *Interpreter) set(name string, v value.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.evaluator.SetVariable(name, v); err != nil {
		r.log.Debug().Err(err).Str("name", name).Msg("set variable ignored")
	}
}

func numberValue(x float64) value.Value {
	if x == math.Trunc(x) && math.Abs(x) < 1<<63 {
		return value.Int(int64(x))
	}
	return value.Float(x)
}

// GetVariable returns the rendering of a global.
func (r *Interpreter) GetVariable(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, err := r.evaluator.GetVariable(name)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// Names returns the global names, sorted.
func (r *Interpreter) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evaluator.Names()
}

// Reset discards every global and re-runs the prelude.
func (r *Interpreter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evaluator.Reset()
	r.loadPrelude()
}

// Persist writes the named globals to the store.
func (r *Interpreter) Persist(names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evaluator.Persist(names...)
}

// Load restores the named globals from the store.
func (r *Interpreter) Load(names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evaluator.Load(names...)
}

// History returns stored versions of name, newest first. limit <= 0
// returns all.
func (r *Interpreter) History(name string, limit int) ([]VersionEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evaluator.History(name, limit)
}

// Rollback redefines name from a stored version.
func (r *Interpreter) Rollback(name string, version int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evaluator.Rollback(name, version)
}

// PersistMode returns the persistence mode.
func (r *Interpreter) PersistMode() PersistMode {
	return r.persistMode
}

// SetInputReader changes the input reader for the input builtin.
func (r *Interpreter) SetInputReader(reader func(prompt string) (string, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputReader = reader
	r.evaluator.SetInputReader(reader)
}

// Close releases the store.
func (r *Interpreter) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}
