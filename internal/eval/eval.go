// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the Lamina evaluator.
package eval

import (
	"context"
	"fmt"
	"maps"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"nickandperla.net/lamina/internal/ast"
	"nickandperla.net/lamina/internal/diag"
	"nickandperla.net/lamina/internal/parser"
	"nickandperla.net/lamina/internal/scanner"
	"nickandperla.net/lamina/internal/store"
	"nickandperla.net/lamina/internal/value"
)

// ResultName is the global that Eval binds its result to.
const ResultName = "__lamina_result__"

// DefaultMaxDepth is the default limit on nested function calls.
const DefaultMaxDepth = 2000

// PersistMode controls when variables are persisted.
type PersistMode int

const (
	// PersistOnDemand is the default - explicit persist/load calls only.
	PersistOnDemand PersistMode = iota
	// PersistAlways writes every global changed by a successful statement.
	PersistAlways
	// PersistNever makes persist a no-op (memory-only mode).
	PersistNever
)

// String returns the string representation of a PersistMode.
func (m PersistMode) String() string {
	switch m {
	case PersistOnDemand:
		return "ON_DEMAND"
	case PersistAlways:
		return "ALWAYS"
	case PersistNever:
		return "NEVER"
	default:
		return "UNKNOWN"
	}
}

// ParsePersistMode parses a string into a PersistMode.
func ParsePersistMode(s string) (PersistMode, bool) {
	switch strings.ToUpper(s) {
	case "ON_DEMAND":
		return PersistOnDemand, true
	case "ALWAYS":
		return PersistAlways, true
	case "NEVER":
		return PersistNever, true
	default:
		return PersistOnDemand, false
	}
}

// InputReader reads user input.
type InputReader func(prompt string) (string, error)

// OutputWriter writes output (for the print builtin).
type OutputWriter func(text string) error

// Evaluator interprets Lamina programs against one global scope.
// It is not safe for concurrent use.
type Evaluator struct {
	globals      *Env
	builtins     *Builtins
	store        store.Store
	persistMode  PersistMode
	historyLimit int
	log          zerolog.Logger
	rng          *rand.Rand
	clock        func() time.Time
	maxDepth     int
	depth        int
	ctx          context.Context
	inputReader  InputReader
	outputWriter OutputWriter
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithStore sets the persistence store.
func WithStore(s store.Store) Option {
	return func(e *Evaluator) { e.store = s }
}

// WithPersistMode sets the persistence mode.
func WithPersistMode(m PersistMode) Option {
	return func(e *Evaluator) { e.persistMode = m }
}

// WithHistoryLimit caps the number of versions history() returns (0 = all).
func WithHistoryLimit(n int) Option {
	return func(e *Evaluator) { e.historyLimit = n }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Evaluator) { e.log = l }
}

// WithBuiltins replaces the built-in function table.
func WithBuiltins(b *Builtins) Option {
	return func(e *Evaluator) { e.builtins = b }
}

// WithSeed makes rand, randint and randstr reproducible.
func WithSeed(seed int64) Option {
	return func(e *Evaluator) { e.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed))) }
}

// WithClock sets the time source for the date and time builtins.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.clock = now }
}

// WithMaxDepth sets the maximum call depth.
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// WithInputReader sets the input reader for the input builtin.
func WithInputReader(r InputReader) Option {
	return func(e *Evaluator) { e.inputReader = r }
}

// WithOutputWriter sets the output writer for the print builtin.
func WithOutputWriter(w OutputWriter) Option {
	return func(e *Evaluator) { e.outputWriter = w }
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		globals:  NewEnv(nil, true),
		builtins: DefaultBuiltins(),
		log:      zerolog.Nop(),
		clock:    time.Now,
		maxDepth: DefaultMaxDepth,
		outputWriter: func(text string) error {
			_, err := fmt.Print(text)
			return err
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs a program. See ExecuteContext.
func (e *Evaluator) Execute(src string) error {
	return e.ExecuteContext(context.Background(), src)
}

// ExecuteContext parses src and runs its top-level statements in order.
// A syntax error runs nothing. A failing statement leaves the globals as
// they were before it; earlier statements stay applied.
func (e *Evaluator) ExecuteContext(ctx context.Context, src string) error {
	prog, err := parser.ParseString(src)
	if err != nil {
		return err
	}
	defer e.enter(ctx)()
	for _, st := range prog.Stmts {
		err := e.atomic(func() error {
			_, _, err := e.exec(st, e.globals)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Preload runs src like Execute without auto-persisting what it defines.
func (e *Evaluator) Preload(src string) error {
	mode := e.persistMode
	if mode == PersistAlways {
		e.persistMode = PersistOnDemand
		defer func() { e.persistMode = mode }()
	}
	return e.Execute(src)
}

// Eval evaluates a single expression. See EvalContext.
func (e *Evaluator) Eval(src string) (value.Value, error) {
	return e.EvalContext(context.Background(), src)
}

// EvalContext evaluates one expression and binds the result to ResultName.
func (e *Evaluator) EvalContext(ctx context.Context, src string) (value.Value, error) {
	x, err := parser.ParseExpressionString(src)
	if err != nil {
		return nil, err
	}
	defer e.enter(ctx)()
	var out value.Value
	err = e.atomic(func() error {
		v, err := e.eval(x, e.globals)
		if err != nil {
			return err
		}
		e.globals.Declare(ResultName, v)
		out = v
		return nil
	})
	return out, err
}

// SetVariable binds a global.
func (e *Evaluator) SetVariable(name string, v value.Value) error {
	if !scanner.IsIdentifier(name) {
		return diag.Errorf(diag.ValueError, "invalid variable name %q", name)
	}
	defer e.enter(context.Background())()
	e.log.Debug().Str("name", name).Str("kind", v.Kind().String()).Msg("set variable")
	return e.atomic(func() error {
		e.globals.Declare(name, v)
		return nil
	})
}

// GetVariable returns a global.
func (e *Evaluator) GetVariable(name string) (value.Value, error) {
	v, ok := e.globals.Lookup(name)
	if !ok {
		return nil, diag.Errorf(diag.UndefinedVariableError, "variable %q not found", name)
	}
	return v, nil
}

// Globals returns a copy of the global bindings.
func (e *Evaluator) Globals() map[string]value.Value {
	return maps.Clone(e.globals.vars)
}

// Names returns the global names, sorted.
func (e *Evaluator) Names() []string {
	return e.globals.Names()
}

// SetInputReader changes the input reader for the input builtin.
func (e *Evaluator) SetInputReader(r InputReader) {
	e.inputReader = r
}

// Builtins returns the built-in table in use.
func (e *Evaluator) Builtins() *Builtins {
	return e.builtins
}

// Reset discards every global binding.
func (e *Evaluator) Reset() {
	n := len(e.globals.vars)
	e.globals = NewEnv(nil, true)
	e.depth = 0
	e.log.Debug().Int("discarded", n).Msg("reset")
}

// enter installs ctx for the duration of a call and returns the undo func.
func (e *Evaluator) enter(ctx context.Context) func() {
	prev := e.ctx
	e.ctx = ctx
	return func() { e.ctx = prev }
}

// atomic runs fn with every binding change logged, undoing them all if fn
// fails, then auto-persists the globals fn changed.
func (e *Evaluator) atomic(fn func() error) error {
	globals := e.globals
	undo := globals.undo
	undo.begin()
	globals.dirty = make(map[string]struct{})
	e.depth = 0
	defer func() { globals.dirty = nil }()

	if err := fn(); err != nil {
		n := len(undo.entries)
		undo.rollback()
		e.log.Debug().Err(err).Int("undone", n).Msg("statement failed, bindings restored")
		return err
	}
	undo.end()
	e.autoPersist(globals.dirty)
	return nil
}

// interrupted reports cancellation of the current call's context.
func (e *Evaluator) interrupted() error {
	if e.ctx == nil {
		return nil
	}
	if err := e.ctx.Err(); err != nil {
		return diag.Errorf(diag.InterruptError, "evaluation interrupted: %v", err)
	}
	return nil
}

// runSource executes src statement by statement in the global scope,
// inside whatever statement is already running.
func (e *Evaluator) runSource(src string) error {
	prog, err := parser.ParseString(src)
	if err != nil {
		return err
	}
	for _, st := range prog.Stmts {
		if _, _, err := e.exec(st, e.globals); err != nil {
			return err
		}
	}
	return nil
}

func errorAt(err error, n ast.Node) error {
	p := n.Pos()
	return diag.WithPos(err, p.Line, p.Col)
}
