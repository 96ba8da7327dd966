// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"maps"
	"slices"

	"nickandperla.net/lamina/internal/value"
)

// Env is one lexical scope. The global scope and every call scope are
// function scopes; blocks push plain scopes on top of them.
type Env struct {
	vars   map[string]value.Value
	parent *Env
	fn     bool

	// dirty collects names written directly in this scope. Only the global
	// scope tracks it, for auto-persistence.
	dirty map[string]struct{}

	// undo is shared by a global scope and every scope below it. gen is
	// the statement generation the scope was created in.
	undo *undoLog
	gen  int
}

// undoLog records the first change to each binding while a top-level
// statement runs, so a failed statement can be rolled back in every scope
// it reached, including scopes captured by closures. Scopes created by the
// statement itself are not recorded.
type undoLog struct {
	active  bool
	gen     int
	entries []undoEntry
	seen    map[*Env]map[string]struct{}
}

type undoEntry struct {
	env     *Env
	name    string
	prev    value.Value
	existed bool
}

func (l *undoLog) begin() {
	l.active = true
	l.gen++
	l.seen = make(map[*Env]map[string]struct{})
}

func (l *undoLog) record(e *Env, name string) {
	if e.gen == l.gen {
		return
	}
	names := l.seen[e]
	if names == nil {
		names = make(map[string]struct{})
		l.seen[e] = names
	}
	if _, ok := names[name]; ok {
		return
	}
	names[name] = struct{}{}
	prev, existed := e.vars[name]
	l.entries = append(l.entries, undoEntry{env: e, name: name, prev: prev, existed: existed})
}

// rollback restores every recorded binding, newest first.
func (l *undoLog) rollback() {
	for i := len(l.entries) - 1; i >= 0; i-- {
		u := l.entries[i]
		if u.existed {
			u.env.vars[u.name] = u.prev
		} else {
			delete(u.env.vars, u.name)
		}
	}
	l.end()
}

func (l *undoLog) end() {
	l.active = false
	l.entries = nil
	l.seen = nil
}

// NewEnv creates a scope. fn marks a function boundary: assignments to
// undeclared names land in the nearest such scope.
func NewEnv(parent *Env, fn bool) *Env {
	e := &Env{
		vars:   make(map[string]value.Value),
		parent: parent,
		fn:     fn,
	}
	if parent != nil {
		e.undo = parent.undo
	} else {
		e.undo = &undoLog{}
	}
	if e.undo.active {
		e.gen = e.undo.gen
	}
	return e
}

// Lookup finds name in this scope or any enclosing one.
func (e *Env) Lookup(name string) (value.Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Declare binds name in this scope, shadowing outer bindings.
func (e *Env) Declare(name string, v value.Value) {
	e.set(name, v)
}

// Assign updates the nearest declaration of name. An undeclared name is
// defined in the nearest function scope.
func (e *Env) Assign(name string, v value.Value) {
	var fnScope *Env
	for s := e; s != nil; s = s.parent {
		if _, ok := s.vars[name]; ok {
			s.set(name, v)
			return
		}
		if fnScope == nil && s.fn {
			fnScope = s
		}
	}
	if fnScope == nil {
		fnScope = e
	}
	fnScope.set(name, v)
}

// Has reports whether name is bound in this scope itself.
func (e *Env) Has(name string) bool {
	_, ok := e.vars[name]
	return ok
}

// Delete removes name from this scope.
func (e *Env) Delete(name string) {
	if e.undo != nil && e.undo.active {
		e.undo.record(e, name)
	}
	delete(e.vars, name)
}

// Names returns the names bound in this scope, sorted.
func (e *Env) Names() []string {
	return slices.Sorted(maps.Keys(e.vars))
}

func (e *Env) set(name string, v value.Value) {
	if e.undo != nil && e.undo.active {
		e.undo.record(e, name)
	}
	e.vars[name] = v
	if e.dirty != nil {
		e.dirty[name] = struct{}{}
	}
}
