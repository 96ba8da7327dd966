// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"nickandperla.net/lamina/internal/diag"
	"nickandperla.net/lamina/internal/store"
	"nickandperla.net/lamina/internal/value"
)

// PersistMode returns the evaluator's persistence mode.
func (e *Evaluator) PersistMode() PersistMode {
	return e.persistMode
}

// Persist writes the named globals to the store as definitions. It is a
// no-op in PersistNever mode or without a store.
func (e *Evaluator) Persist(names ...string) error {
	if e.store == nil || e.persistMode == PersistNever {
		return nil
	}
	for _, name := range names {
		v, ok := e.globals.vars[name]
		if !ok {
			return diag.Errorf(diag.UndefinedVariableError, "variable %q not found", name)
		}
		def, err := formatAsDefinition(name, v)
		if err != nil {
			return err
		}
		if err := e.store.Put(name, def); err != nil {
			return fmt.Errorf("persist %s: %w", name, err)
		}
		e.log.Debug().Str("name", name).Msg("persisted")
	}
	return nil
}

// Load restores the named variables from the store.
func (e *Evaluator) Load(names ...string) error {
	defer e.enter(e.ctxOrBackground())()
	return e.atomic(func() error {
		for _, name := range names {
			ok, err := e.load(name)
			if err != nil {
				return err
			}
			if !ok {
				return diag.Errorf(diag.UndefinedVariableError, "variable %q not found in store", name)
			}
		}
		return nil
	})
}

// LoadAll restores every stored variable. Definitions that fail are
// skipped and reported together.
func (e *Evaluator) LoadAll() error {
	if e.store == nil {
		return nil
	}
	names, err := e.store.Names()
	if err != nil {
		return fmt.Errorf("list stored names: %w", err)
	}
	var errs []error
	for _, name := range names {
		if err := e.Load(name); err != nil {
			e.log.Warn().Err(err).Str("name", name).Msg("load failed")
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	e.log.Debug().Int("count", len(names)).Msg("loaded stored variables")
	return errors.Join(errs...)
}

// History returns the stored versions of name, newest first. limit <= 0
// returns all.
func (e *Evaluator) History(name string, limit int) ([]store.VersionEntry, error) {
	hs := historyStore(e)
	if hs == nil {
		return nil, nil
	}
	return hs.GetHistory(name, limit)
}

// Rollback redefines name from a stored version.
func (e *Evaluator) Rollback(name string, version int) error {
	defer e.enter(e.ctxOrBackground())()
	return e.atomic(func() error {
		return e.rollback(name, version)
	})
}

// Forget removes name and its history from the store. The in-memory
// binding is kept.
func (e *Evaluator) Forget(name string) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.Delete(name); err != nil {
		return fmt.Errorf("forget %s: %w", name, err)
	}
	return nil
}

// load executes the stored definition of name in the global scope. It
// reports false when nothing is stored.
func (e *Evaluator) load(name string) (bool, error) {
	if e.store == nil {
		return false, nil
	}
	def, ok, err := e.store.Get(name)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", name, err)
	}
	if !ok {
		return false, nil
	}
	if err := e.runSource(def); err != nil {
		return false, err
	}
	e.log.Debug().Str("name", name).Msg("loaded")
	return true, nil
}

func (e *Evaluator) rollback(name string, version int) error {
	entries, err := e.History(name, 0)
	if err != nil {
		return fmt.Errorf("history %s: %w", name, err)
	}
	for _, ve := range entries {
		if ve.Version == version {
			return e.runSource(ve.Value)
		}
	}
	return diag.Errorf(diag.ValueError, "no version %d of %q", version, name)
}

// autoPersist writes the given globals in PersistAlways mode. Internal
// names (leading "__") and values with no source form are skipped.
func (e *Evaluator) autoPersist(names map[string]struct{}) {
	if e.persistMode != PersistAlways || e.store == nil {
		return
	}
	for _, name := range slices.Sorted(maps.Keys(names)) {
		if strings.HasPrefix(name, "__") {
			continue
		}
		v, ok := e.globals.vars[name]
		if !ok {
			continue
		}
		def, err := formatAsDefinition(name, v)
		if err != nil {
			e.log.Debug().Err(err).Str("name", name).Msg("not persisted")
			continue
		}
		if err := e.store.Put(name, def); err != nil {
			e.log.Warn().Err(err).Str("name", name).Msg("auto-persist failed")
		}
	}
}

// formatAsDefinition renders a global as the Lamina source that recreates
// it: `func f(a) { ... }`, `bigint r = 42;` or `var x = <source>;`.
func formatAsDefinition(name string, v value.Value) (string, error) {
	switch v := v.(type) {
	case *Func:
		if v.Name() == name {
			return v.decl.String(), nil
		}
	case value.BigInt:
		return "bigint " + name + " = " + v.String() + ";", nil
	}
	src, ok := value.Source(v)
	if !ok {
		return "", diag.Errorf(diag.ValueError, "cannot persist %s: %s has no source form", name, v)
	}
	return "var " + name + " = " + src + ";", nil
}

// historyStore type-asserts the evaluator's store to HistoryStore.
func historyStore(e *Evaluator) store.HistoryStore {
	if e.store == nil {
		return nil
	}
	hs, _ := e.store.(store.HistoryStore)
	return hs
}

func (e *Evaluator) ctxOrBackground() context.Context {
	if e.ctx != nil {
		return e.ctx
	}
	return context.Background()
}
