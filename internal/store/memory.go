// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"slices"
	"sync"
	"time"
)

// Memory is an in-memory store, used for tests and when no database is
// configured.
type Memory struct {
	mu       sync.RWMutex
	data     map[string]string
	versions map[string][]VersionEntry
	inputs   []string
	metadata map[string]string
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data:     make(map[string]string),
		versions: make(map[string][]VersionEntry),
		metadata: make(map[string]string),
	}
}

// Get retrieves a definition by name.
func (m *Memory) Get(name string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	def, ok := m.data[name]
	return def, ok, nil
}

// Put stores a definition. A new version is recorded only when the
// definition differs from the latest one.
func (m *Memory) Put(name, def string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = def
	vv := m.versions[name]
	if len(vv) > 0 && vv[len(vv)-1].Value == def {
		return nil
	}
	m.versions[name] = append(vv, VersionEntry{
		Version: len(vv) + 1,
		Value:   def,
		Ts:      time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// Delete removes a definition and its history.
func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	delete(m.versions, name)
	return nil
}

// Names lists stored names in lexical order.
func (m *Memory) Names() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}

// GetHistory returns versions of name, newest first.
func (m *Memory) GetHistory(name string, limit int) ([]VersionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vv := m.versions[name]
	out := make([]VersionEntry, len(vv))
	for i, v := range vv {
		out[len(vv)-1-i] = v
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// AppendInput records a REPL line. The session is not tracked in memory.
func (m *Memory) AppendInput(session, line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, line)
	return nil
}

// RecentInputs returns up to limit lines, oldest first.
func (m *Memory) RecentInputs(limit int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	in := m.inputs
	if limit > 0 && limit < len(in) {
		in = in[len(in)-limit:]
	}
	return append([]string(nil), in...), nil
}

// GetMetadata retrieves a metadata value by key.
func (m *Memory) GetMetadata(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metadata[key], nil
}

// SetMetadata stores a metadata value by key.
func (m *Memory) SetMetadata(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[key] = value
	return nil
}
