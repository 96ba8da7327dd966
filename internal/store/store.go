// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package store provides persistence for Lamina variables.
//
// Variables are stored as Lamina definition source (`var x = 1/3;`,
// `bigint r = 42;`, `func f(a) { ... }`); loading a variable means executing
// its definition.
package store

// Store is the interface for variable persistence.
type Store interface {
	// Get retrieves a definition by name. ok is false if it does not exist.
	Get(name string) (def string, ok bool, err error)
	// Put stores a definition by name, overwriting if it exists.
	Put(name, def string) error
	// Delete removes a definition and its history.
	Delete(name string) error
	// Names lists the stored names in lexical order.
	Names() ([]string, error)
	// Close releases resources.
	Close() error
}

// VersionEntry represents a single version of a persisted definition.
type VersionEntry struct {
	Version int
	Value   string
	Ts      string
}

// HistoryStore extends Store with version history queries.
type HistoryStore interface {
	// GetHistory returns versions newest first; limit <= 0 returns all.
	GetHistory(name string, limit int) ([]VersionEntry, error)
}

// InputHistory records lines entered at the REPL.
type InputHistory interface {
	AppendInput(session, line string) error
	// RecentInputs returns up to limit lines, oldest first.
	RecentInputs(limit int) ([]string, error)
}

// MetadataStore extends Store with key/value metadata.
type MetadataStore interface {
	GetMetadata(key string) (string, error)
	SetMetadata(key, value string) error
}
