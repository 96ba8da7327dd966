package store

import (
	"database/sql"
	"os"
	"strings"
	"testing"
)

func tempDB(t *testing.T) string {
	t.Helper()
	f, err := os.CreateTemp("", "lamina-test-*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	path := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(path) })
	return path
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()

	if err := s.Put("x", "var x = (1/3);"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, ok, err := s.Get("x")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || got != "var x = (1/3);" {
		t.Errorf("expected definition, got %q (ok=%v)", got, ok)
	}

	if err := s.Delete("x"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Get("x"); ok {
		t.Error("expected missing after delete")
	}
}

func TestSQLiteStore(t *testing.T) {
	path := tempDB(t)

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}
	if err := s.Put("r", "bigint r = 42;"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put("f", "func f(a) { return (a * 2); }"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Close and reopen to verify persistence
	s.Close()

	s2, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to reopen SQLite store: %v", err)
	}
	defer s2.Close()

	got, ok, err := s2.Get("r")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if !ok || got != "bigint r = 42;" {
		t.Errorf("expected bigint definition after reopen, got %q", got)
	}
	names, err := s2.Names()
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	if strings.Join(names, ",") != "f,r" {
		t.Errorf("expected [f r], got %v", names)
	}
	if _, ok, _ := s2.Get("missing"); ok {
		t.Error("expected missing name to report ok=false")
	}
}

func testVersioning(t *testing.T, s interface {
	Store
	HistoryStore
}) {
	s.Put("X", "var X = 1;")
	s.Put("X", "var X = 2;")
	// Same value is a no-op
	s.Put("X", "var X = 2;")

	got, _, _ := s.Get("X")
	if got != "var X = 2;" {
		t.Errorf("expected latest definition, got %q", got)
	}

	entries, err := s.GetHistory("X", 0)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Version != 2 || entries[0].Value != "var X = 2;" {
		t.Errorf("entry[0]: expected v2, got v%d %q", entries[0].Version, entries[0].Value)
	}
	if entries[1].Version != 1 || entries[1].Value != "var X = 1;" {
		t.Errorf("entry[1]: expected v1, got v%d %q", entries[1].Version, entries[1].Value)
	}
	if entries[0].Ts == "" {
		t.Error("expected non-empty timestamp")
	}

	entries, _ = s.GetHistory("X", 1)
	if len(entries) != 1 || entries[0].Version != 2 {
		t.Fatalf("expected only v2 with limit, got %v", entries)
	}

	entries, _ = s.GetHistory("nope", 0)
	if len(entries) != 0 {
		t.Errorf("expected no history for unknown name, got %v", entries)
	}

	s.Delete("X")
	entries, _ = s.GetHistory("X", 0)
	if len(entries) != 0 {
		t.Errorf("expected 0 after delete, got %d", len(entries))
	}
}

func TestMemoryVersioning(t *testing.T) {
	testVersioning(t, NewMemory())
}

func TestSQLiteVersioning(t *testing.T) {
	s, err := NewSQLite(tempDB(t))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()
	testVersioning(t, s)
}

func testInputHistory(t *testing.T, h InputHistory) {
	for _, line := range []string{"var a = 1;", "a + 1", "a * 3"} {
		if err := h.AppendInput("session-1", line); err != nil {
			t.Fatalf("AppendInput: %v", err)
		}
	}
	got, err := h.RecentInputs(2)
	if err != nil {
		t.Fatalf("RecentInputs: %v", err)
	}
	if strings.Join(got, "|") != "a + 1|a * 3" {
		t.Errorf("expected last two lines oldest first, got %q", got)
	}
	all, _ := h.RecentInputs(0)
	if len(all) != 3 {
		t.Errorf("expected 3 lines, got %d", len(all))
	}
}

func TestMemoryInputHistory(t *testing.T) {
	testInputHistory(t, NewMemory())
}

func TestSQLiteInputHistory(t *testing.T) {
	s, err := NewSQLite(tempDB(t))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()
	testInputHistory(t, s)
}

func TestSQLiteMetadata(t *testing.T) {
	s, err := NewSQLite(tempDB(t))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()

	v, err := s.GetMetadata("schema_version")
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if v != SchemaVersion {
		t.Errorf("expected schema version %s, got %q", SchemaVersion, v)
	}
	if err := s.SetMetadata("engine_version", "Lamina.go 1.0.0"); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	if v, _ := s.GetMetadata("engine_version"); v != "Lamina.go 1.0.0" {
		t.Errorf("got %q", v)
	}
}

func TestSQLiteRejectsUnknownSchema(t *testing.T) {
	path := tempDB(t)

	db, err := sql.Open(driverName, path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	db.Exec(`
		CREATE TABLE metadata (key TEXT PRIMARY KEY, value TEXT NOT NULL);
		INSERT INTO metadata (key, value) VALUES ('schema_version', '99');
	`)
	db.Close()

	if _, err := NewSQLite(path); err == nil {
		t.Fatal("expected error for unsupported schema version")
	} else if !strings.Contains(err.Error(), "unsupported schema version: 99") {
		t.Errorf("unexpected error: %v", err)
	}
}
