package eval

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"nickandperla.net/lamina/internal/diag"
	"nickandperla.net/lamina/internal/store"
)

const persistProgram = `
var x = 1/3;
bigint r = 25!;
func twice(a) { return a * 2; }
var s = "hi \"there\"";
var v = [1, sqrt(2), pi() / 4];
var m = [[1, 2], [3, 4]];
var p = {name: "pt", "two words": decimal(0.5)};
var g = func(a) { return a + 1; };
`

var persistNames = []string{"x", "r", "twice", "s", "v", "m", "p", "g"}

func testPersistRoundTrip(t *testing.T, st store.Store) {
	e := New(WithStore(st))
	if err := e.Execute(persistProgram); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Persist(persistNames...); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	e2 := New(WithStore(st))
	if err := e2.Load(persistNames...); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, name := range persistNames {
		if name == "twice" || name == "g" {
			continue
		}
		if got, want := getString(t, e2, name), getString(t, e, name); got != want {
			t.Errorf("%s = %s after load, expected %s", name, got, want)
		}
	}
	for input, expected := range map[string]string{
		"typeof(r)":    "bigint",
		"twice(21)":    "42",
		"g(1/2)":       "3/2",
		"typeof(v[2])": "irrational",
	} {
		if got := evalString(t, e2, input); got != expected {
			t.Errorf("%s = %s after load, expected %s", input, got, expected)
		}
	}
}

func TestPersistRoundTripMemory(t *testing.T) {
	testPersistRoundTrip(t, store.NewMemory())
}

func TestPersistRoundTripSQLite(t *testing.T) {
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "lamina.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer st.Close()
	testPersistRoundTrip(t, st)
}

func TestDefinitionFormat(t *testing.T) {
	st := store.NewMemory()
	e := New(WithStore(st))
	if err := e.Execute("bigint r = 42; func f(a) { return a; } var h = f; var q = 0.25;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Persist("r", "f", "h", "q"); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	for name, want := range map[string]string{
		"r": "bigint r = 42;",
		"f": "func f(a) { return a; }",
		"h": "var h = func f(a) { return a; };",
		"q": "var q = (1/4);",
	} {
		got, ok, _ := st.Get(name)
		if !ok || got != want {
			t.Errorf("stored %s = %q, expected %q", name, got, want)
		}
	}
}

func TestPersistUnrepresentable(t *testing.T) {
	e := New(WithStore(store.NewMemory()))
	if err := e.Execute("var f = sqrt;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Persist("f"); !errors.Is(err, diag.ValueError) {
		t.Errorf("expected ValueError, got %v", err)
	}
	if err := e.Persist("missing"); !errors.Is(err, diag.UndefinedVariableError) {
		t.Errorf("expected UndefinedVariableError, got %v", err)
	}
	if err := e.Load("missing"); !errors.Is(err, diag.UndefinedVariableError) {
		t.Errorf("expected UndefinedVariableError, got %v", err)
	}
}

func TestPersistAlways(t *testing.T) {
	st := store.NewMemory()
	e := New(WithStore(st), WithPersistMode(PersistAlways))
	if err := e.Execute("var a = 1; a = 2; var tmp = sqrt;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Eval("a * 10"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _, _ := st.Get("a")
	if got != "var a = 2;" {
		t.Errorf("stored a = %q", got)
	}
	names, _ := st.Names()
	if !slices.Equal(names, []string{"a"}) {
		t.Errorf("expected only a to be stored, got %v", names)
	}
	entries, _ := e.History("a", 0)
	if len(entries) != 2 {
		t.Fatalf("expected 2 versions of a, got %d", len(entries))
	}

	// A failing statement is not persisted.
	if err := e.Execute("a = 3; a = a / 0;"); err == nil {
		t.Fatal("expected error")
	}
	got, _, _ = st.Get("a")
	if got != "var a = 3;" {
		t.Errorf("stored a = %q, expected only the completed statement", got)
	}

	e2 := New(WithStore(st), WithPersistMode(PersistAlways))
	if err := e2.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if got := getString(t, e2, "a"); got != "3" {
		t.Errorf("a = %s after LoadAll", got)
	}

	if err := e2.Rollback("a", 1); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if got := getString(t, e2, "a"); got != "1" {
		t.Errorf("a = %s after rollback, expected 1", got)
	}
	if err := e2.Rollback("a", 42); !errors.Is(err, diag.ValueError) {
		t.Errorf("expected ValueError for unknown version, got %v", err)
	}
}

func TestPersistNever(t *testing.T) {
	st := store.NewMemory()
	e := New(WithStore(st), WithPersistMode(PersistNever))
	if err := e.Execute(`var a = 1; persist("a");`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if names, _ := st.Names(); len(names) != 0 {
		t.Errorf("expected nothing stored, got %v", names)
	}
}

func TestPersistenceBuiltins(t *testing.T) {
	st := store.NewMemory()
	e := New(WithStore(st))
	err := e.Execute(`
		var n = 1;
		persist("n");
		n = 2;
		persist("n");
		var versions = history("n");
		var latest = history("n", 1);
		n = 100;
		var found = load("n");
		var missing = load("nothing");
		rollback("n", 1);
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for input, expected := range map[string]string{
		"size(versions)":           "2",
		"versions[0].version":      "2",
		"versions[1].source":       "var n = 1;",
		"size(latest)":             "1",
		"found":                    "true",
		"missing":                  "false",
		"n":                        "1",
		"typeof(versions[0].time)": "string",
	} {
		if got := evalString(t, e, input); got != expected {
			t.Errorf("%s = %s, expected %s", input, got, expected)
		}
	}

	if err := e.Execute(`forget("n");`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := st.Get("n"); ok {
		t.Error("forget did not remove n from the store")
	}
	if got := getString(t, e, "n"); got != "1" {
		t.Errorf("forget should keep the binding, got %s", got)
	}
}

func TestPersistModeStrings(t *testing.T) {
	for _, m := range []PersistMode{PersistOnDemand, PersistAlways, PersistNever} {
		got, ok := ParsePersistMode(m.String())
		if !ok || got != m {
			t.Errorf("ParsePersistMode(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if m, ok := ParsePersistMode("always"); !ok || m != PersistAlways {
		t.Error("ParsePersistMode should be case-insensitive")
	}
	if _, ok := ParsePersistMode("sometimes"); ok {
		t.Error("expected failure for unknown mode")
	}
}

func TestNoStore(t *testing.T) {
	e := New()
	if err := e.Execute(`var a = 1; persist("a"); var h = history("a");`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := evalString(t, e, "h"); got != "[]" {
		t.Errorf("history without a store = %s", got)
	}
	if err := e.LoadAll(); err != nil {
		t.Errorf("LoadAll without a store: %v", err)
	}
}
