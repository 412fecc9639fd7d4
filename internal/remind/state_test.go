package remind

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStateDB(t *testing.T) {
	dir := t.TempDir()
	state, err := OpenStateDB(dir)
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	defer state.Close()

	const key = "2026-08-26-18:00"

	fired, err := state.WasFired(key)
	if err != nil {
		t.Fatal(err)
	}
	if fired {
		t.Error("fresh slot reported as fired")
	}

	if err := state.MarkFired(key); err != nil {
		t.Fatal(err)
	}
	// Marking twice must not error.
	if err := state.MarkFired(key); err != nil {
		t.Fatal(err)
	}

	fired, err = state.WasFired(key)
	if err != nil {
		t.Fatal(err)
	}
	if !fired {
		t.Error("marked slot reported as not fired")
	}

	if fired, _ := state.WasFired("2026-08-27-18:00"); fired {
		t.Error("unrelated slot reported as fired")
	}
}

func TestStateDBPersists(t *testing.T) {
	dir := t.TempDir()

	state, err := OpenStateDB(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := state.MarkFired("slot-1"); err != nil {
		t.Fatal(err)
	}
	if err := state.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, "state.db")); err != nil {
		t.Fatalf("state file missing: %v", err)
	}

	reopened, err := OpenStateDB(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	fired, err := reopened.WasFired("slot-1")
	if err != nil {
		t.Fatal(err)
	}
	if !fired {
		t.Error("fired slot lost across reopen")
	}
}
