package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTokenFileSaveLoad(t *testing.T) {
	f := NewTokenFile(t.TempDir())

	if err := f.Save("tok1"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != "tok1" {
		t.Errorf("Load() = %q, want %q", got, "tok1")
	}
}

func TestTokenFileLoadMissing(t *testing.T) {
	f := NewTokenFile(t.TempDir())
	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}
	if got != "" {
		t.Errorf("Load() = %q, want empty", got)
	}
}

func TestTokenFileOverwrite(t *testing.T) {
	f := NewTokenFile(t.TempDir())
	if err := f.Save("old"); err != nil {
		t.Fatal(err)
	}
	if err := f.Save("new"); err != nil {
		t.Fatal(err)
	}
	got, _ := f.Load()
	if got != "new" {
		t.Errorf("Load() = %q, want %q", got, "new")
	}
}

func TestTokenFileClear(t *testing.T) {
	f := NewTokenFile(t.TempDir())
	if err := f.Save("tok"); err != nil {
		t.Fatal(err)
	}
	if err := f.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if got, _ := f.Load(); got != "" {
		t.Errorf("Load() after Clear = %q, want empty", got)
	}
	// Clearing again is a no-op.
	if err := f.Clear(); err != nil {
		t.Errorf("Clear() on missing file: %v", err)
	}
}

func TestTokenFileCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	f := NewTokenFile(dir)
	if err := f.Save("tok"); err != nil {
		t.Fatalf("Save() into missing dir: %v", err)
	}
	if _, err := os.Stat(f.Path()); err != nil {
		t.Errorf("token file not created: %v", err)
	}
}

func TestTokenFileNoLeftoverTemp(t *testing.T) {
	dir := t.TempDir()
	f := NewTokenFile(dir)
	if err := f.Save("tok"); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != tokenFileName {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("state dir = %v, want only %q", names, tokenFileName)
	}
}
