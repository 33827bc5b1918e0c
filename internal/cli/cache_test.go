package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCountEntries(t *testing.T) {
	dir := t.TempDir()

	// Sharded layout: entries live one directory below the root.
	for _, p := range []string{"ab/one.json", "ab/two.json", "cd/three.json"} {
		path := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	count, err := countEntries(dir)
	if err != nil {
		t.Fatalf("countEntries() error = %v", err)
	}
	if count != 3 {
		t.Errorf("countEntries() = %d, want 3", count)
	}
}

func TestCountEntriesMissingDir(t *testing.T) {
	_, err := countEntries(filepath.Join(t.TempDir(), "nope"))
	if !os.IsNotExist(err) {
		t.Errorf("countEntries() error = %v, want IsNotExist", err)
	}
}
