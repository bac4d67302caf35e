// Package testutil provides shared test helpers for setting up vaults and state databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/promptboard/internal/state"
	"github.com/starford/promptboard/internal/storage"
)

// TestState creates a temporary SQLite state store that is automatically cleaned up.
func TestState(t *testing.T) *state.Store {
	t.Helper()
	db, err := state.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary vault directory with the given folders and
// returns a store rooted at it.
func TestVault(t *testing.T, folders ...string) *storage.FS {
	t.Helper()
	vaultDir := t.TempDir()
	for _, f := range folders {
		if err := os.MkdirAll(filepath.Join(vaultDir, filepath.FromSlash(f)), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

// WriteFile writes content to a vault-relative path, bypassing the store so
// that no change event is published.
func WriteFile(t *testing.T, store *storage.FS, rel, content string) {
	t.Helper()
	abs := filepath.Join(store.Root(), filepath.FromSlash(rel))
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
