package state

import (
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoad_Defaults(t *testing.T) {
	s := testStore(t)
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.ActiveFolders) != 0 || !got.ShowQuickAccess {
		t.Errorf("defaults = %+v", got)
	}
}

func TestSaveLoad_RoundTripKeepsOrder(t *testing.T) {
	s := testStore(t)
	in := Settings{ActiveFolders: []string{"z", "a/b", "m", "a/b"}, ShowQuickAccess: false}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"z", "a/b", "m"}
	if len(got.ActiveFolders) != len(want) {
		t.Fatalf("folders = %v, want %v", got.ActiveFolders, want)
	}
	for i := range want {
		if got.ActiveFolders[i] != want[i] {
			t.Errorf("folders[%d] = %q, want %q", i, got.ActiveFolders[i], want[i])
		}
	}
	if got.ShowQuickAccess {
		t.Error("ShowQuickAccess should be false")
	}
}

func TestSave_Replaces(t *testing.T) {
	s := testStore(t)
	_ = s.Save(Settings{ActiveFolders: []string{"a", "b"}, ShowQuickAccess: true})
	if err := s.Save(Settings{ActiveFolders: []string{"c"}, ShowQuickAccess: true}); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Load()
	if len(got.ActiveFolders) != 1 || got.ActiveFolders[0] != "c" {
		t.Errorf("folders = %v", got.ActiveFolders)
	}
}

func TestLoad_IgnoresUnknownKeys(t *testing.T) {
	s := testStore(t)
	if _, err := s.conn.Exec(`INSERT INTO settings (key, value) VALUES ('legacy', 'x'), ('show_quick_access', 'garbage')`); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.ShowQuickAccess {
		t.Error("unparseable value should fall back to the default")
	}
}

func TestReopen_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(Settings{ActiveFolders: []string{"prompts"}}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, _ := s2.Load()
	if len(got.ActiveFolders) != 1 || got.ActiveFolders[0] != "prompts" || got.ShowQuickAccess {
		t.Errorf("reloaded = %+v", got)
	}
}
