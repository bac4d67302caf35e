package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/promptboard/internal/apperr"
	"github.com/starford/promptboard/internal/models"
)

// tmpPrefix marks in-flight atomic writes; the watcher ignores these files.
const tmpPrefix = ".promptboard-tmp-"

// FS implements Provider backed by the local file system. Its own mutations
// are published on the embedded Hub; external changes arrive through Watch.
type FS struct {
	*Hub
	root string // absolute path to vault directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{Hub: NewHub(), root: abs}, nil
}

// Root returns the absolute vault directory.
func (f *FS) Root() string {
	return f.root
}

// Abs returns the absolute file-system path for a vault path.
func (f *FS) Abs(rel string) (string, error) {
	return f.safePath(rel)
}

// Rel converts an absolute file-system path back into a vault path.
func (f *FS) Rel(abs string) (string, error) {
	rel, err := filepath.Rel(f.root, abs)
	if err != nil {
		return "", fmt.Errorf("storage: rel: %w", err)
	}
	if rel == "." {
		return "", nil
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("storage: path outside vault: %s", abs)
	}
	return filepath.ToSlash(rel), nil
}

// safePath resolves a relative path against the vault root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes vault root: %s", rel)
	}
	return abs, nil
}

// Resolve reports what path points at.
func (f *FS) Resolve(path string) (Kind, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return KindMissing, err
	}
	info, err := os.Stat(abs)
	if errors.Is(err, os.ErrNotExist) {
		return KindMissing, nil
	}
	if err != nil {
		return KindMissing, fmt.Errorf("storage: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return KindFolder, nil
	}
	return KindFile, nil
}

// ListChildren returns the immediate children of folder, sorted by name.
func (f *FS) ListChildren(folder string) ([]Entry, error) {
	base, err := f.safePath(folder)
	if err != nil {
		return nil, err
	}
	dirents, err := os.ReadDir(base)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("storage: list %s: %w", folder, apperr.ErrNotFolder)
		}
		return nil, fmt.Errorf("storage: list %s: %w", folder, err)
	}
	prefix := models.CleanPath(folder)
	out := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		if strings.HasPrefix(d.Name(), tmpPrefix) {
			continue
		}
		info, err := d.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		p := d.Name()
		if prefix != "" {
			p = prefix + "/" + d.Name()
		}
		out = append(out, Entry{Path: p, IsFolder: d.IsDir(), ModTime: info.ModTime()})
	}
	return out, nil
}

// Read returns the raw bytes of a vault file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("storage: read %s: %w", path, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Create writes a new file, failing if one already exists at path.
func (f *FS) Create(path string, content []byte) (models.Document, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return models.Document{}, err
	}
	file, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return models.Document{}, fmt.Errorf("storage: create %s: %w", path, apperr.ErrAlreadyExists)
		}
		return models.Document{}, fmt.Errorf("storage: create %s: %w", path, err)
	}
	if _, err := file.Write(content); err != nil {
		_ = file.Close()
		_ = os.Remove(abs)
		return models.Document{}, fmt.Errorf("storage: write %s: %w", path, err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return models.Document{}, fmt.Errorf("storage: fsync: %w", err)
	}
	if err := file.Close(); err != nil {
		return models.Document{}, fmt.Errorf("storage: close: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return models.Document{}, fmt.Errorf("storage: stat %s: %w", path, err)
	}

	rel := models.CleanPath(path)
	f.Publish(Event{Kind: EventCreated, Path: rel})
	return models.Document{Path: rel, ModTime: info.ModTime()}, nil
}

// Modify atomically replaces an existing file: tmp file → fsync → rename.
func (f *FS) Modify(path string, content []byte) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("storage: modify %s: %w", path, apperr.ErrNotFound)
		}
		return fmt.Errorf("storage: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("storage: modify %s: is a folder", path)
	}
	if err := writeAtomic(abs, content, info.Mode().Perm()); err != nil {
		return err
	}
	f.Publish(Event{Kind: EventModified, Path: models.CleanPath(path)})
	return nil
}

// Delete removes a file from the vault.
func (f *FS) Delete(path string) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	if abs == f.root {
		return fmt.Errorf("storage: refusing to delete vault root")
	}
	if err := os.Remove(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("storage: delete %s: %w", path, apperr.ErrNotFound)
		}
		return fmt.Errorf("storage: delete %s: %w", path, err)
	}
	f.Publish(Event{Kind: EventDeleted, Path: models.CleanPath(path)})
	return nil
}

// Rename moves a file within the vault.
func (f *FS) Rename(oldPath, newPath string) error {
	absOld, err := f.safePath(oldPath)
	if err != nil {
		return err
	}
	absNew, err := f.safePath(newPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absNew), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir for rename: %w", err)
	}
	if err := os.Rename(absOld, absNew); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	f.Publish(Event{Kind: EventRenamed, Path: models.CleanPath(newPath), OldPath: models.CleanPath(oldPath)})
	return nil
}

func writeAtomic(abs string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(abs)
	tmp, err := os.CreateTemp(dir, tmpPrefix+"*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("storage: chmod temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

var _ Provider = (*FS)(nil)
