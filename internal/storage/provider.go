// Package storage defines the vault file-store abstraction and its local
// file-system implementation.
package storage

import (
	"time"

	"github.com/starford/promptboard/internal/models"
)

// Kind is what a vault path resolves to.
type Kind int

const (
	KindMissing Kind = iota
	KindFile
	KindFolder
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFolder:
		return "folder"
	default:
		return "missing"
	}
}

// Entry is an immediate child of a folder.
type Entry struct {
	Path     string
	IsFolder bool
	ModTime  time.Time
}

// Document converts a file entry into a models.Document.
func (e Entry) Document() models.Document {
	return models.Document{Path: e.Path, ModTime: e.ModTime}
}

// Provider is the interface for vault file operations. All paths are
// relative to the vault root and use forward slashes; "" is the root.
type Provider interface {
	// Resolve reports whether path is a file, a folder, or missing.
	Resolve(path string) (Kind, error)
	// ListChildren returns the immediate children of folder in store order.
	ListChildren(folder string) ([]Entry, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Create writes a new file and fails with apperr.ErrAlreadyExists if
	// path is taken.
	Create(path string, content []byte) (models.Document, error)
	// Modify atomically replaces the content of an existing file.
	Modify(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error

	Notifier
}

// Notifier is the change-notification half of a Provider.
type Notifier interface {
	Subscribe(kind EventKind, h Handler) Subscription
	Unsubscribe(sub Subscription)
}
