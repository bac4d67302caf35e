// Package board reconciles a folder of prompt documents into an ordered list
// of cards and keeps a live view of it in sync with store changes.
package board

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/starford/promptboard/internal/apperr"
	"github.com/starford/promptboard/internal/checksum"
	"github.com/starford/promptboard/internal/models"
	"github.com/starford/promptboard/internal/parser"
	"github.com/starford/promptboard/internal/storage"
)

// DefaultExtension is the extension of documents shown on a board.
const DefaultExtension = "md"

// EmptyState tells why a listing has no cards.
type EmptyState int

const (
	EmptyNone EmptyState = iota
	EmptyNoFiles
	EmptyNoMatches
	EmptyInvalidFolder
)

func (e EmptyState) String() string {
	switch e {
	case EmptyNoFiles:
		return "no_files"
	case EmptyNoMatches:
		return "no_matches"
	case EmptyInvalidFolder:
		return "invalid_folder"
	default:
		return ""
	}
}

// MarshalText renders the state for JSON payloads.
func (e EmptyState) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText parses the form written by MarshalText.
func (e *EmptyState) UnmarshalText(text []byte) error {
	for _, s := range []EmptyState{EmptyNone, EmptyNoFiles, EmptyNoMatches, EmptyInvalidFolder} {
		if s.String() == string(text) {
			*e = s
			return nil
		}
	}
	return fmt.Errorf("board: unknown empty state %q", text)
}

// Card pairs a document with its parsed latest version.
type Card struct {
	Path     string      `json:"path"`
	Name     string      `json:"name"`
	Title    string      `json:"title"`
	ModTime  time.Time   `json:"mod_time"`
	Checksum string      `json:"checksum"`
	Info     parser.Info `json:"info"`
}

// Document returns the card's document.
func (c Card) Document() models.Document {
	return models.Document{Path: c.Path, ModTime: c.ModTime}
}

// Listing is the result of reconciling one folder.
type Listing struct {
	Folder string     `json:"folder"`
	Query  string     `json:"query"`
	Cards  []Card     `json:"cards"`
	Empty  EmptyState `json:"empty,omitempty"`
}

// List enumerates the immediate children of folder with the given
// extension, parses each one, orders them by modification time (newest
// first, ties keep store order) and keeps those whose name contains query,
// case-insensitively. It fails with apperr.ErrNotFolder when folder does
// not resolve to a folder.
func List(ctx context.Context, store storage.Provider, folder, query, ext string) (Listing, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	folder = models.CleanPath(folder)
	out := Listing{Folder: folder, Query: query, Cards: []Card{}}

	kind, err := store.Resolve(folder)
	if err != nil {
		return out, fmt.Errorf("board: resolve %q: %w", folder, err)
	}
	if kind != storage.KindFolder {
		return out, fmt.Errorf("board: %q: %w", folder, apperr.ErrNotFolder)
	}

	entries, err := store.ListChildren(folder)
	if err != nil {
		return out, fmt.Errorf("board: list %q: %w", folder, err)
	}

	var docs []models.Document
	for _, e := range entries {
		if e.IsFolder {
			continue
		}
		d := e.Document()
		if d.Extension() != ext {
			continue
		}
		docs = append(docs, d)
	}
	if len(docs) == 0 {
		out.Empty = EmptyNoFiles
		return out, nil
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].ModTime.After(docs[j].ModTime)
	})

	needle := strings.ToLower(query)
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if !Matches(d, needle) {
			continue
		}
		data, err := store.Read(d.Path)
		if err != nil {
			// Removed between listing and reading: the pending change
			// event will trigger another pass.
			if errors.Is(err, apperr.ErrNotFound) {
				continue
			}
			return out, fmt.Errorf("board: read %q: %w", d.Path, err)
		}
		out.Cards = append(out.Cards, Card{
			Path:     d.Path,
			Name:     d.Name(),
			Title:    d.Basename(),
			ModTime:  d.ModTime,
			Checksum: checksum.Sum(data),
			Info:     parser.Parse(string(data)),
		})
	}

	if len(out.Cards) == 0 {
		out.Empty = EmptyNoMatches
		if needle == "" {
			out.Empty = EmptyNoFiles
		}
	}
	return out, nil
}

// Matches reports whether the lower-cased needle is a substring of the
// document's basename or full name.
func Matches(d models.Document, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.Basename()), needle) ||
		strings.Contains(strings.ToLower(d.Name()), needle)
}
