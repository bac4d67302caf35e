// Package models defines the domain types for promptboard.
package models

import (
	"path"
	"strings"
	"time"
)

// Document is a text file in the vault. Content is never cached here; it is
// read from the store for the duration of a single operation.
type Document struct {
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
}

// Name returns the file name including its extension.
func (d Document) Name() string {
	return path.Base(d.Path)
}

// Basename returns the file name without its extension.
func (d Document) Basename() string {
	name := d.Name()
	return strings.TrimSuffix(name, path.Ext(name))
}

// Folder returns the vault-relative folder holding the document ("" for the root).
func (d Document) Folder() string {
	return ParentFolder(d.Path)
}

// Extension returns the extension without the leading dot.
func (d Document) Extension() string {
	return strings.TrimPrefix(path.Ext(d.Path), ".")
}

// ParentFolder returns the folder of a vault-relative path, "" for the root.
func ParentFolder(p string) string {
	dir := path.Dir(CleanPath(p))
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// CleanPath normalises a vault-relative path to forward slashes without a
// leading "./" or "/". The vault root is "".
func CleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}
