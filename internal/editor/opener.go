// Package editor opens vault documents in an external editor, positioned at
// a given line.
package editor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// PathResolver maps a vault path to an absolute file-system path.
type PathResolver interface {
	Abs(rel string) (string, error)
}

// Opener launches the configured editor. Lines are zero-based; a negative
// line opens the file without positioning.
type Opener struct {
	command  string
	resolver PathResolver
	lookPath func(string) (string, error)
}

// NewOpener creates an opener. An empty command falls back to $VISUAL,
// $EDITOR, then the first common editor found on PATH.
func NewOpener(command string, resolver PathResolver) *Opener {
	return &Opener{command: command, resolver: resolver, lookPath: exec.LookPath}
}

// Open starts the editor on path without waiting for it to exit. The
// editor outlives ctx.
func (o *Opener) Open(_ context.Context, path string, line int) error {
	cmd, err := o.Command(path, line)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("editor: start %s: %w", cmd.Path, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Command returns the exec.Cmd that opens path at line.
func (o *Opener) Command(path string, line int) (*exec.Cmd, error) {
	editor := o.findEditor()
	if editor == "" {
		return nil, fmt.Errorf("editor: no editor found: set $EDITOR environment variable")
	}
	abs, err := o.resolver.Abs(path)
	if err != nil {
		return nil, err
	}

	fields := strings.Fields(editor)
	args := append(fields[1:], Args(fields[0], abs, line)...)
	cmd := exec.Command(fields[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// Args returns the editor arguments that open file at the zero-based line.
func Args(editor, file string, line int) []string {
	if line < 0 {
		return []string{file}
	}
	n := strconv.Itoa(line + 1)
	switch strings.TrimSuffix(filepath.Base(editor), ".exe") {
	case "code", "code-insiders", "codium", "cursor":
		return []string{"-g", file + ":" + n}
	case "subl", "zed":
		return []string{file + ":" + n}
	default:
		// vi, vim, nvim, nano, emacs, micro, kak, hx and most terminal
		// editors take +N.
		return []string{"+" + n, file}
	}
}

// findEditor returns the editor to use
func (o *Opener) findEditor() string {
	if o.command != "" {
		return o.command
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	// Try common editors
	for _, editor := range []string{"nvim", "vim", "vi", "nano", "code"} {
		if path, err := o.lookPath(editor); err == nil {
			return path
		}
	}
	return ""
}
