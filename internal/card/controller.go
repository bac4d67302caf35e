// Package card implements the actions available on a board's cards: open at
// the latest version, copy, iterate, delete, and create.
package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"

	"github.com/starford/promptboard/internal/apperr"
	"github.com/starford/promptboard/internal/board"
	"github.com/starford/promptboard/internal/i18n"
	"github.com/starford/promptboard/internal/models"
	"github.com/starford/promptboard/internal/notice"
	"github.com/starford/promptboard/internal/parser"
	"github.com/starford/promptboard/internal/storage"
)

// Template is the body of a newly created prompt.
const Template = "### V 1.0\n\n```\n\nPrompt here...\n\n```"

// maxNameAttempts bounds the unique-suffix retries in Create.
const maxNameAttempts = 8

// Editor opens a vault document positioned at a zero-based line; a negative
// line means no positioning.
type Editor interface {
	Open(ctx context.Context, path string, line int) error
}

// Clipboard receives copied version content.
type Clipboard interface {
	WriteAll(text string) error
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, title, message string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, title, message string) (bool, error) {
	return f(ctx, title, message)
}

// Refresher re-reconciles the board after a mutation.
type Refresher interface {
	Refresh(ctx context.Context) (board.Snapshot, error)
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// WriteAll copies text to the OS clipboard.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Deps are the collaborators of a Controller. Nil fields get no-op or
// default implementations.
type Deps struct {
	Editor     Editor
	Clipboard  Clipboard
	Notifier   notice.Notifier
	Translator *i18n.Translator
	Logger     *slog.Logger
	Extension  string
	Now        func() time.Time
}

// Controller dispatches card actions for one board folder.
type Controller struct {
	store  storage.Provider
	folder string
	board  Refresher
	deps   Deps
}

// New creates a controller for the documents of folder. b is refreshed
// after every completed mutation.
func New(store storage.Provider, folder string, b Refresher, deps Deps) *Controller {
	if deps.Clipboard == nil {
		deps.Clipboard = SystemClipboard{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notice.Discard
	}
	if deps.Translator == nil {
		deps.Translator = i18n.New(i18n.LocaleEN)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Extension == "" {
		deps.Extension = board.DefaultExtension
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Controller{store: store, folder: models.CleanPath(folder), board: b, deps: deps}
}

// OpenResult tells where a document was opened.
type OpenResult struct {
	Path string `json:"path"`
	Line int    `json:"line"`
}

// IterateResult describes a newly appended version.
type IterateResult struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Label string `json:"version"`
}

// Open opens the document in the editor at its latest version marker.
func (c *Controller) Open(ctx context.Context, path string) (OpenResult, error) {
	path, err := c.own(path)
	if err != nil {
		return OpenResult{}, err
	}
	data, err := c.store.Read(path)
	if err != nil {
		return OpenResult{}, c.fail("open", path, i18n.OpenFailed, err)
	}
	info := parser.Parse(string(data))
	res := OpenResult{Path: path, Line: info.Line}
	if c.deps.Editor != nil {
		if err := c.deps.Editor.Open(ctx, path, info.Line); err != nil {
			return res, c.fail("open", path, i18n.OpenFailed, err)
		}
	}
	return res, nil
}

// Copy puts the latest version's content on the clipboard and returns it.
// Empty content skips the clipboard but still reports success.
func (c *Controller) Copy(ctx context.Context, path string) (string, error) {
	path, err := c.own(path)
	if err != nil {
		return "", err
	}
	data, err := c.store.Read(path)
	if err != nil {
		return "", c.fail("copy", path, i18n.CopyFailed, err)
	}
	content := parser.Parse(string(data)).Content
	if content != "" {
		if err := c.deps.Clipboard.WriteAll(content); err != nil {
			return "", c.fail("copy", path, i18n.CopyFailed, err)
		}
	}
	c.info(c.deps.Translator.T(i18n.ContentCopied))
	return content, nil
}

// Iterate appends the next version block to the document in a single
// rewrite and refreshes the board. A concurrent external edit between the
// read and the write is overwritten.
func (c *Controller) Iterate(ctx context.Context, path string) (IterateResult, error) {
	path, err := c.own(path)
	if err != nil {
		return IterateResult{}, err
	}
	data, err := c.store.Read(path)
	if err != nil {
		return IterateResult{}, c.fail("iterate", path, i18n.IterateFailed, err)
	}
	updated, it := parser.Apply(string(data))
	if err := c.store.Modify(path, []byte(updated)); err != nil {
		return IterateResult{}, c.fail("iterate", path, i18n.IterateFailed, err)
	}

	doc := models.Document{Path: path}
	c.deps.Logger.Info("card: iterated",
		slog.String("path", path),
		slog.String("version", it.Label))
	c.info(c.deps.Translator.T(i18n.NewVersionCreated, it.Label, doc.Basename()))
	c.refresh(ctx)
	return IterateResult{Path: path, Name: doc.Name(), Label: it.Label}, nil
}

// DeletePrompt returns the confirmation title and message shown before
// deleting path.
func (c *Controller) DeletePrompt(path string) (title, message string) {
	name := models.Document{Path: path}.Name()
	tr := c.deps.Translator
	return tr.T(i18n.ConfirmDeleteFile, name), tr.T(i18n.DeleteWarning)
}

// Delete asks confirm to approve, then removes the document and refreshes
// the board. A declined confirmation returns apperr.ErrNotConfirmed and
// leaves the document untouched.
func (c *Controller) Delete(ctx context.Context, path string, confirm Confirmer) error {
	path, err := c.own(path)
	if err != nil {
		return err
	}
	if confirm == nil {
		return apperr.ErrNotConfirmed
	}
	title, message := c.DeletePrompt(path)
	ok, err := confirm.Confirm(ctx, title, message)
	if err != nil {
		return fmt.Errorf("card: confirm delete: %w", err)
	}
	if !ok {
		return apperr.ErrNotConfirmed
	}

	if err := c.store.Delete(path); err != nil {
		return c.fail("delete", path, i18n.DeleteFileFailed, err)
	}
	name := models.Document{Path: path}.Name()
	c.deps.Logger.Info("card: deleted", slog.String("path", path))
	c.info(c.deps.Translator.T(i18n.FileDeleted, name))
	c.refresh(ctx)
	return nil
}

// Create writes a new prompt from Template under a timestamp-based name,
// opens it in the editor, and refreshes the board.
func (c *Controller) Create(ctx context.Context) (models.Document, error) {
	return c.CreateWith(ctx, Template)
}

// FirstVersion is a document whose only version holds content, headed the
// way Template is.
func FirstVersion(content string) string {
	return "### V 1.0\n\n" + content + "\n"
}

// CreateWith is Create with body as the initial document text.
func (c *Controller) CreateWith(ctx context.Context, body string) (models.Document, error) {
	kind, err := c.store.Resolve(c.folder)
	if err != nil || kind != storage.KindFolder {
		c.notify(notice.LevelError, c.deps.Translator.T(i18n.InvalidFolderPath))
		if err == nil {
			err = apperr.ErrNotFolder
		}
		return models.Document{}, fmt.Errorf("card: create in %q: %w", c.folder, err)
	}

	base := "Prompt-" + Timestamp(c.deps.Now())
	var doc models.Document
	name := base
	for attempt := 0; ; attempt++ {
		doc, err = c.store.Create(c.join(name+"."+c.deps.Extension), []byte(body))
		if err == nil {
			break
		}
		if !errors.Is(err, apperr.ErrAlreadyExists) || attempt+1 >= maxNameAttempts {
			return models.Document{}, c.fail("create", c.join(name+"."+c.deps.Extension), i18n.CreateFileFailed, err)
		}
		name = base + "-" + uuid.NewString()[:8]
	}

	c.deps.Logger.Info("card: created", slog.String("path", doc.Path))
	if c.deps.Editor != nil {
		if err := c.deps.Editor.Open(ctx, doc.Path, 0); err != nil {
			c.deps.Logger.Warn("card: open new file failed",
				slog.String("path", doc.Path),
				slog.String("error", err.Error()))
		}
	}
	c.refresh(ctx)
	c.info(c.deps.Translator.T(i18n.FileCreated, doc.Name()))
	return doc, nil
}

// Timestamp renders t as an ISO-8601 UTC instant with ':' and '.' replaced
// by '-', safe for file names.
func Timestamp(t time.Time) string {
	s := t.UTC().Format("2006-01-02T15:04:05.000Z")
	return strings.NewReplacer(":", "-", ".", "-").Replace(s)
}

// own normalises path and checks that it is a direct child of the folder.
func (c *Controller) own(path string) (string, error) {
	path = models.CleanPath(path)
	if path == "" || models.ParentFolder(path) != c.folder {
		return "", fmt.Errorf("card: %q is not on board %q: %w", path, c.folder, apperr.ErrNotFound)
	}
	return path, nil
}

func (c *Controller) join(name string) string {
	if c.folder == "" {
		return name
	}
	return c.folder + "/" + name
}

// fail logs err, shows the localized failure notice, and returns err.
func (c *Controller) fail(op, path, key string, err error) error {
	c.deps.Logger.Error("card: "+op+" failed",
		slog.String("path", path),
		slog.String("error", err.Error()))
	c.notify(notice.LevelError, c.deps.Translator.T(key))
	return fmt.Errorf("card: %s %q: %w", op, path, err)
}

func (c *Controller) info(msg string) {
	c.notify(notice.LevelInfo, msg)
}

func (c *Controller) notify(level notice.Level, msg string) {
	c.deps.Notifier.Notify(notice.Notice{Level: level, Message: msg, Folder: c.folder})
}

func (c *Controller) refresh(ctx context.Context) {
	if c.board == nil {
		return
	}
	if _, err := c.board.Refresh(ctx); err != nil && !errors.Is(err, board.ErrClosed) {
		c.deps.Logger.Warn("card: refresh after mutation failed",
			slog.String("folder", c.folder),
			slog.String("error", err.Error()))
	}
}
