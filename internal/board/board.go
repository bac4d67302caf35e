package board

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/starford/promptboard/internal/apperr"
	"github.com/starford/promptboard/internal/i18n"
	"github.com/starford/promptboard/internal/models"
	"github.com/starford/promptboard/internal/storage"
)

// DefaultDebounce is the delay that coalesces bursts of store events into a
// single refresh.
const DefaultDebounce = 300 * time.Millisecond

// ErrClosed is returned by operations on a board that has been closed.
var ErrClosed = errors.New("board: closed")

// Snapshot is what a board renders: the latest listing plus its display
// strings.
type Snapshot struct {
	Folder  string     `json:"folder"`
	Title   string     `json:"title"`
	Query   string     `json:"query"`
	Cards   []Card     `json:"cards"`
	Empty   EmptyState `json:"empty,omitempty"`
	Message string     `json:"message,omitempty"`
	At      time.Time  `json:"at"`
}

// RenderFunc receives every snapshot a board produces.
type RenderFunc func(Snapshot)

// Options configures a Board.
type Options struct {
	Debounce   time.Duration
	Extension  string
	Render     RenderFunc
	Translator *i18n.Translator
	Logger     *slog.Logger
}

// Board is the live view of one folder. It owns the search query, the
// input-method composition flag, the last snapshot, and the lifetime of its
// store subscriptions and debounce timer.
type Board struct {
	folder string
	store  storage.Provider
	opts   Options

	mu        sync.Mutex
	ctx       context.Context
	query     string
	composing bool
	snapshot  Snapshot
	timer     *time.Timer
	subs      []storage.Subscription
	started   bool
	closed    bool
	gen       uint64
	applied   uint64
}

// New creates a board for folder. Call Start to subscribe and render.
func New(store storage.Provider, folder string, opts Options) *Board {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	if opts.Translator == nil {
		opts.Translator = i18n.New(i18n.LocaleEN)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	folder = models.CleanPath(folder)
	return &Board{
		folder: folder,
		store:  store,
		opts:   opts,
		ctx:    context.Background(),
		snapshot: Snapshot{
			Folder: folder,
			Cards:  []Card{},
		},
	}
}

// Folder returns the vault folder the board shows.
func (b *Board) Folder() string {
	return b.folder
}

// Title returns the display title, "Kanban: <last path segment>".
func (b *Board) Title() string {
	name := path.Base(b.folder)
	if b.folder == "" {
		name = "/"
	}
	return b.opts.Translator.T(i18n.BoardTitle, name)
}

// Start subscribes to store changes and renders the first snapshot.
// Calling Start more than once has no effect.
func (b *Board) Start(ctx context.Context) (Snapshot, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return Snapshot{}, ErrClosed
	}
	if b.started {
		snap := b.snapshot
		b.mu.Unlock()
		return snap, nil
	}
	b.started = true
	b.ctx = context.WithoutCancel(ctx)
	for _, kind := range storage.EventKinds {
		b.subs = append(b.subs, b.store.Subscribe(kind, b.onEvent))
	}
	b.mu.Unlock()

	return b.Refresh(ctx)
}

// Close unsubscribes the board's handlers and cancels a pending refresh.
// Refreshes already running complete without touching the board.
// Close is idempotent.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, sub := range b.subs {
		b.store.Unsubscribe(sub)
	}
	b.subs = nil
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.opts.Logger.Debug("board: closed", slog.String("folder", b.folder))
}

// Closed reports whether Close has been called.
func (b *Board) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Snapshot returns the last rendered snapshot.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot
}

// Query returns the current search query.
func (b *Board) Query() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.query
}

// Search sets the query and refreshes, unless an input-method composition
// is in progress, in which case the last snapshot is returned unchanged.
func (b *Board) Search(ctx context.Context, query string) (Snapshot, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return Snapshot{}, ErrClosed
	}
	b.query = query
	if b.composing {
		snap := b.snapshot
		b.mu.Unlock()
		return snap, nil
	}
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// CompositionStart marks the beginning of input-method composition;
// query edits are held back until CompositionEnd.
func (b *Board) CompositionStart() {
	b.mu.Lock()
	b.composing = true
	b.mu.Unlock()
}

// CompositionEnd ends composition with the final query and refreshes.
func (b *Board) CompositionEnd(ctx context.Context, query string) (Snapshot, error) {
	b.mu.Lock()
	b.composing = false
	b.mu.Unlock()
	return b.Search(ctx, query)
}

// Refresh reconciles the folder now and renders the result. A missing
// folder renders an inline empty state instead of failing. Other store
// failures are returned and leave the previous snapshot in place.
func (b *Board) Refresh(ctx context.Context) (Snapshot, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return Snapshot{}, ErrClosed
	}
	b.gen++
	gen := b.gen
	query := b.query
	b.mu.Unlock()

	listing, err := List(ctx, b.store, b.folder, query, b.opts.Extension)
	if err != nil && !errors.Is(err, apperr.ErrNotFolder) {
		b.opts.Logger.Warn("board: refresh failed",
			slog.String("folder", b.folder),
			slog.String("error", err.Error()))
		return b.Snapshot(), err
	}
	snap := b.render(listing, err)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return snap, nil
	}
	if gen < b.applied {
		// A newer pass already rendered.
		current := b.snapshot
		b.mu.Unlock()
		return current, nil
	}
	b.applied = gen
	b.snapshot = snap
	render := b.opts.Render
	b.mu.Unlock()

	b.opts.Logger.Debug("board: refreshed",
		slog.String("folder", b.folder),
		slog.Int("cards", len(snap.Cards)))
	if render != nil {
		render(snap)
	}
	return snap, nil
}

func (b *Board) render(listing Listing, listErr error) Snapshot {
	tr := b.opts.Translator
	snap := Snapshot{
		Folder: b.folder,
		Title:  b.Title(),
		Query:  listing.Query,
		Cards:  listing.Cards,
		Empty:  listing.Empty,
		At:     time.Now(),
	}
	if listErr != nil {
		snap.Empty = EmptyInvalidFolder
		snap.Cards = []Card{}
	}
	switch snap.Empty {
	case EmptyInvalidFolder:
		snap.Message = tr.T(i18n.FolderInvalid, b.folder)
	case EmptyNoMatches:
		snap.Message = tr.T(i18n.NoMatchingFiles, listing.Query)
	case EmptyNoFiles:
		snap.Message = tr.T(i18n.NoMarkdownFiles)
	}
	return snap
}

// onEvent schedules a debounced refresh for changes inside the folder.
func (b *Board) onEvent(ev storage.Event) {
	if !b.contains(ev.Path) && (ev.OldPath == "" || !b.contains(ev.OldPath)) {
		return
	}
	b.schedule()
}

// contains reports whether p is the folder itself or lies beneath it.
func (b *Board) contains(p string) bool {
	if b.folder == "" {
		return true
	}
	p = models.CleanPath(p)
	return p == b.folder || strings.HasPrefix(p, b.folder+"/")
}

// schedule starts or restarts the debounce timer.
func (b *Board) schedule() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	if b.timer == nil {
		b.timer = time.AfterFunc(b.opts.Debounce, b.fire)
		return
	}
	b.timer.Reset(b.opts.Debounce)
}

func (b *Board) fire() {
	b.mu.Lock()
	ctx := b.ctx
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return
	}
	// Refresh logs its own failures; a scheduled pass has no caller to
	// report to.
	_, _ = b.Refresh(ctx)
}
