// Package registry keeps one board per vault folder, persists which folders
// have an open board, and restores them at startup.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/starford/promptboard/internal/apperr"
	"github.com/starford/promptboard/internal/board"
	"github.com/starford/promptboard/internal/card"
	"github.com/starford/promptboard/internal/i18n"
	"github.com/starford/promptboard/internal/models"
	"github.com/starford/promptboard/internal/notice"
	"github.com/starford/promptboard/internal/state"
	"github.com/starford/promptboard/internal/storage"
)

// View is an open board together with the controller for its cards.
type View struct {
	Board *board.Board
	Cards *card.Controller
}

// Factory builds an unstarted view for folder.
type Factory func(folder string) *View

// Persister loads and saves the registry settings.
type Persister interface {
	Load() (state.Settings, error)
	Save(state.Settings) error
}

// Options configures a Registry.
type Options struct {
	// MaxViews caps the number of open views; zero means unlimited.
	MaxViews   int
	Notifier   notice.Notifier
	Translator *i18n.Translator
	Logger     *slog.Logger
	// OnClose is called after a user close tore down a view.
	OnClose func(folder string)
}

// Registry maps folders to their open views.
type Registry struct {
	store   storage.Provider
	persist Persister
	factory Factory
	opts    Options

	mu       sync.Mutex
	views    map[string]*View
	settings state.Settings
}

// New creates an empty registry with default settings. Call Restore to
// load persisted state.
func New(store storage.Provider, persist Persister, factory Factory, opts Options) *Registry {
	if opts.Notifier == nil {
		opts.Notifier = notice.Discard
	}
	if opts.Translator == nil {
		opts.Translator = i18n.New(i18n.LocaleEN)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Registry{
		store:    store,
		persist:  persist,
		factory:  factory,
		opts:     opts,
		views:    make(map[string]*View),
		settings: state.Defaults(),
	}
}

// Restore loads the persisted settings, drops folders that no longer
// exist, and opens a view for each remaining one.
func (r *Registry) Restore(ctx context.Context) error {
	st, err := r.persist.Load()
	if err != nil {
		return fmt.Errorf("registry: restore: %w", err)
	}

	valid := make([]string, 0, len(st.ActiveFolders))
	for _, folder := range st.ActiveFolders {
		kind, err := r.store.Resolve(folder)
		if err != nil || kind != storage.KindFolder {
			r.opts.Logger.Info("registry: pruned missing folder", slog.String("folder", folder))
			continue
		}
		valid = append(valid, folder)
	}
	pruned := len(valid) != len(st.ActiveFolders)
	st.ActiveFolders = valid

	r.mu.Lock()
	r.settings = st
	r.mu.Unlock()

	if pruned {
		if err := r.save(); err != nil {
			return err
		}
	}
	for _, folder := range valid {
		if _, _, err := r.open(ctx, folder, false); err != nil {
			r.opts.Logger.Warn("registry: restore view failed",
				slog.String("folder", folder),
				slog.String("error", err.Error()))
		}
	}
	r.opts.Logger.Info("registry: restored", slog.Int("views", len(valid)))
	return nil
}

// Activate reveals the view for folder, opening and persisting it when none
// exists. opened reports whether a new view was created.
func (r *Registry) Activate(ctx context.Context, folder string) (v *View, opened bool, err error) {
	return r.open(ctx, models.CleanPath(folder), true)
}

// ActivateForFile activates the view for the folder containing file.
func (r *Registry) ActivateForFile(ctx context.Context, file string) (*View, bool, error) {
	file = models.CleanPath(file)
	if file == "" {
		r.notify(notice.LevelError, r.opts.Translator.T(i18n.CannotGetFolderPath))
		return nil, false, fmt.Errorf("registry: no current file: %w", apperr.ErrNotFound)
	}
	return r.Activate(ctx, models.ParentFolder(file))
}

// QuickOpen is the quick-access affordance: it activates the board for the
// folder of file and tells the user whether an existing view was revealed
// or a new one opened. It fails with apperr.ErrDisabled while quick access
// is turned off.
func (r *Registry) QuickOpen(ctx context.Context, file string) (*View, bool, error) {
	if !r.Settings().ShowQuickAccess {
		return nil, false, fmt.Errorf("registry: quick access: %w", apperr.ErrDisabled)
	}
	v, opened, err := r.ActivateForFile(ctx, file)
	if err != nil {
		return nil, false, err
	}
	key := i18n.BoardActivated
	if opened {
		key = i18n.BoardOpened
	}
	r.notify(notice.LevelInfo, r.opts.Translator.T(key))
	return v, opened, nil
}

// Get returns the open view for folder.
func (r *Registry) Get(folder string) (*View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[models.CleanPath(folder)]
	return v, ok
}

// Folders lists the folders with an open view, sorted.
func (r *Registry) Folders() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.views))
	for f := range r.views {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Close tears down the view for folder and forgets it in the persisted
// set.
func (r *Registry) Close(folder string) error {
	folder = models.CleanPath(folder)
	r.mu.Lock()
	v, ok := r.views[folder]
	delete(r.views, folder)
	changed := removeFolder(&r.settings, folder)
	r.mu.Unlock()

	if ok {
		v.Board.Close()
		if r.opts.OnClose != nil {
			r.opts.OnClose(folder)
		}
	}
	if !ok && !changed {
		return fmt.Errorf("registry: close %q: %w", folder, apperr.ErrNotFound)
	}
	r.opts.Logger.Info("registry: closed", slog.String("folder", folder))
	if changed {
		return r.save()
	}
	return nil
}

// Shutdown tears down every view. The persisted set is kept so the views
// come back on the next Restore.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*View)
	r.mu.Unlock()
	for _, v := range views {
		v.Board.Close()
	}
	r.opts.Logger.Info("registry: shutdown", slog.Int("views", len(views)))
}

// Settings returns a copy of the current settings.
func (r *Registry) Settings() state.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.settings
	st.ActiveFolders = append([]string(nil), r.settings.ActiveFolders...)
	return st
}

// SetShowQuickAccess toggles the quick-access affordance and persists it.
func (r *Registry) SetShowQuickAccess(show bool) error {
	r.mu.Lock()
	r.settings.ShowQuickAccess = show
	r.mu.Unlock()
	return r.save()
}

func (r *Registry) open(ctx context.Context, folder string, persist bool) (*View, bool, error) {
	r.mu.Lock()
	if v, ok := r.views[folder]; ok {
		r.mu.Unlock()
		return v, false, nil
	}
	if r.opts.MaxViews > 0 && len(r.views) >= r.opts.MaxViews {
		r.mu.Unlock()
		r.notify(notice.LevelError, r.opts.Translator.T(i18n.CannotOpenBoard))
		return nil, false, fmt.Errorf("registry: open %q: %w", folder, apperr.ErrNoCapacity)
	}
	v := r.factory(folder)
	r.views[folder] = v
	changed := persist && addFolder(&r.settings, folder)
	r.mu.Unlock()

	if _, err := v.Board.Start(ctx); err != nil {
		// The view stays registered; its snapshot reports the failure
		// and the next store event retries.
		r.opts.Logger.Warn("registry: initial render failed",
			slog.String("folder", folder),
			slog.String("error", err.Error()))
	}
	r.opts.Logger.Info("registry: opened", slog.String("folder", folder))
	if changed {
		if err := r.save(); err != nil {
			return v, true, err
		}
	}
	return v, true, nil
}

func (r *Registry) save() error {
	st := r.Settings()
	if err := r.persist.Save(st); err != nil {
		return fmt.Errorf("registry: save settings: %w", err)
	}
	return nil
}

func (r *Registry) notify(level notice.Level, msg string) {
	r.opts.Notifier.Notify(notice.Notice{Level: level, Message: msg})
}

func addFolder(st *state.Settings, folder string) bool {
	for _, f := range st.ActiveFolders {
		if f == folder {
			return false
		}
	}
	st.ActiveFolders = append(st.ActiveFolders, folder)
	return true
}

func removeFolder(st *state.Settings, folder string) bool {
	for i, f := range st.ActiveFolders {
		if f == folder {
			st.ActiveFolders = append(st.ActiveFolders[:i:i], st.ActiveFolders[i+1:]...)
			return true
		}
	}
	return false
}
