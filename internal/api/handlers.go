package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/promptboard/internal/apperr"
	"github.com/starford/promptboard/internal/board"
	"github.com/starford/promptboard/internal/card"
	"github.com/starford/promptboard/internal/checksum"
	"github.com/starford/promptboard/internal/models"
	"github.com/starford/promptboard/internal/registry"
)

// Handler holds API route handlers.
type Handler struct {
	reg *registry.Registry
}

// NewHandler creates a new Handler.
func NewHandler(reg *registry.Registry) *Handler {
	return &Handler{reg: reg}
}

// ListBoards handles GET /api/boards.
//
//	@Summary	List open boards
//	@Tags		boards
//	@Produce	json
//	@Success	200	{array}	BoardItem
//	@Security	BearerAuth
//	@Router		/boards [get]
func (h *Handler) ListBoards(w http.ResponseWriter, _ *http.Request) {
	items := []BoardItem{}
	for _, folder := range h.reg.Folders() {
		if v, ok := h.reg.Get(folder); ok {
			items = append(items, BoardItem{Folder: folder, Title: v.Board.Title()})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"boards": items})
}

// OpenBoard handles POST /api/boards.
//
//	@Summary	Open or reveal the board for a folder
//	@Tags		boards
//	@Accept		json
//	@Produce	json
//	@Param		body	body		OpenBoardRequest	true	"Folder or file"
//	@Success	200		{object}	BoardResponse	"Existing board revealed"
//	@Success	201		{object}	BoardResponse	"New board opened"
//	@Failure	503		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/boards [post]
func (h *Handler) OpenBoard(w http.ResponseWriter, r *http.Request) {
	var req OpenBoardRequest
	if !decode(w, r, &req) {
		return
	}
	var (
		v      *registry.View
		opened bool
		err    error
	)
	if req.File != "" {
		v, opened, err = h.reg.ActivateForFile(r.Context(), req.File)
	} else {
		v, opened, err = h.reg.Activate(r.Context(), *req.Folder)
	}
	if err != nil {
		writeError(w, "open board", err)
		return
	}
	writeBoard(w, v, opened)
}

// CloseBoard handles DELETE /api/boards?folder=.
//
//	@Summary	Close a board and forget it
//	@Tags		boards
//	@Param		folder	query	string	true	"Folder"
//	@Success	204		"Board closed"
//	@Failure	404		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/boards [delete]
func (h *Handler) CloseBoard(w http.ResponseWriter, r *http.Request) {
	if err := h.reg.Close(r.URL.Query().Get("folder")); err != nil {
		writeError(w, "close board", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QuickOpen handles POST /api/quick-open.
//
//	@Summary	Quick access: open or reveal the board of the current file
//	@Tags		boards
//	@Accept		json
//	@Produce	json
//	@Param		body	body		QuickOpenRequest	true	"Current file"
//	@Success	200		{object}	BoardResponse
//	@Success	201		{object}	BoardResponse
//	@Failure	403		{object}	errResponse	"Quick access disabled"
//	@Security	BearerAuth
//	@Router		/quick-open [post]
func (h *Handler) QuickOpen(w http.ResponseWriter, r *http.Request) {
	var req QuickOpenRequest
	if !decode(w, r, &req) {
		return
	}
	v, opened, err := h.reg.QuickOpen(r.Context(), req.File)
	if err != nil {
		writeError(w, "quick open", err)
		return
	}
	writeBoard(w, v, opened)
}

// ListCards handles GET /api/cards?folder=&q=.
//
//	@Summary	Search a board
//	@Tags		cards
//	@Produce	json
//	@Param		folder	query		string	true	"Board folder"
//	@Param		q		query		string	false	"Search query"
//	@Param		If-None-Match	header	string	false	"ETag of a previous response"
//	@Success	200		{object}	board.Snapshot
//	@Success	304		"Unchanged"
//	@Failure	404		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/cards [get]
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	v, ok := h.reg.Get(r.URL.Query().Get("folder"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("board not open"))
		return
	}
	snap, err := v.Board.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, "list cards", err)
		return
	}
	etag := snapshotETag(snap)
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// snapshotETag fingerprints what a client renders from snap.
func snapshotETag(snap board.Snapshot) string {
	parts := []string{snap.Folder, snap.Query, snap.Message}
	for _, c := range snap.Cards {
		parts = append(parts, c.Path, c.Checksum)
	}
	return `"` + checksum.Combine(parts...) + `"`
}

// CreateCard handles POST /api/cards.
//
//	@Summary	Create a new prompt on a board
//	@Tags		cards
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateCardRequest	true	"Board folder"
//	@Success	201		{object}	models.Document
//	@Failure	404		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/cards [post]
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if !decode(w, r, &req) {
		return
	}
	v, ok := h.reg.Get(req.Folder)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("board not open"))
		return
	}
	doc, err := v.Cards.Create(r.Context())
	if err != nil {
		writeError(w, "create card", err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// IterateCard handles POST /api/cards/iterate.
//
//	@Summary	Append the next version to a prompt
//	@Tags		cards
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CardRequest	true	"Card"
//	@Success	200		{object}	card.IterateResult
//	@Failure	404		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/cards/iterate [post]
func (h *Handler) IterateCard(w http.ResponseWriter, r *http.Request) {
	var req CardRequest
	if !decode(w, r, &req) {
		return
	}
	h.withCards(w, req.Path, func(c *card.Controller) {
		res, err := c.Iterate(r.Context(), req.Path)
		if err != nil {
			writeError(w, "iterate card", err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	})
}

// CopyCard handles POST /api/cards/copy.
//
//	@Summary	Copy the latest version of a prompt
//	@Tags		cards
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CardRequest	true	"Card"
//	@Success	200		{object}	CopyResponse
//	@Security	BearerAuth
//	@Router		/cards/copy [post]
func (h *Handler) CopyCard(w http.ResponseWriter, r *http.Request) {
	var req CardRequest
	if !decode(w, r, &req) {
		return
	}
	h.withCards(w, req.Path, func(c *card.Controller) {
		content, err := c.Copy(r.Context(), req.Path)
		if err != nil {
			writeError(w, "copy card", err)
			return
		}
		writeJSON(w, http.StatusOK, CopyResponse{Content: content})
	})
}

// OpenCard handles POST /api/cards/open.
//
//	@Summary	Open a prompt in the editor at its latest version
//	@Tags		cards
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CardRequest	true	"Card"
//	@Success	200		{object}	card.OpenResult
//	@Security	BearerAuth
//	@Router		/cards/open [post]
func (h *Handler) OpenCard(w http.ResponseWriter, r *http.Request) {
	var req CardRequest
	if !decode(w, r, &req) {
		return
	}
	h.withCards(w, req.Path, func(c *card.Controller) {
		res, err := c.Open(r.Context(), req.Path)
		if err != nil {
			writeError(w, "open card", err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	})
}

// DeleteCard handles DELETE /api/cards?path=&confirm=true.
//
//	@Summary	Delete a prompt
//	@Description	Without confirm=true nothing is deleted and the confirmation prompt is returned with 412.
//	@Tags		cards
//	@Param		path	query	string	true	"Card path"
//	@Param		confirm	query	bool	false	"Confirm deletion"
//	@Success	204		"Deleted"
//	@Failure	412		{object}	ConfirmResponse
//	@Security	BearerAuth
//	@Router		/cards [delete]
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	confirmed := r.URL.Query().Get("confirm") == "true"
	h.withCards(w, path, func(c *card.Controller) {
		confirm := card.ConfirmFunc(func(context.Context, string, string) (bool, error) {
			return confirmed, nil
		})
		err := c.Delete(r.Context(), path, confirm)
		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case !confirmed && errors.Is(err, apperr.ErrNotConfirmed):
			title, message := c.DeletePrompt(path)
			writeJSON(w, http.StatusPreconditionFailed, ConfirmResponse{
				Error:   "confirmation required",
				Title:   title,
				Message: message,
			})
		default:
			writeError(w, "delete card", err)
		}
	})
}

// GetSettings handles GET /api/settings.
//
//	@Summary	Read settings
//	@Tags		settings
//	@Produce	json
//	@Success	200	{object}	state.Settings
//	@Security	BearerAuth
//	@Router		/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.reg.Settings())
}

// UpdateSettings handles PUT /api/settings.
//
//	@Summary	Update settings
//	@Tags		settings
//	@Accept		json
//	@Produce	json
//	@Param		body	body		SettingsRequest	true	"Settings"
//	@Success	200		{object}	state.Settings
//	@Security	BearerAuth
//	@Router		/settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.reg.SetShowQuickAccess(*req.ShowQuickAccess); err != nil {
		writeError(w, "update settings", err)
		return
	}
	writeJSON(w, http.StatusOK, h.reg.Settings())
}

// withCards runs fn with the controller of the board that shows path.
func (h *Handler) withCards(w http.ResponseWriter, path string, fn func(*card.Controller)) {
	v, ok := h.reg.Get(models.ParentFolder(path))
	if !ok {
		slog.Debug("card on closed board", slog.String("path", path))
		writeJSON(w, http.StatusNotFound, errorBody("board not open"))
		return
	}
	fn(v.Cards)
}

func writeBoard(w http.ResponseWriter, v *registry.View, opened bool) {
	status := http.StatusOK
	if opened {
		status = http.StatusCreated
	}
	writeJSON(w, status, BoardResponse{Opened: opened, Snapshot: v.Board.Snapshot()})
}
