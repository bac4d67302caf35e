package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/promptboard/internal/board"
)

// OpenBoardRequest opens the board for a folder, or for the folder that
// contains File. An explicit empty Folder is the vault root.
type OpenBoardRequest struct {
	Folder *string `json:"folder,omitempty" example:"prompts"`
	File   string `json:"file,omitempty" example:"prompts/summarize.md"`
}

// Validate requires exactly one of Folder or File.
func (r OpenBoardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Folder, validation.When(r.File == "", validation.NotNil)),
		validation.Field(&r.File, validation.When(r.Folder != nil, validation.Empty)),
	)
}

// QuickOpenRequest names the document the user is looking at.
type QuickOpenRequest struct {
	File string `json:"file" example:"prompts/summarize.md"`
}

// Validate requires File.
func (r QuickOpenRequest) Validate() error {
	return validation.ValidateStruct(&r, validation.Field(&r.File, validation.Required))
}

// CreateCardRequest names the board to add a new prompt to.
type CreateCardRequest struct {
	Folder string `json:"folder" example:"prompts"`
}

// Validate accepts the vault root as an empty folder.
func (r CreateCardRequest) Validate() error {
	return nil
}

// CardRequest names a card by its document path.
type CardRequest struct {
	Path string `json:"path" example:"prompts/summarize.md"`
}

// Validate requires Path.
func (r CardRequest) Validate() error {
	return validation.ValidateStruct(&r, validation.Field(&r.Path, validation.Required))
}

// SettingsRequest updates the user settings.
type SettingsRequest struct {
	ShowQuickAccess *bool `json:"show_quick_access"`
}

// Validate requires ShowQuickAccess.
func (r SettingsRequest) Validate() error {
	return validation.ValidateStruct(&r, validation.Field(&r.ShowQuickAccess, validation.NotNil))
}

// BoardItem is one open board in a listing.
type BoardItem struct {
	Folder string `json:"folder" example:"prompts"`
	Title  string `json:"title" example:"Kanban: prompts"`
}

// BoardResponse wraps a board snapshot with whether the request opened it.
type BoardResponse struct {
	Opened   bool           `json:"opened"`
	Snapshot board.Snapshot `json:"snapshot"`
}

// CopyResponse carries the copied version content.
type CopyResponse struct {
	Content string `json:"content"`
}

// ConfirmResponse is returned with 412 when a delete lacks confirmation.
type ConfirmResponse struct {
	Error   string `json:"error"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
