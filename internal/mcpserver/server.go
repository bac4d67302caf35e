// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes promptboard tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/promptboard/internal/apperr"
	"github.com/starford/promptboard/internal/board"
	"github.com/starford/promptboard/internal/card"
	"github.com/starford/promptboard/internal/i18n"
	"github.com/starford/promptboard/internal/models"
	"github.com/starford/promptboard/internal/notice"
	"github.com/starford/promptboard/internal/parser"
	"github.com/starford/promptboard/internal/storage"
)

const formatURI = "promptboard://prompt-format"

// Options configures the MCP server.
type Options struct {
	Extension  string
	Translator *i18n.Translator
	Logger     *slog.Logger
}

// Server wraps the MCP server with promptboard tools.
type Server struct {
	mcp   *server.MCPServer
	store storage.Provider
	opts  Options
}

// cardItem is the compact card shape returned by list_prompts.
type cardItem struct {
	Path    string `json:"path"`
	Version string `json:"version"`
	Summary string `json:"summary"`
}

// New creates a new MCP server with all promptboard tools registered.
func New(store storage.Provider, opts Options) *Server {
	if opts.Extension == "" {
		opts.Extension = board.DefaultExtension
	}
	if opts.Translator == nil {
		opts.Translator = i18n.New(i18n.LocaleEN)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{store: store, opts: opts}

	s.mcp = server.NewMCPServer(
		"Promptboard",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_prompts",
		mcp.WithDescription("List the prompts in a folder, newest first, with their current version and a short summary."),
		mcp.WithString("folder", mcp.Description("Folder to list (empty for the vault root)")),
		mcp.WithString("query", mcp.Description("Optional case-insensitive file name filter")),
	), s.listPrompts)

	s.mcp.AddTool(mcp.NewTool("read_prompt",
		mcp.WithDescription("Read the full content of a prompt document, every version included."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the prompt (e.g. folder/prompt.md)")),
	), s.readPrompt)

	s.mcp.AddTool(mcp.NewTool("get_version",
		mcp.WithDescription("Return the current (last) version of a prompt: label, content and marker line."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the prompt")),
	), s.getVersion)

	s.mcp.AddTool(mcp.NewTool("iterate_prompt",
		mcp.WithDescription("Append the next version to a prompt, copying the current version's content. "+
			"Read the format via the get_prompt_format tool or the "+formatURI+" resource first."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the prompt")),
	), s.iteratePrompt)

	s.mcp.AddTool(mcp.NewTool("create_prompt",
		mcp.WithDescription("Create a new timestamp-named prompt in a folder. Without content the "+
			"standard template is used; with content the file starts at version 1.0 holding it."),
		mcp.WithString("folder", mcp.Description("Folder for the new prompt (empty for the vault root)")),
		mcp.WithString("content", mcp.Description("Optional text of version 1.0")),
	), s.createPrompt)

	s.mcp.AddTool(mcp.NewTool("delete_prompt",
		mcp.WithDescription("Permanently delete a prompt. Requires confirm=true; without it the "+
			"confirmation text is returned and nothing is deleted."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the prompt")),
		mcp.WithBoolean("confirm", mcp.Description("Must be true to delete")),
	), s.deletePrompt)

	s.mcp.AddTool(mcp.NewTool("get_prompt_format",
		mcp.WithDescription("Returns the versioned prompt document format. "+
			"Call this before creating or iterating prompts."),
	), s.getPromptFormat)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Prompt Document Format",
			mcp.WithResourceDescription("How prompt documents mark and order their versions."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPromptFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// cards returns a controller for folder. Without a live board there is
// nothing to refresh; notices go to the log.
func (s *Server) cards(folder string) *card.Controller {
	return card.New(s.store, folder, nil, card.Deps{
		Notifier:   notice.Logger(s.opts.Logger),
		Translator: s.opts.Translator,
		Logger:     s.opts.Logger,
		Extension:  s.opts.Extension,
	})
}

func (s *Server) listPrompts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := models.CleanPath(req.GetString("folder", ""))
	l, err := board.List(ctx, s.store, folder, req.GetString("query", ""), s.opts.Extension)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items := make([]cardItem, 0, len(l.Cards))
	for _, c := range l.Cards {
		items = append(items, cardItem{
			Path:    c.Path,
			Version: c.Info.Label,
			Summary: c.Info.Summary,
		})
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readPrompt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) getVersion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	out, _ := json.MarshalIndent(parser.Parse(string(data)), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) iteratePrompt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path = models.CleanPath(path)
	res, err := s.cards(models.ParentFolder(path)).Iterate(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created %s in %s", res.Label, res.Path)), nil
}

func (s *Server) createPrompt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := card.Template
	if content := req.GetString("content", ""); content != "" {
		body = card.FirstVersion(content)
	}
	doc, err := s.cards(models.CleanPath(req.GetString("folder", ""))).CreateWith(ctx, body)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", doc.Path)), nil
}

func (s *Server) deletePrompt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path = models.CleanPath(path)
	ctl := s.cards(models.ParentFolder(path))
	confirmed := req.GetBool("confirm", false)
	err = ctl.Delete(ctx, path, card.ConfirmFunc(func(context.Context, string, string) (bool, error) {
		return confirmed, nil
	}))
	if err != nil {
		if errors.Is(err, apperr.ErrNotConfirmed) {
			title, message := ctl.DeletePrompt(path)
			return mcp.NewToolResultError(title + " " + message + " Call again with confirm=true."), nil
		}
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", path)), nil
}

func (s *Server) getPromptFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PromptFormatContract), nil
}

func (s *Server) readPromptFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     PromptFormatContract,
		},
	}, nil
}
