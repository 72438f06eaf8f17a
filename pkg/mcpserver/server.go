// Package mcpserver exposes snippet operations as MCP tools over stdio so
// agents can browse, install and remove snippets without shelling out to
// the CLI.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/snipmd/snipmd/pkg/appconf"
	"github.com/snipmd/snipmd/pkg/claudemd"
	"github.com/snipmd/snipmd/pkg/history"
	"github.com/snipmd/snipmd/pkg/ledger"
	"github.com/snipmd/snipmd/pkg/snippet"
)

// Config carries the dependencies for a Server.
type Config struct {
	Repo    string
	Store   *snippet.Store
	AppConf appconf.Config
	Events  *history.Store
	Version string
}

// Server serves the snipmd tool set over the Model Context Protocol.
type Server struct {
	repo    string
	store   *snippet.Store
	appConf appconf.Config
	events  *history.Store
	mcp     *server.MCPServer
}

// New builds a Server with its four tools registered.
func New(cfg Config) *Server {
	s := &Server{
		repo:    cfg.Repo,
		store:   cfg.Store,
		appConf: cfg.AppConf,
		events:  cfg.Events,
	}

	m := server.NewMCPServer("snipmd", cfg.Version,
		server.WithToolCapabilities(true),
	)

	m.AddTool(mcp.NewTool("list_snippets",
		mcp.WithDescription("List snippets available in the active repository"),
		mcp.WithString("pattern",
			mcp.Description("Optional glob pattern matched against snippet file names"),
		),
	), s.handleListSnippets)

	m.AddTool(mcp.NewTool("get_snippet",
		mcp.WithDescription("Fetch one snippet including its full content"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Snippet id"),
		),
	), s.handleGetSnippet)

	m.AddTool(mcp.NewTool("install_snippet",
		mcp.WithDescription("Install a snippet into a CLAUDE.md document"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Snippet id"),
		),
		mcp.WithString("location",
			mcp.Description("Install target: local (./CLAUDE.md) or user (~/.claude/CLAUDE.md)"),
		),
	), s.handleInstallSnippet)

	m.AddTool(mcp.NewTool("uninstall_snippet",
		mcp.WithDescription("Remove an installed snippet from a CLAUDE.md document"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Snippet id"),
		),
		mcp.WithString("location",
			mcp.Description("Install target: local (./CLAUDE.md) or user (~/.claude/CLAUDE.md)"),
		),
	), s.handleUninstallSnippet)

	s.mcp = m
	return s
}

// ServeStdio serves MCP over stdin and stdout until the stream closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func stringArg(request mcp.CallToolRequest, key string) string {
	if v, ok := request.Params.Arguments[key].(string); ok {
		return v
	}
	return ""
}

type listEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func (s *Server) handleListSnippets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern := stringArg(request, "pattern")

	var (
		snippets []*snippet.Snippet
		err      error
	)
	if pattern != "" {
		snippets, err = s.store.ListMatching(ctx, pattern)
	} else {
		snippets, err = s.store.List(ctx)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entries := make([]listEntry, 0, len(snippets))
	for _, sn := range snippets {
		entries = append(entries, listEntry{
			ID:          sn.ID,
			Name:        sn.Name,
			Description: sn.Description,
			CreatedAt:   sn.CreatedAt.Format(time.RFC3339),
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleGetSnippet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringArg(request, "id")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	sn, err := s.store.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.MarshalIndent(struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Source      string `json:"source,omitempty"`
		CreatedAt   string `json:"created_at"`
		Content     string `json:"content"`
	}{
		ID:          sn.ID,
		Name:        sn.Name,
		Description: sn.Description,
		Source:      sn.Source,
		CreatedAt:   sn.CreatedAt.Format(time.RFC3339),
		Content:     sn.Content,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleInstallSnippet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringArg(request, "id")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	sn, err := s.store.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	target, err := s.resolveTarget(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := target.Read()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	updated, err := ledger.Install(doc, sn.ID, sn.Content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := target.Write(updated); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.events.TryRecord(ctx, history.Event{
		Action:    history.ActionInstall,
		SnippetID: sn.ID,
		Name:      sn.Name,
		Target:    target.Path,
		Repo:      s.repo,
	})
	return mcp.NewToolResultText(fmt.Sprintf("Installed %q (%s) into %s", sn.Name, sn.ID, target.Path)), nil
}

func (s *Server) handleUninstallSnippet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringArg(request, "id")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	target, err := s.resolveTarget(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := target.Read()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	updated, err := ledger.Uninstall(doc, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := target.Write(updated); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	name := id
	if sn, err := s.store.Get(ctx, id); err == nil {
		name = sn.Name
	}
	s.events.TryRecord(ctx, history.Event{
		Action:    history.ActionUninstall,
		SnippetID: id,
		Name:      name,
		Target:    target.Path,
		Repo:      s.repo,
	})
	return mcp.NewToolResultText(fmt.Sprintf("Removed %q (%s) from %s", name, id, target.Path)), nil
}

func (s *Server) resolveTarget(request mcp.CallToolRequest) (claudemd.Target, error) {
	location := stringArg(request, "location")
	if location == "" {
		location = s.appConf.InstallLocation
	}
	scope, err := claudemd.ParseScope(location)
	if err != nil {
		return claudemd.Target{}, err
	}
	return claudemd.Resolve(scope)
}
