// Package mcpserver exposes the catalog and renderer as MCP tools over stdio.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/VoxDroid/sunprep/internal/catalog"
	"github.com/VoxDroid/sunprep/internal/devices"
)

// Handlers carries the state the tool handlers read.
type Handlers struct {
	Catalog *catalog.Catalog
	Devices *devices.Provider
}

// NewServer creates an MCP server with the sunprep tools registered.
func NewServer(version string, h *Handlers) *server.MCPServer {
	s := server.NewMCPServer(
		"sunprep",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("sunprep/actions",
			mcp.WithDescription("List catalog actions, optionally filtered by category and a fuzzy query"),
			mcp.WithString("category", mcp.Description("Category name; empty or 'All' lists everything")),
			mcp.WithString("query", mcp.Description("Fuzzy search over name and description")),
		),
		h.HandleActions,
	)

	s.AddTool(
		mcp.NewTool("sunprep/resolve",
			mcp.WithDescription("Substitute {placeholders} in a command template"),
			mcp.WithString("template", mcp.Description("Command template; alternatively pass action")),
			mcp.WithString("action", mcp.Description("Catalog action name whose command is resolved")),
			mcp.WithObject("variables", mcp.Description("Placeholder values keyed by name")),
			mcp.WithString("toolsPath", mcp.Description("Tools directory substituted for {TOOLS_PATH}")),
		),
		h.HandleResolve,
	)

	s.AddTool(
		mcp.NewTool("sunprep/render",
			mcp.WithDescription("Render a project document into before/after scripts and the host descriptor"),
			mcp.WithString("project", mcp.Required(), mcp.Description("Project document as JSON")),
			mcp.WithString("toolsPath", mcp.Description("Tools directory substituted for {TOOLS_PATH}")),
		),
		h.HandleRender,
	)

	s.AddTool(
		mcp.NewTool("sunprep/options",
			mcp.WithDescription("List suggested values for a variable"),
			mcp.WithString("variable", mcp.Required(), mcp.Description("Variable name, e.g. display_device_id or volume")),
		),
		h.HandleOptions,
	)

	return s
}

// ServeStdio runs s on stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
