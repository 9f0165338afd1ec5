package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/VoxDroid/sunprep/internal/catalog"
	"github.com/VoxDroid/sunprep/internal/exporter"
	"github.com/VoxDroid/sunprep/internal/project"
	"github.com/VoxDroid/sunprep/internal/script"
)

// HandleActions implements the sunprep/actions tool.
func (h *Handlers) HandleActions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	category, _ := args["category"].(string)
	query, _ := args["query"].(string)

	return jsonResult(catalog.Search(h.Catalog.Filter(category), query))
}

// HandleResolve implements the sunprep/resolve tool.
func (h *Handlers) HandleResolve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	template, _ := args["template"].(string)
	if name, _ := args["action"].(string); name != "" {
		tpl, ok := h.Catalog.Find(name)
		if !ok {
			return errorResult(fmt.Sprintf("unknown action %q", name)), nil
		}
		template = tpl.Command
	}
	if template == "" {
		return errorResult("template or action argument is required"), nil
	}

	vars, err := decodeVars(args["variables"])
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(script.Resolve(template, vars, h.toolsPath(args))), nil
}

// HandleRender implements the sunprep/render tool.
func (h *Handlers) HandleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	doc, _ := args["project"].(string)
	if strings.TrimSpace(doc) == "" {
		return errorResult("project argument is required"), nil
	}
	p, err := project.ReadDocument(strings.NewReader(doc))
	if err != nil {
		return errorResult(err.Error()), nil
	}
	pv, err := exporter.BuildPreview(p, h.toolsPath(args))
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(pv)
}

// HandleOptions implements the sunprep/options tool.
func (h *Handlers) HandleOptions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	variable, _ := args["variable"].(string)
	if variable == "" {
		return errorResult("variable argument is required"), nil
	}
	return jsonResult(h.Devices.Options(ctx, variable))
}

func (h *Handlers) toolsPath(args map[string]any) string {
	if p, _ := args["toolsPath"].(string); p != "" {
		return p
	}
	if h.Devices != nil {
		return h.Devices.ToolsDir()
	}
	return ""
}

// decodeVars accepts a JSON object of scalars or {"value": ...} records.
func decodeVars(v any) (map[string]string, error) {
	if v == nil {
		return map[string]string{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("variables: %w", err)
	}
	var vars script.Vars
	if err := json.Unmarshal(data, &vars); err != nil {
		return nil, err
	}
	return vars, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(strings.TrimSuffix(b.String(), "\n")), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(msg),
		},
		IsError: true,
	}
}
