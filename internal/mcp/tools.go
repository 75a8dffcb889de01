package mcp

import (
	"context"
	"encoding/json"
	"errors"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func idSchema(what string) map[string]any {
	return objectSchema(map[string]any{
		"id": prop("integer", what+" ID"),
	}, "id")
}

func sessionCounterSchema() map[string]any {
	return objectSchema(map[string]any{
		"session_id": prop("string", "Session ID from open_session (defaults to the transport session)"),
		"counter_id": prop("integer", "Counter ID in the session's active part"),
	}, "counter_id")
}

var craftTypes = []string{"knitting", "crochet"}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	projectProps := map[string]any{
		"id":          prop("integer", "Explicit project ID (optional, assigned by the store if omitted)"),
		"name":        prop("string", "Project name"),
		"description": prop("string", "Project description"),
		"type": map[string]any{
			"type":        "string",
			"enum":        craftTypes,
			"description": "Craft type (default knitting)",
		},
		"completed": prop("boolean", "Whether the project is finished"),
	}

	return []ToolDefinition{
		{
			Name:        "ping",
			Description: "Check that the server is alive",
			InputSchema: objectSchema(map[string]any{}),
		},

		// Projects
		{
			Name:        "list_projects",
			Description: "List all projects",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "get_project",
			Description: "Get a project by ID",
			InputSchema: idSchema("Project"),
		},
		{
			Name:        "search_projects",
			Description: "Full-text search over project names and descriptions; a blank query lists every project",
			InputSchema: objectSchema(map[string]any{
				"query": prop("string", "Words to match; each word matches as a prefix"),
				"limit": prop("integer", "Maximum results (default 50)"),
			}),
		},
		{
			Name:        "create_project",
			Description: "Create a ready-to-use project with its first part and the Global and Stitch counters. A blank name becomes 'Project N'",
			InputSchema: objectSchema(projectProps),
		},
		{
			Name:        "add_project",
			Description: "Add a bare project without parts or counters",
			InputSchema: objectSchema(projectProps, "name"),
		},
		{
			Name:        "delete_project",
			Description: "Delete a project with all of its parts and counters, and close its sessions",
			InputSchema: idSchema("Project"),
		},

		// Parts
		{
			Name:        "list_parts",
			Description: "List the parts of a project",
			InputSchema: objectSchema(map[string]any{
				"project_id": prop("integer", "Owning project ID"),
			}, "project_id"),
		},
		{
			Name:        "add_part",
			Description: "Add a part to a project. The part gets its own Global and Stitch counters",
			InputSchema: objectSchema(map[string]any{
				"id":          prop("integer", "Explicit part ID (optional)"),
				"project_id":  prop("integer", "Owning project ID"),
				"name":        prop("string", "Part name"),
				"description": prop("string", "Part description"),
				"is_current":  prop("boolean", "Make this the part being worked on"),
			}, "project_id", "name"),
		},
		{
			Name:        "delete_part",
			Description: "Delete a part and its counters",
			InputSchema: idSchema("Part"),
		},
		{
			Name:        "set_current_part",
			Description: "Mark a part as the one being worked on; its siblings are unmarked",
			InputSchema: idSchema("Part"),
		},

		// Counters
		{
			Name:        "list_counters",
			Description: "List the counters of a part",
			InputSchema: objectSchema(map[string]any{
				"part_id": prop("integer", "Owning part ID"),
			}, "part_id"),
		},
		{
			Name:        "get_counter",
			Description: "Get a counter by ID",
			InputSchema: idSchema("Counter"),
		},
		{
			Name:        "add_counter",
			Description: "Add a counter to a part",
			InputSchema: objectSchema(map[string]any{
				"id":                 prop("integer", "Explicit counter ID (optional)"),
				"part_id":            prop("integer", "Owning part ID"),
				"name":               prop("string", "Counter name"),
				"value":              prop("integer", "Starting value"),
				"increment_by":       prop("integer", "Step size (default 1)"),
				"is_globally_linked": prop("boolean", "Step this counter whenever the Global counter steps"),
				"reset_row":          prop("integer", "Return to 0 when the value reaches this row (0 disables)"),
				"max_resets":         prop("integer", "Stop auto resets after this many (0 is unlimited)"),
			}, "part_id", "name"),
		},
		{
			Name:        "update_counter",
			Description: "Update counter fields. Omitted fields keep their stored values; pass version to detect concurrent changes",
			InputSchema: objectSchema(map[string]any{
				"id":                 prop("integer", "Counter ID"),
				"name":               prop("string", "Counter name"),
				"value":              prop("integer", "Current value"),
				"increment_by":       prop("integer", "Step size"),
				"is_globally_linked": prop("boolean", "Follow the Global counter"),
				"reset_row":          prop("integer", "Auto reset row (0 disables)"),
				"max_resets":         prop("integer", "Auto reset limit (0 is unlimited)"),
				"num_resets":         prop("integer", "Auto resets performed so far"),
				"version":            prop("integer", "Version the update is based on"),
			}, "id"),
		},
		{
			Name:        "delete_counter",
			Description: "Delete a normal counter. Global and Stitch counters cannot be deleted",
			InputSchema: idSchema("Counter"),
		},

		// Sessions
		{
			Name:        "open_session",
			Description: "Open a working session on a project. Returns the session with its active part and counters",
			InputSchema: objectSchema(map[string]any{
				"project_id": prop("integer", "Project ID"),
			}, "project_id"),
		},
		{
			Name:        "get_session",
			Description: "Get the current state of a session",
			InputSchema: objectSchema(map[string]any{
				"session_id": prop("string", "Session ID"),
			}),
		},
		{
			Name:        "increment_counter",
			Description: "Step a counter up. Stepping the Global counter also steps every linked counter",
			InputSchema: sessionCounterSchema(),
		},
		{
			Name:        "decrement_counter",
			Description: "Step a counter down. Stepping the Global counter also steps every linked counter",
			InputSchema: sessionCounterSchema(),
		},
		{
			Name:        "toggle_link",
			Description: "Flip whether a normal counter follows the Global counter",
			InputSchema: sessionCounterSchema(),
		},
		{
			Name:        "select_part",
			Description: "Switch the session to another part of its project",
			InputSchema: objectSchema(map[string]any{
				"session_id": prop("string", "Session ID"),
				"part_id":    prop("integer", "Part ID"),
			}, "part_id"),
		},
		{
			Name:        "refresh_session",
			Description: "Reload the session from the store, for example after a CONFLICT",
			InputSchema: objectSchema(map[string]any{
				"session_id": prop("string", "Session ID"),
			}),
		},
		{
			Name:        "close_session",
			Description: "Close a session",
			InputSchema: objectSchema(map[string]any{
				"session_id": prop("string", "Session ID"),
			}),
		},
	}
}

// registerTools adds every catalog tool to server, dispatching through h.
func registerTools(server *sdkmcp.Server, h *Handler) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := h.Handle(ctx, getSessionID(ctx), name, args)
			if err != nil {
				return toolError(err), nil
			}
			return toolResult(result)
		})
	}
}

func toolResult(v any) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

// toolError reports err as a tool-level failure so the client sees the
// error code and recovery hint.
func toolError(err error) *sdkmcp.CallToolResult {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		apiErr = &APIError{Code: CodePersistenceFailure, Message: err.Error()}
	}
	data, _ := json.Marshal(apiErr)
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: true,
	}
}
