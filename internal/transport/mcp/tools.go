package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	promptsvc "github.com/okwan/promptvault/internal/service/prompt"
	searchsvc "github.com/okwan/promptvault/internal/service/search"
)

// RegisterTools registers all MCP tools on the server.
// [SRP] Tool registration only.
// [OCP] Add a new tool by adding a new AddTool call — server.go never changes.
func RegisterTools(
	s *mcpserver.MCPServer,
	promptSvc *promptsvc.Service,
	searchSvc *searchsvc.Service,
) {
	s.AddTool(mcpmcp.NewTool("search_prompts",
		mcpmcp.WithDescription("Search the prompt library by describing what you want to do. Matching is semantic: wording does not need to match the stored prompt text. Returns prompts ranked by similarity."),
		mcpmcp.WithString("owner_id", mcpmcp.Required(), mcpmcp.Description("Library owner identifier")),
		mcpmcp.WithString("query", mcpmcp.Required(), mcpmcp.Description("Natural-language description of the task or need")),
		mcpmcp.WithNumber("limit", mcpmcp.Description("Maximum number of results (default 10)")),
	), searchPromptsHandler(searchSvc))

	s.AddTool(mcpmcp.NewTool("get_prompt",
		mcpmcp.WithDescription("Fetch a single prompt by id, including its full content."),
		mcpmcp.WithString("owner_id", mcpmcp.Required(), mcpmcp.Description("Library owner identifier")),
		mcpmcp.WithString("prompt_id", mcpmcp.Required(), mcpmcp.Description("Prompt UUID")),
	), getPromptHandler(promptSvc))

	s.AddTool(mcpmcp.NewTool("list_prompts",
		mcpmcp.WithDescription("List all prompts in the library, newest first."),
		mcpmcp.WithString("owner_id", mcpmcp.Required(), mcpmcp.Description("Library owner identifier")),
	), listPromptsHandler(promptSvc))
}

// ── Tool handlers ─────────────────────────────────────────────────────────

func searchPromptsHandler(svc *searchsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		ownerID := mcpmcp.ParseString(req, "owner_id", "")
		query := mcpmcp.ParseString(req, "query", "")
		limit := int(mcpmcp.ParseInt64(req, "limit", 0))

		if ownerID == "" {
			return mcpmcp.NewToolResultText("error: owner_id required"), nil
		}

		matches, err := svc.Search(ctx, ownerID, query, limit)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}

		result, _ := json.Marshal(matches)
		return mcpmcp.NewToolResultText(string(result)), nil
	}
}

func getPromptHandler(svc *promptsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		ownerID := mcpmcp.ParseString(req, "owner_id", "")
		idStr := mcpmcp.ParseString(req, "prompt_id", "")

		if ownerID == "" {
			return mcpmcp.NewToolResultText("error: owner_id required"), nil
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return mcpmcp.NewToolResultText("error: invalid prompt_id"), nil
		}

		p, err := svc.Get(ctx, id, ownerID)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}

		result, _ := json.Marshal(p)
		return mcpmcp.NewToolResultText(string(result)), nil
	}
}

func listPromptsHandler(svc *promptsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		ownerID := mcpmcp.ParseString(req, "owner_id", "")
		if ownerID == "" {
			return mcpmcp.NewToolResultText("error: owner_id required"), nil
		}

		prompts, err := svc.List(ctx, ownerID)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}

		result, _ := json.Marshal(prompts)
		return mcpmcp.NewToolResultText(string(result)), nil
	}
}
