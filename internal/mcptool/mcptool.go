// Package mcptool exposes procurement search as a Model Context Protocol tool.
package mcptool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/me/narabid/internal/procurement"
	"github.com/me/narabid/pkg/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolName is the registered name of the search tool.
const ToolName = "procurement_search"

// Searcher runs one procurement search.
type Searcher interface {
	Search(ctx context.Context, q procurement.Query) (*model.SearchResult, error)
}

// NewServer returns an MCP server with the search tool registered.
func NewServer(search Searcher, defaults procurement.Defaults, logger *slog.Logger) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "narabid", Version: "0.1.0"}, nil)
	Register(srv, search, defaults, logger)
	return srv
}

type searchArgs struct {
	Kind      string `json:"kind"`
	Q         string `json:"q"`
	PageNo    int    `json:"pageNo"`
	NumOfRows int    `json:"numOfRows"`
	MaxPages  int    `json:"maxPages"`
	Filter    *bool  `json:"filter"`
	Category  string `json:"bsnsDivCd"`
}

func inputSchema(properties map[string]any) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}

// Register adds the search tool to srv.
func Register(srv *mcp.Server, search Searcher, defaults procurement.Defaults, logger *slog.Logger) {
	logger = logger.With("component", "mcptool")

	tool := &mcp.Tool{
		Name: ToolName,
		Description: "Search recent Korean public procurement records (bid notices, award results, contracts) " +
			"from the last 30 days (7 for awards), filtered by a keyword in the title or organization.",
		InputSchema: inputSchema(map[string]any{
			"kind":      map[string]any{"type": "string", "enum": []string{"bid", "award", "contract"}, "description": "Record kind (default bid)"},
			"q":         map[string]any{"type": "string", "description": "Keyword matched case-insensitively against title and organization"},
			"pageNo":    map[string]any{"type": "integer", "description": "First upstream page (default 1)"},
			"numOfRows": map[string]any{"type": "integer", "description": "Rows per upstream page (1-1000)"},
			"maxPages":  map[string]any{"type": "integer", "description": "Max upstream pages to scan (1-10)"},
			"filter":    map[string]any{"type": "boolean", "description": "Apply the keyword filter (default true)"},
			"bsnsDivCd": map[string]any{"type": "string", "description": "Award business-division code (default 5)"},
		}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args searchArgs
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}

		q := args.query(defaults)
		result, err := search.Search(ctx, q)
		if err != nil {
			_, apiErr := procurement.Classify(err)
			logger.Warn("tool search failed", "kind", q.Kind, "code", apiErr.Code, "error", err)
			var res mcp.CallToolResult
			res.SetError(toolError(apiErr))
			return &res, nil
		}

		data, err := json.Marshal(result)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

func (a searchArgs) query(d procurement.Defaults) procurement.Query {
	q := procurement.Query{
		Kind:          model.ParseKind(a.Kind),
		Keyword:       a.Q,
		PageNo:        a.PageNo,
		NumOfRows:     a.NumOfRows,
		MaxPages:      a.MaxPages,
		FilterEnabled: a.Filter == nil || *a.Filter,
		Category:      a.Category,
	}
	if q.NumOfRows == 0 {
		q.NumOfRows = d.NumOfRows
	}
	if q.MaxPages == 0 {
		q.MaxPages = d.MaxPages
	}
	return q
}

func toolError(apiErr *model.APIError) error {
	if apiErr.Detail != "" {
		return fmt.Errorf("%s: %s (%s)", apiErr.Code, apiErr.Message, apiErr.Detail)
	}
	return apiErr
}
