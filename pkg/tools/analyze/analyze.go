// Package analyze exposes the analyze-and-cache pipeline as an MCP tool.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/saaslens/saaslens/pkg/analyzer"
	"github.com/saaslens/saaslens/pkg/server"
	"github.com/saaslens/saaslens/pkg/tools"
)

type Input struct {
	Query string `json:"query" validate:"required"`
}

type Tool struct {
	logger    zerolog.Logger
	validator *validator.Validate
	analyzer  *analyzer.Analyzer
}

func (t *Tool) Register(srv *server.Server) error {
	tool := &mcp.Tool{
		Name:        "analyze",
		Description: "Analyze a SaaS product: returns its name, base monthly cost in USD and a core/bloat feature breakdown. Results are cached.",
	}

	t.analyzer = srv.Analyzer()

	mcp.AddTool(&srv.Server, tool, tools.WrapToolHandler(srv.Storage(), "analyze", t.AnalyzeHandler))
	t.logger.Debug().Msg("analyze tool registered")

	return nil
}

func (t *Tool) AnalyzeHandler(ctx context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := t.validator.Struct(input); err != nil {
		return nil, nil, fmt.Errorf("validation error: %w", err)
	}

	result, err := t.analyzer.Analyze(ctx, input.Query)
	if err != nil {
		return nil, nil, fmt.Errorf("analysis failed: %w", err)
	}

	data, _ := json.MarshalIndent(result, "", "  ")

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func New(logger zerolog.Logger) tools.Tool {
	return &Tool{
		logger:    logger.With().Str("tool", "analyze").Logger(),
		validator: validator.New(),
	}
}
