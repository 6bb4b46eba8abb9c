// Package translate exposes the batch string translator as an MCP tool.
package translate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/saaslens/saaslens/pkg/server"
	"github.com/saaslens/saaslens/pkg/tools"
	"github.com/saaslens/saaslens/pkg/translate"
)

type Input struct {
	Texts    []string `json:"texts" validate:"required,min=1"`
	Language string   `json:"language,omitempty"`
	Context  string   `json:"context,omitempty"`
}

type Tool struct {
	logger     zerolog.Logger
	validator  *validator.Validate
	translator *translate.Translator
}

func (t *Tool) Register(srv *server.Server) error {
	tool := &mcp.Tool{
		Name:        "translate",
		Description: "Translate an ordered list of UI strings. Defaults to German. Returns the input unchanged when translation is unavailable.",
	}

	t.translator = srv.Translator()

	mcp.AddTool(&srv.Server, tool, tools.WrapToolHandler(srv.Storage(), "translate", t.TranslateHandler))
	t.logger.Debug().Msg("translate tool registered")

	return nil
}

func (t *Tool) TranslateHandler(ctx context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := t.validator.Struct(input); err != nil {
		return nil, nil, fmt.Errorf("validation error: %w", err)
	}

	language := input.Language
	if language == "" {
		language = "German"
	}
	contextLabel := input.Context
	if contextLabel == "" {
		contextLabel = "website UI strings"
	}

	translated := t.translator.Translate(ctx, input.Texts, language, contextLabel)

	data, _ := json.MarshalIndent(translated, "", "  ")

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func New(logger zerolog.Logger) tools.Tool {
	return &Tool{
		logger:    logger.With().Str("tool", "translate").Logger(),
		validator: validator.New(),
	}
}
