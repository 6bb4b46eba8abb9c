// Package analyzer implements the analyze-and-cache pipeline: normalize the
// query, look it up in the tool cache, and on a miss ask the model for a
// structured breakdown, validate it, and persist it.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/saaslens/saaslens/pkg/llm"
	"github.com/saaslens/saaslens/pkg/models"
	"github.com/saaslens/saaslens/pkg/storage"
)

const (
	DefaultTemperature float32 = 0.2
	DefaultMaxTokens           = 1024
)

const systemPrompt = `You are a SaaS pricing analyst. Given the name of a SaaS product, respond with ONLY a JSON object of this exact shape:
{"name": string, "monthly_cost": number, "features": [{"name": string, "type": "core"|"bloat"}]}
Rules:
- "name" is the official product name.
- "monthly_cost" is the base per-seat monthly price in USD as a bare number with no currency symbol.
- "features" contains 5-8 entries meaningful to a small business (1-25 employees).
- "type" is "core" for essential daily-use features, "bloat" for advanced or enterprise-only features.
Return no text other than the JSON object.`

type Config struct {
	Temperature float32
	MaxTokens   int
}

// Result is the record shape returned to callers. Hit and miss paths are
// indistinguishable from the JSON fields alone.
type Result struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	MonthlyCost float64            `json:"monthly_cost"`
	Features    models.FeatureList `json:"features"`

	CacheHit bool `json:"-"`
}

// analysisPayload is the shape the model must produce.
type analysisPayload struct {
	Name        string           `json:"name" validate:"required"`
	MonthlyCost float64          `json:"monthly_cost" validate:"required"`
	Features    []models.Feature `json:"features" validate:"required,min=1,dive"`
}

type Analyzer struct {
	cfg      Config
	store    storage.Storage
	llm      llm.Completer
	validate *validator.Validate
	logger   zerolog.Logger
}

func New(cfg Config, store storage.Storage, completer llm.Completer, logger zerolog.Logger) *Analyzer {
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	return &Analyzer{
		cfg:      cfg,
		store:    store,
		llm:      completer,
		validate: validator.New(),
		logger:   logger.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze runs the pipeline for one query. Records are never updated: a miss
// always inserts a fresh row, and two sufficiently different queries for the
// same product may produce duplicates.
func (a *Analyzer) Analyze(ctx context.Context, query string) (*Result, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return nil, errorf(KindBadInput, "query must not be empty")
	}

	// Any lookup error, including not-found, is treated as a cache miss.
	if tool, err := a.store.FindToolByName(ctx, key); err == nil {
		a.logger.Debug().Str("query", key).Str("id", tool.ID).Msg("cache hit")
		return resultFrom(tool, true), nil
	}

	if !a.llm.Configured() {
		return nil, errorf(KindConfig, "LLM API key is not configured")
	}

	raw, err := a.llm.Complete(ctx, llm.CompletionRequest{
		System:      systemPrompt,
		Prompt:      fmt.Sprintf("Analyze the SaaS tool: %s", strings.TrimSpace(query)),
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	})
	if err != nil {
		return nil, wrapErr(KindTransport, err)
	}

	var payload analysisPayload
	if err := extractJSON(raw, &payload); err != nil {
		return nil, wrapErr(KindFormat, err)
	}
	if err := a.validate.Struct(&payload); err != nil {
		return nil, errorf(KindValidation, "model output failed validation: %w", err)
	}

	tool := &models.Tool{
		Name:        payload.Name,
		Slug:        Slugify(payload.Name),
		MonthlyCost: payload.MonthlyCost,
		Features:    payload.Features,
	}
	if err := a.store.CreateTool(ctx, tool); err != nil {
		return nil, errorf(KindStorage, "failed to persist tool: %w", err)
	}

	a.logger.Info().Str("name", tool.Name).Str("slug", tool.Slug).Msg("tool analyzed and cached")
	return resultFrom(tool, false), nil
}

func resultFrom(tool *models.Tool, hit bool) *Result {
	return &Result{
		ID:          tool.ID,
		Name:        tool.Name,
		MonthlyCost: tool.MonthlyCost,
		Features:    tool.Features,
		CacheHit:    hit,
	}
}
