// Package llm wraps the OpenAI chat completions API behind a small interface
// so callers can be tested against fakes.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel   = openai.GPT4oMini
	DefaultTimeout = 10 * time.Second
)

// Completer issues single-turn chat completions.
type Completer interface {
	// Configured reports whether an API credential is present.
	Configured() bool
	// Complete sends one request and returns the first choice's content.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

type Config struct {
	// APIKey is injected by the caller, never read from the environment here.
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	cfg    Config
	api    *openai.Client
	logger zerolog.Logger
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		cfg:    cfg,
		logger: logger.With().Str("component", "llm").Logger(),
	}
	if cfg.APIKey == "" {
		return c
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	c.api = openai.NewClientWithConfig(apiCfg)
	return c
}

func (c *Client) Configured() bool {
	return c.api != nil
}

func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c.api == nil {
		return "", fmt.Errorf("no API key configured")
	}

	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	c.logger.Debug().
		Str("model", c.cfg.Model).
		Dur("elapsed", time.Since(start)).
		Msg("completion finished")

	return resp.Choices[0].Message.Content, nil
}
