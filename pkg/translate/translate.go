// Package translate batch-translates UI strings with the model. Unlike the
// analyzer, this helper never fails the caller: on any problem it returns the
// input strings unchanged.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/saaslens/saaslens/pkg/llm"
)

const (
	DefaultTemperature float32 = 0.3
	DefaultMaxTokens           = 2048
)

type Config struct {
	Temperature float32
	MaxTokens   int
}

type Translator struct {
	cfg    Config
	llm    llm.Completer
	logger zerolog.Logger
}

func New(cfg Config, completer llm.Completer, logger zerolog.Logger) *Translator {
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	return &Translator{
		cfg:    cfg,
		llm:    completer,
		logger: logger.With().Str("component", "translate").Logger(),
	}
}

// Translate returns texts translated to targetLanguage, preserving order and
// length. contextLabel tells the model what kind of UI copy it is looking at.
// On a missing credential, a transport error, or output that does not decode
// into a same-length string array, the original slice is returned unchanged
// and no error is reported.
func (t *Translator) Translate(ctx context.Context, texts []string, targetLanguage, contextLabel string) []string {
	if len(texts) == 0 {
		return texts
	}
	if !t.llm.Configured() {
		t.logger.Warn().Msg("no API key configured, returning strings untranslated")
		return texts
	}

	payload, err := json.Marshal(texts)
	if err != nil {
		return texts
	}

	system := fmt.Sprintf(
		"You translate UI strings to %s. The strings belong to: %s. "+
			"Respond with ONLY a JSON array of the translated strings, same length and order as the input. "+
			"Keep product names and placeholders untouched.",
		targetLanguage, contextLabel)

	raw, err := t.llm.Complete(ctx, llm.CompletionRequest{
		System:      system,
		Prompt:      string(payload),
		Temperature: t.cfg.Temperature,
		MaxTokens:   t.cfg.MaxTokens,
	})
	if err != nil {
		t.logger.Warn().Err(err).Msg("translation request failed, returning strings untranslated")
		return texts
	}

	translated, ok := decodeStringArray(raw, len(texts))
	if !ok {
		t.logger.Warn().Str("language", targetLanguage).Msg("unusable translation output, returning strings untranslated")
		return texts
	}
	return translated
}

// ToGerman translates texts to German, the site's second locale.
func (t *Translator) ToGerman(ctx context.Context, texts []string, contextLabel string) []string {
	return t.Translate(ctx, texts, "German", contextLabel)
}

func decodeStringArray(raw string, want int) ([]string, bool) {
	trimmed := strings.TrimSpace(raw)

	// Models occasionally wrap the array in a code fence.
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var out []string
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return nil, false
	}
	if len(out) != want {
		return nil, false
	}
	return out, true
}
