package llm

import (
	"context"
	"fmt"

	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"
)

// NewGeminiModel builds the hosted Gemini backend. This is the default
// provider for Audra; every current Gemini model supports the function
// calling the audit toolset depends on.
func NewGeminiModel(ctx context.Context, cfg Config) (model.LLM, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
	}

	name := cfg.Model
	if name == "" {
		name = defaultGeminiModel
	}

	m, err := gemini.NewModel(ctx, name, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini model %q: %w", name, err)
	}
	return m, nil
}
