// Package llm provides LLM provider abstraction for the Audra agent
package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/adk/model"
)

// Default models per provider. Both defaults support function calling,
// which the audit toolset requires.
const (
	defaultGeminiModel = "gemini-2.0-flash"
	defaultOllamaModel = "llama3.2"
	defaultOllamaURL   = "http://localhost:11434"
)

// Config holds LLM configuration
type Config struct {
	Provider       string // "gemini", "vertex", or "ollama"
	Model          string // model name (e.g., "gemini-2.0-flash", "llama3.2")
	APIKey         string // for Gemini (GEMINI_API_KEY)
	OllamaURL      string // for Ollama (default: http://localhost:11434)
	VertexProject  string // GCP project for Vertex AI (VERTEX_PROJECT)
	VertexLocation string // GCP region for Vertex AI (VERTEX_LOCATION)
}

// ConfigFromEnv creates a Config from environment variables
func ConfigFromEnv() Config {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = "gemini" // default
	}

	modelName := os.Getenv("LLM_MODEL")
	if modelName == "" {
		switch provider {
		case "ollama":
			modelName = defaultOllamaModel
		default:
			modelName = defaultGeminiModel
		}
	}

	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = defaultOllamaURL
	}

	return Config{
		Provider:       provider,
		Model:          modelName,
		APIKey:         os.Getenv("GEMINI_API_KEY"),
		OllamaURL:      ollamaURL,
		VertexProject:  os.Getenv("VERTEX_PROJECT"),
		VertexLocation: os.Getenv("VERTEX_LOCATION"),
	}
}

// NewModel creates an ADK-compatible model based on the config
func NewModel(ctx context.Context, cfg Config) (model.LLM, error) {
	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiModel(ctx, cfg)
	case "vertex":
		return NewVertexModel(ctx, cfg)
	case "ollama":
		return NewOllamaModel(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: gemini, vertex, ollama)", cfg.Provider)
	}
}

// Validate checks if the config is valid for the selected provider
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini", "":
		if c.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable is required for Gemini provider")
		}
	case "vertex":
		if c.VertexProject == "" {
			return fmt.Errorf("VERTEX_PROJECT is required for Vertex AI provider")
		}
		if c.VertexLocation == "" {
			return fmt.Errorf("VERTEX_LOCATION is required for Vertex AI provider")
		}
	case "ollama":
		if c.OllamaURL == "" {
			return fmt.Errorf("OLLAMA_URL is required for Ollama provider")
		}
	default:
		return fmt.Errorf("unknown LLM provider: %s", c.Provider)
	}
	return nil
}
