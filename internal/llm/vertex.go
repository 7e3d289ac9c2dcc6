package llm

import (
	"context"
	"fmt"

	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"
)

// NewVertexModel builds the Gemini backend through Vertex AI, for
// assessments run inside a GCP organization where API keys are not an
// option. Authentication is Application Default Credentials
// (`gcloud auth application-default login`).
func NewVertexModel(ctx context.Context, cfg Config) (model.LLM, error) {
	if cfg.VertexProject == "" {
		return nil, fmt.Errorf("VERTEX_PROJECT is required for the vertex provider")
	}
	if cfg.VertexLocation == "" {
		return nil, fmt.Errorf("VERTEX_LOCATION is required for the vertex provider")
	}

	name := cfg.Model
	if name == "" {
		name = defaultGeminiModel
	}

	m, err := gemini.NewModel(ctx, name, &genai.ClientConfig{
		Project:  cfg.VertexProject,
		Location: cfg.VertexLocation,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("vertex model %q: %w", name, err)
	}
	return m, nil
}
