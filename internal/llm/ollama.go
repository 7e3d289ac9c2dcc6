package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// OllamaModel adapts a local Ollama server to the ADK model.LLM interface.
// Running Audra against a local model keeps SCTM rows and verification
// results on the host, which some assessment environments require.
type OllamaModel struct {
	client *api.Client
	name   string
}

// NewOllamaModel connects to the Ollama server named by cfg.OllamaURL. The
// chosen model must support tool calling or the audit tools never fire.
func NewOllamaModel(ctx context.Context, cfg Config) (model.LLM, error) {
	base := cfg.OllamaURL
	if base == "" {
		base = defaultOllamaURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_URL %q: %w", base, err)
	}

	name := cfg.Model
	if name == "" {
		name = defaultOllamaModel
	}

	return &OllamaModel{
		client: api.NewClient(u, http.DefaultClient),
		name:   name,
	}, nil
}

// Name returns the model name
func (m *OllamaModel) Name() string {
	return m.name
}

var errConsumerStopped = errors.New("consumer stopped")

// GenerateContent runs one chat turn against the local server, translating
// between the genai content types the runner speaks and the Ollama API.
func (m *OllamaModel) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		chatReq := &api.ChatRequest{
			Model:    m.name,
			Messages: toOllamaMessages(req.Contents),
			Stream:   &stream,
		}
		if len(req.Tools) > 0 {
			chatReq.Tools = toOllamaTools(req.Tools)
		}

		if stream {
			stopped := false
			err := m.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
				for _, out := range chunkResponses(resp) {
					if !yield(out, nil) {
						stopped = true
						return errConsumerStopped
					}
				}
				return nil
			})
			if err != nil && !stopped {
				yield(nil, fmt.Errorf("ollama chat: %w", err))
			}
			return
		}

		var last api.ChatResponse
		if err := m.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
			last = resp
			return nil
		}); err != nil {
			yield(nil, fmt.Errorf("ollama chat: %w", err))
			return
		}

		resp := &model.LLMResponse{
			Content:      textContent(last.Message.Content),
			TurnComplete: true,
		}
		if len(last.Message.ToolCalls) > 0 {
			resp = toolCallResponse(last.Message.ToolCalls)
			resp.TurnComplete = true
		}
		yield(resp, nil)
	}
}

// chunkResponses converts one streamed chat chunk into ADK responses: a text
// part when the chunk carries content, a function-call part when the model
// decided to invoke an audit tool.
func chunkResponses(resp api.ChatResponse) []*model.LLMResponse {
	var out []*model.LLMResponse
	if resp.Message.Content != "" {
		out = append(out, &model.LLMResponse{
			Content:      textContent(resp.Message.Content),
			Partial:      !resp.Done,
			TurnComplete: resp.Done,
		})
	}
	if len(resp.Message.ToolCalls) > 0 {
		r := toolCallResponse(resp.Message.ToolCalls)
		r.TurnComplete = resp.Done
		out = append(out, r)
	}
	return out
}

func textContent(text string) *genai.Content {
	return &genai.Content{
		Role:  "model",
		Parts: []*genai.Part{genai.NewPartFromText(text)},
	}
}

// toOllamaMessages flattens genai contents into Ollama chat messages. The
// runner uses the "model" role for assistant turns; Ollama calls it
// "assistant".
func toOllamaMessages(contents []*genai.Content) []api.Message {
	msgs := make([]api.Message, 0, len(contents))
	for _, content := range contents {
		role := content.Role
		if role == "model" {
			role = "assistant"
		}

		var text strings.Builder
		var calls []api.ToolCall
		for _, part := range content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
			if part.FunctionCall != nil {
				args := make(api.ToolCallFunctionArguments, len(part.FunctionCall.Args))
				for k, v := range part.FunctionCall.Args {
					args[k] = v
				}
				calls = append(calls, api.ToolCall{
					Function: api.ToolCallFunction{
						Name:      part.FunctionCall.Name,
						Arguments: args,
					},
				})
			}
		}

		msgs = append(msgs, api.Message{
			Role:      role,
			Content:   text.String(),
			ToolCalls: calls,
		})
	}
	return msgs
}

// toOllamaTools rebuilds the audit toolset declarations in Ollama's schema.
// Only the property type and description survive the translation; the
// Ollama declaration format carries no nested schemas, which is enough for
// the flat parameter lists the audit tools use.
func toOllamaTools(tools map[string]any) []api.Tool {
	var out []api.Tool
	for name, raw := range tools {
		decl, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		desc, _ := decl["description"].(string)
		params, _ := decl["parameters"].(map[string]any)

		out = append(out, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        name,
				Description: desc,
				Parameters: api.ToolFunctionParameters{
					Type:       "object",
					Properties: toOllamaProperties(params),
				},
			},
		})
	}
	return out
}

func toOllamaProperties(params map[string]any) map[string]api.ToolProperty {
	out := make(map[string]api.ToolProperty)
	props, ok := params["properties"].(map[string]any)
	if !ok {
		return out
	}
	for name, raw := range props {
		spec, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		prop := api.ToolProperty{Type: api.PropertyType{"string"}}
		if t, ok := spec["type"].(string); ok {
			prop.Type = api.PropertyType{t}
		}
		if d, ok := spec["description"].(string); ok {
			prop.Description = d
		}
		out[name] = prop
	}
	return out
}

// toolCallResponse wraps tool invocations as genai function-call parts so
// the runner dispatches them through the registered function tools.
func toolCallResponse(calls []api.ToolCall) *model.LLMResponse {
	parts := make([]*genai.Part, 0, len(calls))
	for _, call := range calls {
		args := make(map[string]any, len(call.Function.Arguments))
		for k, v := range call.Function.Arguments {
			args[k] = v
		}
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				Name: call.Function.Name,
				Args: args,
			},
		})
	}
	return &model.LLMResponse{
		Content: &genai.Content{
			Role:  "model",
			Parts: parts,
		},
	}
}
