package llm

import (
	"testing"

	"github.com/ollama/ollama/api"
	"google.golang.org/genai"
)

func TestToOllamaMessages(t *testing.T) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{genai.NewPartFromText("how is 3.1.1 doing?")},
		},
		{
			Role: "model",
			Parts: []*genai.Part{
				{FunctionCall: &genai.FunctionCall{
					Name: "audit_control",
					Args: map[string]any{"control_id": "3.1.1"},
				}},
			},
		},
	}

	msgs := toOllamaMessages(contents)
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[0].Content != "how is 3.1.1 doing?" {
		t.Errorf("user message = %+v", msgs[0])
	}
	if msgs[1].Role != "assistant" {
		t.Errorf("model role mapped to %q, want assistant", msgs[1].Role)
	}
	if len(msgs[1].ToolCalls) != 1 || msgs[1].ToolCalls[0].Function.Name != "audit_control" {
		t.Errorf("tool calls = %+v", msgs[1].ToolCalls)
	}
}

func TestToOllamaTools(t *testing.T) {
	tools := map[string]any{
		"audit_control": map[string]any{
			"description": "Full verification result for one control",
			"parameters": map[string]any{
				"properties": map[string]any{
					"control_id": map[string]any{
						"type":        "string",
						"description": "NIST 800-171 control id",
					},
				},
			},
		},
	}

	out := toOllamaTools(tools)
	if len(out) != 1 {
		t.Fatalf("tools = %d, want 1", len(out))
	}
	fn := out[0].Function
	if fn.Name != "audit_control" {
		t.Errorf("name = %q", fn.Name)
	}
	prop, ok := fn.Parameters.Properties["control_id"]
	if !ok {
		t.Fatal("control_id property missing")
	}
	if prop.Description != "NIST 800-171 control id" {
		t.Errorf("description = %q", prop.Description)
	}
}

func TestToolCallResponse(t *testing.T) {
	calls := []api.ToolCall{
		{Function: api.ToolCallFunction{
			Name:      "list_by_status",
			Arguments: api.ToolCallFunctionArguments{"status": "inherited"},
		}},
	}

	resp := toolCallResponse(calls)
	if resp.Content == nil || len(resp.Content.Parts) != 1 {
		t.Fatalf("response content = %+v", resp.Content)
	}
	fc := resp.Content.Parts[0].FunctionCall
	if fc == nil || fc.Name != "list_by_status" {
		t.Fatalf("function call = %+v", fc)
	}
	if fc.Args["status"] != "inherited" {
		t.Errorf("args = %v", fc.Args)
	}
}

func TestChunkResponsesMarksPartial(t *testing.T) {
	mid := api.ChatResponse{Message: api.Message{Content: "checking"}, Done: false}
	out := chunkResponses(mid)
	if len(out) != 1 || !out[0].Partial || out[0].TurnComplete {
		t.Errorf("mid-stream chunk = %+v", out)
	}

	final := api.ChatResponse{Message: api.Message{Content: "done"}, Done: true}
	out = chunkResponses(final)
	if len(out) != 1 || out[0].Partial || !out[0].TurnComplete {
		t.Errorf("final chunk = %+v", out)
	}
}
