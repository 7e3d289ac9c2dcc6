package agent

import (
	"context"

	"google.golang.org/adk/agent"
	"google.golang.org/genai"
)

// EventKind discriminates AgentEvent variants
type EventKind int

const (
	EventText EventKind = iota
	EventToolStart
	EventToolDone
	EventDone
	EventError
)

// AgentEvent is one observable step of a streaming agent turn
type AgentEvent struct {
	Kind     EventKind
	Text     string         // EventText
	ToolName string         // EventToolStart / EventToolDone
	Params   map[string]any // EventToolStart
	Err      error          // EventError
}

// ChatStream runs one chat turn against the persistent session and delivers
// incremental events on ch. The channel is always closed when the turn ends;
// an EventError or EventDone is sent first. Intended to run in a goroutine.
func (a *AuditAgent) ChatStream(ctx context.Context, query string, ch chan<- AgentEvent) {
	defer close(ch)

	if err := a.ensureSession(ctx); err != nil {
		ch <- AgentEvent{Kind: EventError, Err: err}
		return
	}

	userMsg := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			genai.NewPartFromText(query),
		},
	}

	for event, err := range a.runner.Run(ctx, a.userID, a.sessionID, userMsg, agent.RunConfig{}) {
		if err != nil {
			ch <- AgentEvent{Kind: EventError, Err: err}
			return
		}
		if event.Content == nil {
			continue
		}
		for _, part := range event.Content.Parts {
			switch {
			case part.Text != "":
				ch <- AgentEvent{Kind: EventText, Text: part.Text}
			case part.FunctionCall != nil:
				ch <- AgentEvent{
					Kind:     EventToolStart,
					ToolName: part.FunctionCall.Name,
					Params:   part.FunctionCall.Args,
				}
			case part.FunctionResponse != nil:
				ch <- AgentEvent{
					Kind:     EventToolDone,
					ToolName: part.FunctionResponse.Name,
				}
			}
		}
	}

	ch <- AgentEvent{Kind: EventDone}
}
