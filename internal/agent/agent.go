// Package agent wires the audit toolset into an ADK LLM agent ("Audra").
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/llm"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const (
	// SystemInstruction for Audra
	SystemInstruction = `You are Audra, a compliance auditor assistant for a CMMC / NIST SP 800-171 self-assessment.

You sit on top of an evidence audit of the System Control Traceability Matrix (SCTM): every control's claimed policy, procedure, evidence, and implementation references have been cross-checked against the compliance document tree and the application source tree, and scored 0-100.

CRITICAL BEHAVIOR - Be action-oriented:
- When a user mentions ANY control ID, family, or keyword - IMMEDIATELY look it up
- Do NOT ask clarifying questions if you can make a reasonable assumption
- When in doubt, USE YOUR TOOLS FIRST, then explain the results
- If a lookup returns nothing, say so briefly and suggest alternatives

Examples of how to handle queries:
- "how is 3.1.1 doing?" → audit_control(control_id="3.1.1") immediately
- "anything wrong with access control?" → search_controls(family="AC") immediately
- "what needs attention?" → list_critical_controls() immediately
- "show me the inherited controls" → list_by_status(status="inherited") immediately
- "how compliant are we overall?" → get_audit_summary() immediately

Your audit tools:
- audit_control: Full verification result for one control (issues, resolved references, score)
- search_controls: Search controls by keyword, family, or verification status
- list_critical_controls: Controls with low scores or many verification issues
- list_by_status: Controls by claimed status (implemented, inherited, ...)
- get_audit_summary: Portfolio rollup - totals, rates, average score
- get_family_breakdown: Per-family control counts and average scores
- export_report: Export audit results to JSON/CSV/Markdown

When presenting results:
- Lead with the data, keep explanations brief
- Always name the compliance score and the verification status
- Call out missing artifacts explicitly - a claimed control with no evidence is the finding that matters
- Use markdown for clarity

Only redirect to compliance topics if the query is completely unrelated to the assessment.`
)

// AuditAgent wraps the ADK agent with audit-specific functionality
type AuditAgent struct {
	agent          agent.Agent
	runner         *runner.Runner
	sessionService session.Service
	// Session tracking for multi-turn conversations
	userID     string
	sessionID  string
	hasSession bool
}

// New creates a new audit agent using default LLM config from environment
func New(ctx context.Context) (*AuditAgent, error) {
	cfg := llm.ConfigFromEnv()
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates a new audit agent with the specified LLM config
func NewWithConfig(ctx context.Context, cfg llm.Config) (*AuditAgent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model, err := llm.NewModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM model: %w", err)
	}

	tools, err := CreateTools()
	if err != nil {
		return nil, fmt.Errorf("failed to create tools: %w", err)
	}

	auditAgent, err := llmagent.New(llmagent.Config{
		Name:        "audit_agent",
		Description: "Compliance auditor assistant for querying SCTM verification results",
		Model:       model,
		Instruction: SystemInstruction,
		Tools:       tools,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	sessionSvc := session.InMemoryService()

	r, err := runner.New(runner.Config{
		AppName:        "sctm-audit",
		Agent:          auditAgent,
		SessionService: sessionSvc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &AuditAgent{
		agent:          auditAgent,
		runner:         r,
		sessionService: sessionSvc,
	}, nil
}

// Agent returns the underlying ADK agent for use with launchers
func (a *AuditAgent) Agent() agent.Agent {
	return a.agent
}

// Query sends a query to the agent and returns the response
func (a *AuditAgent) Query(ctx context.Context, query string) (string, error) {
	// Fresh session per one-shot query
	sessionResp, err := a.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   "sctm-audit",
		UserID:    "user",
		SessionID: "session",
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	userMsg := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			genai.NewPartFromText(query),
		},
	}

	var response strings.Builder
	for event, err := range a.runner.Run(ctx, sessionResp.Session.UserID(), sessionResp.Session.ID(), userMsg, agent.RunConfig{}) {
		if err != nil {
			return "", fmt.Errorf("agent error: %w", err)
		}
		if event.Content != nil {
			for _, part := range event.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
		}
	}

	return response.String(), nil
}

// ensureSession creates the persistent chat session on first use.
func (a *AuditAgent) ensureSession(ctx context.Context) error {
	if a.hasSession {
		return nil
	}
	sessionResp, err := a.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   "sctm-audit",
		UserID:    "chat-user",
		SessionID: fmt.Sprintf("chat-%d", time.Now().UnixNano()),
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	a.userID = sessionResp.Session.UserID()
	a.sessionID = sessionResp.Session.ID()
	a.hasSession = true
	return nil
}

// Chat sends a query to the agent using a persistent session for multi-turn
// conversations. The first call creates a session, subsequent calls reuse it.
func (a *AuditAgent) Chat(ctx context.Context, query string) (string, error) {
	if err := a.ensureSession(ctx); err != nil {
		return "", err
	}

	userMsg := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			genai.NewPartFromText(query),
		},
	}

	var response strings.Builder
	for event, err := range a.runner.Run(ctx, a.userID, a.sessionID, userMsg, agent.RunConfig{}) {
		if err != nil {
			return "", fmt.Errorf("agent error: %w", err)
		}
		if event.Content != nil {
			for _, part := range event.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
		}
	}

	return response.String(), nil
}

// ClearSession clears the current chat session, starting fresh on next Chat() call
func (a *AuditAgent) ClearSession() {
	a.hasSession = false
	a.userID = ""
	a.sessionID = ""
}
