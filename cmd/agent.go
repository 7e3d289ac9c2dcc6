package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/agent"
	"github.com/MacTechSolutionsLLC/sctm-audit/internal/chat"
	"github.com/MacTechSolutionsLLC/sctm-audit/internal/llm"
	tea "github.com/charmbracelet/bubbletea"
)

// RunAgent runs the agent mode - interactive TUI if no args, one-shot if query provided
func RunAgent(args []string) error {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		provider := cfg.Provider
		if provider == "" {
			provider = "gemini"
		}
		if provider == "gemini" {
			return fmt.Errorf("LLM configuration error: %w\n\nFor Gemini, set:\n  export GEMINI_API_KEY=your-api-key\n\nFor Ollama (local), set:\n  export LLM_PROVIDER=ollama", err)
		}
		return fmt.Errorf("LLM configuration error: %w", err)
	}

	ctx := context.Background()

	fmt.Printf("Initializing Audra agent (%s/%s)...\n", cfg.Provider, cfg.Model)
	auditAgent, err := agent.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize agent: %w", err)
	}

	// If args provided, run one-shot query (no TUI)
	if len(args) > 0 {
		query := strings.Join(args, " ")
		if query == "" {
			return fmt.Errorf("query cannot be empty")
		}
		fmt.Printf("Query: %s\n\n", query)
		response, err := auditAgent.Query(ctx, query)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		fmt.Println(response)
		return nil
	}

	// Interactive mode - use Bubble Tea TUI
	model := chat.NewModel(ctx, auditAgent)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
