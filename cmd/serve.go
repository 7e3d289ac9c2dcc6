package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/llm"
	"github.com/MacTechSolutionsLLC/sctm-audit/internal/server"
)

// RunServe starts the A2A server for the Audra agent
func RunServe(port int, host string) error {
	llmCfg := llm.ConfigFromEnv()
	if err := llmCfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	cfg := server.A2AConfig{
		Port:      port,
		Host:      host,
		LLMConfig: llmCfg,
	}

	return server.RunA2AServer(ctx, cfg)
}
