package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/api"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/app"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/auth"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/llm"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/logging"
)

// runApp opens the store, wires the service graph, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	// The TUI owns the terminal, so interactive runs log to a file under
	// the state dir instead of stderr.
	logDir, err := logging.DefaultDir()
	if err != nil {
		return fmt.Errorf("resolve log dir: %w", err)
	}
	logFile, err := logging.OpenFile(logDir)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log := logging.New(logFile)

	sessions := st.SessionRepo()
	client := api.New(api.BaseURL(), auth.NewTokens(sessions), log)

	opts := app.Options{
		Store:   st,
		Client:  client,
		Auth:    auth.NewManager(client, sessions, log),
		Version: version,
		Log:     log,
	}

	provider, err := providerFromEnv(ctx, st.ChatRepo(), log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Model provider not configured:", err)
		fmt.Fprintln(os.Stderr, "The AI tutor will be unavailable.")
	} else {
		opts.Provider = provider
	}

	return app.Run(opts)
}

// providerFromEnv builds the model provider. Explicit CODETOYOU_* settings
// win; when none are set, the standard key variables (GEMINI_API_KEY,
// OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY) are probed in order.
func providerFromEnv(ctx context.Context, usage llm.UsageRecorder, log zerolog.Logger) (llm.Provider, error) {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		if os.Getenv("CODETOYOU_LLM_PROVIDER") != "" {
			return nil, err
		}
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return nil, err
		}
		cfg = discovered
	}
	return llm.NewProvider(ctx, cfg, usage, log)
}
