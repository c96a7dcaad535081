package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	mcpadapter "github.com/seykim2025/kgoverment-proj/internal/adapters/mcp"
	"github.com/seykim2025/kgoverment-proj/internal/bootstrap"
	"github.com/seykim2025/kgoverment-proj/internal/config"
	"github.com/seykim2025/kgoverment-proj/internal/observability/logging"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve parse and assessment tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// stdout carries the protocol
			slog.SetDefault(logging.NewLogger(os.Stderr, "mcp", cfg.LogLevel))

			app, err := bootstrap.New(cmd.Context(), cfg, "mcp", nil)
			if err != nil {
				return err
			}
			defer app.Close()

			slog.Info("mcp_serving", "transport", "stdio")
			return mcpadapter.New(app.Parser, app.AssessmentUC, cfg.MaxUploadBytes, version).ServeStdio()
		},
	}
}
