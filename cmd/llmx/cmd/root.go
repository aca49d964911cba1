// Package cmd provides the llmx CLI commands.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/llmx/llmx/internal/config"
	"github.com/llmx/llmx/internal/embed"
	"github.com/llmx/llmx/internal/handler"
	"github.com/llmx/llmx/internal/logging"
	"github.com/llmx/llmx/internal/store"
)

const appVersion = "0.1.0"

var (
	storageDir string

	debugMode      bool
	loggingCleanup func()
)

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the llmx root command and its subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "llmx",
		Short:   "Local codebase indexing and retrieval for LLM context",
		Version: appVersion,
	}
	cmd.SetVersionTemplate("llmx version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&storageDir, "storage-dir", "", "Override the index storage directory (default: $LLMX_STORAGE_DIR or ~/.llmx/indexes)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.llmx/logs/")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newExploreCmd())
	cmd.AddCommand(newManageCmd())
	cmd.AddCommand(newGetChunkCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// startLogging enables file-based debug logging when --debug is set, and
// installs it as the slog default so every package's ad hoc slog.Default()
// calls (e.g. internal/store's warn-level messages) land in the same file.
func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}
	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("debug logging enabled", slog.String("log_file", logging.DefaultLogPath()))
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		slog.Info("debug logging stopped")
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// newHandler builds a Handler backed by the resolved storage directory and
// the deterministic fallback embedder. Every subcommand shares this
// construction path so the CLI and the MCP adapter stay in lockstep.
func newHandler() (*handler.Handler, error) {
	dir := storageDir
	if dir == "" {
		cfg, err := config.Load(".")
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		dir = cfg.Storage.Dir
	}

	st, err := store.New(dir)
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", dir, err)
	}
	return handler.New(st, embed.NewFallback()), nil
}
