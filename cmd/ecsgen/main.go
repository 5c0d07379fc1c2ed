// Command ecsgen generates archetype-ECS boilerplate from a YAML manifest.
//
// It reads a manifest describing components, archetypes, systems,
// phases, states, and worlds; validates it; resolves it into concrete
// storage and scheduling plans; and emits Go source for each into the
// configured output directory.
//
// Optional environment variables:
//
//	ECSGEN_CONFIG       - Path to the TOML config file (default: search path, see internal/config)
//	ECSGEN_MANIFEST     - Manifest path (default: ecs.yaml)
//	ECSGEN_OUTPUT_DIR   - Output directory (default: generated)
//	ECSGEN_LOG_LEVEL    - Log level: debug, info, warn, error (default: info)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sunsided/ecsgen/internal/codegen"
	"github.com/sunsided/ecsgen/internal/config"
	"github.com/sunsided/ecsgen/internal/ecs"
	"github.com/sunsided/ecsgen/internal/manifest"
)

// Version is set via ldflags at build time.
var Version = "dev"

var configPath string

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ecsgen",
		Short:         "Generate archetype-ECS boilerplate from a manifest",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to ecsgen.toml (default: search path)")
	root.AddCommand(newGenerateCmd(), newValidateCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Validate, resolve, and emit Go source for a manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), true)
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate and resolve a manifest without writing any files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), false)
		},
	}
}

func run(ctx context.Context, emit bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	runID := uuid.NewString()
	logger = logger.With("run_id", runID, "version", Version)

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("loading manifest", "path", cfg.Manifest.Path)
	f, err := os.Open(cfg.Manifest.Path)
	if err != nil {
		return fmt.Errorf("opening manifest %s: %w", cfg.Manifest.Path, err)
	}
	defer f.Close()

	model, err := manifest.Load(f)
	if err != nil {
		logger.Error("manifest parse failed", "error", err)
		return err
	}

	if err := model.Validate(); err != nil {
		logger.Error("manifest validation failed", logAttrsFor(err)...)
		return err
	}

	if err := model.Finish(); err != nil {
		logger.Error("manifest resolution failed", logAttrsFor(err)...)
		return err
	}

	logger.Info("manifest resolved",
		"components", len(model.Components),
		"archetypes", len(model.Archetypes),
		"systems", len(model.Systems),
		"worlds", len(model.Worlds),
	)

	if !emit {
		return nil
	}

	emitter, err := codegen.NewTemplateEmitter(nil)
	if err != nil {
		return fmt.Errorf("compiling templates: %w", err)
	}

	artifacts, err := emitter.Emit(model)
	if err != nil {
		logger.Error("emission failed", "error", err)
		return err
	}

	if err := artifacts.WriteTo(cfg.Output.Dir, "go"); err != nil {
		return fmt.Errorf("writing artifacts: %w", err)
	}

	logger.Info("wrote generated artifacts", "dir", cfg.Output.Dir)
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// logAttrsFor unpacks an *ecs.Error into structured log fields so a
// human can grep the kind/operands without parsing Error() text.
func logAttrsFor(err error) []any {
	var ecsErr *ecs.Error
	if e, ok := err.(*ecs.Error); ok {
		ecsErr = e
	}
	if ecsErr == nil {
		return []any{"error", err}
	}
	return []any{"error", err, "kind", ecsErr.Kind, "a", ecsErr.A, "b", ecsErr.B}
}
