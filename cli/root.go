// Package cli wires the scaffolding toolkit into its command line surface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yuezhaodesign/Inkspire/chunkify"
	"github.com/yuezhaodesign/Inkspire/config"
	"github.com/yuezhaodesign/Inkspire/library"
	"github.com/yuezhaodesign/Inkspire/materials"
	"github.com/yuezhaodesign/Inkspire/readers"
	"github.com/yuezhaodesign/Inkspire/workflow"
)

const defaultConfigPath = "cfg/config.yaml"

var (
	cfgFile string
	verbose bool
	reset   bool
)

// Services shared across commands, built once in setup. Tests preset them
// and flip initialized to run commands against fakes.
var (
	cfg      *config.Config
	logger   *slog.Logger
	lib      *library.Store
	store    libraryStore
	loader   *readers.Loader
	chunker  *chunkify.Chunker
	searcher workflow.Searcher
	registry *materials.Registry

	generator workflow.Generator

	initialized bool
)

var rootCmd = &cobra.Command{
	Use:   "inkspire",
	Short: "Reading Apprenticeship scaffolding toolkit",
	Long: `Generates Reading Apprenticeship questions, teacher prompts and reading
annotations from course readings, grounded in a per-course material library.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigPath, "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&reset, "reset", false, "rebuild the vector index from scratch")
}

func setup(cmd *cobra.Command) error {
	if initialized {
		return nil
	}

	_ = godotenv.Load()

	var err error
	cfg, err = loadConfig(cfgFile)
	if err != nil {
		return err
	}

	logger, err = newLogger(cmd, cfg.LogFile)
	if err != nil {
		return err
	}

	lib, err = library.NewStore(cfg.LibraryRoot)
	if err != nil {
		return err
	}

	loader = readers.NewLoader()

	chunker, err = chunkify.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}

	store, searcher, err = newRetrieval()
	if err != nil {
		return err
	}

	if err := workflow.SeedDemoCourse(store); err != nil {
		return fmt.Errorf("seeding demo course: %w", err)
	}

	if err := os.MkdirAll(cfg.MaterialsRoot, 0o755); err != nil {
		return fmt.Errorf("creating materials root: %w", err)
	}
	debounce := time.Duration(cfg.MergeEventsMs) * time.Millisecond
	registry = materials.NewRegistry(cfg.MaterialsRoot, store, loader, chunker, debounce, logger)

	initialized = true
	return nil
}

// loadConfig falls back to built-in defaults when the default config file is
// absent; an explicitly named file must exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Read(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath && errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}

	return nil, err
}

// newLogger routes logs by surface: serve and mcp append JSON records to the
// configured log file, one-shot commands write text to stderr.
func newLogger(cmd *cobra.Command, path string) (*slog.Logger, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if !logsToFile(cmd) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	}

	logFile, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return slog.New(slog.NewJSONHandler(logFile, opts)), nil
}

func logsToFile(cmd *cobra.Command) bool {
	return cmd == serveCmd || cmd == mcpCmd
}
