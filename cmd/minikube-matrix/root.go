package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ochairo/minikube-matrix/internal/domain/entities"
	"github.com/ochairo/minikube-matrix/internal/domain/interfaces"
	"github.com/ochairo/minikube-matrix/internal/domain/interfaces/repositories"
	"github.com/ochairo/minikube-matrix/internal/external-adapters/yaml"
)

// rootOptions holds the flags shared by every subcommand
type rootOptions struct {
	configPath          string
	numTests            int
	rootDir             string
	testScript          string
	downloadConcurrency int
	logLevel            string
	logFormat           string

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "minikube-matrix",
		Short: "Run a compatibility test against the newest patch of every minikube minor release",
		Long: `minikube-matrix lists minikube releases, keeps the newest patch of each minor
version, downloads every selected binary and then runs the compatibility test
script once per version. The first failure stops the run.`,
		Example: `  minikube-matrix                      # test every selected version
  minikube-matrix --num-tests 2        # test the two newest minor versions
  minikube-matrix list --json          # show the selection without downloading`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatrix(cmd.Context(), cmd.Flags(), opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a matrix YAML config file")
	flags.IntVar(&opts.numTests, "num-tests", 0, "Test only the first N selected versions (0 tests all)")
	flags.StringVar(&opts.rootDir, "root", "", "Directory receiving downloaded binaries and logs (default \"minikubes\")")
	flags.StringVar(&opts.testScript, "test-script", "", "Compatibility test script (default \"./test_px_on_minikube.sh\")")
	flags.IntVar(&opts.downloadConcurrency, "download-concurrency", 1, "Maximum parallel downloads; tests always run one at a time")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(newListCmd(opts), newFetchCmd(opts), newVersionCmd(opts))
	return rootCmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the selected versions and their local binary paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd.Context(), cmd.Flags(), opts)
			if err != nil {
				return err
			}
			orch, err := newOrchestrator(cfg, logger)
			if err != nil {
				return err
			}
			artifacts, err := orch.Select(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return outputJSON(opts.stdout, artifacts)
			}
			outputHuman(opts.stdout, artifacts)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the selection as JSON")
	return cmd
}

func newFetchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download the selected versions without running tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd.Context(), cmd.Flags(), opts)
			if err != nil {
				return err
			}
			orch, err := newOrchestrator(cfg, logger)
			if err != nil {
				return err
			}
			artifacts, err := orch.Select(cmd.Context())
			if err != nil {
				return err
			}
			return orch.Fetch(cmd.Context(), artifacts)
		},
	}
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the minikube-matrix version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			version := "(unknown)"
			if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
				version = bi.Main.Version
			}
			fmt.Fprintf(opts.stdout, "minikube-matrix %s\n", version)
		},
	}
}

// loadConfig reads the config file and applies explicitly set flags on top of it
func loadConfig(ctx context.Context, flags *pflag.FlagSet, opts *rootOptions) (*entities.MatrixConfig, *interfaces.SlogLogger, error) {
	logger := interfaces.NewSlogLogger(newLogger(opts.logLevel, opts.logFormat, opts.stderr))

	var repo repositories.ConfigRepository = yaml.NewConfigRepository(opts.configPath)
	cfg, err := repo.LoadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	if flags.Changed("num-tests") {
		cfg.NumTests = opts.numTests
	}
	if flags.Changed("root") {
		cfg.RootDir = opts.rootDir
	}
	if flags.Changed("test-script") {
		cfg.TestScript = opts.testScript
	}
	if flags.Changed("download-concurrency") {
		cfg.DownloadConcurrency = opts.downloadConcurrency
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, logger, nil
}

// newLogger creates a slog.Logger writing to w in the requested level and format
func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// selectionEntry is the JSON shape of one selected version
type selectionEntry struct {
	Version   string `json:"version"`
	Platform  string `json:"platform"`
	Path      string `json:"path"`
	RemoteURL string `json:"remote_url"`
	LogPath   string `json:"log_path"`
}

func outputJSON(w io.Writer, artifacts []*entities.Artifact) error {
	entries := make([]selectionEntry, 0, len(artifacts))
	for _, a := range artifacts {
		entries = append(entries, selectionEntry{
			Version:   a.Version,
			Platform:  a.Platform,
			Path:      a.Path,
			RemoteURL: a.RemoteURL,
			LogPath:   a.LogPath,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func outputHuman(w io.Writer, artifacts []*entities.Artifact) {
	if len(artifacts) == 0 {
		fmt.Fprintln(w, "No versions available")
		return
	}
	fmt.Fprintf(w, "Selected minikube versions (%d total):\n\n", len(artifacts))
	for _, a := range artifacts {
		fmt.Fprintf(w, "  %-12s %s\n", a.Version, a.Path)
	}
}
