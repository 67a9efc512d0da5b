package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/starvals/starvals/pkg/config"
	"github.com/starvals/starvals/pkg/telemetry"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonLogs   bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "starvals",
		Short: "Starlark evaluation with hybrid argument containers",
		Long: `starvals embeds the Starlark interpreter with a container builtin: an
immutable value holding positional and keyword arguments at once. Containers
index like tuples, subscript like dicts, merge with +, and forward calls to
any function with their stored arguments.

Examples:
  starvals eval script.star
  starvals eval -e 'c = container(1, 2, x=3)'
  starvals eval --watch script.star
  starvals repl`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "emit logs as JSON")

	rootCmd.AddCommand(
		newEvalCommand(),
		newREPLCommand(),
	)

	return rootCmd
}

// loadConfig resolves the effective configuration: the config file when
// given, overridden by the global flags.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if jsonLogs {
		cfg.Logging.Format = "json"
	}
	return cfg, nil
}

// newLogger builds the process logger from the effective configuration.
func newLogger(cfg *config.Config) (*telemetry.Logger, error) {
	return telemetry.NewLogger(cfg.Logging, os.Stderr)
}
