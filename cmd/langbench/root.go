// cmd/langbench/root.go
package langbench

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mwiater/langbench/internal/config"
	"github.com/mwiater/langbench/internal/logging"
)

var (
	configPath string
	logLevel   string
)

// rootCmd is the base Cobra command for the langbench application.
// All subcommands are attached to this root to form the complete CLI.
var rootCmd = &cobra.Command{
	Use:   "langbench",
	Short: "Benchmark statistical analyses across language runtimes",
	Long: `langbench runs the same statistical analyses (linear regression and one-way ANOVA) in several language runtimes,
times them with hyperfine, samples their peak memory and reports per-language means, standard deviations and deltas
against a baseline language.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Setup(logLevel, cmd.ErrOrStderr())
	},
}

// Execute runs the root Cobra command and all registered subcommands.
// It prints any returned error and exits the process with a non-zero
// status code on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./langbench.{yaml,json,toml} when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
}

// commandContext returns the context the command was executed with.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the configuration with the given key→flag bindings
// applied on top of the file and environment.
func loadConfig(cmd *cobra.Command, bindings map[string]string) (config.Config, error) {
	loader := config.NewLoader()
	for key, name := range bindings {
		if err := loader.BindFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return config.Config{}, err
		}
	}
	return loader.Load(configPath)
}
