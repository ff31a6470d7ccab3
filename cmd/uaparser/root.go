package main

import (
	"log/slog"

	"github.com/praetorian-inc/uaparser"
	"github.com/praetorian-inc/uaparser/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	rulesPath   string
	noPrefilter bool
	logLevel    string
	logFormat   string
)

var rootCmd = &cobra.Command{
	Use:   "uaparser",
	Short: "uaparser - classify user-agent strings",
	Long: `uaparser classifies user-agent strings into browser, operating system
and device families using an ordered catalog of regular-expression rules.

Rules use the regexes.yaml format. A builtin catalog is used unless --rules
points at another file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "Path to a regexes.yaml rule catalog (default: builtin)")
	rootCmd.PersistentFlags().BoolVar(&noPrefilter, "no-prefilter", false, "Evaluate every rule without keyword prefiltering")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text, json")

	// Add subcommands
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the diagnostic logger. Logs go to stderr so stdout
// stays machine readable.
func newLogger(cmd *cobra.Command) *slog.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(logLevel),
		Format: logging.ParseFormat(logFormat),
		Output: cmd.ErrOrStderr(),
	})
}

// newParser builds a parser from the --rules and --no-prefilter flags.
func newParser(logger *slog.Logger) (*uaparser.Parser, error) {
	opts := []uaparser.Option{
		uaparser.WithPrefilter(!noPrefilter),
		uaparser.WithLogger(logging.DebugLogger{Logger: logger}),
	}
	if rulesPath != "" {
		opts = append(opts, uaparser.WithRulesFile(rulesPath))
	}
	return uaparser.New(opts...)
}
