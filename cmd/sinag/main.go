package main

import (
	"os"

	"github.com/spf13/cobra"

	"sinag/internal/config"
	"sinag/internal/logger"
	"sinag/pkg/bootstrap"
	"sinag/pkg/rules"
)

type rootOptions struct {
	logLevel    string
	maxDepth    int
	expressions bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "sinag",
		Short:         "Evaluate and validate SINAG indicator documents",
		Long:          "sinag evaluates calculation schemas and checklists against local data files and manages database migrations",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&opts.maxDepth, "max-depth", 0, "Maximum nesting depth of schemas and checklists")
	rootCmd.PersistentFlags().BoolVar(&opts.expressions, "expressions", false, "Enable EXPRESSION rules")

	rootCmd.AddCommand(evaluateCmd(opts))
	rootCmd.AddCommand(validateCmd(opts))
	rootCmd.AddCommand(migrateCmd(opts))

	return rootCmd
}

func (o *rootOptions) logger() logger.Logger {
	log, err := logger.New(o.logLevel, "console")
	if err != nil {
		return logger.NopLogger()
	}
	return log
}

func (o *rootOptions) rules(log logger.Logger) (*bootstrap.Rules, error) {
	return bootstrap.NewRules(config.EngineConfig{
		MaxNestingDepth:    o.maxDepth,
		ExpressionsEnabled: o.expressions,
	}, rules.WithLogger(log))
}
