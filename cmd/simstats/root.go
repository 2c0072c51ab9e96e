package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hyp3rd/simstats/internal/constants"
)

var rootCmd = &cobra.Command{
	Use:           "simstats",
	Short:         "Aggregates hierarchical simulation statistics",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := zapcore.ParseLevel(logLevel)
		if err != nil {
			return err
		}

		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}

		logger, err = config.Build()

		return err
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	// flags shared by every subcommand
	logLevel   string
	workers    int
	traceCalls bool

	logger = zap.NewNop()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", constants.DefaultIngestWorkers, "number of dumps decoded concurrently")
	rootCmd.PersistentFlags().BoolVar(&traceCalls, "trace-calls", false, "log every engine call and its duration")

	rootCmd.AddCommand(analyzeCmd, inspectCmd)
}
