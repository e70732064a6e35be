// Command coursectl scores quizzes, inspects media progress and serves the
// preview surface for generated learning content.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-courseware/internal/config"
	"github.com/mind-engage/mindengage-courseware/internal/logging"
)

var (
	cfg    config.Config
	logger *zap.Logger

	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "coursectl",
	Short: "Runtime tooling for mindengage courseware",
	Long: `coursectl drives the courseware runtime outside a browser.

Configuration comes from COURSEWARE_* environment variables; see
internal/config for the full list.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.FromEnv()
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override COURSEWARE_LOG_LEVEL")
	rootCmd.AddCommand(scoreCmd, progressCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
