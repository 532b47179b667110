package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vbonduro/phonecat/internal/config"
	"github.com/vbonduro/phonecat/internal/logging"
)

var (
	cfg           *config.Config
	logger        *slog.Logger
	closeLog      = func() {}
	envFile       string
	listenAddrArg string
)

var rootCmd = &cobra.Command{
	Use:           "phonecat",
	Short:         "Smartphone catalog REST API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, closeLog, err = logging.New(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
}

// Execute runs the root command and reports the error through the logger
// when one is available.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		if logger != nil {
			logger.Error("command failed", "error", err)
		} else {
			slog.Error("command failed", "error", err)
		}
		closeLog()
	}
	return err
}
