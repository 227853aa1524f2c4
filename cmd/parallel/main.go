package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"parallel/internal/config"
	"parallel/internal/logging"
)

const appName = "parallel"

var errNoSecret = errors.New("JWT_SECRET is not set")

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Backend for a two-person long distance relationship app",
		Long: `Parallel keeps two partners in sync: chat with delivery receipts,
a once-a-day shared diary, time-boxed location sharing and a shared calendar
with reminders.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				return os.Setenv(config.ConfigFileEnv, configPath)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file applied over the environment")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	load := func() (*config.Config, *slog.Logger, func() error, error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load config: %w", err)
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		logger, closeLog, err := logging.New(cfg.Logging)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("configure logging: %w", err)
		}
		slog.SetDefault(logger)
		return cfg, logger, closeLog, nil
	}

	cmd.AddCommand(serveCmd(load), migrateCmd(load), tokenCmd(load), mediaCmd(load))
	return cmd
}

type loader func() (*config.Config, *slog.Logger, func() error, error)
