package cmd

import (
	"fmt"
	"os"

	"clubhouse-backend/internal/config"
	"clubhouse-backend/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	logLevel   string

	// rootCmd runs serve when called without a subcommand.
	rootCmd = &cobra.Command{
		Use:   "clubhouse",
		Short: "Clubhouse backend - events, attendance and photos for a sports club",
		Long: `Clubhouse serves the club's JSON API: member accounts, events with
attendance lists, and a shared photo gallery.

Configuration is read from the environment (and a .env file), optionally
layered over a YAML file passed with --config.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute is called by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (optional, env vars are used otherwise)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(versionCmd)
}

// bootstrap loads configuration and builds the logger shared by every command.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config error: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, log, nil
}
