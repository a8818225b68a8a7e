package cmd

import (
	"clubhouse-backend/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := database.Open(cfg.Database, log)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()

		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info("Schema migrated", zap.String("driver", cfg.Database.Driver))
		return nil
	},
}
