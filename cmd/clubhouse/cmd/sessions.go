package cmd

import (
	"fmt"

	"clubhouse-backend/internal/database"
	"clubhouse-backend/internal/storage"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage login sessions",
}

var sessionsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired login sessions",
	Long: `Delete every login session whose expiry has passed.

The server does this periodically in session mode; this command runs the
same sweep once, e.g. from cron when the server runs with a long janitor
interval.`,
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

		purged, err := storage.New(db).Sessions.PurgeExpired(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Purged %d expired session(s)\n", purged)
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsPurgeCmd)
}
