package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vbonduro/phonecat/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate <up|down|version>",
	Short:     "Manage the database schema",
	Long:      `Apply or roll back schema migrations, or print the current schema version.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "version"},
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		if steps < 0 {
			return fmt.Errorf("--steps must not be negative")
		}

		database, err := db.Connect(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", "error", err)
			}
		}()

		if args[0] != "version" {
			if err := db.Migrate(database, db.Direction(args[0]), steps); err != nil {
				return err
			}
		}

		version, dirty, err := db.Version(database)
		if err != nil {
			return err
		}
		logger.Info("schema version", "db", cfg.DBPath, "version", version, "dirty", dirty)
		fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
		return nil
	},
}

func init() {
	migrateCmd.Flags().Int("steps", 0, "number of migrations to apply, 0 for all")
	rootCmd.AddCommand(migrateCmd)
}
