package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

// bootstrap already migrates on open; this command exists so operators can
// create or upgrade the schema as its own step.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Creates or upgrades the database schema.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.HealthCheck(cmd.Context()); err != nil {
			return err
		}
		log.Infof("[store] ✓ Schema ready at %s", cfg.Database.Path)
		return nil
	},
}
