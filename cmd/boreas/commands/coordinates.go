package commands

import (
	"github.com/spf13/cobra"

	"github.com/fortuna/boreas/internal/ingest/wikipedia"
)

func init() {
	rootCmd.AddCommand(coordinatesCmd)
}

var coordinatesCmd = &cobra.Command{
	Use:   "coordinates",
	Short: "Looks up missing arena coordinates on Wikipedia.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		client := wikipedia.NewClient(cfg.Wikipedia.BaseURL)
		ingester := wikipedia.NewIngester(db, client, log)

		updated, err := ingester.UpdateMissing(cmd.Context())
		if err != nil {
			return err
		}
		log.Infof("[wikipedia] ✓ Updated coordinates for %d arenas", updated)
		return nil
	},
}
