package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seeds the league structure: conferences, divisions, teams, arenas and seasons.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		created, err := db.SeedLeague()
		if err != nil {
			return err
		}
		if created == 0 {
			log.Info("[seed] League structure already present, nothing to do")
			return nil
		}
		log.Infof("[seed] ✓ Created %d rows", created)
		return nil
	},
}
