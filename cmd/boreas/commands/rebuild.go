package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fortuna/boreas/internal/service"
)

var (
	rebuildSeason *string
	rebuildTeam   *string
)

func init() {
	rebuildSeason = rebuildCmd.Flags().String("season", "", "Rebuild a single season, e.g. 2022-23 (default: every season in the calendar).")
	rebuildTeam = rebuildCmd.Flags().String("team", "", "Rebuild one team only; needs --season.")
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild-points",
	Short: "Recomputes the team points aggregates from stored games.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		points := service.NewPointsService(db, log)
		switch {
		case *rebuildTeam != "":
			if *rebuildSeason == "" {
				return fmt.Errorf("--team needs --season")
			}
			return points.RebuildTeamSeason(cmd.Context(), *rebuildTeam, *rebuildSeason)
		case *rebuildSeason != "":
			return points.RebuildSeason(cmd.Context(), *rebuildSeason)
		default:
			return points.RebuildAll(cmd.Context())
		}
	},
}
