package commands

import (
	"github.com/spf13/cobra"

	"github.com/fortuna/boreas/internal/ingest/leaguestat"
	"github.com/fortuna/boreas/internal/reconcile"
)

var reconcileShots *bool

func init() {
	reconcileShots = reconcileCmd.Flags().Bool("shots", false, "Also refetch reports for finished games missing shot totals.")
	rootCmd.AddCommand(reconcileCmd)
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Applies deferred points and repairs gaps left by earlier runs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		client := leaguestat.NewClient(cfg.LeagueStat.BaseURL, cfg.LeagueStat.ClientCode, cfg.LeagueStat.Timeout)
		ingester := leaguestat.NewIngester(db, client, log)
		engine := reconcile.NewEngine(db, ingester, log)

		ctx := cmd.Context()
		points, err := engine.ReconcilePoints(ctx)
		if err != nil {
			return err
		}
		log.Infof("[reconcile] Points: %d examined, %d repaired, %d still blocked, %d failed",
			points.Examined, points.Repaired, points.StillBlocked, points.Failed)

		if *reconcileShots {
			shots, err := engine.BackfillShots(ctx, cfg.Update.FetchDelay)
			if err != nil {
				return err
			}
			log.Infof("[reconcile] Shots: %d examined, %d repaired, %d still blocked, %d failed",
				shots.Examined, shots.Repaired, shots.StillBlocked, shots.Failed)
		}
		return nil
	},
}
