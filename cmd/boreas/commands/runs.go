package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortuna/boreas/internal/store/repository"
)

var runsLimit *int

func init() {
	runsLimit = runsCmd.Flags().Int("limit", 10, "How many runs to show, newest first.")
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Shows recent update runs and their tallies.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := repository.NewRunRepository(db).Recent(cmd.Context(), *runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet")
			return nil
		}

		for _, run := range runs {
			duration := "running"
			if run.FinishedAt != nil {
				duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
			}
			fmt.Printf("%s  %s  %-9s  games %d-%d  scanned %d  upserted %d  unchanged %d  scheduled %d  no data %d  failed %d  (%s)\n",
				run.StartedAt.Format("2006-01-02 15:04:05"), run.RunID, run.Status,
				run.StartID, run.EndID,
				run.Scanned, run.Upserted, run.Unchanged, run.Scheduled, run.NoData, run.Failed,
				duration)
			if run.LastError != "" {
				fmt.Printf("    last error: %s\n", run.LastError)
			}
		}
		return nil
	},
}
