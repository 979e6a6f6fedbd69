package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fortuna/boreas/internal/config"
	"github.com/fortuna/boreas/internal/ingest/leaguestat"
	"github.com/fortuna/boreas/internal/store"
	"github.com/fortuna/boreas/internal/update"
)

var (
	updateLookback *int
	updateSpan     *int
	updateStart    *int
	updateGame     *int
	updateDryRun   *bool
)

func init() {
	updateLookback = updateCmd.Flags().Int("lookback", 0, "How many ids to rewind from the newest stored game (default from config).")
	updateSpan = updateCmd.Flags().Int("span", 0, "How many ids to sweep (default from config).")
	updateStart = updateCmd.Flags().Int("start", 0, "Explicit first id to sweep, overriding the high water mark.")
	updateGame = updateCmd.Flags().Int("game", 0, "Sweep a single game id.")
	updateDryRun = updateCmd.Flags().Bool("dry-run", false, "Classify games without writing anything.")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Sweeps recent game ids and stores every report found.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		spec := specFromFlags(cfg, cmd.Flags())

		client := leaguestat.NewClient(cfg.LeagueStat.BaseURL, cfg.LeagueStat.ClientCode, cfg.LeagueStat.Timeout)
		ingester := leaguestat.NewIngester(db, client, log)
		runner := update.NewRunner(db, ingester, log)

		_, err = runner.Run(cmd.Context(), spec, &consoleReporter{log: log})
		return err
	},
}

// specFromFlags merges the configured defaults with the flags actually
// set. Presence decides, not the value: an explicit --lookback 0 means
// "start exactly at the high water mark", not "use the config default".
func specFromFlags(cfg *config.Config, flags *pflag.FlagSet) update.Spec {
	spec := update.Spec{
		Lookback: cfg.Update.Lookback,
		Span:     cfg.Update.Span,
		StartID:  *updateStart,
		GameID:   *updateGame,
		DryRun:   *updateDryRun,
		Delay:    cfg.Update.FetchDelay,
	}
	if flags.Changed("lookback") {
		spec.Lookback = *updateLookback
	}
	if flags.Changed("span") {
		spec.Span = *updateSpan
	}
	return spec
}

type consoleReporter struct {
	log *logrus.Logger
}

func (c *consoleReporter) OnRunStart(spec update.Spec, startID, endID int) {
	if spec.DryRun {
		c.log.Infof("Dry run: scanning games %d through %d, writing nothing", startID, endID)
		return
	}
	c.log.Infof("Scanning games %d through %d", startID, endID)
}

func (c *consoleReporter) OnGameStart(gameID, index, total int) {
	c.log.Debugf("[%d/%d] Fetching game %d", index+1, total, gameID)
}

func (c *consoleReporter) OnGameProcessed(gameID int, outcome leaguestat.Outcome) {
	switch outcome {
	case leaguestat.OutcomeUpserted:
		c.log.Infof("✓ Game %d stored", gameID)
	case leaguestat.OutcomeScheduled:
		c.log.Infof("Game %d is potentially scheduled but hasn't been played yet", gameID)
	case leaguestat.OutcomeNoData:
		c.log.Debugf("⊘ Game %d has no data", gameID)
	default:
		c.log.Debugf("Game %d unchanged", gameID)
	}
}

func (c *consoleReporter) OnProgress(message string, current, total int) {
	c.log.Info(message)
}

func (c *consoleReporter) OnRunComplete(run *store.IngestRun) {
	c.log.Infof("✓ Run %s complete: %d scanned, %d upserted, %d unchanged, %d scheduled, %d no data, %d failed",
		run.RunID, run.Scanned, run.Upserted, run.Unchanged, run.Scheduled, run.NoData, run.Failed)
}

func (c *consoleReporter) OnRunError(err error) {
	c.log.Errorf("Run failed: %v", err)
}
