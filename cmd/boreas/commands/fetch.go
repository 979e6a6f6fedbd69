package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fortuna/boreas/internal/config"
	"github.com/fortuna/boreas/internal/ingest/leaguestat"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <game-id>",
	Short: "Fetches one game report and prints it without storing anything.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid game id %q", args[0])
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		client := leaguestat.NewClient(cfg.LeagueStat.BaseURL, cfg.LeagueStat.ClientCode, cfg.LeagueStat.Timeout)
		report, err := client.FetchGame(cmd.Context(), gameID)
		switch {
		case errors.Is(err, leaguestat.ErrNoGame):
			fmt.Printf("Game %d has no data\n", gameID)
			return nil
		case errors.Is(err, leaguestat.ErrNotYetPlayed):
			fmt.Printf("Game %d is potentially scheduled but hasn't been played yet\n", gameID)
			return nil
		case err != nil:
			return err
		}

		printReport(report)
		return nil
	},
}

func printReport(r *leaguestat.Report) {
	fmt.Printf("%s %d at %s %d (%s)\n", r.AwayTeam, r.AwayScore, r.HomeTeam, r.HomeScore, r.Status)
	fmt.Printf("%s at %s", r.Date.Format("Monday, January 2, 2006"), r.Arena)
	if r.Attendance > 0 {
		fmt.Printf(", attendance %d", r.Attendance)
	}
	fmt.Println()
	if r.AwayShots != nil && r.HomeShots != nil {
		fmt.Printf("Shots: %s %d, %s %d\n", r.AwayTeam, *r.AwayShots, r.HomeTeam, *r.HomeShots)
	}

	if len(r.Goals) > 0 {
		fmt.Println("\nGoals:")
		for _, g := range r.Goals {
			var flags string
			if g.PowerPlay {
				flags += " PP"
			}
			if g.EmptyNet {
				flags += " EN"
			}
			if g.ShortHanded {
				flags += " SH"
			}
			assists := "unassisted"
			if len(g.Assists) > 0 {
				assists = strings.Join(g.Assists, ", ")
			}
			fmt.Printf("  P%d %5s  %s %s (%s)%s\n", g.Period, g.Time, g.Team, g.Scorer, assists, flags)
		}
	}

	if len(r.Penalties) > 0 {
		fmt.Println("\nPenalties:")
		for _, p := range r.Penalties {
			fmt.Printf("  P%d %5s  %s %s (%s)\n", p.Period, p.Time, p.Player, p.Team, p.Infraction)
		}
	}

	if len(r.Referees) > 0 || len(r.Linesmen) > 0 {
		fmt.Println()
		for _, o := range r.Referees {
			fmt.Printf("  Referee: %s (%d)\n", o.Name, o.Number)
		}
		for _, o := range r.Linesmen {
			fmt.Printf("  Linesperson: %s (%d)\n", o.Name, o.Number)
		}
	}
}
