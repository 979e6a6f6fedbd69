package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortuna/boreas/internal/season"
	"github.com/fortuna/boreas/internal/store"
	"github.com/fortuna/boreas/internal/store/repository"
)

var (
	loadDatesSeason *string
	loadDatesStart  *string
	loadDatesEnd    *string
	loadDatesPhase  *string
)

func init() {
	loadDatesSeason = loadDatesCmd.Flags().String("season", "", "Load a single season, e.g. 2022-23 (default: every known season).")
	loadDatesStart = loadDatesCmd.Flags().String("start", "", "First day of an explicit window (YYYY-MM-DD), for seasons the built-in calendar does not know yet.")
	loadDatesEnd = loadDatesCmd.Flags().String("end", "", "Last day of the explicit window (YYYY-MM-DD).")
	loadDatesPhase = loadDatesCmd.Flags().String("phase", season.PhaseRegular, "Phase of the explicit window: regular or post.")
	rootCmd.AddCommand(loadDatesCmd)
}

var loadDatesCmd = &cobra.Command{
	Use:   "load-dates",
	Short: "Loads the season calendar so game dates resolve to seasons.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := cmd.Context()
		dates := repository.NewDateRepository(db)
		seasons := repository.NewSeasonRepository(db)

		if *loadDatesStart != "" || *loadDatesEnd != "" {
			days, err := explicitWindow(*loadDatesSeason, *loadDatesStart, *loadDatesEnd, *loadDatesPhase)
			if err != nil {
				return err
			}
			if err := seasons.Ensure(ctx, *loadDatesSeason); err != nil {
				return err
			}
			written, err := dates.UpsertBatch(ctx, toDimDates(days))
			if err != nil {
				return err
			}
			log.Infof("[dates] ✓ Window %s..%s (%s): %d rows written", *loadDatesStart, *loadDatesEnd, *loadDatesPhase, written)
			return nil
		}

		var ids []string
		if *loadDatesSeason != "" {
			ids = []string{*loadDatesSeason}
		} else {
			for _, def := range season.Definitions() {
				ids = append(ids, def.ID)
			}
		}

		var total int64
		for _, id := range ids {
			days, err := season.Days(id)
			if err != nil {
				return err
			}
			if err := seasons.Ensure(ctx, id); err != nil {
				return err
			}

			written, err := dates.UpsertBatch(ctx, toDimDates(days))
			if err != nil {
				return err
			}
			total += written
			log.Infof("[dates] ✓ Season %s: %d calendar days", id, len(days))
		}

		log.Infof("[dates] ✓ Calendar loaded: %d rows written", total)
		return nil
	},
}

// explicitWindow enumerates an ad-hoc date window, numbering its days from
// one. It needs a season label since the window is not in the built-in
// calendar.
func explicitWindow(seasonID, start, end, phase string) ([]season.Day, error) {
	if seasonID == "" {
		return nil, fmt.Errorf("an explicit window needs --season, e.g. 2025-26")
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("an explicit window needs both --start and --end")
	}
	if phase != season.PhaseRegular && phase != season.PhasePost {
		return nil, fmt.Errorf("invalid phase %q: want %s or %s", phase, season.PhaseRegular, season.PhasePost)
	}

	from, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil, fmt.Errorf("parsing --start: %w", err)
	}
	to, err := time.Parse("2006-01-02", end)
	if err != nil {
		return nil, fmt.Errorf("parsing --end: %w", err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("--end %s is before --start %s", end, start)
	}

	var days []season.Day
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		n++
		days = append(days, season.Day{Date: d, Season: seasonID, Phase: phase, DayOfSeason: n})
	}
	return days, nil
}

func toDimDates(days []season.Day) []store.DimDate {
	rows := make([]store.DimDate, 0, len(days))
	for _, d := range days {
		rows = append(rows, store.DimDate{
			Date:        d.Date,
			Season:      d.Season,
			SeasonPhase: d.Phase,
			DayOfSeason: d.DayOfSeason,
		})
	}
	return rows
}
