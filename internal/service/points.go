package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fortuna/boreas/internal/store"
	"github.com/fortuna/boreas/internal/store/repository"
)

var (
	// ErrMissingDimDate means the season calendar has no row for a game's
	// date. The game row itself is kept; its aggregate effects wait until
	// load-dates fills the calendar and reconcile retries.
	ErrMissingDimDate = errors.New("date not in season calendar")

	// ErrUnknownTeam means a game report names a team the team table does
	// not know.
	ErrUnknownTeam = errors.New("unknown team")
)

// PointsService maintains the team_date_points standings aggregates. Rows
// are dense: one snapshot per team per calendar day, cumulative within the
// season, with total points always wins*2 + otl + sol.
type PointsService struct {
	games  *repository.GameRepository
	teams  *repository.TeamRepository
	dates  *repository.DateRepository
	points *repository.PointRepository
	log    *logrus.Logger

	mu      sync.Mutex
	teamIDs map[string]uint
}

// NewPointsService creates a new points service
func NewPointsService(db *store.Database, log *logrus.Logger) *PointsService {
	return &PointsService{
		games:  repository.NewGameRepository(db),
		teams:  repository.NewTeamRepository(db),
		dates:  repository.NewDateRepository(db),
		points: repository.NewPointRepository(db),
		log:    log,
	}
}

// record is a running tally of one team's results.
type record struct {
	wins   int
	losses int
	otl    int
	sol    int
}

func (r record) points() int {
	return r.wins*2 + r.otl + r.sol
}

// apply folds one completed game into the tally from team's perspective.
// Regulation losses earn nothing; overtime and shootout losses earn the
// loser point.
func (r *record) apply(game *store.Game, team string) {
	if !store.IsTerminal(game.Status) || game.HomeScore == nil || game.AwayScore == nil {
		return
	}

	own, opp := *game.HomeScore, *game.AwayScore
	if game.AwayTeam == team {
		own, opp = opp, own
	}

	if own > opp {
		r.wins++
		return
	}
	switch game.Status {
	case store.StatusFinalOT:
		r.otl++
	case store.StatusFinalSO:
		r.sol++
	default:
		r.losses++
	}
}

// RecomputeGame refreshes both teams' snapshots from the game's date
// forward through the end of its season.
func (s *PointsService) RecomputeGame(ctx context.Context, game *store.Game) error {
	return s.RecomputeCorrection(ctx, nil, game)
}

// RecomputeCorrection refreshes snapshots after a terminal game changed.
// A correction can move the game's date or fix a team name, so both the
// vacated window and the new one are re-walked; otherwise snapshots where
// the game used to sit would keep counting it. previous is nil for a game
// going terminal the first time.
func (s *PointsService) RecomputeCorrection(ctx context.Context, previous, current *store.Game) error {
	if current.GameDate == nil {
		return fmt.Errorf("%w: game %d has no date", ErrMissingDimDate, current.ExternalID)
	}

	// Earliest recompute anchor per season; a corrected date can land in a
	// different season than the original.
	var deferred error
	anchors := map[string]time.Time{}
	for _, g := range []*store.Game{current, previous} {
		if g == nil || g.GameDate == nil {
			continue
		}
		day, err := s.dates.FindByDate(ctx, *g.GameDate)
		if err != nil {
			return err
		}
		if day == nil {
			// A date the calendar never covered has no snapshots. For the
			// corrected row that defers the points; a vacated window is
			// still cleaned up below.
			if g == current {
				deferred = fmt.Errorf("%w: %s", ErrMissingDimDate, g.GameDate.Format("2006-01-02"))
			}
			continue
		}
		if anchor, ok := anchors[day.Season]; !ok || day.Date.Before(anchor) {
			anchors[day.Season] = day.Date
		}
	}

	currentTeams := map[string]bool{current.HomeTeam: true, current.AwayTeam: true}
	teams := map[string]bool{current.HomeTeam: true, current.AwayTeam: true}
	if previous != nil {
		teams[previous.HomeTeam] = true
		teams[previous.AwayTeam] = true
	}

	for seasonID, from := range anchors {
		for team := range teams {
			err := s.RecomputeForward(ctx, team, seasonID, from)
			if errors.Is(err, ErrUnknownTeam) && !currentTeams[team] {
				// A corrected-away name the team table never knew left no
				// snapshots behind.
				s.log.Warnf("[points] ⚠️ Skipping vacated team %q: %v", team, err)
				continue
			}
			if err != nil {
				return err
			}
		}
	}
	return deferred
}

// RecomputeForward rebuilds one team's snapshots for every calendar day of
// a season from a given date on, carrying the tally forward from the last
// snapshot before that date.
func (s *PointsService) RecomputeForward(ctx context.Context, team, seasonID string, from time.Time) error {
	teamID, err := s.teamID(ctx, team)
	if err != nil {
		return err
	}

	calendar, err := s.dates.ListBySeason(ctx, seasonID)
	if err != nil {
		return err
	}
	if len(calendar) == 0 {
		return fmt.Errorf("%w: season %s has no calendar", ErrMissingDimDate, seasonID)
	}

	fromDay := dayOf(from)
	seasonStart := calendar[0].Date
	seasonEnd := calendar[len(calendar)-1].Date

	tally := record{}
	prior, err := s.points.LastBefore(ctx, teamID, fromDay, seasonStart)
	if err != nil {
		return err
	}
	if prior != nil {
		tally = record{wins: prior.Wins, losses: prior.Losses, otl: prior.OvertimeLosses, sol: prior.ShootoutLosses}
	}

	games, err := s.games.TerminalForTeamInRange(ctx, team, seasonID, fromDay, seasonEnd)
	if err != nil {
		return err
	}
	byDay := make(map[string][]*store.Game, len(games))
	for _, g := range games {
		if g.GameDate == nil {
			continue
		}
		key := g.GameDate.Format("2006-01-02")
		byDay[key] = append(byDay[key], g)
	}

	var rows []store.TeamDatePoint
	for _, day := range calendar {
		if day.Date.Before(fromDay) {
			continue
		}
		for _, g := range byDay[day.Date.Format("2006-01-02")] {
			tally.apply(g, team)
		}
		rows = append(rows, store.TeamDatePoint{
			TeamID:         teamID,
			Date:           day.Date,
			Wins:           tally.wins,
			Losses:         tally.losses,
			OvertimeLosses: tally.otl,
			ShootoutLosses: tally.sol,
			TotalPoints:    tally.points(),
		})
	}

	return s.points.UpsertBatch(ctx, rows)
}

// RebuildSeason recomputes every team's snapshots for one season from
// scratch. The season's calendar is renumbered first, since calendars
// loaded as separate explicit windows can carry numbering that restarts
// mid-phase.
func (s *PointsService) RebuildSeason(ctx context.Context, seasonID string) error {
	calendar, err := s.dates.ListBySeason(ctx, seasonID)
	if err != nil {
		return err
	}
	if len(calendar) == 0 {
		return fmt.Errorf("%w: season %s has no calendar", ErrMissingDimDate, seasonID)
	}
	if err := s.renumberDays(ctx, calendar); err != nil {
		return err
	}

	start := calendar[0].Date
	end := calendar[len(calendar)-1].Date
	if err := s.points.DeleteInRange(ctx, start, end); err != nil {
		return err
	}

	teams, err := s.teams.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, team := range teams {
		if err := s.RecomputeForward(ctx, team.Name, seasonID, start); err != nil {
			return err
		}
	}

	if err := s.games.MarkSeasonApplied(ctx, seasonID); err != nil {
		return err
	}

	s.log.Infof("[points] ✓ Rebuilt %s: %d teams over %d days", seasonID, len(teams), len(calendar))
	return nil
}

// renumberDays rewrites day_of_season so each phase counts 1..n in date
// order. The calendar slice must already be sorted by date.
func (s *PointsService) renumberDays(ctx context.Context, calendar []store.DimDate) error {
	var changed []store.DimDate
	counts := make(map[string]int)
	for _, day := range calendar {
		counts[day.SeasonPhase]++
		if n := counts[day.SeasonPhase]; day.DayOfSeason != n {
			day.DayOfSeason = n
			changed = append(changed, day)
		}
	}
	if len(changed) == 0 {
		return nil
	}
	if _, err := s.dates.UpsertBatch(ctx, changed); err != nil {
		return fmt.Errorf("renumbering calendar: %w", err)
	}
	s.log.Infof("[points] Renumbered %d calendar days", len(changed))
	return nil
}

// RebuildTeamSeason recomputes one team's snapshots for one season from
// its first calendar day.
func (s *PointsService) RebuildTeamSeason(ctx context.Context, team, seasonID string) error {
	calendar, err := s.dates.ListBySeason(ctx, seasonID)
	if err != nil {
		return err
	}
	if len(calendar) == 0 {
		return fmt.Errorf("%w: season %s has no calendar", ErrMissingDimDate, seasonID)
	}

	if err := s.RecomputeForward(ctx, team, seasonID, calendar[0].Date); err != nil {
		return err
	}
	s.log.Infof("[points] ✓ Rebuilt %s for %s", seasonID, team)
	return nil
}

// RebuildAll clears the aggregate table and recomputes every season the
// calendar knows about.
func (s *PointsService) RebuildAll(ctx context.Context) error {
	seasons, err := s.dates.Seasons(ctx)
	if err != nil {
		return err
	}
	if len(seasons) == 0 {
		return fmt.Errorf("%w: calendar is empty, run load-dates first", ErrMissingDimDate)
	}

	if err := s.points.DeleteAll(ctx); err != nil {
		return err
	}
	for _, seasonID := range seasons {
		if err := s.RebuildSeason(ctx, seasonID); err != nil {
			return err
		}
	}

	s.log.Infof("[points] ✓ Full rebuild complete: %d seasons", len(seasons))
	return nil
}

// teamID resolves a team name through a lazily built lookup cache.
func (s *PointsService) teamID(ctx context.Context, name string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.teamIDs == nil {
		teams, err := s.teams.GetAll(ctx)
		if err != nil {
			return 0, fmt.Errorf("loading team lookup: %w", err)
		}
		s.teamIDs = make(map[string]uint, len(teams))
		for _, t := range teams {
			s.teamIDs[t.Name] = t.ID
		}
	}

	id, ok := s.teamIDs[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTeam, name)
	}
	return id, nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
