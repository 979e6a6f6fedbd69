package leaguestat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fortuna/boreas/internal/service"
	"github.com/fortuna/boreas/internal/store"
	"github.com/fortuna/boreas/internal/store/repository"
)

// Outcome classifies what ingesting one game id did.
type Outcome string

const (
	// OutcomeUpserted means a report was stored (new or changed).
	OutcomeUpserted Outcome = "upserted"
	// OutcomeUnchanged means the stored row already matched the report.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeScheduled means the id is on the schedule but unplayed.
	OutcomeScheduled Outcome = "scheduled"
	// OutcomeNoData means the provider has nothing for the id.
	OutcomeNoData Outcome = "no_data"
)

// Ingester fetches game reports and persists them, keeping the standings
// aggregates in step with every terminal result it stores.
type Ingester struct {
	client *Client
	games  *repository.GameRepository
	dates  *repository.DateRepository
	points *service.PointsService
	log    *logrus.Logger
}

// NewIngester creates an ingester backed by the given report client.
func NewIngester(db *store.Database, client *Client, log *logrus.Logger) *Ingester {
	return &Ingester{
		client: client,
		games:  repository.NewGameRepository(db),
		dates:  repository.NewDateRepository(db),
		points: service.NewPointsService(db, log),
		log:    log,
	}
}

// IngestGameID fetches one game report and persists it. Sentinel responses
// are expected outcomes, not errors: a missing report records the id as
// unplayed, an unavailable one records a scheduled placeholder.
func (i *Ingester) IngestGameID(ctx context.Context, gameID int) (Outcome, error) {
	report, err := i.client.FetchGame(ctx, gameID)
	switch {
	case errors.Is(err, ErrNoGame):
		if err := i.games.MarkUnplayed(ctx, gameID); err != nil {
			return OutcomeNoData, err
		}
		return OutcomeNoData, nil
	case errors.Is(err, ErrNotYetPlayed):
		if err := i.games.ClearUnplayed(ctx, gameID); err != nil {
			return "", err
		}
		return i.recordScheduled(ctx, gameID)
	case err != nil:
		return "", err
	}

	// The provider knows the id now, so any stale no-data marker goes.
	if err := i.games.ClearUnplayed(ctx, gameID); err != nil {
		return "", err
	}
	return i.persistReport(ctx, report)
}

// Preview fetches and classifies one game id without writing anything.
func (i *Ingester) Preview(ctx context.Context, gameID int) (Outcome, error) {
	report, err := i.client.FetchGame(ctx, gameID)
	switch {
	case errors.Is(err, ErrNoGame):
		return OutcomeNoData, nil
	case errors.Is(err, ErrNotYetPlayed):
		existing, err := i.games.FindByExternalID(ctx, gameID)
		if err != nil {
			return "", err
		}
		if existing != nil {
			return OutcomeUnchanged, nil
		}
		return OutcomeScheduled, nil
	case err != nil:
		return "", err
	}

	existing, err := i.games.FindByExternalID(ctx, gameID)
	if err != nil {
		return "", err
	}
	incoming := gameFromReport(report)
	if existing != nil && !gameChanged(existing, incoming) {
		return OutcomeUnchanged, nil
	}
	return OutcomeUpserted, nil
}

// FetchShots refetches a game's report just for its shot totals.
func (i *Ingester) FetchShots(ctx context.Context, gameID int) (*int, *int, error) {
	report, err := i.client.FetchGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	return report.HomeShots, report.AwayShots, nil
}

// recordScheduled stores a placeholder row for an id the provider knows
// but has not played yet. An existing row is left alone; the placeholder
// carries no information a stored row lacks.
func (i *Ingester) recordScheduled(ctx context.Context, gameID int) (Outcome, error) {
	existing, err := i.games.FindByExternalID(ctx, gameID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return OutcomeUnchanged, nil
	}

	game := &store.Game{ExternalID: gameID, Status: store.StatusScheduled}
	if err := i.games.Upsert(ctx, game); err != nil {
		return "", err
	}
	return OutcomeScheduled, nil
}

func (i *Ingester) persistReport(ctx context.Context, report *Report) (Outcome, error) {
	incoming := gameFromReport(report)

	// The season comes from the calendar, not the report. A date outside
	// the loaded calendar leaves it blank and defers the aggregates.
	if incoming.GameDate != nil {
		day, err := i.dates.FindByDate(ctx, *incoming.GameDate)
		if err != nil {
			return "", err
		}
		if day != nil {
			incoming.SeasonID = day.Season
		}
	}

	existing, err := i.games.FindByExternalID(ctx, report.GameID)
	if err != nil {
		return "", err
	}
	var prior *store.Game
	if existing != nil {
		if store.IsTerminal(existing.Status) && !store.IsTerminal(incoming.Status) {
			i.log.Warnf("[ingest] ⚠️ Ignoring status regression for game %d (%s -> %s)",
				report.GameID, existing.Status, incoming.Status)
			return OutcomeUnchanged, nil
		}
		if !gameChanged(existing, incoming) {
			return OutcomeUnchanged, nil
		}
		// A correction to an already-final game may move its date or fix a
		// team name; the recompute below must cover the vacated window too.
		if store.IsTerminal(existing.Status) {
			prior = existing
		}
	}

	if !store.IsTerminal(incoming.Status) {
		if err := i.games.Upsert(ctx, incoming); err != nil {
			return "", err
		}
		return OutcomeUpserted, nil
	}

	// Terminal result: the game row and its details commit first, with the
	// aggregate flag down. The recompute that follows may legitimately fail
	// (calendar or team table gaps); reconcile picks those up later.
	incoming.PointsApplied = false
	goals, penalties, officials := detailsFromReport(report)
	if err := i.games.UpsertWithDetails(ctx, incoming, goals, penalties, officials); err != nil {
		return "", err
	}

	if err := i.points.RecomputeCorrection(ctx, prior, incoming); err != nil {
		if errors.Is(err, service.ErrMissingDimDate) || errors.Is(err, service.ErrUnknownTeam) {
			i.log.Warnf("[ingest] ⚠️ Points deferred for game %d: %v", report.GameID, err)
			return OutcomeUpserted, nil
		}
		return "", err
	}
	if err := i.games.SetPointsApplied(ctx, incoming.ID, true); err != nil {
		return "", err
	}
	return OutcomeUpserted, nil
}

// normalizeStatus maps the wire status onto the stored enum. Anything that
// is neither final nor postponed is a live game.
func normalizeStatus(raw string) string {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, "Final"):
		if detectShootout(s) {
			return store.StatusFinalSO
		}
		if detectOvertimePeriods(s) > 0 {
			return store.StatusFinalOT
		}
		return store.StatusFinal
	case strings.EqualFold(s, "Postponed"):
		return store.StatusPostponed
	case s == "":
		return store.StatusScheduled
	default:
		return store.StatusInProgress
	}
}

func gameFromReport(r *Report) *store.Game {
	date := r.Date
	awayScore := r.AwayScore
	homeScore := r.HomeScore
	attendance := r.Attendance

	return &store.Game{
		ExternalID:      r.GameID,
		GameDate:        &date,
		AwayTeam:        r.AwayTeam,
		AwayScore:       &awayScore,
		HomeTeam:        r.HomeTeam,
		HomeScore:       &homeScore,
		Status:          normalizeStatus(r.Status),
		Attendance:      &attendance,
		Arena:           r.Arena,
		AwayShots:       r.AwayShots,
		HomeShots:       r.HomeShots,
		OvertimePeriods: r.OvertimePeriods,
		Shootout:        r.Shootout,
	}
}

func detailsFromReport(r *Report) ([]store.Goal, []store.Penalty, []store.GameOfficial) {
	goals := make([]store.Goal, 0, len(r.Goals))
	for _, g := range r.Goals {
		goals = append(goals, store.Goal{
			GoalNumber:  g.Number,
			Period:      g.Period,
			Team:        g.Team,
			Scorer:      g.Scorer,
			SeasonTotal: g.SeasonTotal,
			Assists:     strings.Join(g.Assists, ", "),
			GameTime:    g.Time,
			PowerPlay:   g.PowerPlay,
			EmptyNet:    g.EmptyNet,
			ShortHanded: g.ShortHanded,
		})
	}

	penalties := make([]store.Penalty, 0, len(r.Penalties))
	for _, p := range r.Penalties {
		penalties = append(penalties, store.Penalty{
			Period:     p.Period,
			Player:     p.Player,
			Team:       p.Team,
			Infraction: p.Infraction,
			GameTime:   p.Time,
		})
	}

	officials := make([]store.GameOfficial, 0, len(r.Referees)+len(r.Linesmen))
	for _, o := range r.Referees {
		officials = append(officials, store.GameOfficial{Role: store.RoleReferee, Name: o.Name, Number: o.Number})
	}
	for _, o := range r.Linesmen {
		officials = append(officials, store.GameOfficial{Role: store.RoleLinesperson, Name: o.Name, Number: o.Number})
	}
	return goals, penalties, officials
}

// gameChanged compares the fields a report can change. CreatedAt,
// UpdatedAt and the bookkeeping flag are deliberately excluded so an
// identical re-ingest is a no-op write.
func gameChanged(existing, incoming *store.Game) bool {
	return !timePtrEqual(existing.GameDate, incoming.GameDate) ||
		existing.SeasonID != incoming.SeasonID ||
		existing.AwayTeam != incoming.AwayTeam ||
		!intPtrEqual(existing.AwayScore, incoming.AwayScore) ||
		existing.HomeTeam != incoming.HomeTeam ||
		!intPtrEqual(existing.HomeScore, incoming.HomeScore) ||
		existing.Status != incoming.Status ||
		!intPtrEqual(existing.Attendance, incoming.Attendance) ||
		existing.Arena != incoming.Arena ||
		!intPtrEqual(existing.AwayShots, incoming.AwayShots) ||
		!intPtrEqual(existing.HomeShots, incoming.HomeShots) ||
		existing.OvertimePeriods != incoming.OvertimePeriods ||
		existing.Shootout != incoming.Shootout
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
