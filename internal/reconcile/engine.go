package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fortuna/boreas/internal/ingest/leaguestat"
	"github.com/fortuna/boreas/internal/service"
	"github.com/fortuna/boreas/internal/store"
	"github.com/fortuna/boreas/internal/store/repository"
)

// Metrics summarizes one reconcile pass.
type Metrics struct {
	Examined     int
	Repaired     int
	StillBlocked int
	Failed       int
}

// Engine re-applies work that ingestion had to defer: standings points
// blocked on calendar or team gaps, and shot totals missing from games
// stored before shot parsing existed.
type Engine struct {
	games    *repository.GameRepository
	dates    *repository.DateRepository
	points   *service.PointsService
	ingester *leaguestat.Ingester
	log      *logrus.Logger
}

func NewEngine(db *store.Database, ingester *leaguestat.Ingester, log *logrus.Logger) *Engine {
	return &Engine{
		games:    repository.NewGameRepository(db),
		dates:    repository.NewDateRepository(db),
		points:   service.NewPointsService(db, log),
		ingester: ingester,
		log:      log,
	}
}

// ReconcilePoints retries the aggregates for terminal games whose points
// never got applied. Games still missing their calendar day or team stay
// blocked for the next pass.
func (e *Engine) ReconcilePoints(ctx context.Context) (Metrics, error) {
	var m Metrics

	games, err := e.games.ListUnapplied(ctx)
	if err != nil {
		return m, err
	}

	for _, game := range games {
		m.Examined++

		// The season column has to be filled in before the recompute,
		// otherwise the season-scoped fold cannot see this game.
		if err := e.backfillSeason(ctx, game); err != nil {
			return m, err
		}

		err := e.points.RecomputeGame(ctx, game)
		switch {
		case err == nil:
			if err := e.games.SetPointsApplied(ctx, game.ID, true); err != nil {
				return m, err
			}
			m.Repaired++
		case errors.Is(err, service.ErrMissingDimDate), errors.Is(err, service.ErrUnknownTeam):
			e.log.Warnf("[reconcile] ⚠️ Game %d still blocked: %v", game.ExternalID, err)
			m.StillBlocked++
		default:
			e.log.Warnf("[reconcile] ⚠️ Game %d failed: %v", game.ExternalID, err)
			m.Failed++
		}
	}

	if m.Repaired > 0 {
		e.log.Infof("[reconcile] ✓ Applied points for %d of %d deferred games", m.Repaired, m.Examined)
	}
	return m, nil
}

// backfillSeason fills in the season a game was stored without, which
// happens when it was ingested before its calendar was loaded.
func (e *Engine) backfillSeason(ctx context.Context, game *store.Game) error {
	if game.SeasonID != "" || game.GameDate == nil {
		return nil
	}
	day, err := e.dates.FindByDate(ctx, *game.GameDate)
	if err != nil || day == nil {
		return err
	}
	game.SeasonID = day.Season
	return e.games.Upsert(ctx, game)
}

// BackfillShots refetches reports for finished games stored without shot
// totals and fills them in.
func (e *Engine) BackfillShots(ctx context.Context, delay time.Duration) (Metrics, error) {
	var m Metrics

	games, err := e.games.ListMissingShots(ctx)
	if err != nil {
		return m, err
	}

	for _, game := range games {
		m.Examined++

		if delay > 0 {
			select {
			case <-ctx.Done():
				return m, ctx.Err()
			case <-time.After(delay):
			}
		} else if err := ctx.Err(); err != nil {
			return m, err
		}

		homeShots, awayShots, err := e.ingester.FetchShots(ctx, game.ExternalID)
		if err != nil {
			e.log.Warnf("[reconcile] ⚠️ Shots for game %d: %v", game.ExternalID, err)
			m.Failed++
			continue
		}
		if homeShots == nil || awayShots == nil {
			e.log.Warnf("[reconcile] ⊘ Report for game %d carries no shot totals", game.ExternalID)
			m.StillBlocked++
			continue
		}

		if err := e.games.UpdateShots(ctx, game.ExternalID, homeShots, awayShots); err != nil {
			return m, err
		}
		e.log.Infof("[reconcile] ✓ Shots for game %d: %d home, %d away", game.ExternalID, *homeShots, *awayShots)
		m.Repaired++
	}
	return m, nil
}
