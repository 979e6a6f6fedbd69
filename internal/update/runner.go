package update

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fortuna/boreas/internal/ingest/leaguestat"
	"github.com/fortuna/boreas/internal/store"
	"github.com/fortuna/boreas/internal/store/repository"
)

// Runner executes update specs against the report ingester, recording
// each sweep in ingest_runs.
type Runner struct {
	ingester  *leaguestat.Ingester
	highWater HighWaterSource
	runs      *repository.RunRepository
	log       *logrus.Logger
}

func NewRunner(db *store.Database, ingester *leaguestat.Ingester, log *logrus.Logger) *Runner {
	return &Runner{
		ingester:  ingester,
		highWater: repository.NewGameRepository(db),
		runs:      repository.NewRunRepository(db),
		log:       log,
	}
}

// Run executes one sweep, reporting progress via the Reporter if provided.
// Individual game failures are counted and skipped; the sweep itself only
// fails on setup errors, storage errors or cancellation.
func (r *Runner) Run(ctx context.Context, spec Spec, reporter Reporter) (*store.IngestRun, error) {
	startID, endID, err := r.resolveRange(ctx, spec)
	if err != nil {
		if reporter != nil {
			reporter.OnRunError(err)
		}
		return nil, err
	}

	run := &store.IngestRun{
		RunID:     uuid.NewString(),
		Kind:      string(spec.DeriveKind()),
		Lookback:  spec.Lookback,
		Span:      spec.Span,
		StartID:   startID,
		EndID:     endID,
		Status:    store.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if !spec.DryRun {
		if err := r.runs.Create(ctx, run); err != nil {
			return nil, fmt.Errorf("recording run: %w", err)
		}
	}

	if reporter != nil {
		reporter.OnRunStart(spec, startID, endID)
	}

	total := endID - startID + 1
	for id := startID; id <= endID; id++ {
		index := id - startID

		// The provider gets a breather before every fetch.
		if spec.Delay > 0 {
			select {
			case <-ctx.Done():
				return r.finish(ctx, run, spec, ctx.Err(), reporter)
			case <-time.After(spec.Delay):
			}
		} else if err := ctx.Err(); err != nil {
			return r.finish(ctx, run, spec, err, reporter)
		}

		if reporter != nil {
			reporter.OnGameStart(id, index, total)
		}

		outcome, err := r.ingest(ctx, spec, id)
		run.Scanned++
		if err != nil {
			run.Failed++
			run.LastError = err.Error()
			r.log.Warnf("[update] ⚠️ Game %d failed: %v", id, err)
			continue
		}

		switch outcome {
		case leaguestat.OutcomeUpserted:
			run.Upserted++
		case leaguestat.OutcomeUnchanged:
			run.Unchanged++
		case leaguestat.OutcomeScheduled:
			run.Scheduled++
		case leaguestat.OutcomeNoData:
			run.NoData++
		}

		if reporter != nil {
			reporter.OnGameProcessed(id, outcome)
			if (index+1)%10 == 0 {
				reporter.OnProgress(fmt.Sprintf("Processed %d of %d", index+1, total), index+1, total)
			}
		}
	}

	return r.finish(ctx, run, spec, nil, reporter)
}

func (r *Runner) ingest(ctx context.Context, spec Spec, gameID int) (leaguestat.Outcome, error) {
	if spec.DryRun {
		return r.ingester.Preview(ctx, gameID)
	}
	return r.ingester.IngestGameID(ctx, gameID)
}

// resolveRange turns a spec into an inclusive id range. A single-game
// spec is a range of one; otherwise the start comes from the spec or from
// the stored high water mark minus the lookback.
func (r *Runner) resolveRange(ctx context.Context, spec Spec) (int, int, error) {
	if spec.GameID > 0 {
		return spec.GameID, spec.GameID, nil
	}

	start := spec.StartID
	if start <= 0 {
		hw, err := r.highWater.MostRecentExternalID(ctx)
		if err != nil {
			return 0, 0, fmt.Errorf("reading high water mark: %w", err)
		}
		if hw == 0 {
			return 0, 0, fmt.Errorf("no games stored yet; pass an explicit start id")
		}
		start = hw - spec.Lookback
	}

	span := spec.Span
	if span <= 0 {
		span = 1
	}
	return start, start + span - 1, nil
}

// finish closes out the run row. The row is finalized even when the sweep
// was cancelled, so the bookkeeping write runs on a detached context.
func (r *Runner) finish(ctx context.Context, run *store.IngestRun, spec Spec, cause error, reporter Reporter) (*store.IngestRun, error) {
	now := time.Now().UTC()
	run.FinishedAt = &now
	if cause != nil {
		run.Status = store.RunStatusFailed
		run.LastError = cause.Error()
	} else {
		run.Status = store.RunStatusCompleted
	}

	if !spec.DryRun {
		if err := r.runs.Update(context.WithoutCancel(ctx), run); err != nil {
			if reporter != nil {
				reporter.OnRunError(err)
			}
			return run, fmt.Errorf("finalizing run: %w", err)
		}
	}

	if cause != nil {
		if reporter != nil {
			reporter.OnRunError(cause)
		}
		return run, cause
	}

	if reporter != nil {
		reporter.OnRunComplete(run)
	}
	return run, nil
}
