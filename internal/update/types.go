package update

import (
	"context"
	"time"

	"github.com/fortuna/boreas/internal/ingest/leaguestat"
	"github.com/fortuna/boreas/internal/store"
)

// HighWaterSource yields the newest game id a sweep should anchor on. The
// game repository satisfies it with the highest stored id; tests substitute
// fixed values.
type HighWaterSource interface {
	MostRecentExternalID(ctx context.Context) (int, error)
}

// Kind enumerates the supported sweep variants.
type Kind string

const (
	KindRange  Kind = "range"
	KindSingle Kind = "single"
)

// Spec describes one sweep over provider game ids. With no explicit
// start the runner rewinds Lookback ids from the newest stored game and
// walks Span ids forward from there.
type Spec struct {
	Lookback int
	Span     int
	StartID  int
	GameID   int
	DryRun   bool
	Delay    time.Duration
}

// DeriveKind returns the sweep variant the spec describes.
func (s Spec) DeriveKind() Kind {
	if s.GameID > 0 {
		return KindSingle
	}
	return KindRange
}

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnRunStart(spec Spec, startID, endID int)
	OnGameStart(gameID int, index int, total int)
	OnGameProcessed(gameID int, outcome leaguestat.Outcome)
	OnProgress(message string, current int, total int)
	OnRunComplete(run *store.IngestRun)
	OnRunError(err error)
}
