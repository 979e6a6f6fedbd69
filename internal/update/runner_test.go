package update

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/boreas/internal/ingest/leaguestat"
	"github.com/fortuna/boreas/internal/store"
	"github.com/fortuna/boreas/internal/store/repository"
)

func reportDocument(payload ...string) string {
	return "<html>\n<head>\n    <title>Official statistics powered by LeagueStat.com</title>\n</head>\n<body>\n\n    <br clear=\"all\">\n    " +
		strings.Join(payload, "<br />") + "\n</body>\n</html>"
}

func finalReportDocument() string {
	return reportDocument(
		"Rochester Americans 3 at Toronto Marlies 2 - Status: Final",
		"Saturday, May  13, 2023 - Coca-Cola Coliseum",
	)
}

// fakeProvider records every requested id and serves canned bodies,
// defaulting to the no-such-game sentinel.
type fakeProvider struct {
	mu       sync.Mutex
	bodies   map[int]string
	statuses map[int]int
	ids      []int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{bodies: map[int]string{}, statuses: map[int]int{}}
}

func (p *fakeProvider) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.URL.Query().Get("game_id"))
		p.mu.Lock()
		p.ids = append(p.ids, id)
		body, ok := p.bodies[id]
		status := p.statuses[id]
		p.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			return
		}
		if !ok {
			body = reportDocument(`{"error": "No such game"}`)
		}
		fmt.Fprint(w, body)
	}
}

func (p *fakeProvider) requested() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.ids...)
}

// fixedHighWater stands in for the game repository when a test wants a
// known anchor without seeding rows.
type fixedHighWater int

func (f fixedHighWater) MostRecentExternalID(context.Context) (int, error) {
	return int(f), nil
}

type recordingReporter struct {
	startID   int
	endID     int
	processed int
	completed bool
	errs      []error
}

func (r *recordingReporter) OnRunStart(_ Spec, startID, endID int) {
	r.startID = startID
	r.endID = endID
}
func (r *recordingReporter) OnGameStart(int, int, int)               {}
func (r *recordingReporter) OnGameProcessed(int, leaguestat.Outcome) { r.processed++ }
func (r *recordingReporter) OnProgress(string, int, int)             {}
func (r *recordingReporter) OnRunComplete(*store.IngestRun)          { r.completed = true }
func (r *recordingReporter) OnRunError(err error)                    { r.errs = append(r.errs, err) }

func newTestRunner(t *testing.T) (*Runner, *store.Database, *fakeProvider) {
	t.Helper()

	db, err := store.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	provider := newFakeProvider()
	server := httptest.NewServer(provider.handler())
	t.Cleanup(server.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	ingester := leaguestat.NewIngester(db, leaguestat.NewClient(server.URL, "ahl", time.Second), log)
	return NewRunner(db, ingester, log), db, provider
}

func TestRunSweepsDerivedRange(t *testing.T) {
	runner, db, provider := newTestRunner(t)
	ctx := context.Background()

	games := repository.NewGameRepository(db)
	require.NoError(t, games.Upsert(ctx, &store.Game{ExternalID: 9000, Status: store.StatusScheduled}))

	reporter := &recordingReporter{}
	run, err := runner.Run(ctx, Spec{Lookback: 50, Span: 100}, reporter)
	require.NoError(t, err)

	expected := make([]int, 0, 100)
	for id := 8950; id <= 9049; id++ {
		expected = append(expected, id)
	}
	require.Equal(t, expected, provider.requested())

	require.Equal(t, 8950, reporter.startID)
	require.Equal(t, 9049, reporter.endID)
	require.Equal(t, 100, reporter.processed)
	require.True(t, reporter.completed)
	require.Empty(t, reporter.errs)

	require.Equal(t, string(KindRange), run.Kind)
	require.Equal(t, store.RunStatusCompleted, run.Status)
	require.Equal(t, 100, run.Scanned)
	require.Equal(t, 100, run.NoData)
	require.Zero(t, run.Failed)
	require.NotNil(t, run.FinishedAt)

	recent, err := repository.NewRunRepository(db).Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, run.RunID, recent[0].RunID)
	require.Equal(t, store.RunStatusCompleted, recent[0].Status)
}

func TestRunInjectedHighWaterSource(t *testing.T) {
	runner, _, provider := newTestRunner(t)
	runner.highWater = fixedHighWater(12000)

	run, err := runner.Run(context.Background(), Spec{Lookback: 4, Span: 5}, nil)
	require.NoError(t, err)

	require.Equal(t, []int{11996, 11997, 11998, 11999, 12000}, provider.requested())
	require.Equal(t, 11996, run.StartID)
	require.Equal(t, 12000, run.EndID)
}

func TestRunCountsOutcomes(t *testing.T) {
	runner, _, provider := newTestRunner(t)
	ctx := context.Background()

	provider.bodies[9001] = finalReportDocument()
	provider.bodies[9002] = reportDocument("This game is not available.")

	run, err := runner.Run(ctx, Spec{StartID: 9001, Span: 3}, nil)
	require.NoError(t, err)

	require.Equal(t, 3, run.Scanned)
	require.Equal(t, 1, run.Upserted)
	require.Equal(t, 1, run.Scheduled)
	require.Equal(t, 1, run.NoData)
	require.Zero(t, run.Unchanged)

	// The same sweep again changes nothing that is already stored.
	run, err = runner.Run(ctx, Spec{StartID: 9001, Span: 3}, nil)
	require.NoError(t, err)

	require.Equal(t, 2, run.Unchanged)
	require.Equal(t, 1, run.NoData)
	require.Zero(t, run.Upserted)
	require.Zero(t, run.Scheduled)
}

func TestRunSkipsFailedGames(t *testing.T) {
	runner, _, provider := newTestRunner(t)
	ctx := context.Background()

	provider.statuses[9002] = http.StatusInternalServerError

	run, err := runner.Run(ctx, Spec{StartID: 9001, Span: 3}, nil)
	require.NoError(t, err)

	require.Equal(t, store.RunStatusCompleted, run.Status)
	require.Equal(t, 3, run.Scanned)
	require.Equal(t, 1, run.Failed)
	require.Equal(t, 2, run.NoData)
	require.Contains(t, run.LastError, "unexpected status 500")
}

func TestRunSingleGame(t *testing.T) {
	runner, _, provider := newTestRunner(t)
	ctx := context.Background()

	run, err := runner.Run(ctx, Spec{GameID: 777, Span: 32}, nil)
	require.NoError(t, err)

	require.Equal(t, []int{777}, provider.requested())
	require.Equal(t, string(KindSingle), run.Kind)
	require.Equal(t, 777, run.StartID)
	require.Equal(t, 777, run.EndID)
	require.Equal(t, 1, run.Scanned)
}

func TestRunDryRunWritesNothing(t *testing.T) {
	runner, db, provider := newTestRunner(t)
	ctx := context.Background()

	provider.bodies[9001] = finalReportDocument()
	provider.bodies[9002] = reportDocument("This game is not available.")

	run, err := runner.Run(ctx, Spec{StartID: 9001, Span: 2, DryRun: true}, nil)
	require.NoError(t, err)

	require.Equal(t, 1, run.Upserted)
	require.Equal(t, 1, run.Scheduled)

	games := repository.NewGameRepository(db)
	stored, err := games.FindByExternalID(ctx, 9001)
	require.NoError(t, err)
	require.Nil(t, stored)

	recent, err := repository.NewRunRepository(db).Recent(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, recent)
}

func TestRunRequiresHighWaterOrStart(t *testing.T) {
	runner, _, _ := newTestRunner(t)

	_, err := runner.Run(context.Background(), Spec{Lookback: 16, Span: 32}, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no games stored")
}
