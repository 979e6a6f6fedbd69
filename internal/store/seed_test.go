package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fortuna/boreas/internal/season"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return db
}

func countRows(t *testing.T, db *Database, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.DB().Model(model).Count(&n).Error)
	return n
}

func TestSeedLeague(t *testing.T) {
	db := newTestDatabase(t)

	created, err := db.SeedLeague()
	require.NoError(t, err)
	want := 2 + 4 + 3*len(seedTeams) + len(season.Definitions())
	require.Equal(t, want, created)

	require.EqualValues(t, 2, countRows(t, db, &Conference{}))
	require.EqualValues(t, 4, countRows(t, db, &Division{}))
	require.EqualValues(t, len(seedTeams), countRows(t, db, &Franchise{}))
	require.EqualValues(t, len(seedTeams), countRows(t, db, &Team{}))
	require.EqualValues(t, len(seedTeams), countRows(t, db, &Arena{}))
	require.EqualValues(t, len(season.Definitions()), countRows(t, db, &Season{}))

	// A team resolves through its division to the right conference.
	var team Team
	require.NoError(t, db.DB().Where("name = ?", "Coachella Valley Firebirds").First(&team).Error)
	require.NotNil(t, team.DivisionID)
	var division Division
	require.NoError(t, db.DB().First(&division, *team.DivisionID).Error)
	require.Equal(t, "Pacific", division.Name)
	var conference Conference
	require.NoError(t, db.DB().First(&conference, division.ConferenceID).Error)
	require.Equal(t, "Western", conference.Name)

	// Exactly one season carries the current flag, and it is the newest.
	var current []Season
	require.NoError(t, db.DB().Where("current_yn = ?", true).Find(&current).Error)
	require.Len(t, current, 1)
	defs := season.Definitions()
	require.Equal(t, defs[len(defs)-1].ID, current[0].ID)
}

func TestSeedLeagueIsIdempotent(t *testing.T) {
	db := newTestDatabase(t)

	_, err := db.SeedLeague()
	require.NoError(t, err)
	before := countRows(t, db, &Team{})

	created, err := db.SeedLeague()
	require.NoError(t, err)
	require.Zero(t, created)
	require.Equal(t, before, countRows(t, db, &Team{}))
}
