package wikipedia

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/boreas/internal/store"
	"github.com/fortuna/boreas/internal/store/repository"
)

const arenaPage = `<!DOCTYPE html>
<html>
<body>
<span class="geo-dms"><span class="latitude">43°9′15″N</span> <span class="longitude">77°36′32″W</span></span>
</body>
</html>`

func TestParseDMS(t *testing.T) {
	cases := []struct {
		value string
		want  float64
	}{
		{"43°9′15″N", 43.154166666666665},
		{"77°36′32″W", -77.60888888888888},
		{"33°40′47″S", -33.67972222222222},
		{"41°46.08′N", 41.768},
		{"43°N", 43},
		{"43.1156", 43.1156},
		{"43.1156N", 43.1156},
	}

	for _, tc := range cases {
		got, err := ParseDMS(tc.value)
		require.NoError(t, err, "value %q", tc.value)
		require.InDelta(t, tc.want, got, 1e-9, "value %q", tc.value)
	}
}

func TestParseDMSRejectsGarbage(t *testing.T) {
	_, err := ParseDMS("")
	require.Error(t, err)

	_, err = ParseDMS("somewhere east of here")
	require.Error(t, err)
}

func TestFetchCoordinates(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, arenaPage)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	lat, lon, err := client.FetchCoordinates(context.Background(), "Blue Cross Arena")
	require.NoError(t, err)

	require.Equal(t, "/wiki/Blue_Cross_Arena", gotPath)
	require.InDelta(t, 43.1541666, lat, 1e-6)
	require.InDelta(t, -77.6088888, lon, 1e-6)
}

func TestFetchCoordinatesMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wiki/No_Spans_Arena":
			fmt.Fprint(w, "<html><body><p>renovations ongoing</p></body></html>")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, _, err := client.FetchCoordinates(context.Background(), "No Spans Arena")
	require.ErrorIs(t, err, ErrNoCoordinates)

	_, _, err = client.FetchCoordinates(context.Background(), "Demolished Arena")
	require.ErrorIs(t, err, ErrNoCoordinates)
}

func TestUpdateMissing(t *testing.T) {
	db, err := store.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	_, err = db.SeedLeague()
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/wiki/Blue_Cross_Arena" {
			fmt.Fprint(w, arenaPage)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	log := logrus.New()
	log.SetOutput(io.Discard)

	ingester := NewIngester(db, NewClient(server.URL), log)
	updated, err := ingester.UpdateMissing(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, updated)

	arenas := repository.NewArenaRepository(db)
	missing, err := arenas.ListMissingCoordinates(context.Background())
	require.NoError(t, err)
	for _, arena := range missing {
		require.NotEqual(t, "Blue Cross Arena", arena.Name)
	}
}
