package leaguestat

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientFetchGame(t *testing.T) {
	var gotPath, gotClientCode, gotGameID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotClientCode = r.URL.Query().Get("client_code")
		gotGameID = r.URL.Query().Get("game_id")
		fmt.Fprint(w, reportHTML(reportLines))
	}))
	defer server.Close()

	client := NewClient(server.URL, "ahl", time.Second)
	report, err := client.FetchGame(context.Background(), 1024502)
	require.NoError(t, err)

	require.Equal(t, "/text-game-report.php", gotPath)
	require.Equal(t, "ahl", gotClientCode)
	require.Equal(t, "1024502", gotGameID)

	require.Equal(t, 1024502, report.GameID)
	require.Equal(t, "Rochester Americans", report.AwayTeam)
	require.Equal(t, "Toronto Marlies", report.HomeTeam)
	require.Equal(t, "Final", report.Status)
}

func TestClientFetchGameSentinels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("game_id") {
		case "1":
			fmt.Fprint(w, reportHTML([]string{`{"error": "No such game"}`}))
		default:
			fmt.Fprint(w, reportHTML([]string{"This game is not available."}))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "ahl", time.Second)

	_, err := client.FetchGame(context.Background(), 1)
	require.ErrorIs(t, err, ErrNoGame)

	_, err = client.FetchGame(context.Background(), 2)
	require.ErrorIs(t, err, ErrNotYetPlayed)
}

func TestClientFetchGameServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	_, err := client.FetchGame(context.Background(), 42)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status 502")
}
