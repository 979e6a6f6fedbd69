package leaguestat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the hockeytech cluster serving AHL text game reports.
const DefaultBaseURL = "https://lscluster.hockeytech.com/game_reports"

const (
	defaultClientCode = "ahl"
	defaultTimeout    = 10 * time.Second
)

// Client fetches text game reports from the LeagueStat endpoint.
type Client struct {
	http       *resty.Client
	clientCode string
}

// NewClient creates a report client. Empty arguments fall back to the
// production AHL endpoint.
func NewClient(baseURL, clientCode string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if clientCode == "" {
		clientCode = defaultClientCode
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")

	return &Client{http: client, clientCode: clientCode}
}

// FetchGame retrieves and parses the report for one game id. It passes
// through ErrNoGame and ErrNotYetPlayed untouched so callers can branch on
// them.
func (c *Client) FetchGame(ctx context.Context, gameID int) (*Report, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("client_code", c.clientCode).
		SetQueryParam("game_id", strconv.Itoa(gameID)).
		Get("/text-game-report.php")
	if err != nil {
		return nil, fmt.Errorf("fetching game %d: %w", gameID, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetching game %d: unexpected status %d", gameID, res.StatusCode())
	}

	report, err := ParseReport(string(res.Body()))
	if err != nil {
		if errors.Is(err, ErrNoGame) || errors.Is(err, ErrNotYetPlayed) {
			return nil, err
		}
		return nil, fmt.Errorf("parsing game %d: %w", gameID, err)
	}
	report.GameID = gameID
	return report, nil
}
