package wikipedia

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the English Wikipedia host arena pages live on.
const DefaultBaseURL = "https://en.wikipedia.org"

// ErrNoCoordinates marks a page without a coordinate pair, including
// pages that do not exist.
var ErrNoCoordinates = errors.New("no coordinates on page")

// Client reads arena coordinates off Wikipedia pages.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(15 * time.Second)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")

	return &Client{http: client}
}

// FetchCoordinates looks up the page named after the arena and reads the
// first coordinate pair on it. Spaces become underscores, the way wiki
// URLs spell titles.
func (c *Client) FetchCoordinates(ctx context.Context, name string) (float64, float64, error) {
	page := strings.ReplaceAll(name, " ", "_")
	res, err := c.http.R().
		SetContext(ctx).
		Get("/wiki/" + url.PathEscape(page))
	if err != nil {
		return 0, 0, fmt.Errorf("fetching page for %q: %w", name, err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return 0, 0, fmt.Errorf("%w: %s", ErrNoCoordinates, name)
	}
	if res.StatusCode() != http.StatusOK {
		return 0, 0, fmt.Errorf("fetching page for %q: unexpected status %d", name, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return 0, 0, fmt.Errorf("parsing page for %q: %w", name, err)
	}

	latText := doc.Find("span.latitude").First().Text()
	lonText := doc.Find("span.longitude").First().Text()
	if latText == "" || lonText == "" {
		return 0, 0, fmt.Errorf("%w: %s", ErrNoCoordinates, name)
	}

	lat, err := ParseDMS(latText)
	if err != nil {
		return 0, 0, fmt.Errorf("latitude of %q: %w", name, err)
	}
	lon, err := ParseDMS(lonText)
	if err != nil {
		return 0, 0, fmt.Errorf("longitude of %q: %w", name, err)
	}
	return lat, lon, nil
}

// ParseDMS converts a coordinate like 43°9′15″N to decimal degrees.
// Minutes and seconds are optional, as is the hemisphere letter; south
// and west come out negative. A plain decimal value passes through.
func ParseDMS(value string) (float64, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, fmt.Errorf("empty coordinate")
	}

	sign := 1.0
	switch {
	case strings.HasSuffix(v, "S"), strings.HasSuffix(v, "W"):
		sign = -1.0
		v = strings.TrimSpace(v[:len(v)-1])
	case strings.HasSuffix(v, "N"), strings.HasSuffix(v, "E"):
		v = strings.TrimSpace(v[:len(v)-1])
	}

	if !strings.Contains(v, "°") {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing coordinate %q: %w", value, err)
		}
		return sign * f, nil
	}

	degPart, rest, _ := strings.Cut(v, "°")
	deg, err := strconv.ParseFloat(strings.TrimSpace(degPart), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing coordinate %q: %w", value, err)
	}
	total := deg

	minPart, rest, _ := strings.Cut(rest, "′")
	if minPart = strings.TrimSpace(minPart); minPart != "" {
		min, err := strconv.ParseFloat(minPart, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing coordinate %q: %w", value, err)
		}
		total += min / 60
	}

	secPart, _, _ := strings.Cut(rest, "″")
	if secPart = strings.TrimSpace(secPart); secPart != "" {
		sec, err := strconv.ParseFloat(secPart, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing coordinate %q: %w", value, err)
		}
		total += sec / 3600
	}

	return sign * total, nil
}
