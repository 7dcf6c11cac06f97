package kakao

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/forecast-resolver/internal/domain"
	"github.com/couchcryptid/forecast-resolver/internal/observability"
)

const upstreamSource = "geocode"

// Client implements domain.Geocoder using the Kakao Local keyword search API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Kakao geocoding client.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode returns the top keyword-search match for query, or nil when Kakao
// has no match.
func (c *Client) Geocode(ctx context.Context, query string) (*domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	params := url.Values{
		"query": {query},
		"size":  {"1"},
	}
	fullURL := c.baseURL + "/v2/local/search/keyword.json?" + params.Encode()

	start := time.Now()
	place, err := c.doRequest(ctx, fullURL)
	c.metrics.UpstreamDuration.WithLabelValues(upstreamSource).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.UpstreamRequests.WithLabelValues(upstreamSource, "error").Inc()
	case place == nil:
		c.metrics.UpstreamRequests.WithLabelValues(upstreamSource, "empty").Inc()
		c.logger.Debug("no geocoding match", "query", query)
	default:
		c.metrics.UpstreamRequests.WithLabelValues(upstreamSource, "success").Inc()
	}
	return place, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (*domain.Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("keyword search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("kakao API error: status %d: %s", resp.StatusCode, body)
	}

	var kakaoResp response
	if err := json.NewDecoder(resp.Body).Decode(&kakaoResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(kakaoResp.Documents) == 0 {
		return nil, nil
	}

	d := kakaoResp.Documents[0]
	lon, err := parseCoordinate(d.X)
	if err != nil {
		return nil, fmt.Errorf("parse longitude %q: %w", d.X, err)
	}
	lat, err := parseCoordinate(d.Y)
	if err != nil {
		return nil, fmt.Errorf("parse latitude %q: %w", d.Y, err)
	}

	return &domain.Place{
		Longitude:   lon,
		Latitude:    lat,
		AddressName: d.AddressName,
		PlaceName:   d.PlaceName,
	}, nil
}

// Kakao Local API response types.

type response struct {
	Documents []document `json:"documents"`
	Meta      meta       `json:"meta"`
}

type document struct {
	AddressName     string `json:"address_name"`
	RoadAddressName string `json:"road_address_name"`
	PlaceName       string `json:"place_name"`
	X               string `json:"x"` // longitude
	Y               string `json:"y"` // latitude
}

type meta struct {
	TotalCount int  `json:"total_count"`
	IsEnd      bool `json:"is_end"`
}

func parseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}
