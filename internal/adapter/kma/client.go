package kma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/forecast-resolver/internal/observability"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

// resultOK is the envelope result code of a successful call.
const resultOK = "00"

var (
	// ErrNoData is returned when the service answered but carried no usable items.
	ErrNoData = errors.New("kma: no data")
	// ErrCircuitOpen is returned while an endpoint's breaker rejects calls.
	ErrCircuitOpen = errors.New("kma: circuit breaker open")
)

// BreakerSettings tunes the per-endpoint circuit breakers.
type BreakerSettings struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
}

// DefaultBreakerSettings returns the breaker tuning used in production.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
	}
}

// Client talks to the KMA short-range and mid-range forecast services on
// apis.data.go.kr. It implements domain.ShortTermSource and domain.MidtermSource.
// Calls are not retried; each endpoint sits behind its own circuit breaker.
type Client struct {
	serviceKey string
	http       *resty.Client
	breakers   map[string]*gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a KMA client rooted at baseURL.
func NewClient(serviceKey, baseURL string, timeout time.Duration, breaker BreakerSettings, metrics *observability.Metrics, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	httpClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("kma response",
			"path", resp.Request.RawRequest.URL.Path,
			"status", resp.StatusCode(),
			"duration", resp.Time(),
			"bytes", len(resp.Body()),
		)
		return nil
	})

	breakers := make(map[string]*gobreaker.CircuitBreaker, 3)
	for _, source := range []string{sourceShortTerm, sourceMidtermTemperature, sourceMidtermCondition} {
		breakers[source] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "kma_" + source,
			MaxRequests: breaker.MaxRequests,
			Interval:    breaker.Interval,
			Timeout:     breaker.Timeout,
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			},
		})
	}

	return &Client{
		serviceKey: serviceKey,
		http:       httpClient,
		breakers:   breakers,
		metrics:    metrics,
		logger:     logger,
	}
}

// call performs one GET against path and returns the items of the envelope.
// Transport failures and non-2xx statuses count against the endpoint's
// breaker; a well-formed "no data" answer does not.
func (c *Client) call(ctx context.Context, source, path string, params map[string]string) ([]json.RawMessage, error) {
	start := time.Now()
	items, err := c.execute(ctx, source, path, params)
	c.metrics.UpstreamDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, ErrNoData):
		c.metrics.UpstreamRequests.WithLabelValues(source, "empty").Inc()
	case err != nil:
		c.metrics.UpstreamRequests.WithLabelValues(source, "error").Inc()
	default:
		c.metrics.UpstreamRequests.WithLabelValues(source, "success").Inc()
	}
	return items, err
}

func (c *Client) execute(ctx context.Context, source, path string, params map[string]string) ([]json.RawMessage, error) {
	query := map[string]string{
		"serviceKey": c.serviceKey,
		"pageNo":     "1",
		"dataType":   "JSON",
	}
	for k, v := range params {
		query[k] = v
	}

	result, err := c.breakers[source].Execute(func() (interface{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(query).
			Get(path)
		if err != nil {
			return nil, fmt.Errorf("%s request: %w", source, err)
		}
		if !resp.IsSuccess() {
			return nil, fmt.Errorf("%s request: status %d", source, resp.StatusCode())
		}
		return resp.Body(), nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s: %v", ErrCircuitOpen, source, err)
	}
	if err != nil {
		return nil, err
	}

	return decodeItems(source, result.([]byte))
}

// Envelope shared by all apis.data.go.kr forecast services. The body is
// decoded only after the header reports success, since failed calls omit it
// or send an empty string for items.
type envelopeHeader struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
	} `json:"response"`
}

type envelopeBody struct {
	Response struct {
		Body struct {
			Items struct {
				Item []json.RawMessage `json:"item"`
			} `json:"items"`
			TotalCount int `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

func decodeItems(source string, body []byte) ([]json.RawMessage, error) {
	var head envelopeHeader
	if err := json.Unmarshal(body, &head); err != nil {
		return nil, fmt.Errorf("%s decode header: %w", source, err)
	}
	if code := head.Response.Header.ResultCode; code != resultOK {
		return nil, fmt.Errorf("%w: %s result %s %s", ErrNoData, source, code, head.Response.Header.ResultMsg)
	}

	var env envelopeBody
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%s decode body: %w", source, err)
	}
	items := env.Response.Body.Items.Item
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s returned no items", ErrNoData, source)
	}
	return items, nil
}
