package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRequest marks a weather request that failed validation.
var ErrInvalidRequest = errors.New("invalid weather request")

var validate = validator.New()

// WeatherRequest asks for the weather of one date at one place.
type WeatherRequest struct {
	RequestID string `json:"request_id" validate:"omitempty,max=64"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Place     string `json:"place" validate:"max=200"`
}

// Validate checks the request shape.
func (r WeatherRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// ResolvedWeather is the published answer to a WeatherRequest.
type ResolvedWeather struct {
	RequestID  string    `json:"request_id"`
	Date       string    `json:"date"`
	Place      string    `json:"place"`
	Weather    Weather   `json:"weather"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// ParseWeatherRequest decodes and validates a request message. A missing
// request ID is filled from the message key.
func ParseWeatherRequest(raw RawEvent) (WeatherRequest, error) {
	var req WeatherRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return WeatherRequest{}, fmt.Errorf("%w: decode: %v", ErrInvalidRequest, err)
	}
	if req.RequestID == "" {
		req.RequestID = string(raw.Key)
	}
	if err := req.Validate(); err != nil {
		return WeatherRequest{}, err
	}
	return req, nil
}

// SerializeResolvedWeather marshals a result into an output event keyed by request ID.
func SerializeResolvedWeather(result ResolvedWeather) (OutputEvent, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize resolved weather: %w", err)
	}
	return OutputEvent{
		Key:   []byte(result.RequestID),
		Value: data,
		Headers: map[string]string{
			"request_id":  result.RequestID,
			"source":      string(result.Weather.Source),
			"resolved_at": result.ResolvedAt.Format(time.RFC3339),
		},
	}, nil
}
