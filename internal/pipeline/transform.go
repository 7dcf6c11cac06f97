package pipeline

import (
	"context"

	"github.com/couchcryptid/forecast-resolver/internal/domain"
	"github.com/google/uuid"
)

// RequestResolver answers a validated weather request.
type RequestResolver interface {
	ResolveRequest(ctx context.Context, req domain.WeatherRequest) (domain.ResolvedWeather, error)
}

// WeatherTransformer implements Transformer by resolving each request message.
type WeatherTransformer struct {
	resolver RequestResolver
}

// NewTransformer creates a WeatherTransformer backed by resolver.
func NewTransformer(resolver RequestResolver) *WeatherTransformer {
	return &WeatherTransformer{resolver: resolver}
}

// Transform decodes a request, resolves it and serializes the answer. Requests
// without an ID or message key are assigned a UUIDv7. Errors mean the request
// itself is invalid; upstream trouble is absorbed by the resolver.
func (t *WeatherTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseWeatherRequest(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	if req.RequestID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return domain.OutputEvent{}, err
		}
		req.RequestID = id.String()
	}

	resolved, err := t.resolver.ResolveRequest(ctx, req)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	return domain.SerializeResolvedWeather(resolved)
}
