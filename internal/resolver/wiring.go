package resolver

import (
	"log/slog"

	"github.com/couchcryptid/forecast-resolver/internal/adapter/kakao"
	"github.com/couchcryptid/forecast-resolver/internal/adapter/kma"
	"github.com/couchcryptid/forecast-resolver/internal/config"
	"github.com/couchcryptid/forecast-resolver/internal/domain"
	"github.com/couchcryptid/forecast-resolver/internal/observability"
	"github.com/jonboulle/clockwork"
)

// NewFromConfig builds a Resolver with the geocoder and forecast clients
// enabled by cfg. A missing Kakao key means the default place; a missing KMA
// key means every answer is a climate default.
func NewFromConfig(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) (*Resolver, error) {
	var geocoder domain.Geocoder
	if cfg.KakaoEnabled {
		var g domain.Geocoder = kakao.NewClient(cfg.KakaoAPIKey, cfg.KakaoBaseURL, cfg.GeocoderTimeout, metrics, logger)
		if cfg.GeocoderCacheSize > 0 {
			g = kakao.NewCachedGeocoder(g, cfg.GeocoderCacheSize, metrics)
		}
		geocoder = g
		metrics.GeocodeEnabled.Set(1)
		logger.Info("kakao geocoding enabled", "cache_size", cfg.GeocoderCacheSize, "timeout", cfg.GeocoderTimeout)
	} else {
		logger.Info("kakao geocoding disabled, using default place")
	}

	var shortTerm domain.ShortTermSource
	var midterm domain.MidtermSource
	if cfg.ForecastsEnabled() {
		client := kma.NewClient(cfg.KMAServiceKey, cfg.KMABaseURL, cfg.KMATimeout, kma.DefaultBreakerSettings(), metrics, logger)
		shortTerm, midterm = client, client
		logger.Info("kma forecasts enabled", "base_url", cfg.KMABaseURL, "timeout", cfg.KMATimeout)
	} else {
		logger.Warn("KMA_SERVICE_KEY not set, every answer is a climate default")
	}

	return New(geocoder, shortTerm, midterm, domain.DefaultTables(), clock, cfg.Location, logger, metrics)
}
