package domain

import "context"

// Geocoder turns a free-text place name into a location.
type Geocoder interface {
	// Geocode returns the best match for query, or nil when nothing matched.
	Geocode(ctx context.Context, query string) (*Place, error)
}

// ShortTermSource fetches short-range forecast rows for a grid cell.
type ShortTermSource interface {
	FetchShortTerm(ctx context.Context, cell GridCell, window ForecastWindow) ([]ShortTermItem, error)
}

// MidtermSource fetches mid-range forecast records for a region. The two
// payloads are independent and may be fetched concurrently.
type MidtermSource interface {
	FetchMidtermTemperature(ctx context.Context, regionCode string, window ForecastWindow) (MidtermRecord, error)
	FetchMidtermCondition(ctx context.Context, regionCode string, window ForecastWindow) (MidtermRecord, error)
}
