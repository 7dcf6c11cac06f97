package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/forecast-resolver/internal/domain"
)

// MaxLeadDays is the furthest day ahead a request may ask about.
const MaxLeadDays = 10

// ParseDate validates a request date and returns it as midnight in the
// resolver's time zone. The date must fall between today and MaxLeadDays ahead.
func (r *Resolver) ParseDate(date string) (time.Time, error) {
	target, err := time.ParseInLocation(time.DateOnly, date, r.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %v", domain.ErrInvalidRequest, date, err)
	}
	days := domain.DaysBetween(r.clock.Now(), target, r.loc)
	if days < 0 || days > MaxLeadDays {
		return time.Time{}, fmt.Errorf("%w: date %s is %d days from today, must be within 0 to %d",
			domain.ErrInvalidRequest, date, days, MaxLeadDays)
	}
	return target, nil
}

// ResolveRequest validates req and resolves it. Only invalid requests fail.
func (r *Resolver) ResolveRequest(ctx context.Context, req domain.WeatherRequest) (domain.ResolvedWeather, error) {
	if err := req.Validate(); err != nil {
		return domain.ResolvedWeather{}, err
	}
	target, err := r.ParseDate(req.Date)
	if err != nil {
		return domain.ResolvedWeather{}, err
	}

	return domain.ResolvedWeather{
		RequestID:  req.RequestID,
		Date:       req.Date,
		Place:      req.Place,
		Weather:    r.Resolve(ctx, target, req.Place),
		ResolvedAt: r.clock.Now().In(r.loc),
	}, nil
}
