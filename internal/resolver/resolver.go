// Package resolver answers "what will the weather be on this date at this
// place" from the KMA forecasts, falling back to climate averages whenever an
// upstream step has nothing usable.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/forecast-resolver/internal/domain"
	"github.com/couchcryptid/forecast-resolver/internal/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

const (
	termShortTerm = "short_term"
	termMidterm   = "midterm"
)

// Resolver orchestrates geocoding, forecast fetches and extraction. It holds
// no mutable state and is safe for concurrent use.
type Resolver struct {
	geocoder  domain.Geocoder
	shortTerm domain.ShortTermSource
	midterm   domain.MidtermSource
	tables    domain.Tables
	clock     clockwork.Clock
	loc       *time.Location
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Resolver. Any collaborator may be nil: a nil geocoder always
// uses the default place and a nil forecast source is treated as absent.
func New(
	geocoder domain.Geocoder,
	shortTerm domain.ShortTermSource,
	midterm domain.MidtermSource,
	tables domain.Tables,
	clock clockwork.Clock,
	loc *time.Location,
	logger *slog.Logger,
	metrics *observability.Metrics,
) (*Resolver, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("resolver tables: %w", err)
	}
	if loc == nil {
		return nil, fmt.Errorf("resolver: location is required")
	}
	return &Resolver{
		geocoder:  geocoder,
		shortTerm: shortTerm,
		midterm:   midterm,
		tables:    tables,
		clock:     clock,
		loc:       loc,
		logger:    logger,
		metrics:   metrics,
	}, nil
}

// Location returns the time zone dates are interpreted in.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// CheckReadiness always succeeds: a resolver with no reachable upstream still
// answers with climate defaults.
func (r *Resolver) CheckReadiness(_ context.Context) error {
	return nil
}

// Resolve returns the weather for target at place. It never fails; any
// missing upstream data yields the climate default for the current month.
func (r *Resolver) Resolve(ctx context.Context, target time.Time, place string) domain.Weather {
	start := r.clock.Now()
	now := start.In(r.loc)
	target = target.In(r.loc)

	term := termMidterm
	if domain.DaysBetween(now, target, r.loc) <= r.tables.ShortTermHorizonDays {
		term = termShortTerm
	}

	location := r.locate(ctx, place)

	var w domain.Weather
	if term == termShortTerm {
		w = r.resolveShortTerm(ctx, now, target, location)
	} else {
		w = r.resolveMidterm(ctx, now, target, location)
	}

	r.metrics.Resolutions.WithLabelValues(term, string(w.Source)).Inc()
	r.metrics.ResolutionDuration.WithLabelValues(term).Observe(r.clock.Since(start).Seconds())
	r.logger.Debug("weather resolved",
		"date", target.Format(time.DateOnly),
		"place", place,
		"term", term,
		"source", w.Source,
	)
	return w
}

// locate geocodes place, substituting the default place on any absence.
func (r *Resolver) locate(ctx context.Context, place string) domain.Place {
	if r.geocoder == nil {
		return r.tables.DefaultPlace
	}
	found, err := r.geocoder.Geocode(ctx, place)
	if err != nil {
		r.logger.Warn("geocoding failed, using default place", "place", place, "error", err)
		return r.tables.DefaultPlace
	}
	if found == nil {
		r.logger.Debug("no geocoding match, using default place", "place", place)
		return r.tables.DefaultPlace
	}
	return *found
}

func (r *Resolver) resolveShortTerm(ctx context.Context, now, target time.Time, place domain.Place) domain.Weather {
	if r.shortTerm == nil {
		return r.tables.Climate.Default(now.Month())
	}

	cell := domain.ConvertGrid(place.Latitude, place.Longitude)
	window := domain.LatestWindow(r.tables.ShortTermCadence, now)

	items, err := r.shortTerm.FetchShortTerm(ctx, cell, window)
	if err != nil {
		r.logger.Warn("short-term forecast unavailable",
			"nx", cell.NX,
			"ny", cell.NY,
			"base_date", window.IssueDate,
			"base_time", window.IssueTime,
			"error", err,
		)
		items = nil
	}
	return domain.ExtractShortTerm(now, target, items, r.tables.Climate)
}

func (r *Resolver) resolveMidterm(ctx context.Context, now, target time.Time, place domain.Place) domain.Weather {
	fallback := r.tables.Climate.Default(now.Month())
	if r.midterm == nil {
		return fallback
	}

	codes := r.tables.Regions.Resolve(domain.AreaPrefix(place.AddressName))
	window := domain.LatestWindow(r.tables.MidtermCadence, now)

	var temperature, condition domain.MidtermRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := r.midterm.FetchMidtermTemperature(gctx, codes.Temperature, window)
		if err != nil {
			return fmt.Errorf("temperature %s: %w", codes.Temperature, err)
		}
		temperature = rec
		return nil
	})
	g.Go(func() error {
		rec, err := r.midterm.FetchMidtermCondition(gctx, codes.Condition, window)
		if err != nil {
			return fmt.Errorf("condition %s: %w", codes.Condition, err)
		}
		condition = rec
		return nil
	})
	if err := g.Wait(); err != nil {
		r.logger.Warn("mid-term forecast unavailable", "tm_fc", window.TmFc(), "error", err)
		return fallback
	}

	return domain.ExtractMidterm(now, target, temperature, condition, r.tables.MidtermFields, r.tables.Climate)
}
