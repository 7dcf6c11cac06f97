package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/forecast-resolver/internal/domain"
	"github.com/couchcryptid/forecast-resolver/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kst = time.FixedZone("KST", 9*60*60)

// 2025-06-10 09:30 KST: short-range window 0800, mid-range window 0600.
var testNow = time.Date(2025, time.June, 10, 9, 30, 0, 0, kst)

// --- fakes ---

type fakeGeocoder struct {
	place *domain.Place
	err   error
	query string
}

func (f *fakeGeocoder) Geocode(_ context.Context, query string) (*domain.Place, error) {
	f.query = query
	return f.place, f.err
}

type fakeShortTerm struct {
	items  []domain.ShortTermItem
	err    error
	cell   domain.GridCell
	window domain.ForecastWindow
	calls  int
}

func (f *fakeShortTerm) FetchShortTerm(_ context.Context, cell domain.GridCell, window domain.ForecastWindow) ([]domain.ShortTermItem, error) {
	f.calls++
	f.cell = cell
	f.window = window
	return f.items, f.err
}

type fakeMidterm struct {
	mu             sync.Mutex
	temperature    domain.MidtermRecord
	condition      domain.MidtermRecord
	temperatureErr error
	conditionErr   error
	regions        []string
	window         domain.ForecastWindow
}

func (f *fakeMidterm) FetchMidtermTemperature(_ context.Context, region string, window domain.ForecastWindow) (domain.MidtermRecord, error) {
	f.record(region, window)
	return f.temperature, f.temperatureErr
}

func (f *fakeMidterm) FetchMidtermCondition(_ context.Context, region string, window domain.ForecastWindow) (domain.MidtermRecord, error) {
	f.record(region, window)
	return f.condition, f.conditionErr
}

func (f *fakeMidterm) record(region string, window domain.ForecastWindow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regions = append(f.regions, region)
	f.window = window
}

// --- helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestResolver(t *testing.T, g domain.Geocoder, st domain.ShortTermSource, mt domain.MidtermSource) (*Resolver, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	r, err := New(g, st, mt, domain.DefaultTables(), clockwork.NewFakeClockAt(testNow), kst, discardLogger(), metrics)
	require.NoError(t, err)
	return r, metrics
}

func daysAhead(n int) time.Time {
	return time.Date(2025, time.June, 10+n, 0, 0, 0, 0, kst)
}

func stItem(date, hour, category, value string) domain.ShortTermItem {
	return domain.ShortTermItem{FcstDate: date, FcstTime: hour, Category: category, FcstValue: value}
}

func midRecord(t *testing.T, body string) domain.MidtermRecord {
	t.Helper()
	var rec domain.MidtermRecord
	require.NoError(t, json.Unmarshal([]byte(body), &rec))
	return rec
}

var juneDefault = domain.Weather{
	MinTemperature: 22,
	MaxTemperature: 22,
	RainPercent:    0,
	SkyCondition:   domain.SkyClear,
	Source:         domain.SourceClimateDefault,
}

var gangnam = &domain.Place{Latitude: 37.4979, Longitude: 127.0276, AddressName: "서울 강남구 역삼동 858"}

// --- construction ---

func TestNew_RejectsInvalidTables(t *testing.T) {
	tables := domain.DefaultTables()
	tables.ShortTermCadence = nil

	_, err := New(nil, nil, nil, tables, clockwork.NewFakeClock(), kst, discardLogger(), observability.NewMetricsForTesting())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short-term cadence")
}

func TestNew_RequiresLocation(t *testing.T) {
	_, err := New(nil, nil, nil, domain.DefaultTables(), clockwork.NewFakeClock(), nil, discardLogger(), observability.NewMetricsForTesting())
	require.Error(t, err)
}

// --- short-term path ---

func TestResolve_ShortTerm(t *testing.T) {
	st := &fakeShortTerm{items: []domain.ShortTermItem{
		stItem("20250611", "0600", domain.CategoryMinTemperature, "18.0"),
		stItem("20250611", "1200", domain.CategoryRainPercent, "30"),
		stItem("20250611", "1200", domain.CategorySky, "9"),
		stItem("20250611", "1500", domain.CategoryMaxTemperature, "27.0"),
		stItem("20250612", "1200", domain.CategoryRainPercent, "90"),
	}}
	geo := &fakeGeocoder{place: gangnam}
	r, metrics := newTestResolver(t, geo, st, nil)

	w := r.Resolve(context.Background(), daysAhead(1), "강남역")

	assert.Equal(t, domain.Weather{
		MinTemperature: 18,
		MaxTemperature: 27,
		RainPercent:    30,
		SkyCondition:   domain.SkyOvercast,
		Source:         domain.SourceShortTerm,
	}, w)
	assert.Equal(t, "강남역", geo.query)
	assert.Equal(t, domain.GridCell{NX: 61, NY: 125}, st.cell)
	assert.Equal(t, domain.ForecastWindow{IssueDate: "20250610", IssueTime: "0800"}, st.window)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Resolutions.WithLabelValues(termShortTerm, "short_term")), 0)
}

func TestResolve_SourceAbsenceYieldsClimateDefault(t *testing.T) {
	st := &fakeShortTerm{err: errors.New("upstream down")}
	r, metrics := newTestResolver(t, &fakeGeocoder{place: gangnam}, st, nil)

	w := r.Resolve(context.Background(), daysAhead(2), "some valid place")

	assert.Equal(t, juneDefault, w)
	assert.True(t, w.IsDefault())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Resolutions.WithLabelValues(termShortTerm, "climate_default")), 0)
}

func TestResolve_TodayUsesShortTerm(t *testing.T) {
	st := &fakeShortTerm{items: []domain.ShortTermItem{
		stItem("20250610", "1200", domain.CategoryTemperature, "20"),
	}}
	r, _ := newTestResolver(t, nil, st, nil)

	w := r.Resolve(context.Background(), daysAhead(0), "")
	assert.Equal(t, 20, w.MinTemperature)
	assert.Equal(t, 20, w.MaxTemperature)
	assert.Equal(t, domain.SourceShortTerm, w.Source)
}

func TestResolve_GeocodeAbsenceUsesDefaultPlace(t *testing.T) {
	tests := []struct {
		name     string
		geocoder domain.Geocoder
	}{
		{"nil geocoder", nil},
		{"geocoder error", &fakeGeocoder{err: errors.New("timeout")}},
		{"no match", &fakeGeocoder{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := &fakeShortTerm{items: []domain.ShortTermItem{}}
			r, _ := newTestResolver(t, tc.geocoder, st, nil)

			r.Resolve(context.Background(), daysAhead(1), "어딘가")
			assert.Equal(t, domain.GridCell{NX: 60, NY: 127}, st.cell)
		})
	}
}

func TestResolve_HorizonBoundary(t *testing.T) {
	st := &fakeShortTerm{items: []domain.ShortTermItem{}}
	mt := &fakeMidterm{}
	r, _ := newTestResolver(t, nil, st, mt)

	r.Resolve(context.Background(), daysAhead(4), "")
	assert.Equal(t, 1, st.calls, "offset 4 is short-term")
	assert.Empty(t, mt.regions)

	r.Resolve(context.Background(), daysAhead(5), "")
	assert.Equal(t, 1, st.calls, "offset 5 is mid-term")
	assert.Len(t, mt.regions, 2)
}

func TestResolve_ShortTermPayloadMissingTargetDay(t *testing.T) {
	st := &fakeShortTerm{items: []domain.ShortTermItem{
		stItem("20250613", "1200", domain.CategoryTemperature, "26"),
		stItem("20250613", "1200", domain.CategorySky, "10"),
	}}
	r, metrics := newTestResolver(t, nil, st, nil)

	w := r.Resolve(context.Background(), daysAhead(4), "")

	assert.Equal(t, juneDefault, w)
	assert.True(t, w.IsDefault())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Resolutions.WithLabelValues(termShortTerm, "climate_default")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.Resolutions.WithLabelValues(termShortTerm, "short_term")), 0)
}

func TestResolve_NilShortTermSource(t *testing.T) {
	r, _ := newTestResolver(t, nil, nil, nil)
	assert.Equal(t, juneDefault, r.Resolve(context.Background(), daysAhead(1), ""))
}

// --- mid-term path ---

func TestResolve_Midterm(t *testing.T) {
	mt := &fakeMidterm{
		temperature: midRecord(t, `{"regId":"11H20201","taMin5":21,"taMax5":29}`),
		condition:   midRecord(t, `{"regId":"11H20000","rnSt5Pm":60,"wf5Pm":"구름많고 비"}`),
	}
	geo := &fakeGeocoder{place: &domain.Place{Latitude: 35.1796, Longitude: 129.0756, AddressName: "부산 해운대구 우동"}}
	r, metrics := newTestResolver(t, geo, nil, mt)

	w := r.Resolve(context.Background(), daysAhead(5), "해운대")

	assert.Equal(t, domain.Weather{
		MinTemperature: 21,
		MaxTemperature: 29,
		RainPercent:    60,
		SkyCondition:   domain.SkyMostlyCloudy,
		Source:         domain.SourceMidterm,
	}, w)
	assert.ElementsMatch(t, []string{"11H20201", "11H20000"}, mt.regions)
	assert.Equal(t, "202506100600", mt.window.TmFc())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Resolutions.WithLabelValues(termMidterm, "midterm")), 0)
}

func TestResolve_MidtermUnknownAreaUsesCapitalRegion(t *testing.T) {
	mt := &fakeMidterm{}
	geo := &fakeGeocoder{place: &domain.Place{AddressName: "Tokyo Shibuya"}}
	r, _ := newTestResolver(t, geo, nil, mt)

	r.Resolve(context.Background(), daysAhead(6), "Shibuya")
	assert.ElementsMatch(t, []string{"11B10101", "11B00000"}, mt.regions)
}

func TestResolve_MidtermEitherFetchFailsYieldsDefault(t *testing.T) {
	temperature := midRecord(t, `{"taMin8":20,"taMax8":28}`)
	condition := midRecord(t, `{"rnSt8":10,"wf8":"맑음"}`)

	tests := []struct {
		name string
		mt   *fakeMidterm
	}{
		{"temperature fails", &fakeMidterm{temperatureErr: errors.New("boom"), condition: condition}},
		{"condition fails", &fakeMidterm{temperature: temperature, conditionErr: errors.New("boom")}},
		{"both fail", &fakeMidterm{temperatureErr: errors.New("a"), conditionErr: errors.New("b")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestResolver(t, nil, nil, tc.mt)
			assert.Equal(t, juneDefault, r.Resolve(context.Background(), daysAhead(8), ""))
		})
	}
}

func TestResolve_MidtermOutOfRangeOffset(t *testing.T) {
	mt := &fakeMidterm{
		temperature: midRecord(t, `{"taMin10":20,"taMax10":28}`),
		condition:   midRecord(t, `{"rnSt10":10,"wf10":"맑음"}`),
	}
	r, _ := newTestResolver(t, nil, nil, mt)

	assert.Equal(t, juneDefault, r.Resolve(context.Background(), daysAhead(11), ""))
	assert.Equal(t, domain.SourceMidterm, r.Resolve(context.Background(), daysAhead(10), "").Source)
}

func TestResolve_TargetInOtherZoneIsReadInResolverZone(t *testing.T) {
	st := &fakeShortTerm{items: []domain.ShortTermItem{
		stItem("20250611", "1200", domain.CategoryTemperature, "24"),
	}}
	r, _ := newTestResolver(t, nil, st, nil)

	// 2025-06-10 20:00 UTC is 2025-06-11 05:00 KST.
	w := r.Resolve(context.Background(), time.Date(2025, time.June, 10, 20, 0, 0, 0, time.UTC), "")
	assert.Equal(t, 24, w.MaxTemperature)
}

func TestResolve_ConcurrentUse(t *testing.T) {
	st := &safeShortTerm{items: []domain.ShortTermItem{
		stItem("20250611", "1200", domain.CategoryTemperature, "20"),
	}}
	r, _ := newTestResolver(t, nil, st, nil)

	var wg sync.WaitGroup
	results := make([]domain.Weather, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.Resolve(context.Background(), daysAhead(1), "")
		}()
	}
	wg.Wait()

	for _, w := range results {
		assert.Equal(t, 20, w.MinTemperature)
	}
}

type safeShortTerm struct {
	items []domain.ShortTermItem
}

func (s *safeShortTerm) FetchShortTerm(context.Context, domain.GridCell, domain.ForecastWindow) ([]domain.ShortTermItem, error) {
	return s.items, nil
}

func TestCheckReadiness(t *testing.T) {
	r, _ := newTestResolver(t, nil, nil, nil)
	assert.NoError(t, r.CheckReadiness(context.Background()))
	assert.Equal(t, kst, r.Location())
}
