package domain

import (
	"encoding/json"
	"time"
)

// Sky condition labels.
const (
	SkyClear        = "clear"
	SkyMostlyCloudy = "mostly cloudy"
	SkyOvercast     = "overcast"
)

// WeatherSource records where a Weather value came from.
type WeatherSource string

const (
	SourceShortTerm      WeatherSource = "short_term"
	SourceMidterm        WeatherSource = "midterm"
	SourceClimateDefault WeatherSource = "climate_default"
)

// Weather is the normalized daily summary for one date and place.
type Weather struct {
	MinTemperature int           `json:"min_temperature"`
	MaxTemperature int           `json:"max_temperature"`
	RainPercent    int           `json:"rain_percent"`
	SkyCondition   string        `json:"sky_condition"`
	Source         WeatherSource `json:"source"`
}

// IsDefault reports whether the value is a climate fallback rather than a forecast.
func (w Weather) IsDefault() bool {
	return w.Source == SourceClimateDefault
}

// GridCell is a short-range forecast grid index.
type GridCell struct {
	NX int `json:"nx"`
	NY int `json:"ny"`
}

// RegionCodePair holds the mid-range region codes for one area. Temperature
// and condition forecasts use different region granularity.
type RegionCodePair struct {
	Temperature string `json:"temperature"`
	Condition   string `json:"condition"`
}

// ForecastWindow identifies an announcement slot.
type ForecastWindow struct {
	IssueDate string `json:"issue_date"` // yyyyMMdd
	IssueTime string `json:"issue_time"` // HH00
}

// TmFc returns the slot in the yyyyMMddHHmm form used by the mid-range services.
func (w ForecastWindow) TmFc() string {
	return w.IssueDate + w.IssueTime
}

// Place is a geocoded location.
type Place struct {
	Longitude   float64 `json:"longitude"`
	Latitude    float64 `json:"latitude"`
	AddressName string  `json:"address_name"`
	PlaceName   string  `json:"place_name,omitempty"`
}

// ShortTermItem is one row of a short-range forecast payload.
type ShortTermItem struct {
	BaseDate  string `json:"baseDate"`
	BaseTime  string `json:"baseTime"`
	Category  string `json:"category"`
	FcstDate  string `json:"fcstDate"`
	FcstTime  string `json:"fcstTime"`
	FcstValue string `json:"fcstValue"`
	NX        int    `json:"nx"`
	NY        int    `json:"ny"`
}

// MidtermRecord is the first item of a mid-range payload, keyed by field name.
type MidtermRecord map[string]json.RawMessage

// DaysBetween counts whole calendar days from now to target, both read in loc.
// Dates in the past yield negative values.
func DaysBetween(now, target time.Time, loc *time.Location) int {
	ny, nm, nd := now.In(loc).Date()
	ty, tm, td := target.In(loc).Date()
	from := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	to := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
