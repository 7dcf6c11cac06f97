package domain

import "time"

// ClimateTable holds monthly average temperatures used when no forecast is available.
type ClimateTable struct {
	Monthly  map[time.Month]int
	Fallback int // used for months missing from Monthly
}

// DefaultClimateTable returns monthly normals for the Seoul area (C).
func DefaultClimateTable() ClimateTable {
	return ClimateTable{
		Monthly: map[time.Month]int{
			time.January:   -2,
			time.February:  0,
			time.March:     6,
			time.April:     12,
			time.May:       18,
			time.June:      22,
			time.July:      25,
			time.August:    26,
			time.September: 21,
			time.October:   15,
			time.November:  7,
			time.December:  0,
		},
		Fallback: 13,
	}
}

// Temperature returns the average temperature for a month.
func (c ClimateTable) Temperature(month time.Month) int {
	if t, ok := c.Monthly[month]; ok {
		return t
	}
	return c.Fallback
}

// Default returns the fallback Weather for a month: the climate average as both
// bounds, no rain, clear sky.
func (c ClimateTable) Default(month time.Month) Weather {
	t := c.Temperature(month)
	return Weather{
		MinTemperature: t,
		MaxTemperature: t,
		RainPercent:    0,
		SkyCondition:   SkyClear,
		Source:         SourceClimateDefault,
	}
}
