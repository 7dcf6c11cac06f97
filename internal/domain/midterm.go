package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MidtermFields names the payload fields holding one day offset's values.
type MidtermFields struct {
	MinTemperature string
	MaxTemperature string
	RainPercent    string
	Sky            string
}

// MidtermFieldTable maps a day offset to its field names.
type MidtermFieldTable map[int]MidtermFields

// DefaultMidtermFieldTable returns the KMA field naming for offsets 4 to 10.
// Offsets 4-7 are split into morning and afternoon values; the afternoon
// ("Pm") fields are used.
func DefaultMidtermFieldTable() MidtermFieldTable {
	table := make(MidtermFieldTable, 7)
	for offset := 4; offset <= 10; offset++ {
		suffix := ""
		if offset <= 7 {
			suffix = "Pm"
		}
		table[offset] = MidtermFields{
			MinTemperature: fmt.Sprintf("taMin%d", offset),
			MaxTemperature: fmt.Sprintf("taMax%d", offset),
			RainPercent:    fmt.Sprintf("rnSt%d%s", offset, suffix),
			Sky:            fmt.Sprintf("wf%d%s", offset, suffix),
		}
	}
	return table
}

// ExtractMidterm builds the Weather for target from the mid-range temperature
// and condition payloads. A nil payload, an offset missing from fields, or a
// missing or malformed field yields the climate default for the month of now.
func ExtractMidterm(now, target time.Time, temperature, condition MidtermRecord, fields MidtermFieldTable, climate ClimateTable) Weather {
	fallback := climate.Default(now.Month())
	if temperature == nil || condition == nil {
		return fallback
	}

	names, ok := fields[DaysBetween(now, target, now.Location())]
	if !ok {
		return fallback
	}

	minTemp, ok := temperature.Int(names.MinTemperature)
	if !ok {
		return fallback
	}
	maxTemp, ok := temperature.Int(names.MaxTemperature)
	if !ok {
		return fallback
	}
	rain, ok := condition.Int(names.RainPercent)
	if !ok {
		return fallback
	}
	phrase, ok := condition.String(names.Sky)
	if !ok {
		return fallback
	}

	return Weather{
		MinTemperature: minTemp,
		MaxTemperature: maxTemp,
		RainPercent:    clampPercent(rain),
		SkyCondition:   SkyLabelFromPhrase(phrase),
		Source:         SourceMidterm,
	}
}

// SkyLabelFromPhrase maps a mid-range sky phrase such as "구름많고 비" onto the
// sky condition labels.
func SkyLabelFromPhrase(phrase string) string {
	phrase = strings.TrimSpace(phrase)
	switch {
	case strings.HasPrefix(phrase, "구름많"):
		return SkyMostlyCloudy
	case strings.HasPrefix(phrase, "흐"):
		return SkyOvercast
	default:
		return SkyClear
	}
}

// Int reads a numeric field. Numbers may arrive as JSON numbers or strings.
func (r MidtermRecord) Int(field string) (int, bool) {
	raw, ok := r[field]
	if !ok {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		n = json.Number(s)
	}
	return parseWhole(n.String())
}

// String reads a text field.
func (r MidtermRecord) String(field string) (string, bool) {
	raw, ok := r[field]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
