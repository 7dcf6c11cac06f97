package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Short-range forecast categories.
const (
	CategoryMinTemperature = "TMN"
	CategoryMaxTemperature = "TMX"
	CategoryTemperature    = "TMP"
	CategoryRainPercent    = "POP"
	CategorySky            = "SKY"
)

// noonTime is the reference forecast time for per-day values.
const noonTime = "1200"

// ExtractShortTerm builds the Weather for target from a short-range payload.
// A nil payload means the fetch failed and yields the climate default for
// the month of now, as does a payload with nothing usable for the target day.
func ExtractShortTerm(now, target time.Time, items []ShortTermItem, climate ClimateTable) Weather {
	if items == nil {
		return climate.Default(now.Month())
	}

	targetDate := target.Format("20060102")
	day := make([]ShortTermItem, 0, len(items))
	for _, item := range items {
		if item.FcstDate == targetDate {
			day = append(day, item)
		}
	}

	noon := make(map[string]string)
	for _, item := range day {
		if item.FcstTime == noonTime {
			noon[item.Category] = item.FcstValue
		}
	}

	minTemp, maxTemp, hasTemps := dailyTemperatures(day, noon)
	rain, hasRain := parseWhole(noon[CategoryRainPercent])
	skyCode, hasSky := parseWhole(noon[CategorySky])
	if !hasTemps && !hasRain && !hasSky {
		return climate.Default(now.Month())
	}

	if !hasTemps {
		minTemp = climate.Temperature(now.Month())
		maxTemp = minTemp
	}
	sky := SkyClear
	if hasSky {
		sky = SkyLabel(skyCode)
	}

	return Weather{
		MinTemperature: minTemp,
		MaxTemperature: maxTemp,
		RainPercent:    clampPercent(rain),
		SkyCondition:   sky,
		Source:         SourceShortTerm,
	}
}

// dailyTemperatures reads TMN/TMX from anywhere in the day. When either is
// missing both fall back to the noon temperature. Reports false when the day
// carries no usable temperature.
func dailyTemperatures(day []ShortTermItem, noon map[string]string) (int, int, bool) {
	minTemp, hasMin := firstValue(day, CategoryMinTemperature)
	maxTemp, hasMax := firstValue(day, CategoryMaxTemperature)
	if hasMin && hasMax {
		return minTemp, maxTemp, true
	}

	if t, ok := parseWhole(noon[CategoryTemperature]); ok {
		return t, t, true
	}
	return 0, 0, false
}

func firstValue(items []ShortTermItem, category string) (int, bool) {
	for _, item := range items {
		if item.Category == category {
			return parseWhole(item.FcstValue)
		}
	}
	return 0, false
}

// SkyLabel maps a short-range SKY code to a sky condition label.
func SkyLabel(code int) string {
	switch code {
	case 6, 7, 8:
		return SkyMostlyCloudy
	case 9, 10:
		return SkyOvercast
	default:
		return SkyClear
	}
}

// parseWhole parses a decimal string and truncates it toward zero.
func parseWhole(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// clampPercent bounds a probability to [0, 100].
func clampPercent(v int) int {
	return min(max(v, 0), 100)
}
