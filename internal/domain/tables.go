package domain

import (
	"errors"
	"fmt"
)

// Tables bundles the reference data a resolver works from. Values are
// treated as read-only once handed to a resolver.
type Tables struct {
	ShortTermCadence     []int // announcement hours of the short-range forecast
	MidtermCadence       []int // announcement hours of the mid-range forecast
	ShortTermHorizonDays int   // last day offset served by the short-range forecast
	Climate              ClimateTable
	Regions              RegionTable
	MidtermFields        MidtermFieldTable
	DefaultPlace         Place
}

// DefaultTables returns the KMA reference data. Each call builds fresh maps
// and slices, so callers may modify the result freely.
func DefaultTables() Tables {
	return Tables{
		ShortTermCadence:     []int{2, 5, 8, 11, 14, 17, 20, 23},
		MidtermCadence:       []int{6, 18},
		ShortTermHorizonDays: 4,
		Climate:              DefaultClimateTable(),
		Regions:              DefaultRegionTable(),
		MidtermFields:        DefaultMidtermFieldTable(),
		DefaultPlace: Place{
			Longitude:   126.978652258823,
			Latitude:    37.56682420267543,
			AddressName: "서울 중구 태평로1가 31",
		},
	}
}

// Validate checks that the tables can drive a resolution.
func (t Tables) Validate() error {
	if err := validateCadence("short-term", t.ShortTermCadence); err != nil {
		return err
	}
	if err := validateCadence("midterm", t.MidtermCadence); err != nil {
		return err
	}
	if t.ShortTermHorizonDays < 0 {
		return errors.New("short-term horizon must not be negative")
	}
	if len(t.MidtermFields) == 0 {
		return errors.New("midterm field table is empty")
	}
	return nil
}

func validateCadence(name string, hours []int) error {
	if len(hours) == 0 {
		return fmt.Errorf("%s cadence is empty", name)
	}
	for _, h := range hours {
		if h < 0 || h > 23 {
			return fmt.Errorf("%s cadence hour %d out of range", name, h)
		}
	}
	return nil
}
