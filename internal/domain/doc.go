// Package domain models Korea Meteorological Administration (KMA) forecast data
// and the pure computations needed to turn a date and a place into a Weather
// summary.
//
// # Data Sources
//
// Two KMA services on the public data portal (apis.data.go.kr) are consumed:
//
//	Short-range forecast (VilageFcstInfoService_2.0/getVilageFcst):
//	  addressed by a 5 km grid cell (nx, ny), published eight times a day
//	  at 02, 05, 08, 11, 14, 17, 20 and 23 KST, covering roughly four days.
//	Mid-range forecast (MidFcstInfoService/getMidTa, getMidLandFcst):
//	  addressed by a region code, published at 06 and 18 KST, covering
//	  days 4 through 10 after the announcement.
//
// # Grid Conventions
//
// The short-range grid is a Lambert Conformal Conic projection with standard
// parallels at 30N and 60N, origin 38N 126E at cell (43, 136), 5 km spacing and
// an earth radius of 6371.00877 km. Cells are rounded to nearest via
// floor(x + 0.5). Seoul City Hall maps to (60, 127). See [ConvertGrid].
//
// # Announcement Windows
//
// A forecast is requested by its announcement slot ("base_date"/"base_time" for
// the short range, "tmFc" for the mid range). Data for a slot appears a few
// minutes after the hour, so the calculation subtracts ten minutes from now
// before picking the latest slot, rolling back to the previous day's last slot
// before the first announcement. See [LatestWindow].
//
// # Short-range Categories
//
//	TMN  daily minimum temperature (C), decimal string, published once per day
//	TMX  daily maximum temperature (C), decimal string, published once per day
//	TMP  hourly temperature (C)
//	POP  probability of precipitation (%)
//	SKY  sky state code
//
// The reference time of day is 12:00. Only SKY codes 6-8 (mostly cloudy) and
// 9-10 (overcast) are distinguished; every other code reads as clear.
//
// # Mid-range Fields
//
// The mid-range services flatten day offsets into field names:
//
//	taMin4 .. taMin10, taMax4 .. taMax10     temperature (C)
//	rnSt4Pm .. rnSt7Pm, rnSt8 .. rnSt10      probability of precipitation (%)
//	wf4Pm .. wf7Pm, wf8 .. wf10              sky phrase, e.g. "구름많고 비"
//
// Offsets 4-7 carry separate morning and afternoon values; the afternoon one is
// used. [MidtermFieldTable] turns this naming scheme into an indexed lookup.
//
// # Fallbacks
//
// Resolution never fails. Missing or malformed upstream data yields the
// monthly climate normal from [ClimateTable] with no rain and a clear sky,
// tagged with [SourceClimateDefault].
package domain
