package kma

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/couchcryptid/forecast-resolver/internal/domain"
)

const (
	sourceShortTerm          = "short_term"
	sourceMidtermTemperature = "midterm_temperature"
	sourceMidtermCondition   = "midterm_condition"

	pathShortTerm          = "/VilageFcstInfoService_2.0/getVilageFcst"
	pathMidtermTemperature = "/MidFcstInfoService/getMidTa"
	pathMidtermCondition   = "/MidFcstInfoService/getMidLandFcst"

	// A full issuance for one cell is roughly 900 rows (12 categories, 3 days, hourly).
	shortTermRows = "1000"
	midtermRows   = "10"
)

// FetchShortTerm returns the short-range rows issued at window for cell.
func (c *Client) FetchShortTerm(ctx context.Context, cell domain.GridCell, window domain.ForecastWindow) ([]domain.ShortTermItem, error) {
	raw, err := c.call(ctx, sourceShortTerm, pathShortTerm, map[string]string{
		"numOfRows": shortTermRows,
		"base_date": window.IssueDate,
		"base_time": window.IssueTime,
		"nx":        strconv.Itoa(cell.NX),
		"ny":        strconv.Itoa(cell.NY),
	})
	if err != nil {
		return nil, err
	}

	items := make([]domain.ShortTermItem, 0, len(raw))
	for i, r := range raw {
		var item domain.ShortTermItem
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, fmt.Errorf("%s decode item %d: %w", sourceShortTerm, i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// FetchMidtermTemperature returns the getMidTa record for a temperature region.
func (c *Client) FetchMidtermTemperature(ctx context.Context, regionCode string, window domain.ForecastWindow) (domain.MidtermRecord, error) {
	return c.fetchMidterm(ctx, sourceMidtermTemperature, pathMidtermTemperature, regionCode, window)
}

// FetchMidtermCondition returns the getMidLandFcst record for a condition region.
func (c *Client) FetchMidtermCondition(ctx context.Context, regionCode string, window domain.ForecastWindow) (domain.MidtermRecord, error) {
	return c.fetchMidterm(ctx, sourceMidtermCondition, pathMidtermCondition, regionCode, window)
}

func (c *Client) fetchMidterm(ctx context.Context, source, path, regionCode string, window domain.ForecastWindow) (domain.MidtermRecord, error) {
	raw, err := c.call(ctx, source, path, map[string]string{
		"numOfRows": midtermRows,
		"regId":     regionCode,
		"tmFc":      window.TmFc(),
	})
	if err != nil {
		return nil, err
	}

	var record domain.MidtermRecord
	if err := json.Unmarshal(raw[0], &record); err != nil {
		return nil, fmt.Errorf("%s decode record: %w", source, err)
	}
	return record, nil
}
