package domain

import (
	"fmt"
	"time"
)

// publishDelay is subtracted from now so a slot is only chosen once its data
// has been published.
const publishDelay = 10 * time.Minute

// LatestWindow returns the most recent announcement slot at or before
// now minus the publish delay. cadence lists the announcement hours of a day.
func LatestWindow(cadence []int, now time.Time) ForecastWindow {
	effective := now.Add(-publishDelay)
	hour := effective.Hour()

	if len(cadence) == 0 {
		return newWindow(effective, 0)
	}

	first, last := cadence[0], cadence[0]
	for _, h := range cadence[1:] {
		first = min(first, h)
		last = max(last, h)
	}

	if hour < first {
		return newWindow(effective.AddDate(0, 0, -1), last)
	}

	selected := first
	for _, h := range cadence {
		if h <= hour && h > selected {
			selected = h
		}
	}
	return newWindow(effective, selected)
}

func newWindow(day time.Time, hour int) ForecastWindow {
	return ForecastWindow{
		IssueDate: day.Format("20060102"),
		IssueTime: fmt.Sprintf("%02d00", hour),
	}
}
