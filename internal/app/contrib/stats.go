// internal/app/contrib/stats.go
package contrib

import (
	"math"
	"time"

	"github.com/mionacs/ayycode/internal/domain/models"
)

// consistencyWindowDays caps the trailing window the consistency score is
// computed over. It matches the heatmap's "last 100 days" card.
const consistencyWindowDays = 100

// ComputeStats derives streak and consistency figures from a merged series.
//
// Only samples dated on or before today count: a range padded out to Dec 31
// is full of future zero-days, and those must not break a streak or drag
// down the consistency score. A series with no past samples (brand-new user)
// yields all zeros.
func ComputeStats(series models.ContributionSeries, now time.Time) models.ActivityStats {
	today := ToISODate(now)

	past := series.Samples
	for i, sample := range series.Samples {
		if sample.Date > today {
			past = series.Samples[:i]
			break
		}
	}

	if len(past) == 0 {
		return models.ActivityStats{}
	}

	longest, run := 0, 0
	for _, sample := range past {
		if sample.Total > 0 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	windowDays := len(past)
	if windowDays > consistencyWindowDays {
		windowDays = consistencyWindowDays
	}

	activeDays := 0
	for _, sample := range past[len(past)-windowDays:] {
		if sample.Total > 0 {
			activeDays++
		}
	}

	return models.ActivityStats{
		LongestStreak:      longest,
		ConsistencyScore:   int(math.Round(float64(activeDays) / float64(windowDays) * 100)),
		ActiveDaysInWindow: activeDays,
		WindowDays:         windowDays,
	}
}
