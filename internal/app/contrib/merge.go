// internal/app/contrib/merge.go
package contrib

import (
	"github.com/mionacs/ayycode/internal/domain/models"
)

// MergeInput maps each platform to its series for the requested window.
// A nil entry means that platform produced nothing and is skipped.
type MergeInput map[models.Platform]*models.ServiceSeries

// normalizeSamples re-normalizes one platform's samples to the target range:
// samples outside [start, end] are dropped, and dates in range the platform
// did not report are filled with count 0. At this stage "never fetched" and
// "fetched and zero" are the same thing; the provider resolves that
// distinction before the merge ever sees the data.
func normalizeSamples(series models.ServiceSeries, start, end string) ([]models.ContributionDay, error) {
	start, end, err := EnsureRangeOrder(start, end)
	if err != nil {
		return nil, err
	}

	values := make(map[string]int, len(series.Samples))
	for _, sample := range series.Samples {
		date := sample.Date
		if len(date) > 10 {
			date = date[:10]
		}
		if date < start || date > end {
			continue
		}
		values[date] = sample.Count
	}

	dates, err := GenerateRange(start, end)
	if err != nil {
		return nil, err
	}

	out := make([]models.ContributionDay, len(dates))
	for i, date := range dates {
		out[i] = models.ContributionDay{Date: date, Count: values[date]}
	}
	return out, nil
}

// Merge combines per-platform series into one series spanning exactly
// [start, end]. Output is chronological, one sample per calendar day, and
// each sample's Total equals the sum of its Sources. Platforms missing from
// the input simply contribute zero to every day; the merged series never has
// gaps. Merge is pure: the same inputs always produce the same output.
func Merge(input MergeInput, start, end string) (models.ContributionSeries, error) {
	start, end, err := EnsureRangeOrder(start, end)
	if err != nil {
		return models.ContributionSeries{}, err
	}

	dates, err := GenerateRange(start, end)
	if err != nil {
		return models.ContributionSeries{}, err
	}

	samples := make([]models.ContributionSample, len(dates))
	index := make(map[string]int, len(dates))
	for i, date := range dates {
		samples[i] = models.ContributionSample{
			Date:    date,
			Sources: map[models.Platform]int{},
		}
		index[date] = i
	}

	for _, platform := range models.AllPlatforms() {
		series, ok := input[platform]
		if !ok || series == nil {
			continue
		}

		normalized, err := normalizeSamples(*series, start, end)
		if err != nil {
			return models.ContributionSeries{}, err
		}

		for _, day := range normalized {
			i, ok := index[day.Date]
			if !ok {
				continue
			}
			samples[i].Sources[platform] += day.Count
			samples[i].Total += day.Count
		}
	}

	return models.ContributionSeries{
		StartDate: start,
		EndDate:   end,
		Samples:   samples,
	}, nil
}
