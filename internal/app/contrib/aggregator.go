// internal/app/contrib/aggregator.go
package contrib

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mionacs/ayycode/internal/app/system/timeouts"
	"github.com/mionacs/ayycode/internal/domain/models"
)

// maxWindowDays bounds how many days one aggregation call may span, and
// with it how many year documents can be fetched per request. Oversized
// ranges are shrunk from the start, never rejected.
const maxWindowDays = 365

// DefaultMaxAge is the cache freshness window used when the config does
// not override it.
const DefaultMaxAge = 12 * time.Hour

// Options narrows an aggregation to a requested date range. Zero values
// default to the current UTC calendar year.
type Options struct {
	Start string
	End   string
}

// Result is the triple a profile page renders: the merged series, one
// advisory warning per platform that contributed nothing, and the derived
// activity statistics.
type Result struct {
	Series   models.ContributionSeries `json:"series"`
	Warnings []string                  `json:"warnings"`
	Stats    models.ActivityStats      `json:"stats"`
}

// Aggregator fans a range query out to every connected platform's provider,
// merges whatever came back, and computes activity statistics. It has no
// hard failure mode for data availability: every platform failure degrades
// to a warning and a zero contribution, and the profile always renders.
type Aggregator struct {
	providers map[models.Platform]*Provider
	maxAge    time.Duration
	logger    *zap.Logger

	now func() time.Time
}

// NewAggregator builds an Aggregator over the given providers. maxAge <= 0
// falls back to DefaultMaxAge.
func NewAggregator(providers []*Provider, maxAge time.Duration, logger *zap.Logger) *Aggregator {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	byPlatform := make(map[models.Platform]*Provider, len(providers))
	for _, p := range providers {
		byPlatform[p.Platform()] = p
	}
	return &Aggregator{
		providers: byPlatform,
		maxAge:    maxAge,
		logger:    logger,
		now:       time.Now,
	}
}

// Provider returns the provider serving one platform, or nil when none is
// registered. Used by the integrations sync endpoints.
func (a *Aggregator) Provider(platform models.Platform) *Provider {
	return a.providers[platform]
}

// MaxAge returns the cache freshness window in effect.
func (a *Aggregator) MaxAge() time.Duration {
	return a.maxAge
}

// ResolveRange exposes the default-and-clamp range resolution for callers
// that query a single provider directly.
func (a *Aggregator) ResolveRange(opts Options) (start, end string, err error) {
	return a.targetRange(opts)
}

// SeriesForUser aggregates the user's activity over the requested (or
// default) range. See Result for what comes back; err is non-nil only for
// malformed caller-supplied dates.
func (a *Aggregator) SeriesForUser(ctx context.Context, user *models.User, opts Options) (*Result, error) {
	start, end, err := a.targetRange(opts)
	if err != nil {
		return nil, err
	}

	type outcome struct {
		series *models.ServiceSeries
	}
	outcomes := make(map[models.Platform]*outcome, len(a.providers))

	var wg sync.WaitGroup
	for _, platform := range models.AllPlatforms() {
		provider := a.providers[platform]
		identity := user.Connections.Identity(platform)
		if provider == nil || identity == "" {
			continue
		}

		o := &outcome{}
		outcomes[platform] = o

		// Fan out: the five fetches share no state and are dominated by
		// external round-trips. We wait for all of them to settle — a slow
		// platform delays the merge but a failed one never aborts it.
		wg.Add(1)
		go func(provider *Provider, identity string) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
			defer cancel()
			series, err := provider.SeriesForUser(fetchCtx, user.ID, identity, start, end, a.maxAge)
			if err != nil {
				a.logger.Warn("platform series failed",
					zap.String("platform", string(provider.Platform())),
					zap.String("user_id", user.ID.Hex()),
					zap.Error(err))
				return
			}
			o.series = series
		}(provider, identity)
	}
	wg.Wait()

	input := MergeInput{}
	var warnings []string
	for _, platform := range models.AllPlatforms() {
		name := platform.DisplayName()
		o, attempted := outcomes[platform]
		switch {
		case !attempted:
			warnings = append(warnings, name+" not connected.")
		case o.series == nil:
			warnings = append(warnings, name+" contributions unavailable.")
		case len(o.series.Samples) == 0:
			warnings = append(warnings, name+" contributions returned no data for the requested range.")
			input[platform] = o.series
		default:
			input[platform] = o.series
		}
	}

	series, err := Merge(input, start, end)
	if err != nil {
		return nil, err
	}

	return &Result{
		Series:   series,
		Warnings: warnings,
		Stats:    ComputeStats(series, a.now()),
	}, nil
}

// targetRange resolves the requested range (defaulting to the current UTC
// calendar year) and clamps it to maxWindowDays measured backward from the
// end date.
func (a *Aggregator) targetRange(opts Options) (string, string, error) {
	start, end := opts.Start, opts.End
	if start == "" || end == "" {
		defaultStart, defaultEnd := YearBounds(a.now().UTC().Year())
		if start == "" {
			start = defaultStart
		}
		if end == "" {
			end = defaultEnd
		}
	}

	start, end, err := EnsureRangeOrder(start, end)
	if err != nil {
		return "", "", err
	}

	span, err := DaysBetween(start, end)
	if err != nil {
		return "", "", err
	}
	if span > maxWindowDays {
		e, _ := ParseISODate(end)
		start = ToISODate(e.AddDate(0, 0, -maxWindowDays))
	}
	return start, end, nil
}
