// internal/app/contrib/provider.go
package contrib

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mionacs/ayycode/internal/app/store/contributions"
	"github.com/mionacs/ayycode/internal/domain/models"
)

// Fetcher is the boundary to one platform's scraping/API client. FetchYear
// returns the day→count map for one identity and calendar year, or an error
// when the data could not be determined (network failure, profile not
// found, parse failure). Implementations must not panic across this
// boundary; the provider treats every error as "no fresh data".
type Fetcher interface {
	FetchYear(ctx context.Context, identity string, year int) (map[string]int, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, identity string, year int) (map[string]int, error)

func (f FetcherFunc) FetchYear(ctx context.Context, identity string, year int) (map[string]int, error) {
	return f(ctx, identity, year)
}

// Provider serves one platform's contribution series, using the year cache
// when it is fresh and falling back to the platform's Fetcher otherwise.
type Provider struct {
	platform models.Platform
	store    *contributions.Store
	fetcher  Fetcher
	logger   *zap.Logger

	// now is swappable in tests; defaults to time.Now.
	now func() time.Time
}

// NewProvider wires a platform's cache store and fetch adapter together.
func NewProvider(store *contributions.Store, fetcher Fetcher, logger *zap.Logger) *Provider {
	return &Provider{
		platform: store.Platform(),
		store:    store,
		fetcher:  fetcher,
		logger:   logger,
		now:      time.Now,
	}
}

// Platform returns the platform this provider serves.
func (p *Provider) Platform() models.Platform {
	return p.platform
}

// YearSamples returns one calendar year of daily counts for (user,
// identity), one zero-filled entry per date Jan 1–Dec 31.
//
// The cached record is used when it exists, its identity still matches the
// user's connection (case-insensitive), and it is younger than maxAge. An
// identity change invalidates the cache immediately regardless of age.
// When the fetch fails, stale cached samples are preferred over nothing;
// nil is returned only when this user/platform/year has never been fetched
// successfully.
func (p *Provider) YearSamples(ctx context.Context, userID primitive.ObjectID, identity string, year int, maxAge time.Duration) []models.ContributionDay {
	cached, err := p.store.FindYear(ctx, userID, year)
	if err != nil {
		p.logger.Warn("contribution cache lookup failed",
			zap.String("platform", string(p.platform)),
			zap.String("user_id", userID.Hex()),
			zap.Int("year", year),
			zap.Error(err))
		cached = nil
	}

	if cached != nil &&
		strings.EqualFold(cached.Identity, identity) &&
		p.now().Sub(cached.LastUpdatedAt) < maxAge {
		return cached.Samples
	}

	values, err := p.fetchYear(ctx, identity, year)
	if err != nil || values == nil {
		if err != nil {
			p.logger.Warn("contribution fetch failed",
				zap.String("platform", string(p.platform)),
				zap.String("identity", identity),
				zap.Int("year", year),
				zap.Error(err))
		}
		if cached != nil {
			return cached.Samples
		}
		return nil
	}

	samples := fillYear(year, values)

	if err := p.store.UpsertYear(ctx, userID, identity, year, samples); err != nil {
		// The fetched data is still good; the next call just refetches.
		p.logger.Warn("contribution cache upsert failed",
			zap.String("platform", string(p.platform)),
			zap.String("user_id", userID.Hex()),
			zap.Int("year", year),
			zap.Error(err))
	}

	return samples
}

// fetchYear calls the adapter, converting a panic into an adapter failure
// so a misbehaving client cannot take the aggregation down.
func (p *Provider) fetchYear(ctx context.Context, identity string, year int) (values map[string]int, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("fetch adapter panicked",
				zap.String("platform", string(p.platform)),
				zap.Any("panic", r))
			values, err = nil, nil
		}
	}()
	return p.fetcher.FetchYear(ctx, identity, year)
}

// fillYear expands a day→count map into the zero-filled full-year sample
// slice that is the unit of caching.
func fillYear(year int, values map[string]int) []models.ContributionDay {
	start, end := YearBounds(year)
	dates, _ := GenerateRange(start, end)

	samples := make([]models.ContributionDay, len(dates))
	for i, date := range dates {
		samples[i] = models.ContributionDay{Date: date, Count: values[date]}
	}
	return samples
}

// SeriesForUser returns the platform's series for [start, end], consulting
// (and populating) the cache for every calendar year the range touches.
//
// nil means the platform's data is entirely unavailable — every year missed
// both cache and fetch. A user with data on file but zero recorded activity
// in the window gets a zero-filled series instead, which is a different
// outcome than "never fetched".
func (p *Provider) SeriesForUser(ctx context.Context, userID primitive.ObjectID, identity string, start, end string, maxAge time.Duration) (*models.ServiceSeries, error) {
	start, end, err := EnsureRangeOrder(start, end)
	if err != nil {
		return nil, err
	}

	startYear, _ := YearOf(start)
	endYear, _ := YearOf(end)

	// Years are fetched sequentially: several platform APIs rate-limit, and
	// a range never spans more than two years after clamping anyway.
	var all []models.ContributionDay
	for year := startYear; year <= endYear; year++ {
		if samples := p.YearSamples(ctx, userID, identity, year, maxAge); samples != nil {
			all = append(all, samples...)
		}
	}

	if len(all) == 0 {
		return nil, nil
	}

	var filtered []models.ContributionDay
	for _, sample := range all {
		if sample.Date >= start && sample.Date <= end {
			filtered = append(filtered, sample)
		}
	}

	if len(filtered) == 0 {
		dates, err := GenerateRange(start, end)
		if err != nil {
			return nil, err
		}
		filtered = make([]models.ContributionDay, len(dates))
		for i, date := range dates {
			filtered[i] = models.ContributionDay{Date: date}
		}
	}

	return &models.ServiceSeries{
		StartDate: start,
		EndDate:   end,
		Samples:   filtered,
	}, nil
}
