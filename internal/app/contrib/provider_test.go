package contrib

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	contribstore "github.com/mionacs/ayycode/internal/app/store/contributions"
	"github.com/mionacs/ayycode/internal/domain/models"
	"github.com/mionacs/ayycode/internal/testutil"
)

func newTestProvider(t *testing.T, platform models.Platform, fetcher Fetcher) (*Provider, *contribstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := contribstore.New(db, platform)
	return NewProvider(store, fetcher, zap.NewNop()), store
}

func TestProvider_FreshCacheSkipsFetch(t *testing.T) {
	fetcher := &testutil.FakeFetcher{Years: map[int]map[string]int{
		2024: {"2024-03-01": 2},
	}}
	provider, _ := newTestProvider(t, models.PlatformGitHub, fetcher)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()

	first := provider.YearSamples(ctx, userID, "alice", 2024, 12*time.Hour)
	if first == nil {
		t.Fatal("first YearSamples() = nil")
	}
	if fetcher.Calls() != 1 {
		t.Fatalf("fetch calls = %d, want 1", fetcher.Calls())
	}

	second := provider.YearSamples(ctx, userID, "alice", 2024, 12*time.Hour)
	if second == nil {
		t.Fatal("second YearSamples() = nil")
	}
	if fetcher.Calls() != 1 {
		t.Errorf("fetch calls after cached read = %d, want 1", fetcher.Calls())
	}
}

func TestProvider_StaleFallbackOnFetchFailure(t *testing.T) {
	fetcher := &testutil.FakeFetcher{Years: map[int]map[string]int{
		2024: {"2024-03-01": 4},
	}}
	provider, _ := newTestProvider(t, models.PlatformLeetCode, fetcher)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	if samples := provider.YearSamples(ctx, userID, "alice", 2024, 12*time.Hour); samples == nil {
		t.Fatal("seed YearSamples() = nil")
	}

	// The platform goes down, and the cache has expired.
	fetcher.Fail = true
	provider.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	samples := provider.YearSamples(ctx, userID, "alice", 2024, 12*time.Hour)
	if samples == nil {
		t.Fatal("YearSamples() = nil, want stale cached samples")
	}
	found := false
	for _, s := range samples {
		if s.Date == "2024-03-01" && s.Count == 4 {
			found = true
		}
	}
	if !found {
		t.Error("stale samples missing the cached 2024-03-01 count")
	}
}

func TestProvider_IdentityChangeInvalidatesFreshCache(t *testing.T) {
	fetcher := &testutil.FakeFetcher{Years: map[int]map[string]int{
		2024: {"2024-03-01": 1},
	}}
	provider, _ := newTestProvider(t, models.PlatformCodeforces, fetcher)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	if samples := provider.YearSamples(ctx, userID, "old_handle", 2024, 12*time.Hour); samples == nil {
		t.Fatal("seed YearSamples() = nil")
	}
	if fetcher.Calls() != 1 {
		t.Fatalf("fetch calls = %d, want 1", fetcher.Calls())
	}

	// Same age, different identity: must refetch despite freshness.
	provider.YearSamples(ctx, userID, "new_handle", 2024, 12*time.Hour)
	if fetcher.Calls() != 2 {
		t.Errorf("fetch calls after identity change = %d, want 2", fetcher.Calls())
	}

	// Case difference alone is not an identity change.
	provider.YearSamples(ctx, userID, "NEW_HANDLE", 2024, 12*time.Hour)
	if fetcher.Calls() != 2 {
		t.Errorf("fetch calls after case-only change = %d, want 2", fetcher.Calls())
	}
}

func TestProvider_NeverFetchedAndFailing(t *testing.T) {
	provider, _ := newTestProvider(t, models.PlatformCodeChef, &testutil.FakeFetcher{Fail: true})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if samples := provider.YearSamples(ctx, primitive.NewObjectID(), "chef", 2024, 12*time.Hour); samples != nil {
		t.Errorf("YearSamples() = %d samples, want nil (no data ever fetched)", len(samples))
	}
}

func TestProvider_YearSamplesZeroFilled(t *testing.T) {
	fetcher := &testutil.FakeFetcher{Years: map[int]map[string]int{
		2024: {"2024-02-29": 3},
	}}
	provider, _ := newTestProvider(t, models.PlatformGitHub, fetcher)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	samples := provider.YearSamples(ctx, primitive.NewObjectID(), "alice", 2024, 12*time.Hour)
	if len(samples) != 366 {
		t.Fatalf("2024 samples length = %d, want 366", len(samples))
	}
	if samples[0].Date != "2024-01-01" || samples[365].Date != "2024-12-31" {
		t.Errorf("year bounds = %s..%s", samples[0].Date, samples[365].Date)
	}
}

func TestProvider_SeriesSpansTwoYears(t *testing.T) {
	fetcher := &testutil.FakeFetcher{Years: map[int]map[string]int{
		2023: {"2023-12-25": 1},
		2024: {"2024-01-05": 2},
	}}
	provider, store := newTestProvider(t, models.PlatformLeetCode, fetcher)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	series, err := provider.SeriesForUser(ctx, userID, "alice", "2023-12-20", "2024-01-10", 12*time.Hour)
	if err != nil {
		t.Fatalf("SeriesForUser() error = %v", err)
	}
	if series == nil {
		t.Fatal("SeriesForUser() = nil")
	}
	if len(series.Samples) != 22 {
		t.Errorf("series length = %d, want 22", len(series.Samples))
	}

	// Both year caches must have been populated.
	for _, year := range []int{2023, 2024} {
		rec, err := store.FindYear(ctx, userID, year)
		if err != nil {
			t.Fatalf("FindYear(%d) error = %v", year, err)
		}
		if rec == nil {
			t.Errorf("year %d not cached after range query", year)
		}
	}
}

func TestProvider_SeriesNilWhenAllYearsMiss(t *testing.T) {
	provider, _ := newTestProvider(t, models.PlatformGeeksforGeeks, &testutil.FakeFetcher{Fail: true})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	series, err := provider.SeriesForUser(ctx, primitive.NewObjectID(), "geek", "2024-01-01", "2024-01-31", 12*time.Hour)
	if err != nil {
		t.Fatalf("SeriesForUser() error = %v", err)
	}
	if series != nil {
		t.Errorf("SeriesForUser() = %+v, want nil when every year misses", series)
	}
}

func TestProvider_SeriesZeroFilledWhenFilterEmpty(t *testing.T) {
	// A legacy cache record whose samples do not cover the requested
	// sub-range: filtering yields nothing, but data exists, so the result
	// is a zero series rather than nil.
	provider, store := newTestProvider(t, models.PlatformGitHub, &testutil.FakeFetcher{Fail: true})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	err := store.UpsertYear(ctx, userID, "alice", 2024, []models.ContributionDay{
		{Date: "2024-06-01", Count: 9},
	})
	if err != nil {
		t.Fatalf("UpsertYear() error = %v", err)
	}

	series, err := provider.SeriesForUser(ctx, userID, "alice", "2024-01-01", "2024-01-03", 12*time.Hour)
	if err != nil {
		t.Fatalf("SeriesForUser() error = %v", err)
	}
	if series == nil {
		t.Fatal("SeriesForUser() = nil, want zero-filled series")
	}
	if len(series.Samples) != 3 {
		t.Fatalf("series length = %d, want 3", len(series.Samples))
	}
	for _, s := range series.Samples {
		if s.Count != 0 {
			t.Errorf("sample %s count = %d, want 0", s.Date, s.Count)
		}
	}
}
