package contributionsfeature

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/mionacs/ayycode/internal/app/contrib"
	contribstore "github.com/mionacs/ayycode/internal/app/store/contributions"
	usersstore "github.com/mionacs/ayycode/internal/app/store/users"
	"github.com/mionacs/ayycode/internal/domain/models"
	"github.com/mionacs/ayycode/internal/testutil"
)

func setupHandler(t *testing.T, db *mongo.Database, fetchers map[models.Platform]*testutil.FakeFetcher) http.Handler {
	t.Helper()
	providers := make([]*contrib.Provider, 0, len(models.AllPlatforms()))
	for _, platform := range models.AllPlatforms() {
		fetcher := fetchers[platform]
		if fetcher == nil {
			fetcher = &testutil.FakeFetcher{}
		}
		providers = append(providers, contrib.NewProvider(contribstore.New(db, platform), fetcher, zap.NewNop()))
	}
	agg := contrib.NewAggregator(providers, 12*time.Hour, zap.NewNop())
	return Routes(NewHandler(db, agg, zap.NewNop()))
}

func createUser(t *testing.T, db *mongo.Database, username string, connections models.ConnectionSet) models.User {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user, err := usersstore.New(db).Create(ctx, models.User{
		Email:       username + "@example.com",
		Username:    username,
		Connections: connections,
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestServeMerged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := setupHandler(t, db, map[models.Platform]*testutil.FakeFetcher{
		models.PlatformGitHub: {Years: map[int]map[string]int{
			2024: {"2024-01-01": 3},
		}},
	})
	createUser(t, db, "alice", models.ConnectionSet{
		GitHub: &models.GitHubConnection{Username: "alice-gh"},
	})

	req := httptest.NewRequest(http.MethodGet, "/alice/contributions?start=2024-01-01&end=2024-01-02", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp contrib.Result
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Series.Samples) != 2 {
		t.Fatalf("series length = %d, want 2", len(resp.Series.Samples))
	}
	if resp.Series.Samples[0].Total != 3 {
		t.Errorf("first total = %d, want 3", resp.Series.Samples[0].Total)
	}
	if len(resp.Warnings) != 4 {
		t.Errorf("warnings = %v, want 4 not-connected notices", resp.Warnings)
	}
}

func TestServeMerged_UsernameCaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := setupHandler(t, db, nil)
	createUser(t, db, "alice", models.ConnectionSet{})

	req := httptest.NewRequest(http.MethodGet, "/ALICE/contributions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestServeMerged_UnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := setupHandler(t, db, nil)

	req := httptest.NewRequest(http.MethodGet, "/ghost/contributions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServeMerged_BadDates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := setupHandler(t, db, nil)
	createUser(t, db, "alice", models.ConnectionSet{})

	req := httptest.NewRequest(http.MethodGet, "/alice/contributions?start=01/15/2024&end=2024-02-01", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServePlatform(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := setupHandler(t, db, map[models.Platform]*testutil.FakeFetcher{
		models.PlatformLeetCode: {Years: map[int]map[string]int{
			2024: {"2024-05-01": 6},
		}},
	})
	createUser(t, db, "alice", models.ConnectionSet{
		LeetCode: &models.LeetCodeConnection{Username: "alice-lc"},
	})

	req := httptest.NewRequest(http.MethodGet, "/alice/contributions/leetcode?start=2024-05-01&end=2024-05-03", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp PlatformSeriesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Platform != models.PlatformLeetCode {
		t.Errorf("platform = %q, want leetcode", resp.Platform)
	}
	if resp.Identity != "alice-lc" {
		t.Errorf("identity = %q, want alice-lc", resp.Identity)
	}
	if resp.Series == nil || len(resp.Series.Samples) != 3 {
		t.Fatalf("series = %+v, want 3 samples", resp.Series)
	}
	if resp.Series.Samples[0].Count != 6 {
		t.Errorf("first count = %d, want 6", resp.Series.Samples[0].Count)
	}
}

func TestServePlatform_UnknownPlatform(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := setupHandler(t, db, nil)
	createUser(t, db, "alice", models.ConnectionSet{})

	req := httptest.NewRequest(http.MethodGet, "/alice/contributions/topcoder", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServePlatform_NotConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := setupHandler(t, db, nil)
	createUser(t, db, "alice", models.ConnectionSet{})

	req := httptest.NewRequest(http.MethodGet, "/alice/contributions/github", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServePlatform_Unavailable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := setupHandler(t, db, map[models.Platform]*testutil.FakeFetcher{
		models.PlatformGitHub: {Fail: true},
	})
	createUser(t, db, "alice", models.ConnectionSet{
		GitHub: &models.GitHubConnection{Username: "alice-gh"},
	})

	req := httptest.NewRequest(http.MethodGet, "/alice/contributions/github", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}
