package integrationsfeature

import (
	"net/http"
	"net/http/httptest"
	"strings"
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

const testAPIKey = "test-api-key"

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
	return Routes(NewHandler(db, agg, zap.NewNop()), testAPIKey, zap.NewNop())
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

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	return req
}

func TestConnect(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := setupHandler(t, db, nil)
	user := createUser(t, db, "alice", models.ConnectionSet{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPut, "/alice/codeforces", `{"identity":"alice_cf"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	stored, err := usersstore.New(db).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got := stored.Connections.Identity(models.PlatformCodeforces); got != "alice_cf" {
		t.Errorf("stored identity = %q, want alice_cf", got)
	}
}

func TestConnect_RequiresAPIKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := setupHandler(t, db, nil)
	createUser(t, db, "alice", models.ConnectionSet{})

	req := httptest.NewRequest(http.MethodPut, "/alice/github", strings.NewReader(`{"identity":"alice-gh"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestConnect_EmptyIdentity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := setupHandler(t, db, nil)
	createUser(t, db, "alice", models.ConnectionSet{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPut, "/alice/github", `{"identity":"   "}`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestConnect_UnknownPlatform(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := setupHandler(t, db, nil)
	createUser(t, db, "alice", models.ConnectionSet{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPut, "/alice/topcoder", `{"identity":"x"}`))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestDisconnect_DropsCachedContributions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := setupHandler(t, db, nil)
	user := createUser(t, db, "alice", models.ConnectionSet{
		GitHub: &models.GitHubConnection{Username: "alice-gh"},
	})

	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := contribstore.New(db, models.PlatformGitHub)
	if err := store.UpsertYear(ctx, user.ID, "alice-gh", 2024, []models.ContributionDay{
		{Date: "2024-01-01", Count: 1},
	}); err != nil {
		t.Fatalf("UpsertYear() error = %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodDelete, "/alice/github", ""))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusNoContent, rec.Body.String())
	}

	stored, err := usersstore.New(db).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Connections.GitHub != nil {
		t.Error("connection still present after disconnect")
	}

	rec2, err := store.FindYear(ctx, user.ID, 2024)
	if err != nil {
		t.Fatalf("FindYear() error = %v", err)
	}
	if rec2 != nil {
		t.Error("cached contributions survived disconnect")
	}
}

func TestSync_ForcesRefresh(t *testing.T) {
	db := testutil.SetupTestDB(t)
	year := contrib.CurrentYearUTC()
	fetcher := &testutil.FakeFetcher{Years: map[int]map[string]int{
		year: {},
	}}
	handler := setupHandler(t, db, map[models.Platform]*testutil.FakeFetcher{
		models.PlatformLeetCode: fetcher,
	})
	user := createUser(t, db, "alice", models.ConnectionSet{
		LeetCode: &models.LeetCodeConnection{Username: "alice-lc"},
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/alice/leetcode/sync", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if fetcher.Calls() != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.Calls())
	}

	// A second sync must refetch even though the cache is fresh now.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/alice/leetcode/sync", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("second sync status = %d: %s", rec.Code, rec.Body.String())
	}
	if fetcher.Calls() != 2 {
		t.Errorf("fetch calls after second sync = %d, want 2", fetcher.Calls())
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	stored, err := contribstore.New(db, models.PlatformLeetCode).FindYear(ctx, user.ID, year)
	if err != nil || stored == nil {
		t.Fatalf("FindYear() = %v, %v; want cached record", stored, err)
	}
}

func TestSync_NotConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := setupHandler(t, db, nil)
	createUser(t, db, "alice", models.ConnectionSet{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/alice/github/sync", ""))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestSync_PlatformUnavailable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := setupHandler(t, db, map[models.Platform]*testutil.FakeFetcher{
		models.PlatformCodeChef: {Fail: true},
	})
	createUser(t, db, "alice", models.ConnectionSet{
		CodeChef: &models.CodeChefConnection{Username: "chefalice"},
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/alice/codechef/sync", ""))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}
