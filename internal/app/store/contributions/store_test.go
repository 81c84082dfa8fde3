package contributions_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mionacs/ayycode/internal/app/store/contributions"
	"github.com/mionacs/ayycode/internal/domain/models"
	"github.com/mionacs/ayycode/internal/testutil"
)

func TestStore_FindYear_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contributions.New(db, models.PlatformGitHub)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec, err := store.FindYear(ctx, primitive.NewObjectID(), 2024)
	if err != nil {
		t.Fatalf("FindYear() error = %v", err)
	}
	if rec != nil {
		t.Errorf("FindYear() = %+v, want nil for missing record", rec)
	}
}

func TestStore_UpsertYear_InsertThenReplace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contributions.New(db, models.PlatformLeetCode)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	first := []models.ContributionDay{{Date: "2024-01-01", Count: 2}}

	if err := store.UpsertYear(ctx, userID, "alice", 2024, first); err != nil {
		t.Fatalf("UpsertYear() insert error = %v", err)
	}

	rec, err := store.FindYear(ctx, userID, 2024)
	if err != nil {
		t.Fatalf("FindYear() error = %v", err)
	}
	if rec == nil {
		t.Fatal("FindYear() = nil after upsert")
	}
	if rec.Identity != "alice" || rec.Year != 2024 {
		t.Errorf("record = identity %q year %d, want alice/2024", rec.Identity, rec.Year)
	}
	if len(rec.Samples) != 1 || rec.Samples[0].Count != 2 {
		t.Errorf("samples = %+v", rec.Samples)
	}
	if time.Since(rec.LastUpdatedAt) > time.Minute {
		t.Errorf("LastUpdatedAt = %v, want recent", rec.LastUpdatedAt)
	}

	firstUpdated := rec.LastUpdatedAt

	// Replace with a new identity and samples; the record must be
	// overwritten, not duplicated.
	second := []models.ContributionDay{{Date: "2024-01-01", Count: 5}, {Date: "2024-01-02", Count: 1}}
	if err := store.UpsertYear(ctx, userID, "alice-renamed", 2024, second); err != nil {
		t.Fatalf("UpsertYear() replace error = %v", err)
	}

	rec, err = store.FindYear(ctx, userID, 2024)
	if err != nil {
		t.Fatalf("FindYear() error = %v", err)
	}
	if rec.Identity != "alice-renamed" {
		t.Errorf("identity = %q, want alice-renamed", rec.Identity)
	}
	if len(rec.Samples) != 2 {
		t.Errorf("samples length = %d, want 2", len(rec.Samples))
	}
	if rec.LastUpdatedAt.Before(firstUpdated) {
		t.Errorf("LastUpdatedAt went backwards: %v < %v", rec.LastUpdatedAt, firstUpdated)
	}
}

func TestStore_YearsAreIndependent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contributions.New(db, models.PlatformCodeforces)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	if err := store.UpsertYear(ctx, userID, "tourist", 2023, []models.ContributionDay{{Date: "2023-06-01", Count: 1}}); err != nil {
		t.Fatalf("UpsertYear(2023) error = %v", err)
	}
	if err := store.UpsertYear(ctx, userID, "tourist", 2024, []models.ContributionDay{{Date: "2024-06-01", Count: 3}}); err != nil {
		t.Fatalf("UpsertYear(2024) error = %v", err)
	}

	for year, wantCount := range map[int]int{2023: 1, 2024: 3} {
		rec, err := store.FindYear(ctx, userID, year)
		if err != nil {
			t.Fatalf("FindYear(%d) error = %v", year, err)
		}
		if rec == nil || rec.Samples[0].Count != wantCount {
			t.Errorf("FindYear(%d) = %+v, want count %d", year, rec, wantCount)
		}
	}
}

func TestStore_PlatformsAreIsolated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	github := contributions.New(db, models.PlatformGitHub)
	leetcode := contributions.New(db, models.PlatformLeetCode)

	if err := github.UpsertYear(ctx, userID, "alice", 2024, []models.ContributionDay{{Date: "2024-01-01", Count: 7}}); err != nil {
		t.Fatalf("UpsertYear() error = %v", err)
	}

	rec, err := leetcode.FindYear(ctx, userID, 2024)
	if err != nil {
		t.Fatalf("FindYear() error = %v", err)
	}
	if rec != nil {
		t.Errorf("leetcode store sees github record: %+v", rec)
	}
}

func TestStore_DeleteForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contributions.New(db, models.PlatformCodeChef)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	for _, year := range []int{2023, 2024} {
		if err := store.UpsertYear(ctx, userID, "chef", year, nil); err != nil {
			t.Fatalf("UpsertYear() error = %v", err)
		}
	}
	if err := store.UpsertYear(ctx, other, "chef2", 2024, nil); err != nil {
		t.Fatalf("UpsertYear() error = %v", err)
	}

	if err := store.DeleteForUser(ctx, userID); err != nil {
		t.Fatalf("DeleteForUser() error = %v", err)
	}

	for _, year := range []int{2023, 2024} {
		rec, err := store.FindYear(ctx, userID, year)
		if err != nil {
			t.Fatalf("FindYear() error = %v", err)
		}
		if rec != nil {
			t.Errorf("year %d still cached after DeleteForUser", year)
		}
	}

	rec, err := store.FindYear(ctx, other, 2024)
	if err != nil {
		t.Fatalf("FindYear() error = %v", err)
	}
	if rec == nil {
		t.Error("DeleteForUser removed another user's record")
	}
}
