// internal/app/store/contributions/store.go
package contributions

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - Identity: the username/handle the user holds on the external platform

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mionacs/ayycode/internal/domain/models"
)

// YearRecord is one cached calendar year of daily counts for one user on
// one platform. Samples is always zero-filled Jan 1–Dec 31 (365/366 days),
// regardless of how narrow the query that triggered the fetch was.
//
// Identity is the platform username/handle the data was fetched for; a
// record whose identity no longer matches the user's connection is invalid
// no matter how recent it is.
type YearRecord struct {
	ID            primitive.ObjectID       `bson:"_id,omitempty"`
	UserID        primitive.ObjectID       `bson:"user_id"`
	Identity      string                   `bson:"identity"`
	Year          int                      `bson:"year"`
	Samples       []models.ContributionDay `bson:"samples"`
	LastUpdatedAt time.Time                `bson:"last_updated_at"`
}

// Store caches per-year contribution samples for a single platform. The
// five platforms share this one implementation and differ only in the
// collection they write to ("github_contributions", "leetcode_contributions",
// and so on) — behavior differences between platforms live in their fetch
// adapters, not here.
type Store struct {
	platform models.Platform
	c        *mongo.Collection
}

// CollectionName returns the Mongo collection backing a platform's cache.
func CollectionName(p models.Platform) string {
	return string(p) + "_contributions"
}

// New creates the year-cache Store for one platform.
func New(db *mongo.Database, platform models.Platform) *Store {
	return &Store{
		platform: platform,
		c:        db.Collection(CollectionName(platform)),
	}
}

// Platform returns the platform this store caches for.
func (s *Store) Platform() models.Platform {
	return s.platform
}

// EnsureIndexes creates the compound unique index that makes
// (user, platform, year) the natural key — the platform is implied by the
// collection this store writes to.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "year", Value: 1},
		},
		Options: options.Index().
			SetName("idx_" + CollectionName(s.platform) + "_user_year").
			SetUnique(true),
	})
	return err
}

// FindYear loads the cached record for (user, year). Returns (nil, nil)
// when no record exists.
func (s *Store) FindYear(ctx context.Context, userID primitive.ObjectID, year int) (*YearRecord, error) {
	var rec YearRecord
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "year": year}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpsertYear replaces the cached samples for (user, year), stamping the
// identity they were fetched for and the fetch time. Last write wins;
// concurrent refreshes for the same key are safe because entries are
// freshness-advisory, not correctness-critical.
func (s *Store) UpsertYear(ctx context.Context, userID primitive.ObjectID, identity string, year int, samples []models.ContributionDay) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "year": year},
		bson.M{
			"$set": bson.M{
				"identity":        identity,
				"samples":         samples,
				"last_updated_at": time.Now().UTC(),
			},
			"$setOnInsert": bson.M{
				"user_id": userID,
				"year":    year,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// DeleteForUser removes every cached year for a user on this platform.
// Called when the user disconnects the platform.
func (s *Store) DeleteForUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
