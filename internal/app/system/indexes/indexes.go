// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	contribstore "github.com/mionacs/ayycode/internal/app/store/contributions"
	"github.com/mionacs/ayycode/internal/domain/models"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	for _, platform := range models.AllPlatforms() {
		if err := contribstore.New(db, platform).EnsureIndexes(ctx); err != nil {
			problems = append(problems, contribstore.CollectionName(platform)+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New("index creation failed: " + strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection("users")
	idxs := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().
				SetName("idx_users_username_ci").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"username_ci": bson.M{"$type": "string"}}),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("idx_users_email").
				SetUnique(true),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, idxs)
	return err
}
