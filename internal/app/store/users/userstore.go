// internal/app/store/users/userstore.go
package userstore

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - Username: the public profile handle (lowercase, shareable at /u/{username})
//   - Identity: the username/handle the user holds on an external platform

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mionacs/ayycode/internal/app/system/normalize"
	"github.com/mionacs/ayycode/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateUsername is returned when creating a user with a username that is already taken.
	ErrDuplicateUsername = errors.New("a user with this username already exists")
	// ErrInvalidUsername is returned when a username fails validation.
	ErrInvalidUsername = errors.New("username must be 3-20 lowercase letters, digits, or underscores")
	// ErrUnknownPlatform is returned when a connection update names an unsupported platform.
	ErrUnknownPlatform = errors.New("unknown platform")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername looks up a user by case-insensitive username.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"username_ci": normalize.Username(username)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)

	if u.Username != "" {
		username := normalize.Username(u.Username)
		if !normalize.IsUsernameValid(username) {
			return models.User{}, ErrInvalidUsername
		}
		u.Username = username
		u.UsernameCI = username
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

// SetUsername changes a user's public profile handle.
func (s *Store) SetUsername(ctx context.Context, id primitive.ObjectID, username string) error {
	username = normalize.Username(username)
	if !normalize.IsUsernameValid(username) {
		return ErrInvalidUsername
	}

	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"username":    username,
			"username_ci": username,
			"updated_at":  time.Now().UTC(),
		},
	})
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateUsername
	}
	return err
}

// connectionField maps a platform to its bson path under connections.
func connectionField(platform models.Platform) (string, error) {
	if !models.IsValidPlatform(platform) {
		return "", ErrUnknownPlatform
	}
	return "connections." + string(platform), nil
}

// SetConnection stores or replaces one platform's connection sub-document.
// The conn argument must be the matching connection struct
// (e.g. *models.GitHubConnection for PlatformGitHub).
func (s *Store) SetConnection(ctx context.Context, id primitive.ObjectID, platform models.Platform, conn any) error {
	field, err := connectionField(platform)
	if err != nil {
		return err
	}

	_, err = s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			field:        conn,
			"updated_at": time.Now().UTC(),
		},
	})
	return err
}

// ClearConnection disconnects one platform from a user. Deleting the
// platform's cached contribution years is the caller's responsibility
// (see the integrations feature).
func (s *Store) ClearConnection(ctx context.Context, id primitive.ObjectID, platform models.Platform) error {
	field, err := connectionField(platform)
	if err != nil {
		return err
	}

	_, err = s.c.UpdateByID(ctx, id, bson.M{
		"$unset": bson.M{field: ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// ListConnected returns up to limit users that have at least one platform
// connected, most recently updated first. Used by the background refresh job.
func (s *Store) ListConnected(ctx context.Context, limit int64) ([]models.User, error) {
	filter := bson.M{
		"$or": func() []bson.M {
			var ors []bson.M
			for _, p := range models.AllPlatforms() {
				ors = append(ors, bson.M{"connections." + string(p): bson.M{"$exists": true}})
			}
			return ors
		}(),
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
