// Package integrationsfeature manages a user's platform connections on
// behalf of the identity service.
//
// Endpoints (mounted at /api/integrations, API-key protected):
//   - PUT    /api/integrations/{username}/{platform}      - link an identity
//   - DELETE /api/integrations/{username}/{platform}      - unlink, drop cached data
//   - POST   /api/integrations/{username}/{platform}/sync - force a refresh
package integrationsfeature

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/mionacs/ayycode/internal/app/contrib"
	contribstore "github.com/mionacs/ayycode/internal/app/store/contributions"
	usersstore "github.com/mionacs/ayycode/internal/app/store/users"
	"github.com/mionacs/ayycode/internal/app/system/jsonutil"
	"github.com/mionacs/ayycode/internal/app/system/normalize"
	"github.com/mionacs/ayycode/internal/app/system/timeouts"
	"github.com/mionacs/ayycode/internal/domain/models"
)

// Handler handles integration management requests.
type Handler struct {
	db    *mongo.Database
	users *usersstore.Store
	agg   *contrib.Aggregator
	log   *zap.Logger
}

// NewHandler creates a new integrations handler.
func NewHandler(db *mongo.Database, agg *contrib.Aggregator, logger *zap.Logger) *Handler {
	return &Handler{
		db:    db,
		users: usersstore.New(db),
		agg:   agg,
		log:   logger,
	}
}

// Connect handles PUT /api/integrations/{username}/{platform}.
//
// Linking stores only the identity; profile-card fields (ratings, solved
// counts) are filled in lazily by the sync endpoint and the refresh job.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	user, platform, ok := h.resolveTarget(w, r)
	if !ok {
		return
	}

	var req ConnectRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	identity := normalize.Identity(req.Identity)
	if identity == "" {
		jsonutil.BadRequest(w, "identity is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	conn := newConnection(platform, identity)
	if err := h.users.SetConnection(ctx, user.ID, platform, conn); err != nil {
		h.log.Error("failed to store connection",
			zap.String("platform", string(platform)),
			zap.String("user_id", user.ID.Hex()),
			zap.Error(err))
		jsonutil.InternalError(w, "Internal Server Error")
		return
	}

	jsonutil.OK(w, ConnectResponse{Platform: platform, Identity: identity})
}

// Disconnect handles DELETE /api/integrations/{username}/{platform}.
//
// Unlinking also drops the platform's cached contribution documents so a
// later reconnect under a different identity starts clean.
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	user, platform, ok := h.resolveTarget(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.users.ClearConnection(ctx, user.ID, platform); err != nil {
		h.log.Error("failed to clear connection",
			zap.String("platform", string(platform)),
			zap.String("user_id", user.ID.Hex()),
			zap.Error(err))
		jsonutil.InternalError(w, "Internal Server Error")
		return
	}

	if err := contribstore.New(h.db, platform).DeleteForUser(ctx, user.ID); err != nil {
		// The connection is already gone; orphaned cache rows only waste
		// space and are superseded on reconnect.
		h.log.Warn("failed to drop cached contributions",
			zap.String("platform", string(platform)),
			zap.String("user_id", user.ID.Hex()),
			zap.Error(err))
	}

	jsonutil.NoContent(w)
}

// Sync handles POST /api/integrations/{username}/{platform}/sync.
//
// The refresh bypasses the freshness window: the current UTC year is
// refetched unconditionally. 409 when the platform is not linked, 502 when
// the platform could not be reached and nothing was cached.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	user, platform, ok := h.resolveTarget(w, r)
	if !ok {
		return
	}

	identity := user.Connections.Identity(platform)
	if identity == "" {
		jsonutil.Error(w, http.StatusConflict, platform.DisplayName()+" is not connected")
		return
	}

	provider := h.agg.Provider(platform)
	if provider == nil {
		jsonutil.NotFound(w, "unknown platform")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	year := contrib.CurrentYearUTC()
	samples := provider.YearSamples(ctx, user.ID, identity, year, 0)
	if samples == nil {
		jsonutil.Error(w, http.StatusBadGateway, platform.DisplayName()+" contributions unavailable")
		return
	}

	jsonutil.OK(w, SyncResponse{
		Platform: platform,
		Identity: identity,
		Year:     year,
		Samples:  len(samples),
	})
}

// resolveTarget resolves the {username} and {platform} path parameters,
// writing the error response itself on failure.
func (h *Handler) resolveTarget(w http.ResponseWriter, r *http.Request) (*models.User, models.Platform, bool) {
	platform := models.Platform(chi.URLParam(r, "platform"))
	if !models.IsValidPlatform(platform) {
		jsonutil.NotFound(w, "unknown platform")
		return nil, "", false
	}

	username := normalize.Username(chi.URLParam(r, "username"))
	if username == "" {
		jsonutil.BadRequest(w, "missing username")
		return nil, "", false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.NotFound(w, "user not found")
			return nil, "", false
		}
		h.log.Error("user lookup failed", zap.String("username", username), zap.Error(err))
		jsonutil.InternalError(w, "Internal Server Error")
		return nil, "", false
	}
	return user, platform, true
}

// newConnection builds the platform-specific connection document for a bare
// identity.
func newConnection(platform models.Platform, identity string) any {
	switch platform {
	case models.PlatformGitHub:
		return models.GitHubConnection{Username: identity}
	case models.PlatformLeetCode:
		return models.LeetCodeConnection{Username: identity}
	case models.PlatformCodeforces:
		return models.CodeforcesConnection{Handle: identity}
	case models.PlatformCodeChef:
		return models.CodeChefConnection{Username: identity}
	case models.PlatformGeeksforGeeks:
		return models.GeeksforGeeksConnection{Username: identity}
	}
	return nil
}
