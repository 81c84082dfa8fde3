// Package contributionsfeature serves the public contribution endpoints
// that back a profile's activity heatmap.
//
// Endpoints (mounted at /api/u):
//   - GET /api/u/{username}/contributions - merged cross-platform series
//   - GET /api/u/{username}/contributions/{platform} - one platform's series
//
// Both are public: profiles are shareable by design, so there is no auth.
package contributionsfeature

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/mionacs/ayycode/internal/app/contrib"
	usersstore "github.com/mionacs/ayycode/internal/app/store/users"
	"github.com/mionacs/ayycode/internal/app/system/jsonutil"
	"github.com/mionacs/ayycode/internal/app/system/normalize"
	"github.com/mionacs/ayycode/internal/app/system/timeouts"
	"github.com/mionacs/ayycode/internal/domain/models"
)

// Handler handles contribution series requests.
type Handler struct {
	users *usersstore.Store
	agg   *contrib.Aggregator
	log   *zap.Logger
}

// NewHandler creates a new contributions handler.
func NewHandler(db *mongo.Database, agg *contrib.Aggregator, logger *zap.Logger) *Handler {
	return &Handler{
		users: usersstore.New(db),
		agg:   agg,
		log:   logger,
	}
}

// ServeMerged handles GET /api/u/{username}/contributions.
//
// Optional start/end query parameters (YYYY-MM-DD) narrow the range; the
// default is the current UTC calendar year. The response always carries a
// complete series for the resolved range plus per-platform warnings.
func (h *Handler) ServeMerged(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupUser(w, r)
	if !ok {
		return
	}

	result, err := h.agg.SeriesForUser(r.Context(), user, contrib.Options{
		Start: normalize.QueryParam(r.URL.Query().Get("start")),
		End:   normalize.QueryParam(r.URL.Query().Get("end")),
	})
	if err != nil {
		jsonutil.BadRequest(w, "invalid date range: dates must be YYYY-MM-DD")
		return
	}

	jsonutil.OK(w, result)
}

// ServePlatform handles GET /api/u/{username}/contributions/{platform}.
//
// Returns 404 when the platform is unknown or the user has not connected
// it, and 502 when the platform's data is entirely unavailable.
func (h *Handler) ServePlatform(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupUser(w, r)
	if !ok {
		return
	}

	platform := models.Platform(chi.URLParam(r, "platform"))
	provider := h.agg.Provider(platform)
	if !models.IsValidPlatform(platform) || provider == nil {
		jsonutil.NotFound(w, "unknown platform")
		return
	}

	identity := user.Connections.Identity(platform)
	if identity == "" {
		jsonutil.NotFound(w, platform.DisplayName()+" is not connected")
		return
	}

	opts := contrib.Options{
		Start: normalize.QueryParam(r.URL.Query().Get("start")),
		End:   normalize.QueryParam(r.URL.Query().Get("end")),
	}
	start, end, err := h.agg.ResolveRange(opts)
	if err != nil {
		jsonutil.BadRequest(w, "invalid date range: dates must be YYYY-MM-DD")
		return
	}

	fetchCtx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	series, err := provider.SeriesForUser(fetchCtx, user.ID, identity, start, end, h.agg.MaxAge())
	if err != nil {
		jsonutil.BadRequest(w, "invalid date range: dates must be YYYY-MM-DD")
		return
	}
	if series == nil {
		jsonutil.Error(w, http.StatusBadGateway, platform.DisplayName()+" contributions unavailable")
		return
	}

	jsonutil.OK(w, PlatformSeriesResponse{
		Platform: platform,
		Identity: identity,
		Series:   series,
	})
}

// lookupUser resolves the {username} path parameter, writing the error
// response itself when the user cannot be served.
func (h *Handler) lookupUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	username := normalize.Username(chi.URLParam(r, "username"))
	if username == "" {
		jsonutil.BadRequest(w, "missing username")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.NotFound(w, "user not found")
			return nil, false
		}
		h.log.Error("user lookup failed", zap.String("username", username), zap.Error(err))
		jsonutil.InternalError(w, "Internal Server Error")
		return nil, false
	}
	return user, true
}
