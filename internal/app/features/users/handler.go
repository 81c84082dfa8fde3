// Package usersfeature provisions profile records on behalf of the
// identity service.
//
// Endpoints (mounted at /api/users, API-key protected):
//   - POST /api/users                     - create a profile
//   - GET  /api/users/{username}          - fetch a profile
//   - PUT  /api/users/{username}/username - change the public handle
package usersfeature

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	usersstore "github.com/mionacs/ayycode/internal/app/store/users"
	"github.com/mionacs/ayycode/internal/app/system/jsonutil"
	"github.com/mionacs/ayycode/internal/app/system/normalize"
	"github.com/mionacs/ayycode/internal/app/system/timeouts"
	"github.com/mionacs/ayycode/internal/domain/models"
)

// Handler handles profile provisioning requests.
type Handler struct {
	users *usersstore.Store
	log   *zap.Logger
}

// NewHandler creates a new users handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{users: usersstore.New(db), log: logger}
}

// Create handles POST /api/users.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if req.Email == "" || req.Username == "" {
		jsonutil.BadRequest(w, "email and username are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.users.Create(ctx, models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Username: req.Username,
	})
	switch {
	case errors.Is(err, usersstore.ErrInvalidUsername):
		jsonutil.BadRequest(w, "username must be 3-20 characters: lowercase letters, digits, underscore")
		return
	case errors.Is(err, usersstore.ErrDuplicateUsername):
		jsonutil.Error(w, http.StatusConflict, "username or email already taken")
		return
	case err != nil:
		h.log.Error("failed to create user", zap.String("username", req.Username), zap.Error(err))
		jsonutil.InternalError(w, "Internal Server Error")
		return
	}

	jsonutil.JSON(w, http.StatusCreated, user)
}

// Get handles GET /api/users/{username}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	username := normalize.Username(chi.URLParam(r, "username"))
	if username == "" {
		jsonutil.BadRequest(w, "missing username")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.NotFound(w, "user not found")
			return
		}
		h.log.Error("user lookup failed", zap.String("username", username), zap.Error(err))
		jsonutil.InternalError(w, "Internal Server Error")
		return
	}

	jsonutil.OK(w, user)
}

// Rename handles PUT /api/users/{username}/username.
//
// Renaming the public handle does not touch platform connections or cached
// contributions; those key off the user's ObjectID.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	username := normalize.Username(chi.URLParam(r, "username"))
	if username == "" {
		jsonutil.BadRequest(w, "missing username")
		return
	}

	var req RenameRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.NotFound(w, "user not found")
			return
		}
		h.log.Error("user lookup failed", zap.String("username", username), zap.Error(err))
		jsonutil.InternalError(w, "Internal Server Error")
		return
	}

	err = h.users.SetUsername(ctx, user.ID, req.Username)
	switch {
	case errors.Is(err, usersstore.ErrInvalidUsername):
		jsonutil.BadRequest(w, "username must be 3-20 characters: lowercase letters, digits, underscore")
		return
	case errors.Is(err, usersstore.ErrDuplicateUsername):
		jsonutil.Error(w, http.StatusConflict, "username already taken")
		return
	case err != nil:
		h.log.Error("failed to rename user", zap.String("user_id", user.ID.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Internal Server Error")
		return
	}

	jsonutil.NoContent(w)
}
