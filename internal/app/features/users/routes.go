package usersfeature

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mionacs/ayycode/internal/app/system/apicors"
	"github.com/mionacs/ayycode/internal/app/system/auth"
)

// Routes wires up the user provisioning endpoints.
func Routes(h *Handler, apiKey string, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(apicors.Middleware())
	r.Use(auth.APIKeyAuth(apiKey, logger))

	r.Post("/", h.Create)
	r.Get("/{username}", h.Get)
	r.Put("/{username}/username", h.Rename)

	return r
}
