// internal/app/features/contributions/routes.go
package contributionsfeature

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mionacs/ayycode/internal/app/system/apicors"
)

// Routes returns a router with the public contribution endpoints.
//
// When mounted at /api/u:
//   - GET /api/u/{username}/contributions
//   - GET /api/u/{username}/contributions/{platform}
//
// CORS is permissive: profile pages embed these series cross-origin.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(apicors.Middleware())

	r.Route("/{username}/contributions", func(cr chi.Router) {
		cr.Get("/", h.ServeMerged)
		cr.Get("/{platform}", h.ServePlatform)
	})

	return r
}
