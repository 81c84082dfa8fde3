// internal/app/features/integrations/routes.go
package integrationsfeature

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mionacs/ayycode/internal/app/system/apicors"
	"github.com/mionacs/ayycode/internal/app/system/auth"
)

// Routes returns a router with the integration management endpoints.
//
// When mounted at /api/integrations:
//   - PUT    /api/integrations/{username}/{platform}
//   - DELETE /api/integrations/{username}/{platform}
//   - POST   /api/integrations/{username}/{platform}/sync
//
// Authentication is via API key (Bearer token in Authorization header);
// only the identity service calls these.
func Routes(h *Handler, apiKey string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(apicors.Middleware())
	r.Use(auth.APIKeyAuth(apiKey, logger))

	r.Route("/{username}/{platform}", func(pr chi.Router) {
		pr.Put("/", h.Connect)
		pr.Delete("/", h.Disconnect)
		pr.Post("/sync", h.Sync)
	})

	return r
}
