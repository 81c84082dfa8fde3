// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	contributionsfeature "github.com/mionacs/ayycode/internal/app/features/contributions"
	healthfeature "github.com/mionacs/ayycode/internal/app/features/health"
	integrationsfeature "github.com/mionacs/ayycode/internal/app/features/integrations"
	usersfeature "github.com/mionacs/ayycode/internal/app/features/users"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed, so the shared aggregator already exists.
//
// Route groups:
//   - /health, /ready, /livez: probes, unauthenticated
//   - /api/u: public profile reads (contribution series), permissive CORS
//   - /api/users, /api/integrations: identity-service surface, API key auth
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	agg := aggregator
	if agg == nil {
		// Startup did not run (direct handler construction in tests).
		agg = buildAggregator(appCfg, deps.MongoDatabase, logger)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// Health checks
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Public contribution series
	contribHandler := contributionsfeature.NewHandler(deps.MongoDatabase, agg, logger)
	r.Mount("/api/u", contributionsfeature.Routes(contribHandler))

	// User provisioning, identity-service only
	usersHandler := usersfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/api/users", usersfeature.Routes(usersHandler, appCfg.APIKey, logger))

	// Integration management, identity-service only
	integrationsHandler := integrationsfeature.NewHandler(deps.MongoDatabase, agg, logger)
	r.Mount("/api/integrations", integrationsfeature.Routes(integrationsHandler, appCfg.APIKey, logger))

	return r, nil
}
