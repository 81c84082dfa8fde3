// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is everything specific to this service: MongoDB, the shared
// API key for the integration endpoints, cache freshness, background
// refresh, and the external platform credentials and endpoints.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// API key authentication for the integration management endpoints.
	// Only the identity service holds this key; leave empty to reject all
	// mutating requests.
	APIKey string

	// Contribution cache freshness: cached year documents older than this
	// are refetched on read.
	ContribMaxAge time.Duration

	// Background refresh of connected users' current-year contributions.
	RefreshEnabled  bool
	RefreshInterval time.Duration

	// GitHub: server-side token for the GraphQL contribution calendar.
	// Without one the adapter uses the public fallback endpoint.
	GitHubToken string

	// LeetCode: optional session cookies; public profiles answer without
	// them but are throttled harder.
	LeetCodeSession   string
	LeetCodeCSRFToken string

	// Endpoint overrides, normally blank (platform defaults). Set in tests
	// and when routing through a scraping proxy.
	GitHubGraphQLURL     string
	GitHubFallbackURL    string
	LeetCodeGraphQLURL   string
	CodeforcesBaseURL    string
	CodeChefBaseURL      string
	GeeksforGeeksBaseURL string
}
