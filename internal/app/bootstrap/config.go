// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"

	"github.com/mionacs/ayycode/internal/app/contrib"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "AYYCODE"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, api_key, etc.
//   - Environment variables: AYYCODE_MONGO_URI, AYYCODE_API_KEY, etc.
//   - Command-line flags: --mongo_uri, --api_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "ayycode", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// API key configuration (the identity service authenticates with this)
	{Name: "api_key", Default: "", Desc: "API key for the integration endpoints (empty rejects all mutating requests)"},

	// Contribution cache configuration
	{Name: "contrib_max_age", Default: "12h", Desc: "Cached contribution year freshness window (e.g., 6h, 12h, 24h)"},

	// Background refresh configuration
	{Name: "refresh_enabled", Default: true, Desc: "Enable the background contribution refresh job"},
	{Name: "refresh_interval", Default: "6h", Desc: "How often the background refresh job runs"},

	// GitHub configuration
	{Name: "github_token", Default: "", Desc: "GitHub token for the GraphQL contribution calendar (empty uses the public fallback)"},

	// LeetCode configuration
	{Name: "leetcode_session", Default: "", Desc: "LeetCode session cookie (optional)"},
	{Name: "leetcode_csrf_token", Default: "", Desc: "LeetCode CSRF token (optional)"},

	// Platform endpoint overrides (normally blank)
	{Name: "github_graphql_url", Default: "", Desc: "GitHub GraphQL endpoint override"},
	{Name: "github_fallback_url", Default: "", Desc: "GitHub contributions fallback endpoint override"},
	{Name: "leetcode_graphql_url", Default: "", Desc: "LeetCode GraphQL endpoint override"},
	{Name: "codeforces_base_url", Default: "", Desc: "Codeforces API base URL override"},
	{Name: "codechef_base_url", Default: "", Desc: "CodeChef profile base URL override"},
	{Name: "geeksforgeeks_base_url", Default: "", Desc: "GeeksforGeeks profile base URL override"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, AYYCODE_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		APIKey: appValues.String("api_key"),

		ContribMaxAge: appValues.Duration("contrib_max_age", contrib.DefaultMaxAge),

		RefreshEnabled:  appValues.Bool("refresh_enabled"),
		RefreshInterval: appValues.Duration("refresh_interval", 6*time.Hour),

		GitHubToken: appValues.String("github_token"),

		LeetCodeSession:   appValues.String("leetcode_session"),
		LeetCodeCSRFToken: appValues.String("leetcode_csrf_token"),

		GitHubGraphQLURL:     appValues.String("github_graphql_url"),
		GitHubFallbackURL:    appValues.String("github_fallback_url"),
		LeetCodeGraphQLURL:   appValues.String("leetcode_graphql_url"),
		CodeforcesBaseURL:    appValues.String("codeforces_base_url"),
		CodeChefBaseURL:      appValues.String("codechef_base_url"),
		GeeksforGeeksBaseURL: appValues.String("geeksforgeeks_base_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.ContribMaxAge <= 0 {
		return fmt.Errorf("contrib_max_age must be positive, got %s", appCfg.ContribMaxAge)
	}
	if appCfg.RefreshEnabled && appCfg.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %s", appCfg.RefreshInterval)
	}

	if appCfg.APIKey == "" {
		logger.Warn("api_key not configured - integration management endpoints will reject all requests")
	}

	return nil
}
