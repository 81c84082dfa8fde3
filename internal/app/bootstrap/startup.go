// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/mionacs/ayycode/internal/app/contrib"
	"github.com/mionacs/ayycode/internal/app/platforms"
	contribstore "github.com/mionacs/ayycode/internal/app/store/contributions"
	"github.com/mionacs/ayycode/internal/app/system/tasks"
	"github.com/mionacs/ayycode/internal/domain/models"
)

// aggregator is built once in Startup and shared between the refresh job
// and the HTTP handlers. taskRunner is kept for graceful shutdown.
var (
	aggregator *contrib.Aggregator
	taskRunner *tasks.Runner
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// It wires the platform fetch adapters into one provider per platform,
// builds the shared aggregator over them, and starts the background
// refresh job when enabled.
//
// Returning a non-nil error will abort startup and prevent the server from
// starting.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	aggregator = buildAggregator(appCfg, deps.MongoDatabase, logger)

	if appCfg.RefreshEnabled {
		startTaskRunner(deps.MongoDatabase, appCfg, logger)
	} else {
		logger.Info("background contribution refresh disabled")
	}

	return nil
}

// buildAggregator assembles the fetch adapters, per-platform providers, and
// the aggregator over them.
func buildAggregator(appCfg AppConfig, db *mongo.Database, logger *zap.Logger) *contrib.Aggregator {
	fetchers := platforms.NewFetchers(platforms.Config{
		GitHub: platforms.GitHubConfig{
			Token:       appCfg.GitHubToken,
			GraphQLURL:  appCfg.GitHubGraphQLURL,
			FallbackURL: appCfg.GitHubFallbackURL,
		},
		LeetCode: platforms.LeetCodeConfig{
			GraphQLURL: appCfg.LeetCodeGraphQLURL,
			Session:    appCfg.LeetCodeSession,
			CSRFToken:  appCfg.LeetCodeCSRFToken,
		},
		Codeforces: platforms.CodeforcesConfig{
			BaseURL: appCfg.CodeforcesBaseURL,
		},
		CodeChef: platforms.CodeChefConfig{
			BaseURL: appCfg.CodeChefBaseURL,
		},
		GeeksforGeeks: platforms.GeeksforGeeksConfig{
			BaseURL: appCfg.GeeksforGeeksBaseURL,
		},
	})

	providers := make([]*contrib.Provider, 0, len(fetchers))
	for _, platform := range models.AllPlatforms() {
		store := contribstore.New(db, platform)
		providers = append(providers, contrib.NewProvider(store, fetchers[platform], logger))
	}

	return contrib.NewAggregator(providers, appCfg.ContribMaxAge, logger)
}

// startTaskRunner initializes and starts the background task runner with
// the contribution refresh job.
func startTaskRunner(db *mongo.Database, appCfg AppConfig, logger *zap.Logger) {
	taskRunner = tasks.New(logger)
	taskRunner.Register(tasks.ContributionRefreshJob(db, aggregator, appCfg.RefreshInterval, appCfg.ContribMaxAge, logger))
	taskRunner.Start()
}
