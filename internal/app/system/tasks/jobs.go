// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/mionacs/ayycode/internal/app/contrib"
	userstore "github.com/mionacs/ayycode/internal/app/store/users"
	"github.com/mionacs/ayycode/internal/domain/models"
)

// refreshBatchSize bounds how many users one refresh pass touches. A busy
// instance catches up over successive passes instead of hammering every
// platform at once.
const refreshBatchSize = 200

// ContributionRefreshJob re-warms the current-year contribution caches for
// users with connected platforms. The providers' freshness rules do the
// real work: a pass only refetches caches older than maxAge, so running the
// job more often than the freshness window is harmless.
func ContributionRefreshJob(db *mongo.Database, agg *contrib.Aggregator, interval, maxAge time.Duration, logger *zap.Logger) Job {
	users := userstore.New(db)

	return Job{
		Name:     "contribution_refresh",
		Interval: interval,
		Run: func(ctx context.Context) error {
			runID := uuid.NewString()
			year := time.Now().UTC().Year()

			connected, err := users.ListConnected(ctx, refreshBatchSize)
			if err != nil {
				return err
			}

			refreshed := 0
			for _, user := range connected {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				for _, platform := range models.AllPlatforms() {
					identity := user.Connections.Identity(platform)
					provider := agg.Provider(platform)
					if identity == "" || provider == nil {
						continue
					}
					if samples := provider.YearSamples(ctx, user.ID, identity, year, maxAge); samples != nil {
						refreshed++
					}
				}
			}

			logger.Info("contribution refresh pass finished",
				zap.String("run_id", runID),
				zap.Int("users", len(connected)),
				zap.Int("platform_series_refreshed", refreshed))
			return nil
		},
	}
}
