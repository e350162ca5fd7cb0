package jobs

import (
	"propertyhub/listingsync/internal/config"
	"propertyhub/listingsync/internal/db/repositories"
	"propertyhub/listingsync/internal/metrics"
	"propertyhub/listingsync/internal/providers"

	"gorm.io/gorm"
)

// InitializeJobs wires the listing sync job against Guesty and the given
// database. The scheduled loop is started by the caller.
func InitializeJobs(cfg *config.Config, db *gorm.DB, reg *metrics.MetricsRegistry) *ListingSyncJob {
	return NewListingSyncJob(
		providers.NewGuestyTokenProvider(cfg),
		providers.NewGuestyProvider(cfg, reg),
		repositories.NewListingRepo(db),
		repositories.NewSyncLogRepo(db),
		reg,
	)
}
