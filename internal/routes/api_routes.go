package routes

import (
	"propertyhub/listingsync/internal/api"
	"propertyhub/listingsync/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// SyncTriggerPaths are the paths the manual trigger answers on. The second
// keeps existing edge-function callers working.
var SyncTriggerPaths = []string{
	"/sync/listings",
	"/functions/v1/sync-guesty-listings",
}

// RegisterSyncRoutes registers the sync trigger and its status endpoint
func RegisterSyncRoutes(r chi.Router, deps *Dependencies) {
	jobsHandler := api.NewJobsHandler(deps.SyncJob, deps.Cache)
	limiter := middleware.NewIPRateLimiter(1, 5, deps.TriggerWhitelist...)

	for _, path := range SyncTriggerPaths {
		r.Options(path, jobsHandler.TriggerListingSync())

		r.Group(func(trigger chi.Router) {
			trigger.Use(limiter.Middleware)
			trigger.Use(middleware.TriggerAuthMiddleware(deps.TriggerSecret))
			trigger.Use(middleware.InFlightMiddleware(deps.Metrics, "sync_trigger"))
			trigger.Post(path, jobsHandler.TriggerListingSync())
		})
	}

	r.Get("/sync/listings/status", api.SyncStatusHandler(deps.StatusReader, deps.Cache, deps.Metrics))
}
