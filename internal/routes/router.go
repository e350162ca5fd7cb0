package routes

import (
	"net/http"
	"time"

	"propertyhub/listingsync/internal/api"
	"propertyhub/listingsync/internal/common"
	"propertyhub/listingsync/internal/logging"
	"propertyhub/listingsync/internal/metrics"
	"propertyhub/listingsync/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

// Dependencies are the handles the HTTP layer needs. Built in main.
type Dependencies struct {
	SyncJob          api.SyncRunner
	StatusReader     api.SyncStatusReader
	DB               *sqlx.DB
	Cache            common.CacheInterface
	Metrics          *metrics.MetricsRegistry
	TriggerSecret    string
	TriggerWhitelist []string // client IPs that skip the trigger rate limit
}

func RegisterRoutes(deps *Dependencies, upSince time.Time) http.Handler {
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	// Browsers call the trigger directly; OPTIONS is answered by the handler
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     api.CORSAllowedOrigins,
		AllowedMethods:     api.CORSAllowedMethods,
		AllowedHeaders:     api.CORSAllowedHeaders,
		ExposedHeaders:     api.CORSExposedHeaders,
		AllowCredentials:   false,
		MaxAge:             api.CORSMaxAge,
		OptionsPassthrough: true,
	}))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		common.RespondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method Not Allowed"})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondJSON(w, http.StatusNotFound, map[string]string{"error": "Not Found"})
	})

	r.Get("/healthCheck", api.HealthCheckHandler(deps.DB, upSince))

	RegisterSyncRoutes(r, deps)

	logging.Info("Router initialized with metrics and logging middleware")
	return r
}
