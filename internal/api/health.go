package api

import (
	"net/http"
	"time"

	"propertyhub/listingsync/internal/common"
	"propertyhub/listingsync/internal/models/dtos"

	"github.com/jmoiron/sqlx"
)

// HealthCheckHandler handles GET /healthCheck
func HealthCheckHandler(db *sqlx.DB, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]dtos.ServiceStatus)

		pgStatus := dtos.ServiceStatus{Status: "ok", Details: "Postgres Connected"}
		if err := db.PingContext(r.Context()); err != nil {
			pgStatus = dtos.ServiceStatus{Status: "down", Details: err.Error()}
		}
		services["postgres"] = pgStatus

		overallStatus := "ok"
		code := http.StatusOK
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				code = http.StatusServiceUnavailable
				break
			}
		}

		common.RespondJSON(w, code, dtos.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			UpSince:  upSince,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		})
	}
}
