package api

import (
	"context"
	"net/http"
	"time"

	"propertyhub/listingsync/internal/common"
	"propertyhub/listingsync/internal/constants"
	"propertyhub/listingsync/internal/logging"
	"propertyhub/listingsync/internal/metrics"
	"propertyhub/listingsync/internal/models/dtos"
)

const (
	statusCacheKey   = string(constants.CachePrefixSyncStatus) + "listings"
	statusCacheTTL   = 30 * time.Second
	recentRunsLimit  = 10
	statusCacheLabel = "sync_status"
)

// SyncStatusReader is the read side behind the status endpoint
type SyncStatusReader interface {
	RecentRuns(ctx context.Context, limit int) ([]dtos.SyncRunSummary, error)
	ListingCounts(ctx context.Context) (active int64, archived int64, err error)
}

// SyncStatusHandler handles GET /sync/listings/status
func SyncStatusHandler(reader SyncStatusReader, cache common.CacheInterface, metricsReg *metrics.MetricsRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loaded := false
		status, err := cache.GetOrSet(statusCacheKey, statusCacheTTL, func() (any, error) {
			loaded = true
			return loadSyncStatus(r.Context(), reader)
		})
		if err != nil {
			logging.Error("Failed to load sync status", "error", err.Error())
			common.RespondError(w, http.StatusInternalServerError, "Failed to load sync status")
			return
		}

		if metricsReg != nil {
			if loaded {
				metricsReg.CacheMissesTotal.WithLabelValues(statusCacheLabel).Inc()
			} else {
				metricsReg.CacheHitsTotal.WithLabelValues(statusCacheLabel).Inc()
			}
		}

		common.RespondJSON(w, http.StatusOK, status)
	}
}

func loadSyncStatus(ctx context.Context, reader SyncStatusReader) (*dtos.SyncStatusResponse, error) {
	active, archived, err := reader.ListingCounts(ctx)
	if err != nil {
		return nil, err
	}
	runs, err := reader.RecentRuns(ctx, recentRunsLimit)
	if err != nil {
		return nil, err
	}
	return &dtos.SyncStatusResponse{
		Success:          true,
		ActiveListings:   active,
		ArchivedListings: archived,
		RecentRuns:       runs,
	}, nil
}
