package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"propertyhub/listingsync/internal/common"
	"propertyhub/listingsync/internal/db/dbtest"
	"propertyhub/listingsync/internal/db/repositories"
	"propertyhub/listingsync/internal/metrics"
	"propertyhub/listingsync/internal/models/dtos"
	gormModels "propertyhub/listingsync/internal/models/gorm"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Failed to read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

type statusBody struct {
	Success          bool   `json:"success"`
	Error            string `json:"error"`
	ActiveListings   int64  `json:"active_listings"`
	ArchivedListings int64  `json:"archived_listings"`
	RecentRuns       []struct {
		Status     string `json:"status"`
		ItemsCount int    `json:"items_count"`
	} `json:"recent_runs"`
}

func TestSyncStatusHandler_ReadsAndCaches(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	listings := repositories.NewListingRepo(gdb)
	for _, id := range []string{"A", "B", "C"} {
		if _, err := listings.Upsert(ctx, &gormModels.Listing{ID: id, SyncStatus: "active", LastSynced: now}); err != nil {
			t.Fatalf("Failed to seed listing: %v", err)
		}
	}
	if _, err := listings.ArchiveByIDs(ctx, []string{"C"}, now); err != nil {
		t.Fatalf("Failed to archive: %v", err)
	}
	if err := repositories.NewSyncLogRepo(gdb).Create(ctx, &gormModels.SyncLogEntry{
		Service: "guesty", SyncType: "listings", Status: "success", Message: "ok",
		StartTime: now, EndTime: now, ItemsCount: 3,
	}); err != nil {
		t.Fatalf("Failed to seed sync log: %v", err)
	}

	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	cache := common.NewCacheService(time.Minute, time.Minute)
	handler := SyncStatusHandler(repositories.NewSyncRunRepository(dbtest.SQLX(t, gdb)), cache, reg)

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sync/listings/status", nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rr.Code)
		}

		var resp statusBody
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if !resp.Success {
			t.Error("Expected success true")
		}
		if resp.ActiveListings != 2 || resp.ArchivedListings != 1 {
			t.Errorf("Expected 2 active / 1 archived, got %d/%d", resp.ActiveListings, resp.ArchivedListings)
		}
		if len(resp.RecentRuns) != 1 || resp.RecentRuns[0].ItemsCount != 3 {
			t.Errorf("Unexpected recent runs %+v", resp.RecentRuns)
		}
	}

	if misses := counterValue(t, reg.CacheMissesTotal.WithLabelValues(statusCacheLabel)); misses != 1 {
		t.Errorf("Expected 1 cache miss, got %v", misses)
	}
	if hits := counterValue(t, reg.CacheHitsTotal.WithLabelValues(statusCacheLabel)); hits != 1 {
		t.Errorf("Expected 1 cache hit, got %v", hits)
	}
}

// Mock SyncStatusReader
type mockStatusReader struct {
	err error
}

func (m *mockStatusReader) RecentRuns(ctx context.Context, limit int) ([]dtos.SyncRunSummary, error) {
	return nil, m.err
}

func (m *mockStatusReader) ListingCounts(ctx context.Context) (int64, int64, error) {
	return 0, 0, m.err
}

func TestSyncStatusHandler_ReaderError(t *testing.T) {
	cache := common.NewCacheService(time.Minute, time.Minute)
	handler := SyncStatusHandler(&mockStatusReader{err: errors.New("db down")}, cache, nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sync/listings/status", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rr.Code)
	}
	var resp statusBody
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Success || resp.Error != "Failed to load sync status" {
		t.Errorf("Expected {success:false,error}, got %+v", resp)
	}
	if _, found := cache.Get(statusCacheKey); found {
		t.Error("Expected failed load not to be cached")
	}
}

func TestHealthCheckHandler(t *testing.T) {
	gdb := dbtest.Open(t)
	handler := HealthCheckHandler(dbtest.SQLX(t, gdb), time.Now().Add(-time.Minute))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp struct {
		Status   string `json:"status"`
		Services map[string]struct {
			Status string `json:"status"`
		} `json:"services"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Services["postgres"].Status != "ok" {
		t.Errorf("Unexpected health %+v", resp)
	}
}
