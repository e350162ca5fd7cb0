package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"propertyhub/listingsync/internal/common"
	"propertyhub/listingsync/internal/constants"
	"propertyhub/listingsync/internal/jobs"
	"propertyhub/listingsync/internal/models/dtos"
	"propertyhub/listingsync/internal/providers"
)

// Mock SyncRunner
type mockSyncRunner struct {
	syncFunc func(ctx context.Context, listingID string) (*jobs.SyncResult, error)
	calls    []string
}

func (m *mockSyncRunner) Sync(ctx context.Context, listingID string) (*jobs.SyncResult, error) {
	m.calls = append(m.calls, listingID)
	return m.syncFunc(ctx, listingID)
}

func succeedingRunner() *mockSyncRunner {
	return &mockSyncRunner{
		syncFunc: func(ctx context.Context, listingID string) (*jobs.SyncResult, error) {
			if listingID != "" {
				return &jobs.SyncResult{Mode: constants.SyncModeSingle, ListingID: listingID, Synced: 1}, nil
			}
			return &jobs.SyncResult{Mode: constants.SyncModeFull, Synced: 12, Archived: 2}, nil
		},
	}
}

func TestTriggerListingSync_FullSuccess(t *testing.T) {
	runner := succeedingRunner()
	handler := NewJobsHandler(runner, nil).TriggerListingSync()

	req := httptest.NewRequest(http.MethodPost, "/sync/listings", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["success"] != true || body["synced"] != float64(12) || body["archived"] != float64(2) {
		t.Errorf("Unexpected body %v", body)
	}
	if _, present := body["listing_id"]; present {
		t.Error("Expected listing_id to be omitted for a full sync")
	}
	if len(runner.calls) != 1 || runner.calls[0] != "" {
		t.Errorf("Expected one full sync, got %v", runner.calls)
	}
}

func TestTriggerListingSync_BodyTakesPrecedenceOverQuery(t *testing.T) {
	runner := succeedingRunner()
	handler := NewJobsHandler(runner, nil).TriggerListingSync()

	req := httptest.NewRequest(http.MethodPost, "/sync/listings?listing_id=from-query", strings.NewReader(`{"listing_id":"from-body"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if len(runner.calls) != 1 || runner.calls[0] != "from-body" {
		t.Fatalf("Expected body listing id, got %v", runner.calls)
	}

	var resp dtos.SyncListingsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success || resp.Synced != 1 || resp.ListingID != "from-body" {
		t.Errorf("Unexpected response %+v", resp)
	}
}

func TestTriggerListingSync_QueryFallback(t *testing.T) {
	for _, body := range []string{"", "{}", "{not json"} {
		runner := succeedingRunner()
		handler := NewJobsHandler(runner, nil).TriggerListingSync()

		req := httptest.NewRequest(http.MethodPost, "/sync/listings?listing_id=Q1", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if len(runner.calls) != 1 || runner.calls[0] != "Q1" {
			t.Errorf("body %q: expected query listing id, got %v", body, runner.calls)
		}
	}
}

func TestTriggerListingSync_Options(t *testing.T) {
	runner := succeedingRunner()
	handler := NewJobsHandler(runner, nil).TriggerListingSync()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/sync/listings", nil))

	if rr.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rr.Code)
	}
	if len(runner.calls) != 0 {
		t.Error("Expected no sync on OPTIONS")
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected Access-Control-Allow-Origin *, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Errorf("Expected POST in allowed methods, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "Authorization") {
		t.Errorf("Expected Authorization in allowed headers, got %q", got)
	}
}

func TestTriggerListingSync_MethodNotAllowed(t *testing.T) {
	handler := NewJobsHandler(succeedingRunner(), nil).TriggerListingSync()

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(method, "/sync/listings", nil))

		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected status 405, got %d", method, rr.Code)
		}
		var body map[string]string
		_ = json.NewDecoder(rr.Body).Decode(&body)
		if body["error"] != "Method Not Allowed" {
			t.Errorf("%s: unexpected body %v", method, body)
		}
	}
}

func TestTriggerListingSync_ErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected int
	}{
		{"auth rejected", &providers.AuthError{Code: constants.ErrCodeAuthenticationFailed, Status: 401}, http.StatusUnauthorized},
		{"missing credentials", &providers.AuthError{Code: constants.ErrCodeMissingCredentials}, http.StatusInternalServerError},
		{"fetch failed", &providers.FetchError{Code: constants.ErrCodeRetriesExhausted, Page: 2, Attempts: 4}, http.StatusInternalServerError},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runner := &mockSyncRunner{syncFunc: func(ctx context.Context, listingID string) (*jobs.SyncResult, error) {
				return nil, tc.err
			}}
			handler := NewJobsHandler(runner, nil).TriggerListingSync()

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sync/listings", nil))

			if rr.Code != tc.expected {
				t.Errorf("Expected status %d, got %d", tc.expected, rr.Code)
			}

			var body dtos.SyncErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if body.Success || body.Error != tc.err.Error() {
				t.Errorf("Unexpected body %+v", body)
			}
		})
	}
}

func TestTriggerListingSync_DropsStatusCache(t *testing.T) {
	cache := common.NewCacheService(time.Minute, time.Minute)
	cache.Set(statusCacheKey, "stale", time.Minute)

	handler := NewJobsHandler(succeedingRunner(), cache).TriggerListingSync()
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sync/listings", nil))

	if _, found := cache.Get(statusCacheKey); found {
		t.Error("Expected status cache to be cleared after a run")
	}
}
