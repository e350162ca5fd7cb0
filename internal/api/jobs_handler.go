package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"propertyhub/listingsync/internal/auth"
	"propertyhub/listingsync/internal/common"
	"propertyhub/listingsync/internal/constants"
	reqctx "propertyhub/listingsync/internal/context"
	"propertyhub/listingsync/internal/jobs"
	"propertyhub/listingsync/internal/logging"
	"propertyhub/listingsync/internal/models/dtos"
	"propertyhub/listingsync/internal/providers"
)

const maxTriggerBodyBytes = 1 << 20

// SyncRunner runs one listing sync invocation
type SyncRunner interface {
	Sync(ctx context.Context, listingID string) (*jobs.SyncResult, error)
}

// JobsHandler exposes the listing sync trigger
type JobsHandler struct {
	runner SyncRunner
	cache  common.CacheInterface // optional; status cache is dropped after a run
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(runner SyncRunner, cache common.CacheInterface) *JobsHandler {
	return &JobsHandler{
		runner: runner,
		cache:  cache,
	}
}

// TriggerListingSync handles POST /sync/listings
//
// An optional listing_id in the JSON body, or else in the query string,
// restricts the run to that listing and skips reconciliation.
func (h *JobsHandler) TriggerListingSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodOptions:
			setCORSHeaders(w)
			w.WriteHeader(http.StatusNoContent)
			return
		case http.MethodPost:
		default:
			common.RespondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method Not Allowed"})
			return
		}

		listingID := readListingID(r)
		log := logging.WithRequest(reqctx.GetRequestID(r.Context()), r.URL.Path).With(
			"listing_id", listingID,
			"source", constants.RequestSourceAPI,
		)
		if claims := auth.GetTriggerClaims(r.Context()); claims != nil {
			log = log.With("triggered_by", claims.Subject)
		}
		log.Infow("Listing sync triggered")

		result, err := h.runner.Sync(r.Context(), listingID)
		if err != nil {
			code := statusForSyncError(err)
			log.Errorw("Listing sync failed", "status_code", code, "error", err.Error())
			common.RespondError(w, code, err.Error())
			return
		}

		if h.cache != nil {
			h.cache.Delete(statusCacheKey)
		}

		common.RespondJSON(w, http.StatusOK, dtos.SyncListingsResponse{
			Success:   true,
			Synced:    result.Synced,
			Archived:  result.Archived,
			ListingID: result.ListingID,
		})
	}
}

// readListingID prefers the JSON body over the query string. A missing or
// unreadable body is treated as absent.
func readListingID(r *http.Request) string {
	if r.Body != nil {
		var req dtos.SyncListingsRequest
		err := json.NewDecoder(io.LimitReader(r.Body, maxTriggerBodyBytes)).Decode(&req)
		switch {
		case err == nil:
			if id := strings.TrimSpace(req.ListingID); id != "" {
				return id
			}
		case !errors.Is(err, io.EOF):
			logging.Warn("Ignoring unreadable sync trigger body", "error", err.Error())
		}
	}
	return strings.TrimSpace(r.URL.Query().Get("listing_id"))
}

func statusForSyncError(err error) int {
	var authErr *providers.AuthError
	if errors.As(err, &authErr) && authErr.Code != constants.ErrCodeMissingCredentials {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
