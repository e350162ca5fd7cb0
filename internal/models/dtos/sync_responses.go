package dtos

import "time"

// SyncListingsRequest is the optional POST body of the sync trigger.
type SyncListingsRequest struct {
	ListingID string `json:"listing_id,omitempty"`
}

// SyncListingsResponse is returned on a successful run.
type SyncListingsResponse struct {
	Success   bool   `json:"success"`
	Synced    int    `json:"synced"`
	Archived  int    `json:"archived"`
	ListingID string `json:"listing_id,omitempty"`
}

// SyncErrorResponse is returned when a run fails fatally.
type SyncErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SyncRunSummary is one row of the sync status endpoint.
type SyncRunSummary struct {
	ID         string    `json:"id" db:"id"`
	Status     string    `json:"status" db:"status"`
	Message    string    `json:"message" db:"message"`
	StartTime  time.Time `json:"start_time" db:"start_time"`
	EndTime    time.Time `json:"end_time" db:"end_time"`
	ItemsCount int       `json:"items_count" db:"items_count"`
}

// SyncStatusResponse is the body of GET /sync/listings/status.
type SyncStatusResponse struct {
	Success          bool             `json:"success"`
	ActiveListings   int64            `json:"active_listings"`
	ArchivedListings int64            `json:"archived_listings"`
	RecentRuns       []SyncRunSummary `json:"recent_runs"`
}
