package repositories

import (
	"context"

	"propertyhub/listingsync/internal/constants"
	"propertyhub/listingsync/internal/models/dtos"

	"github.com/jmoiron/sqlx"
)

// SyncRunRepository serves the read side of the sync status endpoint
type SyncRunRepository struct {
	db *sqlx.DB
}

func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// RecentRuns returns the latest listing sync runs, newest first
func (r *SyncRunRepository) RecentRuns(ctx context.Context, limit int) ([]dtos.SyncRunSummary, error) {
	runs := []dtos.SyncRunSummary{}
	query := r.db.Rebind(constants.GetRecentSyncRuns)

	err := r.db.SelectContext(ctx, &runs, query,
		constants.SyncServiceGuesty,
		constants.SyncTypeListings,
		limit,
	)
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// ListingCounts returns how many listings are active and archived
func (r *SyncRunRepository) ListingCounts(ctx context.Context) (active int64, archived int64, err error) {
	var rows []struct {
		SyncStatus string `db:"sync_status"`
		Total      int64  `db:"total"`
	}

	if err := r.db.SelectContext(ctx, &rows, constants.CountListingsBySyncStatus); err != nil {
		return 0, 0, err
	}

	for _, row := range rows {
		switch constants.SyncStatus(row.SyncStatus) {
		case constants.SyncStatusActive:
			active = row.Total
		case constants.SyncStatusArchived:
			archived = row.Total
		}
	}
	return active, archived, nil
}
