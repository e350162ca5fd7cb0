package repositories

import (
	"context"
	"errors"
	"time"

	"propertyhub/listingsync/internal/constants"
	"propertyhub/listingsync/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// archiveChunkSize keeps IN lists below SQLite's bound-variable limit.
const archiveChunkSize = 500

// listingUpsertColumns are refreshed on every observation. first_synced_at
// is deliberately absent so the original insert time survives.
var listingUpsertColumns = []string{
	"title", "address", "bedrooms", "bathrooms", "max_guests", "square_meters",
	"property_type", "status", "thumbnail_url", "highres_url", "images", "raw_data",
	"sync_status", "is_deleted", "last_synced",
}

// ListingRepo handles listings table operations
type ListingRepo struct {
	db *gormlib.DB
}

// NewListingRepo creates a new listing repository
func NewListingRepo(db *gormlib.DB) *ListingRepo {
	return &ListingRepo{db: db}
}

// Upsert inserts a listing or refreshes an existing one keyed by upstream id
// ON CONFLICT (id) DO UPDATE
func (r *ListingRepo) Upsert(ctx context.Context, listing *gorm.Listing) (string, error) {
	if listing.FirstSyncedAt.IsZero() {
		listing.FirstSyncedAt = listing.LastSynced
	}
	if listing.FirstSyncedAt.IsZero() {
		listing.FirstSyncedAt = time.Now().UTC()
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(listingUpsertColumns),
		}).
		Create(listing).Error
	if err != nil {
		return "", err
	}
	return listing.ID, nil
}

// FindByID finds a listing by upstream id
func (r *ListingRepo) FindByID(ctx context.Context, id string) (*gorm.Listing, error) {
	var listing gorm.Listing

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&listing).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &listing, nil
}

// ListActiveIDs returns the ids of every listing currently marked active
func (r *ListingRepo) ListActiveIDs(ctx context.Context) ([]string, error) {
	var ids []string

	err := r.db.WithContext(ctx).
		Model(&gorm.Listing{}).
		Where("sync_status = ?", constants.SyncStatusActive.String()).
		Pluck("id", &ids).Error

	return ids, err
}

// ArchiveByIDs marks the given listings archived and deleted in a single
// transaction and returns the number of rows touched.
func (r *ListingRepo) ArchiveByIDs(ctx context.Context, ids []string, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var archived int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		for start := 0; start < len(ids); start += archiveChunkSize {
			end := start + archiveChunkSize
			if end > len(ids) {
				end = len(ids)
			}

			res := tx.Model(&gorm.Listing{}).
				Where("id IN ?", ids[start:end]).
				Updates(map[string]interface{}{
					"sync_status": constants.SyncStatusArchived.String(),
					"is_deleted":  true,
					"last_synced": now,
				})
			if res.Error != nil {
				return res.Error
			}
			archived += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return archived, nil
}
