package repositories

import (
	"context"
	"sort"
	"testing"
	"time"

	"propertyhub/listingsync/internal/constants"
	"propertyhub/listingsync/internal/db/dbtest"
	gormModels "propertyhub/listingsync/internal/models/gorm"

	"gorm.io/datatypes"
)

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func newListing(id, title string, at time.Time) *gormModels.Listing {
	return &gormModels.Listing{
		ID:         id,
		Title:      strPtr(title),
		Bedrooms:   intPtr(2),
		RawData:    datatypes.JSONMap{"_id": id, "title": title},
		SyncStatus: constants.SyncStatusActive.String(),
		LastSynced: at,
	}
}

func TestListingRepo_Upsert_InsertThenUpdate(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewListingRepo(db)
	ctx := context.Background()

	first := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	id, err := repo.Upsert(ctx, newListing("A", "Old title", first))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if id != "A" {
		t.Errorf("Expected id A, got %s", id)
	}

	second := first.Add(time.Hour)
	if _, err := repo.Upsert(ctx, newListing("A", "New title", second)); err != nil {
		t.Fatalf("Expected no error on update, got %v", err)
	}

	got, err := repo.FindByID(ctx, "A")
	if err != nil || got == nil {
		t.Fatalf("Expected listing A, got %v (err %v)", got, err)
	}

	if got.Title == nil || *got.Title != "New title" {
		t.Errorf("Expected refreshed title, got %v", got.Title)
	}
	if !got.FirstSyncedAt.Equal(first) {
		t.Errorf("Expected first_synced_at %s to survive, got %s", first, got.FirstSyncedAt)
	}
	if !got.LastSynced.Equal(second) {
		t.Errorf("Expected last_synced %s, got %s", second, got.LastSynced)
	}

	var count int64
	db.Model(&gormModels.Listing{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 row, got %d", count)
	}
}

func TestListingRepo_Upsert_ReactivatesArchived(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewListingRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	repo.Upsert(ctx, newListing("A", "A", now))
	if _, err := repo.ArchiveByIDs(ctx, []string{"A"}, now); err != nil {
		t.Fatalf("Expected no error archiving, got %v", err)
	}

	if _, err := repo.Upsert(ctx, newListing("A", "A", now.Add(time.Minute))); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, _ := repo.FindByID(ctx, "A")
	if got.SyncStatus != constants.SyncStatusActive.String() || got.IsDeleted {
		t.Errorf("Expected listing reactivated, got status=%s deleted=%v", got.SyncStatus, got.IsDeleted)
	}
}

func TestListingRepo_ArchiveByIDs(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewListingRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, id := range []string{"A", "B", "C"} {
		repo.Upsert(ctx, newListing(id, id, now))
	}

	archived, err := repo.ArchiveByIDs(ctx, []string{"B"}, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if archived != 1 {
		t.Errorf("Expected 1 archived, got %d", archived)
	}

	ids, err := repo.ListActiveIDs(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	sort.Strings(ids)
	if len(ids) != 2 || ids[0] != "A" || ids[1] != "C" {
		t.Errorf("Expected active [A C], got %v", ids)
	}

	b, _ := repo.FindByID(ctx, "B")
	if b.SyncStatus != constants.SyncStatusArchived.String() || !b.IsDeleted {
		t.Errorf("Expected B archived and deleted, got status=%s deleted=%v", b.SyncStatus, b.IsDeleted)
	}
}

func TestListingRepo_ArchiveByIDs_Empty(t *testing.T) {
	repo := NewListingRepo(dbtest.Open(t))

	archived, err := repo.ArchiveByIDs(context.Background(), nil, time.Now())
	if err != nil || archived != 0 {
		t.Errorf("Expected no-op, got %d (err %v)", archived, err)
	}
}

func TestListingRepo_FindByID_NotFound(t *testing.T) {
	repo := NewListingRepo(dbtest.Open(t))

	got, err := repo.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil listing, got %+v", got)
	}
}

func TestSyncRunRepository_RecentRunsAndCounts(t *testing.T) {
	db := dbtest.Open(t)
	logRepo := NewSyncLogRepo(db)
	listingRepo := NewListingRepo(db)
	runRepo := NewSyncRunRepository(dbtest.SQLX(t, db))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := logRepo.Create(ctx, &gormModels.SyncLogEntry{
			Service:    constants.SyncServiceGuesty,
			SyncType:   constants.SyncTypeListings,
			Status:     constants.SyncLogStatusOK,
			Message:    "ok",
			StartTime:  base.Add(time.Duration(i) * time.Hour),
			EndTime:    base.Add(time.Duration(i)*time.Hour + time.Minute),
			ItemsCount: i,
		})
		if err != nil {
			t.Fatalf("Failed to create log entry: %v", err)
		}
	}

	runs, err := runRepo.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].ItemsCount != 2 {
		t.Errorf("Expected newest run first, got items_count %d", runs[0].ItemsCount)
	}
	if runs[0].ID == "" {
		t.Error("Expected generated id on log entry")
	}

	now := time.Now().UTC()
	listingRepo.Upsert(ctx, newListing("A", "A", now))
	listingRepo.Upsert(ctx, newListing("B", "B", now))
	listingRepo.ArchiveByIDs(ctx, []string{"B"}, now)

	active, archived, err := runRepo.ListingCounts(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if active != 1 || archived != 1 {
		t.Errorf("Expected 1 active and 1 archived, got %d/%d", active, archived)
	}
}
