package jobs

import (
	"context"
	"sort"
	"time"

	"propertyhub/listingsync/internal/logging"
	gormModels "propertyhub/listingsync/internal/models/gorm"
)

// ListingStore is the persistence the sync needs from the listings table
type ListingStore interface {
	Upsert(ctx context.Context, listing *gormModels.Listing) (string, error)
	ListActiveIDs(ctx context.Context) ([]string, error)
	ArchiveByIDs(ctx context.Context, ids []string, now time.Time) (int64, error)
}

// ReconciliationArchiver archives every locally active listing that is
// missing from the latest full fetch.
type ReconciliationArchiver struct {
	store ListingStore
	now   func() time.Time
}

func NewReconciliationArchiver(store ListingStore, now func() time.Time) *ReconciliationArchiver {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &ReconciliationArchiver{store: store, now: now}
}

// Archive computes localActive - remoteIDs and archives the difference in
// one batch. Returns the number of listings archived.
func (a *ReconciliationArchiver) Archive(ctx context.Context, remoteIDs map[string]struct{}) (int, error) {
	localIDs, err := a.store.ListActiveIDs(ctx)
	if err != nil {
		return 0, &ArchiveError{Err: err}
	}

	toArchive := make([]string, 0)
	for _, id := range localIDs {
		if _, seen := remoteIDs[id]; !seen {
			toArchive = append(toArchive, id)
		}
	}

	if len(toArchive) == 0 {
		return 0, nil
	}
	sort.Strings(toArchive)

	archived, err := a.store.ArchiveByIDs(ctx, toArchive, a.now())
	if err != nil {
		return 0, &ArchiveError{Candidates: len(toArchive), Err: err}
	}

	logging.Component("ReconciliationArchiver").Infow("Archived listings missing upstream",
		"local_active", len(localIDs),
		"remote", len(remoteIDs),
		"archived", archived,
	)
	return int(archived), nil
}
