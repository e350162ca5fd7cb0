package jobs

import (
	"context"
	"fmt"
	"time"

	"propertyhub/listingsync/internal/constants"
	"propertyhub/listingsync/internal/logging"
	gormModels "propertyhub/listingsync/internal/models/gorm"
)

const syncLogWriteTimeout = 5 * time.Second

// SyncLogWriter persists sync_logs rows
type SyncLogWriter interface {
	Create(ctx context.Context, entry *gormModels.SyncLogEntry) error
}

// SyncOutcome is what a run reports to the SyncRunLogger
type SyncOutcome struct {
	Count     int
	Archived  int
	ListingID string // empty for full-catalog runs
	Err       error  // non-nil only for fatal failures
	StartTime time.Time
	EndTime   time.Time
}

// SyncRunLogger writes exactly one sync_logs row per run
type SyncRunLogger struct {
	writer SyncLogWriter
}

func NewSyncRunLogger(writer SyncLogWriter) *SyncRunLogger {
	return &SyncRunLogger{writer: writer}
}

// Log records the outcome. Failures are logged and swallowed; the returned
// error is only informational.
func (l *SyncRunLogger) Log(ctx context.Context, outcome SyncOutcome) error {
	status := constants.SyncLogStatusOK
	if outcome.Err != nil {
		status = constants.SyncLogStatusFailed
	}

	entry := &gormModels.SyncLogEntry{
		Service:    constants.SyncServiceGuesty,
		SyncType:   constants.SyncTypeListings,
		Status:     status,
		Message:    outcomeMessage(outcome),
		StartTime:  outcome.StartTime,
		EndTime:    outcome.EndTime,
		ItemsCount: outcome.Count,
	}

	// The row must land even when the caller's request has gone away.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), syncLogWriteTimeout)
	defer cancel()

	if err := l.writer.Create(writeCtx, entry); err != nil {
		logErr := &LogError{Err: err}
		logging.Component("SyncRunLogger").Warnw("Failed to record sync run", "error", logErr.Error())
		return logErr
	}
	return nil
}

func outcomeMessage(o SyncOutcome) string {
	switch {
	case o.Err != nil && o.ListingID != "":
		return fmt.Sprintf("Sync of listing %s failed: %v", o.ListingID, o.Err)
	case o.Err != nil:
		return fmt.Sprintf("Full listing sync failed: %v", o.Err)
	case o.ListingID != "" && o.Count == 0:
		return fmt.Sprintf("Listing %s was fetched but could not be synced", o.ListingID)
	case o.ListingID != "":
		return fmt.Sprintf("Synced listing %s from Guesty", o.ListingID)
	default:
		return fmt.Sprintf("Synced %d listings from Guesty, archived %d", o.Count, o.Archived)
	}
}
