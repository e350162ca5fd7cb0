package jobs

import (
	"fmt"

	"propertyhub/listingsync/internal/constants"
)

// MapError marks one upstream record that could not be turned into a
// listing row. It never fails the run.
type MapError struct {
	ListingID string // empty when the record has no usable id
	Index     int    // position in the fetched batch
	Code      string
	Err       error
}

func (e *MapError) Error() string {
	msg := fmt.Sprintf("%s (record %d", constants.GetErrorMessage(e.Code), e.Index)
	if e.ListingID != "" {
		msg += ", listing " + e.ListingID
	}
	msg += ")"
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *MapError) Unwrap() error {
	return e.Err
}

// UpsertError marks one listing that failed to persist. It never fails
// the run.
type UpsertError struct {
	ListingID string
	Err       error
}

func (e *UpsertError) Error() string {
	return fmt.Sprintf("%s (listing %s): %v", constants.GetErrorMessage(constants.ErrCodeUpsertFailed), e.ListingID, e.Err)
}

func (e *UpsertError) Unwrap() error {
	return e.Err
}

// ArchiveError reports a failed reconciliation. The run still succeeds
// with an archived count of zero.
type ArchiveError struct {
	Candidates int
	Err        error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("%s (%d candidates): %v", constants.GetErrorMessage(constants.ErrCodeArchiveFailed), e.Candidates, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// LogError is a failure to write the sync_logs row. It is logged and
// swallowed.
type LogError struct {
	Err error
}

func (e *LogError) Error() string {
	return fmt.Sprintf("%s: %v", constants.GetErrorMessage(constants.ErrCodeSyncLogFailed), e.Err)
}

func (e *LogError) Unwrap() error {
	return e.Err
}
