package constants

// Tags written to every sync_logs row produced by the listing sync.
const (
	SyncServiceGuesty   = "guesty"
	SyncTypeListings    = "listings"
	SyncLogStatusOK     = "success"
	SyncLogStatusFailed = "error"
)

// SyncStatus mirrors the listings.sync_status column.
type SyncStatus string

const (
	SyncStatusActive   SyncStatus = "active"
	SyncStatusArchived SyncStatus = "archived"
)

func (s SyncStatus) String() string { return string(s) }

// SyncMode distinguishes a full-catalog run from a single-listing run.
type SyncMode string

const (
	SyncModeFull   SyncMode = "full"
	SyncModeSingle SyncMode = "single"
)
