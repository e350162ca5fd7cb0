package constants

type (
	RequestSource string
	CachePrefix   string
)

const (
	RequestSourceAPI       RequestSource = "API"
	RequestSourceScheduler RequestSource = "SCHEDULER"

	CachePrefixSyncStatus CachePrefix = "SYNC_STATUS_"
)
