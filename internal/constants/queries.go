package constants

const (
	GetRecentSyncRuns = `
		SELECT id, status, message, start_time, end_time, items_count
		FROM sync_logs
		WHERE service = ? AND sync_type = ?
		ORDER BY start_time DESC
		LIMIT ?`

	CountListingsBySyncStatus = `
		SELECT sync_status, COUNT(*) AS total
		FROM listings
		GROUP BY sync_status`
)
