package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"propertyhub/listingsync/internal/constants"
	"propertyhub/listingsync/internal/logging"
	"propertyhub/listingsync/internal/metrics"
	"propertyhub/listingsync/internal/providers"

	"go.uber.org/zap"
)

// SyncState names the phases of one run, used in logs
type SyncState string

const (
	StateIdle           SyncState = "idle"
	StateAuthenticating SyncState = "authenticating"
	StateFetching       SyncState = "fetching"
	StateUpserting      SyncState = "upserting"
	StateReconciling    SyncState = "reconciling"
	StateLogging        SyncState = "logging"
	StateDone           SyncState = "done"
	StateFailed         SyncState = "failed"
)

// SyncResult describes a run that got past authentication and fetching
type SyncResult struct {
	Mode      constants.SyncMode
	ListingID string
	Fetched   int
	Synced    int
	Archived  int

	// Per-record MapError / UpsertError values; they do not fail the run
	Failures []error
	// Set when reconciliation failed; Archived is then 0
	ArchiveErr error

	StartTime time.Time
	EndTime   time.Time
}

// ListingSyncJob pulls listings from Guesty into the local mirror
type ListingSyncJob struct {
	tokens    providers.TokenSource
	fetcher   providers.ListingFetcher
	store     ListingStore
	archiver  *ReconciliationArchiver
	runLogger *SyncRunLogger
	metrics   *metrics.MetricsRegistry
	now       func() time.Time
}

// NewListingSyncJob creates a new listing sync job instance. reg may be nil.
func NewListingSyncJob(
	tokens providers.TokenSource,
	fetcher providers.ListingFetcher,
	store ListingStore,
	logWriter SyncLogWriter,
	reg *metrics.MetricsRegistry,
) *ListingSyncJob {
	now := func() time.Time { return time.Now().UTC() }
	return &ListingSyncJob{
		tokens:    tokens,
		fetcher:   fetcher,
		store:     store,
		archiver:  NewReconciliationArchiver(store, now),
		runLogger: NewSyncRunLogger(logWriter),
		metrics:   reg,
		now:       now,
	}
}

// Sync runs one invocation. An empty listingID means a full-catalog sync
// followed by reconciliation; otherwise only that listing is refreshed.
// The returned error is always a *providers.AuthError or
// *providers.FetchError; everything else is reported on the result.
func (j *ListingSyncJob) Sync(ctx context.Context, listingID string) (*SyncResult, error) {
	listingID = strings.TrimSpace(listingID)
	mode := constants.SyncModeFull
	if listingID != "" {
		mode = constants.SyncModeSingle
	}

	result := &SyncResult{
		Mode:      mode,
		ListingID: listingID,
		StartTime: j.now(),
	}
	log := logging.Component("ListingSyncJob").With("mode", string(mode), "listing_id", listingID)
	transition(log, StateIdle, StateAuthenticating)

	token, err := j.tokens.Token(ctx)
	if err != nil {
		return nil, j.fail(ctx, log, StateAuthenticating, result, err)
	}

	transition(log, StateAuthenticating, StateFetching)

	var records []json.RawMessage
	if mode == constants.SyncModeSingle {
		records, err = j.fetcher.FetchListing(ctx, token, listingID)
	} else {
		records, err = j.fetcher.FetchListings(ctx, token)
	}
	if err != nil {
		return nil, j.fail(ctx, log, StateFetching, result, err)
	}
	result.Fetched = len(records)

	transition(log, StateFetching, StateUpserting)

	remoteIDs := make(map[string]struct{}, len(records))
	attempted := 0
	for i, raw := range records {
		listing, err := MapListing(raw, j.now())
		if err != nil {
			var mapErr *MapError
			if errors.As(err, &mapErr) {
				mapErr.Index = i
			}
			log.Warnw("Skipping listing that failed to map", "index", i, "error", err.Error())
			result.Failures = append(result.Failures, err)
			j.countFailure("map")
			continue
		}

		attempted++
		id, err := j.store.Upsert(ctx, listing)
		if err != nil {
			upsertErr := &UpsertError{ListingID: listing.ID, Err: err}
			log.Warnw("Skipping listing that failed to persist", "upstream_id", listing.ID, "error", err.Error())
			result.Failures = append(result.Failures, upsertErr)
			j.countFailure("upsert")
			continue
		}

		remoteIDs[id] = struct{}{}
		result.Synced++
	}

	switch {
	case mode != constants.SyncModeFull || attempted == 0:
		transition(log, StateUpserting, StateLogging)
	case ctx.Err() != nil:
		// a cancelled run cannot tell missing listings from unwritten ones
		log.Warnw("Skipping reconciliation for cancelled run", "error", ctx.Err().Error())
		transition(log, StateUpserting, StateLogging)
	default:
		transition(log, StateUpserting, StateReconciling)

		archived, err := j.archiver.Archive(ctx, remoteIDs)
		if err != nil {
			log.Errorw("Reconciliation failed; reporting zero archived", "error", err.Error())
			result.ArchiveErr = err
			archived = 0
		}
		result.Archived = archived
		transition(log, StateReconciling, StateLogging)
	}

	result.EndTime = j.now()
	_ = j.runLogger.Log(ctx, SyncOutcome{
		Count:     result.Synced,
		Archived:  result.Archived,
		ListingID: listingID,
		StartTime: result.StartTime,
		EndTime:   result.EndTime,
	})

	j.observe(result, constants.SyncLogStatusOK)
	log.Infow("Listing sync completed",
		"state", StateDone,
		"fetched", result.Fetched,
		"synced", result.Synced,
		"failed", len(result.Failures),
		"archived", result.Archived,
		"duration", result.EndTime.Sub(result.StartTime).Truncate(time.Millisecond).String(),
	)

	return result, nil
}

// Run executes a full-catalog sync; used by the scheduler
func (j *ListingSyncJob) Run(ctx context.Context) error {
	_, err := j.Sync(ctx, "")
	return err
}

// RunScheduled runs the full sync on a schedule until ctx is done
func (j *ListingSyncJob) RunScheduled(ctx context.Context, interval time.Duration) {
	log := logging.Component("ListingSyncJob")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	if err := j.Run(ctx); err != nil {
		log.Errorw("Error in initial run", "error", err.Error())
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				log.Errorw("Error in scheduled run", "error", err.Error())
			}
		case <-ctx.Done():
			log.Infow("Shutting down scheduled sync")
			return
		}
	}
}

// fail logs the fatal outcome exactly once and hands the error back
func (j *ListingSyncJob) fail(ctx context.Context, log *zap.SugaredLogger, from SyncState, result *SyncResult, err error) error {
	transition(log, from, StateFailed)
	log.Errorw("Listing sync failed", "error", err.Error())

	result.EndTime = j.now()
	_ = j.runLogger.Log(ctx, SyncOutcome{
		ListingID: result.ListingID,
		Err:       err,
		StartTime: result.StartTime,
		EndTime:   result.EndTime,
	})
	j.observe(result, constants.SyncLogStatusFailed)
	return err
}

func (j *ListingSyncJob) observe(result *SyncResult, status string) {
	if j.metrics == nil {
		return
	}
	j.metrics.SyncRunsTotal.WithLabelValues(string(result.Mode), status).Inc()
	j.metrics.SyncJobDuration.WithLabelValues(string(result.Mode)).Observe(result.EndTime.Sub(result.StartTime).Seconds())
	j.metrics.ListingsUpsertedTotal.Add(float64(result.Synced))
	j.metrics.ListingsArchivedTotal.Add(float64(result.Archived))
}

func (j *ListingSyncJob) countFailure(stage string) {
	if j.metrics != nil {
		j.metrics.ListingsFailedTotal.WithLabelValues(stage).Inc()
	}
}

func transition(log *zap.SugaredLogger, from, to SyncState) {
	log.Debugw("Sync state transition", "from", from, "to", to)
}
