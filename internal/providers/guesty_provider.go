package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"propertyhub/listingsync/internal/config"
	"propertyhub/listingsync/internal/constants"
	"propertyhub/listingsync/internal/logging"
	"propertyhub/listingsync/internal/metrics"
	"propertyhub/listingsync/internal/models/dtos"
)

// ListingFetcher reads listings from the upstream API
type ListingFetcher interface {
	// FetchListing fetches a single listing by upstream id, unfiltered
	FetchListing(ctx context.Context, token string, listingID string) ([]json.RawMessage, error)

	// FetchListings pages through the whole catalog and returns the active records
	FetchListings(ctx context.Context, token string) ([]json.RawMessage, error)
}

// GuestyProvider implements ListingFetcher for the Guesty Open API
type GuestyProvider struct {
	BaseURL   string
	Client    *http.Client
	BatchSize int
	Retry     RetryPolicy
	Metrics   *metrics.MetricsRegistry // optional
}

var _ ListingFetcher = (*GuestyProvider)(nil)

// NewGuestyProvider creates a new Guesty provider
func NewGuestyProvider(cfg *config.Config, reg *metrics.MetricsRegistry) *GuestyProvider {
	return &GuestyProvider{
		BaseURL:   cfg.APIBaseURL,
		Client:    &http.Client{Timeout: cfg.UpstreamTimeout},
		BatchSize: cfg.BatchSize,
		Retry:     NewRetryPolicy(cfg),
		Metrics:   reg,
	}
}

// FetchListing fetches a single listing. Any non-2xx ends the run.
func (p *GuestyProvider) FetchListing(ctx context.Context, token string, listingID string) ([]json.RawMessage, error) {
	endpoint := "/listings/" + url.PathEscape(listingID)

	resp, body, err := p.doGET(ctx, token, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Code: constants.ErrCodeNetworkError, ListingID: listingID, Attempts: 1, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		code := constants.ErrCodeUpstreamHTTPError
		switch resp.StatusCode {
		case http.StatusNotFound:
			code = constants.ErrCodeListingNotFound
		case http.StatusTooManyRequests:
			code = constants.ErrCodeRateLimited
		}
		return nil, &FetchError{
			Code:      code,
			Status:    resp.StatusCode,
			ListingID: listingID,
			Attempts:  1,
			Details:   string(body),
		}
	}

	return []json.RawMessage{json.RawMessage(body)}, nil
}

// FetchListings walks the catalog page by page. A 429 re-issues the same
// page after a backoff; the walk stops at the first page holding fewer
// than BatchSize records.
func (p *GuestyProvider) FetchListings(ctx context.Context, token string) ([]json.RawMessage, error) {
	log := logging.Component("GuestyProvider")
	batch := p.batchSize()

	var all []json.RawMessage
	page := 1
	retryCount := 0

	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(batch))
		query.Set("skip", strconv.Itoa((page-1)*batch))
		query.Set("page", strconv.Itoa(page))

		resp, body, err := p.doGET(ctx, token, "/listings", query)
		if err != nil {
			return nil, &FetchError{Code: constants.ErrCodeNetworkError, Page: page, Attempts: retryCount + 1, Err: err}
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			retryCount++
			if p.Metrics != nil {
				p.Metrics.UpstreamRateLimitedTotal.Inc()
			}
			log.Warnw("Rate limited by upstream",
				"page", page,
				"retry", retryCount,
				"retry_after", resp.Header.Get("Retry-After"),
				"ratelimit_reset", resp.Header.Get("X-RateLimit-Reset"),
				"ratelimit_remaining", resp.Header.Get("X-RateLimit-Remaining"),
			)

			if p.Retry.Exhausted(retryCount) {
				return nil, &FetchError{
					Code:     constants.ErrCodeRetriesExhausted,
					Status:   resp.StatusCode,
					Page:     page,
					Attempts: retryCount,
					Details:  string(body),
				}
			}

			delay := p.Retry.Backoff(retryCount)
			log.Infow("Backing off before retrying page", "page", page, "delay", delay.String())
			if err := p.Retry.Wait(ctx, retryCount); err != nil {
				return nil, &FetchError{Code: constants.ErrCodeRateLimited, Status: resp.StatusCode, Page: page, Attempts: retryCount, Err: err}
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &FetchError{
				Code:     constants.ErrCodeUpstreamHTTPError,
				Status:   resp.StatusCode,
				Page:     page,
				Attempts: retryCount + 1,
				Details:  string(body),
			}
		}

		retryCount = 0

		results, err := parseResults(body)
		if err != nil {
			return nil, &FetchError{
				Code:    constants.ErrCodeMalformedResponse,
				Status:  resp.StatusCode,
				Page:    page,
				Details: truncate(string(body), 512),
				Err:     err,
			}
		}

		all = append(all, results...)
		log.Debugw("Fetched listings page", "page", page, "count", len(results), "total", len(all))

		if len(results) < batch {
			break
		}
		page++
	}

	active := filterActive(all)
	log.Infow("Fetched listing catalog", "pages", page, "fetched", len(all), "active", len(active))
	return active, nil
}

// doGET performs an authenticated GET and returns the drained body
func (p *GuestyProvider) doGET(ctx context.Context, token string, endpoint string, query url.Values) (*http.Response, []byte, error) {
	target := p.BaseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if p.Metrics != nil {
		label := endpoint
		if endpoint != "/listings" {
			label = "/listings/{id}"
		}
		p.Metrics.UpstreamRequestsTotal.WithLabelValues(label, strconv.Itoa(resp.StatusCode)).Inc()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp, body, nil
}

func (p *GuestyProvider) batchSize() int {
	if p.BatchSize <= 0 {
		return 100
	}
	return p.BatchSize
}

// parseResults extracts the `results` array of a listings page
func parseResults(body []byte) ([]json.RawMessage, error) {
	var envelope struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	raw := bytes.TrimSpace(envelope.Results)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("response has no results array")
	}

	var results []json.RawMessage
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return results, nil
}

// filterActive drops records whose status is set to anything but active.
// Records that are not objects are kept so the mapper can reject them.
func filterActive(records []json.RawMessage) []json.RawMessage {
	active := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		var doc dtos.ListingDocument
		if err := json.Unmarshal(rec, &doc); err != nil || doc == nil {
			active = append(active, rec)
			continue
		}
		if doc.IsActive() {
			active = append(active, rec)
		}
	}
	return active
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
