package providers

import (
	"context"
	"time"

	"propertyhub/listingsync/internal/config"
)

// RetryPolicy bounds how a rate-limited request is retried. Sleep is
// injectable so tests can observe the backoff without waiting for it.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Sleep      func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy builds the policy from configuration.
func NewRetryPolicy(cfg *config.Config) RetryPolicy {
	return RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.BackoffBase,
		MaxDelay:   cfg.BackoffMax,
		Sleep:      SleepContext,
	}
}

// Backoff returns min(BaseDelay * 2^retry, MaxDelay).
func (p RetryPolicy) Backoff(retry int) time.Duration {
	if retry < 0 {
		retry = 0
	}
	if retry >= 30 {
		return p.MaxDelay
	}
	d := p.BaseDelay * time.Duration(1<<uint(retry))
	if d <= 0 || (p.MaxDelay > 0 && d > p.MaxDelay) {
		return p.MaxDelay
	}
	return d
}

// Exhausted reports whether retry has gone past the ceiling.
func (p RetryPolicy) Exhausted(retry int) bool {
	return retry > p.MaxRetries
}

// Wait sleeps for the backoff of the given retry.
func (p RetryPolicy) Wait(ctx context.Context, retry int) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	return sleep(ctx, p.Backoff(retry))
}

// SleepContext blocks for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
