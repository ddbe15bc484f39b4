package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"atlas/internal/catalog/models"
	"atlas/internal/platform/metrics"
)

// Retrier wraps a Remote with a constant-backoff retry policy: transient
// failures (HTTP status, empty body, transport) are retried up to MaxRetries
// times after the first attempt; a bad endpoint or undecodable payload stops
// immediately. Total attempts <= MaxRetries + 1.
type Retrier struct {
	remote     Remote
	maxRetries int
	delay      time.Duration
	log        *slog.Logger
	metrics    *metrics.Metrics
}

// NewRetrier builds the retry wrapper. Metrics may be nil in tests.
func NewRetrier(remote Remote, maxRetries int, delay time.Duration, log *slog.Logger, m *metrics.Metrics) *Retrier {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Retrier{
		remote:     remote,
		maxRetries: maxRetries,
		delay:      delay,
		log:        log,
		metrics:    m,
	}
}

// Fetch runs the wrapped remote through the retry policy. The returned error
// is the last attempt's categorized error once the policy is exhausted.
func (r *Retrier) Fetch(ctx context.Context) ([]models.Country, error) {
	var countries []models.Country

	operation := func() error {
		fetched, err := r.remote.Fetch(ctx)
		if err != nil {
			r.observeAttempt(string(GetCategory(err)))
			if !IsRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		r.observeAttempt("success")
		countries = fetched
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.delay), uint64(r.maxRetries)),
		ctx,
	)

	notify := func(err error, next time.Duration) {
		r.log.Warn("fetch attempt failed, retrying",
			"error", err.Error(),
			"category", string(GetCategory(err)),
			"retry_in", next.String(),
		)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	return countries, nil
}

func (r *Retrier) observeAttempt(outcome string) {
	if r.metrics != nil {
		r.metrics.FetchAttempts.WithLabelValues(outcome).Inc()
	}
}
