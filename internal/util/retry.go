// ABOUTME: Retry utilities for API calls with exponential backoff
// ABOUTME: Used by the embedding client to space out retries of failed batches
package util

import (
	"context"
	"math/rand/v2"
	"time"
)

// MaxBackoff caps a single retry delay
const MaxBackoff = 30 * time.Second

// CalculateBackoff returns exponential backoff with jitter.
// Base delay is doubled each attempt, with random jitter up to 25%.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}
	// keep the shift in range
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > MaxBackoff || backoff <= 0 {
		backoff = MaxBackoff
	}
	spread := int64(backoff) / 2
	if spread <= 0 {
		return backoff
	}
	// -25% to +25%
	jitter := time.Duration(rand.Int64N(spread)) - backoff/4
	return backoff + jitter
}

// Wait sleeps for the backoff of attempt, returning early with ctx's error
// if ctx is done first
func Wait(ctx context.Context, baseDelay time.Duration, attempt int) error {
	d := CalculateBackoff(baseDelay, attempt)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
