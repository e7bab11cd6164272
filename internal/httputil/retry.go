// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the retry policy and redirect safety checks
// shared by every upstream-facing operation.
// Implements: prd002-resilience (R1-R3).
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"
)

// ErrExhausted marks a transient failure that persisted through the whole
// retry budget. Callers match it with errors.Is; the wrapped cause is the
// last transient error observed (R1.4).
var ErrExhausted = errors.New("retry budget exhausted")

// RetryBaseDelay controls the base duration for exponential backoff on
// transient failures. The delay before retry n (1-indexed) is
// RetryBaseDelay * 2^(n-1): 2s, 4s, 8s. Tests override this to avoid real
// sleeps.
var RetryBaseDelay = 2 * time.Second

// DefaultMaxRetries is the retry budget used when a config leaves
// MaxRetries unset (R1.1).
const DefaultMaxRetries = 3

// connectionSentinel is the connectivity error the upstream service is
// known to report as a JSON-serialized string inside an otherwise-200
// response (R1.3).
const connectionSentinel = "Failed to establish a connection"

// RetryableStatus reports whether an HTTP status is retry-eligible. Only
// 503 qualifies; every other failure is handed to the degradation cascade
// instead (R1.2).
func RetryableStatus(status int) bool {
	return status == http.StatusServiceUnavailable
}

// ConnectivitySentinel reports whether a response body is the upstream's
// serialized connectivity error: a bare JSON string containing the sentinel
// text. Bodies holding JSON objects or arrays never match.
func ConnectivitySentinel(body []byte) bool {
	var s string
	if err := json.Unmarshal(body, &s); err != nil {
		return false
	}
	return strings.Contains(s, connectionSentinel)
}

// Backoff returns the delay before the given retry (0-indexed).
func Backoff(retry int) time.Duration {
	return time.Duration(math.Pow(2, float64(retry))) * RetryBaseDelay
}

// Sleep waits for d or until ctx is cancelled, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Attempt tracks retry state for one logical operation: retries consumed,
// the last transient cause, and the next backoff delay. An Attempt lives
// for a single operation and is discarded after success or exhaustion.
type Attempt struct {
	// Max is the retry budget. Zero or negative means DefaultMaxRetries.
	Max int

	retries int
	lastErr error
}

// Next records cause and reports whether another retry is allowed, along
// with the delay to wait before it. Once the budget is spent Next reports
// false; exhaustion is reported this way rather than raised so the caller
// decides degradation (R1.4).
func (a *Attempt) Next(cause error) (time.Duration, bool) {
	a.lastErr = cause
	budget := a.Max
	if budget <= 0 {
		budget = DefaultMaxRetries
	}
	if a.retries >= budget {
		return 0, false
	}
	delay := Backoff(a.retries)
	a.retries++
	return delay, true
}

// Retries returns the number of retries consumed so far.
func (a *Attempt) Retries() int { return a.retries }

// LastErr returns the most recently recorded cause, or nil.
func (a *Attempt) LastErr() error { return a.lastErr }
