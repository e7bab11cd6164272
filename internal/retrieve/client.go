// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieve implements the resilient document retrieval pipeline
// against the upstream patent search service: query search, similarity
// search, and detail fetch, with transient-failure retries, manual redirect
// validation, and degradation through the reconstruction tiers.
// Implements: prd001-retrieval (R1-R5); prd002-resilience (R4).
package retrieve

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bkuznetsov/patent-engine/internal/cascade"
	"github.com/bkuznetsov/patent-engine/internal/httputil"
	"github.com/bkuznetsov/patent-engine/pkg/types"
)

// defaultBaseURL is the production search service root, used when the
// config leaves BaseURL empty.
var defaultBaseURL = "https://searchplatform.rospatent.gov.ru/patsearch/v0.2"

const (
	defaultTimeout = 30 * time.Second

	// connectTimeout bounds dialing separately from the overall request
	// timeout; the upstream's internal redirect targets hang at connect.
	connectTimeout = 10 * time.Second

	// defaultLimit is the result count used when the caller passes none.
	defaultLimit = 10
)

// Client performs retrieval operations against the upstream service. Failed
// fetches degrade through the reconstruction orchestrator instead of
// surfacing errors (R4.2). A Client holds no per-operation state, so
// concurrent calls are safe.
type Client struct {
	cfg     types.RetrievalConfig
	log     *slog.Logger
	cascade *cascade.Orchestrator
}

// NewClient returns a Client with config defaults applied.
func NewClient(log *slog.Logger, cfg types.RetrievalConfig, orchestrator *cascade.Orchestrator) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{cfg: cfg, log: log, cascade: orchestrator}
}

// newSession builds the HTTP client for one logical operation. Redirects
// are surfaced to the caller rather than followed, so every target passes
// validation first (R2.1). The release func drops whatever connections the
// session opened; callers defer it on every exit path (R5.2).
func (c *Client) newSession() (*http.Client, func()) {
	transport := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
	}
	client := &http.Client{
		Timeout:   c.cfg.Timeout,
		Transport: transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return client, transport.CloseIdleConnections
}

// doJSON issues one JSON request and returns the raw response body. When
// retryable is true, transient failures (503 and the connectivity sentinel)
// consume the retry budget with exponential backoff (R1.1-R1.4); everything
// else returns immediately for the caller to degrade on.
func (c *Client) doJSON(ctx context.Context, sess *http.Client, method, reqURL string, payload any, retryable bool) ([]byte, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
	}

	attempt := &httputil.Attempt{Max: c.cfg.MaxRetries}
	for {
		data, err := c.once(ctx, sess, method, reqURL, body)
		if err == nil {
			return data, nil
		}
		if !retryable || !isTransient(err) {
			return nil, err
		}
		delay, ok := attempt.Next(err)
		if !ok {
			return nil, fmt.Errorf("%w: %w", httputil.ErrExhausted, attempt.LastErr())
		}
		c.log.Warn("transient upstream failure, backing off",
			"url", reqURL, "delay", delay, "attempt", attempt.Retries(), "error", err)
		if serr := httputil.Sleep(ctx, delay); serr != nil {
			return nil, serr
		}
	}
}

// once performs a single attempt: the request, at most one validated
// redirect hop (R2.3), and body classification. A 503 arriving after the
// hop is still reported as transient.
func (c *Client) once(ctx context.Context, sess *http.Client, method, reqURL string, body []byte) ([]byte, error) {
	resp, err := c.issue(ctx, sess, method, reqURL, body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusMovedPermanently || resp.StatusCode == http.StatusFound {
		target := resp.Header.Get("Location")
		resp.Body.Close()
		if cerr := httputil.CheckRedirectTarget(target); cerr != nil {
			return nil, cerr
		}
		c.log.Info("following redirect", "target", target)
		resp, err = c.issue(ctx, sess, method, target, body)
		if err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{status: resp.StatusCode}
	}
	if httputil.ConnectivitySentinel(data) {
		return nil, errConnectivity
	}
	return data, nil
}

// issue builds and sends one request. The identical method, headers, and
// body serve both the original URL and any redirect target (R2.3).
func (c *Client) issue(ctx context.Context, sess *http.Client, method, reqURL string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.JWT)
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := sess.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, reqURL, err)
	}
	return resp, nil
}

// statusError is a non-200 upstream answer.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d", e.status)
}

// errConnectivity is the connectivity failure the upstream reports as a
// serialized string inside a 200 response.
var errConnectivity = errors.New("upstream reported a connectivity failure")

// isTransient reports whether err may clear on retry (R1.2).
func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return httputil.RetryableStatus(se.status)
	}
	return errors.Is(err, errConnectivity)
}
