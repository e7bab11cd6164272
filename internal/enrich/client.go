// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich calls the external text-analysis service that derives
// structured patent fields from a free-text blob. The reconstruction tiers
// consume it as a best-effort collaborator: any failure here is absorbed
// upstream, never required for correctness.
// Implements: prd004-enrichment (R1-R3).
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bkuznetsov/patent-engine/pkg/types"
)

// Default endpoints for the analysis service. Declared as vars so tests can
// substitute httptest servers.
var (
	DefaultAuthURL = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	DefaultBaseURL = "https://gigachat.devices.sberbank.ru/api/v1"
)

const (
	// DefaultScope is the OAuth2 scope for personal API access.
	DefaultScope = "GIGACHAT_API_PERS"

	// DefaultModel is the completion model used for field extraction.
	DefaultModel = "GigaChat"

	defaultTimeout = 30 * time.Second
)

// Client talks to the analysis service over its OAuth2-protected chat API.
// Tokens are short-lived, so the client requests a fresh one per analysis
// call rather than caching (R1.2).
type Client struct {
	cfg  types.EnrichConfig
	log  *slog.Logger
	http *http.Client
}

// NewClient returns a Client with config defaults applied.
func NewClient(log *slog.Logger, cfg types.EnrichConfig) *Client {
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Scope == "" {
		cfg.Scope = DefaultScope
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:  cfg,
		log:  log,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// AnalyzeText asks the service to derive structured patent fields from
// text. The answer arrives as a JSON document inside the first completion
// choice (R2.1-R2.3).
func (c *Client) AnalyzeText(ctx context.Context, text string) (*types.Enrichment, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtaining access token: %w", err)
	}

	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: enrichmentSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(enrichmentUserPrompt, text)},
		},
		Temperature: 0.7,
		MaxTokens:   6000,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating analysis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analysis service returned HTTP %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing analysis response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("analysis response carried no choices")
	}

	content := strings.TrimSpace(cr.Choices[0].Message.Content)
	var enrichment types.Enrichment
	if err := json.Unmarshal([]byte(content), &enrichment); err != nil {
		return nil, fmt.Errorf("parsing analysis content as JSON: %w", err)
	}

	c.log.Debug("text analysis completed", "fields_title", enrichment.Title != "", "authors", len(enrichment.Authors))
	return &enrichment, nil
}

// token performs the OAuth2 client-credentials exchange. Every request
// carries a fresh RqUID; the service rejects reused ones (R1.3).
func (c *Client) token(ctx context.Context) (string, error) {
	form := url.Values{
		"scope":      {c.cfg.Scope},
		"grant_type": {"client_credentials"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("RqUID", uuid.NewString())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned HTTP %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token response carried no access_token")
	}
	return tr.AccessToken, nil
}

// --- Wire types ---

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
