// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bkuznetsov/patent-engine/pkg/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newAnalysisServer mocks the token endpoint and the chat endpoint. Each
// chat call answers with content as the completion text.
func newAnalysisServer(t *testing.T, content string) (*httptest.Server, *int32) {
	t.Helper()
	var tokenCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)

		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			t.Errorf("bad basic auth: %q / %q", user, pass)
		}
		if r.Header.Get("RqUID") == "" {
			t.Error("token request missing RqUID header")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing token form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.PostForm.Get("scope"); got != "GIGACHAT_API_PERS" {
			t.Errorf("scope = %q", got)
		}

		json.NewEncoder(w).Encode(map[string]string{"access_token": "test-token"})
	})
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding chat request: %v", err)
		}
		if req.Model != "GigaChat" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, &tokenCalls
}

func newTestClient(ts *httptest.Server) *Client {
	return NewClient(testLogger(), types.EnrichConfig{
		AuthURL:      ts.URL + "/oauth",
		BaseURL:      ts.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	})
}

func TestAnalyzeText(t *testing.T) {
	enrichment := types.Enrichment{
		Title:         "Rechargeable cell with solid electrolyte",
		Abstract:      "A cell using a solid electrolyte layer.",
		Authors:       []string{"Ivanov I.I."},
		PatentHolders: []string{"OOO Energiya"},
		IPCCodes:      []string{"H01M 10/04"},
	}
	content, err := json.Marshal(enrichment)
	if err != nil {
		t.Fatal(err)
	}

	ts, _ := newAnalysisServer(t, string(content))
	c := newTestClient(ts)

	got, err := c.AnalyzeText(context.Background(), "battery cell text")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}
	if got.Title != enrichment.Title {
		t.Errorf("title = %q, want %q", got.Title, enrichment.Title)
	}
	if len(got.Authors) != 1 || got.Authors[0] != "Ivanov I.I." {
		t.Errorf("authors = %v", got.Authors)
	}
	if len(got.IPCCodes) != 1 || got.IPCCodes[0] != "H01M 10/04" {
		t.Errorf("ipc codes = %v", got.IPCCodes)
	}
}

func TestAnalyzeTextFreshTokenPerCall(t *testing.T) {
	ts, tokenCalls := newAnalysisServer(t, `{"title":"x"}`)
	c := newTestClient(ts)

	for i := 0; i < 2; i++ {
		if _, err := c.AnalyzeText(context.Background(), "text"); err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
	}
	if got := atomic.LoadInt32(tokenCalls); got != 2 {
		t.Errorf("token requests = %d, want one per analysis call", got)
	}
}

func TestAnalyzeTextAuthFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := NewClient(testLogger(), types.EnrichConfig{
		AuthURL:      ts.URL + "/oauth",
		BaseURL:      ts.URL,
		ClientID:     "bad",
		ClientSecret: "bad",
	})

	_, err := c.AnalyzeText(context.Background(), "text")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "access token") {
		t.Errorf("error = %v, want token failure", err)
	}
}

func TestAnalyzeTextNonJSONContent(t *testing.T) {
	ts, _ := newAnalysisServer(t, "Certainly! Here is the record you asked for.")
	c := newTestClient(ts)

	_, err := c.AnalyzeText(context.Background(), "text")
	if err == nil {
		t.Fatal("expected an error for non-JSON content")
	}
}

func TestAnalyzeTextNoChoices(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "test-token"})
	})
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"choices":[]}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := NewClient(testLogger(), types.EnrichConfig{
		AuthURL:      ts.URL + "/oauth",
		BaseURL:      ts.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	})

	_, err := c.AnalyzeText(context.Background(), "text")
	if err == nil {
		t.Fatal("expected an error for empty choices")
	}
}
