// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bkuznetsov/patent-engine/internal/cascade"
	"github.com/bkuznetsov/patent-engine/pkg/types"
)

// ErrEmptyQuery reports a structurally invalid search request.
var ErrEmptyQuery = errors.New("search query is empty")

// SearchOutput is the result of one query search. When Demo is set the
// patents are synthesized placeholders, not live data (R3.6).
type SearchOutput struct {
	Query         string         `json:"query"`
	Patents       []types.Patent `json:"patents"`
	Demo          bool           `json:"demo"`
	Reconstructed int            `json:"reconstructed"`
	FetchErrors   []string       `json:"fetch_errors,omitempty"`
}

// SearchByQuery searches for patents matching query and fetches the full
// document for every hit. Hits whose detail fetch fails are reconstructed
// from the hit itself; if nothing at all could be assembled the caller
// still receives a non-empty, clearly marked placeholder set (R3.5, R4.3).
// The errors surfaced are a structurally empty query and cancellation.
func (c *Client) SearchByQuery(ctx context.Context, query string, limit int, filter *types.SearchFilter) (*SearchOutput, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	sess, release := c.newSession()
	defer release()

	payload := searchRequest{Query: query, Limit: limit}
	if filter != nil && !filter.IsZero() {
		payload.Filter = buildFilter(*filter)
	}

	c.log.Info("searching patents", "query", query, "limit", limit)
	data, err := c.doJSON(ctx, sess, http.MethodPost, c.cfg.BaseURL+"/search", payload, true)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.log.Error("search request failed, synthesizing placeholders", "query", query, "error", err)
		return c.demoOutput(query, limit), nil
	}

	var sr searchResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		c.log.Error("undecodable search response, synthesizing placeholders", "query", query, "error", err)
		return c.demoOutput(query, limit), nil
	}
	if len(sr.Hits) == 0 {
		c.log.Warn("search returned no hits, synthesizing placeholders", "query", query)
		return c.demoOutput(query, limit), nil
	}

	out := &SearchOutput{Query: query}
	for i := range sr.Hits {
		hit := &sr.Hits[i]
		if hit.ID == "" {
			continue
		}

		patent, err := c.fetchDocument(ctx, sess, hit.ID, false)
		if err == nil {
			out.Patents = append(out.Patents, patent)
			continue
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		c.log.Warn("detail fetch failed, reconstructing from hit", "patent", hit.ID, "error", err)
		res := c.cascade.Reconstruct(ctx, cascade.Request{ID: hit.ID, Hit: hit, Cause: err})
		if res.Status == cascade.Unresolved {
			continue
		}
		out.Patents = append(out.Patents, res.Patent)
		out.Reconstructed++
		out.FetchErrors = append(out.FetchErrors, fmt.Sprintf("%s: %v", hit.ID, err))
	}

	if len(out.Patents) == 0 {
		c.log.Warn("no patents assembled, synthesizing placeholders", "query", query)
		return c.demoOutput(query, limit), nil
	}

	c.log.Info("search completed", "query", query,
		"patents", len(out.Patents), "reconstructed", out.Reconstructed)
	return out, nil
}

func (c *Client) demoOutput(query string, limit int) *SearchOutput {
	return &SearchOutput{
		Query:   query,
		Patents: cascade.DemoPatents(query, limit),
		Demo:    true,
	}
}

// --- Wire types ---

type searchRequest struct {
	Query  string       `json:"qn"`
	Limit  int          `json:"limit"`
	Filter *queryFilter `json:"filter,omitempty"`
}

type searchResponse struct {
	Hits []types.RawHit `json:"hits"`
}

// queryFilter is the upstream filter clause. Field clauses absent from the
// caller's filter are omitted entirely.
type queryFilter struct {
	Country       *filterValues `json:"country,omitempty"`
	IPC           *filterValues `json:"classification.ipc,omitempty"`
	DatePublished *dateRange    `json:"date_published,omitempty"`
}

type filterValues struct {
	Values []string `json:"values"`
}

type dateRange struct {
	Range rangeBounds `json:"range"`
}

type rangeBounds struct {
	GTE string `json:"gte,omitempty"`
	LTE string `json:"lte,omitempty"`
}

// buildFilter translates the caller's filter to the wire clause. Dates use
// the upstream's compact YYYYMMDD form.
func buildFilter(f types.SearchFilter) *queryFilter {
	qf := &queryFilter{}
	if len(f.Countries) > 0 {
		qf.Country = &filterValues{Values: f.Countries}
	}
	if len(f.IPCCodes) > 0 {
		qf.IPC = &filterValues{Values: f.IPCCodes}
	}
	if !f.PublishedFrom.IsZero() || !f.PublishedTo.IsZero() {
		var r rangeBounds
		if !f.PublishedFrom.IsZero() {
			r.GTE = f.PublishedFrom.Format("20060102")
		}
		if !f.PublishedTo.IsZero() {
			r.LTE = f.PublishedTo.Format("20060102")
		}
		qf.DatePublished = &dateRange{Range: r}
	}
	return qf
}
