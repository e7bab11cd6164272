package retrieve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bkuznetsov/patent-engine/internal/textutil"
	"github.com/bkuznetsov/patent-engine/pkg/types"
)

// ErrEmptyText reports a structurally invalid similarity request.
var ErrEmptyText = errors.New("similarity text is empty")

// minSimilarWords is the text length below which the upstream similarity
// matcher is known to answer poorly.
const minSimilarWords = 50

// SimilarOutput is the result of one similarity search. Unlike query
// search, an empty result set is a valid outcome here: similarity results
// are suggestions, and synthesizing placeholders for them would mislead.
type SimilarOutput struct {
	Patents     []types.Patent `json:"patents"`
	Skipped     int            `json:"skipped"`
	FetchErrors []string       `json:"fetch_errors,omitempty"`
}

// SearchSimilar finds patents whose text resembles the given text. Hits
// whose detail fetch fails are skipped, not reconstructed.
func (c *Client) SearchSimilar(ctx context.Context, text string, limit int) (*SimilarOutput, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if words := textutil.CountWords(text); words < minSimilarWords {
		c.log.Warn("similarity text below recommended length", "words", words, "recommended", minSimilarWords)
	}

	sess, release := c.newSession()
	defer release()

	payload := similarRequest{TypeSearch: "text_search", Text: text, Count: limit}
	data, err := c.doJSON(ctx, sess, http.MethodPost, c.cfg.BaseURL+"/similar_search", payload, true)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.log.Error("similarity search failed", "error", err)
		return &SimilarOutput{}, nil
	}

	var sr similarResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		c.log.Error("undecodable similarity response", "error", err)
		return &SimilarOutput{}, nil
	}

	out := &SimilarOutput{}
	for i := range sr.Data {
		hit := &sr.Data[i]
		if hit.ID == "" {
			continue
		}
		patent, err := c.fetchDocument(ctx, sess, hit.ID, false)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log.Warn("skipping similar patent, detail fetch failed", "patent", hit.ID, "error", err)
			out.Skipped++
			out.FetchErrors = append(out.FetchErrors, fmt.Sprintf("%s: %v", hit.ID, err))
			continue
		}
		out.Patents = append(out.Patents, patent)
	}

	c.log.Info("similarity search completed", "patents", len(out.Patents), "skipped", out.Skipped)
	return out, nil
}

type similarRequest struct {
	TypeSearch string `json:"type_search"`
	Text       string `json:"pat_text"`
	Count      int    `json:"count"`
}

type similarResponse struct {
	Data []types.RawHit `json:"data"`
}
