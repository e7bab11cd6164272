// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bkuznetsov/patent-engine/internal/cascade"
	"github.com/bkuznetsov/patent-engine/pkg/types"
)

// ErrEmptyID reports a structurally invalid fetch request. It is the only
// failure FetchByID surfaces besides cancellation: no record can even be
// attempted without an identifier (R4.4).
var ErrEmptyID = errors.New("patent identifier is empty")

// FetchOutput is the result of one fetch-by-id operation, tagged with how
// the record was obtained.
type FetchOutput struct {
	Patent types.Patent   `json:"patent"`
	Status cascade.Status `json:"status"`
	Reason string         `json:"reason,omitempty"`
}

// FetchByID retrieves the full document for id. Transient failures are
// retried; every other failure, including a missing document, degrades to a
// reconstructed record rather than an error (R4.2).
func (c *Client) FetchByID(ctx context.Context, id string) (*FetchOutput, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyID
	}

	sess, release := c.newSession()
	defer release()

	c.log.Info("fetching patent", "patent", id)
	patent, err := c.fetchDocument(ctx, sess, id, true)
	if err == nil {
		return &FetchOutput{Patent: patent, Status: cascade.Resolved}, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	c.log.Warn("detail fetch failed, degrading", "patent", id, "error", err)
	res := c.cascade.Reconstruct(ctx, cascade.Request{ID: id, Cause: err})
	if res.Status == cascade.Unresolved {
		return nil, fmt.Errorf("reconstructing %s: %s", id, res.Reason)
	}
	return &FetchOutput{Patent: res.Patent, Status: res.Status, Reason: res.Reason}, nil
}

// fetchDocument retrieves and parses one detail document. Detail fetches
// issued inside a search loop pass retryable=false: the surrounding
// operation already spent its transient budget on the search call itself.
func (c *Client) fetchDocument(ctx context.Context, sess *http.Client, id string, retryable bool) (types.Patent, error) {
	data, err := c.doJSON(ctx, sess, http.MethodGet, c.cfg.BaseURL+"/docs/"+url.PathEscape(id), nil, retryable)
	if err != nil {
		return types.Patent{}, err
	}
	return c.parseDocument(data, id)
}
