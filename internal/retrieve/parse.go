// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bkuznetsov/patent-engine/internal/dates"
	"github.com/bkuznetsov/patent-engine/internal/textutil"
	"github.com/bkuznetsov/patent-engine/pkg/types"
)

// patentDocument is the detail endpoint's nested answer. Only the fields
// the pipeline consumes are mapped; the bibliographic and common blocks
// share their shape with search hits.
type patentDocument struct {
	ID          string        `json:"id"`
	Biblio      *types.Biblio `json:"biblio"`
	Common      *types.Common `json:"common"`
	Abstract    *textBlock    `json:"abstract"`
	Claims      *textBlock    `json:"claims"`
	Description *textBlock    `json:"description"`
}

// textBlock is a per-language free-text field. The pipeline consumes the
// primary language only.
type textBlock struct {
	Ru string `json:"ru"`
}

func (b *textBlock) text() string {
	if b == nil {
		return ""
	}
	return b.Ru
}

// parseDocument maps a detail document onto a Patent (R4.1). The title
// falls back from the primary-language field to the secondary one, then to
// the generated title; text fields are normalized; dates that fail to parse
// are logged and left unset.
func (c *Client) parseDocument(data []byte, id string) (types.Patent, error) {
	var doc patentDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return types.Patent{}, fmt.Errorf("parsing document %s: %w", id, err)
	}

	biblio := types.RawHit{Biblio: doc.Biblio, Common: doc.Common}

	title := biblio.RuTitle()
	if title == "" {
		title = biblio.EnTitle()
	}
	if title == "" {
		title = types.FallbackTitle(id)
	}

	patent := types.NewPatent(types.Patent{
		ID:              id,
		Title:           title,
		PublicationDate: c.parseDate(id, "publication_date", biblio.PublicationDateRaw()),
		ApplicationDate: c.parseDate(id, "filing_date", biblio.FilingDateRaw()),
		Authors:         textutil.CleanAll(biblio.InventorNames()),
		PatentHolders:   textutil.CleanAll(biblio.PatenteeNames()),
		IPCCodes:        textutil.CleanAll(biblio.IPCNames()),
		Abstract:        textutil.Clean(doc.Abstract.text()),
		Claims:          textutil.Clean(doc.Claims.text()),
		Description:     textutil.Clean(doc.Description.text()),
	})
	if !patent.HasDates() {
		c.log.Warn("document carries incomplete dates", "patent", id,
			"publication", patent.PublicationDate, "application", patent.ApplicationDate)
	}
	return patent, nil
}

func (c *Client) parseDate(id, field, raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, ok := dates.Parse(raw)
	if !ok {
		c.log.Warn("unparseable date in document", "patent", id, "field", field, "value", raw)
	}
	return t
}
