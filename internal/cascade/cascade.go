// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cascade reconstructs best-effort Patent records when the primary
// detail fetch fails, degrading through ordered tiers that absorb failures
// instead of raising them.
// Implements: prd003-fallback (R1-R3).
package cascade

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bkuznetsov/patent-engine/internal/dates"
	"github.com/bkuznetsov/patent-engine/internal/textutil"
	"github.com/bkuznetsov/patent-engine/pkg/types"
)

// Status tags how the Patent inside a Result was obtained.
type Status string

const (
	// Resolved marks a record parsed from a full detail fetch.
	Resolved Status = "resolved"

	// Degraded marks a record reconstructed from lesser sources after the
	// detail fetch failed.
	Degraded Status = "degraded"

	// Unresolved marks a request no tier could serve. Only a structurally
	// invalid request (empty identifier) ends here (R3.3).
	Unresolved Status = "unresolved"
)

// Result is the tagged outcome of one reconstruction request.
type Result struct {
	Status Status
	Patent types.Patent
	Reason string
}

// Request carries whatever context survived the failed fetch: always the
// identifier, plus the originating search hit when one exists.
type Request struct {
	ID   string
	Hit  *types.RawHit
	Cause error
}

// Analyzer is the external text-analysis collaborator. Implementations
// derive structured patent fields from a free-text blob. The orchestrator
// treats the analyzer as best-effort: failures and empty answers are logged
// and reconstruction proceeds with locally gathered fields (R2.4).
type Analyzer interface {
	AnalyzeText(ctx context.Context, text string) (*types.Enrichment, error)
}

// Orchestrator walks the reconstruction tiers in order. It holds no state
// across calls, so concurrent use is safe.
type Orchestrator struct {
	log      *slog.Logger
	analyzer Analyzer
}

// New returns an Orchestrator. analyzer may be nil, which skips the
// enrichment step of hit-derived reconstruction.
func New(log *slog.Logger, analyzer Analyzer) *Orchestrator {
	return &Orchestrator{log: log, analyzer: analyzer}
}

// Reconstruct builds the best Patent the surviving context allows. With a
// hit it applies hit-derived reconstruction plus one enrichment attempt
// (R2.1-R2.5); with only an identifier it synthesizes a bare record (R3.1).
// The request's identifier is the one input no tier can do without.
func (o *Orchestrator) Reconstruct(ctx context.Context, req Request) Result {
	if req.ID == "" {
		return Result{Status: Unresolved, Reason: "empty identifier"}
	}
	if req.Hit != nil {
		return o.fromHit(ctx, req)
	}
	return o.fromID(req)
}

// fromHit assembles a Patent from the nested hit fields. Absent fields
// degrade to empty values, never to an error.
func (o *Orchestrator) fromHit(ctx context.Context, req Request) Result {
	hit := req.Hit

	title := hit.RuTitle()
	if title == "" {
		title = hit.EnTitle()
	}
	if title == "" {
		title = textutil.Clean(hit.SnippetTitle())
	}
	if title == "" {
		title = hit.DirectTitle()
	}
	// An upstream bug sometimes echoes the identifier as the title; treat
	// that the same as no title at all (R2.2).
	if title == "" || title == req.ID {
		title = types.FallbackTitle(req.ID)
	}

	patent := types.NewPatent(types.Patent{
		ID:              req.ID,
		Title:           title,
		PublicationDate: o.parseDate(req.ID, "publication_date", hit.PublicationDateRaw()),
		ApplicationDate: o.parseDate(req.ID, "filing_date", hit.FilingDateRaw()),
		Authors:         textutil.CleanAll(hit.InventorNames()),
		PatentHolders:   textutil.CleanAll(hit.PatenteeNames()),
		IPCCodes:        textutil.CleanAll(hit.IPCNames()),
		Abstract:        textutil.Clean(hit.SnippetDescription()),
	})
	patent = o.enrich(ctx, patent)

	reason := "reconstructed from search hit"
	if req.Cause != nil {
		reason = fmt.Sprintf("%s after detail fetch failure: %v", reason, req.Cause)
	}
	o.log.Info("degraded to hit-derived record", "patent", req.ID, "title", patent.Title)
	return Result{Status: Degraded, Patent: patent, Reason: reason}
}

// fromID synthesizes a record from nothing but the identifier. No
// enrichment is attempted here; there is no text worth analyzing.
func (o *Orchestrator) fromID(req Request) Result {
	patent := types.NewPatent(types.Patent{
		ID:    req.ID,
		Title: types.FallbackTitle(req.ID),
	})

	reason := "reconstructed from identifier only"
	if req.Cause != nil {
		reason = fmt.Sprintf("%s: %v", reason, req.Cause)
	}
	o.log.Info("degraded to bare-identifier record", "patent", req.ID)
	return Result{Status: Degraded, Patent: patent, Reason: reason}
}

// enrich makes the single best-effort analysis call and merges the answer.
// The collaborator may overwrite the title only while it is still the
// generated placeholder, and fill authors/holders only while they are empty
// (R2.5). Dates and text fields from the collaborator are not merged.
func (o *Orchestrator) enrich(ctx context.Context, patent types.Patent) types.Patent {
	if o.analyzer == nil {
		return patent
	}

	placeholder := types.FallbackTitle(patent.ID)
	text := placeholder
	switch {
	case runeLen(patent.Abstract) > 20:
		text = patent.Abstract
	case patent.Title != placeholder && runeLen(patent.Title) > 5:
		text = patent.Title
	}

	enrichment, err := o.analyzer.AnalyzeText(ctx, text)
	if err != nil {
		o.log.Warn("text analysis failed", "patent", patent.ID, "error", err)
		return patent
	}
	if enrichment.Empty() {
		o.log.Warn("text analysis returned no fields", "patent", patent.ID)
		return patent
	}

	if enrichment.Title != "" && patent.Title == placeholder {
		patent.Title = enrichment.Title
	}
	if len(enrichment.Authors) > 0 && len(patent.Authors) == 0 {
		patent.Authors = enrichment.Authors
	}
	if len(enrichment.PatentHolders) > 0 && len(patent.PatentHolders) == 0 {
		patent.PatentHolders = enrichment.PatentHolders
	}
	return types.NewPatent(patent)
}

func (o *Orchestrator) parseDate(id, field, raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, ok := dates.Parse(raw)
	if !ok {
		o.log.Warn("unparseable date in hit", "patent", id, "field", field, "value", raw)
	}
	return t
}

func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
