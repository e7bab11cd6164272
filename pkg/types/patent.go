// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the patent-engine pipeline.
// Implements: prd001-retrieval (Patent, SearchFilter, R1.1-R1.4);
//
//	prd003-fallback (RawHit accessors, Synthetic marker, R3.1-R3.6);
//	prd005-archive (storage tags).
package types

import (
	"fmt"
	"strings"
	"time"
)

// FallbackTitle returns the generated display title substituted when a
// record carries no usable title of its own (R1.2).
func FallbackTitle(id string) string {
	return fmt.Sprintf("Patent «%s»", id)
}

// Patent is the canonical retrieved entity. Build one with NewPatent so the
// construction invariants hold: the title is never empty, and list fields
// carry no duplicates or empty entries (R1.1). A Patent is never mutated
// after construction; reconstruction tiers build a new value instead.
type Patent struct {
	// ID is the stable external identifier (e.g. "RU2023123456").
	ID string `json:"id" yaml:"id"`

	// Title is the patent title. Never empty after construction; a
	// fallback derived from ID is substituted when the source has none.
	Title string `json:"title" yaml:"title"`

	// PublicationDate is the publication date. Zero means unknown.
	PublicationDate time.Time `json:"publication_date" yaml:"publication_date"`

	// ApplicationDate is the filing date. Zero means unknown.
	ApplicationDate time.Time `json:"application_date" yaml:"application_date"`

	// Authors lists inventors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// PatentHolders lists assignees in source order.
	PatentHolders []string `json:"patent_holders" yaml:"patent_holders"`

	// IPCCodes lists International Patent Classification codes.
	IPCCodes []string `json:"ipc_codes" yaml:"ipc_codes"`

	// Abstract is free text and may be empty.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Claims is free text and may be empty.
	Claims string `json:"claims" yaml:"claims"`

	// Description is free text and may be empty.
	Description string `json:"description" yaml:"description"`

	// Synthetic marks placeholder records produced when no live data could
	// be obtained, so downstream consumers can warn users (R3.6).
	Synthetic bool `json:"synthetic" yaml:"synthetic"`
}

// NewPatent returns a structurally valid Patent built from raw field values.
// An empty title falls back to FallbackTitle(ID); Authors, PatentHolders and
// IPCCodes are deduplicated with empty entries dropped.
func NewPatent(raw Patent) Patent {
	p := raw
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		p.Title = FallbackTitle(p.ID)
	}
	p.Authors = cleanList(p.Authors)
	p.PatentHolders = cleanList(p.PatentHolders)
	p.IPCCodes = cleanList(p.IPCCodes)
	return p
}

// HasDates reports whether both calendar dates are known.
func (p Patent) HasDates() bool {
	return !p.PublicationDate.IsZero() && !p.ApplicationDate.IsZero()
}

// cleanList trims entries, drops empties, and removes duplicates while
// preserving source order.
func cleanList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
