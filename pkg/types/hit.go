// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// RawHit is the partial record returned by a search operation before a
// detail fetch: a loosely-typed bag of nested bibliographic, classification,
// and snippet blocks. Every block is optional; the accessors below tolerate
// absence at any depth and return zero values instead (R3.1). The fallback
// tiers reconstruct a best-effort Patent from a RawHit when the detail
// fetch is unavailable.
type RawHit struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Biblio  *Biblio  `json:"biblio"`
	Snippet *Snippet `json:"snippet"`
	Common  *Common  `json:"common"`
}

// Biblio holds per-language bibliographic blocks.
type Biblio struct {
	Ru *BiblioEntry `json:"ru"`
	En *BiblioEntry `json:"en"`
}

// BiblioEntry is one language's bibliographic block.
type BiblioEntry struct {
	Title    string       `json:"title"`
	Inventor []NamedField `json:"inventor"`
	Patentee []NamedField `json:"patentee"`
}

// NamedField is a nested upstream object carrying a display name.
type NamedField struct {
	Name string `json:"name"`
}

// Snippet is the display-snippet block. Its fields may embed markup, which
// consumers strip before use.
type Snippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Common is the language-independent block: dates and classification.
type Common struct {
	PublicationDate string          `json:"publication_date"`
	Application     *Application    `json:"application"`
	Classification  *Classification `json:"classification"`
}

// Application holds filing metadata.
type Application struct {
	FilingDate string `json:"filing_date"`
}

// Classification holds classification code lists.
type Classification struct {
	IPC []IPCEntry `json:"ipc"`
}

// IPCEntry is one International Patent Classification assignment.
type IPCEntry struct {
	Fullname string `json:"fullname"`
}

// RuTitle returns the primary-language bibliographic title, trimmed, or ""
// when the block is absent.
func (h RawHit) RuTitle() string {
	if h.Biblio == nil || h.Biblio.Ru == nil {
		return ""
	}
	return strings.TrimSpace(h.Biblio.Ru.Title)
}

// EnTitle returns the secondary-language bibliographic title, trimmed, or ""
// when the block is absent.
func (h RawHit) EnTitle() string {
	if h.Biblio == nil || h.Biblio.En == nil {
		return ""
	}
	return strings.TrimSpace(h.Biblio.En.Title)
}

// SnippetTitle returns the display-snippet title, trimmed and possibly still
// carrying markup, or "" when the block is absent.
func (h RawHit) SnippetTitle() string {
	if h.Snippet == nil {
		return ""
	}
	return strings.TrimSpace(h.Snippet.Title)
}

// SnippetDescription returns the display-snippet description, trimmed and
// possibly still carrying markup, or "" when the block is absent.
func (h RawHit) SnippetDescription() string {
	if h.Snippet == nil {
		return ""
	}
	return strings.TrimSpace(h.Snippet.Description)
}

// DirectTitle returns the hit's flat title field, trimmed.
func (h RawHit) DirectTitle() string {
	return strings.TrimSpace(h.Title)
}

// InventorNames returns the primary-language inventor names, empty entries
// dropped.
func (h RawHit) InventorNames() []string {
	if h.Biblio == nil || h.Biblio.Ru == nil {
		return nil
	}
	return fieldNames(h.Biblio.Ru.Inventor)
}

// PatenteeNames returns the primary-language patent holder names, empty
// entries dropped.
func (h RawHit) PatenteeNames() []string {
	if h.Biblio == nil || h.Biblio.Ru == nil {
		return nil
	}
	return fieldNames(h.Biblio.Ru.Patentee)
}

// IPCNames returns the full classification code names, empty entries
// dropped.
func (h RawHit) IPCNames() []string {
	if h.Common == nil || h.Common.Classification == nil {
		return nil
	}
	var out []string
	for _, e := range h.Common.Classification.IPC {
		if e.Fullname != "" {
			out = append(out, e.Fullname)
		}
	}
	return out
}

// PublicationDateRaw returns the unparsed publication date string, or "".
func (h RawHit) PublicationDateRaw() string {
	if h.Common == nil {
		return ""
	}
	return h.Common.PublicationDate
}

// FilingDateRaw returns the unparsed application filing date string, or "".
func (h RawHit) FilingDateRaw() string {
	if h.Common == nil || h.Common.Application == nil {
		return ""
	}
	return h.Common.Application.FilingDate
}

func fieldNames(fields []NamedField) []string {
	var out []string
	for _, f := range fields {
		if f.Name != "" {
			out = append(out, f.Name)
		}
	}
	return out
}
