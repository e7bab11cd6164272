// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Enrichment is the structured object an external text-analysis
// collaborator derives from a free-text blob. Every field is optional; the
// reconstruction tiers merge only what is present and never require an
// Enrichment for correctness (R3.4).
type Enrichment struct {
	Title           string   `json:"title,omitempty"`
	Abstract        string   `json:"abstract,omitempty"`
	Description     string   `json:"description,omitempty"`
	Authors         []string `json:"authors,omitempty"`
	PatentHolders   []string `json:"patent_holders,omitempty"`
	IPCCodes        []string `json:"ipc_codes,omitempty"`
	PublicationDate string   `json:"publication_date,omitempty"`
	ApplicationDate string   `json:"application_date,omitempty"`
}

// Empty reports whether the enrichment carries no usable fields at all.
func (e *Enrichment) Empty() bool {
	if e == nil {
		return true
	}
	return e.Title == "" && e.Abstract == "" && e.Description == "" &&
		len(e.Authors) == 0 && len(e.PatentHolders) == 0 && len(e.IPCCodes) == 0 &&
		e.PublicationDate == "" && e.ApplicationDate == ""
}
