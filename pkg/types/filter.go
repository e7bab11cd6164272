// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SearchFilter holds optional constraints applied to a search query (R1.3).
// The zero value imposes no constraints. A filter shapes the outbound query
// only; it has no lifecycle beyond a single call.
type SearchFilter struct {
	// Countries restricts results to publication country codes (e.g. "RU").
	Countries []string `json:"countries,omitempty" yaml:"countries,omitempty"`

	// IPCCodes restricts results to IPC classification codes.
	IPCCodes []string `json:"ipc_codes,omitempty" yaml:"ipc_codes,omitempty"`

	// PublishedFrom and PublishedTo bound the publication date, inclusive.
	// A zero time leaves that bound open.
	PublishedFrom time.Time `json:"published_from,omitempty" yaml:"published_from,omitempty"`
	PublishedTo   time.Time `json:"published_to,omitempty" yaml:"published_to,omitempty"`
}

// IsZero reports whether the filter imposes no constraints.
func (f SearchFilter) IsZero() bool {
	return len(f.Countries) == 0 && len(f.IPCCodes) == 0 &&
		f.PublishedFrom.IsZero() && f.PublishedTo.IsZero()
}
