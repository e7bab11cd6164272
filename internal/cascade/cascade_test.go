// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cascade

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/bkuznetsov/patent-engine/pkg/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAnalyzer records the text it was asked to analyze and returns a
// canned enrichment or error.
type fakeAnalyzer struct {
	enrichment *types.Enrichment
	err        error

	calls    int
	lastText string
}

func (f *fakeAnalyzer) AnalyzeText(_ context.Context, text string) (*types.Enrichment, error) {
	f.calls++
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.enrichment, nil
}

// --- Tier selection ---

func TestReconstructEmptyIdentifier(t *testing.T) {
	o := New(testLogger(), nil)
	res := o.Reconstruct(context.Background(), Request{})
	if res.Status != Unresolved {
		t.Fatalf("status = %q, want %q", res.Status, Unresolved)
	}
}

func TestReconstructBareIdentifier(t *testing.T) {
	o := New(testLogger(), nil)
	res := o.Reconstruct(context.Background(), Request{ID: "RU999", Cause: errors.New("404 from upstream")})

	if res.Status != Degraded {
		t.Fatalf("status = %q, want %q", res.Status, Degraded)
	}
	p := res.Patent
	if p.Title != "Patent «RU999»" {
		t.Errorf("title = %q, want %q", p.Title, "Patent «RU999»")
	}
	if p.ID != "RU999" {
		t.Errorf("id = %q, want RU999", p.ID)
	}
	if len(p.Authors) != 0 || len(p.PatentHolders) != 0 || len(p.IPCCodes) != 0 {
		t.Errorf("expected empty list fields, got %v / %v / %v", p.Authors, p.PatentHolders, p.IPCCodes)
	}
	if p.HasDates() {
		t.Errorf("expected no dates, got %v / %v", p.PublicationDate, p.ApplicationDate)
	}
	if p.Synthetic {
		t.Error("bare-identifier records are reconstructions, not synthetic data")
	}
}

// --- Hit-derived reconstruction ---

func TestReconstructHitTitlePriority(t *testing.T) {
	tests := []struct {
		name string
		hit  types.RawHit
		want string
	}{
		{
			name: "primary language wins",
			hit: types.RawHit{Biblio: &types.Biblio{
				Ru: &types.BiblioEntry{Title: "Аккумуляторный элемент"},
				En: &types.BiblioEntry{Title: "Battery Cell"},
			}},
			want: "Аккумуляторный элемент",
		},
		{
			name: "secondary language when primary empty",
			hit: types.RawHit{Biblio: &types.Biblio{
				Ru: &types.BiblioEntry{Title: ""},
				En: &types.BiblioEntry{Title: "Battery Cell"},
			}},
			want: "Battery Cell",
		},
		{
			name: "snippet title stripped of markup",
			hit: types.RawHit{
				Snippet: &types.Snippet{Title: "<em>Solar</em>  Panel"},
			},
			want: "Solar Panel",
		},
		{
			name: "direct field as last source",
			hit:  types.RawHit{Title: "Wind Turbine"},
			want: "Wind Turbine",
		},
		{
			name: "no title anywhere",
			hit:  types.RawHit{},
			want: "Patent «RU777»",
		},
		{
			name: "title equal to identifier is rejected",
			hit:  types.RawHit{Title: "RU777"},
			want: "Patent «RU777»",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(testLogger(), nil)
			res := o.Reconstruct(context.Background(), Request{ID: "RU777", Hit: &tt.hit})
			if res.Status != Degraded {
				t.Fatalf("status = %q, want %q", res.Status, Degraded)
			}
			if res.Patent.Title != tt.want {
				t.Errorf("title = %q, want %q", res.Patent.Title, tt.want)
			}
		})
	}
}

func TestReconstructHitFields(t *testing.T) {
	hit := &types.RawHit{
		Biblio: &types.Biblio{
			Ru: &types.BiblioEntry{
				Title:    "Аккумуляторный элемент",
				Inventor: []types.NamedField{{Name: "Иванов И.И."}, {Name: "Петров П.П."}},
				Patentee: []types.NamedField{{Name: "ООО Энергия"}},
			},
		},
		Snippet: &types.Snippet{Description: "A <b>rechargeable</b>   cell design"},
		Common: &types.Common{
			PublicationDate: "2023-06-15",
			Application:     &types.Application{FilingDate: "20221201"},
			Classification:  &types.Classification{IPC: []types.IPCEntry{{Fullname: "H01M 10/04"}, {Fullname: ""}}},
		},
	}

	o := New(testLogger(), nil)
	res := o.Reconstruct(context.Background(), Request{ID: "RU111", Hit: hit})
	p := res.Patent

	if got, want := p.Abstract, "A rechargeable cell design"; got != want {
		t.Errorf("abstract = %q, want %q", got, want)
	}
	if len(p.Authors) != 2 || p.Authors[0] != "Иванов И.И." {
		t.Errorf("authors = %v", p.Authors)
	}
	if len(p.PatentHolders) != 1 || p.PatentHolders[0] != "ООО Энергия" {
		t.Errorf("holders = %v", p.PatentHolders)
	}
	if len(p.IPCCodes) != 1 || p.IPCCodes[0] != "H01M 10/04" {
		t.Errorf("ipc = %v", p.IPCCodes)
	}
	wantPub := time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC)
	if !p.PublicationDate.Equal(wantPub) {
		t.Errorf("publication date = %v, want %v", p.PublicationDate, wantPub)
	}
	wantApp := time.Date(2022, time.December, 1, 0, 0, 0, 0, time.UTC)
	if !p.ApplicationDate.Equal(wantApp) {
		t.Errorf("application date = %v, want %v", p.ApplicationDate, wantApp)
	}
}

func TestReconstructHitUnparseableDate(t *testing.T) {
	hit := &types.RawHit{
		Title:  "Some Device",
		Common: &types.Common{PublicationDate: "not-a-date"},
	}
	o := New(testLogger(), nil)
	res := o.Reconstruct(context.Background(), Request{ID: "RU112", Hit: hit})
	if !res.Patent.PublicationDate.IsZero() {
		t.Errorf("publication date = %v, want zero", res.Patent.PublicationDate)
	}
	if res.Status != Degraded {
		t.Errorf("status = %q, want %q", res.Status, Degraded)
	}
}

// --- Enrichment merge rules ---

func TestEnrichmentOverwritesPlaceholderTitle(t *testing.T) {
	analyzer := &fakeAnalyzer{enrichment: &types.Enrichment{
		Title:         "Recovered Title",
		Authors:       []string{"Smirnov A.A."},
		PatentHolders: []string{"AO Pribor"},
	}}
	o := New(testLogger(), analyzer)

	res := o.Reconstruct(context.Background(), Request{ID: "RU333", Hit: &types.RawHit{}})
	p := res.Patent

	if p.Title != "Recovered Title" {
		t.Errorf("title = %q, want %q", p.Title, "Recovered Title")
	}
	if len(p.Authors) != 1 || p.Authors[0] != "Smirnov A.A." {
		t.Errorf("authors = %v", p.Authors)
	}
	if len(p.PatentHolders) != 1 || p.PatentHolders[0] != "AO Pribor" {
		t.Errorf("holders = %v", p.PatentHolders)
	}
	if analyzer.calls != 1 {
		t.Errorf("analyzer calls = %d, want 1", analyzer.calls)
	}
}

func TestEnrichmentKeepsRealFields(t *testing.T) {
	analyzer := &fakeAnalyzer{enrichment: &types.Enrichment{
		Title:   "Should Not Replace",
		Authors: []string{"Should Not Replace"},
	}}
	o := New(testLogger(), analyzer)

	hit := &types.RawHit{Biblio: &types.Biblio{Ru: &types.BiblioEntry{
		Title:    "Настоящее название",
		Inventor: []types.NamedField{{Name: "Иванов И.И."}},
	}}}
	res := o.Reconstruct(context.Background(), Request{ID: "RU334", Hit: hit})
	p := res.Patent

	if p.Title != "Настоящее название" {
		t.Errorf("title = %q, want the hit-derived one", p.Title)
	}
	if len(p.Authors) != 1 || p.Authors[0] != "Иванов И.И." {
		t.Errorf("authors = %v, want the hit-derived ones", p.Authors)
	}
}

func TestEnrichmentFailureTolerated(t *testing.T) {
	analyzer := &fakeAnalyzer{err: errors.New("collaborator timeout")}
	o := New(testLogger(), analyzer)

	hit := &types.RawHit{Biblio: &types.Biblio{Ru: &types.BiblioEntry{Title: "Локальное название"}}}
	res := o.Reconstruct(context.Background(), Request{ID: "RU335", Hit: hit})

	if res.Status != Degraded {
		t.Fatalf("status = %q, want %q", res.Status, Degraded)
	}
	if res.Patent.Title != "Локальное название" {
		t.Errorf("title = %q, want the locally gathered one", res.Patent.Title)
	}
}

func TestEnrichmentTextSelection(t *testing.T) {
	longAbstract := "Подробное описание изобретения длиннее двадцати символов"

	tests := []struct {
		name string
		hit  types.RawHit
		want string
	}{
		{
			name: "long abstract preferred",
			hit: types.RawHit{
				Title:   "Реальное название",
				Snippet: &types.Snippet{Description: longAbstract},
			},
			want: longAbstract,
		},
		{
			name: "title when abstract too short",
			hit: types.RawHit{
				Title:   "Реальное название",
				Snippet: &types.Snippet{Description: "коротко"},
			},
			want: "Реальное название",
		},
		{
			name: "placeholder when nothing qualifies",
			hit:  types.RawHit{},
			want: "Patent «RU336»",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &fakeAnalyzer{enrichment: &types.Enrichment{}}
			o := New(testLogger(), analyzer)
			o.Reconstruct(context.Background(), Request{ID: "RU336", Hit: &tt.hit})
			if analyzer.lastText != tt.want {
				t.Errorf("analyzed text = %q, want %q", analyzer.lastText, tt.want)
			}
		})
	}
}

func TestReconstructWithoutAnalyzer(t *testing.T) {
	o := New(testLogger(), nil)
	res := o.Reconstruct(context.Background(), Request{ID: "RU337", Hit: &types.RawHit{Title: "Standalone"}})
	if res.Patent.Title != "Standalone" {
		t.Errorf("title = %q, want %q", res.Patent.Title, "Standalone")
	}
}
