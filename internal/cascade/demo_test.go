package cascade

import (
	"strings"
	"testing"
	"time"
)

func TestDemoPatentsInterpolatesQuery(t *testing.T) {
	patents := DemoPatents("quantum batteries", 5)
	if len(patents) != 5 {
		t.Fatalf("got %d patents, want 5", len(patents))
	}
	for _, p := range patents {
		if !strings.Contains(p.Abstract, "quantum batteries") {
			t.Errorf("abstract of %s does not mention the query: %q", p.ID, p.Abstract)
		}
		if !p.Synthetic {
			t.Errorf("patent %s is not flagged synthetic", p.ID)
		}
		if p.Title == "" {
			t.Errorf("patent %s has an empty title", p.ID)
		}
	}
}

func TestDemoPatentsLimit(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{limit: 2, want: 2},
		{limit: 5, want: 5},
		{limit: 99, want: 5},
		{limit: 0, want: 5},
		{limit: -1, want: 5},
	}
	for _, tt := range tests {
		if got := len(DemoPatents("solar", tt.limit)); got != tt.want {
			t.Errorf("DemoPatents(limit=%d) returned %d records, want %d", tt.limit, got, tt.want)
		}
	}
}

func TestDemoPatentsFixedIdentity(t *testing.T) {
	patents := DemoPatents("wind power", 1)
	if len(patents) != 1 {
		t.Fatalf("got %d patents, want 1", len(patents))
	}
	p := patents[0]

	if p.ID != "RU2023123456" {
		t.Errorf("id = %q, want RU2023123456", p.ID)
	}
	wantPub := time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC)
	if !p.PublicationDate.Equal(wantPub) {
		t.Errorf("publication date = %v, want %v", p.PublicationDate, wantPub)
	}
	wantApp := time.Date(2022, time.December, 1, 0, 0, 0, 0, time.UTC)
	if !p.ApplicationDate.Equal(wantApp) {
		t.Errorf("application date = %v, want %v", p.ApplicationDate, wantApp)
	}
	if len(p.IPCCodes) != 2 || p.IPCCodes[0] != "G06F" || p.IPCCodes[1] != "H04L" {
		t.Errorf("ipc codes = %v, want [G06F H04L]", p.IPCCodes)
	}
	if len(p.Authors) != 2 || p.Authors[0] != "Ivanov I.I." {
		t.Errorf("authors = %v", p.Authors)
	}
}

func TestDemoPatentsDeterministic(t *testing.T) {
	a := DemoPatents("same query", 5)
	b := DemoPatents("same query", 5)
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Title != b[i].Title || a[i].Abstract != b[i].Abstract {
			t.Errorf("record %d differs between identical calls", i)
		}
	}
}
