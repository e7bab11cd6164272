package types

import (
	"encoding/json"
	"reflect"
	"testing"
)

// A zero RawHit must yield zero values from every accessor; upstream omits
// whole blocks without warning.
func TestRawHitAccessorsOnEmptyHit(t *testing.T) {
	var h RawHit

	for name, got := range map[string]string{
		"RuTitle":            h.RuTitle(),
		"EnTitle":            h.EnTitle(),
		"SnippetTitle":       h.SnippetTitle(),
		"SnippetDescription": h.SnippetDescription(),
		"DirectTitle":        h.DirectTitle(),
		"PublicationDateRaw": h.PublicationDateRaw(),
		"FilingDateRaw":      h.FilingDateRaw(),
	} {
		if got != "" {
			t.Errorf("%s = %q, want empty", name, got)
		}
	}
	if names := h.InventorNames(); names != nil {
		t.Errorf("InventorNames = %v, want nil", names)
	}
	if names := h.PatenteeNames(); names != nil {
		t.Errorf("PatenteeNames = %v, want nil", names)
	}
	if names := h.IPCNames(); names != nil {
		t.Errorf("IPCNames = %v, want nil", names)
	}
}

func TestRawHitAccessorsOnDecodedHit(t *testing.T) {
	payload := `{
		"id": "RU2023000001",
		"title": "direct",
		"biblio": {
			"ru": {
				"title": " Солнечная панель ",
				"inventor": [{"name": "Иванов И.И."}, {"name": ""}],
				"patentee": [{"name": "ООО СоларТех"}]
			},
			"en": {"title": "Solar panel"}
		},
		"snippet": {"title": "<em>Солнечная</em> панель", "description": "Описание"},
		"common": {
			"publication_date": "2023.06.15",
			"application": {"filing_date": "20221201"},
			"classification": {"ipc": [{"fullname": "H02S 20/32"}, {"fullname": ""}]}
		}
	}`

	var h RawHit
	if err := json.Unmarshal([]byte(payload), &h); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := h.RuTitle(); got != "Солнечная панель" {
		t.Errorf("RuTitle = %q", got)
	}
	if got := h.EnTitle(); got != "Solar panel" {
		t.Errorf("EnTitle = %q", got)
	}
	if got := h.SnippetTitle(); got != "<em>Солнечная</em> панель" {
		t.Errorf("SnippetTitle = %q", got)
	}
	if got := h.DirectTitle(); got != "direct" {
		t.Errorf("DirectTitle = %q", got)
	}
	if got, want := h.InventorNames(), []string{"Иванов И.И."}; !reflect.DeepEqual(got, want) {
		t.Errorf("InventorNames = %v, want %v", got, want)
	}
	if got, want := h.PatenteeNames(), []string{"ООО СоларТех"}; !reflect.DeepEqual(got, want) {
		t.Errorf("PatenteeNames = %v, want %v", got, want)
	}
	if got, want := h.IPCNames(), []string{"H02S 20/32"}; !reflect.DeepEqual(got, want) {
		t.Errorf("IPCNames = %v, want %v", got, want)
	}
	if got := h.PublicationDateRaw(); got != "2023.06.15" {
		t.Errorf("PublicationDateRaw = %q", got)
	}
	if got := h.FilingDateRaw(); got != "20221201" {
		t.Errorf("FilingDateRaw = %q", got)
	}
}
