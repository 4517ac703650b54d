package poi

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/propmatch/internal/domain"
	"github.com/kailas-cloud/propmatch/internal/domain/geo"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		token string
		want  Category
	}{
		{"education", Education},
		{"Colegio", Education},
		{"Educación", Education},
		{"transporte", Transport},
		{"MERCADO", Supply},
		{"Salud", Health},
		{"Recreación", Recreation},
		{"other", Other},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.token)
		if err != nil {
			t.Errorf("ParseCategory(%q): unexpected error %v", tt.token, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestParseCategory_LabelRoundTrip(t *testing.T) {
	for _, c := range All {
		got, err := ParseCategory(c.Label())
		if err != nil {
			t.Errorf("ParseCategory(%q): unexpected error %v", c.Label(), err)
			continue
		}
		if got != c {
			t.Errorf("ParseCategory(%q) = %q, want %q", c.Label(), got, c)
		}
	}
}

func TestParseCategory_Compound(t *testing.T) {
	tests := []struct {
		token string
		want  Category
		ok    bool
	}{
		{"Abastecimiento/Comercio", Supply, true},
		{"deporte / recreación", Recreation, true},
		{"salud/educacion", "", false},
		{"mercado/nightlife", "", false},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.token)
		if tt.ok != (err == nil) {
			t.Errorf("ParseCategory(%q): err = %v, want ok=%v", tt.token, err, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestParseCategory_Unknown(t *testing.T) {
	_, err := ParseCategory("nightlife")
	if !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestParseNeeds_DedupAndOrder(t *testing.T) {
	got, err := ParseNeeds([]string{"transporte", "education", "bus", "", "colegio"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Category{Transport, Education}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseNeeds_ReportsUnknownButKeepsKnown(t *testing.T) {
	got, err := ParseNeeds([]string{"health", "casino"})
	if !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if len(got) != 1 || got[0] != Health {
		t.Errorf("expected [health], got %v", got)
	}
}

func TestServicePOI_Normalize(t *testing.T) {
	p := ServicePOI{Name: "  Mercado Los Pozos ", Category: "Mercado"}
	p.Normalize()
	if p.Category != Supply {
		t.Errorf("expected supply, got %q", p.Category)
	}
	if p.Name != "Mercado Los Pozos" {
		t.Errorf("name not trimmed: %q", p.Name)
	}

	q := ServicePOI{Name: "Casino", Category: "casino"}
	q.Normalize()
	if q.Category != Other {
		t.Errorf("unknown category should fall back to other, got %q", q.Category)
	}

	r := ServicePOI{Name: "Hipermaxi", Category: "supply/commerce"}
	r.Normalize()
	if r.Category != Supply {
		t.Errorf("labelled category should stay supply, got %q", r.Category)
	}
}

func TestServicePOI_HasCoordinates(t *testing.T) {
	p := ServicePOI{}
	if p.HasCoordinates() {
		t.Error("nil coordinates must not count")
	}
	p.Coordinates = &geo.Point{Lat: -17.78, Lng: -63.18}
	if !p.HasCoordinates() {
		t.Error("valid coordinates must count")
	}
}
