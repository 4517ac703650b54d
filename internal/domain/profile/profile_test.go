package profile

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/propmatch/internal/domain"
	"github.com/kailas-cloud/propmatch/internal/domain/poi"
)

func TestNormalize(t *testing.T) {
	p := Profile{
		Budget:    Budget{Min: 80000, Max: 150000, Currency: " usd "},
		Preferred: Preferred{Zone: "  Equipetrol "},
		Needs:     []poi.Category{poi.Education, poi.Transport, poi.Education},
	}
	p.Normalize()

	if p.Budget.Currency != "USD" {
		t.Errorf("currency: got %q", p.Budget.Currency)
	}
	if p.Preferred.Zone != "Equipetrol" {
		t.Errorf("zone: got %q", p.Preferred.Zone)
	}
	if len(p.Needs) != 2 {
		t.Errorf("needs not de-duplicated: %v", p.Needs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Profile
		wantErr error
	}{
		{"ok", Profile{Budget: Budget{Min: 1, Max: 2}}, nil},
		{"no budget", Profile{}, nil},
		{"negative", Profile{Budget: Budget{Min: -1, Max: 2}}, domain.ErrInvalidProfile},
		{"inverted", Profile{Budget: Budget{Min: 3, Max: 2}}, domain.ErrInvalidProfile},
		{"bad need", Profile{Needs: []poi.Category{"casino"}}, domain.ErrUnknownCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	var p Profile
	if !p.IsEmpty() {
		t.Error("zero profile must be empty")
	}
	p.Needs = []poi.Category{poi.Health}
	if p.IsEmpty() {
		t.Error("profile with needs must not be empty")
	}
}

func TestSummaryCategories(t *testing.T) {
	var p Profile
	if len(p.SummaryCategories()) != len(poi.ValueCategories) {
		t.Errorf("expected value categories fallback, got %v", p.SummaryCategories())
	}
	p.Needs = []poi.Category{poi.Recreation}
	got := p.SummaryCategories()
	if len(got) != 1 || got[0] != poi.Recreation {
		t.Errorf("expected [recreation], got %v", got)
	}
}
