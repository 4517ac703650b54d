// Package profile models an investor query.
package profile

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/propmatch/internal/domain"
	"github.com/kailas-cloud/propmatch/internal/domain/poi"
)

// Budget is an inclusive price range. Max <= 0 means no budget was given.
type Budget struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency,omitempty"`
}

// Preferred holds optional location and type preferences.
type Preferred struct {
	Zone      string `json:"zone,omitempty"`
	AdminUnit string `json:"admin_unit,omitempty"` // UV
	Block     string `json:"block,omitempty"`      // MZ
	Type      string `json:"type,omitempty"`
}

// Profile is an investor query built per request.
type Profile struct {
	Budget            Budget         `json:"budget"`
	Preferred         Preferred      `json:"preferred"`
	Needs             []poi.Category `json:"needs,omitempty"`
	RecencyWindowDays int            `json:"recency_window_days,omitempty"`
}

// Normalize trims free text, upper-cases the currency and de-duplicates needs.
func (p *Profile) Normalize() {
	p.Budget.Currency = strings.ToUpper(strings.TrimSpace(p.Budget.Currency))
	p.Preferred.Zone = strings.TrimSpace(p.Preferred.Zone)
	p.Preferred.AdminUnit = strings.TrimSpace(p.Preferred.AdminUnit)
	p.Preferred.Block = strings.TrimSpace(p.Preferred.Block)
	p.Preferred.Type = strings.TrimSpace(p.Preferred.Type)

	if len(p.Needs) > 0 {
		seen := make(map[poi.Category]struct{}, len(p.Needs))
		needs := make([]poi.Category, 0, len(p.Needs))
		for _, c := range p.Needs {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			needs = append(needs, c)
		}
		p.Needs = needs
	}
	if p.RecencyWindowDays < 0 {
		p.RecencyWindowDays = 0
	}
}

// Validate checks structural invariants. Callers validate before invoking the engine.
func (p *Profile) Validate() error {
	if p.Budget.Min < 0 || p.Budget.Max < 0 {
		return fmt.Errorf("%w: budget must not be negative", domain.ErrInvalidProfile)
	}
	if p.Budget.Max > 0 && p.Budget.Min > p.Budget.Max {
		return fmt.Errorf("%w: budget.min %.2f exceeds budget.max %.2f",
			domain.ErrInvalidProfile, p.Budget.Min, p.Budget.Max)
	}
	for _, c := range p.Needs {
		if !c.IsValid() {
			return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, c)
		}
	}
	return nil
}

// HasBudget reports whether a budget range was given.
func (p *Profile) HasBudget() bool { return p.Budget.Max > 0 }

// IsEmpty reports whether the profile carries no criteria at all.
func (p *Profile) IsEmpty() bool {
	return !p.HasBudget() && p.Budget.Min == 0 && p.Budget.Currency == "" &&
		p.Preferred == (Preferred{}) && len(p.Needs) == 0
}

// SummaryCategories returns the categories a services summary should report:
// the profile's needs, or the value categories when no needs were given.
func (p *Profile) SummaryCategories() []poi.Category {
	if len(p.Needs) > 0 {
		return p.Needs
	}
	return poi.ValueCategories
}
