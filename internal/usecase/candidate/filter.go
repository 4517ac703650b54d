// Package candidate narrows the property set with soft criteria: a criterion that
// would leave no candidates is skipped and the broader set is kept.
package candidate

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/propmatch/internal/domain/fold"
	"github.com/kailas-cloud/propmatch/internal/domain/profile"
	"github.com/kailas-cloud/propmatch/internal/domain/property"
	"github.com/kailas-cloud/propmatch/internal/logger"
)

// DefaultRecencyWindowDays applies when neither the profile nor the config sets one.
const DefaultRecencyWindowDays = 90

// Criterion names, in application order.
const (
	CriterionZone      = "zone"
	CriterionAdminUnit = "admin_unit"
	CriterionBlock     = "block"
	CriterionType      = "type"
	CriterionPrice     = "price"
	CriterionCurrency  = "currency"
	CriterionRecency   = "recency"
)

// Result is the outcome of a filter pass.
type Result struct {
	Candidates []*property.Property
	// Applied lists the criteria that narrowed the set.
	Applied []string
	// Relaxed lists the criteria the profile specified but that were skipped
	// because they would have emptied the set.
	Relaxed []string
}

// Filter applies profile criteria in a fixed order.
type Filter struct {
	recencyDays int
	now         func() time.Time
}

// New creates a filter. recencyDays <= 0 selects DefaultRecencyWindowDays; now may be nil.
func New(recencyDays int, now func() time.Time) *Filter {
	if recencyDays <= 0 {
		recencyDays = DefaultRecencyWindowDays
	}
	if now == nil {
		now = time.Now
	}
	return &Filter{recencyDays: recencyDays, now: now}
}

type step struct {
	name   string
	active bool
	keep   func(*property.Property) bool
}

// Apply narrows props. The input slice is never modified.
func (f *Filter) Apply(ctx context.Context, pr *profile.Profile, props []*property.Property) Result {
	res := Result{Candidates: props}
	if len(props) == 0 {
		return res
	}

	for _, s := range f.steps(pr) {
		if !s.active {
			continue
		}
		narrowed := make([]*property.Property, 0, len(res.Candidates))
		for _, p := range res.Candidates {
			if s.keep(p) {
				narrowed = append(narrowed, p)
			}
		}
		if len(narrowed) == 0 {
			res.Relaxed = append(res.Relaxed, s.name)
			continue
		}
		res.Candidates = narrowed
		res.Applied = append(res.Applied, s.name)
	}

	if len(res.Relaxed) > 0 {
		logger.FromContext(ctx).Debug("criteria relaxed",
			zap.Strings("relaxed", res.Relaxed),
			zap.Int("candidates", len(res.Candidates)),
			zap.Int("total", len(props)),
		)
	}
	return res
}

func (f *Filter) steps(pr *profile.Profile) []step {
	window := pr.RecencyWindowDays
	if window <= 0 {
		window = f.recencyDays
	}
	now := f.now()

	return []step{
		{CriterionZone, fold.String(pr.Preferred.Zone) != "", func(p *property.Property) bool {
			return fold.Contains(pr.Preferred.Zone, p.Location.Zone)
		}},
		{CriterionAdminUnit, fold.String(pr.Preferred.AdminUnit) != "", func(p *property.Property) bool {
			return fold.Contains(pr.Preferred.AdminUnit, p.Location.AdminUnit)
		}},
		{CriterionBlock, fold.String(pr.Preferred.Block) != "", func(p *property.Property) bool {
			return fold.Contains(pr.Preferred.Block, p.Location.Block)
		}},
		{CriterionType, fold.String(pr.Preferred.Type) != "", func(p *property.Property) bool {
			return property.TypesOverlap(pr.Preferred.Type, p.Type)
		}},
		{CriterionPrice, pr.HasBudget(), func(p *property.Property) bool {
			return p.Price != nil && p.Price.Amount >= pr.Budget.Min && p.Price.Amount <= pr.Budget.Max
		}},
		{CriterionCurrency, pr.Budget.Currency != "", func(p *property.Property) bool {
			return p.Price != nil && p.Price.Currency == pr.Budget.Currency
		}},
		// Listings without a parsable date are kept.
		{CriterionRecency, true, func(p *property.Property) bool {
			age, ok := p.AgeDays(now)
			return !ok || age <= window
		}},
	}
}
