package recommend

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/propmatch/internal/domain/geo"
	"github.com/kailas-cloud/propmatch/internal/domain/poi"
	"github.com/kailas-cloud/propmatch/internal/domain/profile"
	"github.com/kailas-cloud/propmatch/internal/domain/property"
	"github.com/kailas-cloud/propmatch/internal/domain/recommendation"
)

const (
	largeSizeM2  = 100
	manyRooms    = 3
	freshDays    = 7
	recentDays   = 30
	maxSummaries = 4
)

// summarizeLocked groups the POIs of the profile's categories within the summary
// radius. It must be called with the read lock held.
func (e *Engine) summarizeLocked(pr *profile.Profile, p *property.Property, memo *geo.Memo) []recommendation.ServiceSummary {
	if !p.HasCoordinates() || e.snap.index.Len() == 0 {
		return nil
	}
	cats := pr.SummaryCategories()
	hits := e.snap.index.Nearby(memo, *p.Location.Coordinates, cats, e.cfg.SummaryRadiusKm)

	byCat := make(map[poi.Category]*recommendation.ServiceSummary, len(cats))
	for _, h := range hits {
		s, ok := byCat[h.POI.Category]
		if !ok {
			// Hits are sorted by distance, so the first one seen is the nearest.
			s = &recommendation.ServiceSummary{Category: h.POI.Category, Nearest: h.POI.Name}
			byCat[h.POI.Category] = s
		}
		s.Count++
		s.MeanDistanceKm += h.DistanceKm
	}

	out := make([]recommendation.ServiceSummary, 0, len(byCat))
	for _, c := range cats {
		s, ok := byCat[c]
		if !ok {
			continue
		}
		s.MeanDistanceKm /= float64(s.Count)
		out = append(out, *s)
	}
	return out
}

// justify renders the templated explanation of a recommendation.
func (e *Engine) justify(
	pr *profile.Profile, p *property.Property, services []recommendation.ServiceSummary, relaxed []string,
) string {
	var parts []string

	parts = append(parts, priceClause(pr, p))

	if d := p.Demand(); d != property.LevelUnknown {
		parts = append(parts, "sector demand "+strings.ReplaceAll(d.String(), "_", " "))
	}

	switch loc := p.Location; {
	case loc.AdminUnit != "" && loc.Block != "":
		parts = append(parts, fmt.Sprintf("located in UV %s, MZ %s", loc.AdminUnit, loc.Block))
	case loc.AdminUnit != "":
		parts = append(parts, "located in UV "+loc.AdminUnit)
	case loc.Block != "":
		parts = append(parts, "located in MZ "+loc.Block)
	}

	parts = append(parts, e.servicesClause(p, services))

	if p.SizeM2 >= largeSizeM2 {
		parts = append(parts, fmt.Sprintf("spacious %.0f m²", p.SizeM2))
	}
	if p.RoomCount >= manyRooms {
		parts = append(parts, fmt.Sprintf("%d rooms", p.RoomCount))
	}

	parts = append(parts, e.freshnessClause(p))

	if len(relaxed) > 0 {
		parts = append(parts, "criteria relaxed: "+strings.Join(relaxed, ", "))
	}

	var b strings.Builder
	for _, s := range parts {
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(s)
	}
	b.WriteString(".")
	out := b.String()
	return strings.ToUpper(out[:1]) + out[1:]
}

func priceClause(pr *profile.Profile, p *property.Property) string {
	if p.Price == nil {
		return "price not published"
	}
	price := formatPrice(*p.Price)
	if !pr.HasBudget() {
		return "price " + price
	}
	if pr.Budget.Currency != "" && p.Price.Currency != "" && pr.Budget.Currency != p.Price.Currency {
		return fmt.Sprintf("price %s in a different currency than the budget", price)
	}
	switch {
	case p.Price.Amount > pr.Budget.Max:
		over := (p.Price.Amount - pr.Budget.Max) / pr.Budget.Max * 100
		return fmt.Sprintf("price %s is %.0f%% above budget", price, over)
	case p.Price.Amount < pr.Budget.Min:
		return fmt.Sprintf("price %s is below the budget range", price)
	}
	return fmt.Sprintf("price %s within budget", price)
}

func formatPrice(p property.Price) string {
	amount := groupThousands(int64(p.Amount + 0.5))
	if p.Currency == "" {
		return amount
	}
	return p.Currency + " " + amount
}

func groupThousands(n int64) string {
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	s := fmt.Sprint(n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

func (e *Engine) servicesClause(p *property.Property, services []recommendation.ServiceSummary) string {
	if !p.HasCoordinates() {
		return "location not geocoded"
	}
	if e.snap.index.Len() == 0 {
		return ""
	}
	if len(services) == 0 {
		return fmt.Sprintf("no matching services within %g km", e.cfg.SummaryRadiusKm)
	}
	items := make([]string, 0, min(len(services), maxSummaries))
	for i, s := range services {
		if i == maxSummaries {
			break
		}
		items = append(items, fmt.Sprintf("%d %s (avg %.1f km)", s.Count, s.Category.Label(), s.MeanDistanceKm))
	}
	return fmt.Sprintf("within %g km: %s", e.cfg.SummaryRadiusKm, strings.Join(items, ", "))
}

func (e *Engine) freshnessClause(p *property.Property) string {
	age, ok := p.AgeDays(e.now())
	switch {
	case !ok:
		return "listing date unknown"
	case age == 0:
		return "listed today"
	case age == 1:
		return "fresh listing (1 day)"
	case age <= freshDays:
		return fmt.Sprintf("fresh listing (%d days)", age)
	case age <= recentDays:
		return fmt.Sprintf("listed %d days ago", age)
	}
	return fmt.Sprintf("listing is %d days old", age)
}
