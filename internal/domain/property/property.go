// Package property models a listing snapshot as delivered by the ingestion pipeline.
package property

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/propmatch/internal/domain/geo"
)

// DefaultDateLayout is the layout of observed_at in the property feed.
const DefaultDateLayout = "2006-01-02"

// Price is the listing price. A nil *Price on Property means the price is unknown.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Location places the property in the municipal grid.
type Location struct {
	Zone        string     `json:"zone"`
	AdminUnit   string     `json:"admin_unit"` // UV
	Block       string     `json:"block"`      // MZ
	Coordinates *geo.Point `json:"coordinates,omitempty"`
}

// Market holds sector-level indicators.
type Market struct {
	DemandLevel        Level  `json:"demand_level"`
	SecurityLevel      Level  `json:"security_level"`
	PriceTrend         string `json:"price_trend"`
	SocioeconomicLevel string `json:"socioeconomic_level"`
}

// Property is a listing snapshot. It is read-only once normalized.
type Property struct {
	ID            string   `json:"id"`
	Price         *Price   `json:"price,omitempty"`
	Type          string   `json:"type"`
	SizeM2        float64  `json:"size_m2"`
	RoomCount     int      `json:"room_count"`
	BathroomCount int      `json:"bathroom_count"`
	Garage        bool     `json:"garage"`
	Location      Location `json:"location"`
	Market        *Market  `json:"market,omitempty"`
	Amenities     []string `json:"amenities"`
	ObservedAt    string   `json:"observed_at"`
	Status        string   `json:"status"`

	// Observed is ObservedAt parsed by Normalize; nil when absent or unparsable.
	Observed *time.Time `json:"-"`
}

// Normalize applies the "missing field => absent" rules in one place:
// non-positive or NaN prices become nil, invalid coordinates become nil,
// amenities are canonicalized, sorted and de-duplicated, and observed_at is parsed.
func (p *Property) Normalize(dateLayout string) {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	p.ID = strings.TrimSpace(p.ID)
	p.Type = strings.TrimSpace(p.Type)
	p.Status = strings.TrimSpace(p.Status)
	p.Location.Zone = strings.TrimSpace(p.Location.Zone)
	p.Location.AdminUnit = strings.TrimSpace(p.Location.AdminUnit)
	p.Location.Block = strings.TrimSpace(p.Location.Block)

	if p.Price != nil {
		if p.Price.Amount <= 0 || math.IsNaN(p.Price.Amount) || math.IsInf(p.Price.Amount, 0) {
			p.Price = nil
		} else {
			p.Price = &Price{Amount: p.Price.Amount, Currency: strings.ToUpper(strings.TrimSpace(p.Price.Currency))}
		}
	}
	if p.Location.Coordinates != nil && !p.Location.Coordinates.Valid() {
		p.Location.Coordinates = nil
	}
	if p.SizeM2 < 0 || math.IsNaN(p.SizeM2) {
		p.SizeM2 = 0
	}
	if p.RoomCount < 0 {
		p.RoomCount = 0
	}

	p.Amenities = canonicalAmenities(p.Amenities)
	if p.Garage && !p.HasAmenity(AmenityGarage) {
		p.Amenities = canonicalAmenities(append(p.Amenities, AmenityGarage))
	}
	if !p.Garage && p.HasAmenity(AmenityGarage) {
		p.Garage = true
	}

	p.Observed = parseObserved(p.ObservedAt, dateLayout)
}

// HasCoordinates reports whether distance-based scoring can run.
func (p *Property) HasCoordinates() bool { return p.Location.Coordinates != nil }

// HasAmenity reports whether the canonical amenity is present. Amenities must be normalized.
func (p *Property) HasAmenity(canonical string) bool {
	i := sort.SearchStrings(p.Amenities, canonical)
	return i < len(p.Amenities) && p.Amenities[i] == canonical
}

// Demand returns the sector demand level, LevelUnknown without market data.
func (p *Property) Demand() Level {
	if p.Market == nil {
		return LevelUnknown
	}
	return p.Market.DemandLevel
}

// AgeDays returns the number of whole days between observation and now.
func (p *Property) AgeDays(now time.Time) (int, bool) {
	if p.Observed == nil {
		return 0, false
	}
	d := now.Sub(*p.Observed)
	if d < 0 {
		return 0, true
	}
	return int(d.Hours() / 24), true
}

// IsAvailable reports whether the status is an available/for-sale value.
func (p *Property) IsAvailable() bool { return IsAvailableStatus(p.Status) }

func canonicalAmenities(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(in))
	for _, a := range in {
		c := CanonicalAmenity(a)
		if c != "" {
			set[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func parseObserved(raw, layout string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, l := range []string{layout, time.RFC3339} {
		if t, err := time.Parse(l, raw); err == nil {
			return &t
		}
	}
	return nil
}
