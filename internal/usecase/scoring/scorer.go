// Package scoring computes the five weighted compatibility sub-scores of a
// (profile, property) pair. Missing data never fails a pass: every absent field
// degrades its sub-score to a fixed fallback value.
package scoring

import (
	"math"
	"time"

	"github.com/kailas-cloud/propmatch/internal/domain/fold"
	"github.com/kailas-cloud/propmatch/internal/domain/geo"
	"github.com/kailas-cloud/propmatch/internal/domain/poi"
	"github.com/kailas-cloud/propmatch/internal/domain/profile"
	"github.com/kailas-cloud/propmatch/internal/domain/property"
	"github.com/kailas-cloud/propmatch/internal/domain/score"
)

// Fallback sub-scores.
const (
	// ServicesNoDirectory is returned when no POI directory is loaded.
	ServicesNoDirectory = 0.5
	// ServicesNoCoordinates is returned when the property cannot be placed.
	ServicesNoCoordinates = 0.3
)

// Location credits.
const (
	zoneExactCredit   = 0.40
	zonePartialCredit = 0.30
	zoneKeywordCredit = 0.20
	zoneNeutralCredit = 0.15
	zoneKeywordMinLen = 4

	demandHighCredit   = 0.25
	demandMediumCredit = 0.15
	demandLowCredit    = 0.05

	adminUnitCredit = 0.10
	blockCredit     = 0.05

	transportDenseCredit  = 0.20
	transportSparseCredit = 0.10
)

// Price credits.
const (
	budgetFitShare   = 0.7
	negotiationShare = 0.3
	belowBudgetFloor = 0.2
	aboveBudgetFloor = 0.1
	noBudgetFit      = 0.5
)

// Features and availability credits.
const (
	typeMatchCredit   = 0.4
	typeNeutralCredit = 0.2
	sizeMaxCredit     = 0.3
	richnessMaxCredit = 0.3

	freshnessShare     = 0.6
	statusShare        = 0.4
	statusUnknownScore = 0.5

	diversityShare = 0.6
	countShare     = 0.4
)

// Scorer is stateless apart from its configuration and clock; safe for concurrent use.
type Scorer struct {
	cfg Config
	now func() time.Time
}

// New creates a scorer. now may be nil (time.Now).
func New(cfg Config, now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{cfg: cfg, now: now}
}

// Config returns the scorer configuration.
func (s *Scorer) Config() Config { return s.cfg }

// Now returns the scorer clock reading.
func (s *Scorer) Now() time.Time { return s.now() }

// Score computes the compatibility breakdown. pois may be nil (no directory loaded);
// d may be a per-pass memo shared with other queries about the same property.
func (s *Scorer) Score(pr *profile.Profile, p *property.Property, pois POIIndex, d geo.Distancer) score.Result {
	if d == nil {
		d = geo.Haversine{}
	}
	hasDirectory := pois != nil && pois.Len() > 0

	transportCount := 0
	if hasDirectory && p.HasCoordinates() {
		transportCount = len(pois.Nearby(d, *p.Location.Coordinates,
			[]poi.Category{poi.Transport}, s.cfg.TransportRadiusKm))
	}

	return score.Compose(s.cfg.Weights,
		s.location(pr, p, transportCount),
		s.price(pr, p),
		s.services(p, pois, hasDirectory, d),
		s.features(pr, p),
		s.availability(p),
	)
}

func (s *Scorer) location(pr *profile.Profile, p *property.Property, transportCount int) float64 {
	v := zoneCredit(pr.Preferred.Zone, p.Location.Zone)

	switch p.Demand() {
	case property.LevelVeryHigh, property.LevelHigh:
		v += demandHighCredit
	case property.LevelMedium:
		v += demandMediumCredit
	case property.LevelLow:
		v += demandLowCredit
	}

	if pr.Preferred.AdminUnit != "" && fold.Contains(pr.Preferred.AdminUnit, p.Location.AdminUnit) {
		v += adminUnitCredit
	}
	if pr.Preferred.Block != "" && fold.Contains(pr.Preferred.Block, p.Location.Block) {
		v += blockCredit
	}

	switch {
	case transportCount >= s.cfg.DenseTransportCount:
		v += transportDenseCredit
	case transportCount > 0:
		v += transportSparseCredit
	}
	return score.Clamp01(v)
}

// zoneCredit grades how well the property zone matches the preferred zone.
func zoneCredit(preferred, actual string) float64 {
	if fold.String(preferred) == "" {
		return zoneNeutralCredit
	}
	switch {
	case fold.String(preferred) == fold.String(actual):
		return zoneExactCredit
	case fold.Contains(preferred, actual):
		return zonePartialCredit
	case fold.SharesKeyword(preferred, actual, zoneKeywordMinLen):
		return zoneKeywordCredit
	}
	return 0
}

func (s *Scorer) price(pr *profile.Profile, p *property.Property) float64 {
	if p.Price == nil {
		return 0
	}
	fit := budgetFit(pr.Budget, *p.Price)
	return math.Min(1, budgetFitShare*fit+negotiationShare*negotiation(p.Demand()))
}

// budgetFit is 1 inside [min,max] and decays linearly with the excess relative to the
// budget span, floored at 0.2 below min and 0.1 above max.
func budgetFit(b profile.Budget, price property.Price) float64 {
	if b.Max <= 0 {
		return noBudgetFit
	}
	if b.Currency != "" && price.Currency != "" && b.Currency != price.Currency {
		return aboveBudgetFloor
	}
	span := b.Max - b.Min
	if span <= 0 {
		span = b.Max
	}
	switch {
	case price.Amount < b.Min:
		return math.Max(belowBudgetFloor, 1-(b.Min-price.Amount)/span)
	case price.Amount > b.Max:
		return math.Max(aboveBudgetFloor, 1-(price.Amount-b.Max)/span)
	}
	return 1
}

// negotiation is the bargaining headroom implied by sector demand.
func negotiation(l property.Level) float64 {
	switch l {
	case property.LevelLow:
		return 1.0
	case property.LevelMedium:
		return 0.6
	case property.LevelHigh:
		return 0.3
	case property.LevelVeryHigh:
		return 0.1
	}
	return 0.5
}

func (s *Scorer) services(p *property.Property, pois POIIndex, hasDirectory bool, d geo.Distancer) float64 {
	if !hasDirectory {
		return ServicesNoDirectory
	}
	if !p.HasCoordinates() {
		return ServicesNoCoordinates
	}

	hits := pois.Nearby(d, *p.Location.Coordinates, poi.ValueCategories, s.cfg.maxRadiusKm())
	best := 0.0
	for _, r := range s.cfg.RadiiKm {
		if v := s.radiusScore(hits, r); v > best {
			best = v
		}
	}
	return score.Clamp01(best)
}

// radiusScore = (diversity*0.6 + min(count/saturation,1)*0.4) / radius.
func (s *Scorer) radiusScore(hits []poi.Hit, radiusKm float64) float64 {
	cats := make(map[poi.Category]struct{}, len(poi.ValueCategories))
	count := 0
	for i := range hits {
		if hits[i].DistanceKm > radiusKm {
			break
		}
		cats[hits[i].POI.Category] = struct{}{}
		count++
	}
	diversity := float64(len(cats)) / float64(len(poi.ValueCategories))
	density := math.Min(float64(count)/float64(s.cfg.CountSaturation), 1)
	return (diversity*diversityShare + density*countShare) / radiusKm
}

func (s *Scorer) features(pr *profile.Profile, p *property.Property) float64 {
	v := 0.0
	switch {
	case pr.Preferred.Type == "":
		v += typeNeutralCredit
	case property.TypesMatch(pr.Preferred.Type, p.Type):
		v += typeMatchCredit
	}

	switch {
	case p.SizeM2 >= s.cfg.LargeSizeM2:
		v += sizeMaxCredit
	case p.SizeM2 >= s.cfg.MediumSizeM2:
		v += sizeMaxCredit * 2 / 3
	case p.SizeM2 > 0:
		v += sizeMaxCredit / 3
	}

	rich := 0
	for _, ok := range []bool{
		p.Garage,
		p.HasAmenity(property.AmenityGatedCommunity),
		p.HasAmenity(property.AmenityFurnished),
		p.RoomCount >= s.cfg.MinRooms,
	} {
		if ok {
			rich++
		}
	}
	v += richnessMaxCredit * math.Min(float64(rich), 3) / 3
	return score.Clamp01(v)
}

func (s *Scorer) availability(p *property.Property) float64 {
	fresh := s.cfg.StaleFreshness
	if age, ok := p.AgeDays(s.now()); ok {
		for _, tier := range s.cfg.Freshness {
			if age <= tier.MaxDays {
				fresh = tier.Credit
				break
			}
		}
	}

	status := 0.0
	switch {
	case p.Status == "":
		status = statusUnknownScore
	case p.IsAvailable():
		status = 1
	}
	return score.Clamp01(freshnessShare*fresh + statusShare*status)
}
