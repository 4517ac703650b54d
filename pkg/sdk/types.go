package propmatch

import (
	"github.com/kailas-cloud/propmatch/internal/domain/geo"
	"github.com/kailas-cloud/propmatch/internal/domain/poi"
	"github.com/kailas-cloud/propmatch/internal/domain/profile"
	"github.com/kailas-cloud/propmatch/internal/domain/property"
	"github.com/kailas-cloud/propmatch/internal/domain/recommendation"
	"github.com/kailas-cloud/propmatch/internal/domain/score"
	"github.com/kailas-cloud/propmatch/internal/usecase/recommend"
)

// Input records.
type (
	Property = property.Property
	Price    = property.Price
	Location = property.Location
	Market   = property.Market
	Level    = property.Level
	POI      = poi.ServicePOI
	Point    = geo.Point
)

// Query and results.
type (
	Profile        = profile.Profile
	Budget         = profile.Budget
	Preferred      = profile.Preferred
	Category       = poi.Category
	Hit            = poi.Hit
	Weights        = score.Weights
	Result         = score.Result
	Recommendation = recommendation.Recommendation
	ServiceSummary = recommendation.ServiceSummary
	Diagnostics    = recommend.Diagnostics
)

// Service categories.
const (
	Education  = poi.Education
	Health     = poi.Health
	Transport  = poi.Transport
	Supply     = poi.Supply
	Recreation = poi.Recreation
	Other      = poi.Other
)

// Sector levels for Market indicators.
const (
	LevelLow      = property.LevelLow
	LevelMedium   = property.LevelMedium
	LevelHigh     = property.LevelHigh
	LevelVeryHigh = property.LevelVeryHigh
)

// ParseNeeds maps free-text need tokens (Spanish or English) to categories.
// Unknown tokens are reported together in one ErrUnknownCategory error.
func ParseNeeds(tokens []string) ([]Category, error) {
	return poi.ParseNeeds(tokens)
}

// DefaultWeights returns the reference sub-score weights.
func DefaultWeights() Weights {
	return score.DefaultWeights()
}
