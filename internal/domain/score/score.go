// Package score holds the compatibility weights and the per-pair scoring result.
package score

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/propmatch/internal/domain"
)

// weightTolerance absorbs float rounding of YAML-provided weights.
const weightTolerance = 1e-9

// Weights are the sub-score coefficients. They must sum to 1.0.
type Weights struct {
	Location     float64 `json:"location"`
	Price        float64 `json:"price"`
	Services     float64 `json:"services"`
	Features     float64 `json:"features"`
	Availability float64 `json:"availability"`
}

// DefaultWeights returns 0.35 location, 0.25 price, 0.20 services, 0.15 features, 0.05 availability.
func DefaultWeights() Weights {
	return Weights{
		Location:     0.35,
		Price:        0.25,
		Services:     0.20,
		Features:     0.15,
		Availability: 0.05,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Location + w.Price + w.Services + w.Features + w.Availability
}

// Validate checks that every weight is in [0,1] and that they sum to 1.0.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"location": w.Location, "price": w.Price, "services": w.Services,
		"features": w.Features, "availability": w.Availability,
	} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s weight %.4f outside [0,1]", domain.ErrInvalidWeights, name, v)
		}
	}
	if s := w.Sum(); math.Abs(s-1) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %.6f, want 1.0", domain.ErrInvalidWeights, s)
	}
	return nil
}

// Result is the compatibility breakdown of one (profile, property) pair.
// Sub-scores are in [0,1]; Total is in [0,100].
type Result struct {
	Location     float64 `json:"location_score"`
	Price        float64 `json:"price_score"`
	Services     float64 `json:"services_score"`
	Features     float64 `json:"features_score"`
	Availability float64 `json:"availability_score"`
	Total        float64 `json:"total_score"`
}

// Compose clamps the sub-scores and computes Total = 100 * sum(weight_i * subscore_i).
func Compose(w Weights, location, price, services, features, availability float64) Result {
	r := Result{
		Location:     Clamp01(location),
		Price:        Clamp01(price),
		Services:     Clamp01(services),
		Features:     Clamp01(features),
		Availability: Clamp01(availability),
	}
	total := 100 * (w.Location*r.Location +
		w.Price*r.Price +
		w.Services*r.Services +
		w.Features*r.Features +
		w.Availability*r.Availability)
	r.Total = math.Max(0, math.Min(100, total))
	return r
}

// Clamp01 bounds v to [0,1]; NaN becomes 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
