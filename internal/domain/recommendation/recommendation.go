// Package recommendation defines the ranked output handed to presentation layers.
package recommendation

import (
	"github.com/kailas-cloud/propmatch/internal/domain/poi"
	"github.com/kailas-cloud/propmatch/internal/domain/property"
	"github.com/kailas-cloud/propmatch/internal/domain/score"
)

// ServiceSummary aggregates nearby POIs of one category.
type ServiceSummary struct {
	Category       poi.Category `json:"category"`
	Count          int          `json:"count"`
	MeanDistanceKm float64      `json:"mean_distance_km"`
	Nearest        string       `json:"nearest,omitempty"`
}

// Recommendation is one ranked, justified property.
type Recommendation struct {
	Property       property.Property `json:"property"`
	TotalScore     float64           `json:"total_score"`
	Breakdown      score.Result      `json:"breakdown"`
	Justification  string            `json:"justification"`
	NearbyServices []ServiceSummary  `json:"nearby_services"`
}
