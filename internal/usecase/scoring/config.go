package scoring

import (
	"fmt"

	"github.com/kailas-cloud/propmatch/internal/domain/score"
)

// FreshnessTier grants Credit to listings observed at most MaxDays ago.
type FreshnessTier struct {
	MaxDays int
	Credit  float64
}

// Config holds the weights and the empirically tuned thresholds of the scorer.
type Config struct {
	Weights score.Weights

	// RadiiKm are the service search radii; the best per-radius score wins.
	RadiiKm []float64
	// TransportRadiusKm and DenseTransportCount drive the location transport bonus.
	TransportRadiusKm   float64
	DenseTransportCount int
	// CountSaturation is the POI count at which the services count term saturates.
	CountSaturation int

	LargeSizeM2  float64
	MediumSizeM2 float64
	MinRooms     int

	// Freshness tiers must be ordered by MaxDays ascending.
	Freshness      []FreshnessTier
	StaleFreshness float64
}

// DefaultConfig returns the reference thresholds.
func DefaultConfig() Config {
	return Config{
		Weights:             score.DefaultWeights(),
		RadiiKm:             []float64{1, 2, 3},
		TransportRadiusKm:   2,
		DenseTransportCount: 3,
		CountSaturation:     10,
		LargeSizeM2:         100,
		MediumSizeM2:        60,
		MinRooms:            3,
		Freshness: []FreshnessTier{
			{MaxDays: 7, Credit: 1.0},
			{MaxDays: 30, Credit: 0.7},
			{MaxDays: 90, Credit: 0.4},
		},
		StaleFreshness: 0.1,
	}
}

// Validate checks the weights and threshold sanity.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if len(c.RadiiKm) == 0 {
		return fmt.Errorf("radii_km must not be empty")
	}
	for _, r := range c.RadiiKm {
		if r <= 0 {
			return fmt.Errorf("radii_km entries must be positive, got %v", r)
		}
	}
	if c.TransportRadiusKm <= 0 {
		return fmt.Errorf("transport_radius_km must be positive")
	}
	if c.DenseTransportCount < 1 {
		return fmt.Errorf("dense_transport_count must be at least 1")
	}
	if c.CountSaturation < 1 {
		return fmt.Errorf("count_saturation must be at least 1")
	}
	for i := 1; i < len(c.Freshness); i++ {
		if c.Freshness[i].MaxDays < c.Freshness[i-1].MaxDays {
			return fmt.Errorf("freshness tiers must be ordered by max_days")
		}
	}
	return nil
}

func (c *Config) maxRadiusKm() float64 {
	m := 0.0
	for _, r := range c.RadiiKm {
		if r > m {
			m = r
		}
	}
	return m
}
