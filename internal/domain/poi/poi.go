// Package poi models the municipal points-of-interest directory.
package poi

import (
	"strings"

	"github.com/kailas-cloud/propmatch/internal/domain/geo"
)

// ServicePOI is a point of interest loaded from the POI directory feed.
type ServicePOI struct {
	Name        string     `json:"name"`
	Category    Category   `json:"category"`
	Subcategory string     `json:"subcategory,omitempty"`
	Coordinates *geo.Point `json:"coordinates,omitempty"`
	Address     string     `json:"address,omitempty"`
}

// HasCoordinates reports whether the POI can be placed on the map.
func (p *ServicePOI) HasCoordinates() bool {
	return p.Coordinates != nil && p.Coordinates.Valid()
}

// Normalize resolves the raw category token against the taxonomy.
// Tokens outside the table fall back to Other so the POI is still indexed.
func (p *ServicePOI) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Subcategory = strings.TrimSpace(p.Subcategory)
	c, err := ParseCategory(string(p.Category))
	if err != nil {
		c = Other
	}
	p.Category = c
}

// Hit is a POI matched by a radius query.
type Hit struct {
	POI        ServicePOI `json:"poi"`
	DistanceKm float64    `json:"distance_km"`
}
