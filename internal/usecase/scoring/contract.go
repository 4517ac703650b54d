package scoring

import (
	"github.com/kailas-cloud/propmatch/internal/domain/geo"
	"github.com/kailas-cloud/propmatch/internal/domain/poi"
)

// POIIndex answers radius queries over the loaded POI directory.
type POIIndex interface {
	Len() int
	Nearby(d geo.Distancer, center geo.Point, categories []poi.Category, radiusKm float64) []poi.Hit
}
