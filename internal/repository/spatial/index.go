// Package spatial indexes service POIs by category for radius queries.
//
// Each category keeps its POIs sorted by a full-precision geohash. A radius query
// picks the finest geohash precision whose cell is at least as large as the radius,
// then scans the 3x3 neighbourhood of the query cell via prefix ranges and confirms
// every candidate with the exact great-circle distance.
package spatial

import (
	"math"
	"sort"
	"strings"

	"github.com/mmcloughlin/geohash"

	"github.com/kailas-cloud/propmatch/internal/domain/geo"
	"github.com/kailas-cloud/propmatch/internal/domain/poi"
)

// hashPrecision is the stored geohash length (~5m cells).
const hashPrecision = 9

// kmPerDegree is the length of one degree of latitude.
const kmPerDegree = geo.EarthRadiusKm * math.Pi / 180

type entry struct {
	hash  string
	seq   int
	point geo.Point
	poi   poi.ServicePOI
}

// Index is an immutable category -> POIs structure. A nil *Index behaves as empty.
type Index struct {
	byCategory map[poi.Category][]entry
	size       int
	dropped    int
}

// Build partitions POIs by category, dropping those without valid coordinates. O(n log n).
func Build(pois []poi.ServicePOI) *Index {
	ix := &Index{byCategory: make(map[poi.Category][]entry)}
	for i := range pois {
		p := pois[i]
		if !p.HasCoordinates() {
			ix.dropped++
			continue
		}
		pt := *p.Coordinates
		ix.byCategory[p.Category] = append(ix.byCategory[p.Category], entry{
			hash:  geohash.EncodeWithPrecision(pt.Lat, pt.Lng, hashPrecision),
			seq:   i,
			point: pt,
			poi:   p,
		})
		ix.size++
	}
	for c := range ix.byCategory {
		entries := ix.byCategory[c]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].hash != entries[j].hash {
				return entries[i].hash < entries[j].hash
			}
			return entries[i].seq < entries[j].seq
		})
	}
	return ix
}

// Len returns the number of indexed POIs.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return ix.size
}

// Dropped returns the number of POIs rejected for missing coordinates.
func (ix *Index) Dropped() int {
	if ix == nil {
		return 0
	}
	return ix.dropped
}

// Counts returns the number of indexed POIs per category.
func (ix *Index) Counts() map[poi.Category]int {
	out := make(map[poi.Category]int)
	if ix == nil {
		return out
	}
	for c, entries := range ix.byCategory {
		out[c] = len(entries)
	}
	return out
}

// Nearby returns POIs of the given categories within radiusKm of center, sorted by
// ascending distance (ties keep load order). An empty category list means all categories;
// unknown categories match nothing. d may be a per-pass memo; nil uses plain Haversine.
func (ix *Index) Nearby(d geo.Distancer, center geo.Point, categories []poi.Category, radiusKm float64) []poi.Hit {
	if ix == nil || ix.size == 0 || radiusKm < 0 || !center.Valid() {
		return nil
	}
	if d == nil {
		d = geo.Haversine{}
	}
	if len(categories) == 0 {
		categories = make([]poi.Category, 0, len(ix.byCategory))
		for c := range ix.byCategory {
			categories = append(categories, c)
		}
	}

	cells := searchCells(center, radiusKm)

	type found struct {
		hit poi.Hit
		seq int
	}
	var out []found
	seen := make(map[poi.Category]struct{}, len(categories))
	for _, c := range categories {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}

		entries := ix.byCategory[c]
		visit := func(e *entry) {
			if dist := d.DistanceKm(center, e.point); dist <= radiusKm {
				out = append(out, found{hit: poi.Hit{POI: e.poi, DistanceKm: dist}, seq: e.seq})
			}
		}
		if cells == nil {
			for i := range entries {
				visit(&entries[i])
			}
			continue
		}
		for _, cell := range cells {
			lo := sort.Search(len(entries), func(i int) bool { return entries[i].hash >= cell })
			for i := lo; i < len(entries) && strings.HasPrefix(entries[i].hash, cell); i++ {
				visit(&entries[i])
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].hit.DistanceKm != out[j].hit.DistanceKm {
			return out[i].hit.DistanceKm < out[j].hit.DistanceKm
		}
		return out[i].seq < out[j].seq
	})
	hits := make([]poi.Hit, len(out))
	for i := range out {
		hits[i] = out[i].hit
	}
	return hits
}

// searchCells returns geohash cells whose union covers every point within radiusKm
// of center, or nil when the radius is too large and the caller must scan linearly.
func searchCells(center geo.Point, radiusKm float64) []string {
	for chars := uint(hashPrecision); chars >= 1; chars-- {
		h := geohash.EncodeWithPrecision(center.Lat, center.Lng, chars)
		if minCellKm(geohash.BoundingBox(h)) < radiusKm {
			continue
		}
		cells := append([]string{h}, geohash.Neighbors(h)...)
		uniq := cells[:0]
		seen := make(map[string]struct{}, len(cells))
		for _, c := range cells {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			uniq = append(uniq, c)
		}
		return uniq
	}
	return nil
}

// minCellKm is the smaller side of a cell, measured at the most poleward latitude
// of its 3x3 neighbourhood where meridians converge the most.
func minCellKm(b geohash.Box) float64 {
	h := b.MaxLat - b.MinLat
	worst := math.Max(math.Abs(b.MinLat-h), math.Abs(b.MaxLat+h))
	if worst >= 90 {
		return 0
	}
	heightKm := h * kmPerDegree
	widthKm := (b.MaxLng - b.MinLng) * kmPerDegree * math.Cos(worst*math.Pi/180)
	return math.Min(heightKm, widthKm)
}
