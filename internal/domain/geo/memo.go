package geo

// Distancer computes the distance in kilometers between two points.
type Distancer interface {
	DistanceKm(a, b Point) float64
}

// Haversine is a stateless Distancer.
type Haversine struct{}

// DistanceKm implements Distancer.
func (Haversine) DistanceKm(a, b Point) float64 { return a.DistanceTo(b) }

type pointPair struct {
	a, b Point
}

// Memo memoizes distances within a single scoring pass. Not safe for concurrent use.
type Memo struct {
	cache    map[pointPair]float64
	computed int
}

// NewMemo creates an empty per-pass distance memo.
func NewMemo() *Memo {
	return &Memo{cache: make(map[pointPair]float64)}
}

// DistanceKm returns the memoized distance, computing it on first use.
// The key is order-independent since the distance is symmetric.
func (m *Memo) DistanceKm(a, b Point) float64 {
	key := pointPair{a: a, b: b}
	if b.Lat < a.Lat || (b.Lat == a.Lat && b.Lng < a.Lng) {
		key = pointPair{a: b, b: a}
	}
	if d, ok := m.cache[key]; ok {
		return d
	}
	d := a.DistanceTo(b)
	m.cache[key] = d
	m.computed++
	return d
}

// Computed returns how many distances were actually computed (cache misses).
func (m *Memo) Computed() int { return m.computed }

// Lookups returns how many distinct point pairs are memoized.
func (m *Memo) Lookups() int { return len(m.cache) }
