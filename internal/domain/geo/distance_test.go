package geo

import (
	"math"
	"testing"
)

func almost(a, b, eps float64) bool {
	if a > b {
		return a-b < eps
	}
	return b-a < eps
}

func TestDistanceKm_SamePoint(t *testing.T) {
	d := DistanceKm(-17.7833, -63.1821, -17.7833, -63.1821)
	if d != 0 {
		t.Fatalf("want 0, got %f", d)
	}
}

func TestDistanceKm_NewYork_London(t *testing.T) {
	// NYC to London: ~5,570 km
	d := DistanceKm(40.7128, -74.0060, 51.5074, -0.1278)
	if !almost(d, 5570, 30) {
		t.Fatalf("want ~5570km, got %.0fkm", d)
	}
}

func TestDistanceKm_Antipodal(t *testing.T) {
	d := DistanceKm(0, 0, 0, 180)
	expected := math.Pi * EarthRadiusKm
	if !almost(d, expected, 1e-6) {
		t.Fatalf("want ~%.3fkm, got %.3fkm", expected, d)
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	points := []Point{
		{-17.7833, -63.1821}, // Santa Cruz centro
		{-17.7610, -63.1960}, // Equipetrol
		{-16.5000, -68.1500}, // La Paz
		{40.7128, -74.0060},
		{-33.8688, 151.2093},
		{89.9, 179.9},
	}
	for _, a := range points {
		for _, b := range points {
			ab := a.DistanceTo(b)
			ba := b.DistanceTo(a)
			if !almost(ab, ba, 1e-9) {
				t.Errorf("distance(%v,%v)=%f != distance(%v,%v)=%f", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestDistanceKm_ShortHop(t *testing.T) {
	// 0.01 degree of latitude is ~1.11 km everywhere.
	d := DistanceKm(-17.78, -63.18, -17.79, -63.18)
	if !almost(d, 1.112, 0.005) {
		t.Fatalf("want ~1.112km, got %f", d)
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		lat, lng float64
		valid    bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{91, 0, false},
		{0, 181, false},
		{-91, 0, false},
		{0, -181, false},
	}
	for _, tt := range tests {
		if got := ValidateCoordinates(tt.lat, tt.lng); got != tt.valid {
			t.Errorf("ValidateCoordinates(%f, %f) = %v, want %v", tt.lat, tt.lng, got, tt.valid)
		}
	}
}

func TestPoint_Valid(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"santa cruz", Point{-17.78, -63.18}, true},
		{"null island", Point{0, 0}, false},
		{"nan lat", Point{math.NaN(), -63.18}, false},
		{"inf lng", Point{-17.78, math.Inf(1)}, false},
		{"out of range", Point{-95, -63.18}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
