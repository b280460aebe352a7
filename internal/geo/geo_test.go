package geo

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolKm                  float64
	}{
		{"same point", 38.9680, -0.1800, 38.9680, -0.1800, 0, 0.0001},
		{"madrid to barcelona", 40.4168, -3.7038, 41.3874, 2.1686, 505, 3},
		{"one degree of latitude", 0, 0, 1, 0, 111.2, 0.5},
		{"across the equator", -0.5, 10, 0.5, 10, 111.2, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKm) > tt.tolKm {
				t.Fatalf("HaversineKm() = %v, want %v ± %v", got, tt.wantKm, tt.tolKm)
			}
		})
	}
}

var square = []Point{
	{Lat: 0, Lon: 0},
	{Lat: 0, Lon: 10},
	{Lat: 10, Lon: 10},
	{Lat: 10, Lon: 0},
}

func TestPointInPolygon(t *testing.T) {
	tests := []struct {
		name string
		pt   Point
		want bool
	}{
		{"center", Point{Lat: 5, Lon: 5}, true},
		{"near an edge but inside", Point{Lat: 0.1, Lon: 5}, true},
		{"outside to the north", Point{Lat: 11, Lon: 5}, false},
		{"outside to the west", Point{Lat: 5, Lon: -1}, false},
		{"far away", Point{Lat: -40, Lon: 120}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.pt, square); got != tt.want {
				t.Fatalf("PointInPolygon(%+v) = %v, want %v", tt.pt, got, tt.want)
			}
		})
	}
}

func TestPointInPolygonClosedRing(t *testing.T) {
	closed := append(append([]Point{}, square...), square[0])
	if !PointInPolygon(Point{Lat: 5, Lon: 5}, closed) {
		t.Fatal("center should be inside a closed ring too")
	}
}

func TestNearest(t *testing.T) {
	points := []Point{
		{Lat: 40.4168, Lon: -3.7038}, // Madrid
		{Lat: 41.3874, Lon: 2.1686},  // Barcelona
		{Lat: 39.4699, Lon: -0.3763}, // Valencia
		{Lat: 38.9680, Lon: -0.1800}, // Gandía
	}

	tests := []struct {
		name     string
		lat, lon float64
		want     int
	}{
		{"query near gandia", 38.97, -0.18, 3},
		{"query near madrid", 40.40, -3.70, 0},
		{"query near barcelona", 41.40, 2.17, 1},
		{"query near valencia", 39.47, -0.38, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Nearest(tt.lat, tt.lon, points)
			if got != tt.want {
				t.Fatalf("Nearest(%v, %v) = %d, want %d", tt.lat, tt.lon, got, tt.want)
			}
			// The winner must not be farther than any other candidate.
			best := HaversineKm(tt.lat, tt.lon, points[got].Lat, points[got].Lon)
			for i, p := range points {
				if d := HaversineKm(tt.lat, tt.lon, p.Lat, p.Lon); d < best {
					t.Fatalf("point %d at %v km beats reported nearest at %v km", i, d, best)
				}
			}
		})
	}
}

func TestNearestTieKeepsEarliest(t *testing.T) {
	dup := Point{Lat: 5, Lon: 5}
	if got := Nearest(5, 5, []Point{dup, dup, dup}); got != 0 {
		t.Fatalf("Nearest() = %d, want 0 on equidistant points", got)
	}
}

func TestNearestEmpty(t *testing.T) {
	if got := Nearest(5, 5, nil); got != -1 {
		t.Fatalf("Nearest() = %d, want -1 for no points", got)
	}
}

func TestBoundingBox(t *testing.T) {
	poly := []Point{
		{Lat: 38.976, Lon: -0.183},
		{Lat: 38.973, Lon: -0.174},
		{Lat: 38.968, Lon: -0.178},
		{Lat: 38.971, Lon: -0.186},
	}
	min, max := BoundingBox(poly)
	if min.Lat != 38.968 || max.Lat != 38.976 {
		t.Fatalf("lat bounds = [%v, %v]", min.Lat, max.Lat)
	}
	if min.Lon != -0.186 || max.Lon != -0.174 {
		t.Fatalf("lon bounds = [%v, %v]", min.Lon, max.Lon)
	}
}
