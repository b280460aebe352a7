// Package geo provides the small amount of geographic math the service
// needs: great-circle distance between coordinates and point-in-polygon
// tests for the synthetic measurement generator.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// HaversineKm returns the great-circle distance in kilometers between two
// coordinates.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// Nearest returns the index of the point closest to the given coordinate
// by great-circle distance, or -1 when points is empty.  Ties keep the
// earliest index.
func Nearest(lat, lon float64, points []Point) int {
	best := -1
	bestDist := math.Inf(1)
	for i, p := range points {
		if d := HaversineKm(lat, lon, p.Lat, p.Lon); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// BoundingBox returns the min and max corners of a polygon.  The polygon
// must not be empty.
func BoundingBox(polygon []Point) (min, max Point) {
	min, max = polygon[0], polygon[0]
	for _, p := range polygon[1:] {
		if p.Lat < min.Lat {
			min.Lat = p.Lat
		}
		if p.Lat > max.Lat {
			max.Lat = p.Lat
		}
		if p.Lon < min.Lon {
			min.Lon = p.Lon
		}
		if p.Lon > max.Lon {
			max.Lon = p.Lon
		}
	}
	return min, max
}

// PointInPolygon reports whether pt lies inside the polygon using the
// ray-casting rule.  The polygon may be open or closed; a closing vertex
// equal to the first is harmless.
func PointInPolygon(pt Point, polygon []Point) bool {
	inside := false
	n := len(polygon)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := polygon[i], polygon[j]
		if (a.Lon > pt.Lon) != (b.Lon > pt.Lon) &&
			pt.Lat < (b.Lat-a.Lat)*(pt.Lon-a.Lon)/(b.Lon-a.Lon)+a.Lat {
			inside = !inside
		}
	}
	return inside
}
