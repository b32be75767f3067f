// Package geo provides great-circle distance on orb points.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusMeters is the mean Earth radius used by DistanceMeters.
const EarthRadiusMeters = 6_371_000.0

// DistanceMeters returns the Haversine distance between two points in meters.
func DistanceMeters(a, b orb.Point) float64 {
	lat1 := degreesToRadians(a.Lat())
	lat2 := degreesToRadians(b.Lat())
	dLat := lat2 - lat1
	dLng := degreesToRadians(b.Lon() - a.Lon())

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	// Rounding can push h slightly outside [0, 1] for identical or antipodal points.
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}
