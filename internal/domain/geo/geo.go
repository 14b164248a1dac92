// internal/domain/geo/geo.go

package geo

import (
	"fmt"
	"math"
)

// Degree thresholds used throughout the engine. These are deliberately
// per-axis (Chebyshev) rather than true spherical distance: near the
// equator 0.001 degrees is roughly 100m and 0.005 degrees roughly 500m.
const (
	// SamePointDegrees is the per-axis threshold under which two points
	// are treated as the same place.
	SamePointDegrees = 0.001

	// ClusterDegrees is the per-axis threshold for cluster membership.
	ClusterDegrees = 0.005
)

// EarthRadiusKm is the Earth radius used for all spherical math.
const EarthRadiusKm = 6371.0

// Location is a point in degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the coordinates are within range.
func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", l.Longitude)
	}
	return nil
}

// Distance returns the Haversine distance between two locations in kilometers.
func Distance(a, b Location) float64 {
	lat1 := a.Latitude * math.Pi / 180.0
	lon1 := a.Longitude * math.Pi / 180.0
	lat2 := b.Latitude * math.Pi / 180.0
	lon2 := b.Longitude * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	hSin := math.Sin(dLat / 2)
	hSin *= hSin

	vSin := math.Sin(dLon / 2)
	vSin *= vSin

	h := hSin + math.Cos(lat1)*math.Cos(lat2)*vSin

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// WithinBox reports whether b falls within a per-axis box of the given
// degree threshold around a.
func WithinBox(a, b Location, degrees float64) bool {
	return math.Abs(a.Latitude-b.Latitude) <= degrees &&
		math.Abs(a.Longitude-b.Longitude) <= degrees
}

// RoundCoord rounds a coordinate to three decimal places, the grid used to
// group historical visits to the same spot.
func RoundCoord(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// PointKey returns the rounded grid key for a location.
func PointKey(lat, lng float64) string {
	return fmt.Sprintf("%.3f,%.3f", RoundCoord(lat), RoundCoord(lng))
}
