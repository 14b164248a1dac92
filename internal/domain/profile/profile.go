// internal/domain/profile/profile.go

package profile

import (
	"context"

	"parksense/internal/domain/booking"
	"parksense/internal/domain/geo"
	"parksense/internal/domain/timeslot"
)

// LocationCluster groups bookings whose parking spaces fall within a
// 0.005-degree per-axis box of the cluster center. The center is the point
// of the first booking assigned and never migrates.
type LocationCluster struct {
	CenterLat  float64
	CenterLng  float64
	Name       string
	Address    string
	Bookings   []booking.Booking
	VisitCount int
}

// Center returns the cluster center as a location.
func (c LocationCluster) Center() geo.Location {
	return geo.Location{Latitude: c.CenterLat, Longitude: c.CenterLng}
}

// TimePatterns are the user's booking-time histograms.
type TimePatterns struct {
	WeekdayPattern     map[timeslot.Slot]int
	WeekendPattern     map[timeslot.Slot]int
	TimeSlots          map[timeslot.Slot]int
	HourlyDistribution [24]int
}

// UserProfile is the per-request behavioral profile derived from booking
// history. It is recomputed for every request and never cached across
// requests.
type UserProfile struct {
	HomeLocation     *LocationCluster
	WorkLocation     *LocationCluster
	Patterns         TimePatterns
	LocationClusters []LocationCluster
	TotalBookings    int
}

// Service infers behavioral patterns from a user's booking history.
type Service interface {
	// IdentifyPatterns derives the user's profile from their consumed
	// booking history.
	IdentifyPatterns(ctx context.Context, userID string) (*UserProfile, error)
}
