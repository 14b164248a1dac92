// internal/service/profile/clusterer_test.go

package profile

import (
	"testing"
	"time"

	"parksense/internal/domain/booking"
	"parksense/internal/domain/geo"
	"parksense/internal/domain/parking"
)

func bookingAt(id string, lat, lng float64, createdAt time.Time) booking.Booking {
	return booking.Booking{
		ID:     id,
		UserID: "user-1",
		Space: &parking.Space{
			ID:        "space-" + id,
			Name:      "Space " + id,
			Address:   "Address " + id,
			Latitude:  lat,
			Longitude: lng,
		},
		Status:    booking.StatusCompleted,
		CreatedAt: createdAt,
	}
}

func TestClusterGroupsNearbyBookings(t *testing.T) {
	now := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

	bookings := []booking.Booking{
		bookingAt("1", 14.550, 121.020, now),
		bookingAt("2", 14.552, 121.022, now), // within 0.005 of the first
		bookingAt("3", 14.600, 121.100, now), // far away
	}

	clusters := Cluster(bookings)

	if len(clusters) != 2 {
		t.Fatalf("Cluster() produced %d clusters, want 2", len(clusters))
	}

	if clusters[0].VisitCount != 2 || clusters[1].VisitCount != 1 {
		t.Errorf("visit counts = %d, %d; want 2, 1", clusters[0].VisitCount, clusters[1].VisitCount)
	}
}

func TestClusterCenterNeverMigrates(t *testing.T) {
	now := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

	// The second point is within the threshold of the first, the third is
	// within the threshold of the second but not the first. With a fixed
	// center, the third must seed a new cluster.
	bookings := []booking.Booking{
		bookingAt("1", 14.550, 121.020, now),
		bookingAt("2", 14.554, 121.020, now),
		bookingAt("3", 14.558, 121.020, now),
	}

	clusters := Cluster(bookings)

	if len(clusters) != 2 {
		t.Fatalf("Cluster() produced %d clusters, want 2", len(clusters))
	}

	if clusters[0].CenterLat != 14.550 {
		t.Errorf("first cluster center = %f, want the seed booking's point", clusters[0].CenterLat)
	}
}

func TestClusterDisjointCenters(t *testing.T) {
	now := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

	bookings := []booking.Booking{
		bookingAt("1", 14.550, 121.020, now),
		bookingAt("2", 14.560, 121.030, now),
		bookingAt("3", 14.570, 121.040, now),
		bookingAt("4", 14.551, 121.021, now),
	}

	clusters := Cluster(bookings)

	for i := range clusters {
		for j := i + 1; j < len(clusters); j++ {
			if geo.WithinBox(clusters[i].Center(), clusters[j].Center(), geo.ClusterDegrees) {
				t.Errorf("cluster centers %d and %d overlap", i, j)
			}
		}
	}
}

func TestClusterSkipsBookingsWithoutSpace(t *testing.T) {
	now := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

	bookings := []booking.Booking{
		{ID: "1", UserID: "user-1", Status: booking.StatusCompleted, CreatedAt: now},
		bookingAt("2", 14.550, 121.020, now),
	}

	clusters := Cluster(bookings)

	if len(clusters) != 1 {
		t.Fatalf("Cluster() produced %d clusters, want 1", len(clusters))
	}
	if clusters[0].VisitCount != 1 {
		t.Errorf("visit count = %d, want 1", clusters[0].VisitCount)
	}
}

func TestClusterEmptyInput(t *testing.T) {
	if clusters := Cluster(nil); len(clusters) != 0 {
		t.Errorf("Cluster(nil) produced %d clusters, want 0", len(clusters))
	}
}
