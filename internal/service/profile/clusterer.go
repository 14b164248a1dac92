// internal/service/profile/clusterer.go

package profile

import (
	"sort"

	"parksense/internal/domain/booking"
	"parksense/internal/domain/geo"
	"parksense/internal/domain/profile"
)

// Cluster groups bookings by proximity using single-pass greedy first-fit.
// A booking joins the first cluster whose center is within the cluster
// threshold on both axes; otherwise it seeds a new cluster at its own
// point. Centers never migrate, so clusters stay pairwise disjoint under
// the same threshold. Output is ordered by visit count descending.
func Cluster(bookings []booking.Booking) []profile.LocationCluster {
	var clusters []profile.LocationCluster

	for _, b := range bookings {
		if b.Space == nil {
			continue
		}

		point := b.Space.Point()

		assigned := false
		for i := range clusters {
			if geo.WithinBox(clusters[i].Center(), point, geo.ClusterDegrees) {
				clusters[i].Bookings = append(clusters[i].Bookings, b)
				clusters[i].VisitCount++
				assigned = true
				break
			}
		}

		if !assigned {
			clusters = append(clusters, profile.LocationCluster{
				CenterLat:  point.Latitude,
				CenterLng:  point.Longitude,
				Name:       b.Space.Name,
				Address:    b.Space.Address,
				Bookings:   []booking.Booking{b},
				VisitCount: 1,
			})
		}
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].VisitCount > clusters[j].VisitCount
	})

	return clusters
}
