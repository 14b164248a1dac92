// internal/service/profile/patterns.go

package profile

import (
	"parksense/internal/domain/booking"
	"parksense/internal/domain/profile"
	"parksense/internal/domain/timeslot"
)

// AnalyzeTimePatterns builds the weekday/weekend slot histograms and the
// hourly distribution from booking timestamps.
func AnalyzeTimePatterns(bookings []booking.Booking) profile.TimePatterns {
	patterns := profile.TimePatterns{
		WeekdayPattern: make(map[timeslot.Slot]int),
		WeekendPattern: make(map[timeslot.Slot]int),
		TimeSlots:      make(map[timeslot.Slot]int),
	}

	for _, b := range bookings {
		hour := b.CreatedAt.Hour()
		slot := timeslot.Of(b.CreatedAt)

		patterns.HourlyDistribution[hour]++
		patterns.TimeSlots[slot]++

		if timeslot.IsWeekend(b.CreatedAt) {
			patterns.WeekendPattern[slot]++
		} else {
			patterns.WeekdayPattern[slot]++
		}
	}

	return patterns
}

// Inference thresholds: a work cluster needs 60% of its bookings during
// weekday working hours, a home cluster 40% during weekends or evenings.
const (
	workShareThreshold = 0.6
	homeShareThreshold = 0.4
)

// inferWorkCluster picks the first cluster, in visit-count order, where at
// least 60% of bookings fall on a weekday between 08:00 and 18:00.
func inferWorkCluster(clusters []profile.LocationCluster) *profile.LocationCluster {
	for i := range clusters {
		if len(clusters[i].Bookings) == 0 {
			continue
		}

		workBookings := 0
		for _, b := range clusters[i].Bookings {
			if timeslot.IsWorkHours(b.CreatedAt) {
				workBookings++
			}
		}

		if float64(workBookings)/float64(len(clusters[i].Bookings)) >= workShareThreshold {
			return &clusters[i]
		}
	}
	return nil
}

// inferHomeCluster picks the first cluster, in visit-count order, not equal
// to the work cluster (compared by center latitude) where at least 40% of
// bookings fall on a weekend, in the evening, or in the early morning.
func inferHomeCluster(clusters []profile.LocationCluster, work *profile.LocationCluster) *profile.LocationCluster {
	for i := range clusters {
		if work != nil && clusters[i].CenterLat == work.CenterLat {
			continue
		}
		if len(clusters[i].Bookings) == 0 {
			continue
		}

		homeBookings := 0
		for _, b := range clusters[i].Bookings {
			if timeslot.IsHomeHours(b.CreatedAt) {
				homeBookings++
			}
		}

		if float64(homeBookings)/float64(len(clusters[i].Bookings)) >= homeShareThreshold {
			return &clusters[i]
		}
	}
	return nil
}
