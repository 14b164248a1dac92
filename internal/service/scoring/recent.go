// internal/service/scoring/recent.go

package scoring

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"parksense/internal/domain/booking"
	"parksense/internal/domain/geo"
	"parksense/internal/domain/profile"
	"parksense/internal/domain/search"
	"parksense/internal/domain/timeslot"
)

// DefaultTopRecent is how many recent locations are returned when the
// caller does not ask for a specific count.
const DefaultTopRecent = 3

// LocationType classifies a recent location by the current time of day.
type LocationType string

const (
	TypeWork     LocationType = "work"
	TypeHome     LocationType = "home"
	TypeFrequent LocationType = "frequent_location"
)

// RecentLocation is a scored, deduplicated historical location.
type RecentLocation struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Latitude    float64      `json:"latitude"`
	Longitude   float64      `json:"longitude"`
	Type        LocationType `json:"type"`
	AIScore     float64      `json:"aiScore"`
	LastVisited time.Time    `json:"lastVisited"`
	VisitCount  int          `json:"visitCount"`
	Icon        string       `json:"icon"`
	Label       string       `json:"label"`
}

// RecentSelector merges a user's searches and booking history into the
// top-N scored locations.
type RecentSelector struct {
	bookings booking.Repository
	searches search.Repository
	profiles profile.Service
	scorer   *LocationScorer
	logger   zerolog.Logger
}

// NewRecentSelector creates a top-recent selector.
func NewRecentSelector(
	bookings booking.Repository,
	searches search.Repository,
	profiles profile.Service,
	scorer *LocationScorer,
	logger zerolog.Logger,
) *RecentSelector {
	return &RecentSelector{
		bookings: bookings,
		searches: searches,
		profiles: profiles,
		scorer:   scorer,
		logger:   logger.With().Str("component", "recent_selector").Logger(),
	}
}

// TopRecent returns the user's top-n historical locations by composite
// score. Searches and bookings at the same rounded point collapse into
// one entry, searches winning the dedupe.
func (s *RecentSelector) TopRecent(ctx context.Context, userID string, now time.Time, n int) ([]RecentLocation, error) {
	if n <= 0 {
		n = DefaultTopRecent
	}

	searches, err := s.searches.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading recent searches: %w", err)
	}

	history, err := s.bookings.CompletedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading booking history: %w", err)
	}

	merged := mergeLocations(searches, history)

	prof, err := s.profiles.IdentifyPatterns(ctx, userID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn().Err(err).Msg("pattern inference failed, scoring with neutral patterns")
		prof = nil
	}

	if err := s.scoreAll(ctx, userID, now, prof, merged); err != nil {
		return nil, err
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].AIScore > merged[j].AIScore
	})

	if len(merged) > n {
		merged = merged[:n]
	}

	locType := resolveLocationType(now)
	icon, label := typePresentation(locType)
	for i := range merged {
		merged[i].Type = locType
		merged[i].Icon = icon
		merged[i].Label = label
	}

	return merged, nil
}

// scoreAll computes the location score for every merged entry
// concurrently. Writes land in the entry's own slot, so the final ordering
// stays deterministic for a fixed snapshot.
func (s *RecentSelector) scoreAll(ctx context.Context, userID string, now time.Time, prof *profile.UserProfile, merged []RecentLocation) error {
	var wg sync.WaitGroup
	errs := make([]error, len(merged))

	for i := range merged {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			loc := geo.Location{Latitude: merged[i].Latitude, Longitude: merged[i].Longitude}
			score, err := s.scorer.Score(ctx, userID, loc, prof, now)
			if err != nil {
				errs[i] = err
				return
			}
			merged[i].AIScore = score.Total
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// mergeLocations combines searches and aggregated booking locations,
// deduplicating on the rounded coordinate grid. Searches take precedence;
// a booking group only contributes when its grid key is unseen.
func mergeLocations(searches []search.RecentSearch, history []booking.Booking) []RecentLocation {
	var merged []RecentLocation
	seen := make(map[string]bool)

	for _, sr := range searches {
		key := geo.PointKey(sr.Latitude, sr.Longitude)
		if seen[key] {
			continue
		}
		seen[key] = true

		merged = append(merged, RecentLocation{
			ID:          sr.ID,
			Name:        sr.Name,
			Address:     sr.Address,
			Latitude:    sr.Latitude,
			Longitude:   sr.Longitude,
			LastVisited: sr.LastSearched,
			VisitCount:  sr.SearchCount,
		})
	}

	for _, group := range aggregateBookings(history) {
		if seen[group.key] {
			continue
		}
		seen[group.key] = true
		merged = append(merged, RecentLocation{
			ID:          group.spaceID,
			Name:        group.name,
			Address:     group.address,
			Latitude:    group.latitude,
			Longitude:   group.longitude,
			LastVisited: group.lastVisited,
			VisitCount:  group.visitCount,
		})
	}

	return merged
}

type bookingGroup struct {
	key         string
	spaceID     string
	name        string
	address     string
	latitude    float64
	longitude   float64
	visitCount  int
	lastVisited time.Time
}

// aggregateBookings groups consumed bookings into unique locations on the
// rounded coordinate grid. Coordinates and identity come from the first
// booking matched per group; group order follows first appearance.
func aggregateBookings(history []booking.Booking) []bookingGroup {
	var groups []bookingGroup
	index := make(map[string]int)

	for _, b := range history {
		if b.Space == nil {
			continue
		}

		key := geo.PointKey(b.Space.Latitude, b.Space.Longitude)
		if i, ok := index[key]; ok {
			groups[i].visitCount++
			if b.CreatedAt.After(groups[i].lastVisited) {
				groups[i].lastVisited = b.CreatedAt
			}
			continue
		}

		index[key] = len(groups)
		groups = append(groups, bookingGroup{
			key:         key,
			spaceID:     b.Space.ID,
			name:        b.Space.Name,
			address:     b.Space.Address,
			latitude:    b.Space.Latitude,
			longitude:   b.Space.Longitude,
			visitCount:  1,
			lastVisited: b.CreatedAt,
		})
	}

	return groups
}

// resolveLocationType classifies the present moment: work during weekday
// working hours, home on weekends and outside working hours.
func resolveLocationType(now time.Time) LocationType {
	if timeslot.IsWorkHours(now) {
		return TypeWork
	}
	if timeslot.IsWeekend(now) || now.Hour() < 8 || now.Hour() > 18 {
		return TypeHome
	}
	return TypeFrequent
}

func typePresentation(t LocationType) (icon, label string) {
	switch t {
	case TypeWork:
		return "briefcase", "Work"
	case TypeHome:
		return "home", "Home"
	default:
		return "map-pin", "Frequent place"
	}
}
