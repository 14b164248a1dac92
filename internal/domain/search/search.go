// internal/domain/search/search.go

package search

import (
	"context"
	"time"

	"parksense/internal/domain/geo"
)

// RecentSearch is a named place a user has searched for.
type RecentSearch struct {
	ID           string
	UserID       string
	Name         string
	Address      string
	Latitude     float64
	Longitude    float64
	SearchCount  int
	LastSearched time.Time
	Category     string
	IsActive     bool
}

// Point returns the search's coordinates.
func (s RecentSearch) Point() geo.Location {
	return geo.Location{Latitude: s.Latitude, Longitude: s.Longitude}
}

// educationCategories qualify a search as a frequent destination on the
// first visit; anywhere else needs at least two searches.
var educationCategories = map[string]bool{
	"university": true,
	"college":    true,
	"school":     true,
	"institute":  true,
	"academy":    true,
}

// IsFrequentDestination reports whether the search qualifies as an
// implicit location anchor for the nearby filter.
func (s RecentSearch) IsFrequentDestination() bool {
	if !s.IsActive {
		return false
	}
	return educationCategories[s.Category] || s.SearchCount >= 2
}

// Repository abstracts reads over a user's search history.
type Repository interface {
	// ByUser returns all recent searches for a user, most recently
	// searched first.
	ByUser(ctx context.Context, userID string) ([]RecentSearch, error)

	// AtPoint returns the user's searches within a per-axis degree box
	// around loc.
	AtPoint(ctx context.Context, userID string, loc geo.Location, boxDegrees float64) ([]RecentSearch, error)

	// FrequentDestinations returns the user's frequent search
	// destinations ordered by search count descending, then last
	// searched descending.
	FrequentDestinations(ctx context.Context, userID string) ([]RecentSearch, error)
}
