// internal/domain/parking/parking.go

package parking

import (
	"context"
	"errors"

	"parksense/internal/domain/geo"
)

// ErrNotFound is returned when a space does not exist.
var ErrNotFound = errors.New("parking space not found")

// Space is the read-visible projection of a parking space. The AI-metric
// fields (popularity, occupancy, peak hours, dynamic pricing) are carried
// for collaborators but are not inputs to the ranking formulas.
type Space struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	PricePer3Hours float64  `json:"pricePer3Hours"`
	Rating         float64  `json:"rating"`
	TotalReviews   int      `json:"totalReviews"`
	TotalSpots     int      `json:"totalSpots"`
	AvailableSpots int      `json:"availableSpots"`
	IsActive       bool     `json:"isActive"`
	IsVerified     bool     `json:"isVerified"`
	Amenities      []string `json:"amenities"`
	Images         []string `json:"images"`
	Type           string   `json:"type"`

	Popularity               float64 `json:"popularity,omitempty"`
	OccupancyRate            float64 `json:"occupancyRate,omitempty"`
	PeakHours                []int   `json:"peakHours,omitempty"`
	DynamicPricingMultiplier float64 `json:"dynamicPricingMultiplier,omitempty"`
}

// Point returns the space's coordinates.
func (s Space) Point() geo.Location {
	return geo.Location{Latitude: s.Latitude, Longitude: s.Longitude}
}

// HourlyRate derives the per-hour price from the 3-hour block price.
func (s Space) HourlyRate() float64 {
	return s.PricePer3Hours / 3
}

// ScoreBreakdown itemizes the weighted sub-scores behind a suggestion.
type ScoreBreakdown struct {
	Proximity    float64 `json:"proximity"`
	PatternMatch float64 `json:"patternMatch"`
	Availability float64 `json:"availability"`
	Preference   float64 `json:"preference"`
}

// Suggestion is a ranked parking space emitted to the caller.
type Suggestion struct {
	Space
	AIScore              float64        `json:"aiScore"`
	AIBreakdown          ScoreBreakdown `json:"aiBreakdown"`
	RecommendationReason string         `json:"recommendationReason"`
	DistanceKm           *float64       `json:"distance,omitempty"`
}

// Repository abstracts reads over parking spaces.
type Repository interface {
	// FindCandidates returns up to limit active, verified spaces with
	// available spots that match the geographic predicate of q, filtered
	// to spaceType when non-empty. The returned order is stable for
	// identical inputs: distance ascending when anchored, otherwise the
	// query's sort bias, with the space ID as the final tie-break.
	FindCandidates(ctx context.Context, q geo.Query, spaceType string, limit int) ([]Space, error)
}
