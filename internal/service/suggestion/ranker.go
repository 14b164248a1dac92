// internal/service/suggestion/ranker.go

package suggestion

import (
	"fmt"
	"math"
	"sort"

	"parksense/internal/domain/geo"
	"parksense/internal/domain/parking"
)

// Composite weights for the space score. These sum to 1.0.
const (
	weightProximity    = 0.4
	weightPatternMatch = 0.25
	weightAvailability = 0.2
	weightPreference   = 0.15
)

// Proximity decay per kilometer from the anchor.
const (
	proximityDecayCurrent = 20.0
	proximityDecayPattern = 15.0
)

// Preference heuristics.
const (
	preferenceBase        = 50.0
	affordableRateMin     = 20.0
	affordableRateMax     = 60.0
	affordableRateBonus   = 20.0
	goodRatingThreshold   = 4.0
	goodRatingBonus       = 15.0
	amenityCountThreshold = 2
	amenityBonus          = 10.0
)

// Rank scores candidate spaces with the weighted composite and returns the
// top limit suggestions in descending score order. visitCounts maps rounded
// point keys to the user's historical booking count there. Ties keep the
// candidate set's insertion order, so identical inputs rank identically.
func Rank(
	spaces []parking.Space,
	q geo.Query,
	filter FilterType,
	visitCounts map[string]int,
	limit int,
) []parking.Suggestion {
	suggestions := make([]parking.Suggestion, 0, len(spaces))

	for _, sp := range spaces {
		var distanceKm *float64
		if q.Anchored() {
			d := geo.Distance(*q.Anchor, sp.Point())
			distanceKm = &d
		}

		breakdown := parking.ScoreBreakdown{
			Proximity:    proximityScore(filter, distanceKm),
			PatternMatch: patternMatchScore(sp, visitCounts),
			Availability: availabilityScore(sp),
			Preference:   preferenceScore(sp),
		}

		total := weightProximity*breakdown.Proximity +
			weightPatternMatch*breakdown.PatternMatch +
			weightAvailability*breakdown.Availability +
			weightPreference*breakdown.Preference

		suggestions = append(suggestions, parking.Suggestion{
			Space:                sp,
			AIScore:              math.Min(100, total),
			AIBreakdown:          breakdown,
			RecommendationReason: recommendationReason(filter, distanceKm),
			DistanceKm:           distanceKm,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].AIScore > suggestions[j].AIScore
	})

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	return suggestions
}

// proximityScore rewards closeness to the anchor for location-anchored
// intents; other intents carry no proximity signal.
func proximityScore(filter FilterType, distanceKm *float64) float64 {
	if distanceKm == nil {
		return 0
	}

	switch filter {
	case FilterNearCurrent:
		return math.Max(0, 100-*distanceKm*proximityDecayCurrent)
	case FilterNearWork, FilterNearHome:
		return math.Max(0, 100-*distanceKm*proximityDecayPattern)
	default:
		return 0
	}
}

// patternMatchScore scales with how often the user has booked this exact
// spot before.
func patternMatchScore(sp parking.Space, visitCounts map[string]int) float64 {
	count := visitCounts[geo.PointKey(sp.Latitude, sp.Longitude)]
	return math.Min(100, float64(count)*10)
}

func availabilityScore(sp parking.Space) float64 {
	if sp.IsActive {
		return 80
	}
	return 20
}

// preferenceScore is a heuristic match against broadly preferred pricing,
// rating, and amenity levels.
func preferenceScore(sp parking.Space) float64 {
	score := preferenceBase

	if rate := sp.HourlyRate(); rate >= affordableRateMin && rate <= affordableRateMax {
		score += affordableRateBonus
	}
	if sp.Rating >= goodRatingThreshold {
		score += goodRatingBonus
	}
	if len(sp.Amenities) > amenityCountThreshold {
		score += amenityBonus
	}

	return math.Min(100, score)
}

// recommendationReason renders the human-readable line shown with each
// suggestion.
func recommendationReason(filter FilterType, distanceKm *float64) string {
	switch filter {
	case FilterNearby, FilterNearCurrent:
		if distanceKm != nil {
			return fmt.Sprintf("%.1fkm from current location", *distanceKm)
		}
	case FilterNearWork:
		return "Near your work area"
	case FilterNearHome:
		return "Near your home area"
	case FilterFrequentAreas:
		return "In an area you visit often"
	case FilterTimeBased:
		return "Matches your usual schedule"
	}
	return "Personalized recommendation"
}
