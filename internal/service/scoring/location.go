// internal/service/scoring/location.go

package scoring

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"parksense/internal/domain/booking"
	"parksense/internal/domain/geo"
	"parksense/internal/domain/profile"
	"parksense/internal/domain/search"
	"parksense/internal/domain/timeslot"
)

// Composite weights for the location score. The weights sum to 1.1; the
// ceiling at 100 absorbs the overshoot for high sub-scores. Kept as-is for
// parity with the production ranking.
const (
	weightFrequency       = 0.4
	weightRecency         = 0.3
	weightSuccessRate     = 0.2
	weightTimePattern     = 0.1
	weightContextualBonus = 0.1
)

// recencyDecayPerDay drains the recency sub-score to zero in about a month.
const recencyDecayPerDay = 3.33

// frequencyCeiling is the visit volume that saturates the frequency score.
const frequencyCeiling = 50

// LocationScore itemizes the composite score of a historical location.
type LocationScore struct {
	Frequency       float64 `json:"frequency"`
	Recency         float64 `json:"recency"`
	SuccessRate     float64 `json:"successRate"`
	TimePattern     float64 `json:"timePattern"`
	ContextualBonus float64 `json:"contextualBonus"`
	Total           float64 `json:"total"`
}

// LocationScorer computes a composite 0-100 score for a point of interest
// from a user's history at that point.
type LocationScorer struct {
	bookings booking.Repository
	searches search.Repository
	logger   zerolog.Logger
}

// NewLocationScorer creates a location scorer.
func NewLocationScorer(
	bookings booking.Repository,
	searches search.Repository,
	logger zerolog.Logger,
) *LocationScorer {
	return &LocationScorer{
		bookings: bookings,
		searches: searches,
		logger:   logger.With().Str("component", "location_scorer").Logger(),
	}
}

// Score computes the composite score for loc as of now. The caller passes
// the user's inferred profile; a nil profile degrades the pattern-driven
// sub-scores to their neutral values. Repository failures inside a
// sub-score degrade the same way so one bad lookup does not nullify the
// ranking; only cancellation aborts.
func (s *LocationScorer) Score(ctx context.Context, userID string, loc geo.Location, prof *profile.UserProfile, now time.Time) (LocationScore, error) {
	if err := ctx.Err(); err != nil {
		return LocationScore{}, err
	}

	bookingsAt, err := s.bookings.AtPoint(ctx, userID, loc, geo.SamePointDegrees)
	if err != nil {
		if ctx.Err() != nil {
			return LocationScore{}, ctx.Err()
		}
		s.logger.Warn().Err(err).Msg("booking lookup failed, scoring without bookings")
		bookingsAt = nil
	}

	searchesAt, err := s.searches.AtPoint(ctx, userID, loc, geo.SamePointDegrees)
	if err != nil {
		if ctx.Err() != nil {
			return LocationScore{}, ctx.Err()
		}
		s.logger.Warn().Err(err).Msg("search lookup failed, scoring without searches")
		searchesAt = nil
	}

	totalSearchCount := 0
	for _, sr := range searchesAt {
		totalSearchCount += sr.SearchCount
	}

	score := LocationScore{
		Frequency:   frequencyScore(len(bookingsAt), totalSearchCount),
		Recency:     recencyScore(bookingsAt, searchesAt, now),
		SuccessRate: successRateScore(len(bookingsAt), totalSearchCount),
	}

	if prof == nil {
		score.TimePattern = 50
		score.ContextualBonus = 0
	} else {
		score.TimePattern = timePatternScore(prof.Patterns, now)
		score.ContextualBonus = contextualBonus(prof, loc, now)
	}

	total := weightFrequency*score.Frequency +
		weightRecency*score.Recency +
		weightSuccessRate*score.SuccessRate +
		weightTimePattern*score.TimePattern +
		weightContextualBonus*score.ContextualBonus

	score.Total = math.Min(100, total)

	return score, nil
}

// frequencyScore saturates at 50 combined visits and searches.
func frequencyScore(bookingCount, totalSearchCount int) float64 {
	return math.Min(100, float64(bookingCount+totalSearchCount)/frequencyCeiling*100)
}

// recencyScore decays from the most recent booking or search. A location
// with no history scores zero.
func recencyScore(bookings []booking.Booking, searches []search.RecentSearch, now time.Time) float64 {
	var mostRecent time.Time
	for _, b := range bookings {
		if b.CreatedAt.After(mostRecent) {
			mostRecent = b.CreatedAt
		}
	}
	for _, sr := range searches {
		if sr.LastSearched.After(mostRecent) {
			mostRecent = sr.LastSearched
		}
	}

	if mostRecent.IsZero() {
		return 0
	}

	days := now.Sub(mostRecent).Hours() / 24
	return math.Max(0, 100-days*recencyDecayPerDay)
}

// successRateScore measures how often interest in a location converted
// into a booking. Neutral 50 with no history, full 100 with bookings only.
func successRateScore(bookingCount, totalSearchCount int) float64 {
	if bookingCount == 0 && totalSearchCount == 0 {
		return 50
	}
	if totalSearchCount == 0 {
		return 100
	}
	return float64(bookingCount) / float64(bookingCount+totalSearchCount) * 100
}

// timePatternScore is the share of the relevant weekday-or-weekend pattern
// that falls in the current slot, scaled to 100. An empty pattern is
// neutral.
func timePatternScore(patterns profile.TimePatterns, now time.Time) float64 {
	pattern := patterns.WeekdayPattern
	if timeslot.IsWeekend(now) {
		pattern = patterns.WeekendPattern
	}

	total := 0
	for _, count := range pattern {
		total += count
	}
	if total == 0 {
		return 50
	}

	return float64(pattern[timeslot.Of(now)]) / float64(total) * 100
}

// contextualBonus grants up to 30 bonus points when the location lines up
// with the inferred work or home cluster at a fitting time of day.
func contextualBonus(p *profile.UserProfile, loc geo.Location, now time.Time) float64 {
	bonus := 0.0

	if p.WorkLocation != nil &&
		geo.WithinBox(p.WorkLocation.Center(), loc, geo.ClusterDegrees) &&
		timeslot.IsWorkHours(now) {
		bonus += 20
	}

	if p.HomeLocation != nil &&
		geo.WithinBox(p.HomeLocation.Center(), loc, geo.ClusterDegrees) &&
		timeslot.IsHomeHours(now) {
		bonus += 15
	}

	return math.Min(30, bonus)
}
