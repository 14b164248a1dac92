// internal/service/suggestion/service.go

package suggestion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"parksense/internal/domain/booking"
	"parksense/internal/domain/geo"
	"parksense/internal/domain/parking"
	profiledomain "parksense/internal/domain/profile"
	"parksense/internal/domain/timeslot"
	profileservice "parksense/internal/service/profile"
)

// CandidateLimit caps the spaces pulled from the repository before ranking.
const CandidateLimit = 50

// ScoringMethod is the fixed description of the ranking surfaced to
// clients.
const ScoringMethod = "Weighted scoring: 40% distance, 25% rating, 20% pricing, 15% amenities"

// Config contains configuration for the suggestion service.
type Config struct {
	EventsTopic string
}

// Request is one suggestion request.
type Request struct {
	UserID      string
	Filter      FilterType
	Device      *geo.Location
	VehicleType string
	Limit       int
	Now         time.Time
}

// Result is the engine's answer to a suggestion request.
type Result struct {
	Suggestions      []parking.Suggestion
	BestCandidate    *parking.Suggestion
	TotalCount       int
	LocationSource   geo.Source
	HasSearchHistory bool
	TimeContext      timeslot.Slot
}

// SmartResult augments Result with the automatically chosen filter.
type SmartResult struct {
	Result
	SmartFilter    FilterType
	ContextReason  string
	HasWorkPattern bool
	HasHomePattern bool
}

// Service assembles and ranks parking suggestions.
type Service struct {
	spaces   parking.Repository
	bookings booking.Repository
	profiles profiledomain.Service
	resolver *Resolver
	eventBus *nats.Conn
	config   Config
	logger   zerolog.Logger
}

// NewService creates a suggestion service. eventBus may be nil, in which
// case served events are not published.
func NewService(
	spaces parking.Repository,
	bookings booking.Repository,
	profiles profiledomain.Service,
	resolver *Resolver,
	eventBus *nats.Conn,
	config Config,
	logger zerolog.Logger,
) *Service {
	return &Service{
		spaces:   spaces,
		bookings: bookings,
		profiles: profiles,
		resolver: resolver,
		eventBus: eventBus,
		config:   config,
		logger:   logger.With().Str("component", "suggestion").Logger(),
	}
}

// GetParkingSuggestions resolves the request's filter into a candidate
// query, ranks the candidates, and returns the ordered suggestion list.
func (s *Service) GetParkingSuggestions(ctx context.Context, req Request) (*Result, error) {
	profiles := profileservice.NewCached(s.profiles)
	result, err := s.suggest(ctx, req, profiles)
	if err != nil {
		return nil, err
	}

	s.publishServed(req, result, "served")
	return result, nil
}

// GetSmartSuggestions picks a filter from the current context and runs the
// suggestion pipeline with it.
func (s *Service) GetSmartSuggestions(ctx context.Context, req Request) (*SmartResult, error) {
	profiles := profileservice.NewCached(s.profiles)

	prof := s.identify(ctx, profiles, req.UserID)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filter, reason := SelectSmartFilter(prof, req.Now)
	req.Filter = filter

	result, err := s.suggest(ctx, req, profiles)
	if err != nil {
		return nil, err
	}

	smart := &SmartResult{
		Result:         *result,
		SmartFilter:    filter,
		ContextReason:  reason,
		HasWorkPattern: prof != nil && prof.WorkLocation != nil,
		HasHomePattern: prof != nil && prof.HomeLocation != nil,
	}

	s.publishServed(req, result, "smart.served")
	return smart, nil
}

// suggest runs the resolve-query-rank pipeline. profiles is the
// request-scoped memoizing profile service.
func (s *Service) suggest(ctx context.Context, req Request, profiles profiledomain.Service) (*Result, error) {
	prof := s.identify(ctx, profiles, req.UserID)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q, err := s.resolver.Resolve(ctx, req.UserID, req.Filter, req.Device, prof, req.Now)
	if err != nil {
		return nil, fmt.Errorf("error resolving filter: %w", err)
	}

	result := &Result{
		LocationSource:   q.Source,
		HasSearchHistory: q.Source == geo.SourceFrequentSearch,
		TimeContext:      timeslot.Of(req.Now),
	}

	// The nearby filter without search history returns an empty set by
	// policy rather than falling back to an unconstrained query.
	if q.Empty {
		result.Suggestions = []parking.Suggestion{}
		return result, nil
	}

	spaces, err := s.spaces.FindCandidates(ctx, q, req.VehicleType, CandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("error querying candidate spaces: %w", err)
	}

	visitCounts := s.visitCounts(ctx, req.UserID)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Suggestions = Rank(spaces, q, req.Filter, visitCounts, req.Limit)
	result.TotalCount = len(result.Suggestions)

	if req.Filter == FilterNearby && len(result.Suggestions) > 0 {
		best := result.Suggestions[0]
		result.BestCandidate = &best
	}

	return result, nil
}

// identify derives the user's profile, degrading to nil on transient
// failure so the request can still be served with non-personalized scores.
func (s *Service) identify(ctx context.Context, profiles profiledomain.Service, userID string) *profiledomain.UserProfile {
	prof, err := profiles.IdentifyPatterns(ctx, userID)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("pattern inference failed")
		}
		return nil
	}
	return prof
}

// visitCounts aggregates the user's consumed bookings onto the rounded
// coordinate grid for the pattern-match sub-score. Failures degrade to an
// empty history.
func (s *Service) visitCounts(ctx context.Context, userID string) map[string]int {
	history, err := s.bookings.CompletedByUser(ctx, userID)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("booking history lookup failed")
		}
		return map[string]int{}
	}

	counts := make(map[string]int, len(history))
	for _, b := range history {
		if b.Space == nil {
			continue
		}
		counts[geo.PointKey(b.Space.Latitude, b.Space.Longitude)]++
	}
	return counts
}

// servedEvent is the payload published after a successful response.
type servedEvent struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	Filter         FilterType `json:"filter"`
	LocationSource geo.Source `json:"locationSource"`
	TotalCount     int        `json:"totalCount"`
	ServedAt       time.Time  `json:"servedAt"`
}

// publishServed emits a fire-and-forget event for downstream collaborators
// (notifications, analytics). Publish failures never fail the request.
func (s *Service) publishServed(req Request, result *Result, eventType string) {
	if s.eventBus == nil {
		return
	}

	data, err := json.Marshal(servedEvent{
		ID:             uuid.New().String(),
		UserID:         req.UserID,
		Filter:         req.Filter,
		LocationSource: result.LocationSource,
		TotalCount:     result.TotalCount,
		ServedAt:       time.Now(),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("error marshaling served event")
		return
	}

	topic := fmt.Sprintf("%s.%s", s.config.EventsTopic, eventType)
	if err := s.eventBus.Publish(topic, data); err != nil {
		s.logger.Warn().Err(err).Str("topic", topic).Msg("error publishing served event")
	}
}
