// internal/service/profile/service.go

package profile

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"parksense/internal/domain/booking"
	"parksense/internal/domain/profile"
)

// Service implements profile.Service on top of the booking repository.
type Service struct {
	bookings booking.Repository
	logger   zerolog.Logger
}

// NewService creates a new pattern inference service.
func NewService(bookings booking.Repository, logger zerolog.Logger) *Service {
	return &Service{
		bookings: bookings,
		logger:   logger.With().Str("component", "profile").Logger(),
	}
}

// IdentifyPatterns derives the user's behavioral profile from their
// consumed booking history: location clusters, time histograms, and the
// inferred home and work clusters.
func (s *Service) IdentifyPatterns(ctx context.Context, userID string) (*profile.UserProfile, error) {
	history, err := s.bookings.CompletedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading booking history: %w", err)
	}

	clusters := Cluster(history)
	patterns := AnalyzeTimePatterns(history)

	work := inferWorkCluster(clusters)
	home := inferHomeCluster(clusters, work)

	s.logger.Debug().
		Str("user_id", userID).
		Int("bookings", len(history)).
		Int("clusters", len(clusters)).
		Bool("has_work", work != nil).
		Bool("has_home", home != nil).
		Msg("identified user patterns")

	return &profile.UserProfile{
		HomeLocation:     home,
		WorkLocation:     work,
		Patterns:         patterns,
		LocationClusters: clusters,
		TotalBookings:    len(history),
	}, nil
}

// Cached wraps a profile service with a per-request memo. Several
// sub-steps of a single request consult the profile; the memo keeps them
// from re-reading the booking history. A Cached instance must not outlive
// its request, since booking history can change between requests.
type Cached struct {
	inner profile.Service

	mu      sync.Mutex
	results map[string]*profile.UserProfile
}

// NewCached creates a request-scoped memoizing wrapper around inner.
func NewCached(inner profile.Service) *Cached {
	return &Cached{
		inner:   inner,
		results: make(map[string]*profile.UserProfile),
	}
}

// IdentifyPatterns returns the memoized profile for userID, computing it
// once on first use. Errors are not memoized so a transient failure does
// not poison the request.
func (c *Cached) IdentifyPatterns(ctx context.Context, userID string) (*profile.UserProfile, error) {
	c.mu.Lock()
	if p, ok := c.results[userID]; ok {
		c.mu.Unlock()
		return p, nil
	}
	c.mu.Unlock()

	p, err := c.inner.IdentifyPatterns(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.results[userID] = p
	c.mu.Unlock()

	return p, nil
}
