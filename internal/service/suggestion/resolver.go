// internal/service/suggestion/resolver.go

package suggestion

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"parksense/internal/domain/geo"
	"parksense/internal/domain/profile"
	"parksense/internal/domain/search"
	"parksense/internal/domain/timeslot"
)

// Radii, in kilometers, per filter intent.
const (
	radiusNearby       = 5.0
	radiusNearCurrent  = 2.0
	radiusNearPattern  = 3.0
	radiusFrequentArea = 2.0
	radiusTimeBased    = 5.0
	radiusSortBias     = 5.0
)

// frequentAreaCount caps how many clusters the frequent_areas filter spans.
const frequentAreaCount = 3

// Resolver translates a filter intent, the user's profile, and the device
// location into a candidate geo-query.
type Resolver struct {
	searches search.Repository
	logger   zerolog.Logger
}

// NewResolver creates a filter resolver.
func NewResolver(searches search.Repository, logger zerolog.Logger) *Resolver {
	return &Resolver{
		searches: searches,
		logger:   logger.With().Str("component", "filter_resolver").Logger(),
	}
}

// Resolve produces the candidate query for the given intent. prof may be
// nil when pattern inference failed or was not needed; pattern-anchored
// filters then resolve unconstrained.
func (r *Resolver) Resolve(
	ctx context.Context,
	userID string,
	filter FilterType,
	device *geo.Location,
	prof *profile.UserProfile,
	now time.Time,
) (geo.Query, error) {
	switch filter {
	case FilterNearby:
		return r.resolveNearby(ctx, userID, device)

	case FilterNearCurrent:
		if device == nil {
			return geo.Query{Source: geo.SourceNone}, nil
		}
		return geo.Query{Anchor: device, RadiusKm: radiusNearCurrent, Source: geo.SourceGPS}, nil

	case FilterNearWork:
		if prof == nil || prof.WorkLocation == nil {
			return geo.Query{Source: geo.SourceNone}, nil
		}
		center := prof.WorkLocation.Center()
		return geo.Query{Anchor: &center, RadiusKm: radiusNearPattern, Source: geo.SourceWorkPattern}, nil

	case FilterNearHome:
		if prof == nil || prof.HomeLocation == nil {
			return geo.Query{Source: geo.SourceNone}, nil
		}
		center := prof.HomeLocation.Center()
		return geo.Query{Anchor: &center, RadiusKm: radiusNearPattern, Source: geo.SourceHomePattern}, nil

	case FilterFrequentAreas:
		return resolveFrequentAreas(prof), nil

	case FilterTimeBased:
		return resolveTimeBased(prof, now), nil

	case FilterPrice:
		return resolveSortBias(device, geo.BiasPrice), nil
	case FilterRating:
		return resolveSortBias(device, geo.BiasRating), nil
	case FilterAvailability:
		return resolveSortBias(device, geo.BiasAvailability), nil

	default:
		return geo.Query{Source: geo.SourceNone}, nil
	}
}

// resolveNearby prefers the user's top frequent search destination over raw
// device GPS. Without any search history the result set is empty by policy;
// a failed repository read falls back to the device location.
func (r *Resolver) resolveNearby(ctx context.Context, userID string, device *geo.Location) (geo.Query, error) {
	dests, err := r.searches.FrequentDestinations(ctx, userID)
	if err != nil {
		if ctx.Err() != nil {
			return geo.Query{}, ctx.Err()
		}
		r.logger.Warn().Err(err).Msg("frequent destination lookup failed, falling back to GPS")

		if device != nil {
			return geo.Query{Anchor: device, RadiusKm: radiusNearby, Source: geo.SourceGPSFallback}, nil
		}
		return geo.Query{Empty: true, Source: geo.SourceNoSearchHistory}, nil
	}

	if len(dests) == 0 {
		return geo.Query{Empty: true, Source: geo.SourceNoSearchHistory}, nil
	}

	anchor := dests[0].Point()
	return geo.Query{Anchor: &anchor, RadiusKm: radiusNearby, Source: geo.SourceFrequentSearch}, nil
}

// resolveFrequentAreas spans caps around the user's top clusters.
func resolveFrequentAreas(prof *profile.UserProfile) geo.Query {
	if prof == nil || len(prof.LocationClusters) == 0 {
		return geo.Query{Source: geo.SourceNone}
	}

	clusters := prof.LocationClusters
	if len(clusters) > frequentAreaCount {
		clusters = clusters[:frequentAreaCount]
	}

	caps := make([]geo.Cap, 0, len(clusters))
	for _, c := range clusters {
		caps = append(caps, geo.Cap{Center: c.Center(), RadiusKm: radiusFrequentArea})
	}

	return geo.Query{Caps: caps, Source: geo.SourceFrequentAreas}
}

// resolveTimeBased anchors on the work cluster during working hours and on
// the home cluster during home hours; otherwise unconstrained.
func resolveTimeBased(prof *profile.UserProfile, now time.Time) geo.Query {
	if prof == nil {
		return geo.Query{Source: geo.SourceNone}
	}

	if timeslot.IsWorkHours(now) && prof.WorkLocation != nil {
		center := prof.WorkLocation.Center()
		return geo.Query{Anchor: &center, RadiusKm: radiusTimeBased, Source: geo.SourceTimePattern}
	}

	if timeslot.IsHomeHours(now) && prof.HomeLocation != nil {
		center := prof.HomeLocation.Center()
		return geo.Query{Anchor: &center, RadiusKm: radiusTimeBased, Source: geo.SourceTimePattern}
	}

	return geo.Query{Source: geo.SourceNone}
}

// resolveSortBias constrains to the device location when present and
// otherwise lets the sort bias order an unconstrained candidate set.
func resolveSortBias(device *geo.Location, bias geo.SortBias) geo.Query {
	if device != nil {
		return geo.Query{Anchor: device, RadiusKm: radiusSortBias, Bias: bias, Source: geo.SourceGPS}
	}
	return geo.Query{Bias: bias, Source: geo.SourceNone}
}
