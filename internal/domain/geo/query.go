// internal/domain/geo/query.go

package geo

// Source identifies where a resolved query's anchor came from. It is
// surfaced to clients as userContext.locationSource.
type Source string

const (
	SourceFrequentSearch  Source = "frequent_search"
	SourceGPS             Source = "gps"
	SourceGPSFallback     Source = "gps_fallback"
	SourceWorkPattern     Source = "work_pattern"
	SourceHomePattern     Source = "home_pattern"
	SourceFrequentAreas   Source = "frequent_areas"
	SourceTimePattern     Source = "time_pattern"
	SourceNoSearchHistory Source = "no_search_history"
	SourceNone            Source = "none"
)

// SortBias is a secondary ordering hint applied when a filter carries no
// geographic constraint.
type SortBias string

const (
	BiasNone         SortBias = ""
	BiasPrice        SortBias = "price"
	BiasRating       SortBias = "rating"
	BiasAvailability SortBias = "availability"
)

// Cap is a spherical cap: all points within RadiusKm of Center.
type Cap struct {
	Center   Location
	RadiusKm float64
}

// Query is a resolved candidate query against the parking-space repository.
// Exactly one of the following holds: Anchor is set (single cap), Caps is
// non-empty (union of caps), or neither (unconstrained).
type Query struct {
	Anchor   *Location
	RadiusKm float64
	Caps     []Cap
	Bias     SortBias
	Source   Source

	// Empty marks a resolution that, by policy, yields no candidates at
	// all (e.g. the nearby filter for a user with no search history).
	Empty bool
}

// Anchored reports whether the query is bounded by a single cap.
func (q Query) Anchored() bool {
	return q.Anchor != nil && q.RadiusKm > 0
}

// Unconstrained reports whether the query carries no geographic predicate.
func (q Query) Unconstrained() bool {
	return !q.Anchored() && len(q.Caps) == 0
}
