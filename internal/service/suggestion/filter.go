// internal/service/suggestion/filter.go

package suggestion

import "fmt"

// FilterType is the intent behind a suggestion request.
type FilterType string

const (
	FilterNearby        FilterType = "nearby"
	FilterNearCurrent   FilterType = "near_current"
	FilterNearWork      FilterType = "near_work"
	FilterNearHome      FilterType = "near_home"
	FilterFrequentAreas FilterType = "frequent_areas"
	FilterTimeBased     FilterType = "time_based"
	FilterPrice         FilterType = "price"
	FilterRating        FilterType = "rating"
	FilterAvailability  FilterType = "availability"
)

// publicFilters are the intents callers may request directly; the rest are
// chosen internally by the smart-context selector.
var publicFilters = map[FilterType]bool{
	FilterNearby:       true,
	FilterPrice:        true,
	FilterRating:       true,
	FilterAvailability: true,
}

// ParsePublicFilter validates a caller-supplied filter type. An empty
// value defaults to nearby.
func ParsePublicFilter(raw string) (FilterType, error) {
	if raw == "" {
		return FilterNearby, nil
	}
	ft := FilterType(raw)
	if !publicFilters[ft] {
		return "", fmt.Errorf("unknown filter type %q", raw)
	}
	return ft, nil
}
