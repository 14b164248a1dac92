// internal/service/suggestion/options.go

package suggestion

// FilterOption describes one publicly selectable filter.
type FilterOption struct {
	Type        FilterType `json:"type"`
	Label       string     `json:"label"`
	Icon        string     `json:"icon"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	Weighting   string     `json:"weighting"`
}

// FilterOptions returns the publicly selectable filters in priority order.
func FilterOptions() []FilterOption {
	return []FilterOption{
		{
			Type:        FilterNearby,
			Label:       "Nearby",
			Icon:        "map-pin",
			Description: "Spaces around the places you search for most",
			Priority:    1,
			Weighting:   "Distance-weighted around your frequent destinations",
		},
		{
			Type:        FilterPrice,
			Label:       "Best price",
			Icon:        "tag",
			Description: "Cheapest verified spaces first",
			Priority:    2,
			Weighting:   "Price-first ordering, distance as tie-break",
		},
		{
			Type:        FilterRating,
			Label:       "Top rated",
			Icon:        "star",
			Description: "Highest rated spaces first",
			Priority:    3,
			Weighting:   "Rating-first ordering, distance as tie-break",
		},
		{
			Type:        FilterAvailability,
			Label:       "Most available",
			Icon:        "check-circle",
			Description: "Spaces with the most open spots first",
			Priority:    4,
			Weighting:   "Open-spot count first, distance as tie-break",
		},
	}
}
