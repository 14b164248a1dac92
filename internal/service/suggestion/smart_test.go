// internal/service/suggestion/smart_test.go

package suggestion

import (
	"testing"
	"time"

	"parksense/internal/domain/profile"
)

func TestSelectSmartFilter(t *testing.T) {
	workTime := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)  // Monday 10:00
	eveningTime := time.Date(2026, time.January, 5, 20, 0, 0, 0, time.UTC) // Monday 20:00

	withBoth := workHomeProfile()
	withNeither := &profile.UserProfile{}

	tests := []struct {
		name string
		prof *profile.UserProfile
		now  time.Time
		want FilterType
	}{
		{"work hours with work pattern", withBoth, workTime, FilterNearWork},
		{"work hours without work pattern", withNeither, workTime, FilterTimeBased},
		{"work hours nil profile", nil, workTime, FilterTimeBased},
		{"evening with home pattern", withBoth, eveningTime, FilterNearHome},
		{"evening without home pattern", withNeither, eveningTime, FilterFrequentAreas},
		{"evening nil profile", nil, eveningTime, FilterFrequentAreas},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := SelectSmartFilter(tt.prof, tt.now)
			if got != tt.want {
				t.Errorf("SelectSmartFilter() = %q, want %q", got, tt.want)
			}
			if reason == "" {
				t.Error("SelectSmartFilter() returned an empty reason")
			}
		})
	}
}

func TestParsePublicFilter(t *testing.T) {
	tests := []struct {
		raw     string
		want    FilterType
		wantErr bool
	}{
		{"", FilterNearby, false},
		{"nearby", FilterNearby, false},
		{"price", FilterPrice, false},
		{"rating", FilterRating, false},
		{"availability", FilterAvailability, false},
		{"near_work", "", true}, // internal-only intent
		{"bogus", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePublicFilter(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePublicFilter(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePublicFilter(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFilterOptions(t *testing.T) {
	options := FilterOptions()

	if len(options) != 4 {
		t.Fatalf("FilterOptions() = %d entries, want 4", len(options))
	}
	if options[0].Type != FilterNearby {
		t.Errorf("first option = %q, want %q", options[0].Type, FilterNearby)
	}
	for i, opt := range options {
		if opt.Priority != i+1 {
			t.Errorf("option %d priority = %d, want %d", i, opt.Priority, i+1)
		}
		if !publicFilters[opt.Type] {
			t.Errorf("option %q is not a public filter", opt.Type)
		}
	}
}
