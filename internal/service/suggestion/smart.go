// internal/service/suggestion/smart.go

package suggestion

import (
	"time"

	"parksense/internal/domain/profile"
	"parksense/internal/domain/timeslot"
)

// SelectSmartFilter picks a filter from the current time and the patterns
// available in the user's profile, with a human-readable reason for the
// choice. prof may be nil.
func SelectSmartFilter(prof *profile.UserProfile, now time.Time) (FilterType, string) {
	hasWork := prof != nil && prof.WorkLocation != nil
	hasHome := prof != nil && prof.HomeLocation != nil

	if timeslot.IsWorkHours(now) {
		if hasWork {
			return FilterNearWork, "It's working hours, so we looked near your usual work area"
		}
		return FilterTimeBased, "It's working hours, so we matched your usual booking times"
	}

	if hasHome {
		return FilterNearHome, "Outside working hours, so we looked near your home area"
	}
	return FilterFrequentAreas, "Outside working hours, so we looked at areas you visit often"
}
