// internal/domain/timeslot/timeslot.go

package timeslot

import "time"

// Slot partitions the 24-hour day.
type Slot string

const (
	Morning   Slot = "morning"   // [06:00, 12:00)
	Afternoon Slot = "afternoon" // [12:00, 18:00)
	Evening   Slot = "evening"   // [18:00, 22:00)
	Night     Slot = "night"     // everything else
)

// Of maps a timestamp to its slot.
func Of(t time.Time) Slot {
	switch hour := t.Hour(); {
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Afternoon
	case hour >= 18 && hour < 22:
		return Evening
	default:
		return Night
	}
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsWorkHours reports whether t is a weekday between 08:00 and 18:00
// inclusive, the window used for work-pattern inference.
func IsWorkHours(t time.Time) bool {
	if IsWeekend(t) {
		return false
	}
	hour := t.Hour()
	return hour >= 8 && hour <= 18
}

// IsHomeHours reports whether t is a weekend, an evening, or an early
// morning, the window used for home-pattern inference.
func IsHomeHours(t time.Time) bool {
	if IsWeekend(t) {
		return true
	}
	hour := t.Hour()
	return hour >= 18 || hour <= 8
}

// Context is a snapshot of the time signals the engine derives from a
// single timestamp.
type Context struct {
	Hour        int  `json:"hour"`
	IsWeekday   bool `json:"isWeekday"`
	IsWorkHours bool `json:"isWorkHours"`
	IsHomeHours bool `json:"isHomeHours"`
	Slot        Slot `json:"timeSlot"`
}

// ContextOf derives the full time context for t.
func ContextOf(t time.Time) Context {
	return Context{
		Hour:        t.Hour(),
		IsWeekday:   !IsWeekend(t),
		IsWorkHours: IsWorkHours(t),
		IsHomeHours: IsHomeHours(t),
		Slot:        Of(t),
	}
}
