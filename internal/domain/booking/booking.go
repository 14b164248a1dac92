// internal/domain/booking/booking.go

package booking

import (
	"context"
	"time"

	"parksense/internal/domain/geo"
	"parksense/internal/domain/parking"
)

// Status of a booking. Only completed and checked-out bookings feed the
// recommendation engine.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Consumed reports whether a booking in this status is input to the engine.
func (s Status) Consumed() bool {
	return s == StatusCompleted || s == StatusCheckedOut
}

// Booking is a historical reservation, read-only to the engine. Space may
// be nil when the referenced parking space no longer resolves; such
// bookings are skipped by consumers.
type Booking struct {
	ID        string
	UserID    string
	Space     *parking.Space
	Status    Status
	CreatedAt time.Time
}

// MaxHistory caps how much booking history the engine reads per user.
const MaxHistory = 100

// Repository abstracts reads over bookings.
type Repository interface {
	// CompletedByUser returns the user's consumed bookings, most recent
	// first, capped at MaxHistory.
	CompletedByUser(ctx context.Context, userID string) ([]Booking, error)

	// AtPoint returns the user's consumed bookings whose parking space
	// lies within a per-axis degree box around loc.
	AtPoint(ctx context.Context, userID string, loc geo.Location, boxDegrees float64) ([]Booking, error)
}
