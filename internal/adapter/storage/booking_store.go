// internal/adapter/storage/booking_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"parksense/internal/domain/booking"
	"parksense/internal/domain/geo"
	"parksense/internal/domain/parking"
)

// BookingStore implements booking.Repository on PostgreSQL.
type BookingStore struct {
	db *pgxpool.Pool
}

// NewBookingStore creates a new booking store.
func NewBookingStore(db *pgxpool.Pool) *BookingStore {
	return &BookingStore{
		db: db,
	}
}

const bookingSelect = `
	SELECT
		b.id, b.user_id, b.status, b.created_at,
		ps.id, ps.name, ps.address, ps.latitude, ps.longitude,
		ps.price_per_3hours, ps.rating, ps.total_reviews, ps.total_spots, ps.available_spots,
		ps.is_active, ps.is_verified, ps.amenities, ps.images, ps.type
	FROM bookings b
	LEFT JOIN parking_spaces ps ON ps.id = b.parking_space_id
	WHERE b.user_id = $1
	AND b.status IN ('completed', 'checked_out')
`

// CompletedByUser returns the user's consumed bookings, newest first,
// capped at booking.MaxHistory. Bookings whose space no longer resolves
// come back with a nil Space.
func (s *BookingStore) CompletedByUser(ctx context.Context, userID string) ([]booking.Booking, error) {
	query := bookingSelect + fmt.Sprintf(" ORDER BY b.created_at DESC LIMIT %d", booking.MaxHistory)

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// AtPoint returns the user's consumed bookings whose space lies within a
// per-axis degree box around loc, newest first.
func (s *BookingStore) AtPoint(ctx context.Context, userID string, loc geo.Location, boxDegrees float64) ([]booking.Booking, error) {
	query := bookingSelect + `
		AND ps.id IS NOT NULL
		AND abs(ps.latitude - $2) <= $4
		AND abs(ps.longitude - $3) <= $4
		ORDER BY b.created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID, loc.Latitude, loc.Longitude, boxDegrees)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// scanBookings reads joined booking rows, tolerating a missing space.
func scanBookings(rows pgx.Rows) ([]booking.Booking, error) {
	var bookings []booking.Booking

	for rows.Next() {
		var b booking.Booking
		var status string

		var (
			spaceID, name, address, spaceType      *string
			latitude, longitude, price, rating     *float64
			totalReviews, totalSpots, availableSpots *int
			isActive, isVerified                   *bool
			amenities, images                      []string
		)

		if err := rows.Scan(
			&b.ID, &b.UserID, &status, &b.CreatedAt,
			&spaceID, &name, &address, &latitude, &longitude,
			&price, &rating, &totalReviews, &totalSpots, &availableSpots,
			&isActive, &isVerified, &amenities, &images, &spaceType,
		); err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}

		b.Status = booking.Status(status)

		if spaceID != nil {
			b.Space = &parking.Space{
				ID:             *spaceID,
				Name:           derefString(name),
				Address:        derefString(address),
				Latitude:       derefFloat(latitude),
				Longitude:      derefFloat(longitude),
				PricePer3Hours: derefFloat(price),
				Rating:         derefFloat(rating),
				TotalReviews:   derefInt(totalReviews),
				TotalSpots:     derefInt(totalSpots),
				AvailableSpots: derefInt(availableSpots),
				IsActive:       derefBool(isActive),
				IsVerified:     derefBool(isVerified),
				Amenities:      amenities,
				Images:         images,
				Type:           derefString(spaceType),
			}
		}

		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefBool(v *bool) bool {
	if v == nil {
		return false
	}
	return *v
}
