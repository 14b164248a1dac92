// internal/adapter/storage/space_store.go

package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"

	"parksense/internal/domain/geo"
	"parksense/internal/domain/parking"
)

// SpaceStore implements parking.Repository on PostgreSQL/PostGIS.
type SpaceStore struct {
	db *pgxpool.Pool
}

// NewSpaceStore creates a new parking space store.
func NewSpaceStore(db *pgxpool.Pool) *SpaceStore {
	return &SpaceStore{
		db: db,
	}
}

const spaceColumns = `
	id, name, address, latitude, longitude,
	price_per_3hours, rating, total_reviews, total_spots, available_spots,
	is_active, is_verified, amenities, images, type,
	popularity, occupancy_rate, peak_hours, dynamic_pricing_multiplier
`

// FindCandidates returns verified, active spaces with open spots matching
// the query's geographic predicate. Ordering is deterministic: distance
// ascending when anchored, the sort bias otherwise, id as final tie-break.
func (s *SpaceStore) FindCandidates(ctx context.Context, q geo.Query, spaceType string, limit int) ([]parking.Space, error) {
	queryBuilder := strings.Builder{}
	queryBuilder.WriteString("SELECT ")
	queryBuilder.WriteString(spaceColumns)
	queryBuilder.WriteString(`
		FROM parking_spaces
		WHERE is_active = TRUE
		AND is_verified = TRUE
		AND available_spots > 0
	`)

	args := []interface{}{}
	argIndex := 1

	if spaceType != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND type = $%d", argIndex))
		args = append(args, spaceType)
		argIndex++
	}

	orderBy := " ORDER BY id"

	switch {
	case q.Anchored():
		queryBuilder.WriteString(fmt.Sprintf(
			" AND ST_DWithin(geography(location), geography(ST_MakePoint($%d, $%d)), $%d * 1000)",
			argIndex, argIndex+1, argIndex+2,
		))
		orderBy = fmt.Sprintf(
			" ORDER BY ST_Distance(geography(location), geography(ST_MakePoint($%d, $%d))), id",
			argIndex, argIndex+1,
		)
		args = append(args, q.Anchor.Longitude, q.Anchor.Latitude, q.RadiusKm)
		argIndex += 3

	case len(q.Caps) > 0:
		predicates := make([]string, 0, len(q.Caps))
		for _, c := range q.Caps {
			predicates = append(predicates, fmt.Sprintf(
				"ST_DWithin(geography(location), geography(ST_MakePoint($%d, $%d)), $%d * 1000)",
				argIndex, argIndex+1, argIndex+2,
			))
			args = append(args, c.Center.Longitude, c.Center.Latitude, c.RadiusKm)
			argIndex += 3
		}
		queryBuilder.WriteString(" AND (")
		queryBuilder.WriteString(strings.Join(predicates, " OR "))
		queryBuilder.WriteString(")")
	}

	if q.Unconstrained() {
		switch q.Bias {
		case geo.BiasPrice:
			orderBy = " ORDER BY price_per_3hours, id"
		case geo.BiasRating:
			orderBy = " ORDER BY rating DESC, id"
		case geo.BiasAvailability:
			orderBy = " ORDER BY available_spots DESC, id"
		}
	}

	queryBuilder.WriteString(orderBy)
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argIndex))
	args = append(args, limit)

	rows, err := s.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var spaces []parking.Space
	for rows.Next() {
		var sp parking.Space
		var peakHours []int32

		if err := rows.Scan(
			&sp.ID, &sp.Name, &sp.Address, &sp.Latitude, &sp.Longitude,
			&sp.PricePer3Hours, &sp.Rating, &sp.TotalReviews, &sp.TotalSpots, &sp.AvailableSpots,
			&sp.IsActive, &sp.IsVerified, &sp.Amenities, &sp.Images, &sp.Type,
			&sp.Popularity, &sp.OccupancyRate, &peakHours, &sp.DynamicPricingMultiplier,
		); err != nil {
			return nil, fmt.Errorf("error scanning space: %w", err)
		}

		sp.PeakHours = make([]int, len(peakHours))
		for i, h := range peakHours {
			sp.PeakHours[i] = int(h)
		}

		spaces = append(spaces, sp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating spaces: %w", err)
	}

	return spaces, nil
}
