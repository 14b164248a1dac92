// internal/adapter/storage/search_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"parksense/internal/domain/geo"
	"parksense/internal/domain/search"
)

// SearchStore implements search.Repository on PostgreSQL.
type SearchStore struct {
	db *pgxpool.Pool
}

// NewSearchStore creates a new search history store.
func NewSearchStore(db *pgxpool.Pool) *SearchStore {
	return &SearchStore{
		db: db,
	}
}

const searchColumns = `
	id, user_id, name, address, latitude, longitude,
	search_count, last_searched, category, is_active
`

// ByUser returns all recent searches for a user, most recent first.
func (s *SearchStore) ByUser(ctx context.Context, userID string) ([]search.RecentSearch, error) {
	query := "SELECT " + searchColumns + `
		FROM recent_searches
		WHERE user_id = $1
		ORDER BY last_searched DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	return scanSearches(rows)
}

// AtPoint returns the user's searches within a per-axis degree box around
// loc.
func (s *SearchStore) AtPoint(ctx context.Context, userID string, loc geo.Location, boxDegrees float64) ([]search.RecentSearch, error) {
	query := "SELECT " + searchColumns + `
		FROM recent_searches
		WHERE user_id = $1
		AND abs(latitude - $2) <= $4
		AND abs(longitude - $3) <= $4
		ORDER BY last_searched DESC
	`

	rows, err := s.db.Query(ctx, query, userID, loc.Latitude, loc.Longitude, boxDegrees)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	return scanSearches(rows)
}

// FrequentDestinations returns active searches that qualify as implicit
// anchors: education-category places on any visit, anywhere else after two
// searches. Ordered by search count, then recency.
func (s *SearchStore) FrequentDestinations(ctx context.Context, userID string) ([]search.RecentSearch, error) {
	query := "SELECT " + searchColumns + `
		FROM recent_searches
		WHERE user_id = $1
		AND is_active = TRUE
		AND (
			category IN ('university', 'college', 'school', 'institute', 'academy')
			OR search_count >= 2
		)
		ORDER BY search_count DESC, last_searched DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	return scanSearches(rows)
}

func scanSearches(rows pgx.Rows) ([]search.RecentSearch, error) {
	var searches []search.RecentSearch

	for rows.Next() {
		var sr search.RecentSearch
		var category *string

		if err := rows.Scan(
			&sr.ID, &sr.UserID, &sr.Name, &sr.Address, &sr.Latitude, &sr.Longitude,
			&sr.SearchCount, &sr.LastSearched, &category, &sr.IsActive,
		); err != nil {
			return nil, fmt.Errorf("error scanning search: %w", err)
		}

		if category != nil {
			sr.Category = *category
		}

		searches = append(searches, sr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating searches: %w", err)
	}

	return searches, nil
}
