// internal/server/handlers/suggestion.go

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"parksense/internal/domain/geo"
	"parksense/internal/domain/timeslot"
	"parksense/internal/server/middleware"
	"parksense/internal/service/scoring"
	"parksense/internal/service/suggestion"
)

// SuggestionService is the engine surface the handler depends on.
type SuggestionService interface {
	GetParkingSuggestions(ctx context.Context, req suggestion.Request) (*suggestion.Result, error)
	GetSmartSuggestions(ctx context.Context, req suggestion.Request) (*suggestion.SmartResult, error)
}

// RecentLocator returns a user's top recent locations.
type RecentLocator interface {
	TopRecent(ctx context.Context, userID string, now time.Time, n int) ([]scoring.RecentLocation, error)
}

// SuggestionHandler handles the suggestions API.
type SuggestionHandler struct {
	service  SuggestionService
	recent   RecentLocator
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewSuggestionHandler creates a new suggestion handler.
func NewSuggestionHandler(service SuggestionService, recent RecentLocator, logger zerolog.Logger) *SuggestionHandler {
	return &SuggestionHandler{
		service:  service,
		recent:   recent,
		validate: validator.New(),
		logger:   logger.With().Str("component", "suggestion_handler").Logger(),
	}
}

// suggestionParams are the validated query parameters of the suggestions
// endpoints.
type suggestionParams struct {
	Latitude  *float64 `validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `validate:"omitempty,min=-180,max=180"`
	Limit     int      `validate:"min=1,max=20"`
}

// userContext describes the personalization inputs behind a response.
type userContext struct {
	HasCurrentLocation bool       `json:"hasCurrentLocation"`
	HasSearchHistory   bool       `json:"hasSearchHistory"`
	LocationSource     geo.Source `json:"locationSource"`
	TimeContext        string     `json:"timeContext"`
}

// GetParkingSuggestions handles GET /api/v1/suggestions/parking.
func (h *SuggestionHandler) GetParkingSuggestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	filter, err := suggestion.ParsePublicFilter(r.URL.Query().Get("filterType"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown filter type")
		return
	}

	params, device, err := h.parseParams(r, 10)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	result, err := h.service.GetParkingSuggestions(r.Context(), suggestion.Request{
		UserID:      userID,
		Filter:      filter,
		Device:      device,
		VehicleType: r.URL.Query().Get("vehicleType"),
		Limit:       params.Limit,
		Now:         now,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	message := "Parking suggestions generated"
	if result.LocationSource == geo.SourceNoSearchHistory {
		message = "No search history yet. Search for a destination to get personalized suggestions."
	}

	data := map[string]interface{}{
		"suggestions":   result.Suggestions,
		"totalCount":    result.TotalCount,
		"aiDriven":      true,
		"scoringMethod": suggestion.ScoringMethod,
		"generatedAt":   now.UTC(),
		"userContext": userContext{
			HasCurrentLocation: device != nil,
			HasSearchHistory:   result.HasSearchHistory,
			LocationSource:     result.LocationSource,
			TimeContext:        string(result.TimeContext),
		},
	}
	if result.BestCandidate != nil {
		data["bestCandidate"] = result.BestCandidate
	}

	respondSuccess(w, message, data)
}

// GetFilterOptions handles GET /api/v1/suggestions/filter-options.
func (h *SuggestionHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, "Available filter options", map[string]interface{}{
		"filters": suggestion.FilterOptions(),
	})
}

// GetSmartSuggestions handles GET /api/v1/suggestions/smart.
func (h *SuggestionHandler) GetSmartSuggestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	params, device, err := h.parseParams(r, 10)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	result, err := h.service.GetSmartSuggestions(r.Context(), suggestion.Request{
		UserID: userID,
		Device: device,
		Limit:  params.Limit,
		Now:    now,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondSuccess(w, "Smart suggestions generated", map[string]interface{}{
		"suggestions":   result.Suggestions,
		"totalCount":    result.TotalCount,
		"smartFilter":   result.SmartFilter,
		"contextReason": result.ContextReason,
		"contextualData": map[string]interface{}{
			"currentTime":    now.UTC(),
			"isWeekday":      !timeslot.IsWeekend(now),
			"timeSlot":       timeslot.Of(now),
			"hasWorkPattern": result.HasWorkPattern,
			"hasHomePattern": result.HasHomePattern,
		},
		"userContext": userContext{
			HasCurrentLocation: device != nil,
			HasSearchHistory:   result.HasSearchHistory,
			LocationSource:     result.LocationSource,
			TimeContext:        string(result.TimeContext),
		},
	})
}

// GetRecentLocations handles GET /api/v1/suggestions/recent-locations.
func (h *SuggestionHandler) GetRecentLocations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	params, _, err := h.parseParams(r, scoring.DefaultTopRecent)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	locations, err := h.recent.TopRecent(r.Context(), userID, time.Now(), params.Limit)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	if locations == nil {
		locations = []scoring.RecentLocation{}
	}

	respondSuccess(w, "Recent locations generated", map[string]interface{}{
		"locations":  locations,
		"totalCount": len(locations),
	})
}

// parseParams parses and validates the shared query parameters. The device
// location is only set when both coordinates are present.
func (h *SuggestionHandler) parseParams(r *http.Request, defaultLimit int) (suggestionParams, *geo.Location, error) {
	params := suggestionParams{Limit: defaultLimit}

	if latStr := r.URL.Query().Get("latitude"); latStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return params, nil, errors.New("Invalid latitude")
		}
		params.Latitude = &lat
	}

	if lngStr := r.URL.Query().Get("longitude"); lngStr != "" {
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			return params, nil, errors.New("Invalid longitude")
		}
		params.Longitude = &lng
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return params, nil, errors.New("Invalid limit")
		}
		params.Limit = limit
	}

	if err := h.validate.Struct(params); err != nil {
		return params, nil, errors.New("Query parameters out of range")
	}

	var device *geo.Location
	if params.Latitude != nil && params.Longitude != nil {
		device = &geo.Location{Latitude: *params.Latitude, Longitude: *params.Longitude}
	}

	return params, device, nil
}

// respondServiceError maps engine failures onto the error envelope. A
// cancelled request gets no body; the client is already gone.
func (h *SuggestionHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		h.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("request cancelled")
		return
	}

	h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("suggestion request failed")
	respondError(w, http.StatusInternalServerError, "Failed to generate suggestions")
}
