// internal/server/handlers/suggestion_test.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"parksense/internal/domain/geo"
	"parksense/internal/domain/parking"
	"parksense/internal/domain/timeslot"
	"parksense/internal/server/middleware"
	"parksense/internal/service/scoring"
	"parksense/internal/service/suggestion"
)

type mockSuggestionService struct {
	result      *suggestion.Result
	smartResult *suggestion.SmartResult
	err         error

	lastRequest suggestion.Request
}

func (m *mockSuggestionService) GetParkingSuggestions(ctx context.Context, req suggestion.Request) (*suggestion.Result, error) {
	m.lastRequest = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockSuggestionService) GetSmartSuggestions(ctx context.Context, req suggestion.Request) (*suggestion.SmartResult, error) {
	m.lastRequest = req
	if m.err != nil {
		return nil, m.err
	}
	return m.smartResult, nil
}

type mockRecentLocator struct {
	locations []scoring.RecentLocation
	err       error
	lastN     int
}

func (m *mockRecentLocator) TopRecent(ctx context.Context, userID string, now time.Time, n int) ([]scoring.RecentLocation, error) {
	m.lastN = n
	if m.err != nil {
		return nil, m.err
	}
	return m.locations, nil
}

func authedRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (string, string, map[string]interface{}) {
	t.Helper()

	var body struct {
		Status  string                 `json:"status"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body.Status, body.Message, body.Data
}

func okResult() *suggestion.Result {
	return &suggestion.Result{
		Suggestions:      []parking.Suggestion{{Space: parking.Space{ID: "a"}, AIScore: 70}},
		TotalCount:       1,
		LocationSource:   geo.SourceFrequentSearch,
		HasSearchHistory: true,
		TimeContext:      timeslot.Morning,
	}
}

func TestGetParkingSuggestionsSuccess(t *testing.T) {
	result := okResult()
	best := result.Suggestions[0]
	result.BestCandidate = &best

	svc := &mockSuggestionService{result: result}
	h := NewSuggestionHandler(svc, &mockRecentLocator{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetParkingSuggestions(rec, authedRequest(http.MethodGet, "/api/v1/suggestions/parking?latitude=14.55&longitude=121.02&limit=5"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	status, _, data := decodeEnvelope(t, rec)
	if status != "success" {
		t.Errorf("status = %q, want success", status)
	}
	if data["totalCount"].(float64) != 1 {
		t.Errorf("totalCount = %v, want 1", data["totalCount"])
	}
	if data["aiDriven"] != true {
		t.Error("aiDriven should be true")
	}
	if data["bestCandidate"] == nil {
		t.Error("bestCandidate should be present for a nearby result")
	}

	uc := data["userContext"].(map[string]interface{})
	if uc["hasCurrentLocation"] != true {
		t.Error("hasCurrentLocation should reflect the device coordinates")
	}
	if uc["locationSource"] != "frequent_search" {
		t.Errorf("locationSource = %v", uc["locationSource"])
	}

	if svc.lastRequest.Limit != 5 || svc.lastRequest.UserID != "user-1" {
		t.Errorf("service request = %+v", svc.lastRequest)
	}
	if svc.lastRequest.Device == nil || svc.lastRequest.Device.Latitude != 14.55 {
		t.Error("device location should be forwarded to the service")
	}
}

func TestGetParkingSuggestionsNoHistoryMessage(t *testing.T) {
	svc := &mockSuggestionService{result: &suggestion.Result{
		Suggestions:    []parking.Suggestion{},
		LocationSource: geo.SourceNoSearchHistory,
		TimeContext:    timeslot.Morning,
	}}
	h := NewSuggestionHandler(svc, &mockRecentLocator{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetParkingSuggestions(rec, authedRequest(http.MethodGet, "/api/v1/suggestions/parking"))

	_, message, data := decodeEnvelope(t, rec)
	if message != "No search history yet. Search for a destination to get personalized suggestions." {
		t.Errorf("message = %q", message)
	}
	if data["bestCandidate"] != nil {
		t.Error("bestCandidate should be absent for an empty result")
	}
}

func TestGetParkingSuggestionsLimitValidation(t *testing.T) {
	h := NewSuggestionHandler(&mockSuggestionService{result: okResult()}, &mockRecentLocator{}, zerolog.Nop())

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"limit too high", "limit=50", http.StatusBadRequest},
		{"limit zero", "limit=0", http.StatusBadRequest},
		{"limit negative", "limit=-1", http.StatusBadRequest},
		{"limit not a number", "limit=abc", http.StatusBadRequest},
		{"limit at ceiling", "limit=20", http.StatusOK},
		{"limit at floor", "limit=1", http.StatusOK},
		{"limit omitted", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.GetParkingSuggestions(rec, authedRequest(http.MethodGet, "/api/v1/suggestions/parking?"+tt.query))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestGetParkingSuggestionsCoordinateValidation(t *testing.T) {
	h := NewSuggestionHandler(&mockSuggestionService{result: okResult()}, &mockRecentLocator{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetParkingSuggestions(rec, authedRequest(http.MethodGet, "/api/v1/suggestions/parking?latitude=91&longitude=121"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for out-of-range latitude", rec.Code)
	}
}

func TestGetParkingSuggestionsUnknownFilter(t *testing.T) {
	h := NewSuggestionHandler(&mockSuggestionService{result: okResult()}, &mockRecentLocator{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetParkingSuggestions(rec, authedRequest(http.MethodGet, "/api/v1/suggestions/parking?filterType=bogus"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	_, message, _ := decodeEnvelope(t, rec)
	if message != "Unknown filter type" {
		t.Errorf("message = %q", message)
	}
}

func TestGetParkingSuggestionsRequiresAuth(t *testing.T) {
	h := NewSuggestionHandler(&mockSuggestionService{result: okResult()}, &mockRecentLocator{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetParkingSuggestions(rec, httptest.NewRequest(http.MethodGet, "/api/v1/suggestions/parking", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestGetParkingSuggestionsServiceFailure(t *testing.T) {
	h := NewSuggestionHandler(&mockSuggestionService{err: errors.New("boom")}, &mockRecentLocator{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetParkingSuggestions(rec, authedRequest(http.MethodGet, "/api/v1/suggestions/parking"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	status, message, _ := decodeEnvelope(t, rec)
	if status != "error" || message != "Failed to generate suggestions" {
		t.Errorf("envelope = %q/%q", status, message)
	}
}

func TestGetFilterOptions(t *testing.T) {
	h := NewSuggestionHandler(&mockSuggestionService{}, &mockRecentLocator{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetFilterOptions(rec, httptest.NewRequest(http.MethodGet, "/api/v1/suggestions/filter-options", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	_, _, data := decodeEnvelope(t, rec)
	filters := data["filters"].([]interface{})
	if len(filters) != 4 {
		t.Errorf("filters = %d, want 4", len(filters))
	}
}

func TestGetSmartSuggestions(t *testing.T) {
	svc := &mockSuggestionService{smartResult: &suggestion.SmartResult{
		Result:         *okResult(),
		SmartFilter:    suggestion.FilterNearWork,
		ContextReason:  "It's working hours, so we looked near your usual work area",
		HasWorkPattern: true,
	}}
	h := NewSuggestionHandler(svc, &mockRecentLocator{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetSmartSuggestions(rec, authedRequest(http.MethodGet, "/api/v1/suggestions/smart"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	_, _, data := decodeEnvelope(t, rec)
	if data["smartFilter"] != "near_work" {
		t.Errorf("smartFilter = %v", data["smartFilter"])
	}
	contextual := data["contextualData"].(map[string]interface{})
	if contextual["hasWorkPattern"] != true {
		t.Error("hasWorkPattern should be true")
	}
}

func TestGetRecentLocations(t *testing.T) {
	locator := &mockRecentLocator{locations: []scoring.RecentLocation{
		{ID: "1", Name: "Office", Type: scoring.TypeWork, AIScore: 80},
	}}
	h := NewSuggestionHandler(&mockSuggestionService{}, locator, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetRecentLocations(rec, authedRequest(http.MethodGet, "/api/v1/suggestions/recent-locations"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	_, _, data := decodeEnvelope(t, rec)
	if data["totalCount"].(float64) != 1 {
		t.Errorf("totalCount = %v, want 1", data["totalCount"])
	}
	if locator.lastN != scoring.DefaultTopRecent {
		t.Errorf("default count = %d, want %d", locator.lastN, scoring.DefaultTopRecent)
	}
}

func TestGetRecentLocationsEmpty(t *testing.T) {
	h := NewSuggestionHandler(&mockSuggestionService{}, &mockRecentLocator{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetRecentLocations(rec, authedRequest(http.MethodGet, "/api/v1/suggestions/recent-locations"))

	_, _, data := decodeEnvelope(t, rec)
	locations, ok := data["locations"].([]interface{})
	if !ok {
		t.Fatalf("locations = %T, want an empty array rather than null", data["locations"])
	}
	if len(locations) != 0 {
		t.Errorf("locations = %d, want 0", len(locations))
	}
}

func TestCancelledRequestWritesNoBody(t *testing.T) {
	h := NewSuggestionHandler(&mockSuggestionService{err: context.Canceled}, &mockRecentLocator{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetParkingSuggestions(rec, authedRequest(http.MethodGet, "/api/v1/suggestions/parking"))

	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want no body for a cancelled request", rec.Body.String())
	}
}
