// internal/server/handlers/response.go

package handlers

import (
	"encoding/json"
	"net/http"
)

// envelope is the fixed response shape of the suggestions API.
type envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// respondSuccess writes a 200 success envelope.
func respondSuccess(w http.ResponseWriter, message string, data interface{}) {
	respondWithJSON(w, http.StatusOK, envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// respondError writes an error envelope with the given status code.
func respondError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, envelope{
		Status:  "error",
		Message: message,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error","message":"Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
