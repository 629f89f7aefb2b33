package handler

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Errors []ErrorDetail `json:"errors"`
}

// ErrorDetail contains error code, message and the offending field, if any
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; nothing useful left to do
			return
		}
	}
}

// respondError writes a standard error response
func respondError(w http.ResponseWriter, status int, detail ErrorDetail) {
	respondJSON(w, status, ErrorResponse{Errors: []ErrorDetail{detail}})
}

// respondSuccess writes a successful response with 200 OK
func respondSuccess(w http.ResponseWriter, data any) {
	respondJSON(w, http.StatusOK, data)
}

// respondCreated writes a successful response with 201 Created
func respondCreated(w http.ResponseWriter, data any) {
	respondJSON(w, http.StatusCreated, data)
}

// decodeJSON decodes the request body into v, rejecting unknown fields
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func respondInvalidJSON(w http.ResponseWriter) {
	respondError(w, http.StatusBadRequest, ErrorDetail{
		Code:    "INVALID_JSON",
		Message: "Invalid JSON format",
	})
}
