package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/eliz121/stock-manager/internal/models"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// PathParam extracts a path parameter from the URL path.
// For a pattern like /api/quotes/{symbol}, calling PathParam(r, "/api/quotes/", "")
// extracts the {symbol} part.
func PathParam(r *http.Request, prefix, suffix string) string {
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := path[len(prefix):]
	if suffix != "" {
		idx := strings.Index(rest, suffix)
		if idx < 0 {
			return rest
		}
		return rest[:idx]
	}
	if idx := strings.Index(rest, "/"); idx >= 0 {
		return rest[:idx]
	}
	return rest
}

// WriteServiceError maps a service-layer error onto an HTTP status.
// Client faults are 4xx, upstream quote provider faults are 502/504,
// and storage faults stay 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	var httpErr *models.ProviderHTTPError
	var connErr *models.ConnectionError
	var storageErr *models.StorageError

	switch {
	case errors.Is(err, models.ErrInvalidSymbol):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrRateLimited):
		WriteError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, models.ErrQuoteTimeout):
		WriteError(w, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, models.ErrEmptyResult),
		errors.Is(err, models.ErrMissingPrice),
		errors.As(err, &httpErr),
		errors.As(err, &connErr):
		WriteError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &storageErr):
		WriteError(w, http.StatusInternalServerError, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
