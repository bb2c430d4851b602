// Package respond centralizes JSON responses and the mapping from the
// sentinel error taxonomy to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"projecthub/internal/access"
)

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}

// Error maps the sentinel error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is an internal error and its detail stays out of the body.
func Error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, access.ErrInvalidArgument):
		JSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, access.ErrUnauthenticated):
		JSON(w, http.StatusUnauthorized, errorBody{Error: "missing or invalid authorization"})
	case errors.Is(err, access.ErrForbidden):
		JSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
	case errors.Is(err, access.ErrNotFound):
		JSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	default:
		log.Printf("server: internal error: %v", err)
		JSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// Decode decodes the JSON request body into v, rejecting unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return access.ErrInvalidArgument
	}
	return nil
}
