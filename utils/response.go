package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"savora/apperr"
)

type M map[string]interface{}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// StatusFor maps the error taxonomy to HTTP codes. Anything unclassified is
// a 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
