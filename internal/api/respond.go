package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/typeordie/internal/corpus"
	"github.com/dgallion1/typeordie/internal/round"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, round.ErrNoRound), errors.Is(err, round.ErrRoundInProgress):
		return http.StatusConflict
	case errors.Is(err, corpus.ErrInvalidSelection), errors.Is(err, corpus.ErrWrapFailure):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
