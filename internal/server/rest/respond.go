package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/thecloudydeveloper/expense-tracker/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps a domain error to its HTTP status and renders the stable
// message plus the error detail.
func writeError(w http.ResponseWriter, message string, err error) {
	writeJSON(w, statusFromError(err), map[string]string{
		"message": message,
		"error":   err.Error(),
	})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrorInvalidCredentials),
		errors.Is(err, common.ErrorInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorDuplicate):
		return http.StatusConflict
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusForbidden
	default:
		// includes store faults and common.ErrorPartialWrite
		return http.StatusInternalServerError
	}
}
