package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/securo/securo-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// handleError maps service errors to HTTP statuses. Response bodies
// carry stable messages only, never wrapped detail.
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid master password")
	case errors.Is(err, model.ErrNotInitialized):
		writeError(w, http.StatusBadRequest, "master credential not set")
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "entry not found")
	case errors.Is(err, model.ErrWeakCredential):
		writeError(w, http.StatusBadRequest, "master password too weak")
	case errors.Is(err, model.ErrInvalidLength):
		writeError(w, http.StatusBadRequest, "password length too short")
	case errors.Is(err, model.ErrAlreadyInitialized):
		writeError(w, http.StatusConflict, "master credential already set")
	case errors.Is(err, model.ErrDuplicateService):
		writeError(w, http.StatusConflict, "entry already exists for service and email")
	case errors.Is(err, model.ErrIntegrity):
		writeError(w, http.StatusInternalServerError, "integrity_failure")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
