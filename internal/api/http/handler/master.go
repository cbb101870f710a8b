package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/securo/securo-server/internal/logger"
)

// GuardService defines master credential bootstrap.
type GuardService interface {
	Bootstrap(ctx context.Context, password string) error
}

// SessionService issues unlock session tokens.
type SessionService interface {
	Unlock(ctx context.Context, password string) (token string, expiresAt time.Time, err error)
}

// Master handles HTTP endpoints for the master credential lifecycle.
type Master struct {
	guardService   GuardService
	sessionService SessionService
	logger         *logger.Logger
}

// NewMaster creates a new Master handler.
func NewMaster(guardService GuardService, sessionService SessionService, logger *logger.Logger) *Master {
	return &Master{
		guardService:   guardService,
		sessionService: sessionService,
		logger:         logger,
	}
}

type setMasterRequest struct {
	Password string `json:"password"`
}

type setMasterResponse struct {
	Message string `json:"message"`
}

type unlockRequest struct {
	Password string `json:"password"`
}

type unlockResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SetMaster bootstraps the master credential. Allowed exactly once.
func (h *Master) SetMaster(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Master handler: processing set-master request")

	var req setMasterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.guardService.Bootstrap(r.Context(), req.Password); err != nil {
		h.logger.Error("Master handler: set-master failed",
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Master handler: master credential set")

	writeJSON(w, http.StatusCreated, setMasterResponse{Message: "master credential set"})
}

// Unlock verifies the master password and returns a session token.
func (h *Master) Unlock(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Master handler: processing unlock request")

	var req unlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, expiresAt, err := h.sessionService.Unlock(r.Context(), req.Password)
	if err != nil {
		h.logger.Error("Master handler: unlock failed",
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Master handler: vault unlocked",
		"expires_at", expiresAt)

	writeJSON(w, http.StatusOK, unlockResponse{Token: token, ExpiresAt: expiresAt})
}
