package service

import (
	"context"
	"fmt"
	"time"

	"github.com/securo/securo-server/internal/logger"
	"github.com/securo/securo-server/internal/model"
)

// Session issues short-lived unlock tokens so clients do not have to
// resend the master password on every gated call.
type Session struct {
	guard   *Guard
	manager model.TokenManager
	logger  *logger.Logger
}

func NewSession(guard *Guard, manager model.TokenManager, logger *logger.Logger) *Session {
	return &Session{
		guard:   guard,
		manager: manager,
		logger:  logger,
	}
}

// Unlock verifies the master password and returns a session token.
func (s *Session) Unlock(ctx context.Context, masterPassword string) (string, time.Time, error) {
	if err := s.guard.RequireValid(ctx, masterPassword); err != nil {
		return "", time.Time{}, err
	}

	token, expiresAt, err := s.manager.GenerateSessionToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to issue session token: %w", err)
	}

	s.logger.Info("Session service: vault unlocked", "expires_at", expiresAt)

	return token, expiresAt, nil
}

// Validate reports whether token is a live session token.
func (s *Session) Validate(ctx context.Context, token string) error {
	return s.manager.ValidateSessionToken(token)
}
