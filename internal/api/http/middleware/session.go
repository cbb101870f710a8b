package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/securo/securo-server/internal/logger"
	"github.com/securo/securo-server/internal/model"
)

// SessionValidator checks unlock session tokens.
type SessionValidator interface {
	Validate(ctx context.Context, token string) error
}

// Session marks requests carrying a valid unlock token as unlocked.
// Requests without a token, or with an invalid one, pass through
// untouched; the service layer then requires the master password.
type Session struct {
	validator      SessionValidator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewSession creates a new Session middleware instance.
func NewSession(validator SessionValidator, contextManager model.ContextManager, logger *logger.Logger) *Session {
	return &Session{
		validator:      validator,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Handle parses the Authorization header and, when the bearer token
// validates, injects the unlocked flag into the request context.
func (m *Session) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			next.ServeHTTP(w, r)
			return
		}

		if err := m.validator.Validate(r.Context(), tokenString); err != nil {
			m.logger.Debug("Session middleware: rejected session token",
				"error", err.Error())
			next.ServeHTTP(w, r)
			return
		}

		ctx := m.contextManager.SetUnlocked(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
