package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	httpctx "github.com/securo/securo-server/internal/api/http/context"
	"github.com/securo/securo-server/internal/testutil"
)

type fakeValidator struct {
	valid string
}

func (f *fakeValidator) Validate(_ context.Context, token string) error {
	if token == f.valid {
		return nil
	}
	return errors.New("invalid token")
}

func TestSession_Handle(t *testing.T) {
	ctxManager := httpctx.NewManager()
	m := NewSession(&fakeValidator{valid: "good-token"}, ctxManager, testutil.MakeNoopLogger())

	var unlocked bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unlocked = ctxManager.IsUnlocked(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid bearer marks context unlocked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/retrieve", nil)
		req.Header.Set("Authorization", "Bearer good-token")

		m.Handle(next).ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, unlocked)
	})

	t.Run("invalid token passes through locked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/retrieve", nil)
		req.Header.Set("Authorization", "Bearer bad-token")

		rec := httptest.NewRecorder()
		m.Handle(next).ServeHTTP(rec, req)

		assert.False(t, unlocked)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header passes through locked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/retrieve", nil)

		m.Handle(next).ServeHTTP(httptest.NewRecorder(), req)

		assert.False(t, unlocked)
	})

	t.Run("non-bearer scheme ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/retrieve", nil)
		req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")

		m.Handle(next).ServeHTTP(httptest.NewRecorder(), req)

		assert.False(t, unlocked)
	})
}
