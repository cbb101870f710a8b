// Package context carries the unlock state of a request through its
// context.
package context

import (
	"context"
)

type contextKey string

// unlockedKey marks a request whose caller already presented a valid
// unlock session.
const unlockedKey contextKey = "vault_unlocked"

// Manager sets and reads the unlock flag on request contexts.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUnlocked returns a context marked as unlocked.
func (m *Manager) SetUnlocked(ctx context.Context) context.Context {
	return context.WithValue(ctx, unlockedKey, true)
}

// IsUnlocked reports whether the context has been marked as unlocked.
func (m *Manager) IsUnlocked(ctx context.Context) bool {
	unlocked, ok := ctx.Value(unlockedKey).(bool)
	return ok && unlocked
}
