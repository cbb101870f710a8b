package model

import "context"

// ContextManager marks and inspects request contexts that have already
// passed master credential verification via a session token.
type ContextManager interface {
	SetUnlocked(ctx context.Context) context.Context
	IsUnlocked(ctx context.Context) bool
}
