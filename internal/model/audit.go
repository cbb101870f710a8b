package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccessLogStore appends audit records for disclosure operations.
type AccessLogStore interface {
	Create(ctx context.Context, entry AccessLogEntry) error
	GetByService(ctx context.Context, service string) ([]AccessLogEntry, error)
}

// AccessLogEntry is an append-only audit record written on every
// successful disclosure. It is never mutated or deleted.
type AccessLogEntry struct {
	ID         uuid.UUID
	Service    string
	AccessedAt time.Time
}
