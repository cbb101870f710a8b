package model

import (
	"context"
	"time"
)

// MasterStore persists the singleton master credential.
type MasterStore interface {
	// Create stores the credential. It returns ErrAlreadyInitialized
	// if a credential is already present.
	Create(ctx context.Context, credential MasterCredential) error
	// Get returns the credential or ErrNotInitialized.
	Get(ctx context.Context) (MasterCredential, error)
}

// MasterCredential holds the one-way hash of the master secret.
// At most one row may ever exist; there is no update or reset path.
type MasterCredential struct {
	PasswordHash []byte
	CreatedAt    time.Time
}
