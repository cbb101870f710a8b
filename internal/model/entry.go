package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultCategory is assigned to entries created without a category.
const DefaultCategory = "General"

// EntryStore defines persistence operations for vault entries.
type EntryStore interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	GetByService(ctx context.Context, service string) (Entry, error)
	RotateSecret(ctx context.Context, service string, encryptedSecret []byte, strength int) (Entry, error)
	Delete(ctx context.Context, service string) error
	List(ctx context.Context) ([]EntryMetadata, error)
	Search(ctx context.Context, query string) ([]EntryMetadata, error)
	GetAll(ctx context.Context) ([]Entry, error)
}

// Entry represents one stored credential. EncryptedSecret is opaque
// ciphertext; only the cipher may interpret it.
type Entry struct {
	ID              uuid.UUID
	Service         string
	Email           string
	EncryptedSecret []byte
	Category        string
	Strength        int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EntryMetadata is the disclosure-free projection of an entry used by
// list and search. It never carries secret material.
type EntryMetadata struct {
	Service   string
	Email     string
	Category  string
	Strength  int
	UpdatedAt time.Time
}

// CreateEntryParams contains caller inputs for the add operation.
type CreateEntryParams struct {
	Service  string
	Email    string
	Length   int
	Category string
}

// EntrySecret is the disclosed form of an entry returned by retrieve
// and export after decryption.
type EntrySecret struct {
	Service  string
	Email    string
	Password string
	Category string
	Strength int
}
