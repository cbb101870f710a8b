package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/securo/securo-server/internal/crypto"
	"github.com/securo/securo-server/internal/logger"
	"github.com/securo/securo-server/internal/model"
	"github.com/securo/securo-server/internal/password"
)

// DefaultPasswordLength is used when the caller does not request a length.
const DefaultPasswordLength = 16

// Vault orchestrates vault operations. Every disclosing or mutating
// operation passes the authorize step before touching the cipher or the
// store; add, list and search intentionally do not.
type Vault struct {
	entryStore model.EntryStore
	auditStore model.AccessLogStore
	guard      *Guard
	cipher     *crypto.Cipher
	ctxManager model.ContextManager
	backup     model.BackupStorage
	logger     *logger.Logger
}

func NewVault(
	entryStore model.EntryStore,
	auditStore model.AccessLogStore,
	guard *Guard,
	cipher *crypto.Cipher,
	ctxManager model.ContextManager,
	backup model.BackupStorage,
	logger *logger.Logger,
) *Vault {
	return &Vault{
		entryStore: entryStore,
		auditStore: auditStore,
		guard:      guard,
		cipher:     cipher,
		ctxManager: ctxManager,
		backup:     backup,
		logger:     logger,
	}
}

// Add generates, encrypts and stores a credential for a service, and
// returns the plaintext password once, with its strength score.
func (v *Vault) Add(ctx context.Context, params model.CreateEntryParams) (model.EntrySecret, error) {
	if params.Service == "" {
		return model.EntrySecret{}, fmt.Errorf("service is required")
	}
	if params.Length == 0 {
		params.Length = DefaultPasswordLength
	}
	if params.Category == "" {
		params.Category = model.DefaultCategory
	}

	plaintext, err := password.Generate(params.Length)
	if err != nil {
		return model.EntrySecret{}, err
	}
	strength := password.Score(plaintext)

	encrypted, err := v.cipher.Encrypt([]byte(plaintext))
	if err != nil {
		return model.EntrySecret{}, fmt.Errorf("failed to encrypt password: %w", err)
	}

	entry, err := v.entryStore.Create(ctx, model.Entry{
		Service:         params.Service,
		Email:           params.Email,
		EncryptedSecret: encrypted,
		Category:        params.Category,
		Strength:        strength,
	})
	if err != nil {
		return model.EntrySecret{}, err
	}

	v.logger.Info("Vault service: entry added",
		"service", entry.Service,
		"strength", strength)

	return model.EntrySecret{
		Service:  entry.Service,
		Email:    entry.Email,
		Password: plaintext,
		Category: entry.Category,
		Strength: strength,
	}, nil
}

// Retrieve discloses the stored password for a service. Requires a
// valid master credential; appends a best-effort audit record.
func (v *Vault) Retrieve(ctx context.Context, masterPassword, service string) (model.EntrySecret, error) {
	if err := v.authorize(ctx, masterPassword); err != nil {
		return model.EntrySecret{}, err
	}

	entry, err := v.entryStore.GetByService(ctx, service)
	if err != nil {
		return model.EntrySecret{}, err
	}

	plaintext, err := v.cipher.Decrypt(entry.EncryptedSecret)
	if err != nil {
		v.logger.Error("Vault service: stored ciphertext failed integrity check",
			"service", service)
		return model.EntrySecret{}, err
	}

	v.appendAccessLog(ctx, service)

	return model.EntrySecret{
		Service:  entry.Service,
		Email:    entry.Email,
		Password: string(plaintext),
		Category: entry.Category,
		Strength: entry.Strength,
	}, nil
}

// Rotate replaces the stored password for a service with a freshly
// generated one and returns the new plaintext.
func (v *Vault) Rotate(ctx context.Context, masterPassword, service string) (string, error) {
	if err := v.authorize(ctx, masterPassword); err != nil {
		return "", err
	}

	plaintext, err := password.Generate(DefaultPasswordLength)
	if err != nil {
		return "", err
	}

	encrypted, err := v.cipher.Encrypt([]byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt password: %w", err)
	}

	// Ciphertext, strength and updated_at land in a single store write,
	// so concurrent rotations cannot interleave into a torn row.
	_, err = v.entryStore.RotateSecret(ctx, service, encrypted, password.Score(plaintext))
	if err != nil {
		return "", err
	}

	v.logger.Info("Vault service: entry rotated", "service", service)

	return plaintext, nil
}

// Delete removes the entry for a service. Requires a valid master
// credential.
func (v *Vault) Delete(ctx context.Context, masterPassword, service string) error {
	if err := v.authorize(ctx, masterPassword); err != nil {
		return err
	}

	if err := v.entryStore.Delete(ctx, service); err != nil {
		return err
	}

	v.logger.Info("Vault service: entry deleted", "service", service)

	return nil
}

// List returns entry metadata without secret material.
func (v *Vault) List(ctx context.Context) ([]model.EntryMetadata, error) {
	items, err := v.entryStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return items, nil
}

// Search returns metadata for entries whose service matches the query,
// case-insensitively.
func (v *Vault) Search(ctx context.Context, query string) ([]model.EntryMetadata, error) {
	items, err := v.entryStore.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search entries: %w", err)
	}
	return items, nil
}

// Export discloses every stored credential. A single entry failing
// decryption aborts the whole export.
func (v *Vault) Export(ctx context.Context, masterPassword string) ([]model.EntrySecret, error) {
	if err := v.authorize(ctx, masterPassword); err != nil {
		return nil, err
	}

	entries, err := v.entryStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}

	secrets := make([]model.EntrySecret, 0, len(entries))
	for _, entry := range entries {
		plaintext, err := v.cipher.Decrypt(entry.EncryptedSecret)
		if err != nil {
			v.logger.Error("Vault service: export aborted on integrity failure",
				"service", entry.Service)
			return nil, err
		}
		secrets = append(secrets, model.EntrySecret{
			Service:  entry.Service,
			Email:    entry.Email,
			Password: string(plaintext),
			Category: entry.Category,
			Strength: entry.Strength,
		})
	}

	for _, entry := range entries {
		v.appendAccessLog(ctx, entry.Service)
	}

	return secrets, nil
}

// backupBundle is the serialized snapshot format. Secrets stay in their
// stored encrypted form; the whole bundle is encrypted again on top.
type backupBundle struct {
	CreatedAt time.Time     `json:"created_at"`
	Entries   []model.Entry `json:"entries"`
}

// Backup uploads an encrypted snapshot of all entries to object storage
// and returns the object key.
func (v *Vault) Backup(ctx context.Context, masterPassword string) (string, error) {
	if err := v.authorize(ctx, masterPassword); err != nil {
		return "", err
	}

	entries, err := v.entryStore.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get entries: %w", err)
	}

	raw, err := json.Marshal(backupBundle{CreatedAt: time.Now().UTC(), Entries: entries})
	if err != nil {
		return "", fmt.Errorf("failed to marshal backup bundle: %w", err)
	}

	sealed, err := v.cipher.Encrypt(raw)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt backup bundle: %w", err)
	}

	key := fmt.Sprintf("backups/vault-%s.bin", time.Now().UTC().Format("20060102T150405Z"))
	if err := v.backup.Upload(ctx, key, bytes.NewReader(sealed)); err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}

	v.logger.Info("Vault service: backup uploaded", "key", key, "entries", len(entries))

	return key, nil
}

// authorize passes when the request context carries a valid unlock
// session; otherwise the master password must verify.
func (v *Vault) authorize(ctx context.Context, masterPassword string) error {
	if v.ctxManager != nil && v.ctxManager.IsUnlocked(ctx) {
		return nil
	}
	return v.guard.RequireValid(ctx, masterPassword)
}

// appendAccessLog records a disclosure. Best effort: a failed insert is
// logged and never fails the parent operation.
func (v *Vault) appendAccessLog(ctx context.Context, service string) {
	if err := v.auditStore.Create(ctx, model.AccessLogEntry{Service: service}); err != nil {
		v.logger.Error("Vault service: failed to append access log",
			"service", service,
			"error", err.Error())
	}
}
