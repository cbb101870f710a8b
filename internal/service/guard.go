package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/securo/securo-server/internal/logger"
	"github.com/securo/securo-server/internal/model"
)

// MinMasterLength is the minimum accepted master password length.
const MinMasterLength = 8

// Guard owns the master credential: one-time bootstrap, verification,
// and the gate every sensitive operation passes through.
type Guard struct {
	masterStore model.MasterStore
	logger      *logger.Logger
}

func NewGuard(masterStore model.MasterStore, logger *logger.Logger) *Guard {
	return &Guard{
		masterStore: masterStore,
		logger:      logger,
	}
}

// Bootstrap sets the master credential exactly once. The raw password is
// digested to a fixed length before the slow hash because bcrypt truncates
// input beyond 72 bytes; the digest keeps arbitrarily long passwords safe.
func (g *Guard) Bootstrap(ctx context.Context, rawPassword string) error {
	if len(rawPassword) < MinMasterLength {
		return fmt.Errorf("master password below %d characters: %w", MinMasterLength, model.ErrWeakCredential)
	}

	_, err := g.masterStore.Get(ctx)
	if err == nil {
		return model.ErrAlreadyInitialized
	}
	if !errors.Is(err, model.ErrNotInitialized) {
		return fmt.Errorf("failed to check master credential: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword(digest(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash master credential: %w", err)
	}

	// The store's singleton constraint settles any race between two
	// concurrent bootstrap calls.
	if err := g.masterStore.Create(ctx, model.MasterCredential{PasswordHash: hash}); err != nil {
		return fmt.Errorf("failed to persist master credential: %w", err)
	}

	g.logger.Info("Guard: master credential set")

	return nil
}

// Verify reports whether rawPassword matches the stored credential.
// It returns ErrNotInitialized when no credential exists and never
// errors on a plain mismatch.
func (g *Guard) Verify(ctx context.Context, rawPassword string) (bool, error) {
	credential, err := g.masterStore.Get(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNotInitialized) {
			return false, model.ErrNotInitialized
		}
		return false, fmt.Errorf("failed to get master credential: %w", err)
	}

	err = bcrypt.CompareHashAndPassword(credential.PasswordHash, digest(rawPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("failed to compare master credential: %w", err)
	}

	return true, nil
}

// RequireValid is the single choke point for disclosure and mutation
// operations. An uninitialized vault and a wrong password both surface
// as ErrUnauthorized.
func (g *Guard) RequireValid(ctx context.Context, rawPassword string) error {
	ok, err := g.Verify(ctx, rawPassword)
	if err != nil {
		if errors.Is(err, model.ErrNotInitialized) {
			return model.ErrUnauthorized
		}
		return err
	}
	if !ok {
		g.logger.Debug("Guard: master credential verification failed")
		return model.ErrUnauthorized
	}
	return nil
}

// digest normalizes the raw password to a bounded-size hex string, the
// actual bcrypt input.
func digest(rawPassword string) []byte {
	sum := sha256.Sum256([]byte(rawPassword))
	return []byte(hex.EncodeToString(sum[:]))
}
