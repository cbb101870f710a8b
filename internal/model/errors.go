package model

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyInitialized is returned when a master credential already exists.
	ErrAlreadyInitialized = errors.New("master credential already set")
	// ErrNotInitialized is returned when no master credential exists yet.
	ErrNotInitialized = errors.New("master credential not set")
	// ErrUnauthorized is returned when master credential verification fails.
	ErrUnauthorized = errors.New("invalid master credential")
	// ErrWeakCredential is returned when a master credential is too short.
	ErrWeakCredential = errors.New("master credential too weak")
	// ErrInvalidLength is returned when a requested password length is below the floor.
	ErrInvalidLength = errors.New("password length too short")
	// ErrDuplicateService is returned when an entry for the same service and email exists.
	ErrDuplicateService = errors.New("entry already exists for service and email")
	// ErrIntegrity is returned when ciphertext fails authentication on decrypt.
	ErrIntegrity = errors.New("ciphertext integrity check failed")
)
