package model

import "time"

// SessionTTL is the lifetime of an unlock session token.
const SessionTTL = 15 * time.Minute

// TokenManager issues and validates vault session tokens. A token
// stands in for a verified master credential until it expires.
type TokenManager interface {
	GenerateSessionToken() (token string, expiresAt time.Time, err error)
	ValidateSessionToken(token string) error
}
