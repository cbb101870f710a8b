package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/securo/securo-server/internal/model"
)

// Claims represents session token claims with a token type marker.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) model.TokenManager {
	return &JWT{secretKey: secretKey}
}

const typeVault = "vault"

// GenerateSessionToken creates a short-lived unlock token.
func (j *JWT) GenerateSessionToken() (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(model.SessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenType: typeVault,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateSessionToken checks signature, expiry and token type.
func (j *JWT) ValidateSessionToken(tokenString string) error {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("session token is invalid")
	}
	if claims.TokenType != typeVault {
		return fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	return nil
}
