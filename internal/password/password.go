// Package password generates vault passwords and scores their strength.
package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/securo/securo-server/internal/model"
)

// MinLength is the floor for generated password lengths.
const MinLength = 12

// Character classes. Every generated password contains at least one
// character from each class.
const (
	lowercase   = "abcdefghijklmnopqrstuvwxyz"
	uppercase   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits      = "0123456789"
	punctuation = "!@#$%^&*()-_=+[]{};:,.<>?/"
)

var allChars = lowercase + uppercase + digits + punctuation

// Generate returns a random password of exactly the requested length,
// drawn from a cryptographically secure source. One character per class
// is seeded first, the remainder is filled from the full alphabet, and
// the result is shuffled so class positions are not predictable.
func Generate(length int) (string, error) {
	if length < MinLength {
		return "", fmt.Errorf("length %d below minimum %d: %w", length, MinLength, model.ErrInvalidLength)
	}

	chars := make([]byte, 0, length)

	for _, class := range []string{lowercase, uppercase, digits, punctuation} {
		c, err := randomByte(class)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	for len(chars) < length {
		c, err := randomByte(allChars)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	if err := shuffle(chars); err != nil {
		return "", err
	}

	return string(chars), nil
}

// Score rates a password from 0 to 100. Length contributes 4 points per
// character up to 40; each character class present contributes 15.
// Deterministic, no side effects.
func Score(password string) int {
	score := min(len(password)*4, 40)

	for _, class := range []string{lowercase, uppercase, digits, punctuation} {
		if strings.ContainsAny(password, class) {
			score += 15
		}
	}

	return min(score, 100)
}

func randomByte(from string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(from))))
	if err != nil {
		return 0, fmt.Errorf("failed to draw random index: %w", err)
	}
	return from[n.Int64()], nil
}

// shuffle performs a Fisher-Yates shuffle driven by crypto/rand.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("failed to draw shuffle index: %w", err)
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
