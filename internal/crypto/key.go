package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
)

// LoadKey provisions the vault key. A non-empty encoded value wins;
// otherwise the key is read from keyFile, and a fresh key is generated
// and written there when the file does not exist yet.
func LoadKey(encoded, keyFile string) ([]byte, error) {
	if encoded != "" {
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode vault key: %w", err)
		}
		if len(key) != KeySize {
			return nil, fmt.Errorf("vault key must be %d bytes, got %d", KeySize, len(key))
		}
		return key, nil
	}

	data, err := os.ReadFile(keyFile)
	if err == nil {
		key, err := base64.StdEncoding.DecodeString(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode key file %s: %w", keyFile, err)
		}
		if len(key) != KeySize {
			return nil, fmt.Errorf("key file %s must hold %d bytes, got %d", keyFile, KeySize, len(key))
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate vault key: %w", err)
	}

	if err := os.WriteFile(keyFile, []byte(base64.StdEncoding.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write key file: %w", err)
	}

	return key, nil
}
