package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// APIKeyPrefix starts every generated admin API key.
const APIKeyPrefix = "eb_"

// GenerateAPIKey returns a new random key and the short prefix shown in
// listings.
func GenerateAPIKey() (key, displayPrefix string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate api key: %w", err)
	}
	key = APIKeyPrefix + hex.EncodeToString(b)
	return key, key[:len(APIKeyPrefix)+8], nil
}

// HashAPIKey computes the SHA-256 hex digest under which keys are stored.
func HashAPIKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}
