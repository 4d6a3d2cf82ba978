package server

import (
	"crypto/rand"
	"encoding/hex"
)

// generateTokenKey returns a fresh opaque bearer key. 20 random bytes,
// hex-encoded, the same 40-character shape the original identity
// provider issues.
func generateTokenKey() (string, error) {
	b := make([]byte, tokenKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
