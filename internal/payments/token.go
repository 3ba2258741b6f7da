package payments

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// accessTokenBytes gives 256 bits of entropy, rendered as 64 hex chars.
const accessTokenBytes = 32

// generateAccessToken returns a fresh opaque bearer credential.
func generateAccessToken() (string, error) {
	b := make([]byte, accessTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}
