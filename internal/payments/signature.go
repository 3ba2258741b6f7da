package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the hex-encoded HMAC-SHA256 of the transaction id under secret.
// Redirect-based gateways carry this as the sig query parameter.
func Sign(secret, transactionID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(transactionID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks sig against the expected HMAC in constant time.
func VerifySignature(secret, transactionID, sig string) bool {
	expected := Sign(secret, transactionID)
	return hmac.Equal([]byte(expected), []byte(sig))
}
