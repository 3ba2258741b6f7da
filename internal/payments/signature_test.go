package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignDeterministic(t *testing.T) {
	a := Sign("secret", "txn-1")
	b := Sign("secret", "txn-1")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64, "hex SHA-256 MAC")
}

func TestVerifySignature(t *testing.T) {
	sig := Sign("secret", "txn-1")

	assert.True(t, VerifySignature("secret", "txn-1", sig))
	assert.False(t, VerifySignature("secret", "txn-2", sig))
	assert.False(t, VerifySignature("other", "txn-1", sig))
	assert.False(t, VerifySignature("secret", "txn-1", ""))
	assert.False(t, VerifySignature("secret", "txn-1", sig[:63]))
	assert.False(t, VerifySignature("secret", "txn-1", sig+"00"))
}

func TestGenerateAccessTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := generateAccessToken()
		assert.NoError(t, err)
		assert.Len(t, tok, 64)
		assert.False(t, seen[tok], "tokens must not repeat")
		seen[tok] = true
	}
}
