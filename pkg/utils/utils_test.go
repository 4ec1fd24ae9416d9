package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptRoundTrip(t *testing.T) {
	key := DeriveKey("s3cret")
	require.Len(t, key, 32)

	sealed, err := Encrypt([]byte("EAAB-page-token"), key)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "EAAB")

	plain, err := Decrypt(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, "EAAB-page-token", plain)

	_, err = Decrypt(sealed, DeriveKey("other"))
	assert.Error(t, err)
}

func TestTokenPurpose(t *testing.T) {
	token, err := GenerateToken("secret", "operator", "session", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken("secret", token, "session")
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)

	_, err = ValidateToken("secret", token, "oauth_state")
	assert.Error(t, err)

	_, err = ValidateToken("wrong", token, "session")
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	token, err := GenerateToken("secret", "operator", "session", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken("secret", token, "session")
	assert.Error(t, err)
}
