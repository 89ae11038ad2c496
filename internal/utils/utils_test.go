package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPasswordHash("s3cret!", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("anything", ""))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
}

func TestJWTRoundTrip(t *testing.T) {
	token, exp, err := GenerateJWT("user-1", "secret", time.Hour, "issuer", time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	sub, err := ParseAndValidateJWT(token, "secret", "issuer")
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestJWTRejections(t *testing.T) {
	token, _, err := GenerateJWT("user-1", "secret", time.Hour, "issuer", time.Now())
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "other-secret", "issuer")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ParseAndValidateJWT(token, "secret", "someone-else")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	expired, _, err := GenerateJWT("user-1", "secret", time.Minute, "issuer", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "secret", "issuer")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	noSubject, _, err := GenerateJWT("", "secret", time.Hour, "issuer", time.Now())
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(noSubject, "secret", "issuer")
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestGenerateSecureRandomString(t *testing.T) {
	a, err := GenerateSecureRandomString(16)
	require.NoError(t, err)
	b, err := GenerateSecureRandomString(16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 22)

	_, err = GenerateSecureRandomString(0)
	assert.Error(t, err)
}
