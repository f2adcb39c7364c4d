package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cibn-digital-library/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	signed, err := tokens.Generate("CIBN001", "ngozi@example.com", models.RoleCIBNMember, "Ngozi Adebayo")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "CIBN001", claims.Subject)
	assert.Equal(t, "ngozi@example.com", claims.Email)
	assert.Equal(t, models.RoleCIBNMember, claims.Role)
	assert.Equal(t, "Ngozi Adebayo", claims.Name)
}

func TestTokenExpired(t *testing.T) {
	short, err := NewTokenService("test-secret", time.Millisecond)
	require.NoError(t, err)

	signed, err := short.Generate("CIBN001", "", models.RoleCIBNMember, "")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = short.Verify(signed)
	assert.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer, err := NewTokenService("secret-a", time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenService("secret-b", time.Hour)
	require.NoError(t, err)

	signed, err := issuer.Generate("CIBN001", "", models.RoleCIBNMember, "")
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.Error(t, err)
}

func TestTokenGarbageInput(t *testing.T) {
	tokens, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = tokens.Verify("not.a.token")
	assert.Error(t, err)
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.Error(t, err)
}
