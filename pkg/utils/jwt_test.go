package utils

import (
	"testing"
	"time"

	"homechef/pkg/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	user := &models.User{ID: 9, Email: "meera@example.com", Role: models.RoleChef}

	token, err := GenerateToken("secret", time.Hour, user)
	require.NoError(t, err)

	claims, err := VerifyToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(9), claims.ID)
	assert.Equal(t, models.RoleChef, claims.Role)

	_, err = VerifyToken("other-secret", token)
	assert.Error(t, err)
}

func TestVerifyToken_Expired(t *testing.T) {
	token, err := GenerateToken("secret", -time.Minute, &models.User{ID: 1, Role: models.RoleCustomer})
	require.NoError(t, err)

	_, err = VerifyToken("secret", token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenTTL(t *testing.T) {
	tests := map[string]time.Duration{
		"7d":   7 * 24 * time.Hour,
		"1d":   24 * time.Hour,
		"30d":  30 * 24 * time.Hour,
		"90m":  90 * time.Minute,
		"":     7 * 24 * time.Hour,
		"-1h":  7 * 24 * time.Hour,
		"soon": 7 * 24 * time.Hour,
	}
	for in, want := range tests {
		assert.Equal(t, want, TokenTTL(in), in)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Tandoor-Monsoon-42")
	require.NoError(t, err)
	assert.NotEqual(t, "Tandoor-Monsoon-42", hash)

	assert.NoError(t, ComparePassword(hash, "Tandoor-Monsoon-42"))
	assert.ErrorIs(t, ComparePassword(hash, "tandoor-monsoon-42"), ErrPasswordMismatch)
}
