package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestValidateAccessToken_RoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "u@example.com", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.NotEmpty(t, claims.JTI)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "", secret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other")
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "", secret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateAccessToken_RejectsNoneAlgorithm(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, secret)
	assert.Error(t, err)
}

func TestValidateAccessToken_RequiresUserID(t *testing.T) {
	token, err := GenerateAccessToken("", "", secret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
