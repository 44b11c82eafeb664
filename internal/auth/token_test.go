package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/Dhrutik-Patel/CodeChat/internal/apperrors"
)

func TestTokenRoundTrip(t *testing.T) {
	req := require.New(t)
	tm := NewTokenManager("unit-test-secret", time.Hour)

	token, err := tm.Generate("user-42")
	req.NoError(err)
	req.NotEmpty(token)

	userID, err := tm.Validate(token)
	req.NoError(err)
	req.Equal("user-42", userID)
}

func TestTokenExpired(t *testing.T) {
	req := require.New(t)
	tm := NewTokenManager("unit-test-secret", -time.Minute)

	token, err := tm.Generate("user-42")
	req.NoError(err)

	_, err = tm.Validate(token)
	req.ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestTokenWrongSecret(t *testing.T) {
	req := require.New(t)

	token, err := NewTokenManager("secret-a", time.Hour).Generate("user-42")
	req.NoError(err)

	_, err = NewTokenManager("secret-b", time.Hour).Validate(token)
	req.ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestTokenRejectsUnexpectedAlgorithm(t *testing.T) {
	req := require.New(t)

	claims := &Claims{
		UserID: "user-42",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	req.NoError(err)

	_, err = NewTokenManager("unit-test-secret", time.Hour).Validate(unsigned)
	req.ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestTokenGarbage(t *testing.T) {
	req := require.New(t)
	tm := NewTokenManager("unit-test-secret", time.Hour)

	_, err := tm.Validate("not.a.token")
	req.ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestPasswordHashing(t *testing.T) {
	req := require.New(t)

	hash, err := HashPassword("hunter2")
	req.NoError(err)
	req.NotEqual("hunter2", hash)

	req.True(ComparePassword("hunter2", hash))
	req.False(ComparePassword("hunter3", hash))
}
