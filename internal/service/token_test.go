package service

import (
	"testing"
	"time"

	"taskshare/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		svc := NewTokenService("secret", alg, time.Minute)

		token, err := svc.Generate("alice")
		require.NoError(t, err, alg)

		subject, err := svc.Verify(token)
		require.NoError(t, err, alg)
		assert.Equal(t, "alice", subject)
	}
}

func TestTokenExpired(t *testing.T) {
	svc := NewTokenService("secret", "HS256", -time.Minute)

	token, err := svc.Generate("alice")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", "HS256", time.Minute).Generate("alice")
	require.NoError(t, err)

	_, err = NewTokenService("secret-b", "HS256", time.Minute).Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestTokenMissingSubject(t *testing.T) {
	svc := NewTokenService("secret", "HS256", time.Minute)

	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestTokenGarbage(t *testing.T) {
	svc := NewTokenService("secret", "HS256", time.Minute)

	_, err := svc.Verify("not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
