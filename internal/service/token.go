package service

import (
	"time"

	"taskshare/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies bearer tokens. The subject claim is the
// authenticated username. Only HMAC algorithms are accepted; a token signed
// with anything else is rejected regardless of its payload.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	expiry time.Duration
}

func NewTokenService(secret, algorithm string, expiry time.Duration) *TokenService {
	var method jwt.SigningMethod
	switch algorithm {
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		method = jwt.SigningMethodHS256
	}
	return &TokenService{secret: []byte(secret), method: method, expiry: expiry}
}

// Generate returns a signed token for the given username.
func (s *TokenService) Generate(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify parses the token and returns its subject. Every failure mode (bad
// signature, expired, wrong algorithm, empty subject) collapses into
// ErrUnauthenticated so callers cannot leak which part was invalid.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthenticated
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrUnauthenticated
	}
	if claims.Subject == "" {
		return "", domain.ErrUnauthenticated
	}
	return claims.Subject, nil
}
