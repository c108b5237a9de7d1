package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskshare/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier map[string]string // token -> subject

func (f fakeVerifier) Verify(token string) (string, error) {
	sub, ok := f[token]
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	return sub, nil
}

type fakeResolver map[string]*domain.User

func (f fakeResolver) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := f[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := fakeVerifier{"good-token": "alice", "ghost-token": "nobody"}
	users := fakeResolver{"alice": {ID: 1, Username: "alice"}}

	r := gin.New()
	r.GET("/whoami", Auth(tokens, users), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	return r
}

func TestAuthValidToken(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "alice", body["username"])
}

// Every failure mode must be indistinguishable: same status, same body.
func TestAuthFailuresCollapse(t *testing.T) {
	r := newAuthRouter()

	cases := map[string]func(*http.Request){
		"missing header":  func(req *http.Request) {},
		"not bearer":      func(req *http.Request) { req.Header.Set("Authorization", "Basic abc") },
		"empty token":     func(req *http.Request) { req.Header.Set("Authorization", "Bearer ") },
		"invalid token":   func(req *http.Request) { req.Header.Set("Authorization", "Bearer bad-token") },
		"unknown subject": func(req *http.Request) { req.Header.Set("Authorization", "Bearer ghost-token") },
	}

	var firstBody string
	for name, setup := range cases {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		setup(req)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code, name)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"), name)
		if firstBody == "" {
			firstBody = w.Body.String()
		} else {
			assert.Equal(t, firstBody, w.Body.String(), name)
		}
	}
}
