package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func router(secret []byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	admin := r.Group("/admin", AuthMiddleware(secret), AdminMiddleware())
	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString("userId")})
	})
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminToken(t *testing.T) {
	token, err := GenerateToken(secret, "alice", RoleAdmin, time.Hour)
	require.NoError(t, err)

	w := do(router(secret), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestNonAdminToken(t *testing.T) {
	token, err := GenerateToken(secret, "bob", "user", time.Hour)
	require.NoError(t, err)

	w := do(router(secret), token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRejectedTokens(t *testing.T) {
	r := router(secret)

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "not-a-token").Code)

	expired, err := GenerateToken(secret, "alice", RoleAdmin, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, expired).Code)

	foreign, err := GenerateToken([]byte("other-secret"), "alice", RoleAdmin, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, foreign).Code)
}

func TestAdminDisabledWithoutSecret(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, do(router(nil), "anything").Code)

	_, err := GenerateToken(nil, "alice", RoleAdmin, time.Hour)
	assert.Error(t, err)
}

func TestRequestIDIsKept(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
