package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalogdemo/config"
	"catalogdemo/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	r := gin.New()
	RegisterRoutes(r, &config.Settings{JWTSecret: secret}, log)
	return r
}

func serve(r http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndMetrics(t *testing.T) {
	r := newEngine("secret")

	w := serve(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = serve(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	r := newEngine("secret")

	w := serve(r, http.MethodDelete, "/api/admin/products?category=Chocolate", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := middleware.GenerateToken([]byte("secret"), "bob", "user", time.Hour)
	require.NoError(t, err)
	w = serve(r, http.MethodDelete, "/api/admin/products?category=Chocolate", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRoutesDisabledWithoutSecret(t *testing.T) {
	r := newEngine("")

	w := serve(r, http.MethodPost, "/api/admin/products", "token")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
