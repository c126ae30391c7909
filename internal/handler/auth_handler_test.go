package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/avidya-edu/academy-cms-gateway/internal/middleware"
	"github.com/avidya-edu/academy-cms-gateway/internal/service"
	"github.com/avidya-edu/academy-cms-gateway/pkg/config"
)

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	require.NoError(t, err)

	sessions := service.NewSessionService(service.SessionServiceParams{
		Config: config.SessionConfig{
			Username:       "admin",
			PasswordBcrypt: string(hash),
			TokenSecret:    "test_secret",
			TTL:            24 * time.Hour,
		},
		Store: &memoryStore{values: map[string][]byte{}},
	})
	authHandler := NewAuthHandler(sessions)

	router := gin.New()
	router.POST("/api/admin/auth/login", authHandler.Login)
	router.POST("/api/admin/auth/logout", authHandler.Logout)

	guarded := router.Group("/api/admin", middleware.SessionGuard(sessions))
	guarded.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return router
}

func login(t *testing.T, router *gin.Engine, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login",
		strings.NewReader(`{"username": "`+username+`", "password": "`+password+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginAndGuardedAccess(t *testing.T) {
	router := authRouter(t)

	w := login(t, router, "admin", "letmein")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+body.Data.Token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginRejectedWithWrongPassword(t *testing.T) {
	router := authRouter(t)

	w := login(t, router, "admin", "nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuardRejectsMissingToken(t *testing.T) {
	router := authRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	router := authRouter(t)

	w := login(t, router, "admin", "letmein")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+body.Data.Token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+body.Data.Token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
