package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(tokens *jwt.TokenService) *gin.Engine {
	r := gin.New()
	r.Use(JWTAuthMiddleware(tokens))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"identifier": c.GetString(ContextIdentifier),
			"email":      c.GetString(ContextEmail),
			"role":       c.GetString(ContextRole),
		})
	})
	r.GET("/admin", AdminOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	tokens := jwt.NewTokenService("secret", time.Hour, time.Hour)
	r := protectedRouter(tokens)

	t.Run("valid session", func(t *testing.T) {
		token, _, err := tokens.IssueSession("Lua", "lua@example.com", models.RoleParticipant)
		require.NoError(t, err)

		w := get(r, "/me", token)

		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"identifier":"Lua","email":"lua@example.com","role":"participant"}`, w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Basic abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("magic link tokens are not sessions", func(t *testing.T) {
		token, _, err := tokens.IssueMagicLink("lua@example.com")
		require.NoError(t, err)

		w := get(r, "/me", token)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Body.String(), "Invalid token")
	})

	t.Run("expired session", func(t *testing.T) {
		expired := jwt.NewTokenService("secret", -time.Minute, time.Hour)
		token, _, err := expired.IssueSession("Lua", "", models.RoleParticipant)
		require.NoError(t, err)

		w := get(r, "/me", token)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Body.String(), "expired")
	})
}

func TestAdminOnly(t *testing.T) {
	tokens := jwt.NewTokenService("secret", time.Hour, time.Hour)
	r := protectedRouter(tokens)

	participant, _, err := tokens.IssueSession("Lua", "", models.RoleParticipant)
	require.NoError(t, err)
	admin, _, err := tokens.IssueSession("boss@example.com", "boss@example.com", models.RoleAdmin)
	require.NoError(t, err)

	require.Equal(t, http.StatusForbidden, get(r, "/admin", participant).Code)
	require.Equal(t, http.StatusOK, get(r, "/admin", admin).Code)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://santa.example.com/"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://santa.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "https://santa.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware(), LoggerMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("RequestID")) })

	w := get(r, "/ping", "")
	generated := w.Header().Get(RequestIDHeader)
	require.Len(t, generated, 36)
	require.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
