package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/utils"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	chain := NewChain(testSecret, nil, nil)

	router := gin.New()
	router.Use(ErrorHandler(logger.Nop()))
	router.GET("/me", chain.Auth, func(c *gin.Context) {
		user, _ := utils.GetAuthUser(c)
		c.JSON(http.StatusOK, gin.H{"name": user.Name})
	})
	router.GET("/admin", chain.Auth, chain.AdminOnly, func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	router.GET("/detail", chain.OptionalAuth, func(c *gin.Context) {
		_, ok := utils.GetAuthUser(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})
	return router
}

func tokenFor(t *testing.T, role string) string {
	token, err := utils.GenerateToken(testSecret, time.Hour, utils.AuthUser{ID: uuid.New(), Name: "Dana", Role: role})
	require.NoError(t, err)
	return token
}

func doRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	router := newAuthRouter()

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(router, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var body utils.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "Access denied. No token provided", body.Message)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token abc")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := doRequest(router, "/me", "invalid.token.here")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := doRequest(router, "/me", tokenFor(t, "user"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Dana")
	})
}

func TestRequireRole(t *testing.T) {
	router := newAuthRouter()

	assert.Equal(t, http.StatusForbidden, doRequest(router, "/admin", tokenFor(t, "user")).Code)
	assert.Equal(t, http.StatusNoContent, doRequest(router, "/admin", tokenFor(t, "admin")).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "/admin", "").Code)
}

func TestOptionalAuth(t *testing.T) {
	router := newAuthRouter()

	assert.Contains(t, doRequest(router, "/detail", "").Body.String(), `"authenticated":false`)
	assert.Contains(t, doRequest(router, "/detail", "garbage").Body.String(), `"authenticated":false`)
	assert.Contains(t, doRequest(router, "/detail", tokenFor(t, "user")).Body.String(), `"authenticated":true`)
}
