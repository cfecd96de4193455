package user

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-markets/praxis/internal/security"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, security.Maker) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	maker, err := security.NewPasetoMaker("12345678901234567890123456789012")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", AuthMiddleware(maker), func(c *gin.Context) {
		userID := c.MustGet("user_id").(uuid.UUID)
		c.JSON(http.StatusOK, gin.H{"user_id": userID.String()})
	})
	return r, maker
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("passes a valid bearer token through", func(t *testing.T) {
		r, maker := setupAuthRouter(t)
		userID := uuid.New()
		token, _, err := maker.CreateToken(userID, time.Minute, 0, security.TokenScopeAccess)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthorizationHeaderKey, AuthorizationTypeBearer+" "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		r, _ := setupAuthRouter(t)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a malformed header", func(t *testing.T) {
		r, _ := setupAuthRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthorizationHeaderKey, "Basic dXNlcjpwYXNz")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		r, maker := setupAuthRouter(t)
		token, _, err := maker.CreateToken(uuid.New(), -time.Minute, 0, security.TokenScopeAccess)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthorizationHeaderKey, AuthorizationTypeBearer+" "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a refresh-scoped token", func(t *testing.T) {
		r, maker := setupAuthRouter(t)
		token, _, err := maker.CreateToken(uuid.New(), time.Minute, 0, security.TokenScopeRefresh)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthorizationHeaderKey, AuthorizationTypeBearer+" "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
