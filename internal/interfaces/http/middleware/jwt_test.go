package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealerdesk/backend/internal/infrastructure/auth"
	"github.com/dealerdesk/backend/internal/infrastructure/config"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	gin.SetMode(gin.TestMode)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-that-is-long-enough",
		Issuer: "dealerdesk-test",
	})

	engine := gin.New()
	engine.Use(JWTAuth(jwtService))
	engine.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":    GetUserID(c).String(),
			"company_id": GetCompanyID(c).String(),
			"role":       GetRole(c),
		})
	})
	engine.GET("/accounting-only", RequireRole(auth.RoleOwner, auth.RoleAccounting), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine, jwtService
}

func TestJWTAuth_ValidToken(t *testing.T) {
	engine, jwtService := newAuthTestRouter(t)
	userID := uuid.New()
	companyID := uuid.New()

	token, err := jwtService.GenerateAccessToken(userID, companyID, auth.RoleSales)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), companyID.String())
	assert.Contains(t, w.Body.String(), auth.RoleSales)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	engine, _ := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	engine, _ := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	engine, _ := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_AllowsListedRoles(t *testing.T) {
	engine, jwtService := newAuthTestRouter(t)

	for _, role := range []string{auth.RoleOwner, auth.RoleAccounting} {
		token, err := jwtService.GenerateAccessToken(uuid.New(), uuid.New(), role)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/accounting-only", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "role %s should pass", role)
	}
}

func TestRequireRole_RejectsOtherRoles(t *testing.T) {
	engine, jwtService := newAuthTestRouter(t)

	token, err := jwtService.GenerateAccessToken(uuid.New(), uuid.New(), auth.RoleSales)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/accounting-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}
