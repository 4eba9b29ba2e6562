package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-forge-api/pkg/utils"
)

func newAuthTestRouter(cfg AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(cfg))
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "role": c.GetString("role")})
	}
	r.GET("/v1/campaigns", handler)
	r.GET("/health", handler)
	r.POST("/v1/auth/login", handler)
	return r
}

func authTestConfig() AuthConfig {
	return AuthConfig{
		Secret:    "test-secret",
		Issuer:    "campaign-forge-api",
		SkipPaths: DefaultSkipPaths,
		Enabled:   true,
	}
}

func doRequest(r *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMissingHeader(t *testing.T) {
	r := newAuthTestRouter(authTestConfig())
	w := doRequest(r, http.MethodGet, "/v1/campaigns", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthInvalidScheme(t *testing.T) {
	r := newAuthTestRouter(authTestConfig())
	w := doRequest(r, http.MethodGet, "/v1/campaigns", "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthInvalidToken(t *testing.T) {
	r := newAuthTestRouter(authTestConfig())
	w := doRequest(r, http.MethodGet, "/v1/campaigns", "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRefreshTokenRejected(t *testing.T) {
	m := utils.NewJWTManager("test-secret", "campaign-forge-api")
	pair, err := m.GenerateTokenPair("user-1", "user", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	// RefreshToken 只用于换发，不放行业务接口
	r := newAuthTestRouter(authTestConfig())
	w := doRequest(r, http.MethodGet, "/v1/campaigns", "Bearer "+pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token type")
}

func TestAuthValidAccessToken(t *testing.T) {
	m := utils.NewJWTManager("test-secret", "campaign-forge-api")
	pair, err := m.GenerateTokenPair("user-1", "admin", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	r := newAuthTestRouter(authTestConfig())
	w := doRequest(r, http.MethodGet, "/v1/campaigns", "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"user-1"`)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestAuthExpiredToken(t *testing.T) {
	m := utils.NewJWTManager("test-secret", "campaign-forge-api")
	token, err := m.GenerateToken("user-1", "user", "access", -time.Minute)
	require.NoError(t, err)

	r := newAuthTestRouter(authTestConfig())
	w := doRequest(r, http.MethodGet, "/v1/campaigns", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")
}

func TestAuthSkipPaths(t *testing.T) {
	r := newAuthTestRouter(authTestConfig())

	w := doRequest(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	// 前缀匹配放行 /v1/auth 下的所有路径
	w = doRequest(r, http.MethodPost, "/v1/auth/login", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthDisabled(t *testing.T) {
	cfg := authTestConfig()
	cfg.Enabled = false
	r := newAuthTestRouter(cfg)

	w := doRequest(r, http.MethodGet, "/v1/campaigns", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
