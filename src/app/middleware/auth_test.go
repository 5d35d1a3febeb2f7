package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"pharmarx/src/infra/config"
)

func authConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret: "test-secret",
		Issuer:       "auth-service",
		Audience:     "payment-service",
	}
}

func signToken(t *testing.T, cfg config.AuthConfig, subject string, expires time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    cfg.Issuer,
		Audience:  jwt.ClaimStrings{cfg.Audience},
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessSecret))
	require.NoError(t, err)
	return token
}

func authRouter(cfg config.AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/protected", BearerAuth(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": GetSubject(c)})
	})
	return router
}

func TestBearerAuthAcceptsValidToken(t *testing.T) {
	cfg := authConfig()
	router := authRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg, "user-pat-1", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "user-pat-1")
}

func TestBearerAuthRejectsMissingHeader(t *testing.T) {
	router := authRouter(authConfig())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuthRejectsExpiredToken(t *testing.T) {
	cfg := authConfig()
	router := authRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg, "user-pat-1", time.Now().Add(-time.Hour)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuthRejectsWrongSecret(t *testing.T) {
	cfg := authConfig()
	router := authRouter(cfg)

	badCfg := cfg
	badCfg.AccessSecret = "other-secret"
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, badCfg, "user-pat-1", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
