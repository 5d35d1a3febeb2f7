package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"pharmarx/src/app/http/response"
	"pharmarx/src/infra/config"
)

// SubjectKey is the context key for the authenticated subject identifier.
const SubjectKey = "subject_id"

// BearerAuth verifies the Authorization bearer token (HS256, shared secret
// with the identity provider) and stores the subject claim in the context.
// The core never verifies tokens itself; this is the only place the token
// is inspected.
func BearerAuth(cfg config.AuthConfig) gin.HandlerFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
	)

	return func(c *gin.Context) {
		requestID := GetRequestID(c)

		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing Authorization header", requestID)
			c.Abort()
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			response.Unauthorized(c, "malformed Authorization header", requestID)
			c.Abort()
			return
		}

		var claims jwt.RegisteredClaims
		_, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
			return []byte(cfg.AccessSecret), nil
		})
		if err != nil || claims.Subject == "" {
			response.Unauthorized(c, "invalid token", requestID)
			c.Abort()
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Next()
	}
}

// GetSubject retrieves the authenticated subject id from the Gin context.
// Returns an empty string if the request did not pass BearerAuth.
func GetSubject(c *gin.Context) string {
	return c.GetString(SubjectKey)
}
