package middleware

import (
	"net/http"
	"strings"

	"github.com/abzalkhan/taskboard/internal/auth"
	"github.com/gin-gonic/gin"
)

const errUnauthorized = "Unauthorized"

// tokenVerifier is the subset of auth.TokenManager the middleware needs.
type tokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// Auth validates a Bearer JWT and sets "userID" and "userEmail" in the gin
// context. A single verification attempt per request; any failure rejects
// the request before it reaches a protected handler.
func Auth(tokens tokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")

		claims, err := tokens.Verify(rawToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set("userID", claims.Subject)
		c.Set("userEmail", claims.Email)
		c.Next()
	}
}
