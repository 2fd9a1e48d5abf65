package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/abzalkhan/taskboard/internal/domain"
	"github.com/abzalkhan/taskboard/internal/repository"
	"github.com/gin-gonic/gin"
)

const errUserNotFound = "User not found"

// CurrentUser runs after Auth. It resolves the token subject to a live user
// record, so a token whose subject was deleted after issuance is rejected.
// The resolved user (public projection) is stored under "user" for handlers.
func CurrentUser(users repository.UserRepository, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUserNotFound})
				return
			}
			logger.ErrorContext(c.Request.Context(), "resolve current user", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "Internal server error"})
			return
		}

		c.Set("user", user)
		c.Next()
	}
}
