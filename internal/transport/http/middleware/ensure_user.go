package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/blog-api/internal/domain"
	"github.com/ErlanBelekov/blog-api/internal/repository"
	"github.com/gin-gonic/gin"
)

// EnsureUser runs after Auth. It rejects sessions whose user no longer
// exists and refreshes "email" from the store.
func EnsureUser(repo repository.UserRepository, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := repo.FindByID(c.Request.Context(), c.GetString(ContextUserID))
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
				return
			}
			logger.ErrorContext(c.Request.Context(), "ensure user lookup", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "Internal server error"})
			return
		}
		c.Set(ContextEmail, user.Email)
		c.Next()
	}
}
