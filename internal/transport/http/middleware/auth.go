package middleware

import (
	"errors"
	"net/http"
	"strings"

	ctxlog "github.com/ErlanBelekov/blog-api/internal/log"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	errUnauthorized = "Unauthorized"

	// SessionCookie holds "Bearer <jwt>" for browser clients.
	SessionCookie = "Authorization"

	ContextUserID = "userID"
	ContextEmail  = "email"
)

// Auth validates a Bearer JWT from the Authorization header, or failing that
// the session cookie, and sets "userID" and "email" in the gin context.
func Auth(jwtKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}
		email, _ := claims["email"].(string)

		c.Set(ContextUserID, userID)
		c.Set(ContextEmail, email)
		c.Request = c.Request.WithContext(ctxlog.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	value := c.GetHeader("Authorization")
	if value == "" {
		cookie, err := c.Cookie(SessionCookie)
		if err != nil {
			return "", false
		}
		value = cookie
	}
	if !strings.HasPrefix(value, "Bearer ") {
		return "", false
	}
	raw := strings.TrimPrefix(value, "Bearer ")
	return raw, raw != ""
}
