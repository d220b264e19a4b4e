package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"twinforge/internal/auth"
)

// userIDKey is the gin context key holding the authenticated user id.
const userIDKey = "userID"

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// authMiddleware gates protected routes on a valid bearer token and
// stashes the resolved user id for downstream handlers.
func authMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortError(c, http.StatusUnauthorized, kindUnauthorized, "authorization header required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortError(c, http.StatusUnauthorized, kindUnauthorized, "authorization header must be a bearer token")
			return
		}

		userID, err := tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				abortError(c, http.StatusUnauthorized, kindTokenExpired, "token expired")
				return
			}
			abortError(c, http.StatusUnauthorized, kindInvalidToken, "invalid token")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// currentUserID reads the id set by authMiddleware.
func currentUserID(c *gin.Context) string {
	id, _ := c.Get(userIDKey)
	userID, _ := id.(string)
	return userID
}
