package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Expiry handling

	"cash_management/internal/utils" // JWT and session utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// JWTAuthMiddleware validates JWT tokens, rejects tokens revoked by logout
// and exposes the authenticated user identity to downstream handlers.
// Everything past this middleware sees the user as an explicit ID, never
// ambient session state.
func JWTAuthMiddleware(secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		// Reject tokens that were revoked by logout
		revoked, err := utils.IsTokenRevoked(c.Request.Context(), rdb, claims.ID)
		if err != nil {
			// Redis failure: fail closed on the session check
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session check failed"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has been logged out"})
			return
		}
		c.Set("userID", claims.UserID) // Store userID in context
		c.Set("tokenID", claims.ID)    // Store token ID for logout
		if claims.ExpiresAt != nil {
			c.Set("tokenExpiry", claims.ExpiresAt.Time) // Remaining lifetime for the denylist TTL
		} else {
			c.Set("tokenExpiry", time.Now().Add(utils.TokenLifetime)) // Fallback expiry
		}
		c.Next() // Proceed to the next handler
	}
}
