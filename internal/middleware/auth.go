// ================== internal/middleware/auth.go ==================
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adist/cinecircle/internal/config"
	"github.com/adist/cinecircle/internal/features/users"
	"github.com/adist/cinecircle/internal/pkg/response"
	"github.com/adist/cinecircle/internal/pkg/token"
)

// Auth validates the bearer token and loads the full user document, since
// almost every protected handler needs points/spam state, not just an ID.
func Auth(usersRepo *users.Repository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolveUser(c, usersRepo, cfg)
		if !ok {
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID.Hex())
		c.Next()
	}
}

// OptionalAuth loads the user when a valid token is present and silently
// continues anonymous otherwise.
func OptionalAuth(usersRepo *users.Repository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		claims, err := parseClaims(c, cfg)
		if err != nil {
			c.Next()
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		if user, err := usersRepo.GetByID(c.Request.Context(), userID); err == nil {
			c.Set("user", user)
			c.Set("userID", user.ID.Hex())
		}
		c.Next()
	}
}

func resolveUser(c *gin.Context, usersRepo *users.Repository, cfg *config.Config) (*users.User, bool) {
	if c.GetHeader("Authorization") == "" {
		response.Unauthorized(c, "Authorization header required", "AUTH_REQUIRED")
		return nil, false
	}

	claims, err := parseClaims(c, cfg)
	if err != nil {
		response.Unauthorized(c, "Invalid or expired token", "INVALID_TOKEN")
		return nil, false
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		response.Unauthorized(c, "Invalid or expired token", "INVALID_TOKEN")
		return nil, false
	}

	user, err := usersRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Unauthorized(c, "User not found", "USER_NOT_FOUND")
		return nil, false
	}

	return user, true
}

func parseClaims(c *gin.Context, cfg *config.Config) (*token.Claims, error) {
	authHeader := c.GetHeader("Authorization")

	// Support both "Bearer <token>" (case-insensitive) and a raw token.
	fields := strings.Fields(authHeader)
	tokenString := authHeader
	if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		tokenString = fields[1]
	}

	return token.ValidateToken(cfg.JWTSecret, tokenString)
}
