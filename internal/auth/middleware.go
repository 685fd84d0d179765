package auth

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const actorKey = "actor"

// Middleware extracts the caller's identity from the Authorization header
// (Bearer <user-id>) and injects an Actor into the gin context. Requests
// without a valid identity proceed without one; mutating handlers reject
// them via ActorFromContext.
func Middleware(authService *AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		userID, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || userID == "" {
			slog.Warn("malformed authorization header", "length", len(authHeader))
			c.Next()
			return
		}

		userCtx, err := authService.GetUserContext(userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				slog.Error("user context lookup failed", "user_id", userID, "error", err)
			}
			c.Next()
			return
		}

		c.Set(actorKey, Actor{UserID: userCtx.UserID, Role: userCtx.Role})
		c.Next()
	}
}

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(c *gin.Context) (Actor, bool) {
	value, exists := c.Get(actorKey)
	if !exists {
		return Actor{}, false
	}
	actor, ok := value.(Actor)
	return actor, ok
}
