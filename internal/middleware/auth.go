package middleware

import (
	"errors"
	"net/http"
	"strings"

	"FilmDB/internal/logging"
	"FilmDB/internal/pkg"
	"FilmDB/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

const ContextUserIDKey = "user_id"

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "fail", "message": msg})
}

// Auth accepts a bearer access token only while it is the user's live
// session in Redis, sliding the session expiry on success.
func Auth(tokens *pkg.TokenManager, sessions *redis.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "invalid authorization format")
			return
		}
		tokenStr := parts[1]

		claims, err := tokens.ParseAccess(tokenStr)
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}

		stored, err := sessions.Get(c.Request.Context(), claims.UserID)
		switch {
		case errors.Is(err, redis.ErrTokenNotFound):
			unauthorized(c, "session expired")
			return
		case err != nil:
			logging.Error().Err(err).Uint64("user_id", claims.UserID).Msg("session lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		case stored != tokenStr:
			unauthorized(c, "account signed in elsewhere")
			return
		}

		if err = sessions.Extend(c.Request.Context(), claims.UserID); err != nil {
			logging.Warn().Err(err).Uint64("user_id", claims.UserID).Msg("session extend failed")
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated user set by Auth.
func UserID(c *gin.Context) uint64 {
	return c.GetUint64(ContextUserIDKey)
}
