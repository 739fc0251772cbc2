package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/slopify/slopify-api/internal/infrastructure/metrics"
	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

// SessionCookie carries the signed session token.
const SessionCookie = "session"

const userIDKey = "user_id"

// SessionResolver maps a session token to a user id.
type SessionResolver interface {
	Resolve(token string) (string, bool)
}

// Session resolves the session cookie, when present, and stores the user id in
// the gin context. It never rejects a request.
func Session(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			metrics.RecordSession("absent")
			c.Next()
			return
		}

		userID, ok := resolver.Resolve(token)
		if !ok {
			metrics.RecordSession("invalid")
			c.Next()
			return
		}

		metrics.RecordSession("valid")
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// RequireSession rejects requests without a resolved session.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserIDFromContext(c) == "" {
			platformerrors.WriteUnauthorized(c, "Not authenticated")
			return
		}
		c.Next()
	}
}

// UserIDFromContext returns the session user id, or "" when anonymous.
func UserIDFromContext(c *gin.Context) string {
	return c.GetString(userIDKey)
}
