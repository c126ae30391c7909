package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avidya-edu/academy-cms-gateway/internal/models"
	apperrors "github.com/avidya-edu/academy-cms-gateway/pkg/errors"
	"github.com/avidya-edu/academy-cms-gateway/pkg/response"
)

// Context keys set by the session guard.
const (
	ContextSessionKey  = "session"
	ContextUsernameKey = "username"
)

// SessionValidator checks bearer tokens; satisfied by the session service.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*models.Session, error)
}

// SessionGuard protects the admin surface. Requests without a valid session
// are rejected before any handler runs.
func SessionGuard(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		session, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, session)
		c.Set(ContextUsernameKey, session.Username)
		c.Next()
	}
}

// SessionFromContext returns the session placed by the guard.
func SessionFromContext(c *gin.Context) (*models.Session, bool) {
	value, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil, false
	}
	session, ok := value.(*models.Session)
	return session, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
