package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/avidya-edu/academy-cms-gateway/internal/middleware"
	"github.com/avidya-edu/academy-cms-gateway/internal/service"
)

// actorFromContext builds the audit actor from the guarded session and the
// request metadata.
func actorFromContext(c *gin.Context) service.Actor {
	actor := service.Actor{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
	if session, ok := middleware.SessionFromContext(c); ok {
		actor.Username = session.Username
	}
	return actor
}
