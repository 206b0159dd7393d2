package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"digitpad/domain/core"
)

// SessionKey is the gin context key holding the resolved session.
const SessionKey = "session"

// RequireSession resolves the :id path parameter through lookup and stores
// the session under SessionKey. Malformed IDs answer 400, unknown ones 404.
func RequireSession[S any](lookup func(core.SessionID) (S, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := core.ParseSessionID(c.Param("id"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		session, err := lookup(id)
		if err != nil {
			if errors.Is(err, core.ErrSessionNotFound) {
				log.Printf("[RequireSession] session %s not found", id)
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "session not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Set(SessionKey, session)
		c.Next()
	}
}
