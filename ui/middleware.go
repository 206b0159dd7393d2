package ui

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"digitpad/app"
	"digitpad/ui/middleware"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	staticFS, err := fs.Sub(s.assets, "static")
	if err != nil {
		s.logger.Error("Error creating static filesystem: %v", err)
		return
	}
	s.logger.Debug("Serving static files from embedded FS at /static")
	s.router.StaticFS("/static", http.FS(staticFS))
}

// loadSession resolves the session named in the path for the /api/sessions/:id group.
func (s *Server) loadSession(c *gin.Context) {
	middleware.RequireSession(s.sessions.Get)(c)
}

// sessionFrom returns the session stored by loadSession.
func sessionFrom(c *gin.Context) *app.Session {
	return c.MustGet(middleware.SessionKey).(*app.Session)
}
