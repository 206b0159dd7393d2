package ui

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"digitpad/domain/sketch"
	"digitpad/ui/templates/fragments"
)

// eventsRequest is the body of POST /api/sessions/:id/events.
type eventsRequest struct {
	Events []sketch.Event `json:"events"`
}

// handleIndex creates a session and serves the sketch pad page for it
func (s *Server) handleIndex(c *gin.Context) {
	session, err := s.sessions.Create()
	if err != nil {
		s.respondError(c, err)
		return
	}
	width, height := session.Size()
	s.renderTemplate(c, http.StatusOK, fragments.IndexPage, indexData{
		SessionID: session.ID.String(),
		Width:     width,
		Height:    height,
		Rows:      session.Rows(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"health": "ok"})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	session, err := s.sessions.Create()
	if err != nil {
		s.respondError(c, err)
		return
	}
	width, height := session.Size()
	c.JSON(http.StatusCreated, gin.H{
		"id":     session.ID.String(),
		"width":  width,
		"height": height,
	})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	session := sessionFrom(c)
	if err := s.sessions.Remove(session.ID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleEvents replays a batch of pointer events on the session's pad.
// Events before an unknown one stay applied.
func (s *Server) handleEvents(c *gin.Context) {
	session := sessionFrom(c)

	var req eventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid events payload: " + err.Error()})
		return
	}

	applied, err := session.Apply(req.Events)
	if err != nil {
		if stderrors.Is(err, sketch.ErrUnknownEvent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "applied": applied})
			return
		}
		s.respondError(c, err)
		return
	}
	s.logger.Trace("session %s: applied %d events", session.ID, applied)

	c.JSON(http.StatusOK, gin.H{
		"applied":  applied,
		"dragging": session.Dragging(),
	})
}

func (s *Server) handleClear(c *gin.Context) {
	session := sessionFrom(c)
	session.Clear()
	c.Status(http.StatusNoContent)
}

// handleCanvas serves the current drawing as PNG
func (s *Server) handleCanvas(c *gin.Context) {
	session := sessionFrom(c)
	data, err := session.PNG()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", data)
}
