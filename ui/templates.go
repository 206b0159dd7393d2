package ui

import (
	"bytes"

	"github.com/gin-gonic/gin"

	"digitpad/domain/prediction"
	"digitpad/internal/errors"
)

// indexData feeds the index page template.
type indexData struct {
	SessionID string
	Width     int
	Height    int
	Rows      []prediction.Row
}

// render executes a template into a buffer so errors surface before any
// bytes reach the client.
func (s *Server) render(templateName string, data interface{}) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		return nil, errors.Wrapf(err, "template %s", templateName)
	}
	return &buf, nil
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	buf, err := s.render(templateName, data)
	if err != nil {
		s.logger.Error("Template error for %s: %v", templateName, err)
		s.logger.Debug("Template data type: %T", data)
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Warn("Error writing template response: %v", err)
	}
}
