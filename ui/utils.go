package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"digitpad/internal/errors"
)

// statusFor maps an application error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInvalidInput, errors.CodeValidationError:
		return http.StatusBadRequest
	case errors.CodeExternalService, errors.CodeInvalidResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes it as a JSON error body.
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Debug("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
