package ui

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"digitpad/ports"
	"digitpad/ui/templates/fragments"
)

// staleHeader marks a predict response that was superseded by a newer request.
const staleHeader = "X-Predict-Stale"

// handlePredict sends the session drawing to the model server. Browsers get
// the result table rows as an HTML fragment; JSON clients get the scores.
func (s *Server) handlePredict(c *gin.Context) {
	session := sessionFrom(c)

	outcome, err := s.predictor.Predict(c.Request.Context(), session)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if !outcome.Applied {
		c.Header(staleHeader, "true")
		c.Status(http.StatusNoContent)
		return
	}

	if wantsJSON(c) {
		body := gin.H{
			"seq":    outcome.Seq,
			"result": []float64(outcome.Result),
			"rows":   outcome.Rows,
		}
		if label, score, ok := outcome.Result.Top(); ok {
			body["top"] = gin.H{"label": label, "score": score}
		}
		c.JSON(http.StatusOK, body)
		return
	}

	s.renderTemplate(c, http.StatusOK, fragments.ResultRows, outcome.Rows)
}

// handleModel reports model server health and the current model tag.
func (s *Server) handleModel(c *gin.Context) {
	if s.inspector == nil {
		c.JSON(http.StatusOK, ports.ModelInfo{Tag: "unknown"})
		return
	}

	ctx := c.Request.Context()
	info := ports.ModelInfo{Healthy: true}
	if err := s.inspector.Health(ctx); err != nil {
		s.logger.Warn("model server health check failed: %v", err)
		info.Healthy = false
		c.JSON(http.StatusBadGateway, info)
		return
	}

	tag, err := s.inspector.CurrentModel(ctx)
	if err != nil {
		s.respondError(c, err)
		return
	}
	info.Tag = tag
	c.JSON(http.StatusOK, info)
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
