package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health is the body of the liveness and readiness endpoints.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
	Rules  map[string]int    `json:"rules,omitempty"`
	Pools  map[string]any    `json:"pools,omitempty"`
}

// GetLiveness handles GET /health/live.
func (s *Server) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, Health{Status: "ok"})
}

// GetReadiness handles GET /health/ready. The service is ready once the
// rule table has loaded.
func (s *Server) GetReadiness(c *gin.Context) {
	checks := make(map[string]string)
	health := Health{Status: "ok", Checks: checks}
	httpStatus := http.StatusOK

	table, err := s.svc.Rules().EnsureLoaded()
	if err != nil {
		checks["rules"] = "error"
		health.Status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["rules"] = "ok"
		health.Rules = table.Stats()
	}
	if s.pools != nil {
		health.Pools = s.pools.Metrics()
	}

	c.JSON(httpStatus, health)
}
