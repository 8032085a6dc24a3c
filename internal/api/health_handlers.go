package api

import (
	"context"
	"net/http"
	"time"

	"github.com/sanctumapp/sanctum-server/internal/http/response"
)

// ComponentHealth reports the state of a single dependency.
type ComponentHealth struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitzero"`
	Message string `json:"message,omitzero"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
}

// handleHealthCheck probes the persistent store and reports overall health.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	components := map[string]ComponentHealth{
		"database": s.checkDatabase(r.Context()),
	}

	overall := "healthy"
	status := http.StatusOK
	for _, c := range components {
		if c.Status != "healthy" {
			overall = "unhealthy"
			status = http.StatusServiceUnavailable
			break
		}
	}

	response.JSON(w, status, HealthResponse{
		Status:     overall,
		Timestamp:  time.Now().UTC(),
		Components: components,
	}, s.logger)
}

func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	start := time.Now()
	if _, err := s.store.ComplianceStatus(ctx); err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: time.Since(start).String(),
			Message: err.Error(),
		}
	}
	return ComponentHealth{
		Status:  "healthy",
		Latency: time.Since(start).String(),
	}
}
