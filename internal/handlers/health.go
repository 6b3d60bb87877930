package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/models"
)

// Check is a named dependency probe used by the health endpoints
type Check struct {
	Name string
	// Critical checks also gate readiness
	Critical bool
	Probe    func(ctx context.Context) error
}

// HealthHandlers serves the health, liveness and readiness probes
type HealthHandlers struct {
	checks  []Check
	timeout time.Duration
}

// NewHealthHandlers creates health handlers over the given checks
func NewHealthHandlers(checks ...Check) *HealthHandlers {
	return &HealthHandlers{
		checks:  checks,
		timeout: 2 * time.Second,
	}
}

// Register mounts the probe routes on mux
func (h *HealthHandlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", h.Health)
	mux.HandleFunc("/healthz", h.Liveness) // Kubernetes liveness probe
	mux.HandleFunc("/readyz", h.Readiness) // Kubernetes readiness probe
}

// Health reports the status of every dependency
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{}, len(h.checks))

	for _, c := range h.checks {
		if err := c.Probe(ctx); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks[c.Name] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			continue
		}
		checks[c.Name] = map[string]interface{}{
			"status": "healthy",
		}
	}

	writeJSON(w, httpStatus, models.HealthStatus{
		Status:    status,
		Timestamp: time.Now().Unix(),
		Checks:    checks,
	})
}

// Liveness returns 200 while the process is running; it checks no dependencies
func (h *HealthHandlers) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthStatus{
		Status:    "alive",
		Timestamp: time.Now().Unix(),
	})
}

// Readiness returns 200 once every critical dependency answers
func (h *HealthHandlers) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	for _, c := range h.checks {
		if !c.Critical {
			continue
		}
		if err := c.Probe(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, models.HealthStatus{
				Status:    "not_ready",
				Reason:    c.Name + "_unavailable",
				Timestamp: time.Now().Unix(),
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, models.HealthStatus{
		Status:    "ready",
		Timestamp: time.Now().Unix(),
	})
}
