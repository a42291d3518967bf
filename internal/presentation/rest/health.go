package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/bibbank/bib/services/credit-risk-service/internal/artifact"
)

// HealthHandler provides HTTP health check endpoints for the service.
type HealthHandler struct {
	logger    *slog.Logger
	modelCtx  *artifact.Context
	startTime time.Time
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(modelCtx *artifact.Context, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		modelCtx:  modelCtx,
		startTime: time.Now(),
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// RegisterRoutes registers health endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "healthy",
		Service: "credit-risk-service",
		Uptime:  time.Since(h.startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Readyz handles readiness probe requests. Readiness follows the model
// context state machine: the service is ready only once the artifact has
// fully loaded.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	state := h.modelCtx.State()

	resp := ReadinessResponse{
		Status: "ready",
		Checks: map[string]string{"model": string(state)},
	}
	if err := h.modelCtx.LoadError(); err != nil {
		resp.Checks["model_error"] = err.Error()
	}

	status := http.StatusOK
	if state != artifact.StateReady {
		resp.Status = "not_ready"
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
