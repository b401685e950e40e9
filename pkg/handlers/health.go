package handlers

import (
	"net/http"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/config"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/services"
)

// PingResponse contains service status and version information.
type PingResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Service     string `json:"service"`
	GoVersion   string `json:"go_version"`
	Hostname    string `json:"hostname"`
	Environment string `json:"environment"`
}

// HealthResponse reports liveness plus component health.
type HealthResponse struct {
	Status     string               `json:"status"`
	Components *models.SystemHealth `json:"components,omitempty"`
}

// HealthHandler handles health check and ping endpoints.
type HealthHandler struct {
	cfg       *config.Config
	dashboard services.DashboardService
	logger    *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. dashboard may be nil, in which
// case /health only reports liveness.
func NewHealthHandler(cfg *config.Config, dashboard services.DashboardService, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, dashboard: dashboard, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ping", h.Ping)
}

// Health handles GET /health requests.
// Storage is the only component the dashboard cannot work without, so a
// storage error is the only thing that turns the check into a 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{Status: "ok"}
	status := http.StatusOK

	if h.dashboard != nil {
		metrics, err := h.dashboard.Metrics(r.Context())
		if err == nil && metrics != nil {
			response.Components = &metrics.SystemHealth
			switch {
			case metrics.SystemHealth.Storage == models.HealthError:
				response.Status = "unavailable"
				status = http.StatusServiceUnavailable
			case metrics.SystemHealth.Database != models.HealthHealthy,
				metrics.SystemHealth.Redis != models.HealthHealthy:
				response.Status = "degraded"
			}
		}
	}

	if err := WriteJSON(w, status, response); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
	}
}

// Ping handles GET /ping requests.
// Returns detailed service information including version and environment.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	hostname, err := os.Hostname()
	if err != nil {
		http.Error(w, "failed to get hostname", http.StatusInternalServerError)
		return
	}

	response := PingResponse{
		Status:      "ok",
		Version:     h.cfg.Version,
		Service:     "metricnex-dashboard",
		GoVersion:   runtime.Version(),
		Hostname:    hostname,
		Environment: h.cfg.Env,
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode ping response", zap.Error(err))
	}
}
