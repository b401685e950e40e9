package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/auth"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/services"
)

// DashboardHandler serves the landing-page metrics and the data quality
// overview.
type DashboardHandler struct {
	dashboardService services.DashboardService
	qualityService   services.QualityService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboardService services.DashboardService, qualityService services.QualityService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		qualityService:   qualityService,
		logger:           logger,
	}
}

// RegisterRoutes registers the dashboard handler's routes on the given mux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/dashboard/metrics", authMiddleware.RequireAuth(h.Metrics))
	mux.HandleFunc("GET /api/quality/overview", authMiddleware.RequireAuth(h.QualityOverview))
}

// Metrics handles GET /api/dashboard/metrics
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dashboardService.Metrics(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to load dashboard metrics", h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, metrics, h.logger)
}

// QualityOverview handles GET /api/quality/overview
func (h *DashboardHandler) QualityOverview(w http.ResponseWriter, r *http.Request) {
	report, err := h.qualityService.Overview(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to build quality overview", h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, report, h.logger)
}
