package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/auth"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/services"
)

// CreateScheduleRequest for POST /api/schedules.
type CreateScheduleRequest struct {
	Name     string                `json:"name" validate:"required,max=200"`
	Cron     string                `json:"cron" validate:"required"`
	IsActive *bool                 `json:"isActive"`
	Task     models.ScheduleTask   `json:"task"`
	Notify   models.ScheduleNotify `json:"notify"`
}

// SchedulesHandler handles scheduled report requests.
type SchedulesHandler struct {
	scheduleService services.ScheduleService
	logger          *zap.Logger
}

// NewSchedulesHandler creates a new schedules handler.
func NewSchedulesHandler(scheduleService services.ScheduleService, logger *zap.Logger) *SchedulesHandler {
	return &SchedulesHandler{
		scheduleService: scheduleService,
		logger:          logger,
	}
}

// RegisterRoutes registers the schedules handler's routes on the given mux.
func (h *SchedulesHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/schedules", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/schedules", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("DELETE /api/schedules/{id}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("POST /api/schedules/{id}/test-run", authMiddleware.RequireAuth(h.TestRun))
}

// List handles GET /api/schedules
func (h *SchedulesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.scheduleService.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to list schedules", h.logger)
		return
	}
	if list == nil {
		list = []*models.Schedule{}
	}
	writeSuccess(w, http.StatusOK, list, h.logger)
}

// Create handles POST /api/schedules
// Schedules are active unless isActive is explicitly false.
func (h *SchedulesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateScheduleRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	sch, err := h.scheduleService.Create(r.Context(), &models.Schedule{
		Name:     req.Name,
		Cron:     req.Cron,
		IsActive: active,
		Task:     req.Task,
		Notify:   req.Notify,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to create schedule", h.logger)
		return
	}
	writeSuccess(w, http.StatusCreated, sch, h.logger)
}

// Delete handles DELETE /api/schedules/{id}
func (h *SchedulesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "invalid_schedule_id", h.logger)
	if !ok {
		return
	}

	if err := h.scheduleService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "Failed to delete schedule", h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"id": id, "deleted": true}, h.logger)
}

// TestRun handles POST /api/schedules/{id}/test-run
// Runs the schedule immediately, outside its cron timing.
func (h *SchedulesHandler) TestRun(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "invalid_schedule_id", h.logger)
	if !ok {
		return
	}

	run, err := h.scheduleService.RunNow(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Failed to run schedule", h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, run, h.logger)
}
