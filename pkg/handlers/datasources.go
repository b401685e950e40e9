package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/auth"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/providers"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/services"
)

// CreateDatasourceRequest for POST body.
type CreateDatasourceRequest struct {
	Name   string                  `json:"name" validate:"required,max=200"`
	Type   string                  `json:"type" validate:"required,max=64"`
	Config models.ConnectionConfig `json:"config"`
}

// UpdateDatasourceRequest for PUT body. Absent fields are left unchanged and
// config keys are merged.
type UpdateDatasourceRequest struct {
	Name   *string                 `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Type   *string                 `json:"type,omitempty" validate:"omitempty,min=1,max=64"`
	Config models.ConnectionConfig `json:"config,omitempty"`
}

// DeleteDatasourceResponse for delete result.
type DeleteDatasourceResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// DatasourcesHandler handles data source and provider catalog requests.
type DatasourcesHandler struct {
	datasourceService services.DatasourceService
	logger            *zap.Logger
}

// NewDatasourcesHandler creates a new datasources handler.
func NewDatasourcesHandler(datasourceService services.DatasourceService, logger *zap.Logger) *DatasourcesHandler {
	return &DatasourcesHandler{
		datasourceService: datasourceService,
		logger:            logger,
	}
}

// RegisterRoutes registers the datasources handler's routes on the given mux.
func (h *DatasourcesHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/providers", authMiddleware.RequireAuth(h.Providers))
	mux.HandleFunc("GET /api/data-sources", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/data-sources", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/data-sources/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PUT /api/data-sources/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/data-sources/{id}", authMiddleware.RequireRole(auth.RoleAdmin, h.Delete))
	mux.HandleFunc("POST /api/data-sources/{id}/test", authMiddleware.RequireAuth(h.Test))
}

// Providers handles GET /api/providers
// Returns the provider catalog with each provider's field definitions.
func (h *DatasourcesHandler) Providers(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, providers.Catalog(), h.logger)
}

// List handles GET /api/data-sources
// Secrets are always masked.
func (h *DatasourcesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.datasourceService.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to list data sources", h.logger)
		return
	}
	if list == nil {
		list = []*models.DataSource{}
	}
	writeSuccess(w, http.StatusOK, list, h.logger)
}

// Get handles GET /api/data-sources/{id}
// Pass includeSecrets=true to receive unmasked secrets (admin role only).
func (h *DatasourcesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "invalid_datasource_id", h.logger)
	if !ok {
		return
	}

	includeSecrets := queryBool(r, "includeSecrets")
	if includeSecrets && !auth.HasRole(r.Context(), auth.RoleAdmin) {
		_ = ErrorResponse(w, http.StatusForbidden, "forbidden", "Revealing secrets requires the admin role")
		return
	}
	ds, err := h.datasourceService.Get(r.Context(), id, includeSecrets)
	if err != nil {
		writeServiceError(w, err, "Failed to get data source", h.logger)
		return
	}

	if includeSecrets {
		h.logger.Info("Data source secrets revealed",
			zap.String("datasource_id", id),
			zap.String("user_id", auth.GetUserIDFromContext(r.Context())))
	}
	writeSuccess(w, http.StatusOK, ds, h.logger)
}

// Create handles POST /api/data-sources
func (h *DatasourcesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDatasourceRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	ds, err := h.datasourceService.Create(r.Context(), req.Name, req.Type, req.Config)
	if err != nil {
		writeServiceError(w, err, "Failed to create data source", h.logger)
		return
	}
	writeSuccess(w, http.StatusCreated, ds, h.logger)
}

// Update handles PUT /api/data-sources/{id}
func (h *DatasourcesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "invalid_datasource_id", h.logger)
	if !ok {
		return
	}

	var req UpdateDatasourceRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	ds, err := h.datasourceService.Update(r.Context(), id, &models.DataSourcePatch{
		Name:   req.Name,
		Type:   req.Type,
		Config: req.Config,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to update data source", h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, ds, h.logger)
}

// Delete handles DELETE /api/data-sources/{id}
func (h *DatasourcesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "invalid_datasource_id", h.logger)
	if !ok {
		return
	}

	if err := h.datasourceService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "Failed to delete data source", h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, DeleteDatasourceResponse{ID: id, Deleted: true}, h.logger)
}

// Test handles POST /api/data-sources/{id}/test
// A failed validation is still a 200: the result carries status "failed" and
// the individual checks. Pass live=true to probe the provider's API.
func (h *DatasourcesHandler) Test(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "invalid_datasource_id", h.logger)
	if !ok {
		return
	}

	result, err := h.datasourceService.Test(r.Context(), id, queryBool(r, "live"))
	if err != nil {
		writeServiceError(w, err, "Failed to test data source", h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, result, h.logger)
}
