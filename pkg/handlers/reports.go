package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/auth"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/export"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/reporting"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/repositories"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/services"
)

// CreateReportRequest for POST /api/reports.
type CreateReportRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description" validate:"max=2000"`
	Type        string            `json:"type" validate:"required,max=64"`
	Format      string            `json:"format" validate:"required"`
	Filters     []models.Filter   `json:"filters" validate:"omitempty,dive"`
	TimeRange   *models.TimeRange `json:"timeRange"`
}

// PreviewReportRequest for POST /api/reports/preview.
type PreviewReportRequest struct {
	Type      string            `json:"type" validate:"required,max=64"`
	Filters   []models.Filter   `json:"filters" validate:"omitempty,dive"`
	TimeRange *models.TimeRange `json:"timeRange"`
	Seed      uint64            `json:"seed,omitempty"`
}

// Pagination describes where a listing page sits.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListReportsResponse is the data of GET /api/reports.
type ListReportsResponse struct {
	Reports    []*models.Report `json:"reports"`
	Pagination Pagination       `json:"pagination"`
}

// ExportReportResponse is returned instead of the file when download=false.
type ExportReportResponse struct {
	Report   *models.Report         `json:"report"`
	Artifact *models.ExportArtifact `json:"artifact"`
}

// ReportsHandler handles report CRUD, preview and export requests.
type ReportsHandler struct {
	reportService services.ReportService
	now           func() time.Time
	logger        *zap.Logger
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(reportService services.ReportService, logger *zap.Logger) *ReportsHandler {
	return &ReportsHandler{
		reportService: reportService,
		now:           time.Now,
		logger:        logger,
	}
}

// RegisterRoutes registers the reports handler's routes on the given mux.
func (h *ReportsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/reports", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/reports", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("POST /api/reports/preview", authMiddleware.RequireAuth(h.Preview))
	mux.HandleFunc("GET /api/reports/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("GET /api/reports/{id}/export", authMiddleware.RequireAuth(h.Export))
	mux.HandleFunc("DELETE /api/reports/{id}", authMiddleware.RequireAuth(h.Delete))
}

// List handles GET /api/reports
// Query: page, limit, type, status, search, sortBy, sortOrder.
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(r, "page", 1)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_page", "page must be a positive integer", h.logger)
		return
	}
	limit, ok := queryInt(r, "limit", repositories.DefaultReportPageSize)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer", h.logger)
		return
	}
	limit = min(limit, repositories.MaxReportPageSize)

	q := r.URL.Query()
	search := strings.TrimSpace(q.Get("search"))
	if result := CheckParameterForInjection("search", search); result != nil {
		h.logger.Warn("Rejected report search parameter",
			zap.String("fingerprint", result.Fingerprint),
			zap.String("remote_addr", r.RemoteAddr))
		writeError(w, http.StatusBadRequest, "invalid_search", "search contains disallowed characters", h.logger)
		return
	}

	sortOrder := q.Get("sortOrder")
	if sortOrder != "" && !strings.EqualFold(sortOrder, "asc") && !strings.EqualFold(sortOrder, "desc") {
		writeError(w, http.StatusBadRequest, "invalid_sort_order", "sortOrder must be asc or desc", h.logger)
		return
	}

	result, err := h.reportService.List(r.Context(), models.ReportFilter{
		Type:      models.ReportType(q.Get("type")),
		Status:    models.ReportStatus(q.Get("status")),
		Search:    search,
		SortBy:    q.Get("sortBy"),
		SortOrder: sortOrder,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to list reports", h.logger)
		return
	}

	reports := result.Reports
	if reports == nil {
		reports = []*models.Report{}
	}
	writeSuccess(w, http.StatusOK, ListReportsResponse{
		Reports: reports,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      result.Total,
			TotalPages: (result.Total + limit - 1) / limit,
		},
	}, h.logger)
}

// Create handles POST /api/reports
// Generates the report data and stores it as a published report.
func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		writeServiceError(w, err, "Failed to create report", h.logger)
		return
	}

	report, err := h.reportService.Create(r.Context(), services.CreateReportInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        models.ReportType(req.Type),
		Format:      format,
		Filters:     req.Filters,
		TimeRange:   req.TimeRange,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to create report", h.logger)
		return
	}

	h.logger.Info("Report created via API",
		zap.String("report_id", report.ID),
		zap.String("user_id", auth.GetUserIDFromContext(r.Context())))
	writeSuccess(w, http.StatusCreated, report, h.logger)
}

// Preview handles POST /api/reports/preview
// Generates data without persisting anything.
func (h *ReportsHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewReportRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	data, err := h.reportService.Preview(r.Context(), reporting.Options{
		Type:      models.ReportType(req.Type),
		Filters:   req.Filters,
		TimeRange: req.TimeRange,
		Seed:      req.Seed,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to generate report preview", h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, data, h.logger)
}

// Get handles GET /api/reports/{id}
func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseReportID(w, r, h.logger)
	if !ok {
		return
	}

	report, err := h.reportService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Failed to get report", h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, report, h.logger)
}

// Export handles GET /api/reports/{id}/export?format=pdf
// Streams the rendered file as an attachment. With download=false the
// artifact description is returned as JSON instead.
func (h *ReportsHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseReportID(w, r, h.logger)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" {
		f, err := export.ParseFormat(format)
		if err != nil {
			writeServiceError(w, err, "Failed to export report", h.logger)
			return
		}
		format = string(f)
	}

	report, artifact, err := h.reportService.Export(r.Context(), id, format)
	if err != nil {
		writeServiceError(w, err, "Failed to export report", h.logger)
		return
	}

	if download := r.URL.Query().Get("download"); download != "" {
		if v, perr := strconv.ParseBool(download); perr == nil && !v {
			writeSuccess(w, http.StatusOK, ExportReportResponse{Report: report, Artifact: artifact}, h.logger)
			return
		}
	}

	filename := DownloadFilename(report.Title, artifact.Format, h.now())
	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Content); err != nil {
		h.logger.Error("Failed to write export", zap.String("report_id", id), zap.Error(err))
	}
}

// Delete handles DELETE /api/reports/{id}
func (h *ReportsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseReportID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.reportService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "Failed to delete report", h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"id": id, "deleted": true}, h.logger)
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// DownloadFilename builds the attachment name {title}_{date}.{ext} with every
// character outside [a-zA-Z0-9] in the title replaced by "_".
func DownloadFilename(title string, f models.ExportFormat, day time.Time) string {
	base := unsafeFilenameChars.ReplaceAllString(title, "_")
	if base == "" {
		base = "report"
	}
	return fmt.Sprintf("%s_%s.%s", base, day.UTC().Format(models.DateLayout), f.Extension())
}
