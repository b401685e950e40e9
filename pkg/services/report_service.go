package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/apperrors"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/reporting"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/repositories"
)

// ReportGenerator produces report data. Implemented by reporting.Generator.
type ReportGenerator interface {
	Generate(ctx context.Context, opts reporting.Options) (*models.ReportData, error)
}

// ReportExporter renders and stores a report. Implemented by export.Exporter.
type ReportExporter interface {
	Export(ctx context.Context, report *models.Report, format string) (*models.ExportArtifact, error)
}

// CreateReportInput describes a report to generate and persist.
type CreateReportInput struct {
	Title       string
	Description string
	Type        models.ReportType
	Format      models.ExportFormat
	Filters     []models.Filter
	TimeRange   *models.TimeRange
}

// ReportService defines the interface for report operations.
type ReportService interface {
	// Create generates data for input and persists it as a published report.
	Create(ctx context.Context, input CreateReportInput) (*models.Report, error)

	// Get returns a report with its data, from cache when possible.
	Get(ctx context.Context, id string) (*models.Report, error)

	// List returns one page of persisted reports.
	List(ctx context.Context, filter models.ReportFilter) (*models.ReportPage, error)

	// Export renders the report in format, or in its stored format when
	// format is empty, and records the artifact on the report.
	Export(ctx context.Context, id, format string) (*models.Report, *models.ExportArtifact, error)

	// Preview generates data without persisting anything.
	Preview(ctx context.Context, opts reporting.Options) (*models.ReportData, error)

	// Delete removes a report and its cache entry.
	Delete(ctx context.Context, id string) error
}

type reportService struct {
	repo      repositories.ReportRepository // nil when no database is configured
	cache     repositories.ReportCache
	generator ReportGenerator
	exporter  ReportExporter
	now       func() time.Time
	logger    *zap.Logger
}

var _ ReportService = (*reportService)(nil)

// NewReportService creates a report service. repo may be nil, in which case
// only Preview works and everything else returns apperrors.ErrUnavailable.
func NewReportService(
	repo repositories.ReportRepository,
	cache repositories.ReportCache,
	generator ReportGenerator,
	exporter ReportExporter,
	logger *zap.Logger,
) ReportService {
	return &reportService{
		repo:      repo,
		cache:     cache,
		generator: generator,
		exporter:  exporter,
		now:       time.Now,
		logger:    logger.Named("report-service"),
	}
}

func (s *reportService) requireStore() error {
	if s.repo == nil {
		return fmt.Errorf("%w: report store is not configured", apperrors.ErrUnavailable)
	}
	return nil
}

func (s *reportService) Create(ctx context.Context, input CreateReportInput) (*models.Report, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || input.Type == "" || input.Format == "" {
		return nil, fmt.Errorf("%w: title, type and format are required", apperrors.ErrInvalidInput)
	}

	data, err := s.generator.Generate(ctx, reporting.Options{
		Type:      input.Type,
		Filters:   input.Filters,
		TimeRange: input.TimeRange,
	})
	if err != nil {
		return nil, err
	}

	filters := input.Filters
	if filters == nil {
		filters = []models.Filter{}
	}
	report := &models.Report{
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Format:      input.Format,
		Status:      models.ReportStatusPublished,
		Data:        data,
		Metadata: models.ReportMetadata{
			GeneratedAt:   s.now().UTC(),
			TimeRange:     s.effectiveRange(input.TimeRange),
			Filters:       filters,
			TotalRecords:  len(data.Records),
			ExecutionTime: data.ExecutionTime,
			Version:       models.ReportVersion,
		},
	}

	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("Created report",
		zap.String("report_id", report.ID),
		zap.String("type", string(report.Type)),
		zap.Int("records", report.Metadata.TotalRecords))

	return report, nil
}

// effectiveRange reports the window the generator used.
func (s *reportService) effectiveRange(tr *models.TimeRange) models.TimeRange {
	today := s.now().UTC()
	out := models.TimeRange{
		Start: today.AddDate(0, 0, -reporting.DefaultWindowDays).Format(models.DateLayout),
		End:   today.Format(models.DateLayout),
	}
	if tr == nil {
		return out
	}
	if tr.Start != "" {
		out.Start = tr.Start
	}
	if tr.End != "" {
		out.End = tr.End
	}
	if out.Start > out.End {
		out.Start, out.End = out.End, out.Start
	}
	return out
}

func (s *reportService) Get(ctx context.Context, id string) (*models.Report, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}

	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.Warn("Report cache read failed", zap.String("report_id", id), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	report, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, report); err != nil {
		s.logger.Warn("Report cache write failed", zap.String("report_id", id), zap.Error(err))
	}
	return report, nil
}

func (s *reportService) List(ctx context.Context, filter models.ReportFilter) (*models.ReportPage, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

func (s *reportService) Export(ctx context.Context, id, format string) (*models.Report, *models.ExportArtifact, error) {
	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if format == "" {
		format = string(report.Format)
	}

	artifact, err := s.exporter.Export(ctx, report, format)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.UpdateArtifact(ctx, id, artifact.Format, artifact.FilePath, artifact.Size); err != nil {
		return nil, nil, err
	}
	report.Format = artifact.Format
	report.FilePath = artifact.FilePath
	report.FileSize = artifact.Size

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("Report cache invalidation failed", zap.String("report_id", id), zap.Error(err))
	}

	return report, artifact, nil
}

func (s *reportService) Preview(ctx context.Context, opts reporting.Options) (*models.ReportData, error) {
	if opts.Type == "" {
		return nil, fmt.Errorf("%w: report type is required", apperrors.ErrInvalidInput)
	}
	return s.generator.Generate(ctx, opts)
}

func (s *reportService) Delete(ctx context.Context, id string) error {
	if err := s.requireStore(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("Report cache invalidation failed", zap.String("report_id", id), zap.Error(err))
	}
	s.logger.Info("Deleted report", zap.String("report_id", id))
	return nil
}
