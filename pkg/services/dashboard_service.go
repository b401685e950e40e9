package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/export"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/repositories"
)

// ArtifactLister is the slice of export.ArtifactStore the dashboard reads.
type ArtifactLister interface {
	List() ([]export.ArtifactInfo, error)
	HealthCheck() error
}

// DashboardService aggregates the landing-page metrics.
type DashboardService interface {
	Metrics(ctx context.Context) (*models.DashboardMetrics, error)
}

type dashboardService struct {
	reports     repositories.ReportRepository // nil when no database is configured
	cache       repositories.ReportCache
	schedules   repositories.ScheduleRepository
	datasources repositories.DatasourceRepository
	artifacts   ArtifactLister
	now         func() time.Time
	logger      *zap.Logger
}

var _ DashboardService = (*dashboardService)(nil)

func NewDashboardService(
	reports repositories.ReportRepository,
	cache repositories.ReportCache,
	schedules repositories.ScheduleRepository,
	datasources repositories.DatasourceRepository,
	artifacts ArtifactLister,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{
		reports:     reports,
		cache:       cache,
		schedules:   schedules,
		datasources: datasources,
		artifacts:   artifacts,
		now:         time.Now,
		logger:      logger.Named("dashboard-service"),
	}
}

// Metrics never fails: every collaborator problem is reported through
// SystemHealth and leaves the affected counter at its fallback value.
func (s *dashboardService) Metrics(ctx context.Context) (*models.DashboardMetrics, error) {
	m := &models.DashboardMetrics{
		SystemHealth: models.SystemHealth{
			Database: models.HealthHealthy,
			Redis:    models.HealthHealthy,
			Storage:  models.HealthHealthy,
		},
	}

	if err := s.countReports(ctx, m); err != nil {
		s.logger.Warn("Report store unavailable, counting artifacts on disk", zap.Error(err))
		m.SystemHealth.Database = models.HealthError
		s.countArtifacts(m)
	}

	if n, err := s.schedules.CountActive(ctx); err != nil {
		s.logger.Warn("Failed to count active schedules", zap.Error(err))
	} else {
		m.ActiveScheduledReports = n
	}

	if list, err := s.datasources.List(ctx); err != nil {
		s.logger.Warn("Failed to count data sources", zap.Error(err))
	} else {
		m.TotalDataSources = len(list)
	}

	switch err := s.cache.Ping(ctx); {
	case errors.Is(err, repositories.ErrCacheDisabled):
		m.SystemHealth.Redis = models.HealthWarning
	case err != nil:
		s.logger.Warn("Redis ping failed", zap.Error(err))
		m.SystemHealth.Redis = models.HealthError
	}

	if err := s.artifacts.HealthCheck(); err != nil {
		s.logger.Warn("Storage health check failed", zap.Error(err))
		m.SystemHealth.Storage = models.HealthError
	}

	return m, nil
}

func (s *dashboardService) countReports(ctx context.Context, m *models.DashboardMetrics) error {
	if s.reports == nil {
		return errors.New("report store is not configured")
	}
	total, err := s.reports.Count(ctx)
	if err != nil {
		return err
	}
	month, err := s.reports.CountSince(ctx, startOfMonth(s.now()))
	if err != nil {
		return err
	}
	m.TotalReports = total
	m.ReportsThisMonth = month
	return nil
}

// countArtifacts derives report counts from export files.
func (s *dashboardService) countArtifacts(m *models.DashboardMetrics) {
	files, err := s.artifacts.List()
	if err != nil {
		s.logger.Warn("Failed to list artifacts", zap.Error(err))
		return
	}
	since := startOfMonth(s.now())
	m.TotalReports = len(files)
	for _, f := range files {
		if !f.ModTime.Before(since) {
			m.ReportsThisMonth++
		}
	}
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
