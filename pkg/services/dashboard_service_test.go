package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/export"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/repositories"
)

func newDashboardFixture(t *testing.T, reports repositories.ReportRepository, cache repositories.ReportCache, artifacts *stubArtifacts) (*dashboardService, repositories.ScheduleRepository, repositories.DatasourceRepository) {
	t.Helper()
	dir := t.TempDir()
	schedules := repositories.NewScheduleRepository(dir, zap.NewNop())
	datasources := repositories.NewDatasourceRepository(dir, nil, zap.NewNop())
	svc := NewDashboardService(reports, cache, schedules, datasources, artifacts, zap.NewNop()).(*dashboardService)
	return svc, schedules, datasources
}

func TestDashboardService_MetricsFromStores(t *testing.T) {
	ctx := context.Background()
	reports := newMockReportRepo()
	require.NoError(t, reports.Create(ctx, &models.Report{Title: "a"}))
	require.NoError(t, reports.Create(ctx, &models.Report{Title: "b"}))

	svc, schedules, datasources := newDashboardFixture(t, reports, newMockReportCache(), &stubArtifacts{})

	require.NoError(t, schedules.Create(ctx, &models.Schedule{Name: "on", Cron: "@daily", IsActive: true}))
	require.NoError(t, schedules.Create(ctx, &models.Schedule{Name: "off", Cron: "@daily"}))
	_, err := datasources.Create(ctx, "Shop", "shopify", nil)
	require.NoError(t, err)

	m, err := svc.Metrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, m.TotalReports)
	assert.Equal(t, 2, m.ReportsThisMonth)
	assert.Equal(t, 1, m.ActiveScheduledReports)
	assert.Equal(t, 1, m.TotalDataSources)
	assert.Equal(t, models.SystemHealth{
		Database: models.HealthHealthy,
		Redis:    models.HealthHealthy,
		Storage:  models.HealthHealthy,
	}, m.SystemHealth)
}

func TestDashboardService_FallsBackToArtifactsWithoutDatabase(t *testing.T) {
	now := time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC)
	artifacts := &stubArtifacts{files: []export.ArtifactInfo{
		{Path: "reports/pdf/a_2026-07-02.pdf", ModTime: now.AddDate(0, 0, -3)},
		{Path: "reports/json/b_2026-06-02.json", ModTime: now.AddDate(0, -1, 0)},
		{Path: "reports/html/c_2026-07-19.html", ModTime: now.AddDate(0, 0, -1)},
	}}

	svc, _, _ := newDashboardFixture(t, nil, repositories.NewReportCache(nil, 0, zap.NewNop()), artifacts)
	svc.now = func() time.Time { return now }

	m, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.HealthError, m.SystemHealth.Database)
	assert.Equal(t, models.HealthWarning, m.SystemHealth.Redis, "unconfigured cache is a warning")
	assert.Equal(t, 3, m.TotalReports)
	assert.Equal(t, 2, m.ReportsThisMonth)
}

func TestDashboardService_DatabaseErrorFallsBack(t *testing.T) {
	reports := newMockReportRepo()
	reports.countErr = errBoom
	artifacts := &stubArtifacts{files: []export.ArtifactInfo{{Path: "reports/pdf/a.pdf", ModTime: time.Now()}}}

	svc, _, _ := newDashboardFixture(t, reports, newMockReportCache(), artifacts)

	m, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.HealthError, m.SystemHealth.Database)
	assert.Equal(t, 1, m.TotalReports)
}

func TestDashboardService_RedisAndStorageFailures(t *testing.T) {
	cache := newMockReportCache()
	cache.pingErr = errBoom

	svc, _, _ := newDashboardFixture(t, newMockReportRepo(), cache, &stubArtifacts{healthErr: errBoom})

	m, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.HealthHealthy, m.SystemHealth.Database)
	assert.Equal(t, models.HealthError, m.SystemHealth.Redis)
	assert.Equal(t, models.HealthError, m.SystemHealth.Storage)
}
