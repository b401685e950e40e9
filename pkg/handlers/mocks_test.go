package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/auth"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/reporting"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/services"
)

// testAuthMiddleware returns middleware with verification disabled, so every
// request runs as the local development user.
func testAuthMiddleware(t *testing.T) *auth.Middleware {
	t.Helper()
	svc, err := auth.NewAuthService(auth.Config{EnableVerification: false}, zap.NewNop())
	require.NoError(t, err)
	return auth.NewMiddleware(svc, zap.NewNop())
}

type mockDatasourceService struct {
	list   []*models.DataSource
	ds     *models.DataSource
	result *models.ValidationResult
	err    error

	lastID             string
	lastIncludeSecrets bool
	lastLive           bool
	lastPatch          *models.DataSourcePatch
	lastCreateName     string
	lastCreateType     string
	lastCreateConfig   models.ConnectionConfig
}

var _ services.DatasourceService = (*mockDatasourceService)(nil)

func (m *mockDatasourceService) List(ctx context.Context) ([]*models.DataSource, error) {
	return m.list, m.err
}

func (m *mockDatasourceService) Get(ctx context.Context, id string, includeSecrets bool) (*models.DataSource, error) {
	m.lastID = id
	m.lastIncludeSecrets = includeSecrets
	if m.err != nil {
		return nil, m.err
	}
	return m.ds, nil
}

func (m *mockDatasourceService) Create(ctx context.Context, name, dsType string, cfg models.ConnectionConfig) (*models.DataSource, error) {
	m.lastCreateName, m.lastCreateType, m.lastCreateConfig = name, dsType, cfg
	if m.err != nil {
		return nil, m.err
	}
	return &models.DataSource{ID: "ds_new", Name: name, Type: dsType, Status: models.DataSourceStatusUnknown, LastSync: models.LastSyncNever, Config: cfg.Masked()}, nil
}

func (m *mockDatasourceService) Update(ctx context.Context, id string, patch *models.DataSourcePatch) (*models.DataSource, error) {
	m.lastID = id
	m.lastPatch = patch
	if m.err != nil {
		return nil, m.err
	}
	return m.ds, nil
}

func (m *mockDatasourceService) Delete(ctx context.Context, id string) error {
	m.lastID = id
	return m.err
}

func (m *mockDatasourceService) Test(ctx context.Context, id string, live bool) (*models.ValidationResult, error) {
	m.lastID = id
	m.lastLive = live
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockReportService struct {
	report   *models.Report
	page     *models.ReportPage
	artifact *models.ExportArtifact
	data     *models.ReportData
	err      error

	lastID     string
	lastFilter models.ReportFilter
	lastInput  services.CreateReportInput
	lastFormat string
	lastOpts   reporting.Options
	calls      int
}

var _ services.ReportService = (*mockReportService)(nil)

func (m *mockReportService) Create(ctx context.Context, input services.CreateReportInput) (*models.Report, error) {
	m.calls++
	m.lastInput = input
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockReportService) Get(ctx context.Context, id string) (*models.Report, error) {
	m.calls++
	m.lastID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockReportService) List(ctx context.Context, filter models.ReportFilter) (*models.ReportPage, error) {
	m.calls++
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.page, nil
}

func (m *mockReportService) Export(ctx context.Context, id, format string) (*models.Report, *models.ExportArtifact, error) {
	m.calls++
	m.lastID = id
	m.lastFormat = format
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.report, m.artifact, nil
}

func (m *mockReportService) Preview(ctx context.Context, opts reporting.Options) (*models.ReportData, error) {
	m.calls++
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}

func (m *mockReportService) Delete(ctx context.Context, id string) error {
	m.calls++
	m.lastID = id
	return m.err
}

type mockDashboardService struct {
	metrics *models.DashboardMetrics
	err     error
}

var _ services.DashboardService = (*mockDashboardService)(nil)

func (m *mockDashboardService) Metrics(ctx context.Context) (*models.DashboardMetrics, error) {
	return m.metrics, m.err
}

type mockQualityService struct {
	report *models.QualityReport
	err    error
}

var _ services.QualityService = (*mockQualityService)(nil)

func (m *mockQualityService) Overview(ctx context.Context) (*models.QualityReport, error) {
	return m.report, m.err
}

type mockScheduleService struct {
	list []*models.Schedule
	run  *models.ScheduleRun
	err  error

	created *models.Schedule
	lastID  string
}

var _ services.ScheduleService = (*mockScheduleService)(nil)

func (m *mockScheduleService) List(ctx context.Context) ([]*models.Schedule, error) {
	return m.list, m.err
}

func (m *mockScheduleService) Create(ctx context.Context, s *models.Schedule) (*models.Schedule, error) {
	m.created = s
	if m.err != nil {
		return nil, m.err
	}
	out := *s
	out.ID = "sch_new"
	return &out, nil
}

func (m *mockScheduleService) Delete(ctx context.Context, id string) error {
	m.lastID = id
	return m.err
}

func (m *mockScheduleService) RunNow(ctx context.Context, id string) (*models.ScheduleRun, error) {
	m.lastID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.run, nil
}

func (m *mockScheduleService) Start(ctx context.Context) error { return nil }

func (m *mockScheduleService) Stop() {}
