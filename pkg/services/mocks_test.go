package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/apperrors"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/export"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/reporting"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/repositories"
)

// mockReportRepo is an in-memory ReportRepository.
type mockReportRepo struct {
	mu       sync.Mutex
	reports  map[string]*models.Report
	gets     int
	countErr error
}

var _ repositories.ReportRepository = (*mockReportRepo)(nil)

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{reports: make(map[string]*models.Report)}
}

func (m *mockReportRepo) Create(ctx context.Context, r *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	m.reports[r.ID] = &cp
	return nil
}

func (m *mockReportRepo) Get(ctx context.Context, id string) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	r, ok := m.reports[id]
	if !ok {
		return nil, fmt.Errorf("%w: report %s", apperrors.ErrNotFound, id)
	}
	cp := *r
	return &cp, nil
}

func (m *mockReportRepo) List(ctx context.Context, filter models.ReportFilter) (*models.ReportPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	page := &models.ReportPage{Page: 1, Limit: 10}
	for _, r := range m.reports {
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		cp := *r
		cp.Data = nil
		page.Reports = append(page.Reports, &cp)
	}
	sort.Slice(page.Reports, func(i, j int) bool { return page.Reports[i].Title < page.Reports[j].Title })
	page.Total = len(page.Reports)
	return page, nil
}

func (m *mockReportRepo) UpdateArtifact(ctx context.Context, id string, format models.ExportFormat, filePath string, size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return fmt.Errorf("%w: report %s", apperrors.ErrNotFound, id)
	}
	r.Format = format
	r.FilePath = filePath
	r.FileSize = size
	return nil
}

func (m *mockReportRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[id]; !ok {
		return fmt.Errorf("%w: report %s", apperrors.ErrNotFound, id)
	}
	delete(m.reports, id)
	return nil
}

func (m *mockReportRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.reports), nil
}

func (m *mockReportRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	n := 0
	for _, r := range m.reports {
		if !r.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// mockReportCache is an in-memory ReportCache.
type mockReportCache struct {
	mu          sync.Mutex
	items       map[string]*models.Report
	invalidated []string
	pingErr     error
}

var _ repositories.ReportCache = (*mockReportCache)(nil)

func newMockReportCache() *mockReportCache {
	return &mockReportCache{items: make(map[string]*models.Report)}
}

func (c *mockReportCache) Get(ctx context.Context, id string) (*models.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (c *mockReportCache) Set(ctx context.Context, r *models.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *r
	c.items[r.ID] = &cp
	return nil
}

func (c *mockReportCache) Invalidate(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

func (c *mockReportCache) Ping(ctx context.Context) error {
	return c.pingErr
}

// stubGenerator returns fixed data.
type stubGenerator struct {
	calls []reporting.Options
	err   error
}

func (g *stubGenerator) Generate(ctx context.Context, opts reporting.Options) (*models.ReportData, error) {
	g.calls = append(g.calls, opts)
	if g.err != nil {
		return nil, g.err
	}
	rec := models.NewRecord()
	rec.Set("orderId", "ORD-1")
	summary := models.NewSummary()
	summary.Set("totalOrders", 1)
	return &models.ReportData{
		Records:       []models.Record{rec},
		Summary:       summary,
		ExecutionTime: 3,
	}, nil
}

// stubExporter records exports without rendering.
type stubExporter struct {
	formats []string
}

func (e *stubExporter) Export(ctx context.Context, report *models.Report, format string) (*models.ExportArtifact, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	e.formats = append(e.formats, format)
	name := export.FileName(report.ID, f, time.Now())
	return &models.ExportArtifact{
		Format:      f,
		FilePath:    "reports/" + string(f) + "/" + name,
		Filename:    name,
		Size:        42,
		ContentType: f.ContentType(),
	}, nil
}

// stubValidator fails every config that lacks "ok=true".
type stubValidator struct {
	live []bool
}

func (v *stubValidator) Validate(ctx context.Context, providerType string, cfg models.ConnectionConfig, live bool) *models.ValidationResult {
	v.live = append(v.live, live)
	result := models.NewValidationResult(providerType)
	result.Add(models.Check{Name: "ok flag", OK: cfg.Get("ok") == "true", Message: "ok must be true"})
	return result
}

// stubArtifacts is a fixed ArtifactLister.
type stubArtifacts struct {
	files     []export.ArtifactInfo
	listErr   error
	healthErr error
}

func (a *stubArtifacts) List() ([]export.ArtifactInfo, error) {
	return a.files, a.listErr
}

func (a *stubArtifacts) HealthCheck() error {
	return a.healthErr
}

var errBoom = errors.New("boom")
