package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

func newDashboardMux(t *testing.T, dashboard *mockDashboardService, quality *mockQualityService) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewDashboardHandler(dashboard, quality, zap.NewNop()).RegisterRoutes(mux, testAuthMiddleware(t))
	return mux
}

func TestDashboardHandler_Metrics(t *testing.T) {
	metrics := &models.DashboardMetrics{
		TotalReports:           12,
		ReportsThisMonth:       3,
		ActiveScheduledReports: 2,
		TotalDataSources:       4,
		SystemHealth: models.SystemHealth{
			Database: models.HealthHealthy,
			Redis:    models.HealthWarning,
			Storage:  models.HealthHealthy,
		},
	}
	mux := newDashboardMux(t, &mockDashboardService{metrics: metrics}, &mockQualityService{})

	rec := serve(mux, http.MethodGet, "/api/dashboard/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"success": true,
		"data": {
			"totalReports": 12,
			"reportsThisMonth": 3,
			"activeScheduledReports": 2,
			"totalDataSources": 4,
			"systemHealth": {"database": "healthy", "redis": "warning", "storage": "healthy"}
		}
	}`, rec.Body.String())
}

func TestDashboardHandler_Metrics_Error(t *testing.T) {
	mux := newDashboardMux(t, &mockDashboardService{err: errors.New("boom")}, &mockQualityService{})

	rec := serve(mux, http.MethodGet, "/api/dashboard/metrics", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeEnvelope(t, rec).Error)
}

func TestDashboardHandler_QualityOverview(t *testing.T) {
	report := &models.QualityReport{
		GeneratedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Summary:     models.QualitySummary{Total: 2, OK: 1, Warn: 1},
		DataSources: []models.QualityEntry{
			{ID: "ds_1", Name: "Shop", Type: "shopify", Status: models.QualityOK, Checks: []models.Check{{Name: "config", OK: true}}},
			{ID: "ds_2", Name: "Ads", Type: "google_ads", Status: models.QualityWarn, Checks: []models.Check{{Name: "config", OK: false, Message: "Missing required fields: developerToken"}}},
		},
	}
	mux := newDashboardMux(t, &mockDashboardService{}, &mockQualityService{report: report})

	rec := serve(mux, http.MethodGet, "/api/quality/overview", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool                 `json:"success"`
		Data    models.QualityReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, *report, body.Data)
}
