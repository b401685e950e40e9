package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/config"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

func TestHealthHandler_Health_WithoutDashboard(t *testing.T) {
	handler := NewHealthHandler(&config.Config{Version: "test-version", Env: "test"}, nil, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var response HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "ok", response.Status)
	assert.Nil(t, response.Components)
}

func TestHealthHandler_Health_Statuses(t *testing.T) {
	tests := []struct {
		name       string
		health     models.SystemHealth
		wantStatus string
		wantCode   int
	}{
		{
			name:       "all healthy",
			health:     models.SystemHealth{Database: models.HealthHealthy, Redis: models.HealthHealthy, Storage: models.HealthHealthy},
			wantStatus: "ok",
			wantCode:   http.StatusOK,
		},
		{
			name:       "redis not configured",
			health:     models.SystemHealth{Database: models.HealthHealthy, Redis: models.HealthWarning, Storage: models.HealthHealthy},
			wantStatus: "degraded",
			wantCode:   http.StatusOK,
		},
		{
			name:       "storage broken",
			health:     models.SystemHealth{Database: models.HealthHealthy, Redis: models.HealthHealthy, Storage: models.HealthError},
			wantStatus: "unavailable",
			wantCode:   http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dashboard := &mockDashboardService{metrics: &models.DashboardMetrics{SystemHealth: tt.health}}
			handler := NewHealthHandler(&config.Config{}, dashboard, zap.NewNop())

			rec := httptest.NewRecorder()
			handler.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var response HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
			assert.Equal(t, tt.wantStatus, response.Status)
			require.NotNil(t, response.Components)
			assert.Equal(t, tt.health, *response.Components)
		})
	}
}

func TestHealthHandler_Ping(t *testing.T) {
	handler := NewHealthHandler(&config.Config{Version: "1.2.3", Env: "test"}, nil, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Ping(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var response PingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "1.2.3", response.Version)
	assert.Equal(t, "metricnex-dashboard", response.Service)
	assert.Equal(t, runtime.Version(), response.GoVersion)
	assert.Equal(t, "test", response.Environment)
	assert.NotEmpty(t, response.Hostname)
}

func TestHealthHandler_RegisterRoutes(t *testing.T) {
	mux := http.NewServeMux()
	NewHealthHandler(&config.Config{}, nil, zap.NewNop()).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
