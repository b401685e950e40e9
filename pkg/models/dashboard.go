package models

// HealthStatus is a coarse component health indicator.
type HealthStatus string

const (
	HealthHealthy HealthStatus = "healthy"
	HealthWarning HealthStatus = "warning"
	HealthError   HealthStatus = "error"
)

// SystemHealth reports the health of the dashboard's collaborators.
type SystemHealth struct {
	Database HealthStatus `json:"database"`
	Redis    HealthStatus `json:"redis"`
	Storage  HealthStatus `json:"storage"`
}

// DashboardMetrics is the landing-page summary.
type DashboardMetrics struct {
	TotalReports           int          `json:"totalReports"`
	ReportsThisMonth       int          `json:"reportsThisMonth"`
	ActiveScheduledReports int          `json:"activeScheduledReports"`
	TotalDataSources       int          `json:"totalDataSources"`
	SystemHealth           SystemHealth `json:"systemHealth"`
}
