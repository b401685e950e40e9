package models

import "time"

// ScheduleTask describes the report a schedule produces.
type ScheduleTask struct {
	Type       string       `json:"type"` // always "report"
	ReportType ReportType   `json:"reportType" validate:"required"`
	Title      string       `json:"title,omitempty"`
	Format     ExportFormat `json:"format" validate:"required,oneof=pdf excel xlsx html json"`
	Filters    []Filter     `json:"filters,omitempty" validate:"dive"`
	// LookbackDays sets the time range to the trailing N days at run time.
	LookbackDays int `json:"lookbackDays,omitempty" validate:"omitempty,min=1,max=366"`
}

// ScheduleNotify lists who hears about a completed run.
type ScheduleNotify struct {
	SlackWebhookURL string   `json:"slackWebhookUrl,omitempty" validate:"omitempty,url"`
	Emails          []string `json:"emails,omitempty" validate:"omitempty,dive,email"`
}

// Schedule is a cron-triggered report export.
type Schedule struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Cron      string         `json:"cron"`
	IsActive  bool           `json:"isActive"`
	LastRunAt *time.Time     `json:"lastRunAt"`
	NextRunAt *time.Time     `json:"nextRunAt"`
	Task      ScheduleTask   `json:"task"`
	Notify    ScheduleNotify `json:"notify"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NotifyStatus is the outcome of a run notification.
type NotifyStatus string

const (
	NotifySkipped NotifyStatus = "skipped"
	NotifyOK      NotifyStatus = "ok"
	NotifyFailed  NotifyStatus = "failed"
)

// NotifyResult reports how the Slack notification went.
type NotifyResult struct {
	Status  NotifyStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// ScheduleRun is the result of executing a schedule once.
type ScheduleRun struct {
	RunID      string          `json:"runId"`
	ScheduleID string          `json:"scheduleId"`
	ReportID   string          `json:"reportId"`
	Artifact   *ExportArtifact `json:"artifact"`
	Slack      NotifyResult    `json:"slack"`
	At         time.Time       `json:"at"`
}
