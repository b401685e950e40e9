package models

import "time"

// QualityStatus is "ok" when every static check passes, "warn" otherwise.
type QualityStatus string

const (
	QualityOK   QualityStatus = "ok"
	QualityWarn QualityStatus = "warn"
)

// QualityEntry is the configuration health of one data source.
type QualityEntry struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	Status QualityStatus `json:"status"`
	Checks []Check       `json:"checks"`
}

// QualityReport covers every stored data source.
type QualityReport struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Summary     QualitySummary `json:"summary"`
	DataSources []QualityEntry `json:"dataSources"`
}

// QualitySummary counts entries per status.
type QualitySummary struct {
	Total int `json:"total"`
	OK    int `json:"ok"`
	Warn  int `json:"warn"`
}
