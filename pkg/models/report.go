package models

import (
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ReportType names a generation strategy.
type ReportType string

const (
	ReportTypeSales     ReportType = "sales"
	ReportTypeInventory ReportType = "inventory"
	ReportTypeCustomer  ReportType = "customer"
	ReportTypeFinancial ReportType = "financial"
)

// ReportStatus is the lifecycle state of a persisted report.
type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "draft"
	ReportStatusPublished ReportStatus = "published"
	ReportStatusArchived  ReportStatus = "archived"
)

// ReportVersion is stamped into every report's metadata.
const ReportVersion = "1.0.0"

// DateLayout is the calendar-date format used for time ranges, record dates
// and export file names.
const DateLayout = "2006-01-02"

// Record is one generated row. Field order is insertion order and drives the
// column order of tabular exports.
type Record = *orderedmap.OrderedMap[string, any]

// Summary holds aggregate values in display order.
type Summary = *orderedmap.OrderedMap[string, any]

// NewRecord returns an empty Record.
func NewRecord() Record {
	return orderedmap.New[string, any]()
}

// NewSummary returns an empty Summary.
func NewSummary() Summary {
	return orderedmap.New[string, any]()
}

// FilterOperator is a comparison applied by a Filter.
type FilterOperator string

const (
	OpEq   FilterOperator = "eq"
	OpNe   FilterOperator = "ne"
	OpGt   FilterOperator = "gt"
	OpGte  FilterOperator = "gte"
	OpLt   FilterOperator = "lt"
	OpLte  FilterOperator = "lte"
	OpIn   FilterOperator = "in"
	OpLike FilterOperator = "like"
)

// Filter is a single predicate over a record field.
type Filter struct {
	Field    string         `json:"field" validate:"required"`
	Operator FilterOperator `json:"operator" validate:"required,oneof=eq ne gt gte lt lte in like"`
	Value    any            `json:"value"`
}

// TimeRange is an inclusive calendar-date window (YYYY-MM-DD).
type TimeRange struct {
	Start string `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"end" validate:"omitempty,datetime=2006-01-02"`
}

// Dataset is one series of a chart.
type Dataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor,omitempty"`
	BackgroundColor any       `json:"backgroundColor,omitempty"`
}

// ChartData holds labels and series.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Chart is a chart specification for the front end.
type Chart struct {
	Type  string    `json:"type"`
	Title string    `json:"title"`
	Data  ChartData `json:"data"`
}

// ReportData is the output of the generator.
type ReportData struct {
	Records       []Record `json:"records"`
	Summary       Summary  `json:"summary"`
	Charts        []Chart  `json:"charts,omitempty"`
	ExecutionTime int64    `json:"executionTime"` // milliseconds
}

// ReportMetadata describes how a report's data was produced.
type ReportMetadata struct {
	GeneratedAt   time.Time `json:"generatedAt"`
	TimeRange     TimeRange `json:"timeRange"`
	Filters       []Filter  `json:"filters"`
	TotalRecords  int       `json:"totalRecords"`
	ExecutionTime int64     `json:"executionTime"`
	Version       string    `json:"version"`
}

// Report is a persisted report definition with its generated data.
type Report struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Type        ReportType     `json:"type"`
	Format      ExportFormat   `json:"format,omitempty"`
	Status      ReportStatus   `json:"status"`
	Data        *ReportData    `json:"data,omitempty"`
	Metadata    ReportMetadata `json:"metadata"`
	FilePath    string         `json:"filePath,omitempty"`
	FileSize    int64          `json:"fileSize,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// RecordCount returns the number of records, tolerating missing data.
func (r *Report) RecordCount() int {
	if r.Data == nil {
		return 0
	}
	return len(r.Data.Records)
}

// ReportFilter narrows a report listing. Search matches title or description.
type ReportFilter struct {
	Type      ReportType
	Status    ReportStatus
	Search    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// ReportPage is one page of a report listing.
type ReportPage struct {
	Reports []*Report `json:"reports"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	Limit   int       `json:"limit"`
}
