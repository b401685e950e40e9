package export

import (
	"encoding/json"
	"time"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

type jsonDocument struct {
	Report jsonHeader         `json:"report"`
	Data   *models.ReportData `json:"data"`
}

type jsonHeader struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Type        models.ReportType     `json:"type"`
	GeneratedAt time.Time             `json:"generatedAt"`
	Metadata    models.ReportMetadata `json:"metadata"`
}

func renderJSON(report *models.Report) ([]byte, error) {
	doc := jsonDocument{
		Report: jsonHeader{
			ID:          report.ID,
			Title:       report.Title,
			Type:        report.Type,
			GeneratedAt: generatedAt(report),
			Metadata:    report.Metadata,
		},
		Data: report.Data,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// generatedAt prefers the metadata timestamp and falls back to creation time.
func generatedAt(report *models.Report) time.Time {
	if !report.Metadata.GeneratedAt.IsZero() {
		return report.Metadata.GeneratedAt
	}
	return report.CreatedAt
}
