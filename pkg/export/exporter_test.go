package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/apperrors"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/reporting"
)

var exportDay = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

type fakeRenderer struct {
	got []byte
	out []byte
	err error
}

func (f *fakeRenderer) RenderPDF(_ context.Context, html []byte) ([]byte, error) {
	f.got = html
	return f.out, f.err
}

func newTestExporter(t *testing.T, pdf PDFRenderer) (*Exporter, string) {
	t.Helper()
	dir := t.TempDir()
	store := NewArtifactStore(dir, zap.NewNop())
	require.NoError(t, store.EnsureDirectories())
	e := NewExporter(store, pdf, zap.NewNop())
	e.now = func() time.Time { return exportDay }
	return e, dir
}

func testReport(t *testing.T, typ models.ReportType) *models.Report {
	t.Helper()
	g := reporting.NewGenerator(zap.NewNop(), reporting.WithClock(func() time.Time { return exportDay }))
	data, err := g.Generate(context.Background(), reporting.Options{Type: typ, Seed: 17})
	require.NoError(t, err)

	return &models.Report{
		ID:     "rep-123",
		Title:  "Q1 " + string(typ),
		Type:   typ,
		Status: models.ReportStatusPublished,
		Data:   data,
		Metadata: models.ReportMetadata{
			GeneratedAt:   exportDay,
			TotalRecords:  len(data.Records),
			ExecutionTime: 12,
			Version:       models.ReportVersion,
		},
		CreatedAt: exportDay,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    models.ExportFormat
		wantErr bool
	}{
		{"pdf", models.ExportFormatPDF, false},
		{"PDF", models.ExportFormatPDF, false},
		{"excel", models.ExportFormatExcel, false},
		{"xlsx", models.ExportFormatExcel, false},
		{"html", models.ExportFormatHTML, false},
		{"json", models.ExportFormatJSON, false},
		{"csv", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExport_JSONRoundTrip(t *testing.T) {
	e, dir := newTestExporter(t, nil)
	report := testReport(t, models.ReportTypeSales)

	artifact, err := e.Export(context.Background(), report, "json")
	require.NoError(t, err)

	assert.Equal(t, "reports/json/rep-123_2024-03-15.json", artifact.FilePath)
	assert.Equal(t, "application/json", artifact.ContentType)
	assert.Equal(t, int64(len(artifact.Content)), artifact.Size)

	onDisk, err := os.ReadFile(filepath.Join(dir, artifact.FilePath))
	require.NoError(t, err)
	assert.Equal(t, artifact.Content, onDisk)
	assert.Contains(t, string(onDisk), "\n  \"report\": {", "json must be pretty-printed")

	var doc struct {
		Report struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"report"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(onDisk, &doc))
	assert.Equal(t, "rep-123", doc.Report.ID)
	assert.Equal(t, "sales", doc.Report.Type)

	original, err := json.Marshal(report.Data)
	require.NoError(t, err)
	assert.JSONEq(t, string(original), string(doc.Data))
}

func TestExport_UnsupportedFormatWritesNothing(t *testing.T) {
	e, dir := newTestExporter(t, nil)

	_, err := e.Export(context.Background(), testReport(t, models.ReportTypeSales), "docx")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)

	files, err := e.store.List()
	require.NoError(t, err)
	assert.Empty(t, files)
	_, statErr := os.Stat(filepath.Join(dir, "reports", "docx"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExport_RejectsPathLikeIDs(t *testing.T) {
	e, _ := newTestExporter(t, nil)
	report := testReport(t, models.ReportTypeSales)
	report.ID = "../../etc/passwd"

	_, err := e.Export(context.Background(), report, "json")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestExport_HTMLInventory(t *testing.T) {
	e, _ := newTestExporter(t, nil)
	report := testReport(t, models.ReportTypeInventory)

	artifact, err := e.Export(context.Background(), report, "html")
	require.NoError(t, err)
	html := string(artifact.Content)

	assert.Equal(t, "reports/html/rep-123_2024-03-15.html", artifact.FilePath)
	assert.Contains(t, html, "Report Type: <strong>INVENTORY</strong>")
	assert.Contains(t, html, "<th>Current Stock</th>")
	assert.Contains(t, html, "<th>Available Stock</th>")
	assert.Contains(t, html, "<th>Id</th>")
	assert.Equal(t, report.Data.Records[0].Len(), strings.Count(html, "<th>"))
	assert.Contains(t, html, "Data (10 records)")
	assert.Contains(t, html, "Chart 1: Stock Levels by Category")
	assert.Contains(t, html, "<h3>Total Products</h3>")
	assert.Contains(t, html, "&copy; 2024 All rights reserved")
}

func TestRenderHTML_EscapesAndFormats(t *testing.T) {
	summary := models.NewSummary()
	summary.Set("totalValue", 1234567)
	summary.Set("categories", []string{"Audio", "Gaming"})
	summary.Set("missing", nil)

	report := &models.Report{
		ID:    "rep-x",
		Title: `<script>alert("x")</script>`,
		Type:  models.ReportTypeInventory,
		Data:  &models.ReportData{Records: []models.Record{}, Summary: summary},
	}

	out, err := RenderHTML(report)
	require.NoError(t, err)
	html := string(out)

	assert.NotContains(t, html, "<script>alert")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "1,234,567")
	assert.Contains(t, html, "Audio, Gaming")
	assert.Contains(t, html, "N/A")
	assert.NotContains(t, html, `<table class="data-table">`, "no data section without records")
	assert.NotContains(t, html, `<div class="chart-info">`)
}

func TestRenderHTML_CapsRows(t *testing.T) {
	records := make([]models.Record, 150)
	for i := range records {
		r := models.NewRecord()
		r.Set("id", fmt.Sprintf("row_%d", i))
		records[i] = r
	}
	report := &models.Report{ID: "big", Title: "Big", Type: "sales", Data: &models.ReportData{Records: records, Summary: models.NewSummary()}}

	out, err := RenderHTML(report)
	require.NoError(t, err)

	assert.Contains(t, string(out), "Data (First 100 of 150 records)")
	assert.Equal(t, MaxHTMLRows, strings.Count(string(out), "<tr><td>"))
	assert.NotContains(t, string(out), "row_100")
}

func TestExport_HTMLIsIdempotent(t *testing.T) {
	e, _ := newTestExporter(t, nil)
	report := testReport(t, models.ReportTypeCustomer)

	first, err := e.Export(context.Background(), report, "html")
	require.NoError(t, err)
	second, err := e.Export(context.Background(), report, "html")
	require.NoError(t, err)

	assert.Equal(t, first.FilePath, second.FilePath)
	assert.True(t, bytes.Equal(first.Content, second.Content))
}

func TestExport_ExcelSheets(t *testing.T) {
	e, _ := newTestExporter(t, nil)
	report := testReport(t, models.ReportTypeInventory)

	artifact, err := e.Export(context.Background(), report, "xlsx")
	require.NoError(t, err)
	assert.Equal(t, "reports/excel/rep-123_2024-03-15.xlsx", artifact.FilePath)

	wb, err := excelize.OpenReader(bytes.NewReader(artifact.Content))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Summary", "Data", "Charts"}, wb.GetSheetList())

	title, err := wb.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Report Title", title)
	label, _ := wb.GetCellValue("Summary", "A6")
	assert.Equal(t, "Summary", label)
	firstKey, _ := wb.GetCellValue("Summary", "A7")
	assert.Equal(t, "totalProducts", firstKey)

	rows, err := wb.GetRows("Data")
	require.NoError(t, err)
	require.Len(t, rows, 11)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "currentStock", rows[0][4])

	chartRows, err := wb.GetRows("Charts")
	require.NoError(t, err)
	assert.Equal(t, "Chart Information", chartRows[0][0])
	assert.Equal(t, []string{"Chart 1", "Stock Levels by Category"}, chartRows[1])
}

func TestExport_ExcelWithoutRecordsOmitsDataSheet(t *testing.T) {
	e, _ := newTestExporter(t, nil)
	report := testReport(t, models.ReportTypeSales)
	report.Data.Records = []models.Record{}
	report.Data.Charts = nil

	artifact, err := e.Export(context.Background(), report, "excel")
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(artifact.Content))
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, []string{"Summary"}, wb.GetSheetList())
}

func TestExport_PDFUsesHTMLDocument(t *testing.T) {
	renderer := &fakeRenderer{out: []byte("%PDF-1.7 fake")}
	e, dir := newTestExporter(t, renderer)
	report := testReport(t, models.ReportTypeFinancial)

	artifact, err := e.Export(context.Background(), report, "pdf")
	require.NoError(t, err)

	expected, err := RenderHTML(report)
	require.NoError(t, err)
	assert.Equal(t, expected, renderer.got)
	assert.Equal(t, "reports/pdf/rep-123_2024-03-15.pdf", artifact.FilePath)
	assert.Equal(t, "application/pdf", artifact.ContentType)

	onDisk, err := os.ReadFile(filepath.Join(dir, artifact.FilePath))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 fake", string(onDisk))
}

func TestExport_PDFRenderFailure(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("chrome crashed")}
	e, _ := newTestExporter(t, renderer)

	_, err := e.Export(context.Background(), testReport(t, models.ReportTypeSales), "pdf")
	assert.ErrorIs(t, err, apperrors.ErrRender)

	files, listErr := e.store.List()
	require.NoError(t, listErr)
	assert.Empty(t, files)
}

func TestExport_PDFWithoutRenderer(t *testing.T) {
	e, _ := newTestExporter(t, nil)
	_, err := e.Export(context.Background(), testReport(t, models.ReportTypeSales), "pdf")
	assert.ErrorIs(t, err, apperrors.ErrRender)
}

func TestExport_StorageWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "uploads")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

	e := NewExporter(NewArtifactStore(blocker, zap.NewNop()), nil, zap.NewNop())
	_, err := e.Export(context.Background(), testReport(t, models.ReportTypeSales), "json")
	assert.ErrorIs(t, err, apperrors.ErrStorageWrite)
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Current Stock", humanize("currentStock"))
	assert.Equal(t, "Average Order Value", humanize("averageOrderValue"))
	assert.Equal(t, "Id", humanize("id"))
}
