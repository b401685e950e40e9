package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

const (
	sheetSummary = "Summary"
	sheetData    = "Data"
	sheetCharts  = "Charts"
)

// renderExcel builds the workbook: Summary always, Data only when there are
// records, Charts only when there are charts.
func renderExcel(report *models.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetSummary); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, report); err != nil {
		return nil, err
	}

	if report.Data != nil && len(report.Data.Records) > 0 {
		if err := writeDataSheet(f, report.Data.Records); err != nil {
			return nil, err
		}
	}

	if report.Data != nil && len(report.Data.Charts) > 0 {
		if err := writeChartsSheet(f, report.Data.Charts); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, report *models.Report) error {
	rows := [][]any{
		{"Report Title", report.Title},
		{"Report Type", string(report.Type)},
		{"Generated At", generatedAt(report).UTC().Format("2006-01-02T15:04:05.000Z")},
		{"Total Records", report.Metadata.TotalRecords},
		{""},
		{"Summary"},
	}
	if report.Data != nil && report.Data.Summary != nil {
		for p := report.Data.Summary.Oldest(); p != nil; p = p.Next() {
			rows = append(rows, []any{p.Key, cellValue(p.Value)})
		}
	}
	if err := writeRows(f, sheetSummary, rows); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create summary style: %w", err)
	}
	if err := f.SetCellStyle(sheetSummary, "A1", "A6", bold); err != nil {
		return fmt.Errorf("style summary sheet: %w", err)
	}
	return f.SetColWidth(sheetSummary, "A", "B", 24)
}

func writeDataSheet(f *excelize.File, records []models.Record) error {
	if _, err := f.NewSheet(sheetData); err != nil {
		return fmt.Errorf("create data sheet: %w", err)
	}

	keys := recordKeys(records[0])
	header := make([]any, len(keys))
	for i, k := range keys {
		header[i] = k
	}

	rows := make([][]any, 0, len(records)+1)
	rows = append(rows, header)
	for _, r := range records {
		row := make([]any, len(keys))
		for i, k := range keys {
			v, _ := r.Get(k)
			row[i] = cellValue(v)
		}
		rows = append(rows, row)
	}
	if err := writeRows(f, sheetData, rows); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E5E7EB"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(keys), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetData, "A1", last, style); err != nil {
		return fmt.Errorf("style data header: %w", err)
	}
	return f.SetPanes(sheetData, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeChartsSheet(f *excelize.File, charts []models.Chart) error {
	if _, err := f.NewSheet(sheetCharts); err != nil {
		return fmt.Errorf("create charts sheet: %w", err)
	}

	rows := [][]any{{"Chart Information"}}
	for i, c := range charts {
		title := c.Title
		if title == "" {
			title = "Untitled Chart"
		}
		rows = append(rows,
			[]any{fmt.Sprintf("Chart %d", i+1), title},
			[]any{"Type", c.Type},
		)
		if len(c.Data.Labels) > 0 {
			rows = append(rows, []any{"Labels", strings.Join(c.Data.Labels, ", ")})
		}
		rows = append(rows, []any{""})
	}
	return writeRows(f, sheetCharts, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
