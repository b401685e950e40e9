package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// MaxHTMLRows caps the data table of HTML and PDF exports.
const MaxHTMLRows = 100

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

type htmlView struct {
	Title         string
	Type          string
	GeneratedAt   string
	TotalRecords  string
	ExecutionTime int64
	ID            string
	Summary       []summaryCard
	DataHeading   string
	Headers       []string
	Rows          [][]string
	Charts        []chartCard
	Year          int
}

type summaryCard struct {
	Label string
	Value string
}

type chartCard struct {
	Number int
	Title  string
	Type   string
	Points int
}

// RenderHTML renders the self-contained HTML document used by both the html
// and pdf formats. All values are escaped by html/template.
func RenderHTML(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, buildView(report)); err != nil {
		return nil, fmt.Errorf("execute report template: %w", err)
	}
	return buf.Bytes(), nil
}

func buildView(report *models.Report) htmlView {
	generated := generatedAt(report).UTC()
	view := htmlView{
		Title:         report.Title,
		Type:          strings.ToUpper(string(report.Type)),
		GeneratedAt:   generated.Format("1/2/2006, 3:04:05 PM") + " UTC",
		TotalRecords:  "N/A",
		ExecutionTime: report.Metadata.ExecutionTime,
		ID:            report.ID,
		Year:          generated.Year(),
	}
	if report.Metadata.TotalRecords > 0 {
		view.TotalRecords = formatNumber(float64(report.Metadata.TotalRecords))
	}

	data := report.Data
	if data == nil {
		return view
	}

	if data.Summary != nil {
		for p := data.Summary.Oldest(); p != nil; p = p.Next() {
			view.Summary = append(view.Summary, summaryCard{Label: humanize(p.Key), Value: displayValue(p.Value)})
		}
	}

	if len(data.Records) > 0 {
		keys := recordKeys(data.Records[0])
		for _, k := range keys {
			view.Headers = append(view.Headers, humanize(k))
		}

		rows := data.Records
		if len(rows) > MaxHTMLRows {
			rows = rows[:MaxHTMLRows]
		}
		for _, r := range rows {
			cells := make([]string, len(keys))
			for i, k := range keys {
				v, _ := r.Get(k)
				cells[i] = displayValue(v)
			}
			view.Rows = append(view.Rows, cells)
		}
		view.DataHeading = dataHeading(len(data.Records))
	}

	for i, c := range data.Charts {
		title := c.Title
		if title == "" {
			title = "Untitled Chart"
		}
		view.Charts = append(view.Charts, chartCard{Number: i + 1, Title: title, Type: c.Type, Points: len(c.Data.Labels)})
	}

	return view
}

func dataHeading(total int) string {
	noun := "record"
	if total != 1 {
		noun = inflection.Plural(noun)
	}
	if total > MaxHTMLRows {
		return fmt.Sprintf("Data (First %d of %d %s)", MaxHTMLRows, total, noun)
	}
	return fmt.Sprintf("Data (%d %s)", total, noun)
}

// recordKeys returns the field names of r in insertion order.
func recordKeys(r models.Record) []string {
	keys := make([]string, 0, r.Len())
	for p := r.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}
