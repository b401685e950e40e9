package models

// ExportFormat is a supported export target.
type ExportFormat string

const (
	ExportFormatPDF   ExportFormat = "pdf"
	ExportFormatExcel ExportFormat = "excel"
	ExportFormatHTML  ExportFormat = "html"
	ExportFormatJSON  ExportFormat = "json"
)

// ExportFormats lists the canonical formats in directory order.
var ExportFormats = []ExportFormat{ExportFormatPDF, ExportFormatExcel, ExportFormatHTML, ExportFormatJSON}

// Extension returns the file extension written for the format.
func (f ExportFormat) Extension() string {
	if f == ExportFormatExcel {
		return "xlsx"
	}
	return string(f)
}

// ContentType returns the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatPDF:
		return "application/pdf"
	case ExportFormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ExportFormatHTML:
		return "text/html; charset=utf-8"
	case ExportFormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// ExportArtifact describes a written export file.
type ExportArtifact struct {
	Format      ExportFormat `json:"format"`
	FilePath    string       `json:"filePath"` // relative to the storage base directory
	Filename    string       `json:"filename"`
	Size        int64        `json:"size"`
	ContentType string       `json:"contentType"`
	Content     []byte       `json:"-"`
}
