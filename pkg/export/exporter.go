// Package export materializes reports as pdf, excel, html or json files.
package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/apperrors"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// ParseFormat normalizes a format name. "xlsx" is accepted as excel.
func ParseFormat(s string) (models.ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return models.ExportFormatPDF, nil
	case "excel", "xlsx":
		return models.ExportFormatExcel, nil
	case "html":
		return models.ExportFormatHTML, nil
	case "json":
		return models.ExportFormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, s)
}

// Exporter renders reports and writes them to an ArtifactStore.
type Exporter struct {
	store  *ArtifactStore
	pdf    PDFRenderer
	now    func() time.Time
	logger *zap.Logger
}

// NewExporter creates an Exporter. pdf may be nil, in which case pdf exports
// fail with apperrors.ErrRender.
func NewExporter(store *ArtifactStore, pdf PDFRenderer, logger *zap.Logger) *Exporter {
	return &Exporter{
		store:  store,
		pdf:    pdf,
		now:    time.Now,
		logger: logger.Named("exporter"),
	}
}

// Export renders report in format and stores it as
// reports/{format}/{id}_{date}.{ext}. Nothing is written when rendering fails.
func (e *Exporter) Export(ctx context.Context, report *models.Report, format string) (*models.ExportArtifact, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if report.ID == "" || strings.ContainsAny(report.ID, `/\`) || report.ID != filepath.Base(report.ID) {
		return nil, fmt.Errorf("%w: report id %q", apperrors.ErrInvalidInput, report.ID)
	}

	content, err := e.Render(ctx, report, f)
	if err != nil {
		return nil, err
	}

	path := e.store.ReportPath(report.ID, f, e.now())
	if err := e.store.Write(path, content); err != nil {
		return nil, err
	}

	e.logger.Info("Exported report",
		zap.String("report_id", report.ID),
		zap.String("format", string(f)),
		zap.Int("bytes", len(content)))

	return &models.ExportArtifact{
		Format:      f,
		FilePath:    e.store.Relative(path),
		Filename:    filepath.Base(path),
		Size:        int64(len(content)),
		ContentType: f.ContentType(),
		Content:     content,
	}, nil
}

// Render produces the export bytes without touching storage.
func (e *Exporter) Render(ctx context.Context, report *models.Report, f models.ExportFormat) ([]byte, error) {
	switch f {
	case models.ExportFormatJSON:
		out, err := renderJSON(report)
		if err != nil {
			return nil, fmt.Errorf("%w: json: %v", apperrors.ErrRender, err)
		}
		return out, nil
	case models.ExportFormatHTML:
		out, err := RenderHTML(report)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrRender, err)
		}
		return out, nil
	case models.ExportFormatExcel:
		out, err := renderExcel(report)
		if err != nil {
			return nil, fmt.Errorf("%w: excel: %v", apperrors.ErrRender, err)
		}
		return out, nil
	case models.ExportFormatPDF:
		if e.pdf == nil {
			return nil, fmt.Errorf("%w: no pdf renderer configured", apperrors.ErrRender)
		}
		html, err := RenderHTML(report)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrRender, err)
		}
		out, err := e.pdf.RenderPDF(ctx, html)
		if err != nil && !errors.Is(err, apperrors.ErrRender) {
			err = fmt.Errorf("%w: %v", apperrors.ErrRender, err)
		}
		return out, err
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, f)
}
