package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/apperrors"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/database"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

const (
	DefaultReportPageSize = 10
	MaxReportPageSize     = 100
)

// ReportRepository defines the interface for report persistence.
type ReportRepository interface {
	// Create inserts r, assigning ID and timestamps when unset.
	Create(ctx context.Context, r *models.Report) error

	// Get returns the report with its data, or apperrors.ErrNotFound.
	Get(ctx context.Context, id string) (*models.Report, error)

	// List returns one page of reports without their data.
	List(ctx context.Context, filter models.ReportFilter) (*models.ReportPage, error)

	// UpdateArtifact records the most recent export of a report.
	UpdateArtifact(ctx context.Context, id string, format models.ExportFormat, filePath string, size int64) error

	Delete(ctx context.Context, id string) error

	// Count returns the number of stored reports.
	Count(ctx context.Context) (int, error)

	// CountSince returns the number of reports created at or after since.
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// sortColumns whitelists the sortable columns by their API names.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"type":      "type",
	"status":    "status",
}

type reportRepository struct {
	db *database.DB
}

var _ ReportRepository = (*reportRepository)(nil)

// NewReportRepository creates a PostgreSQL-backed report repository.
func NewReportRepository(db *database.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now
	if report.Status == "" {
		report.Status = models.ReportStatusDraft
	}

	data, err := marshalNullable(report.Data)
	if err != nil {
		return fmt.Errorf("failed to encode report data: %w", err)
	}
	metadata, err := json.Marshal(report.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode report metadata: %w", err)
	}

	query := `
		INSERT INTO reports (id, title, description, type, format, status, data, metadata, file_path, file_size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.db.Exec(ctx, query,
		report.ID,
		report.Title,
		report.Description,
		report.Type,
		report.Format,
		report.Status,
		data,
		metadata,
		report.FilePath,
		report.FileSize,
		report.CreatedAt,
		report.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *reportRepository) Get(ctx context.Context, id string) (*models.Report, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: report %s", apperrors.ErrNotFound, id)
	}

	query := `
		SELECT id, title, description, type, format, status, data, metadata, file_path, file_size, created_at, updated_at
		FROM reports
		WHERE id = $1`

	report, err := scanReport(r.db.QueryRow(ctx, query, id), true)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: report %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

func (r *reportRepository) List(ctx context.Context, filter models.ReportFilter) (*models.ReportPage, error) {
	where, args := reportWhere(filter)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM reports"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultReportPageSize
	}
	if limit > MaxReportPageSize {
		limit = MaxReportPageSize
	}
	offset := max(filter.Offset, 0)

	query := fmt.Sprintf(`
		SELECT id, title, description, type, format, status, NULL::jsonb, metadata, file_path, file_size, created_at, updated_at
		FROM reports%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		where, reportOrderBy(filter), len(args)+1, len(args)+2)

	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*models.Report, 0, limit)
	for rows.Next() {
		report, err := scanReport(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	return &models.ReportPage{
		Reports: reports,
		Total:   total,
		Page:    offset/limit + 1,
		Limit:   limit,
	}, nil
}

func (r *reportRepository) UpdateArtifact(ctx context.Context, id string, format models.ExportFormat, filePath string, size int64) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: report %s", apperrors.ErrNotFound, id)
	}

	query := `
		UPDATE reports
		SET format = $2, file_path = $3, file_size = $4, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, format, filePath, size)
	if err != nil {
		return fmt.Errorf("failed to update report artifact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: report %s", apperrors.ErrNotFound, id)
	}
	return nil
}

func (r *reportRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: report %s", apperrors.ErrNotFound, id)
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM reports WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: report %s", apperrors.ErrNotFound, id)
	}
	return nil
}

func (r *reportRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM reports").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return n, nil
}

func (r *reportRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM reports WHERE created_at >= $1", since).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return n, nil
}

// reportWhere builds the WHERE clause of a listing. Type and status match
// exactly; search matches title or description case-insensitively.
func reportWhere(filter models.ReportFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%[1]d OR description ILIKE $%[1]d)", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// reportOrderBy maps the requested sort onto a whitelisted column.
func reportOrderBy(filter models.ReportFilter) string {
	col, ok := sortColumns[filter.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		dir = "ASC"
	}
	return col + " " + dir + ", id " + dir
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanReport(row pgx.Row, withData bool) (*models.Report, error) {
	var report models.Report
	var data, metadata []byte
	err := row.Scan(
		&report.ID,
		&report.Title,
		&report.Description,
		&report.Type,
		&report.Format,
		&report.Status,
		&data,
		&metadata,
		&report.FilePath,
		&report.FileSize,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if withData && len(data) > 0 {
		report.Data = &models.ReportData{}
		if err := json.Unmarshal(data, report.Data); err != nil {
			return nil, fmt.Errorf("failed to decode report data: %w", err)
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &report.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode report metadata: %w", err)
		}
	}
	return &report, nil
}

func marshalNullable(v *models.ReportData) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
