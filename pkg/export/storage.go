package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/apperrors"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// ArtifactStore owns the on-disk layout of export files:
//
//	{base}/reports/{pdf,excel,html,json}/{reportId}_{YYYY-MM-DD}.{ext}
//	{base}/temp
type ArtifactStore struct {
	baseDir    string
	reportsDir string
	tempDir    string
	logger     *zap.Logger
}

// ArtifactInfo describes one export file found on disk.
type ArtifactInfo struct {
	Path     string // relative to the base directory
	Format   models.ExportFormat
	ReportID string
	Size     int64
	ModTime  time.Time
}

// NewArtifactStore creates a store rooted at baseDir. Call EnsureDirectories
// before the first write.
func NewArtifactStore(baseDir string, logger *zap.Logger) *ArtifactStore {
	return &ArtifactStore{
		baseDir:    baseDir,
		reportsDir: filepath.Join(baseDir, "reports"),
		tempDir:    filepath.Join(baseDir, "temp"),
		logger:     logger.Named("artifact-store"),
	}
}

// BaseDir returns the directory relative paths are resolved against.
func (s *ArtifactStore) BaseDir() string {
	return s.baseDir
}

// EnsureDirectories creates the base, temp and per-format directories.
func (s *ArtifactStore) EnsureDirectories() error {
	dirs := []string{s.baseDir, s.reportsDir, s.tempDir}
	for _, f := range models.ExportFormats {
		dirs = append(dirs, s.formatDir(f))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create %s: %v", apperrors.ErrStorageWrite, dir, err)
		}
	}
	return nil
}

func (s *ArtifactStore) formatDir(f models.ExportFormat) string {
	return filepath.Join(s.reportsDir, string(f))
}

// FileName returns {reportId}_{YYYY-MM-DD}.{ext}.
func FileName(reportID string, f models.ExportFormat, day time.Time) string {
	return fmt.Sprintf("%s_%s.%s", reportID, day.UTC().Format(models.DateLayout), f.Extension())
}

// ReportPath returns where an export of reportID in format f is written.
func (s *ArtifactStore) ReportPath(reportID string, f models.ExportFormat, day time.Time) string {
	return filepath.Join(s.formatDir(f), FileName(reportID, f, day))
}

// Write stores content at path, creating parent directories as needed.
func (s *ArtifactStore) Write(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	s.logger.Info("Report saved", zap.String("path", s.Relative(path)), zap.Int("bytes", len(content)))
	return nil
}

// Relative converts a store path into one relative to the base directory,
// using forward slashes.
func (s *ArtifactStore) Relative(path string) string {
	rel, err := filepath.Rel(s.baseDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Resolve maps a relative artifact path back to a filesystem path. Paths that
// escape the reports directory are rejected.
func (s *ArtifactStore) Resolve(rel string) (string, error) {
	full := filepath.Join(s.baseDir, filepath.FromSlash(rel))
	inside, err := filepath.Rel(s.reportsDir, full)
	if err != nil || inside == "." || strings.HasPrefix(inside, "..") {
		return "", fmt.Errorf("%w: artifact path %q", apperrors.ErrInvalidInput, rel)
	}
	return full, nil
}

// Open opens an artifact for reading.
func (s *ArtifactStore) Open(rel string) (*os.File, error) {
	full, err := s.Resolve(rel)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("artifact %s: %w", rel, apperrors.ErrNotFound)
	}
	return f, err
}

// List walks every per-format directory.
func (s *ArtifactStore) List() ([]ArtifactInfo, error) {
	var out []ArtifactInfo
	for _, f := range models.ExportFormats {
		entries, err := os.ReadDir(s.formatDir(f))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s artifacts: %w", f, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			out = append(out, ArtifactInfo{
				Path:     s.Relative(filepath.Join(s.formatDir(f), e.Name())),
				Format:   f,
				ReportID: reportIDFromName(e.Name()),
				Size:     info.Size(),
				ModTime:  info.ModTime(),
			})
		}
	}
	return out, nil
}

// reportIDFromName strips the _{date}.{ext} suffix.
func reportIDFromName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if i := strings.LastIndex(base, "_"); i > 0 {
		return base[:i]
	}
	return base
}

// Cleanup removes artifacts last modified before cutoff. With dryRun set it
// only reports what would be removed.
func (s *ArtifactStore) Cleanup(cutoff time.Time, dryRun bool) ([]ArtifactInfo, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	var removed []ArtifactInfo
	for _, a := range all {
		if !a.ModTime.Before(cutoff) {
			continue
		}
		if !dryRun {
			if err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(a.Path))); err != nil && !errors.Is(err, fs.ErrNotExist) {
				s.logger.Warn("Failed to remove expired artifact", zap.String("path", a.Path), zap.Error(err))
				continue
			}
		}
		removed = append(removed, a)
	}
	return removed, nil
}

// HealthCheck writes and removes a probe file in the temp directory.
func (s *ArtifactStore) HealthCheck() error {
	if err := os.MkdirAll(s.tempDir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	probe := filepath.Join(s.tempDir, fmt.Sprintf("health-%d.tmp", time.Now().UnixNano()))
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	return os.Remove(probe)
}
