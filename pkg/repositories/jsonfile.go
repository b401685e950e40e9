package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/apperrors"
)

// jsonDocument persists a collection as one JSON array in a single file.
// Every write replaces the whole file through a temp file and rename, so a
// reader never observes a partially written document. Callers hold mu around
// read-modify-write sequences.
type jsonDocument[T any] struct {
	mu     sync.Mutex
	path   string
	now    func() time.Time
	logger *zap.Logger
}

func newJSONDocument[T any](path string, logger *zap.Logger) *jsonDocument[T] {
	return &jsonDocument[T]{path: path, now: time.Now, logger: logger}
}

// read loads the collection. A missing file is an empty collection. A file
// that does not parse is moved aside to <name>-<unix>.bak.json and treated
// as empty.
func (d *jsonDocument[T]) read() ([]T, error) {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(d.path), err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		backup := d.backupPath()
		d.logger.Warn("Document is corrupt, moving it aside",
			zap.String("path", d.path),
			zap.String("backup", backup),
			zap.Error(err))
		if renameErr := os.Rename(d.path, backup); renameErr != nil {
			return nil, fmt.Errorf("%w: failed to back up corrupt %s: %v",
				apperrors.ErrStorageWrite, filepath.Base(d.path), renameErr)
		}
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// write replaces the document with items.
func (d *jsonDocument[T]) write(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(d.path), err)
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	return nil
}

func (d *jsonDocument[T]) backupPath() string {
	ext := filepath.Ext(d.path)
	base := strings.TrimSuffix(d.path, ext)
	return fmt.Sprintf("%s-%d.bak%s", base, d.now().Unix(), ext)
}
