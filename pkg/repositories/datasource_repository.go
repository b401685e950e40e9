package repositories

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/apperrors"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/crypto"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// DataSourcesFile is the document name under the data directory.
const DataSourcesFile = "data-sources.json"

// DatasourceRepository defines the interface for data source persistence.
// Returned records carry raw (decrypted, unmasked) config; masking is the
// caller's job.
type DatasourceRepository interface {
	// List returns every stored data source in insertion order.
	List(ctx context.Context) ([]*models.DataSource, error)

	// Get returns the data source with id, or apperrors.ErrNotFound.
	Get(ctx context.Context, id string) (*models.DataSource, error)

	// Create stores a new data source with status unknown and lastSync "Never".
	Create(ctx context.Context, name, dsType string, cfg models.ConnectionConfig) (*models.DataSource, error)

	// Update merges patch into the stored record, or returns apperrors.ErrNotFound.
	Update(ctx context.Context, id string, patch *models.DataSourcePatch) (*models.DataSource, error)

	// Delete removes the record, or returns apperrors.ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// datasourceRepository implements DatasourceRepository on a JSON document.
// The file is re-read on every call; there is no in-memory cache.
type datasourceRepository struct {
	doc *jsonDocument[models.DataSource]
	box *crypto.SecretBox // nil disables at-rest encryption
}

var _ DatasourceRepository = (*datasourceRepository)(nil)

// NewDatasourceRepository creates a repository storing data-sources.json in dataDir.
// When box is non-nil, sensitive config values are sealed before they reach disk.
func NewDatasourceRepository(dataDir string, box *crypto.SecretBox, logger *zap.Logger) DatasourceRepository {
	return &datasourceRepository{
		doc: newJSONDocument[models.DataSource](filepath.Join(dataDir, DataSourcesFile), logger.Named("datasource-repo")),
		box: box,
	}
}

func (r *datasourceRepository) List(ctx context.Context) ([]*models.DataSource, error) {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]*models.DataSource, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out, nil
}

func (r *datasourceRepository) Get(ctx context.Context, id string) (*models.DataSource, error) {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return nil, err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: data source %s", apperrors.ErrNotFound, id)
	}
	return &items[idx], nil
}

func (r *datasourceRepository) Create(ctx context.Context, name, dsType string, cfg models.ConnectionConfig) (*models.DataSource, error) {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return nil, err
	}

	if cfg == nil {
		cfg = models.ConnectionConfig{}
	}
	ds := models.DataSource{
		ID:       "ds_" + uuid.NewString(),
		Name:     name,
		Type:     dsType,
		Status:   models.DataSourceStatusUnknown,
		LastSync: models.LastSyncNever,
		Config:   cfg.Clone(),
	}
	items = append(items, ds)

	if err := r.save(items); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (r *datasourceRepository) Update(ctx context.Context, id string, patch *models.DataSourcePatch) (*models.DataSource, error) {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return nil, err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: data source %s", apperrors.ErrNotFound, id)
	}

	updated := items[idx]
	updated.Config = updated.Config.Clone()
	patch.Apply(&updated)
	items[idx] = updated

	if err := r.save(items); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *datasourceRepository) Delete(ctx context.Context, id string) error {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return fmt.Errorf("%w: data source %s", apperrors.ErrNotFound, id)
	}
	items = append(items[:idx], items[idx+1:]...)
	return r.save(items)
}

// load reads the document and opens sealed secrets.
func (r *datasourceRepository) load() ([]models.DataSource, error) {
	items, err := r.doc.read()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Config == nil {
			items[i].Config = models.ConnectionConfig{}
		}
		if r.box == nil {
			continue
		}
		for k, v := range items[i].Config {
			if !crypto.IsSealed(v) {
				continue
			}
			plain, err := r.box.Open(v)
			if err != nil {
				if errors.Is(err, crypto.ErrDecryptionFailed) {
					return nil, fmt.Errorf("%w: data source %s key %q", apperrors.ErrCredentialsKeyMismatch, items[i].ID, k)
				}
				return nil, err
			}
			items[i].Config[k] = plain
		}
	}
	return items, nil
}

// save seals secret values on copies and writes the document.
func (r *datasourceRepository) save(items []models.DataSource) error {
	if r.box == nil {
		return r.doc.write(items)
	}

	sealed := make([]models.DataSource, len(items))
	for i, ds := range items {
		ds.Config = ds.Config.Clone()
		for k, v := range ds.Config {
			if !models.IsSensitiveKey(k) {
				continue
			}
			enc, err := r.box.Seal(v)
			if err != nil {
				return fmt.Errorf("failed to encrypt %q: %w", k, err)
			}
			ds.Config[k] = enc
		}
		sealed[i] = ds
	}
	return r.doc.write(sealed)
}

func indexOf(items []models.DataSource, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
