package repositories

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/apperrors"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// SchedulesFile is the document name under the data directory.
const SchedulesFile = "schedules.json"

// ScheduleRepository defines the interface for schedule persistence.
type ScheduleRepository interface {
	List(ctx context.Context) ([]*models.Schedule, error)
	Get(ctx context.Context, id string) (*models.Schedule, error)

	// Create assigns an id and timestamps and stores s.
	Create(ctx context.Context, s *models.Schedule) error

	// Update replaces the stored schedule with the same id and bumps UpdatedAt.
	Update(ctx context.Context, s *models.Schedule) error

	Delete(ctx context.Context, id string) error

	// CountActive returns the number of schedules with IsActive set.
	CountActive(ctx context.Context) (int, error)
}

type scheduleRepository struct {
	doc *jsonDocument[models.Schedule]
}

var _ ScheduleRepository = (*scheduleRepository)(nil)

// NewScheduleRepository creates a repository storing schedules.json in dataDir.
func NewScheduleRepository(dataDir string, logger *zap.Logger) ScheduleRepository {
	return &scheduleRepository{
		doc: newJSONDocument[models.Schedule](filepath.Join(dataDir, SchedulesFile), logger.Named("schedule-repo")),
	}
}

func (r *scheduleRepository) List(ctx context.Context) ([]*models.Schedule, error) {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	items, err := r.doc.read()
	if err != nil {
		return nil, err
	}
	out := make([]*models.Schedule, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out, nil
}

func (r *scheduleRepository) Get(ctx context.Context, id string) (*models.Schedule, error) {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	items, err := r.doc.read()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("%w: schedule %s", apperrors.ErrNotFound, id)
}

func (r *scheduleRepository) Create(ctx context.Context, s *models.Schedule) error {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	items, err := r.doc.read()
	if err != nil {
		return err
	}

	now := r.doc.now().UTC()
	s.ID = "sch_" + uuid.NewString()
	s.CreatedAt = now
	s.UpdatedAt = now

	return r.doc.write(append(items, *s))
}

func (r *scheduleRepository) Update(ctx context.Context, s *models.Schedule) error {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	items, err := r.doc.read()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID != s.ID {
			continue
		}
		s.CreatedAt = items[i].CreatedAt
		s.UpdatedAt = r.doc.now().UTC()
		items[i] = *s
		return r.doc.write(items)
	}
	return fmt.Errorf("%w: schedule %s", apperrors.ErrNotFound, s.ID)
}

func (r *scheduleRepository) Delete(ctx context.Context, id string) error {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	items, err := r.doc.read()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			return r.doc.write(append(items[:i], items[i+1:]...))
		}
	}
	return fmt.Errorf("%w: schedule %s", apperrors.ErrNotFound, id)
}

func (r *scheduleRepository) CountActive(ctx context.Context) (int, error) {
	list, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, s := range list {
		if s.IsActive {
			n++
		}
	}
	return n, nil
}

// setClock is used by tests to pin timestamps.
func (r *scheduleRepository) setClock(now func() time.Time) {
	r.doc.now = now
}
