package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/export"
)

// DefaultRetentionDays is the default age after which export files are removed.
const DefaultRetentionDays = 30

// ArtifactCleaner removes old export files. Implemented by export.ArtifactStore.
type ArtifactCleaner interface {
	Cleanup(cutoff time.Time, dryRun bool) ([]export.ArtifactInfo, error)
}

// RetentionService handles cleanup of old export artifacts.
type RetentionService interface {
	// PruneArtifacts removes export files older than retentionDays and returns
	// what was removed. With dryRun set nothing is deleted.
	PruneArtifacts(ctx context.Context, retentionDays int, dryRun bool) ([]export.ArtifactInfo, error)

	// RunScheduler starts a background goroutine that prunes on the given interval.
	// It runs immediately on startup, then repeats every interval.
	// Cancel the context to stop the scheduler.
	RunScheduler(ctx context.Context, retentionDays int, interval time.Duration)
}

type retentionService struct {
	store  ArtifactCleaner
	now    func() time.Time
	logger *zap.Logger
}

func NewRetentionService(store ArtifactCleaner, logger *zap.Logger) RetentionService {
	return &retentionService{
		store:  store,
		now:    time.Now,
		logger: logger.Named("retention-service"),
	}
}

var _ RetentionService = (*retentionService)(nil)

func (s *retentionService) PruneArtifacts(ctx context.Context, retentionDays int, dryRun bool) ([]export.ArtifactInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}

	cutoff := s.now().AddDate(0, 0, -retentionDays)
	removed, err := s.store.Cleanup(cutoff, dryRun)
	if err != nil {
		s.logger.Error("Failed to prune artifacts", zap.Error(err))
		return nil, err
	}

	if len(removed) > 0 {
		var bytes int64
		for _, a := range removed {
			bytes += a.Size
		}
		s.logger.Info("Retention cleanup completed",
			zap.Int("retention_days", retentionDays),
			zap.Bool("dry_run", dryRun),
			zap.Int("files", len(removed)),
			zap.Int64("bytes", bytes))
	}

	return removed, nil
}

// RunScheduler starts a background loop that prunes old artifacts.
func (s *retentionService) RunScheduler(ctx context.Context, retentionDays int, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	go func() {
		s.logger.Info("Retention scheduler started",
			zap.Duration("interval", interval),
			zap.Int("retention_days", retentionDays))

		// Run immediately on startup, then at each interval
		s.prune(ctx, retentionDays)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Retention scheduler stopped")
				return
			case <-ticker.C:
				s.prune(ctx, retentionDays)
			}
		}
	}()
}

func (s *retentionService) prune(ctx context.Context, retentionDays int) {
	if _, err := s.PruneArtifacts(ctx, retentionDays, false); err != nil && ctx.Err() == nil {
		s.logger.Error("Retention scheduler: prune failed", zap.Error(err))
	}
}
