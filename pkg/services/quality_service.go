package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/repositories"
)

// QualityService reports the configuration health of stored data sources.
type QualityService interface {
	// Overview runs the static checks of every data source. No external
	// calls are made.
	Overview(ctx context.Context) (*models.QualityReport, error)
}

type qualityService struct {
	repo      repositories.DatasourceRepository
	validator ConnectionValidator
	now       func() time.Time
	logger    *zap.Logger
}

var _ QualityService = (*qualityService)(nil)

func NewQualityService(repo repositories.DatasourceRepository, validator ConnectionValidator, logger *zap.Logger) QualityService {
	return &qualityService{
		repo:      repo,
		validator: validator,
		now:       time.Now,
		logger:    logger.Named("quality-service"),
	}
}

func (s *qualityService) Overview(ctx context.Context) (*models.QualityReport, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list data sources: %w", err)
	}

	report := &models.QualityReport{
		GeneratedAt: s.now().UTC(),
		DataSources: make([]models.QualityEntry, 0, len(list)),
	}
	for _, ds := range list {
		result := s.validator.Validate(ctx, ds.Type, ds.Config, false)
		entry := models.QualityEntry{
			ID:     ds.ID,
			Name:   ds.Name,
			Type:   ds.Type,
			Status: models.QualityOK,
			Checks: result.Checks,
		}
		if !result.Passed() {
			entry.Status = models.QualityWarn
			report.Summary.Warn++
		} else {
			report.Summary.OK++
		}
		report.DataSources = append(report.DataSources, entry)
	}
	report.Summary.Total = len(report.DataSources)

	s.logger.Debug("Built quality overview",
		zap.Int("total", report.Summary.Total),
		zap.Int("warn", report.Summary.Warn))

	return report, nil
}
