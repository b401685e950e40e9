// Package reporting produces synthetic e-commerce report data: records,
// a summary and chart descriptors for each report type.
package reporting

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/apperrors"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// DefaultWindowDays is the trailing range used when no time range is given.
const DefaultWindowDays = 30

// Options selects what to generate.
type Options struct {
	Type      models.ReportType
	Filters   []models.Filter
	TimeRange *models.TimeRange
	// Seed, when non-zero, makes the random values reproducible.
	Seed uint64
}

// Generator dispatches report requests to type-specific strategies.
type Generator struct {
	strategies map[models.ReportType]Strategy
	fallback   Strategy
	now        func() time.Time
	logger     *zap.Logger
}

// GeneratorOption customizes a Generator.
type GeneratorOption func(*Generator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

// WithStrategy registers or replaces the strategy for a report type.
func WithStrategy(t models.ReportType, s Strategy) GeneratorOption {
	return func(g *Generator) { g.strategies[t] = s }
}

// NewGenerator returns a Generator with the built-in strategies.
func NewGenerator(logger *zap.Logger, opts ...GeneratorOption) *Generator {
	g := &Generator{
		strategies: defaultStrategies(),
		fallback:   placeholderStrategy{},
		now:        time.Now,
		logger:     logger.Named("report-generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Supports reports whether t has a dedicated strategy.
func (g *Generator) Supports(t models.ReportType) bool {
	_, ok := g.strategies[t]
	return ok
}

// Generate builds records for opts.Type, applies the filters, and derives the
// summary and charts from the surviving records. Panics inside a strategy are
// returned as apperrors.ErrGenerationFailed.
func (g *Generator) Generate(ctx context.Context, opts Options) (data *models.ReportData, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	req, err := g.resolve(opts)
	if err != nil {
		return nil, err
	}

	strategy, ok := g.strategies[opts.Type]
	if !ok {
		strategy = g.fallback
	}

	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("Report strategy panicked",
				zap.String("type", string(opts.Type)),
				zap.Any("panic", r))
			data = nil
			err = fmt.Errorf("%w: %v", apperrors.ErrGenerationFailed, r)
		}
	}()

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	records := strategy.Records(req, rng)
	if ok {
		records = ApplyFilters(records, opts.Filters)
	}
	if records == nil {
		records = []models.Record{}
	}

	data = &models.ReportData{
		Records: records,
		Summary: strategy.Summarize(records),
		Charts:  strategy.Charts(records),
	}
	data.ExecutionTime = time.Since(started).Milliseconds()

	g.logger.Debug("Generated report data",
		zap.String("type", string(opts.Type)),
		zap.Int("records", len(records)),
		zap.Int("filters", len(opts.Filters)),
		zap.Int64("execution_ms", data.ExecutionTime))

	return data, nil
}

// resolve turns the optional time range into concrete day boundaries.
func (g *Generator) resolve(opts Options) (Request, error) {
	now := g.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	req := Request{
		Type:         opts.Type,
		Filters:      opts.Filters,
		Start:        today.AddDate(0, 0, -DefaultWindowDays),
		End:          today,
		Now:          now,
		RawTimeRange: opts.TimeRange,
	}

	if tr := opts.TimeRange; tr != nil {
		if tr.Start != "" {
			start, err := time.Parse(models.DateLayout, tr.Start)
			if err != nil {
				return Request{}, fmt.Errorf("%w: time range start %q", apperrors.ErrInvalidInput, tr.Start)
			}
			req.Start = start
		}
		if tr.End != "" {
			end, err := time.Parse(models.DateLayout, tr.End)
			if err != nil {
				return Request{}, fmt.Errorf("%w: time range end %q", apperrors.ErrInvalidInput, tr.End)
			}
			req.End = end
		}
	}

	if req.End.Before(req.Start) {
		req.Start, req.End = req.End, req.Start
	}
	return req, nil
}
