package reporting

import (
	"math/rand/v2"
	"time"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// Request is the resolved input handed to a Strategy.
type Request struct {
	Type    models.ReportType
	Filters []models.Filter
	// Start and End are midnight UTC of the first and last day of the range.
	Start time.Time
	End   time.Time
	// Now is the generation instant; strategies use it instead of time.Now.
	Now time.Time
	// RawTimeRange is the range exactly as the caller supplied it, or nil.
	RawTimeRange *models.TimeRange
}

// Strategy produces one report type: records first, then a summary and
// charts derived only from the records it is given.
type Strategy interface {
	Records(req Request, rng *rand.Rand) []models.Record
	Summarize(records []models.Record) models.Summary
	Charts(records []models.Record) []models.Chart
}

func defaultStrategies() map[models.ReportType]Strategy {
	return map[models.ReportType]Strategy{
		models.ReportTypeSales:     salesStrategy{},
		models.ReportTypeInventory: inventoryStrategy{},
		models.ReportTypeCustomer:  customerStrategy{},
		models.ReportTypeFinancial: financialStrategy{},
	}
}

// between returns a uniformly distributed int in [lo, lo+span).
func between(rng *rand.Rand, lo, span int) int {
	return lo + rng.IntN(span)
}

// pick returns a uniformly chosen element of options.
func pick(rng *rand.Rand, options ...string) string {
	return options[rng.IntN(len(options))]
}

// randomInstant returns an instant in [from, from+window).
func randomInstant(rng *rand.Rand, from time.Time, window time.Duration) time.Time {
	if window <= 0 {
		return from
	}
	return from.Add(time.Duration(rng.Int64N(int64(window))))
}

// intField reads an integer-valued field regardless of how it was decoded.
func intField(r models.Record, key string) int {
	v, _ := r.Get(key)
	f, ok := toFloat(v)
	if !ok {
		return 0
	}
	return int(f)
}

func stringField(r models.Record, key string) string {
	v, _ := r.Get(key)
	s, _ := v.(string)
	return s
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return part * 100 / whole
}

func average(total, count int) int {
	if count == 0 {
		return 0
	}
	return total / count
}
