package reporting

import (
	"math/rand/v2"
	"time"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// placeholderStrategy serves report types without a dedicated strategy.
type placeholderStrategy struct{}

func (placeholderStrategy) Records(req Request, _ *rand.Rand) []models.Record {
	filters := req.Filters
	if filters == nil {
		filters = []models.Filter{}
	}

	data := models.NewRecord()
	data.Set("filters", filters)
	data.Set("timeRange", req.RawTimeRange)

	r := models.NewRecord()
	r.Set("id", "1")
	r.Set("message", "This is sample data for report type: "+string(req.Type))
	r.Set("timestamp", req.Now.UTC().Format(time.RFC3339Nano))
	r.Set("data", data)
	return []models.Record{r}
}

func (placeholderStrategy) Summarize([]models.Record) models.Summary {
	s := models.NewSummary()
	s.Set("message", "Sample data generated")
	return s
}

func (placeholderStrategy) Charts([]models.Record) []models.Chart {
	return []models.Chart{}
}
