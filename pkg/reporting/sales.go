package reporting

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

const salesRecordCount = 50

type salesStrategy struct{}

func (salesStrategy) Records(req Request, rng *rand.Rand) []models.Record {
	// The whole end day is eligible.
	window := req.End.AddDate(0, 0, 1).Sub(req.Start)

	records := make([]models.Record, 0, salesRecordCount)
	for i := 1; i <= salesRecordCount; i++ {
		quantity := between(rng, 1, 5)
		unitPrice := between(rng, 10, 100)

		r := models.NewRecord()
		r.Set("id", fmt.Sprintf("sale_%d", i))
		r.Set("date", randomInstant(rng, req.Start, window).Format(models.DateLayout))
		r.Set("orderId", fmt.Sprintf("ORD-%04d", i))
		r.Set("customerName", fmt.Sprintf("Customer %d", i))
		r.Set("product", fmt.Sprintf("Product %d", between(rng, 1, 10)))
		r.Set("quantity", quantity)
		r.Set("unitPrice", unitPrice)
		r.Set("total", quantity*unitPrice)
		r.Set("status", pick(rng, "completed", "pending", "cancelled"))
		records = append(records, r)
	}
	return records
}

func (salesStrategy) Summarize(records []models.Record) models.Summary {
	var total, completedTotal, completed int
	for _, r := range records {
		amount := intField(r, "total")
		total += amount
		if stringField(r, "status") == "completed" {
			completed++
			completedTotal += amount
		}
	}

	s := models.NewSummary()
	s.Set("totalSales", total)
	s.Set("completedSales", completedTotal)
	s.Set("totalOrders", len(records))
	s.Set("completedOrders", completed)
	s.Set("averageOrderValue", average(total, len(records)))
	s.Set("conversionRate", percent(completed, len(records)))
	return s
}

func (salesStrategy) Charts(records []models.Record) []models.Chart {
	byDate := make(map[string]int)
	for _, r := range records {
		byDate[stringField(r, "date")] += intField(r, "total")
	}

	labels := make([]string, 0, len(byDate))
	for d := range byDate {
		labels = append(labels, d)
	}
	sort.Strings(labels)

	values := make([]float64, len(labels))
	for i, d := range labels {
		values[i] = float64(byDate[d])
	}

	return []models.Chart{{
		Type:  "line",
		Title: "Sales Over Time",
		Data: models.ChartData{
			Labels: labels,
			Datasets: []models.Dataset{{
				Label:           "Daily Sales",
				Data:            values,
				BorderColor:     "#3B82F6",
				BackgroundColor: "rgba(59, 130, 246, 0.1)",
			}},
		},
	}}
}
