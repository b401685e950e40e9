package reporting

import (
	"math/rand/v2"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

type financialStrategy struct{}

// Records emits one row per calendar day from Start through End inclusive.
func (financialStrategy) Records(req Request, rng *rand.Rand) []models.Record {
	var records []models.Record
	for day := req.Start; !day.After(req.End); day = day.AddDate(0, 0, 1) {
		revenue := between(rng, 5000, 10000)
		costs := between(rng, 2000, 5000)
		orders := between(rng, 20, 100)

		expenses := models.NewRecord()
		expenses.Set("marketing", between(rng, 500, 1000))
		expenses.Set("operations", between(rng, 400, 800))
		expenses.Set("other", between(rng, 200, 500))

		r := models.NewRecord()
		r.Set("date", day.Format(models.DateLayout))
		r.Set("revenue", revenue)
		r.Set("costs", costs)
		r.Set("profit", revenue-costs)
		r.Set("orders", orders)
		r.Set("averageOrderValue", revenue/orders)
		r.Set("expenses", expenses)
		records = append(records, r)
	}
	return records
}

func (financialStrategy) Summarize(records []models.Record) models.Summary {
	var revenue, costs, orders int
	for _, r := range records {
		revenue += intField(r, "revenue")
		costs += intField(r, "costs")
		orders += intField(r, "orders")
	}
	profit := revenue - costs

	s := models.NewSummary()
	s.Set("totalRevenue", revenue)
	s.Set("totalCosts", costs)
	s.Set("totalProfit", profit)
	s.Set("profitMargin", floorPercent(profit, revenue))
	s.Set("averageDailyRevenue", average(revenue, len(records)))
	s.Set("totalOrders", orders)
	return s
}

func (financialStrategy) Charts(records []models.Record) []models.Chart {
	labels := make([]string, len(records))
	revenue := make([]float64, len(records))
	profit := make([]float64, len(records))
	for i, r := range records {
		labels[i] = stringField(r, "date")
		revenue[i] = float64(intField(r, "revenue"))
		profit[i] = float64(intField(r, "profit"))
	}

	return []models.Chart{{
		Type:  "line",
		Title: "Revenue vs Profit",
		Data: models.ChartData{
			Labels: labels,
			Datasets: []models.Dataset{
				{
					Label:           "Revenue",
					Data:            revenue,
					BorderColor:     "#3B82F6",
					BackgroundColor: "rgba(59, 130, 246, 0.1)",
				},
				{
					Label:           "Profit",
					Data:            profit,
					BorderColor:     "#10B981",
					BackgroundColor: "rgba(16, 185, 129, 0.1)",
				},
			},
		},
	}}
}

// floorPercent is floor(part/whole*100); unlike integer division it rounds
// negative margins toward negative infinity.
func floorPercent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	p := part * 100
	q := p / whole
	if p%whole != 0 && p < 0 {
		q--
	}
	return q
}
