package reporting

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

const customerRecordCount = 30

var customerSegments = []struct{ key, label string }{
	{"high-value", "High Value"},
	{"medium-value", "Medium Value"},
	{"low-value", "Low Value"},
}

type customerStrategy struct{}

func (customerStrategy) Records(req Request, rng *rand.Rand) []models.Record {
	year := 365 * 24 * time.Hour

	records := make([]models.Record, 0, customerRecordCount)
	for i := 1; i <= customerRecordCount; i++ {
		registered := randomInstant(rng, req.Now.Add(-year), year)
		lastOrder := randomInstant(rng, registered, req.Now.Sub(registered))
		orders := between(rng, 1, 20)
		spent := between(rng, 100, 5000)

		r := models.NewRecord()
		r.Set("id", fmt.Sprintf("cust_%d", i))
		r.Set("name", fmt.Sprintf("Customer %d", i))
		r.Set("email", fmt.Sprintf("customer%d@example.com", i))
		r.Set("registrationDate", registered.Format(models.DateLayout))
		r.Set("lastOrderDate", lastOrder.Format(models.DateLayout))
		r.Set("totalOrders", orders)
		r.Set("totalSpent", spent)
		r.Set("averageOrderValue", spent/orders)
		r.Set("status", pick(rng, "active", "inactive", "vip"))
		r.Set("segment", customerSegments[rng.IntN(len(customerSegments))].key)
		records = append(records, r)
	}
	return records
}

func (customerStrategy) Summarize(records []models.Record) models.Summary {
	var spent, active, vip int
	for _, r := range records {
		spent += intField(r, "totalSpent")
		switch stringField(r, "status") {
		case "active":
			active++
		case "vip":
			vip++
		}
	}

	s := models.NewSummary()
	s.Set("totalCustomers", len(records))
	s.Set("activeCustomers", active)
	s.Set("totalRevenue", spent)
	s.Set("averageCustomerValue", average(spent, len(records)))
	s.Set("vipCustomers", vip)
	return s
}

func (customerStrategy) Charts(records []models.Record) []models.Chart {
	counts := make(map[string]int)
	for _, r := range records {
		counts[stringField(r, "segment")]++
	}

	labels := make([]string, len(customerSegments))
	values := make([]float64, len(customerSegments))
	for i, seg := range customerSegments {
		labels[i] = seg.label
		values[i] = float64(counts[seg.key])
	}

	return []models.Chart{{
		Type:  "doughnut",
		Title: "Customer Segments",
		Data: models.ChartData{
			Labels: labels,
			Datasets: []models.Dataset{{
				Data:            values,
				BackgroundColor: []string{"#10B981", "#F59E0B", "#EF4444"},
			}},
		},
	}}
}
