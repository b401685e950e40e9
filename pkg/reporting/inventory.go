package reporting

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// ProductCatalog is the fixed set of products an inventory report covers.
var ProductCatalog = []string{
	"iPhone 14", "Samsung Galaxy S23", "MacBook Pro", "Dell XPS 13", "iPad Air",
	"Surface Pro 9", "AirPods Pro", "Sony WH-1000XM4", "Canon EOS R6", "Nintendo Switch",
}

var inventoryCategories = []string{"Electronics", "Computers", "Audio", "Gaming"}

type inventoryStrategy struct{}

func (inventoryStrategy) Records(req Request, rng *rand.Rand) []models.Record {
	records := make([]models.Record, 0, len(ProductCatalog))
	for i, name := range ProductCatalog {
		current := rng.IntN(100)
		reserved := rng.IntN(20)
		unitCost := between(rng, 50, 500)
		markup := 1.2 + rng.Float64()*0.5

		r := models.NewRecord()
		r.Set("id", fmt.Sprintf("prod_%d", i+1))
		r.Set("name", name)
		r.Set("sku", fmt.Sprintf("SKU-%04d", i+1))
		r.Set("category", pick(rng, inventoryCategories...))
		r.Set("currentStock", current)
		r.Set("reservedStock", reserved)
		r.Set("availableStock", current-reserved)
		r.Set("reorderLevel", between(rng, 5, 20))
		r.Set("unitCost", unitCost)
		r.Set("unitPrice", int(math.Floor(float64(unitCost)*markup)))
		r.Set("lastRestocked", randomInstant(rng, req.Now.Add(-30*24*time.Hour), 30*24*time.Hour).Format(models.DateLayout))
		records = append(records, r)
	}
	return records
}

func (inventoryStrategy) Summarize(records []models.Record) models.Summary {
	var value, units, low int
	for _, r := range records {
		stock := intField(r, "currentStock")
		value += stock * intField(r, "unitPrice")
		units += stock
		if stock <= intField(r, "reorderLevel") {
			low++
		}
	}

	s := models.NewSummary()
	s.Set("totalProducts", len(records))
	s.Set("totalValue", value)
	s.Set("lowStockItems", low)
	s.Set("totalUnits", units)
	s.Set("categories", categoriesOf(records))
	return s
}

func (inventoryStrategy) Charts(records []models.Record) []models.Chart {
	categories := categoriesOf(records)
	stock := make(map[string]int, len(categories))
	for _, r := range records {
		stock[stringField(r, "category")] += intField(r, "currentStock")
	}

	values := make([]float64, len(categories))
	for i, c := range categories {
		values[i] = float64(stock[c])
	}

	return []models.Chart{{
		Type:  "bar",
		Title: "Stock Levels by Category",
		Data: models.ChartData{
			Labels: categories,
			Datasets: []models.Dataset{{
				Label:           "Total Stock",
				Data:            values,
				BackgroundColor: "#10B981",
			}},
		},
	}}
}

// categoriesOf returns distinct categories in first-seen order.
func categoriesOf(records []models.Record) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range records {
		c := stringField(r, "category")
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
