package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/apperrors"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestGenerator(opts ...GeneratorOption) *Generator {
	opts = append([]GeneratorOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewGenerator(zap.NewNop(), opts...)
}

func generate(t *testing.T, g *Generator, opts Options) *models.ReportData {
	t.Helper()
	data, err := g.Generate(context.Background(), opts)
	require.NoError(t, err)
	require.NotNil(t, data)
	return data
}

func summaryInt(t *testing.T, s models.Summary, key string) int {
	t.Helper()
	v, ok := s.Get(key)
	require.True(t, ok, "summary missing %q", key)
	n, ok := v.(int)
	require.True(t, ok, "summary %q is %T, want int", key, v)
	return n
}

func TestGenerate_Sales(t *testing.T) {
	g := newTestGenerator()
	data := generate(t, g, Options{
		Type:      models.ReportTypeSales,
		TimeRange: &models.TimeRange{Start: "2024-01-01", End: "2024-01-31"},
		Seed:      42,
	})

	require.Len(t, data.Records, salesRecordCount)

	total := 0
	for _, r := range data.Records {
		assert.Equal(t, intField(r, "quantity")*intField(r, "unitPrice"), intField(r, "total"))
		q := intField(r, "quantity")
		assert.True(t, q >= 1 && q <= 5, "quantity %d out of range", q)
		date := stringField(r, "date")
		assert.True(t, date >= "2024-01-01" && date <= "2024-01-31", "date %s outside range", date)
		total += intField(r, "total")
	}

	first := data.Records[0]
	assert.Equal(t, "sale_1", stringField(first, "id"))
	assert.Equal(t, "ORD-0001", stringField(first, "orderId"))
	assert.Equal(t, []string{"id", "date", "orderId", "customerName", "product", "quantity", "unitPrice", "total", "status"}, keysOf(first))

	assert.Equal(t, total, summaryInt(t, data.Summary, "totalSales"))
	assert.Equal(t, salesRecordCount, summaryInt(t, data.Summary, "totalOrders"))
	assert.Equal(t, total/salesRecordCount, summaryInt(t, data.Summary, "averageOrderValue"))

	require.Len(t, data.Charts, 1)
	chart := data.Charts[0]
	assert.Equal(t, "line", chart.Type)
	assert.Equal(t, "Sales Over Time", chart.Title)
	assert.IsIncreasing(t, chart.Data.Labels)

	chartTotal := 0.0
	for _, v := range chart.Data.Datasets[0].Data {
		chartTotal += v
	}
	assert.Equal(t, float64(total), chartTotal, "chart must be derived from the records")
}

func TestGenerate_Inventory(t *testing.T) {
	data := generate(t, newTestGenerator(), Options{Type: models.ReportTypeInventory, Seed: 7})

	require.Len(t, data.Records, len(ProductCatalog))
	for i, r := range data.Records {
		assert.Equal(t, ProductCatalog[i], stringField(r, "name"))
		assert.Equal(t, intField(r, "currentStock")-intField(r, "reservedStock"), intField(r, "availableStock"))
		cost, price := intField(r, "unitCost"), intField(r, "unitPrice")
		assert.GreaterOrEqual(t, price, cost*12/10)
		assert.LessOrEqual(t, price, cost*17/10)
	}

	assert.Equal(t, len(ProductCatalog), summaryInt(t, data.Summary, "totalProducts"))
	categories, ok := data.Summary.Get("categories")
	require.True(t, ok)
	assert.Equal(t, data.Charts[0].Data.Labels, categories)
}

func TestGenerate_Customer(t *testing.T) {
	data := generate(t, newTestGenerator(), Options{Type: models.ReportTypeCustomer, Seed: 3})

	require.Len(t, data.Records, customerRecordCount)
	segments := 0.0
	for _, r := range data.Records {
		assert.Equal(t, intField(r, "totalSpent")/intField(r, "totalOrders"), intField(r, "averageOrderValue"))
		assert.LessOrEqual(t, stringField(r, "registrationDate"), stringField(r, "lastOrderDate"))
	}
	for _, v := range data.Charts[0].Data.Datasets[0].Data {
		segments += v
	}
	assert.Equal(t, float64(customerRecordCount), segments)
	assert.Equal(t, []string{"High Value", "Medium Value", "Low Value"}, data.Charts[0].Data.Labels)
}

func TestGenerate_Financial(t *testing.T) {
	data := generate(t, newTestGenerator(), Options{
		Type:      models.ReportTypeFinancial,
		TimeRange: &models.TimeRange{Start: "2024-02-01", End: "2024-02-29"},
		Seed:      11,
	})

	require.Len(t, data.Records, 29, "one row per day including the end day")
	assert.Equal(t, "2024-02-01", stringField(data.Records[0], "date"))
	assert.Equal(t, "2024-02-29", stringField(data.Records[28], "date"))

	for _, r := range data.Records {
		assert.Equal(t, intField(r, "revenue")-intField(r, "costs"), intField(r, "profit"))
		assert.Equal(t, intField(r, "revenue")/intField(r, "orders"), intField(r, "averageOrderValue"))
	}

	require.Len(t, data.Charts[0].Data.Datasets, 2)
	assert.Len(t, data.Charts[0].Data.Labels, 29)
}

func TestGenerate_DefaultTimeRange(t *testing.T) {
	data := generate(t, newTestGenerator(), Options{Type: models.ReportTypeFinancial, Seed: 1})

	require.Len(t, data.Records, DefaultWindowDays+1)
	assert.Equal(t, "2024-02-14", stringField(data.Records[0], "date"))
	assert.Equal(t, "2024-03-15", stringField(data.Records[DefaultWindowDays], "date"))
}

func TestGenerate_ReversedRangeIsNormalized(t *testing.T) {
	data := generate(t, newTestGenerator(), Options{
		Type:      models.ReportTypeFinancial,
		TimeRange: &models.TimeRange{Start: "2024-01-10", End: "2024-01-01"},
	})
	assert.Len(t, data.Records, 10)
}

func TestGenerate_InvalidDate(t *testing.T) {
	_, err := newTestGenerator().Generate(context.Background(), Options{
		Type:      models.ReportTypeSales,
		TimeRange: &models.TimeRange{Start: "01/02/2024"},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestGenerate_FiltersShapeSummary(t *testing.T) {
	data := generate(t, newTestGenerator(), Options{
		Type:    models.ReportTypeSales,
		Filters: []models.Filter{{Field: "status", Operator: models.OpEq, Value: "completed"}},
		Seed:    99,
	})

	for _, r := range data.Records {
		assert.Equal(t, "completed", stringField(r, "status"))
	}
	assert.Equal(t, len(data.Records), summaryInt(t, data.Summary, "totalOrders"))
	assert.Equal(t, len(data.Records), summaryInt(t, data.Summary, "completedOrders"))
	if len(data.Records) > 0 {
		assert.Equal(t, 100, summaryInt(t, data.Summary, "conversionRate"))
	}
}

func TestGenerate_ContradictoryFiltersYieldNothing(t *testing.T) {
	for _, typ := range []models.ReportType{models.ReportTypeSales, models.ReportTypeInventory, models.ReportTypeCustomer} {
		t.Run(string(typ), func(t *testing.T) {
			data := generate(t, newTestGenerator(), Options{
				Type: typ,
				Filters: []models.Filter{
					{Field: "id", Operator: models.OpEq, Value: "a"},
					{Field: "id", Operator: models.OpEq, Value: "b"},
				},
			})
			assert.Empty(t, data.Records)
			assert.NotNil(t, data.Records)
		})
	}
}

func TestGenerate_NumericFilterAcceptsJSONNumbers(t *testing.T) {
	var filters []models.Filter
	require.NoError(t, json.Unmarshal([]byte(`[{"field":"currentStock","operator":"gte","value":50}]`), &filters))

	data := generate(t, newTestGenerator(), Options{Type: models.ReportTypeInventory, Filters: filters, Seed: 5})
	for _, r := range data.Records {
		assert.GreaterOrEqual(t, intField(r, "currentStock"), 50)
	}
}

func TestGenerate_UnknownTypeFallsBack(t *testing.T) {
	filters := []models.Filter{{Field: "x", Operator: models.OpEq, Value: "y"}}
	data := generate(t, newTestGenerator(), Options{Type: "marketing", Filters: filters})

	require.Len(t, data.Records, 1)
	msg, _ := data.Records[0].Get("message")
	assert.Equal(t, "This is sample data for report type: marketing", msg)
	summaryMsg, _ := data.Summary.Get("message")
	assert.Equal(t, "Sample data generated", summaryMsg)
	assert.Empty(t, data.Charts)
}

func TestGenerate_SeedIsReproducible(t *testing.T) {
	g := newTestGenerator()
	opts := Options{Type: models.ReportTypeCustomer, Seed: 2024}

	a, err := json.Marshal(generate(t, g, opts).Records)
	require.NoError(t, err)
	b, err := json.Marshal(generate(t, g, opts).Records)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

type panickingStrategy struct{ placeholderStrategy }

func (panickingStrategy) Records(Request, *rand.Rand) []models.Record {
	panic("boom")
}

func TestGenerate_PanicBecomesGenerationFailure(t *testing.T) {
	g := newTestGenerator(WithStrategy("broken", panickingStrategy{}))

	data, err := g.Generate(context.Background(), Options{Type: "broken"})
	assert.Nil(t, data)
	assert.True(t, errors.Is(err, apperrors.ErrGenerationFailed), "got %v", err)
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestGenerator().Generate(ctx, Options{Type: models.ReportTypeSales})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFloorPercent(t *testing.T) {
	assert.Equal(t, 33, floorPercent(1, 3))
	assert.Equal(t, -34, floorPercent(-1, 3))
	assert.Equal(t, 0, floorPercent(5, 0))
}

func keysOf(r models.Record) []string {
	var keys []string
	for p := r.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}
