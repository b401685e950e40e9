package googleanalytics

import (
	"context"
	"regexp"

	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// ProviderType is the data source type handled by this package.
const ProviderType = "google_analytics"

var propertyPattern = regexp.MustCompile(`^\d{3,}$`)

func init() {
	datasource.Register(datasource.Registration{
		Info: datasource.ProviderInfo{
			Type:        ProviderType,
			DisplayName: "Google Analytics",
			ProbeName:   datasource.DefaultProbeName,
		},
		Checks: Checks,
		Probe:  Probe,
	})
}

// Checks validates the property id and the service account blob.
func Checks(cfg models.ConnectionConfig) []models.Check {
	c := FromMap(cfg)
	checks := []models.Check{
		datasource.Matches("Property ID format", propertyPattern, c.PropertyID, "Numeric Property ID required"),
		datasource.Present("API token presence", c.Credentials, "Service Account JSON or Base64 is required"),
	}
	if c.Credentials == "" {
		return checks
	}

	_, sa, err := datasource.DecodeJSONBlob(c.Credentials)
	if err != nil {
		return append(checks, models.Check{
			Name:    "Token decodes to JSON",
			Message: "Provide full service account JSON or Base64-encoded JSON",
		})
	}
	return append(checks,
		datasource.Pass("Token decodes to JSON"),
		datasource.Present("Service account email", stringField(sa, "client_email"), "Missing client_email"),
		datasource.Present("Private key present", stringField(sa, "private_key"), "Missing private_key"),
	)
}

// Probe asks the Data API for one row of active users over the last week.
func Probe(ctx context.Context, env datasource.ProbeEnv, cfg models.ConnectionConfig) models.Check {
	const name = datasource.DefaultProbeName
	c := FromMap(cfg)

	credentials, _, err := datasource.DecodeJSONBlob(c.Credentials)
	if err != nil {
		return datasource.ProbeFailed(name, err)
	}
	client, err := datasource.GoogleServiceAccountClient(ctx, env, credentials, analyticsdata.AnalyticsReadonlyScope)
	if err != nil {
		return datasource.ProbeFailed(name, err)
	}
	svc, err := analyticsdata.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return datasource.ProbeFailed(name, err)
	}

	resp, err := svc.Properties.RunReport(c.PropertyName(), &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{{StartDate: "7daysAgo", EndDate: "today"}},
		Metrics:    []*analyticsdata.Metric{{Name: "activeUsers"}},
		Limit:      1,
	}).Context(ctx).Do()
	if err != nil {
		return datasource.ProbeFailed(name, err)
	}
	if resp.RowCount < 0 {
		return models.Check{Name: name, Message: "No rows returned"}
	}
	return models.Check{Name: name, OK: true, Message: "GA Data API reachable"}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
