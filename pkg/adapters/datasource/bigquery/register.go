package bigquery

import (
	"context"
	"strings"

	bq "google.golang.org/api/bigquery/v2"
	"google.golang.org/api/option"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// ProviderType is the data source type handled by this package.
const ProviderType = "bigquery"

func init() {
	datasource.Register(datasource.Registration{
		Info: datasource.ProviderInfo{
			Type:        ProviderType,
			DisplayName: "BigQuery",
			ProbeName:   datasource.DefaultProbeName,
		},
		Checks: Checks,
		Probe:  Probe,
	})
}

// Checks validates the project id and the service account blob.
func Checks(cfg models.ConnectionConfig) []models.Check {
	raw := serviceAccount(cfg)
	checks := []models.Check{
		datasource.Present("Project ID", projectID(cfg), ""),
		datasource.Present("Service Account present", raw, "Paste JSON or Base64"),
	}
	if raw == "" {
		return checks
	}
	if _, _, err := datasource.DecodeJSONBlob(raw); err != nil {
		return append(checks, models.Check{Name: "Service Account JSON", Message: "Invalid JSON/Base64"})
	}
	return append(checks, datasource.Pass("Service Account JSON"))
}

// Probe lists at most one dataset in the project.
func Probe(ctx context.Context, env datasource.ProbeEnv, cfg models.ConnectionConfig) models.Check {
	const name = datasource.DefaultProbeName

	credentials, _, err := datasource.DecodeJSONBlob(serviceAccount(cfg))
	if err != nil {
		return datasource.ProbeFailed(name, err)
	}
	client, err := datasource.GoogleServiceAccountClient(ctx, env, credentials, bq.BigqueryScope)
	if err != nil {
		return datasource.ProbeFailed(name, err)
	}
	svc, err := bq.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return datasource.ProbeFailed(name, err)
	}

	if _, err := svc.Datasets.List(projectID(cfg)).MaxResults(1).Context(ctx).Do(); err != nil {
		return datasource.ProbeFailed(name, err)
	}
	return models.Check{Name: name, OK: true, Message: "BigQuery reachable"}
}

func projectID(cfg models.ConnectionConfig) string {
	return strings.TrimSpace(cfg.Get("projectId"))
}

func serviceAccount(cfg models.ConnectionConfig) string {
	return strings.TrimSpace(cfg.Get("serviceAccount"))
}
