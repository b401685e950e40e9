package mssql

import (
	"context"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// ProviderType is the data source type handled by this package.
const ProviderType = "mssql"

const probeName = "Live query"

func init() {
	datasource.Register(datasource.Registration{
		Info: datasource.ProviderInfo{
			Type:        ProviderType,
			DisplayName: "Microsoft SQL Server",
			ProbeName:   probeName,
		},
		Checks: Checks,
		Probe:  Probe,
	})
}

// Checks validates the connection fields.
func Checks(cfg models.ConnectionConfig) []models.Check {
	return datasource.SQLChecks(cfg, DefaultPort())
}

// Probe connects with SQL authentication and runs SELECT 1.
func Probe(ctx context.Context, env datasource.ProbeEnv, cfg models.ConnectionConfig) models.Check {
	timeout := datasource.SQLTimeout(env)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := TestConnection(ctx, FromMap(cfg), timeout); err != nil {
		return datasource.ProbeFailed(probeName, err)
	}
	return models.Check{Name: probeName, OK: true, Message: "SELECT 1 succeeded"}
}
