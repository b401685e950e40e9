// Package mysql validates MySQL data sources. The stored provider type is
// "database" for compatibility with existing records.
package mysql

import (
	"context"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// ProviderType is the data source type handled by this package.
const ProviderType = "database"

func init() {
	datasource.Register(datasource.Registration{
		Info: datasource.ProviderInfo{
			Type:        ProviderType,
			DisplayName: "MySQL Database",
			ProbeName:   "TCP connect",
		},
		Checks: Checks,
		Probe:  Probe,
	})
}

// Checks validates the connection fields.
func Checks(cfg models.ConnectionConfig) []models.Check {
	return datasource.SQLChecks(cfg, DefaultPort())
}

// Probe checks that the server port accepts TCP connections.
func Probe(ctx context.Context, env datasource.ProbeEnv, cfg models.ConnectionConfig) models.Check {
	c := FromMap(cfg)
	return datasource.TCPProbe(ctx, env, c.DialHost(), c.Port)
}
