// Package all registers every provider rule set with the datasource registry.
package all

import (
	_ "github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource/bigquery"
	_ "github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource/facebookads"
	_ "github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource/googleads"
	_ "github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource/googleanalytics"
	_ "github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource/merchantcenter"
	_ "github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource/mssql"
	_ "github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource/mysql"
	_ "github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource/postgres"
	_ "github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource/searchconsole"
	_ "github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource/shopify"
)
