package shopify

import (
	"context"
	"net/http"
	"strings"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// ProviderType is the data source type handled by this package.
const ProviderType = "shopify"

func init() {
	datasource.Register(datasource.Registration{
		Info: datasource.ProviderInfo{
			Type:        ProviderType,
			DisplayName: "Shopify Store",
			ProbeName:   datasource.DefaultProbeName,
		},
		Checks: Checks,
		Probe:  Probe,
	})
}

// Checks validates the shop domain and token.
func Checks(cfg models.ConnectionConfig) []models.Check {
	c := FromMap(cfg)

	domain := datasource.Pass("Shop domain format")
	if !strings.HasSuffix(c.ShopDomain, ".myshopify.com") {
		domain = models.Check{Name: "Shop domain format", Message: "Domain must end with .myshopify.com"}
	}
	return []models.Check{
		domain,
		datasource.Present("Access token presence", c.AccessToken, "Access token is required"),
	}
}

// Probe fetches the shop resource with the Admin API token.
func Probe(ctx context.Context, env datasource.ProbeEnv, cfg models.ConnectionConfig) models.Check {
	c := FromMap(cfg)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ShopURL(), nil)
	if err != nil {
		return datasource.ProbeFailed(datasource.DefaultProbeName, err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.AccessToken)
	req.Header.Set("Accept", "application/json")

	return datasource.HTTPProbe(env, req, datasource.DefaultProbeName, "Shopify Admin API reachable")
}
