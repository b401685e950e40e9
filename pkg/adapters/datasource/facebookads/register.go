package facebookads

import (
	"context"
	"net/http"
	"regexp"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// ProviderType is the data source type handled by this package.
const ProviderType = "facebook_ads"

var accountPattern = regexp.MustCompile(`^act_\d+`)

func init() {
	datasource.Register(datasource.Registration{
		Info: datasource.ProviderInfo{
			Type:        ProviderType,
			DisplayName: "Facebook Ads",
			ProbeName:   datasource.DefaultProbeName,
		},
		Checks: Checks,
		Probe:  Probe,
	})
}

// Checks validates the ad account id and token.
func Checks(cfg models.ConnectionConfig) []models.Check {
	c := FromMap(cfg)
	return []models.Check{
		datasource.Matches("Ad Account ID format", accountPattern, c.AccountID, "Must start with act_"),
		datasource.Present("Access token presence", c.AccessToken, "Access token is required"),
	}
}

// Probe reads the ad account name from the Graph API.
func Probe(ctx context.Context, env datasource.ProbeEnv, cfg models.ConnectionConfig) models.Check {
	c := FromMap(cfg)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.AccountURL(), nil)
	if err != nil {
		return datasource.ProbeFailed(datasource.DefaultProbeName, err)
	}
	return datasource.HTTPProbe(env, req, datasource.DefaultProbeName, "Facebook Graph API reachable")
}
