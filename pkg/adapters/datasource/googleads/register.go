package googleads

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// ProviderType is the data source type handled by this package.
const ProviderType = "google_ads"

const probeQuery = "SELECT customer.id FROM customer LIMIT 1"

var customerIDPattern = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)

func init() {
	datasource.Register(datasource.Registration{
		Info: datasource.ProviderInfo{
			Type:        ProviderType,
			DisplayName: "Google Ads",
			ProbeName:   datasource.DefaultProbeName,
		},
		Checks: Checks,
		Probe:  Probe,
	})
}

// Checks validates the customer id format and OAuth credentials.
func Checks(cfg models.ConnectionConfig) []models.Check {
	c := FromMap(cfg)
	return []models.Check{
		datasource.Matches("Customer ID format", customerIDPattern, c.CustomerID, "Format must be xxx-xxx-xxxx"),
		datasource.Present("Developer token", c.DeveloperToken, "Developer token is required"),
		datasource.Present("Client ID", c.ClientID, "Client ID is required"),
		datasource.Present("Client secret", c.ClientSecret, "Client secret is required"),
		datasource.Present("Refresh token", c.RefreshToken, "Refresh token is required"),
	}
}

// Probe runs a one-row GAQL query against the customer.
func Probe(ctx context.Context, env datasource.ProbeEnv, cfg models.ConnectionConfig) models.Check {
	const name = datasource.DefaultProbeName
	c := FromMap(cfg)

	body, err := json.Marshal(map[string]string{"query": probeQuery})
	if err != nil {
		return datasource.ProbeFailed(name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.SearchURL(), bytes.NewReader(body))
	if err != nil {
		return datasource.ProbeFailed(name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("developer-token", c.DeveloperToken)
	if login := c.APILoginCustomerID(); login != "" {
		req.Header.Set("login-customer-id", login)
	}

	client := datasource.GoogleRefreshTokenClient(ctx, env, cfg, Scope)
	return datasource.HTTPProbe(datasource.ProbeEnv{HTTPClient: client}, req, name, "Google Ads API reachable")
}
