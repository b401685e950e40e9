package merchantcenter

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	content "google.golang.org/api/content/v2.1"
	"google.golang.org/api/option"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// ProviderType is the data source type handled by this package.
const ProviderType = "google_merchant_center"

var merchantIDPattern = regexp.MustCompile(`^\d{3,}$`)

func init() {
	datasource.Register(datasource.Registration{
		Info: datasource.ProviderInfo{
			Type:        ProviderType,
			DisplayName: "Google Merchant Center",
			ProbeName:   datasource.DefaultProbeName,
		},
		Checks: Checks,
		Probe:  Probe,
	})
}

// Checks validates the merchant id and OAuth credentials.
func Checks(cfg models.ConnectionConfig) []models.Check {
	checks := []models.Check{
		datasource.Matches("Merchant ID", merchantIDPattern, merchantID(cfg), "Numeric Merchant ID"),
	}
	return append(checks, datasource.OAuthChecks(cfg)...)
}

// Probe reads the merchant's own account resource.
func Probe(ctx context.Context, env datasource.ProbeEnv, cfg models.ConnectionConfig) models.Check {
	const name = datasource.DefaultProbeName

	id, err := strconv.ParseUint(merchantID(cfg), 10, 64)
	if err != nil {
		return datasource.ProbeFailed(name, err)
	}

	client := datasource.GoogleRefreshTokenClient(ctx, env, cfg, content.ContentScope)
	svc, err := content.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return datasource.ProbeFailed(name, err)
	}

	account, err := svc.Accounts.Get(id, id).Context(ctx).Do()
	if err != nil {
		return datasource.ProbeFailed(name, err)
	}
	if account == nil {
		return models.Check{Name: name, Message: "Cannot access merchant"}
	}
	return models.Check{Name: name, OK: true, Message: "Merchant accessible"}
}

func merchantID(cfg models.ConnectionConfig) string {
	return strings.TrimSpace(cfg.Get("merchantId"))
}
