package searchconsole

import (
	"context"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	gsc "google.golang.org/api/searchconsole/v1"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// ProviderType is the data source type handled by this package.
const ProviderType = "google_search_console"

var siteURLPattern = regexp.MustCompile(`^https?://`)

func init() {
	datasource.Register(datasource.Registration{
		Info: datasource.ProviderInfo{
			Type:        ProviderType,
			DisplayName: "Google Search Console",
			ProbeName:   datasource.DefaultProbeName,
		},
		Checks: Checks,
		Probe:  Probe,
	})
}

// Checks validates the site URL and OAuth credentials.
func Checks(cfg models.ConnectionConfig) []models.Check {
	checks := []models.Check{
		datasource.Matches("Site URL format", siteURLPattern, siteURL(cfg), "Full URL required"),
	}
	return append(checks, datasource.OAuthChecks(cfg)...)
}

// Probe lists the sites visible to the account and looks for the configured one.
// A missing site still passes: the credentials work, the property is just not shared.
func Probe(ctx context.Context, env datasource.ProbeEnv, cfg models.ConnectionConfig) models.Check {
	const name = datasource.DefaultProbeName

	client := datasource.GoogleRefreshTokenClient(ctx, env, cfg, gsc.WebmastersReadonlyScope)
	svc, err := gsc.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return datasource.ProbeFailed(name, err)
	}

	resp, err := svc.Sites.List().Context(ctx).Do()
	if err != nil {
		return datasource.ProbeFailed(name, err)
	}
	want := siteURL(cfg)
	for _, site := range resp.SiteEntry {
		if site.SiteUrl == want {
			return models.Check{Name: name, OK: true, Message: "Site accessible"}
		}
	}
	return models.Check{Name: name, OK: true, Message: "Site not found in account"}
}

func siteURL(cfg models.ConnectionConfig) string {
	return strings.TrimSpace(cfg.Get("siteUrl"))
}
