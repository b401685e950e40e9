package facebookads

import (
	"net/url"
	"strings"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

const (
	// GraphHost is the Graph API host.
	GraphHost = "graph.facebook.com"
	// GraphVersion is the Graph API version used by the live probe.
	GraphVersion = "v17.0"
)

// Config contains Facebook Ads connection options.
type Config struct {
	AccountID   string
	AccessToken string
}

// FromMap creates a Config from a stored data source config.
func FromMap(cfg models.ConnectionConfig) *Config {
	return &Config{
		AccountID:   strings.TrimSpace(cfg.Get("accountId")),
		AccessToken: strings.TrimSpace(cfg.Get("accessToken")),
	}
}

// AccountURL returns the Graph API URL describing the ad account.
func (c *Config) AccountURL() string {
	u := url.URL{
		Scheme:   "https",
		Host:     GraphHost,
		Path:     "/" + GraphVersion + "/" + c.AccountID,
		RawQuery: url.Values{"fields": {"name"}, "access_token": {c.AccessToken}}.Encode(),
	}
	return u.String()
}
