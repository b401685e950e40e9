package shopify

import (
	"strings"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// APIVersion is the Admin REST API version used by the live probe.
const APIVersion = "2023-10"

// Config contains Shopify Admin API connection options.
type Config struct {
	ShopDomain  string
	AccessToken string
}

// FromMap creates a Config from a stored data source config.
func FromMap(cfg models.ConnectionConfig) *Config {
	return &Config{
		ShopDomain:  strings.TrimSpace(cfg.Get("shopDomain")),
		AccessToken: strings.TrimSpace(cfg.Get("accessToken")),
	}
}

// ShopURL returns the Admin API endpoint describing the shop.
func (c *Config) ShopURL() string {
	return "https://" + c.ShopDomain + "/admin/api/" + APIVersion + "/shop.json"
}
