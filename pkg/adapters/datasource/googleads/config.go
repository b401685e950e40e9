package googleads

import (
	"strings"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

const (
	// APIBase is the Google Ads REST endpoint.
	APIBase = "https://googleads.googleapis.com/v17"
	// Scope is the OAuth scope required by the Google Ads API.
	Scope = "https://www.googleapis.com/auth/adwords"
)

// Config contains Google Ads API connection options.
type Config struct {
	CustomerID      string // xxx-xxx-xxxx as entered
	DeveloperToken  string
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	LoginCustomerID string
}

// FromMap creates a Config from a stored data source config.
func FromMap(cfg models.ConnectionConfig) *Config {
	return &Config{
		CustomerID:      strings.TrimSpace(cfg.Get("customerId")),
		DeveloperToken:  strings.TrimSpace(cfg.Get("developerToken")),
		ClientID:        strings.TrimSpace(cfg.Get("clientId")),
		ClientSecret:    strings.TrimSpace(cfg.Get("clientSecret")),
		RefreshToken:    strings.TrimSpace(cfg.Get("refreshToken")),
		LoginCustomerID: strings.TrimSpace(cfg.Get("loginCustomerId")),
	}
}

// APICustomerID returns the customer id without dashes, as the API expects.
func (c *Config) APICustomerID() string {
	return strings.ReplaceAll(c.CustomerID, "-", "")
}

// APILoginCustomerID returns the manager account id without dashes.
func (c *Config) APILoginCustomerID() string {
	return strings.ReplaceAll(c.LoginCustomerID, "-", "")
}

// SearchURL returns the googleAds:search endpoint for the customer.
func (c *Config) SearchURL() string {
	return APIBase + "/customers/" + c.APICustomerID() + "/googleAds:search"
}
