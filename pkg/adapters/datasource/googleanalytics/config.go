package googleanalytics

import (
	"strings"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// Config contains GA4 Data API connection options.
type Config struct {
	PropertyID  string
	Credentials string // service account JSON, inline or base64
}

// credentialKeys are the config keys that may hold the service account,
// in lookup order. Older records used the last two.
var credentialKeys = []string{"apiToken", "credentialsBase64", "serviceAccountJson"}

// FromMap creates a Config from a stored data source config.
func FromMap(cfg models.ConnectionConfig) *Config {
	return &Config{
		PropertyID:  strings.TrimSpace(cfg.Get("propertyId")),
		Credentials: strings.TrimSpace(cfg.FirstOf(credentialKeys...)),
	}
}

// PropertyName returns the resource name used by the Data API.
func (c *Config) PropertyName() string {
	return "properties/" + c.PropertyID
}
