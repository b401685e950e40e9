package postgres

import (
	"strconv"
	"strings"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// Config contains PostgreSQL-specific connection options.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // "disable", "require"
}

// DefaultPort returns the default PostgreSQL port.
func DefaultPort() int {
	return 5432
}

// DefaultSSLMode returns the SSL mode used when "ssl" is not "true".
func DefaultSSLMode() string {
	return "disable"
}

// FromMap creates a Config from a stored data source config.
// A non-numeric port falls back to DefaultPort; Checks reports it separately.
func FromMap(cfg models.ConnectionConfig) *Config {
	port, ok := datasource.Port(cfg, DefaultPort())
	if !ok {
		port = DefaultPort()
	}

	sslMode := DefaultSSLMode()
	if ssl, err := strconv.ParseBool(strings.TrimSpace(cfg.Get("ssl"))); err == nil && ssl {
		sslMode = "require"
	}

	return &Config{
		Host:     strings.TrimSpace(cfg.Get("host")),
		Port:     port,
		User:     strings.TrimSpace(cfg.Get("user")),
		Password: cfg.Get("password"),
		Database: strings.TrimSpace(cfg.Get("database")),
		SSLMode:  sslMode,
	}
}
