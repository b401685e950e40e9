package mysql

import (
	"strings"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/config"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// Config contains MySQL connection options.
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// DefaultPort returns the default MySQL port.
func DefaultPort() int {
	return 3306
}

// FromMap creates a Config from a stored data source config.
func FromMap(cfg models.ConnectionConfig) *Config {
	port, ok := datasource.Port(cfg, DefaultPort())
	if !ok {
		port = DefaultPort()
	}
	return &Config{
		Host:     strings.TrimSpace(cfg.Get("host")),
		Port:     port,
		Database: strings.TrimSpace(cfg.Get("database")),
		User:     strings.TrimSpace(cfg.Get("user")),
		Password: cfg.Get("password"),
	}
}

// DialHost returns the host to dial, resolving localhost when running in Docker.
func (c *Config) DialHost() string {
	return config.ResolveHostForDocker(c.Host)
}
