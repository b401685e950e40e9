package mssql

import (
	"strconv"
	"strings"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// Config contains SQL Server connection options. Only SQL authentication
// is supported.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string

	Encrypt                bool
	TrustServerCertificate bool
}

// DefaultPort returns the default SQL Server port.
func DefaultPort() int {
	return 1433
}

// FromMap creates a Config from a stored data source config.
// Encryption is on unless "encrypt" is explicitly false.
func FromMap(cfg models.ConnectionConfig) *Config {
	port, ok := datasource.Port(cfg, DefaultPort())
	if !ok {
		port = DefaultPort()
	}

	c := &Config{
		Host:     strings.TrimSpace(cfg.Get("host")),
		Port:     port,
		Database: strings.TrimSpace(cfg.Get("database")),
		Username: strings.TrimSpace(cfg.Get("user")),
		Password: cfg.Get("password"),
		Encrypt:  true,
	}
	if v, err := strconv.ParseBool(cfg.Get("encrypt")); err == nil {
		c.Encrypt = v
	}
	if v, err := strconv.ParseBool(cfg.Get("trustServerCertificate")); err == nil {
		c.TrustServerCertificate = v
	}
	return c
}
