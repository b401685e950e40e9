package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	_ "github.com/microsoft/go-mssqldb" // SQL Server driver

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/config"
)

// buildConnectionString builds a sqlserver URL for SQL authentication.
func buildConnectionString(cfg *Config, timeout time.Duration) string {
	query := url.Values{}
	query.Add("database", cfg.Database)
	query.Add("encrypt", strconv.FormatBool(cfg.Encrypt))
	if cfg.TrustServerCertificate {
		query.Add("TrustServerCertificate", "true")
	}
	if secs := int(timeout.Seconds()); secs > 0 {
		query.Add("connection timeout", strconv.Itoa(secs))
	}

	return fmt.Sprintf("sqlserver://%s:%s@%s:%d?%s",
		url.QueryEscape(cfg.Username),
		url.QueryEscape(cfg.Password),
		config.ResolveHostForDocker(cfg.Host),
		cfg.Port,
		query.Encode(),
	)
}

// TestConnection verifies the server is reachable with valid credentials.
func TestConnection(ctx context.Context, cfg *Config, timeout time.Duration) error {
	db, err := sql.Open("sqlserver", buildConnectionString(cfg, timeout))
	if err != nil {
		return fmt.Errorf("open SQL auth connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}
	return nil
}
