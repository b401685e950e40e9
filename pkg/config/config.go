package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the dashboard server.
// Values come from config.yaml and are overridden by environment variables.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"5000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:""` // Empty means debug for local, info otherwise
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// TLS configuration (optional - if both provided, server uses HTTPS)
	TLSCertPath string `yaml:"tls_cert_path" env:"TLS_CERT_PATH" env-default:""`
	TLSKeyPath  string `yaml:"tls_key_path" env:"TLS_KEY_PATH" env-default:""`

	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Export   ExportConfig   `yaml:"export"`
	Probe    ProbeConfig    `yaml:"probe"`
	Jobs     JobsConfig     `yaml:"jobs"`

	// CredentialsKey enables at-rest encryption of data-source secrets.
	// 32-byte base64 key or passphrase. Generate with: openssl rand -base64 32
	CredentialsKey string `yaml:"-" env:"CREDENTIALS_KEY"` // Secret - not in YAML
}

// AuthConfig holds bearer token verification settings.
type AuthConfig struct {
	// EnableVerification controls whether JWT tokens are validated.
	// Set to false for local development.
	EnableVerification bool   `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"false"`
	Issuer             string `yaml:"issuer" env:"AUTH_ISSUER" env-default:""`
	JWTSecret          string `yaml:"-" env:"JWT_SECRET"` // Secret - not in YAML
}

// DatabaseConfig holds PostgreSQL settings for the report store.
// An empty Host disables the store and the dashboard falls back to disk counts.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"metricnex"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"ecommerce_dashboard"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// RedisConfig holds report cache settings. An empty Host disables caching.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	// ReportTTL is how long a fetched report stays cached.
	ReportTTL time.Duration `yaml:"report_ttl" env:"REDIS_REPORT_TTL" env-default:"1h"`
}

// StorageConfig holds on-disk locations.
type StorageConfig struct {
	// UploadDir is the base directory export paths are reported relative to.
	UploadDir string `yaml:"upload_dir" env:"UPLOAD_DIR" env-default:"uploads"`
	// DataDir holds the data-sources.json and schedules.json documents.
	DataDir string `yaml:"data_dir" env:"DATA_DIR" env-default:"uploads/data"`
}

// ExportConfig holds PDF rendering settings.
type ExportConfig struct {
	// ChromePath overrides the browser binary chromedp launches. Empty means auto-detect.
	ChromePath    string        `yaml:"chrome_path" env:"CHROME_PATH" env-default:""`
	RenderTimeout time.Duration `yaml:"render_timeout" env:"PDF_RENDER_TIMEOUT" env-default:"60s"`
}

// ProbeConfig bounds live connectivity checks against external providers.
type ProbeConfig struct {
	Timeout    time.Duration `yaml:"timeout" env:"PROBE_TIMEOUT" env-default:"5s"`
	TCPTimeout time.Duration `yaml:"tcp_timeout" env:"PROBE_TCP_TIMEOUT" env-default:"3s"`
}

// JobsConfig holds background job settings.
type JobsConfig struct {
	RetentionDays     int           `yaml:"retention_days" env:"RETENTION_DAYS" env-default:"30"`
	RetentionInterval time.Duration `yaml:"retention_interval" env:"RETENTION_INTERVAL" env-default:"24h"`
	EnableScheduler   bool          `yaml:"enable_scheduler" env:"ENABLE_SCHEDULER" env-default:"true"`
	// SlackWebhookURL is used for schedules that do not name their own webhook.
	SlackWebhookURL string `yaml:"-" env:"SLACK_WEBHOOK_URL"` // Secret - not in YAML
}

// Load reads configuration from config.yaml with environment variable overrides.
// A missing config.yaml is not an error; environment and defaults apply.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validateTLS(); err != nil {
		return nil, fmt.Errorf("invalid TLS configuration: %w", err)
	}

	if cfg.Auth.EnableVerification && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required when auth verification is enabled")
	}

	// Auto-derive BaseURL from Port if not explicitly set
	if cfg.BaseURL == "" {
		scheme := "http"
		if cfg.TLSCertPath != "" {
			scheme = "https"
		}
		cfg.BaseURL = (&url.URL{
			Scheme: scheme,
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

// validateTLS ensures cert and key are provided together and exist on disk.
func (c *Config) validateTLS() error {
	certSet := c.TLSCertPath != ""
	keySet := c.TLSKeyPath != ""

	if certSet != keySet {
		return fmt.Errorf("both tls_cert_path and tls_key_path must be provided together")
	}

	if certSet {
		if _, err := os.Stat(c.TLSCertPath); err != nil {
			return fmt.Errorf("TLS cert file does not exist: %w", err)
		}
		if _, err := os.Stat(c.TLSKeyPath); err != nil {
			return fmt.Errorf("TLS key file does not exist: %w", err)
		}
	}

	return nil
}

// ConnectionString returns a PostgreSQL connection URL.
func (c *DatabaseConfig) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", ResolveHostForDocker(c.Host), c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// Enabled reports whether a report store is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != ""
}
