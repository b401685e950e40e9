// Package app wires configuration, storage and services into a running
// dashboard. The HTTP server and the reportctl CLI share it.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	datasourceadapter "github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource"
	_ "github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource/all"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/config"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/crypto"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/database"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/export"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/logging"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/reporting"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/repositories"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/services"
)

// connectTimeout bounds the startup connection attempts to Postgres and Redis.
const connectTimeout = 10 * time.Second

// Options select which optional backends New tries to reach.
type Options struct {
	// SkipDatabase leaves the report store unconfigured even when the config
	// names a host. Offline CLI commands set it.
	SkipDatabase bool
	// SkipRedis leaves the report cache disabled.
	SkipRedis bool
}

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	DB    *database.DB  // nil when no report store is available
	Redis *redis.Client // nil when caching is disabled

	Artifacts *export.ArtifactStore
	Exporter  *export.Exporter
	Generator *reporting.Generator
	Validator *datasourceadapter.Validator

	Datasources repositories.DatasourceRepository
	Schedules   repositories.ScheduleRepository
	Reports     repositories.ReportRepository // nil when DB is nil
	ReportCache repositories.ReportCache

	DatasourceService services.DatasourceService
	ReportService     services.ReportService
	DashboardService  services.DashboardService
	ScheduleService   services.ScheduleService
	RetentionService  services.RetentionService
	QualityService    services.QualityService
}

// New builds every component. Postgres and Redis are optional: when they are
// unreachable a warning is logged and the app runs without them.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	if !opts.SkipDatabase {
		a.initDatabase(ctx)
	}
	if !opts.SkipRedis {
		a.initRedis(ctx)
	}

	if err := a.initStorage(); err != nil {
		a.Close()
		return nil, err
	}
	a.initServices()

	return a, nil
}

func (a *App) initDatabase(ctx context.Context) {
	cfg := a.Config.Database
	if !cfg.Enabled() {
		a.Logger.Info("Report store disabled: no database host configured")
		return
	}

	connCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := database.NewConnection(connCtx, &database.Config{
		URL:            cfg.ConnectionString(),
		MaxConnections: cfg.MaxConnections,
	})
	if err != nil {
		a.Logger.Warn("Report store unavailable, continuing without it",
			zap.String("database", logging.SanitizeConnectionString(cfg.ConnectionString())),
			zap.String("error", logging.SanitizeError(err)))
		return
	}

	sqlDB := db.SQLDB()
	err = database.RunMigrations(sqlDB, cfg.MigrationsPath, a.Logger)
	_ = sqlDB.Close()
	if err != nil {
		a.Logger.Error("Report store migrations failed, continuing without it", zap.Error(err))
		db.Close()
		return
	}

	a.DB = db
	a.Logger.Info("Report store connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))
}

func (a *App) initRedis(ctx context.Context) {
	connCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := database.NewRedisClient(connCtx, &a.Config.Redis)
	if err != nil {
		a.Logger.Warn("Report cache unavailable, continuing without it",
			zap.String("error", logging.SanitizeError(err)))
		return
	}
	if client == nil {
		a.Logger.Info("Report cache disabled: no Redis host configured")
		return
	}
	a.Redis = client
}

func (a *App) initStorage() error {
	a.Artifacts = export.NewArtifactStore(a.Config.Storage.UploadDir, a.Logger)
	if err := a.Artifacts.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to prepare export directories: %w", err)
	}

	var box *crypto.SecretBox
	if a.Config.CredentialsKey != "" {
		var err error
		box, err = crypto.NewSecretBox(a.Config.CredentialsKey)
		if err != nil {
			return fmt.Errorf("invalid CREDENTIALS_KEY: %w", err)
		}
	} else {
		a.Logger.Warn("CREDENTIALS_KEY not set: data source secrets are stored in plaintext")
	}

	a.Datasources = repositories.NewDatasourceRepository(a.Config.Storage.DataDir, box, a.Logger)
	a.Schedules = repositories.NewScheduleRepository(a.Config.Storage.DataDir, a.Logger)
	if a.DB != nil {
		a.Reports = repositories.NewReportRepository(a.DB)
	}
	a.ReportCache = repositories.NewReportCache(a.Redis, a.Config.Redis.ReportTTL, a.Logger)
	return nil
}

func (a *App) initServices() {
	renderer := export.NewChromeRenderer(a.Config.Export.ChromePath, a.Config.Export.RenderTimeout, a.Logger)
	a.Exporter = export.NewExporter(a.Artifacts, renderer, a.Logger)
	a.Generator = reporting.NewGenerator(a.Logger)
	a.Validator = datasourceadapter.NewValidator(datasourceadapter.ProbeEnv{
		HTTPClient: &http.Client{},
		Timeout:    a.Config.Probe.Timeout,
		TCPTimeout: a.Config.Probe.TCPTimeout,
	}, a.Logger)

	a.DatasourceService = services.NewDatasourceService(a.Datasources, a.Validator, a.Logger)
	a.ReportService = services.NewReportService(a.Reports, a.ReportCache, a.Generator, a.Exporter, a.Logger)
	a.DashboardService = services.NewDashboardService(a.Reports, a.ReportCache, a.Schedules, a.Datasources, a.Artifacts, a.Logger)
	a.ScheduleService = services.NewScheduleService(a.Schedules, a.Generator, a.Exporter, nil, a.Config.Jobs.SlackWebhookURL, a.Logger)
	a.RetentionService = services.NewRetentionService(a.Artifacts, a.Logger)
	a.QualityService = services.NewQualityService(a.Datasources, a.Validator, a.Logger)
}

// Close releases the database pool and the Redis client.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
