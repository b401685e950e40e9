package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/app"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/auth"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/config"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/handlers"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/logging"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/middleware"
)

// Version is set at build time via ldflags
var Version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("redis_host", cfg.Redis.Host),
		zap.String("upload_dir", cfg.Storage.UploadDir),
		zap.String("data_dir", cfg.Storage.DataDir))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	authService, err := auth.NewAuthService(auth.Config{
		EnableVerification: cfg.Auth.EnableVerification,
		Secret:             cfg.Auth.JWTSecret,
		Issuer:             cfg.Auth.Issuer,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}
	authMiddleware := auth.NewMiddleware(authService, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, a.DashboardService, logger).RegisterRoutes(mux)
	handlers.NewDatasourcesHandler(a.DatasourceService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewReportsHandler(a.ReportService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewDashboardHandler(a.DashboardService, a.QualityService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewSchedulesHandler(a.ScheduleService, logger).RegisterRoutes(mux, authMiddleware)

	if cfg.Jobs.EnableScheduler {
		if err := a.ScheduleService.Start(ctx); err != nil {
			return fmt.Errorf("failed to start schedules: %w", err)
		}
		defer a.ScheduleService.Stop()
	}
	a.RetentionService.RunScheduler(ctx, cfg.Jobs.RetentionDays, cfg.Jobs.RetentionInterval)

	var handler http.Handler = mux
	handler = middleware.RequestLogger(logger)(handler)
	handler = middleware.Recoverer(logger)(handler)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// PDF exports launch a browser, so writes get a generous budget.
		WriteTimeout: cfg.Export.RenderTimeout + 30*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting metricnex dashboard",
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.Version),
			zap.Bool("tls", cfg.TLSCertPath != ""))
		var err error
		if cfg.TLSCertPath != "" {
			err = srv.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
