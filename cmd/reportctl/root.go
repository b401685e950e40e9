package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/app"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/config"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/logging"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	logLevel  string
	dataDir   string
	uploadDir string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "reportctl",
		Short: "Operate the metricnex e-commerce dashboard from the command line",
		Long: `reportctl generates and exports reports, tests stored data source
connections and prunes old export files.

Configuration is read from config.yaml in the working directory with
environment variable overrides, exactly as the server does. The report
database and Redis are never contacted.

Examples:
  reportctl generate --type sales --seed 42
  reportctl export --type inventory --format html
  reportctl datasource test ds_123 --live
  reportctl prune --days 30 --dry-run`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Override the data directory holding data-sources.json")
	root.PersistentFlags().StringVar(&opts.uploadDir, "upload-dir", "", "Override the export base directory")

	root.AddCommand(
		newGenerateCmd(opts),
		newExportCmd(opts),
		newDatasourceCmd(opts),
		newPruneCmd(opts),
	)
	return root
}

// openApp loads configuration, applies flag overrides and builds the
// offline application. Callers must Close the result.
func openApp(cmd *cobra.Command, opts *globalOptions) (*app.App, error) {
	cfg, err := config.Load(Version)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.dataDir != "" {
		cfg.Storage.DataDir = opts.dataDir
	}
	if opts.uploadDir != "" {
		cfg.Storage.UploadDir = opts.uploadDir
	}

	logger, err := logging.NewLogger(cfg.Env, opts.logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	logger = logger.Named("reportctl")

	a, err := app.New(cmd.Context(), cfg, logger, app.Options{SkipDatabase: true, SkipRedis: true})
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	logger.Debug("Configuration loaded",
		zap.String("data_dir", cfg.Storage.DataDir),
		zap.String("upload_dir", cfg.Storage.UploadDir))
	return a, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
