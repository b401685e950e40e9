package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/logging"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

const (
	DefaultProbeTimeout    = 5 * time.Second
	DefaultTCPProbeTimeout = 3 * time.Second

	// DefaultProbeName is used when a provider does not name its live check.
	DefaultProbeName = "Live API call"
)

// ProbeEnv carries the outbound clients and limits available to live probes.
type ProbeEnv struct {
	// HTTPClient is used for every outbound HTTP call, including OAuth token
	// exchanges. It should not set its own Timeout; probes are bounded by ctx.
	HTTPClient *http.Client
	Timeout    time.Duration
	TCPTimeout time.Duration
	Logger     *zap.Logger
}

// Validator runs the registered rule set for a provider type.
type Validator struct {
	env    ProbeEnv
	logger *zap.Logger
}

// NewValidator creates a Validator. Zero values in env are replaced by defaults.
func NewValidator(env ProbeEnv, logger *zap.Logger) *Validator {
	if env.HTTPClient == nil {
		env.HTTPClient = &http.Client{}
	}
	if env.Timeout <= 0 {
		env.Timeout = DefaultProbeTimeout
	}
	if env.TCPTimeout <= 0 {
		env.TCPTimeout = DefaultTCPProbeTimeout
	}
	logger = logger.Named("validator")
	if env.Logger == nil {
		env.Logger = logger
	}
	return &Validator{env: env, logger: logger}
}

// Validate checks cfg against the rules for providerType. The live probe runs
// only when live is set and every static check passed. Validate never fails:
// problems are reported as failing checks in the result.
func (v *Validator) Validate(ctx context.Context, providerType string, cfg models.ConnectionConfig, live bool) *models.ValidationResult {
	result := models.NewValidationResult(providerType)

	reg, ok := lookup(providerType)
	if !ok {
		result.Add(models.Check{Name: "Unknown provider", Message: "No test implemented for this provider type"})
		return result
	}

	for _, c := range v.staticChecks(reg, cfg.Clone()) {
		result.Add(c)
	}

	if !live || reg.Probe == nil {
		return result
	}
	if !result.Passed() {
		v.logger.Debug("Skipping live probe, static checks failed",
			zap.String("provider", providerType))
		return result
	}

	result.Add(v.probe(ctx, reg, cfg.Clone()))
	return result
}

func (v *Validator) staticChecks(reg Registration, cfg models.ConnectionConfig) (checks []models.Check) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("Static checks panicked",
				zap.String("provider", reg.Info.Type),
				zap.String("panic", logging.SanitizeMessage(fmt.Sprint(r))))
			checks = append(checks, models.Check{Name: "Configuration", Message: "Configuration could not be checked"})
		}
	}()
	return reg.Checks(cfg)
}

func (v *Validator) probe(ctx context.Context, reg Registration, cfg models.ConnectionConfig) (check models.Check) {
	name := reg.Info.ProbeName
	if name == "" {
		name = DefaultProbeName
	}

	ctx, cancel := context.WithTimeout(ctx, v.env.Timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			check = models.Check{Name: name, Message: logging.SanitizeMessage(fmt.Sprint(r))}
		}
		if check.Name == "" {
			check.Name = name
		}
		if !check.OK && check.Message == "" && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			check.Message = "Timeout"
		}
		check.Message = logging.SanitizeMessage(check.Message)

		v.logger.Info("Live probe finished",
			zap.String("provider", reg.Info.Type),
			zap.Bool("ok", check.OK),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("message", check.Message))
	}()

	return reg.Probe(ctx, v.env, cfg)
}
