package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/apperrors"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/export"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/logging"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/reporting"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/repositories"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/retry"
)

// ScheduleTaskReport is the only task type a schedule runs.
const ScheduleTaskReport = "report"

// ScheduleService manages cron-triggered report exports.
type ScheduleService interface {
	// List returns every schedule with NextRunAt computed from its cron.
	List(ctx context.Context) ([]*models.Schedule, error)

	// Create validates the cron expression and task and stores s.
	Create(ctx context.Context, s *models.Schedule) (*models.Schedule, error)

	// Delete removes a schedule and its cron entry.
	Delete(ctx context.Context, id string) error

	// RunNow generates and exports the schedule's report, posts the Slack
	// notification when a webhook is configured, and records lastRunAt.
	RunNow(ctx context.Context, id string) (*models.ScheduleRun, error)

	// Start registers every active schedule on the cron runner.
	// Runs stop when ctx is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop halts the cron runner and waits for running jobs.
	Stop()
}

type scheduleService struct {
	repo           repositories.ScheduleRepository
	generator      ReportGenerator
	exporter       ReportExporter
	httpClient     *http.Client
	retry          *retry.Config
	defaultWebhook string
	now            func() time.Time
	logger         *zap.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	runCtx  context.Context
	entries map[string]cron.EntryID
}

var _ ScheduleService = (*scheduleService)(nil)

// NewScheduleService creates a schedule service. defaultWebhook is used for
// schedules that do not carry their own Slack webhook; empty disables it.
func NewScheduleService(
	repo repositories.ScheduleRepository,
	generator ReportGenerator,
	exporter ReportExporter,
	httpClient *http.Client,
	defaultWebhook string,
	logger *zap.Logger,
) ScheduleService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &scheduleService{
		repo:           repo,
		generator:      generator,
		exporter:       exporter,
		httpClient:     httpClient,
		retry:          retry.WebhookConfig(),
		defaultWebhook: defaultWebhook,
		now:            time.Now,
		logger:         logger.Named("schedule-service"),
		entries:        make(map[string]cron.EntryID),
	}
}

func (s *scheduleService) List(ctx context.Context) ([]*models.Schedule, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	for _, sch := range list {
		sch.NextRunAt = s.nextRun(sch)
	}
	return list, nil
}

func (s *scheduleService) Create(ctx context.Context, sch *models.Schedule) (*models.Schedule, error) {
	sch.Name = strings.TrimSpace(sch.Name)
	if sch.Name == "" || strings.TrimSpace(sch.Cron) == "" {
		return nil, fmt.Errorf("%w: name and cron are required", apperrors.ErrInvalidInput)
	}
	if _, err := cron.ParseStandard(sch.Cron); err != nil {
		return nil, fmt.Errorf("%w: cron %q: %v", apperrors.ErrInvalidInput, sch.Cron, err)
	}
	if sch.Task.Type == "" {
		sch.Task.Type = ScheduleTaskReport
	}
	if sch.Task.Type != ScheduleTaskReport {
		return nil, fmt.Errorf("%w: unsupported task type %q", apperrors.ErrInvalidInput, sch.Task.Type)
	}
	if sch.Task.ReportType == "" {
		return nil, fmt.Errorf("%w: task.reportType is required", apperrors.ErrInvalidInput)
	}
	format, err := export.ParseFormat(string(sch.Task.Format))
	if err != nil {
		return nil, err
	}
	sch.Task.Format = format
	sch.LastRunAt = nil
	sch.NextRunAt = s.nextRun(sch)

	if err := s.repo.Create(ctx, sch); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	s.logger.Info("Created schedule",
		zap.String("schedule_id", sch.ID),
		zap.String("cron", sch.Cron),
		zap.Bool("active", sch.IsActive))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil && sch.IsActive {
		s.registerLocked(sch)
	}
	return sch, nil
}

func (s *scheduleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	if entryID, ok := s.entries[id]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, id)
	}
	s.mu.Unlock()

	s.logger.Info("Deleted schedule", zap.String("schedule_id", id))
	return nil
}

func (s *scheduleService) RunNow(ctx context.Context, id string) (*models.ScheduleRun, error) {
	sch, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	run := &models.ScheduleRun{
		RunID:      "run_" + uuid.NewString(),
		ScheduleID: sch.ID,
		At:         now,
		Slack:      models.NotifyResult{Status: models.NotifySkipped},
	}

	report, err := s.buildReport(ctx, sch, now)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: %w", sch.ID, err)
	}
	run.ReportID = report.ID

	artifact, err := s.exporter.Export(ctx, report, string(sch.Task.Format))
	if err != nil {
		return nil, fmt.Errorf("schedule %s: %w", sch.ID, err)
	}
	run.Artifact = artifact

	if webhook := s.webhookFor(sch); webhook != "" {
		text := fmt.Sprintf("Scheduled report %s (%s) exported %s at %s",
			sch.Name, sch.Task.ReportType, artifact.Filename, now.Format(time.RFC3339))
		run.Slack = s.notifySlack(ctx, webhook, text)
	}

	sch.LastRunAt = &now
	sch.NextRunAt = s.nextRun(sch)
	if err := s.repo.Update(ctx, sch); err != nil {
		return nil, fmt.Errorf("failed to record schedule run: %w", err)
	}

	s.logger.Info("Ran schedule",
		zap.String("schedule_id", sch.ID),
		zap.String("report_id", report.ID),
		zap.String("artifact", artifact.FilePath),
		zap.String("slack", string(run.Slack.Status)))

	return run, nil
}

// buildReport generates an unsaved report for the schedule's task.
func (s *scheduleService) buildReport(ctx context.Context, sch *models.Schedule, now time.Time) (*models.Report, error) {
	opts := reporting.Options{
		Type:    sch.Task.ReportType,
		Filters: sch.Task.Filters,
	}
	if sch.Task.LookbackDays > 0 {
		opts.TimeRange = &models.TimeRange{
			Start: now.AddDate(0, 0, -sch.Task.LookbackDays).Format(models.DateLayout),
			End:   now.Format(models.DateLayout),
		}
	}

	data, err := s.generator.Generate(ctx, opts)
	if err != nil {
		return nil, err
	}

	title := sch.Task.Title
	if title == "" {
		title = sch.Name
	}
	filters := sch.Task.Filters
	if filters == nil {
		filters = []models.Filter{}
	}
	var tr models.TimeRange
	if opts.TimeRange != nil {
		tr = *opts.TimeRange
	}

	return &models.Report{
		ID:     uuid.NewString(),
		Title:  title,
		Type:   sch.Task.ReportType,
		Format: sch.Task.Format,
		Status: models.ReportStatusPublished,
		Data:   data,
		Metadata: models.ReportMetadata{
			GeneratedAt:   now,
			TimeRange:     tr,
			Filters:       filters,
			TotalRecords:  len(data.Records),
			ExecutionTime: data.ExecutionTime,
			Version:       models.ReportVersion,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *scheduleService) webhookFor(sch *models.Schedule) string {
	if sch.Notify.SlackWebhookURL != "" {
		return sch.Notify.SlackWebhookURL
	}
	return s.defaultWebhook
}

// notifySlack posts text to an incoming webhook, retrying rate limits and
// server errors. Failures are reported in the result, never returned.
func (s *scheduleService) notifySlack(ctx context.Context, webhook, text string) models.NotifyResult {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return models.NotifyResult{Status: models.NotifyFailed, Message: err.Error()}
	}

	var status int
	err = retry.DoIfRetryable(ctx, s.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

		status = resp.StatusCode
		if status < 200 || status > 299 {
			return &retry.StatusError{StatusCode: status}
		}
		return nil
	})
	if err == nil {
		return models.NotifyResult{Status: models.NotifyOK, Message: fmt.Sprintf("HTTP %d", status)}
	}

	// Webhook URLs embed their secret; keep it out of the message.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	msg := logging.SanitizeError(err)
	s.logger.Warn("Slack notification failed", zap.String("error", msg))
	return models.NotifyResult{Status: models.NotifyFailed, Message: msg}
}

func (s *scheduleService) nextRun(sch *models.Schedule) *time.Time {
	if !sch.IsActive {
		return nil
	}
	spec, err := cron.ParseStandard(sch.Cron)
	if err != nil {
		return nil
	}
	next := spec.Next(s.now()).UTC()
	return &next
}

func (s *scheduleService) Start(ctx context.Context) error {
	list, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}
	s.cron = cron.New()
	s.runCtx = ctx
	for _, sch := range list {
		if sch.IsActive {
			s.registerLocked(sch)
		}
	}
	s.cron.Start()

	s.logger.Info("Schedule runner started", zap.Int("active", len(s.entries)))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

func (s *scheduleService) registerLocked(sch *models.Schedule) {
	id := sch.ID
	entryID, err := s.cron.AddFunc(sch.Cron, func() {
		if _, err := s.RunNow(s.runCtx, id); err != nil {
			s.logger.Error("Scheduled run failed",
				zap.String("schedule_id", id),
				zap.Error(err))
		}
	})
	if err != nil {
		s.logger.Warn("Skipping schedule with invalid cron",
			zap.String("schedule_id", id),
			zap.String("cron", sch.Cron),
			zap.Error(err))
		return
	}
	s.entries[id] = entryID
}

func (s *scheduleService) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.entries = make(map[string]cron.EntryID)
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.Info("Schedule runner stopped")
}
