package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/sunalert/sunalert/internal/schedule"
	"github.com/sunalert/sunalert/internal/settings"
	"github.com/sunalert/sunalert/internal/solar"
)

// RefreshJob keeps the rolling notification window fresh: it periodically
// rebuilds the scheduled set from the current settings so the window never
// drains as days pass.
type RefreshJob struct {
	config          Config
	logger          zerolog.Logger
	settingsService *settings.Service
	scheduler       *schedule.Service

	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	TotalRuns      int64
	SuccessfulRuns int64
	FailedRuns     int64
	SkippedRuns    int64
	TotalSubmitted int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config          Config
	Logger          zerolog.Logger
	SettingsService *settings.Service
	Scheduler       *schedule.Service
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	return &RefreshJob{
		config:          cfg.Config.withDefaults(),
		logger:          cfg.Logger,
		settingsService: cfg.SettingsService,
		scheduler:       cfg.Scheduler,
		metrics:         &RefreshMetrics{},
	}
}

// RefreshResult contains the result of one refresh run.
type RefreshResult struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Skipped is true when no location is configured yet; there is
	// nothing to schedule until the user picks one.
	Skipped bool

	WindowDays        int
	Submitted         int
	SkippedPast       int
	SkippedDisabled   int
	SkippedNoCrossing int
	FailedSubmissions int
}

// Run executes one refresh: cancel the scheduled set and rebuild the window
// from the current settings.
//
// A run that aborts before anything was scheduled (cancel failure) is
// retried with exponential backoff. Individual submission failures are not
// retried here: the scheduler already attempted every surviving instant, and
// the next interval tick will rebuild the window anyway.
func (j *RefreshJob) Run(ctx context.Context) (*RefreshResult, error) {
	startTime := time.Now()
	result := &RefreshResult{StartTime: startTime}

	runCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	cfg, err := j.settingsService.Get(runCtx)
	if err != nil {
		j.finish(result, startTime)
		j.recordRun(result, err)
		return result, err
	}

	if cfg.Location == nil {
		result.Skipped = true
		j.finish(result, startTime)
		j.recordRun(result, nil)
		j.logger.Debug().Msg("refresh skipped: no location configured")
		return result, nil
	}

	scheduleResult, err := j.rescheduleWithRetry(runCtx, cfg)
	if scheduleResult != nil {
		result.WindowDays = scheduleResult.WindowDays
		result.Submitted = scheduleResult.Submitted
		result.SkippedPast = scheduleResult.SkippedPast
		result.SkippedDisabled = scheduleResult.SkippedDisabled
		result.SkippedNoCrossing = scheduleResult.SkippedNoCrossing
		result.FailedSubmissions = len(scheduleResult.Failures)
	}
	j.finish(result, startTime)
	j.recordRun(result, err)

	logEvent := j.logger.Info()
	if err != nil {
		logEvent = j.logger.Error().Err(err)
	}
	logEvent.
		Dur("duration", result.Duration).
		Int("window_days", result.WindowDays).
		Int("submitted", result.Submitted).
		Int("failed_submissions", result.FailedSubmissions).
		Msg("window refresh completed")

	return result, err
}

// rescheduleWithRetry runs the reschedule, retrying runs that aborted with a
// CancelError. Partial runs (SubmitError) are terminal: retrying would
// cancel notifications that were successfully scheduled.
func (j *RefreshJob) rescheduleWithRetry(ctx context.Context, cfg *settings.Settings) (*schedule.Result, error) {
	coord := solar.Coordinate{Lat: cfg.Location.Lat, Lon: cfg.Location.Lon}
	offsets := schedule.OffsetConfig{
		SunriseMinutes: cfg.SunriseOffsetMinutes,
		SunsetMinutes:  cfg.SunsetOffsetMinutes,
	}
	enabled := schedule.EnablementConfig{
		Sunrise: cfg.SunriseEnabled,
		Sunset:  cfg.SunsetEnabled,
	}

	var result *schedule.Result

	operation := func() error {
		var err error
		result, err = j.scheduler.Reschedule(ctx, coord, cfg.WindowDays, offsets, enabled)
		if err == nil {
			return nil
		}

		var cancelErr *schedule.CancelError
		if errors.As(err, &cancelErr) {
			j.logger.Warn().Err(err).Msg("cancel failed, retrying refresh")
			return err
		}
		return backoff.Permanent(err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = j.config.InitialInterval
	bo.MaxInterval = j.config.MaxInterval
	bo.MaxElapsedTime = 0 // Unlimited, we control retries via WithMaxRetries

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, j.config.MaxRetries), ctx))
	return result, err
}

func (j *RefreshJob) finish(result *RefreshResult, startTime time.Time) {
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)
}

func (j *RefreshJob) recordRun(result *RefreshResult, err error) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	switch {
	case result.Skipped:
		j.metrics.SkippedRuns++
	case err != nil:
		j.metrics.FailedRuns++
	default:
		j.metrics.SuccessfulRuns++
	}
	j.metrics.TotalSubmitted += int64(result.Submitted)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRuns:       j.metrics.TotalRuns,
		SuccessfulRuns:  j.metrics.SuccessfulRuns,
		FailedRuns:      j.metrics.FailedRuns,
		SkippedRuns:     j.metrics.SkippedRuns,
		TotalSubmitted:  j.metrics.TotalSubmitted,
		LastRunAt:       j.metrics.LastRunAt,
		LastRunDuration: j.metrics.LastRunDuration,
		TotalDuration:   j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"successful_runs":   m.SuccessfulRuns,
		"failed_runs":       m.FailedRuns,
		"skipped_runs":      m.SkippedRuns,
		"total_submitted":   m.TotalSubmitted,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}
}
