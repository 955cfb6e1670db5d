package worker_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunalert/sunalert/internal/api/models"
	"github.com/sunalert/sunalert/internal/schedule"
	"github.com/sunalert/sunalert/internal/settings"
	"github.com/sunalert/sunalert/internal/worker"
)

func TestDefaultConfig(t *testing.T) {
	cfg := worker.DefaultConfig()

	assert.Equal(t, 6*time.Hour, cfg.Interval)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, uint64(3), cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.InitialInterval)
	assert.Equal(t, 10*time.Second, cfg.MaxInterval)
}

// flakyDelivery fails CancelAll a fixed number of times before recovering.
type flakyDelivery struct {
	*schedule.MemoryDelivery

	mu          sync.Mutex
	cancelFails int
}

func (d *flakyDelivery) CancelAll(ctx context.Context) error {
	d.mu.Lock()
	if d.cancelFails > 0 {
		d.cancelFails--
		d.mu.Unlock()
		return errors.New("delivery store unavailable")
	}
	d.mu.Unlock()
	return d.MemoryDelivery.CancelAll(ctx)
}

func newTestJob(t *testing.T, delivery schedule.Delivery, loc *settings.Location) (*worker.RefreshJob, *settings.Service) {
	t.Helper()

	logger := zerolog.New(io.Discard)
	scheduler := schedule.NewService(schedule.ServiceConfig{
		Delivery: delivery,
		Logger:   logger,
	})
	settingsService := settings.NewService(settings.NewInMemoryRepository())

	if loc != nil {
		_, err := settingsService.Update(context.Background(), &models.SettingsPatchRequest{
			Location: &models.SettingsLocation{
				Point:  models.Point{Lat: loc.Lat, Lon: loc.Lon},
				City:   loc.City,
				Manual: loc.Manual,
			},
		})
		require.NoError(t, err)
	}

	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config: worker.Config{
			InitialInterval: time.Millisecond,
			MaxInterval:     2 * time.Millisecond,
		},
		Logger:          logger,
		SettingsService: settingsService,
		Scheduler:       scheduler,
	})
	return job, settingsService
}

func TestRefreshJob_SkipsWithoutLocation(t *testing.T) {
	delivery := schedule.NewMemoryDelivery()
	job, _ := newTestJob(t, delivery, nil)

	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.Zero(t, result.Submitted)
	assert.Zero(t, delivery.Len())

	metrics := job.GetMetrics()
	assert.Equal(t, int64(1), metrics.TotalRuns)
	assert.Equal(t, int64(1), metrics.SkippedRuns)
	assert.Zero(t, metrics.FailedRuns)
}

func TestRefreshJob_RebuildsWindow(t *testing.T) {
	delivery := schedule.NewMemoryDelivery()
	job, _ := newTestJob(t, delivery, &settings.Location{Lat: 48.8566, Lon: 2.3522, City: "Paris"})

	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Skipped)
	assert.Equal(t, schedule.DefaultWindowDays, result.WindowDays)
	assert.Positive(t, result.Submitted)
	assert.Equal(t, result.Submitted, delivery.Len())

	metrics := job.GetMetrics()
	assert.Equal(t, int64(1), metrics.SuccessfulRuns)
	assert.Equal(t, int64(result.Submitted), metrics.TotalSubmitted)
	assert.False(t, metrics.LastRunAt.IsZero())
}

func TestRefreshJob_RetriesCancelFailure(t *testing.T) {
	delivery := &flakyDelivery{
		MemoryDelivery: schedule.NewMemoryDelivery(),
		cancelFails:    2,
	}
	job, _ := newTestJob(t, delivery, &settings.Location{Lat: 48.8566, Lon: 2.3522, City: "Paris"})

	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Positive(t, result.Submitted)

	metrics := job.GetMetrics()
	assert.Equal(t, int64(1), metrics.SuccessfulRuns)
}

func TestRefreshJob_GivesUpAfterMaxRetries(t *testing.T) {
	delivery := &flakyDelivery{
		MemoryDelivery: schedule.NewMemoryDelivery(),
		cancelFails:    100,
	}
	job, _ := newTestJob(t, delivery, &settings.Location{Lat: 48.8566, Lon: 2.3522, City: "Paris"})

	result, err := job.Run(context.Background())
	require.Error(t, err)

	var cancelErr *schedule.CancelError
	assert.ErrorAs(t, err, &cancelErr)
	assert.Zero(t, result.Submitted)
	assert.Zero(t, delivery.Len())

	metrics := job.GetMetrics()
	assert.Equal(t, int64(1), metrics.FailedRuns)
}

func TestRefreshJob_MetricsSnapshot(t *testing.T) {
	delivery := schedule.NewMemoryDelivery()
	job, _ := newTestJob(t, delivery, &settings.Location{Lat: 48.8566, Lon: 2.3522, City: "Paris"})

	_, err := job.Run(context.Background())
	require.NoError(t, err)

	snapshot := job.MetricsSnapshot()
	assert.Equal(t, int64(1), snapshot["total_runs"])
	assert.Equal(t, int64(1), snapshot["successful_runs"])
}
