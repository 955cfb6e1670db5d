package handler_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunalert/sunalert/internal/api/handler"
	"github.com/sunalert/sunalert/internal/schedule"
	"github.com/sunalert/sunalert/internal/settings"
)

type capturingRecorder struct {
	calls     int
	trigger   string
	submitted int
	err       error
}

func (r *capturingRecorder) RecordReschedule(trigger string, _ time.Duration, submitted int, err error) {
	r.calls++
	r.trigger = trigger
	r.submitted = submitted
	r.err = err
}

func newTestScheduler(delivery schedule.Delivery) *schedule.Service {
	return schedule.NewService(schedule.ServiceConfig{
		Delivery: delivery,
		Logger:   zerolog.Nop(),
		Location: time.UTC,
	})
}

func losAngelesSettings() *settings.Settings {
	cfg := settings.Defaults()
	cfg.WindowDays = 7
	cfg.Location = &settings.Location{Lat: 34.0522, Lon: -118.2437, City: "Los Angeles"}
	return cfg
}

func TestRunReschedule_RecordsOutcome(t *testing.T) {
	delivery := schedule.NewMemoryDelivery()
	scheduler := newTestScheduler(delivery)
	recorder := &capturingRecorder{}

	resp := handler.RunReschedule(context.Background(), scheduler, losAngelesSettings(),
		recorder, handler.TriggerRefresh)
	require.NotNil(t, resp)

	assert.Equal(t, 1, recorder.calls)
	assert.Equal(t, handler.TriggerRefresh, recorder.trigger)
	assert.Equal(t, resp.Submitted, recorder.submitted)
	assert.Positive(t, recorder.submitted)
	assert.NoError(t, recorder.err)
}

func TestRunReschedule_RecordsCancelFailure(t *testing.T) {
	delivery := &failingCancelDelivery{}
	scheduler := newTestScheduler(delivery)
	recorder := &capturingRecorder{}

	resp := handler.RunReschedule(context.Background(), scheduler, losAngelesSettings(),
		recorder, handler.TriggerSettingsUpdate)
	require.NotNil(t, resp)

	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, 1, recorder.calls)
	assert.Equal(t, handler.TriggerSettingsUpdate, recorder.trigger)
	assert.Equal(t, 0, recorder.submitted)

	var cancelErr *schedule.CancelError
	assert.ErrorAs(t, recorder.err, &cancelErr)
}

func TestRunReschedule_NilRecorder(t *testing.T) {
	delivery := schedule.NewMemoryDelivery()
	scheduler := newTestScheduler(delivery)

	resp := handler.RunReschedule(context.Background(), scheduler, losAngelesSettings(),
		nil, handler.TriggerRefresh)
	require.NotNil(t, resp)
	assert.Positive(t, resp.Submitted)
}

func TestRunReschedule_NoLocationNotRecorded(t *testing.T) {
	delivery := schedule.NewMemoryDelivery()
	scheduler := newTestScheduler(delivery)
	recorder := &capturingRecorder{}

	resp := handler.RunReschedule(context.Background(), scheduler, settings.Defaults(),
		recorder, handler.TriggerRefresh)
	require.NotNil(t, resp)

	assert.Equal(t, "no location configured", resp.Error)
	assert.Equal(t, 0, recorder.calls)
}

type failingCancelDelivery struct {
	schedule.MemoryDelivery
}

func (d *failingCancelDelivery) CancelAll(_ context.Context) error {
	return assert.AnError
}
