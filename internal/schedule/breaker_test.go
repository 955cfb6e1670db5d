package schedule_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunalert/sunalert/internal/schedule"
)

func TestResilientDelivery_PassesThrough(t *testing.T) {
	inner := schedule.NewMemoryDelivery()
	resilient := schedule.NewResilientDelivery(inner, schedule.BreakerConfig{Name: "test"})
	ctx := context.Background()

	require.NoError(t, resilient.Submit(ctx, &schedule.Request{ID: "ntf_a", EventType: schedule.EventSunrise}))
	assert.Equal(t, 1, inner.Len())

	require.NoError(t, resilient.CancelAll(ctx))
	assert.Equal(t, 0, inner.Len())
}

func TestResilientDelivery_OpensAfterRepeatedFailures(t *testing.T) {
	backendErr := errors.New("backend down")
	inner := &failingDelivery{
		MemoryDelivery: schedule.NewMemoryDelivery(),
		submitErr:      backendErr,
	}
	resilient := schedule.NewResilientDelivery(inner, schedule.BreakerConfig{
		Name:    "test",
		Timeout: time.Minute,
	})
	ctx := context.Background()

	req := &schedule.Request{ID: "ntf_b", EventType: schedule.EventSunset}
	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, resilient.Submit(ctx, req), backendErr)
	}

	// Breaker is open now: calls are rejected without reaching the backend.
	err := resilient.Submit(ctx, req)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.ErrorIs(t, resilient.CancelAll(ctx), gobreaker.ErrOpenState)
}
