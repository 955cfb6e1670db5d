package schedule

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig holds circuit breaker settings for ResilientDelivery.
type BreakerConfig struct {
	// Name identifies the breaker for logging.
	Name string

	// Timeout is the open-state period before switching to half-open.
	// Default: 60 seconds.
	Timeout time.Duration

	// ReadyToTrip decides when to open the breaker. If nil, the breaker
	// opens after 5+ requests with a failure rate of 50% or higher.
	ReadyToTrip func(counts gobreaker.Counts) bool
}

// ResilientDelivery wraps a Delivery with a circuit breaker so the worker's
// periodic refresh stops hammering a failing delivery backend. The breaker
// is shared across CancelAll and Submit: both talk to the same backend.
type ResilientDelivery struct {
	next    Delivery
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewResilientDelivery wraps next with circuit breaker protection.
func NewResilientDelivery(next Delivery, cfg BreakerConfig) *ResilientDelivery {
	if cfg.Name == "" {
		cfg.Name = "delivery"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.ReadyToTrip == nil {
		cfg.ReadyToTrip = func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		}
	}

	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: cfg.ReadyToTrip,
	})

	return &ResilientDelivery{next: next, breaker: breaker}
}

// CancelAll voids the scheduled set through the breaker.
func (d *ResilientDelivery) CancelAll(ctx context.Context) error {
	_, err := d.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, d.next.CancelAll(ctx)
	})
	return err
}

// Submit schedules one notification through the breaker.
func (d *ResilientDelivery) Submit(ctx context.Context, req *Request) error {
	_, err := d.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, d.next.Submit(ctx, req)
	})
	return err
}
