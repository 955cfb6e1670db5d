// Package worker provides background job processing for SunAlert.
package worker

import (
	"time"
)

// Config holds configuration for the window refresh job.
type Config struct {
	// Interval is how often the notification window is rebuilt.
	// Default: 6 hours
	Interval time.Duration

	// Timeout is the timeout for one refresh run.
	// Default: 30 seconds
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts when the run
	// aborts before anything was scheduled.
	// Default: 3
	MaxRetries uint64

	// InitialInterval is the initial retry backoff interval.
	// Default: 500ms
	InitialInterval time.Duration

	// MaxInterval is the maximum retry backoff interval.
	// Default: 10 seconds
	MaxInterval time.Duration
}

// DefaultConfig returns the default refresh configuration.
func DefaultConfig() Config {
	return Config{
		Interval:        6 * time.Hour,
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

// withDefaults fills zero fields with the default values.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Interval == 0 {
		c.Interval = def.Interval
	}
	if c.Timeout == 0 {
		c.Timeout = def.Timeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.InitialInterval == 0 {
		c.InitialInterval = def.InitialInterval
	}
	if c.MaxInterval == 0 {
		c.MaxInterval = def.MaxInterval
	}
	return c
}
