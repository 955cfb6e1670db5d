// Package schedule converts solar event times into a consistent set of
// future-dated notification requests and submits them through a delivery
// port. Each reschedule replaces the previously scheduled set atomically
// from the caller's point of view: cancel-then-add, never merge.
package schedule

import "time"

// EventType identifies the kind of solar event a notification is for.
type EventType string

const (
	EventSunrise EventType = "SUNRISE"
	EventSunset  EventType = "SUNSET"
)

// OffsetConfig holds the signed minute adjustments applied to the raw
// solar instants. Negative values fire before the event.
type OffsetConfig struct {
	SunriseMinutes int
	SunsetMinutes  int
}

// EnablementConfig controls which event types are scheduled at all.
type EnablementConfig struct {
	Sunrise bool
	Sunset  bool
}

// DefaultEnablement enables both event types.
func DefaultEnablement() EnablementConfig {
	return EnablementConfig{Sunrise: true, Sunset: true}
}

// Trigger is a one-shot calendar trigger expressed in wall-clock fields of
// the configured local zone, so the platform scheduler fires at the intended
// local moment. No repeat rule: each day's event is scheduled individually.
type Trigger struct {
	Year   int        `json:"year"`
	Month  time.Month `json:"month"`
	Day    int        `json:"day"`
	Hour   int        `json:"hour"`
	Minute int        `json:"minute"`
}

// Request is one scheduled notification submitted to the delivery port.
// Once submitted it is owned entirely by the delivery subsystem; the
// scheduler holds no reference afterward.
type Request struct {
	ID        string
	EventType EventType
	FireAt    time.Time
	Trigger   Trigger
	ChannelID string
	Title     string
	Body      string

	// Per-platform sound identifiers: APNS uses a bundled filename,
	// FCM references a raw channel sound resource by bare token.
	APNSSound string
	FCMSound  string
}

// Result summarizes one reschedule run.
type Result struct {
	WindowDays        int
	Submitted         int
	SkippedPast       int
	SkippedDisabled   int
	SkippedNoCrossing int
	Failures          []SubmitFailure
}
