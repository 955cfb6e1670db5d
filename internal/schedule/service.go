package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sunalert/sunalert/internal/solar"
)

// DefaultWindowDays is the rolling window length used when the caller does
// not supply one.
const DefaultWindowDays = 21

// ServiceConfig holds configuration for the scheduler service.
type ServiceConfig struct {
	Delivery Delivery
	Logger   zerolog.Logger

	// Location is the wall-clock zone trigger fields are expressed in.
	// Defaults to time.Local.
	Location *time.Location

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Service schedules sunrise/sunset notifications over a rolling window of
// future days. Reschedule runs are serialized: a run in progress completes
// before the next begins, so the cancel-then-add invariant holds and the
// last caller's parameters win.
type Service struct {
	delivery Delivery
	logger   zerolog.Logger
	loc      *time.Location
	now      func() time.Time

	mu sync.Mutex
}

// NewService creates a new scheduler service.
func NewService(cfg ServiceConfig) *Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		delivery: cfg.Delivery,
		logger:   cfg.Logger,
		loc:      loc,
		now:      now,
	}
}

// Reschedule replaces the scheduled notification set with a fresh window of
// future sunrise/sunset events for the given coordinate.
//
// The previously scheduled set is canceled first; a cancel failure aborts
// the run with a CancelError before anything new is submitted. Individual
// submission failures do not stop the loop: every surviving instant is
// attempted and the failures are aggregated into a SubmitError returned
// alongside the partial Result.
//
// windowDays is the inclusive count of days starting today; values <= 0
// fall back to DefaultWindowDays. Instants not strictly after the current
// moment are dropped, as are event types whose enablement flag is false.
func (s *Service) Reschedule(ctx context.Context, coord solar.Coordinate, windowDays int, offsets OffsetConfig, enabled EnablementConfig) (*Result, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.delivery.CancelAll(ctx); err != nil {
		s.logger.Error().Err(err).Msg("cancel-all failed, aborting reschedule")
		return nil, &CancelError{Err: err}
	}

	now := s.now()
	today := now.In(s.loc)
	result := &Result{WindowDays: windowDays}

	for i := 0; i < windowDays; i++ {
		date := today.AddDate(0, 0, i)
		day, err := solar.Times(date, coord)
		if err != nil {
			// Coordinate was validated above; nothing else can fail.
			return result, err
		}
		if day.Condition != solar.ConditionNormal {
			result.SkippedNoCrossing++
			s.logger.Debug().
				Time("date", day.Date).
				Str("condition", string(day.Condition)).
				Msg("no solar crossing, skipping day")
			continue
		}

		s.planEvent(ctx, result, now, EventSunrise, day.Sunrise, offsets.SunriseMinutes, enabled.Sunrise)
		s.planEvent(ctx, result, now, EventSunset, day.Sunset, offsets.SunsetMinutes, enabled.Sunset)
	}

	s.logger.Info().
		Int("window_days", windowDays).
		Int("submitted", result.Submitted).
		Int("skipped_past", result.SkippedPast).
		Int("skipped_disabled", result.SkippedDisabled).
		Int("skipped_no_crossing", result.SkippedNoCrossing).
		Int("failed", len(result.Failures)).
		Msg("reschedule completed")

	if len(result.Failures) > 0 {
		return result, &SubmitError{Failures: result.Failures}
	}
	return result, nil
}

func (s *Service) planEvent(ctx context.Context, result *Result, now time.Time, eventType EventType, instant time.Time, offsetMinutes int, enabled bool) {
	if !enabled {
		result.SkippedDisabled++
		return
	}

	fireAt := instant.Add(time.Duration(offsetMinutes) * time.Minute)
	if !fireAt.After(now) {
		result.SkippedPast++
		return
	}

	req := s.buildRequest(eventType, fireAt)
	if err := s.delivery.Submit(ctx, req); err != nil {
		s.logger.Warn().
			Err(err).
			Str("event_type", string(eventType)).
			Time("fire_at", fireAt).
			Msg("notification submission failed")
		result.Failures = append(result.Failures, SubmitFailure{
			EventType: eventType,
			FireAt:    fireAt,
			Err:       err,
		})
		return
	}
	result.Submitted++
}

func (s *Service) buildRequest(eventType EventType, fireAt time.Time) *Request {
	route, _ := RouteFor(eventType)
	local := fireAt.In(s.loc)
	return &Request{
		ID:        "ntf_" + uuid.New().String()[:22],
		EventType: eventType,
		FireAt:    fireAt,
		Trigger: Trigger{
			Year:   local.Year(),
			Month:  local.Month(),
			Day:    local.Day(),
			Hour:   local.Hour(),
			Minute: local.Minute(),
		},
		ChannelID: route.ChannelID,
		Title:     route.Title,
		Body:      route.Body,
		APNSSound: route.APNSSound,
		FCMSound:  route.FCMSound,
	}
}
