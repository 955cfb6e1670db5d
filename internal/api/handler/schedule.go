package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sunalert/sunalert/internal/api/models"
	"github.com/sunalert/sunalert/internal/api/response"
	"github.com/sunalert/sunalert/internal/schedule"
	"github.com/sunalert/sunalert/internal/settings"
	"github.com/sunalert/sunalert/internal/solar"
)

// NotificationLister exposes the currently scheduled notification set for
// device sync.
type NotificationLister interface {
	List(ctx context.Context) ([]*schedule.Request, error)
}

// RescheduleRecorder records the outcome of a reschedule run for monitoring.
type RescheduleRecorder interface {
	RecordReschedule(trigger string, duration time.Duration, submitted int, err error)
}

// Reschedule triggers as reported to the recorder.
const (
	TriggerRefresh        = "refresh"
	TriggerSettingsUpdate = "settings_update"
)

// ScheduleHandler handles reschedule and notification sync endpoints.
type ScheduleHandler struct {
	scheduler       *schedule.Service
	settingsService *settings.Service
	lister          NotificationLister
	recorder        RescheduleRecorder
}

// NewScheduleHandler creates a new ScheduleHandler. lister and recorder may
// be nil when the delivery backend does not support listing or metrics are
// not configured.
func NewScheduleHandler(scheduler *schedule.Service, settingsService *settings.Service, lister NotificationLister, recorder RescheduleRecorder) *ScheduleHandler {
	return &ScheduleHandler{
		scheduler:       scheduler,
		settingsService: settingsService,
		lister:          lister,
		recorder:        recorder,
	}
}

// Refresh handles POST /v1/me/schedule/refresh - cancel and rebuild the
// scheduled notification window from the current settings.
func (h *ScheduleHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settingsService.Get(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to load settings")
		return
	}

	result := RunReschedule(r.Context(), h.scheduler, cfg, h.recorder, TriggerRefresh)
	response.JSON(w, r, http.StatusOK, result)
}

// ListNotifications handles GET /v1/me/notifications - the scheduled set
// for device sync.
func (h *ScheduleHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	if h.lister == nil {
		response.JSON(w, r, http.StatusOK, models.ScheduledNotifications{Items: []models.ScheduledNotification{}})
		return
	}

	requests, err := h.lister.List(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to list scheduled notifications")
		return
	}

	items := make([]models.ScheduledNotification, 0, len(requests))
	for _, req := range requests {
		items = append(items, models.ScheduledNotification{
			ID:        req.ID,
			EventType: models.SolarEventType(req.EventType),
			FireAt:    models.Timestamp(req.FireAt),
			Trigger: models.CalendarTrigger{
				Year:   req.Trigger.Year,
				Month:  int(req.Trigger.Month),
				Day:    req.Trigger.Day,
				Hour:   req.Trigger.Hour,
				Minute: req.Trigger.Minute,
			},
			ChannelID: req.ChannelID,
			Title:     req.Title,
			Body:      req.Body,
			APNSSound: req.APNSSound,
			FCMSound:  req.FCMSound,
		})
	}
	response.JSON(w, r, http.StatusOK, models.ScheduledNotifications{Items: items})
}

// RunReschedule rebuilds the notification window from the given settings and
// maps the outcome to the API shape. Scheduling problems are reported in the
// body rather than as an HTTP error: a settings write must not fail because
// the delivery port rejected a request. recorder may be nil.
func RunReschedule(ctx context.Context, scheduler *schedule.Service, cfg *settings.Settings, recorder RescheduleRecorder, trigger string) *models.RescheduleResponse {
	if cfg.Location == nil {
		return &models.RescheduleResponse{Error: "no location configured"}
	}

	coord := solar.Coordinate{Lat: cfg.Location.Lat, Lon: cfg.Location.Lon}
	offsets := schedule.OffsetConfig{
		SunriseMinutes: cfg.SunriseOffsetMinutes,
		SunsetMinutes:  cfg.SunsetOffsetMinutes,
	}
	enabled := schedule.EnablementConfig{
		Sunrise: cfg.SunriseEnabled,
		Sunset:  cfg.SunsetEnabled,
	}

	start := time.Now()
	result, err := scheduler.Reschedule(ctx, coord, cfg.WindowDays, offsets, enabled)
	if recorder != nil {
		submitted := 0
		if result != nil {
			submitted = result.Submitted
		}
		recorder.RecordReschedule(trigger, time.Since(start), submitted, err)
	}
	if result == nil {
		// Cancel failure or invalid input: nothing was scheduled.
		return &models.RescheduleResponse{Error: err.Error()}
	}

	resp := &models.RescheduleResponse{
		WindowDays:        result.WindowDays,
		Submitted:         result.Submitted,
		SkippedPast:       result.SkippedPast,
		SkippedDisabled:   result.SkippedDisabled,
		SkippedNoCrossing: result.SkippedNoCrossing,
	}
	for _, failure := range result.Failures {
		resp.Failures = append(resp.Failures, models.ScheduleFailure{
			EventType: models.SolarEventType(failure.EventType),
			FireAt:    models.Timestamp(failure.FireAt),
			Message:   failure.Err.Error(),
		})
	}

	var submitErr *schedule.SubmitError
	if err != nil && !errors.As(err, &submitErr) {
		resp.Error = err.Error()
	}
	return resp
}
