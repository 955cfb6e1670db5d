package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sunalert/sunalert/internal/api/models"
	"github.com/sunalert/sunalert/internal/api/response"
	"github.com/sunalert/sunalert/internal/schedule"
	"github.com/sunalert/sunalert/internal/settings"
)

// SettingsHandler handles the notification profile endpoints.
type SettingsHandler struct {
	settingsService *settings.Service
	scheduler       *schedule.Service
	recorder        RescheduleRecorder
}

// NewSettingsHandler creates a new SettingsHandler. recorder may be nil.
func NewSettingsHandler(settingsService *settings.Service, scheduler *schedule.Service, recorder RescheduleRecorder) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		scheduler:       scheduler,
		recorder:        recorder,
	}
}

// GetSettings handles GET /v1/me/settings - the current notification profile.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settingsService.Get(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to load settings")
		return
	}
	response.JSON(w, r, http.StatusOK, settingsToAPI(cfg))
}

// UpdateSettings handles PATCH /v1/me/settings - partial profile update.
// Every successful update triggers a reschedule; a scheduling failure is
// reported in the response body, never as a failed settings write.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var input models.SettingsPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	cfg, err := h.settingsService.Update(r.Context(), &input)
	if err != nil {
		var validationErr *settings.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation failed", validationErr.Errors)
			return
		}
		response.InternalError(w, r, "failed to save settings")
		return
	}

	result := RunReschedule(r.Context(), h.scheduler, cfg, h.recorder, TriggerSettingsUpdate)
	response.JSON(w, r, http.StatusOK, models.SettingsUpdateResponse{
		Settings:   settingsToAPI(cfg),
		Reschedule: result,
	})
}

func settingsToAPI(cfg *settings.Settings) models.Settings {
	out := models.Settings{
		SunriseEnabled:       cfg.SunriseEnabled,
		SunsetEnabled:        cfg.SunsetEnabled,
		SunriseOffsetMinutes: cfg.SunriseOffsetMinutes,
		SunsetOffsetMinutes:  cfg.SunsetOffsetMinutes,
		WindowDays:           cfg.WindowDays,
		Sound:                cfg.Sound,
		Vibration:            cfg.Vibration,
		UpdatedAt:            models.Timestamp(cfg.UpdatedAt),
	}
	if cfg.Location != nil {
		out.Location = &models.SettingsLocation{
			Point:  models.Point{Lat: cfg.Location.Lat, Lon: cfg.Location.Lon},
			City:   cfg.Location.City,
			Manual: cfg.Location.Manual,
		}
	}
	return out
}
