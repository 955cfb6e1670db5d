package models

// SettingsLocation is the user's chosen coordinate.
type SettingsLocation struct {
	Point  Point  `json:"point"`
	City   string `json:"city,omitempty"`
	Manual bool   `json:"manual"`
}

// Settings is the notification profile returned by the API.
type Settings struct {
	SunriseEnabled       bool              `json:"sunriseEnabled"`
	SunsetEnabled        bool              `json:"sunsetEnabled"`
	SunriseOffsetMinutes int               `json:"sunriseOffsetMinutes"`
	SunsetOffsetMinutes  int               `json:"sunsetOffsetMinutes"`
	WindowDays           int               `json:"windowDays"`
	Sound                string            `json:"sound"`
	Vibration            bool              `json:"vibration"`
	Location             *SettingsLocation `json:"location,omitempty"`
	UpdatedAt            Timestamp         `json:"updatedAt"`
}

// SettingsPatchRequest is a partial settings update. Nil fields are left
// unchanged.
type SettingsPatchRequest struct {
	SunriseEnabled       *bool             `json:"sunriseEnabled,omitempty"`
	SunsetEnabled        *bool             `json:"sunsetEnabled,omitempty"`
	SunriseOffsetMinutes *int              `json:"sunriseOffsetMinutes,omitempty"`
	SunsetOffsetMinutes  *int              `json:"sunsetOffsetMinutes,omitempty"`
	WindowDays           *int              `json:"windowDays,omitempty"`
	Sound                *string           `json:"sound,omitempty"`
	Vibration            *bool             `json:"vibration,omitempty"`
	Location             *SettingsLocation `json:"location,omitempty"`
}

// SettingsUpdateResponse carries the saved settings plus the outcome of the
// reschedule the update triggered. A scheduling failure never fails the
// settings write; it is reported here instead.
type SettingsUpdateResponse struct {
	Settings   Settings            `json:"settings"`
	Reschedule *RescheduleResponse `json:"reschedule,omitempty"`
}
