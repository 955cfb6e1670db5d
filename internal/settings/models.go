// Package settings provides persistence for the user's notification profile:
// location, per-event offsets and enablement, and the rolling window length.
package settings

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrSettingsNotFound = errors.New("settings not found")
)

// Validation bounds.
const (
	MaxOffsetMinutes = 720
	MinWindowDays    = 1
	MaxWindowDays    = 60
)

// Location is the user's chosen coordinate, either acquired from the device
// or picked manually from the city catalog.
type Location struct {
	Lat    float64
	Lon    float64
	City   string
	Manual bool
}

// Settings is the single notification profile. There is exactly one profile
// per deployment; multi-user operation is out of scope.
type Settings struct {
	SunriseEnabled       bool
	SunsetEnabled        bool
	SunriseOffsetMinutes int
	SunsetOffsetMinutes  int
	WindowDays           int
	Sound                string
	Vibration            bool
	Location             *Location
	UpdatedAt            time.Time
}

// Defaults returns the out-of-box profile: both alerts on, no offsets,
// a 21-day window, and no location until the user supplies one.
func Defaults() *Settings {
	return &Settings{
		SunriseEnabled: true,
		SunsetEnabled:  true,
		WindowDays:     21,
		Sound:          "default",
		Vibration:      true,
	}
}
