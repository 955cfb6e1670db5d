package models

// SolarTimes is the computed sunrise/sunset pair for one calendar day,
// used for immediate display ("next event" UI).
type SolarTimes struct {
	Date      string         `json:"date"` // YYYY-MM-DD
	Condition SolarCondition `json:"condition"`
	Sunrise   *Timestamp     `json:"sunrise,omitempty"`
	Sunset    *Timestamp     `json:"sunset,omitempty"`
}
