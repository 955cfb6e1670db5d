package models

// RescheduleResponse summarizes one reschedule run.
type RescheduleResponse struct {
	WindowDays        int               `json:"windowDays"`
	Submitted         int               `json:"submitted"`
	SkippedPast       int               `json:"skippedPast"`
	SkippedDisabled   int               `json:"skippedDisabled"`
	SkippedNoCrossing int               `json:"skippedNoCrossing"`
	Failures          []ScheduleFailure `json:"failures,omitempty"`
	Error             string            `json:"error,omitempty"`
}

// ScheduleFailure reports one rejected notification submission.
type ScheduleFailure struct {
	EventType SolarEventType `json:"eventType"`
	FireAt    Timestamp      `json:"fireAt"`
	Message   string         `json:"message"`
}

// ScheduledNotification is one entry of the scheduled set, as synced by the
// device.
type ScheduledNotification struct {
	ID        string          `json:"id"`
	EventType SolarEventType  `json:"eventType"`
	FireAt    Timestamp       `json:"fireAt"`
	Trigger   CalendarTrigger `json:"trigger"`
	ChannelID string          `json:"channelId"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	APNSSound string          `json:"apnsSound"`
	FCMSound  string          `json:"fcmSound"`
}

// CalendarTrigger is a one-shot local wall-clock trigger.
type CalendarTrigger struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ScheduledNotifications is the device sync payload.
type ScheduledNotifications struct {
	Items []ScheduledNotification `json:"items"`
}
