package schedule

// Route is the fixed per-event-type delivery shaping: notification channel,
// display copy, and per-platform sound tokens. The two event types carry
// distinct channels and sounds and the pairs are never interchanged.
type Route struct {
	ChannelID string
	Title     string
	Body      string
	APNSSound string
	FCMSound  string
}

var routes = map[EventType]Route{
	EventSunrise: {
		ChannelID: "sun-events-sunrise",
		Title:     "Sunrise",
		Body:      "The sun is rising!",
		APNSSound: "sunrise.caf",
		FCMSound:  "sunrise",
	},
	EventSunset: {
		ChannelID: "sun-events-sunset",
		Title:     "Sunset",
		Body:      "The sun is setting.",
		APNSSound: "sunset.caf",
		FCMSound:  "sunset",
	},
}

// RouteFor returns the delivery route for an event type.
func RouteFor(t EventType) (Route, bool) {
	route, ok := routes[t]
	return route, ok
}
