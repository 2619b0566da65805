package domain

import "time"

// AlertEvent is the event name signals are fanned out under.
const AlertEvent = "social-media-alert"

// SignalContent is the free-form payload of a social signal.
type SignalContent struct {
	User string `json:"user"`
	Text string `json:"text"`
}

// Signal is one unit of externally-sourced incident information. It is
// immutable once constructed and lives only for the duration of a single
// broadcast fan-out.
type Signal struct {
	ID        string        `json:"id"`
	Source    string        `json:"source"`
	Content   SignalContent `json:"content"`
	Timestamp time.Time     `json:"timestamp"`
	Priority  bool          `json:"priority"`
}
