package domain

import "time"

// EventName is one of the dotted event names forming the dispatcher's
// public contract (spec.md §4.4).
type EventName string

const (
	EventRequestSending    EventName = "request.sending"
	EventResponseReceived  EventName = "response.received"
	EventErrorOccurred     EventName = "error.occurred"
	EventRequestRetrying   EventName = "request.retrying"
	EventRequestRedirecting EventName = "request.redirecting"
	EventRequestTimeout    EventName = "request.timeout"
)

// Event is the value every listener receives. Only the fields relevant to
// Name are populated; see spec.md §4.4's payload table.
type Event struct {
	Timestamp     time.Time
	Request       *Request
	Response      *Response
	Err           error
	Location      string
	Context       map[string]any
	CorrelationID string
	Name          EventName
	Attempt       int
	MaxAttempts   int
	DelayMs       int64
	DurationSecs  float64
	TimeoutSecs   float64
	ElapsedSecs   float64
	RedirectCount int
}
