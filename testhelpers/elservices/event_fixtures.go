package elservices

import (
	"time"

	"github.com/exograd/go-eventline/elmodel"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"
)

// NewTestEvent creates an event with the given ID and plausible values for every required field.
// Tests that need specific field values can modify the result.
func NewTestEvent(id string) elmodel.Event {
	t := time.Date(2022, time.May, 18, 10, 0, 0, 0, time.UTC)
	return elmodel.Event{
		ID:           id,
		ProjectID:    "prj-test",
		CreationTime: t,
		EventTime:    t,
		Connector:    "github",
		Name:         "push",
		Data:         ldvalue.ObjectBuild().SetString("branch", "main").Build(),
	}
}

// EventSSEMessage returns the SSE message that the event stream endpoint would produce for the
// given event.
func EventSSEMessage(event elmodel.Event) httphelpers.SSEEvent {
	data, _ := event.MarshalJSON()
	return httphelpers.SSEEvent{Event: "event", Data: string(data)}
}

// EventPageData is a convenience type for constructing a test page of events for
// EventPollingServiceHandler. Its MarshalJSON method produces a JSON object in the standard
// Eventline pagination format, with an "elements" list and optional "next" and "previous" cursors.
//
//	data := elservices.NewEventPageData(event1, event2)
//	handler := elservices.EventPollingServiceHandler(data)
type EventPageData struct {
	page elmodel.Page[elmodel.Event]
}

// NewEventPageData creates an EventPageData containing the given events.
func NewEventPageData(events ...elmodel.Event) *EventPageData {
	d := &EventPageData{}
	return d.Events(events...)
}

// Events replaces the events in the page.
func (d *EventPageData) Events(events ...elmodel.Event) *EventPageData {
	d.page.Elements = events
	return d
}

// NextCursor sets the cursor of the following page, or removes it if nil.
func (d *EventPageData) NextCursor(cursor *elmodel.Cursor) *EventPageData {
	d.page.Next = cursor
	return d
}

// MarshalJSON returns the page in the standard Eventline pagination format.
func (d *EventPageData) MarshalJSON() ([]byte, error) {
	return elmodel.MarshalPage(d.page)
}

// String returns the JSON encoding of the page as a string.
func (d *EventPageData) String() string {
	bytes, _ := d.MarshalJSON()
	return string(bytes)
}
