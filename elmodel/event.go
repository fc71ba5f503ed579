package elmodel

import (
	"time"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Event is an occurrence recorded by a connector, such as a repository push or a timer firing.
// Events are what trigger job executions.
type Event struct {
	ID        string
	ProjectID string

	// JobID identifies the job whose trigger matched the event, if any.
	JobID string

	CreationTime time.Time

	// EventTime is the time the event actually occurred, which can predate CreationTime for
	// events replayed or ingested after the fact.
	EventTime time.Time

	Connector string
	Name      string

	// Data is the connector-specific payload of the event.
	Data ldvalue.Value

	// OriginalEventID identifies the event this one was replayed from, if it was created by a
	// replay.
	OriginalEventID string
}

// NewEvent is the payload used to submit a custom event.
type NewEvent struct {
	Connector string
	Name      string
	Data      ldvalue.Value

	// EventTime is the time of the event; the server uses the submission time when it is zero.
	EventTime time.Time
}

// ReadFromJSONReader reads the event from a JSON object, validating required fields.
func (e *Event) ReadFromJSONReader(r *jreader.Reader) {
	var hasID, hasProjectID, hasCreationTime, hasEventTime, hasConnector, hasName, hasData bool
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "id":
			e.ID, hasID = r.String(), true
		case "project_id":
			e.ProjectID, hasProjectID = r.String(), true
		case "job_id":
			e.JobID = r.String()
		case "creation_time":
			e.CreationTime, hasCreationTime = readTime(r, "event", "creation_time"), true
		case "event_time":
			e.EventTime, hasEventTime = readTime(r, "event", "event_time"), true
		case "connector":
			e.Connector, hasConnector = r.String(), true
		case "name":
			e.Name, hasName = r.String(), true
		case "data":
			e.Data.ReadFromJSONReader(r)
			hasData = true
		case "original_event_id":
			e.OriginalEventID = r.String()
		}
	}
	checkRequiredFields(r, "event",
		fieldSeen{"id", hasID},
		fieldSeen{"project_id", hasProjectID},
		fieldSeen{"creation_time", hasCreationTime},
		fieldSeen{"event_time", hasEventTime},
		fieldSeen{"connector", hasConnector},
		fieldSeen{"name", hasName},
		fieldSeen{"data", hasData},
	)
}

// WriteToJSONWriter writes the event in its standard JSON representation.
func (e Event) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("id").String(e.ID)
	obj.Name("project_id").String(e.ProjectID)
	obj.Maybe("job_id", e.JobID != "").String(e.JobID)
	writeTime(&obj, "creation_time", e.CreationTime)
	writeTime(&obj, "event_time", e.EventTime)
	obj.Name("connector").String(e.Connector)
	obj.Name("name").String(e.Name)
	e.Data.WriteToJSONWriter(obj.Name("data"))
	obj.Maybe("original_event_id", e.OriginalEventID != "").String(e.OriginalEventID)
	obj.End()
}

// UnmarshalJSON parses an event, returning an InvalidObjectError for schema violations.
func (e *Event) UnmarshalJSON(data []byte) error {
	return unmarshalObject("event", data, e)
}

// MarshalJSON produces the standard JSON representation of the event.
func (e Event) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(e)
}

// ReadFromJSONReader reads the payload from a JSON object, validating required fields.
func (e *NewEvent) ReadFromJSONReader(r *jreader.Reader) {
	var hasConnector, hasName, hasData bool
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "connector":
			e.Connector, hasConnector = r.String(), true
		case "name":
			e.Name, hasName = r.String(), true
		case "data":
			e.Data.ReadFromJSONReader(r)
			hasData = true
		case "event_time":
			e.EventTime = readTime(r, "new_event", "event_time")
		}
	}
	checkRequiredFields(r, "new_event",
		fieldSeen{"connector", hasConnector},
		fieldSeen{"name", hasName},
		fieldSeen{"data", hasData},
	)
}

// WriteToJSONWriter writes the payload in its standard JSON representation.
func (e NewEvent) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("connector").String(e.Connector)
	obj.Name("name").String(e.Name)
	e.Data.WriteToJSONWriter(obj.Name("data"))
	maybeWriteTime(&obj, "event_time", e.EventTime)
	obj.End()
}

// UnmarshalJSON parses an event submission payload.
func (e *NewEvent) UnmarshalJSON(data []byte) error {
	return unmarshalObject("new_event", data, e)
}

// MarshalJSON produces the standard JSON representation of the payload.
func (e NewEvent) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(e)
}
