package elmodel

import (
	"time"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Identity is a set of credentials registered in a project, such as an OAuth2 token or an SSH
// key, that jobs can use to authenticate against external services.
type Identity struct {
	ID        string
	ProjectID string
	Name      string
	Connector string
	Type      string

	// Status indicates whether the identity is usable, for identity types that go through a
	// verification or refresh cycle. It may be empty.
	Status string

	// ErrorMessage describes the last refresh failure, if any.
	ErrorMessage string

	CreationTime time.Time
	UpdateTime   time.Time

	// LastUseTime is the last time a job execution used the identity, or the zero time.
	LastUseTime time.Time

	// RefreshTime is the last time the identity was refreshed, or the zero time for identity
	// types that do not refresh.
	RefreshTime time.Time

	// Data contains the connector-specific identity fields. Secret fields are redacted by the
	// server.
	Data ldvalue.Value
}

// ReadFromJSONReader reads the identity from a JSON object, validating required fields.
func (i *Identity) ReadFromJSONReader(r *jreader.Reader) {
	var hasID, hasProjectID, hasName, hasConnector, hasType bool
	var hasCreationTime, hasUpdateTime, hasData bool
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "id":
			i.ID, hasID = r.String(), true
		case "project_id":
			i.ProjectID, hasProjectID = r.String(), true
		case "name":
			i.Name, hasName = r.String(), true
		case "connector":
			i.Connector, hasConnector = r.String(), true
		case "type":
			i.Type, hasType = r.String(), true
		case "status":
			i.Status = r.String()
		case "error_message":
			i.ErrorMessage = r.String()
		case "creation_time":
			i.CreationTime, hasCreationTime = readTime(r, "identity", "creation_time"), true
		case "update_time":
			i.UpdateTime, hasUpdateTime = readTime(r, "identity", "update_time"), true
		case "last_use_time":
			i.LastUseTime = readTime(r, "identity", "last_use_time")
		case "refresh_time":
			i.RefreshTime = readTime(r, "identity", "refresh_time")
		case "data":
			i.Data.ReadFromJSONReader(r)
			hasData = true
		}
	}
	checkRequiredFields(r, "identity",
		fieldSeen{"id", hasID},
		fieldSeen{"project_id", hasProjectID},
		fieldSeen{"name", hasName},
		fieldSeen{"connector", hasConnector},
		fieldSeen{"type", hasType},
		fieldSeen{"creation_time", hasCreationTime},
		fieldSeen{"update_time", hasUpdateTime},
		fieldSeen{"data", hasData},
	)
}

// WriteToJSONWriter writes the identity in its standard JSON representation.
func (i Identity) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("id").String(i.ID)
	obj.Name("project_id").String(i.ProjectID)
	obj.Name("name").String(i.Name)
	obj.Name("connector").String(i.Connector)
	obj.Name("type").String(i.Type)
	obj.Maybe("status", i.Status != "").String(i.Status)
	obj.Maybe("error_message", i.ErrorMessage != "").String(i.ErrorMessage)
	writeTime(&obj, "creation_time", i.CreationTime)
	writeTime(&obj, "update_time", i.UpdateTime)
	maybeWriteTime(&obj, "last_use_time", i.LastUseTime)
	maybeWriteTime(&obj, "refresh_time", i.RefreshTime)
	i.Data.WriteToJSONWriter(obj.Name("data"))
	obj.End()
}

// UnmarshalJSON parses an identity, returning an InvalidObjectError for schema violations.
func (i *Identity) UnmarshalJSON(data []byte) error {
	return unmarshalObject("identity", data, i)
}

// MarshalJSON produces the standard JSON representation of the identity.
func (i Identity) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(i)
}
