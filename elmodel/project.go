package elmodel

import (
	"time"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Project is a namespace for jobs, events, and identities.
type Project struct {
	ID           string
	OrgID        string
	Name         string
	CreationTime time.Time
}

// NewProject is the payload used to create or rename a project.
type NewProject struct {
	Name string
}

// ReadFromJSONReader reads the project from a JSON object, validating required fields.
func (p *Project) ReadFromJSONReader(r *jreader.Reader) {
	var hasID, hasOrgID, hasName, hasCreationTime bool
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "id":
			p.ID, hasID = r.String(), true
		case "org_id":
			p.OrgID, hasOrgID = r.String(), true
		case "name":
			p.Name, hasName = r.String(), true
		case "creation_time":
			p.CreationTime, hasCreationTime = readTime(r, "project", "creation_time"), true
		}
	}
	checkRequiredFields(r, "project",
		fieldSeen{"id", hasID},
		fieldSeen{"org_id", hasOrgID},
		fieldSeen{"name", hasName},
		fieldSeen{"creation_time", hasCreationTime},
	)
}

// WriteToJSONWriter writes the project in its standard JSON representation.
func (p Project) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("id").String(p.ID)
	obj.Name("org_id").String(p.OrgID)
	obj.Name("name").String(p.Name)
	writeTime(&obj, "creation_time", p.CreationTime)
	obj.End()
}

// UnmarshalJSON parses a project, returning an InvalidObjectError for schema violations.
func (p *Project) UnmarshalJSON(data []byte) error {
	return unmarshalObject("project", data, p)
}

// MarshalJSON produces the standard JSON representation of the project.
func (p Project) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(p)
}

// ReadFromJSONReader reads the payload from a JSON object, validating required fields.
func (p *NewProject) ReadFromJSONReader(r *jreader.Reader) {
	var hasName bool
	for obj := r.Object(); obj.Next(); {
		if string(obj.Name()) == "name" {
			p.Name, hasName = r.String(), true
		}
	}
	checkRequiredFields(r, "new_project", fieldSeen{"name", hasName})
}

// WriteToJSONWriter writes the payload in its standard JSON representation.
func (p NewProject) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("name").String(p.Name)
	obj.End()
}

// UnmarshalJSON parses a project creation payload.
func (p *NewProject) UnmarshalJSON(data []byte) error {
	return unmarshalObject("new_project", data, p)
}

// MarshalJSON produces the standard JSON representation of the payload.
func (p NewProject) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(p)
}
