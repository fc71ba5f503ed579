package elmodel

import (
	"time"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Job is a job as registered in a project, including its current specification.
type Job struct {
	ID           string
	ProjectID    string
	CreationTime time.Time
	UpdateTime   time.Time
	Disabled     bool
	Spec         JobSpec
}

// JobSpec is the definition of a job: what triggers it, which parameters it accepts, and the
// steps it executes.
type JobSpec struct {
	Name        string
	Description string

	// Trigger describes the event that causes the job to run. A job without a trigger can only
	// be executed manually.
	Trigger *Trigger

	Parameters []Parameter
	Steps      []Step

	// Environment contains environment variables injected into every step.
	Environment map[string]string

	// Identities lists the names of identities made available to the job during execution.
	Identities []string

	// Concurrent indicates whether multiple executions of the job can run at the same time.
	Concurrent bool

	// Retention is the number of days executions of the job are kept, or zero for the project
	// default.
	Retention int
}

// Trigger binds a job to a connector event.
type Trigger struct {
	Event      string
	Parameters ldvalue.Value
	Identity   string
}

// Parameter describes one parameter accepted by a job.
type Parameter struct {
	Name        string
	Type        ParameterType
	Default     ldvalue.Value
	Description string
}

// ParameterType is the data type of a job parameter.
type ParameterType string

// Allowable values of ParameterType.
const (
	ParameterTypeString  ParameterType = "string"
	ParameterTypeNumber  ParameterType = "number"
	ParameterTypeBoolean ParameterType = "boolean"
)

// Step is a single execution step in a job. Exactly one of Code, Command, or Script must be set.
type Step struct {
	Label   string
	Code    string
	Command *StepCommand
	Script  *StepScript
}

// StepCommand identifies an executable to run, with optional arguments.
type StepCommand struct {
	Name      string
	Arguments []string
}

// StepScript identifies a script file to upload and run, with optional arguments.
type StepScript struct {
	Path      string
	Arguments []string
}

// Validate checks that the specification is well formed, returning an InvalidObjectError if it
// is not. The same rules are applied when a specification is read from JSON.
func (s JobSpec) Validate() error {
	if s.Name == "" {
		return missingFieldError("job_spec", "name")
	}
	if len(s.Steps) == 0 {
		return missingFieldError("job_spec", "steps")
	}
	for _, p := range s.Parameters {
		if err := p.validate(); err != nil {
			return err
		}
	}
	for _, step := range s.Steps {
		if err := step.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p Parameter) validate() error {
	switch p.Type {
	case ParameterTypeString, ParameterTypeNumber, ParameterTypeBoolean:
		return nil
	}
	return badFieldError("parameter", "type", "is not a valid parameter type")
}

func (s Step) validate() error {
	n := 0
	if s.Code != "" {
		n++
	}
	if s.Command != nil {
		n++
	}
	if s.Script != nil {
		n++
	}
	if n != 1 {
		return InvalidObjectError{
			ObjectName: "step",
			Reason:     "exactly one of fields 'code', 'command' and 'script' must be set",
		}
	}
	return nil
}

// ReadFromJSONReader reads the job from a JSON object, validating required fields.
func (j *Job) ReadFromJSONReader(r *jreader.Reader) {
	var hasID, hasProjectID, hasCreationTime, hasUpdateTime, hasSpec bool
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "id":
			j.ID, hasID = r.String(), true
		case "project_id":
			j.ProjectID, hasProjectID = r.String(), true
		case "creation_time":
			j.CreationTime, hasCreationTime = readTime(r, "job", "creation_time"), true
		case "update_time":
			j.UpdateTime, hasUpdateTime = readTime(r, "job", "update_time"), true
		case "disabled":
			j.Disabled = r.Bool()
		case "spec":
			j.Spec.ReadFromJSONReader(r)
			hasSpec = true
		}
	}
	checkRequiredFields(r, "job",
		fieldSeen{"id", hasID},
		fieldSeen{"project_id", hasProjectID},
		fieldSeen{"creation_time", hasCreationTime},
		fieldSeen{"update_time", hasUpdateTime},
		fieldSeen{"spec", hasSpec},
	)
}

// WriteToJSONWriter writes the job in its standard JSON representation.
func (j Job) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("id").String(j.ID)
	obj.Name("project_id").String(j.ProjectID)
	writeTime(&obj, "creation_time", j.CreationTime)
	writeTime(&obj, "update_time", j.UpdateTime)
	obj.Maybe("disabled", j.Disabled).Bool(j.Disabled)
	j.Spec.WriteToJSONWriter(obj.Name("spec"))
	obj.End()
}

// UnmarshalJSON parses a job, returning an InvalidObjectError for schema violations.
func (j *Job) UnmarshalJSON(data []byte) error {
	return unmarshalObject("job", data, j)
}

// MarshalJSON produces the standard JSON representation of the job.
func (j Job) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(j)
}

// ReadFromJSONReader reads the specification from a JSON object, validating required fields and
// the step and parameter rules described in Validate.
func (s *JobSpec) ReadFromJSONReader(r *jreader.Reader) {
	var hasName, hasSteps bool
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "name":
			s.Name, hasName = r.String(), true
		case "description":
			s.Description = r.String()
		case "trigger":
			var trigger Trigger
			trigger.ReadFromJSONReader(r)
			s.Trigger = &trigger
		case "parameters":
			for arr := r.Array(); arr.Next(); {
				var p Parameter
				p.ReadFromJSONReader(r)
				s.Parameters = append(s.Parameters, p)
			}
		case "steps":
			hasSteps = true
			for arr := r.Array(); arr.Next(); {
				var step Step
				step.ReadFromJSONReader(r)
				s.Steps = append(s.Steps, step)
			}
		case "environment":
			s.Environment = readStringMap(r)
		case "identities":
			s.Identities = readStringArray(r)
		case "concurrent":
			s.Concurrent = r.Bool()
		case "retention":
			s.Retention = r.Int()
		}
	}
	checkRequiredFields(r, "job_spec",
		fieldSeen{"name", hasName},
		fieldSeen{"steps", hasSteps},
	)
}

// WriteToJSONWriter writes the specification in its standard JSON representation.
func (s JobSpec) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("name").String(s.Name)
	obj.Maybe("description", s.Description != "").String(s.Description)
	if s.Trigger != nil {
		s.Trigger.WriteToJSONWriter(obj.Name("trigger"))
	}
	if len(s.Parameters) > 0 {
		paramsWriter := obj.Name("parameters")
		arr := paramsWriter.Array()
		for _, p := range s.Parameters {
			p.WriteToJSONWriter(paramsWriter)
		}
		arr.End()
	}
	stepsWriter := obj.Name("steps")
	arr := stepsWriter.Array()
	for _, step := range s.Steps {
		step.WriteToJSONWriter(stepsWriter)
	}
	arr.End()
	if len(s.Environment) > 0 {
		writeStringMap(&obj, "environment", s.Environment)
	}
	if len(s.Identities) > 0 {
		writeStringArray(&obj, "identities", s.Identities)
	}
	obj.Maybe("concurrent", s.Concurrent).Bool(s.Concurrent)
	obj.Maybe("retention", s.Retention > 0).Int(s.Retention)
	obj.End()
}

// UnmarshalJSON parses a job specification, returning an InvalidObjectError for schema violations.
func (s *JobSpec) UnmarshalJSON(data []byte) error {
	return unmarshalObject("job_spec", data, s)
}

// MarshalJSON produces the standard JSON representation of the specification.
func (s JobSpec) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(s)
}

// ReadFromJSONReader reads the trigger from a JSON object, validating required fields.
func (t *Trigger) ReadFromJSONReader(r *jreader.Reader) {
	var hasEvent bool
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "event":
			t.Event, hasEvent = r.String(), true
		case "parameters":
			t.Parameters.ReadFromJSONReader(r)
		case "identity":
			t.Identity = r.String()
		}
	}
	checkRequiredFields(r, "trigger", fieldSeen{"event", hasEvent})
}

// WriteToJSONWriter writes the trigger in its standard JSON representation.
func (t Trigger) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("event").String(t.Event)
	if t.Parameters.IsDefined() {
		t.Parameters.WriteToJSONWriter(obj.Name("parameters"))
	}
	obj.Maybe("identity", t.Identity != "").String(t.Identity)
	obj.End()
}

// ReadFromJSONReader reads the parameter from a JSON object, validating required fields and the
// parameter type.
func (p *Parameter) ReadFromJSONReader(r *jreader.Reader) {
	var hasName, hasType bool
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "name":
			p.Name, hasName = r.String(), true
		case "type":
			p.Type, hasType = ParameterType(r.String()), true
		case "default":
			p.Default.ReadFromJSONReader(r)
		case "description":
			p.Description = r.String()
		}
	}
	checkRequiredFields(r, "parameter",
		fieldSeen{"name", hasName},
		fieldSeen{"type", hasType},
	)
	if r.Error() == nil {
		if err := p.validate(); err != nil {
			r.AddError(err)
		}
	}
}

// WriteToJSONWriter writes the parameter in its standard JSON representation.
func (p Parameter) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("name").String(p.Name)
	obj.Name("type").String(string(p.Type))
	if p.Default.IsDefined() {
		p.Default.WriteToJSONWriter(obj.Name("default"))
	}
	obj.Maybe("description", p.Description != "").String(p.Description)
	obj.End()
}

// ReadFromJSONReader reads the step from a JSON object, validating that exactly one of the step
// kinds is present.
func (s *Step) ReadFromJSONReader(r *jreader.Reader) {
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "label":
			s.Label = r.String()
		case "code":
			s.Code = r.String()
		case "command":
			var command StepCommand
			command.ReadFromJSONReader(r)
			s.Command = &command
		case "script":
			var script StepScript
			script.ReadFromJSONReader(r)
			s.Script = &script
		}
	}
	if r.Error() == nil {
		if err := s.validate(); err != nil {
			r.AddError(err)
		}
	}
}

// WriteToJSONWriter writes the step in its standard JSON representation.
func (s Step) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Maybe("label", s.Label != "").String(s.Label)
	obj.Maybe("code", s.Code != "").String(s.Code)
	if s.Command != nil {
		s.Command.WriteToJSONWriter(obj.Name("command"))
	}
	if s.Script != nil {
		s.Script.WriteToJSONWriter(obj.Name("script"))
	}
	obj.End()
}

// ReadFromJSONReader reads the command from a JSON object, validating required fields.
func (c *StepCommand) ReadFromJSONReader(r *jreader.Reader) {
	var hasName bool
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "name":
			c.Name, hasName = r.String(), true
		case "arguments":
			c.Arguments = readStringArray(r)
		}
	}
	checkRequiredFields(r, "command", fieldSeen{"name", hasName})
}

// WriteToJSONWriter writes the command in its standard JSON representation.
func (c StepCommand) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("name").String(c.Name)
	if len(c.Arguments) > 0 {
		writeStringArray(&obj, "arguments", c.Arguments)
	}
	obj.End()
}

// ReadFromJSONReader reads the script reference from a JSON object, validating required fields.
func (s *StepScript) ReadFromJSONReader(r *jreader.Reader) {
	var hasPath bool
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "path":
			s.Path, hasPath = r.String(), true
		case "arguments":
			s.Arguments = readStringArray(r)
		}
	}
	checkRequiredFields(r, "script", fieldSeen{"path", hasPath})
}

// WriteToJSONWriter writes the script reference in its standard JSON representation.
func (s StepScript) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("path").String(s.Path)
	if len(s.Arguments) > 0 {
		writeStringArray(&obj, "arguments", s.Arguments)
	}
	obj.End()
}
