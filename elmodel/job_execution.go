package elmodel

import (
	"time"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// ExecutionStatus is the lifecycle status of a job execution or of one of its steps.
type ExecutionStatus string

// Allowable values of ExecutionStatus.
const (
	ExecutionStatusCreated    ExecutionStatus = "created"
	ExecutionStatusStarted    ExecutionStatus = "started"
	ExecutionStatusAborted    ExecutionStatus = "aborted"
	ExecutionStatusSuccessful ExecutionStatus = "successful"
	ExecutionStatusFailed     ExecutionStatus = "failed"
)

// IsTerminal returns true if the status is final, that is, the execution will never change
// status again.
func (s ExecutionStatus) IsTerminal() bool {
	switch s {
	case ExecutionStatusAborted, ExecutionStatusSuccessful, ExecutionStatusFailed:
		return true
	default:
		return false
	}
}

func (s ExecutionStatus) isValid() bool {
	switch s {
	case ExecutionStatusCreated, ExecutionStatusStarted, ExecutionStatusAborted,
		ExecutionStatusSuccessful, ExecutionStatusFailed:
		return true
	default:
		return false
	}
}

func readExecutionStatus(r *jreader.Reader, objectName string) ExecutionStatus {
	status := ExecutionStatus(r.String())
	if r.Error() == nil && !status.isValid() {
		r.AddError(badFieldError(objectName, "status", "is not a valid execution status"))
	}
	return status
}

// JobExecution is a single run of a job, either triggered by an event or started manually.
type JobExecution struct {
	ID        string
	ProjectID string
	JobID     string

	// JobSpec is the specification of the job as it was when the execution was created.
	JobSpec JobSpec

	// EventID identifies the event that triggered the execution, if any.
	EventID string

	// Parameters contains the parameter values the execution was started with, if any.
	Parameters ldvalue.Value

	CreationTime  time.Time
	UpdateTime    time.Time
	ScheduledTime time.Time
	StartTime     time.Time
	EndTime       time.Time

	// RefreshTime is the last time the execution reported activity; the server uses it to detect
	// dead executions.
	RefreshTime time.Time

	Status ExecutionStatus

	// FailureMessage describes why the execution failed, when Status is ExecutionStatusFailed.
	FailureMessage string
}

// StepExecution is the state of one step of a job execution.
type StepExecution struct {
	ID             string
	ProjectID      string
	JobExecutionID string

	// Position is the 1-based index of the step in the job specification.
	Position int

	CreationTime time.Time
	UpdateTime   time.Time
	Status       ExecutionStatus
	StartTime    time.Time
	EndTime      time.Time

	// FailureMessage describes why the step failed, when Status is ExecutionStatusFailed.
	FailureMessage string

	// Output is the captured output of the step, if the server retained it.
	Output string
}

// ReadFromJSONReader reads the execution from a JSON object, validating required fields.
func (e *JobExecution) ReadFromJSONReader(r *jreader.Reader) {
	var hasID, hasProjectID, hasJobID, hasJobSpec, hasCreationTime, hasUpdateTime, hasStatus bool
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "id":
			e.ID, hasID = r.String(), true
		case "project_id":
			e.ProjectID, hasProjectID = r.String(), true
		case "job_id":
			e.JobID, hasJobID = r.String(), true
		case "job_spec":
			e.JobSpec.ReadFromJSONReader(r)
			hasJobSpec = true
		case "event_id":
			e.EventID = r.String()
		case "parameters":
			e.Parameters.ReadFromJSONReader(r)
		case "creation_time":
			e.CreationTime, hasCreationTime = readTime(r, "job_execution", "creation_time"), true
		case "update_time":
			e.UpdateTime, hasUpdateTime = readTime(r, "job_execution", "update_time"), true
		case "scheduled_time":
			e.ScheduledTime = readTime(r, "job_execution", "scheduled_time")
		case "start_time":
			e.StartTime = readTime(r, "job_execution", "start_time")
		case "end_time":
			e.EndTime = readTime(r, "job_execution", "end_time")
		case "refresh_time":
			e.RefreshTime = readTime(r, "job_execution", "refresh_time")
		case "status":
			e.Status, hasStatus = readExecutionStatus(r, "job_execution"), true
		case "failure_message":
			e.FailureMessage = r.String()
		}
	}
	checkRequiredFields(r, "job_execution",
		fieldSeen{"id", hasID},
		fieldSeen{"project_id", hasProjectID},
		fieldSeen{"job_id", hasJobID},
		fieldSeen{"job_spec", hasJobSpec},
		fieldSeen{"creation_time", hasCreationTime},
		fieldSeen{"update_time", hasUpdateTime},
		fieldSeen{"status", hasStatus},
	)
}

// WriteToJSONWriter writes the execution in its standard JSON representation.
func (e JobExecution) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("id").String(e.ID)
	obj.Name("project_id").String(e.ProjectID)
	obj.Name("job_id").String(e.JobID)
	e.JobSpec.WriteToJSONWriter(obj.Name("job_spec"))
	obj.Maybe("event_id", e.EventID != "").String(e.EventID)
	if e.Parameters.IsDefined() {
		e.Parameters.WriteToJSONWriter(obj.Name("parameters"))
	}
	writeTime(&obj, "creation_time", e.CreationTime)
	writeTime(&obj, "update_time", e.UpdateTime)
	maybeWriteTime(&obj, "scheduled_time", e.ScheduledTime)
	maybeWriteTime(&obj, "start_time", e.StartTime)
	maybeWriteTime(&obj, "end_time", e.EndTime)
	maybeWriteTime(&obj, "refresh_time", e.RefreshTime)
	obj.Name("status").String(string(e.Status))
	obj.Maybe("failure_message", e.FailureMessage != "").String(e.FailureMessage)
	obj.End()
}

// UnmarshalJSON parses a job execution, returning an InvalidObjectError for schema violations.
func (e *JobExecution) UnmarshalJSON(data []byte) error {
	return unmarshalObject("job_execution", data, e)
}

// MarshalJSON produces the standard JSON representation of the execution.
func (e JobExecution) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(e)
}

// ReadFromJSONReader reads the step execution from a JSON object, validating required fields.
func (e *StepExecution) ReadFromJSONReader(r *jreader.Reader) {
	var hasID, hasProjectID, hasJobExecutionID, hasPosition, hasCreationTime, hasUpdateTime, hasStatus bool
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "id":
			e.ID, hasID = r.String(), true
		case "project_id":
			e.ProjectID, hasProjectID = r.String(), true
		case "job_execution_id":
			e.JobExecutionID, hasJobExecutionID = r.String(), true
		case "position":
			e.Position, hasPosition = r.Int(), true
		case "creation_time":
			e.CreationTime, hasCreationTime = readTime(r, "step_execution", "creation_time"), true
		case "update_time":
			e.UpdateTime, hasUpdateTime = readTime(r, "step_execution", "update_time"), true
		case "status":
			e.Status, hasStatus = readExecutionStatus(r, "step_execution"), true
		case "start_time":
			e.StartTime = readTime(r, "step_execution", "start_time")
		case "end_time":
			e.EndTime = readTime(r, "step_execution", "end_time")
		case "failure_message":
			e.FailureMessage = r.String()
		case "output":
			e.Output = r.String()
		}
	}
	checkRequiredFields(r, "step_execution",
		fieldSeen{"id", hasID},
		fieldSeen{"project_id", hasProjectID},
		fieldSeen{"job_execution_id", hasJobExecutionID},
		fieldSeen{"position", hasPosition},
		fieldSeen{"creation_time", hasCreationTime},
		fieldSeen{"update_time", hasUpdateTime},
		fieldSeen{"status", hasStatus},
	)
}

// WriteToJSONWriter writes the step execution in its standard JSON representation.
func (e StepExecution) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("id").String(e.ID)
	obj.Name("project_id").String(e.ProjectID)
	obj.Name("job_execution_id").String(e.JobExecutionID)
	obj.Name("position").Int(e.Position)
	writeTime(&obj, "creation_time", e.CreationTime)
	writeTime(&obj, "update_time", e.UpdateTime)
	obj.Name("status").String(string(e.Status))
	maybeWriteTime(&obj, "start_time", e.StartTime)
	maybeWriteTime(&obj, "end_time", e.EndTime)
	obj.Maybe("failure_message", e.FailureMessage != "").String(e.FailureMessage)
	obj.Maybe("output", e.Output != "").String(e.Output)
	obj.End()
}

// UnmarshalJSON parses a step execution, returning an InvalidObjectError for schema violations.
func (e *StepExecution) UnmarshalJSON(data []byte) error {
	return unmarshalObject("step_execution", data, e)
}

// MarshalJSON produces the standard JSON representation of the step execution.
func (e StepExecution) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(e)
}
