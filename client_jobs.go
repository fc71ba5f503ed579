package eventline

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/exograd/go-eventline/elmodel"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// DefaultExecutionPollInterval is how often WaitForJobExecution refreshes the execution when no
// interval is given.
const DefaultExecutionPollInterval = time.Second

// ListJobs fetches one page of the jobs of the project. The zero Cursor requests the first page
// with the default ordering and page size.
func (c *Client) ListJobs(ctx context.Context, cursor elmodel.Cursor) (elmodel.Page[elmodel.Job], error) {
	data, err := c.do(ctx, "GET", "/jobs", cursor.URLQuery(), nil)
	if err != nil {
		return elmodel.Page[elmodel.Job]{}, err
	}
	return elmodel.UnmarshalPage[elmodel.Job](data)
}

// GetJob fetches the job with the given identifier.
func (c *Client) GetJob(ctx context.Context, id string) (elmodel.Job, error) {
	data, err := c.do(ctx, "GET", "/jobs/id/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return elmodel.Job{}, err
	}
	var job elmodel.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return elmodel.Job{}, err
	}
	return job, nil
}

// GetJobByName fetches the job with the given name.
func (c *Client) GetJobByName(ctx context.Context, name string) (elmodel.Job, error) {
	data, err := c.do(ctx, "GET", "/jobs/name/"+url.PathEscape(name), nil, nil)
	if err != nil {
		return elmodel.Job{}, err
	}
	var job elmodel.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return elmodel.Job{}, err
	}
	return job, nil
}

// DeployJob creates the job described by the specification, or updates it if a job with the same
// name already exists. It returns the job as stored by the service.
func (c *Client) DeployJob(ctx context.Context, spec elmodel.JobSpec) (elmodel.Job, error) {
	if err := spec.Validate(); err != nil {
		return elmodel.Job{}, err
	}
	body, err := spec.MarshalJSON()
	if err != nil {
		return elmodel.Job{}, &ClientError{Err: err}
	}
	data, err := c.do(ctx, "PUT", "/jobs/name/"+url.PathEscape(spec.Name), nil, body)
	if err != nil {
		return elmodel.Job{}, err
	}
	var job elmodel.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return elmodel.Job{}, err
	}
	return job, nil
}

// DeployJobs deploys a batch of job specifications in a single atomic operation: either all of
// them are created or updated, or none are. It returns the jobs as stored by the service.
func (c *Client) DeployJobs(ctx context.Context, specs []elmodel.JobSpec) ([]elmodel.Job, error) {
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
	}

	w := jwriter.NewWriter()
	arr := w.Array()
	for _, spec := range specs {
		spec.WriteToJSONWriter(&w)
	}
	arr.End()
	if err := w.Error(); err != nil {
		return nil, &ClientError{Err: err} // COVERAGE: there is no way to simulate this condition in unit tests
	}

	data, err := c.do(ctx, "PUT", "/jobs", nil, w.Bytes())
	if err != nil {
		return nil, err
	}
	var jobs []elmodel.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// DeleteJob deletes the job with the given identifier.
func (c *Client) DeleteJob(ctx context.Context, id string) error {
	_, err := c.do(ctx, "DELETE", "/jobs/id/"+url.PathEscape(id), nil, nil)
	return err
}

// EnableJob enables the job with the given identifier, allowing its trigger to start executions.
func (c *Client) EnableJob(ctx context.Context, id string) error {
	_, err := c.do(ctx, "POST", "/jobs/id/"+url.PathEscape(id)+"/enable", nil, nil)
	return err
}

// DisableJob disables the job with the given identifier. A disabled job keeps its definition but
// its trigger no longer starts executions.
func (c *Client) DisableJob(ctx context.Context, id string) error {
	_, err := c.do(ctx, "POST", "/jobs/id/"+url.PathEscape(id)+"/disable", nil, nil)
	return err
}

// ExecuteJob starts an execution of the job with the given identifier. The parameters, if any,
// must be a JSON object value whose properties match the parameters declared by the job
// specification.
func (c *Client) ExecuteJob(ctx context.Context, id string, parameters ldvalue.Value) (elmodel.JobExecution, error) {
	var body []byte
	if parameters.IsDefined() {
		data, err := parameters.MarshalJSON()
		if err != nil {
			return elmodel.JobExecution{}, &ClientError{Err: err} // COVERAGE: there is no way to simulate this condition in unit tests
		}
		body = data
	}
	data, err := c.do(ctx, "POST", "/jobs/id/"+url.PathEscape(id)+"/execute", nil, body)
	if err != nil {
		return elmodel.JobExecution{}, err
	}
	var execution elmodel.JobExecution
	if err := json.Unmarshal(data, &execution); err != nil {
		return elmodel.JobExecution{}, err
	}
	return execution, nil
}

// GetJobExecution fetches the job execution with the given identifier.
func (c *Client) GetJobExecution(ctx context.Context, id string) (elmodel.JobExecution, error) {
	data, err := c.do(ctx, "GET", "/job_executions/id/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return elmodel.JobExecution{}, err
	}
	var execution elmodel.JobExecution
	if err := json.Unmarshal(data, &execution); err != nil {
		return elmodel.JobExecution{}, err
	}
	return execution, nil
}

// AbortJobExecution aborts the job execution with the given identifier. Only executions that have
// not finished can be aborted.
func (c *Client) AbortJobExecution(ctx context.Context, id string) error {
	_, err := c.do(ctx, "POST", "/job_executions/id/"+url.PathEscape(id)+"/abort", nil, nil)
	return err
}

// RestartJobExecution restarts the job execution with the given identifier. Only executions that
// have finished can be restarted.
func (c *Client) RestartJobExecution(ctx context.Context, id string) error {
	_, err := c.do(ctx, "POST", "/job_executions/id/"+url.PathEscape(id)+"/restart", nil, nil)
	return err
}

// WaitForJobExecution polls the job execution with the given identifier until it reaches a
// terminal status, and returns it. The execution is refreshed immediately and then once per
// pollInterval (DefaultExecutionPollInterval if pollInterval is zero or negative).
//
// Waiting stops early if the context is done, or if refreshing the execution fails with an error
// that retrying cannot resolve, such as an authentication failure. Transient failures, like a
// network problem or a service overload, only cause a warning to be logged.
func (c *Client) WaitForJobExecution(
	ctx context.Context,
	id string,
	pollInterval time.Duration,
) (elmodel.JobExecution, error) {
	if pollInterval <= 0 {
		pollInterval = DefaultExecutionPollInterval
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		execution, err := c.GetJobExecution(ctx, id)
		switch {
		case err != nil && !isRecoverableError(err):
			return elmodel.JobExecution{}, err
		case err != nil:
			c.loggers.Warnf("Error refreshing job execution %s (will retry): %s", id, err)
		case execution.Status.IsTerminal():
			return execution, nil
		}
		select {
		case <-ctx.Done():
			return elmodel.JobExecution{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
