package eventline

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/exograd/go-eventline/elmodel"
)

// ListProjects fetches one page of the projects of the organization. The zero Cursor requests the
// first page with the default ordering and page size.
func (c *Client) ListProjects(ctx context.Context, cursor elmodel.Cursor) (elmodel.Page[elmodel.Project], error) {
	data, err := c.doUnscoped(ctx, "GET", "/projects", cursor.URLQuery(), nil)
	if err != nil {
		return elmodel.Page[elmodel.Project]{}, err
	}
	return elmodel.UnmarshalPage[elmodel.Project](data)
}

// GetProject fetches the project with the given identifier.
func (c *Client) GetProject(ctx context.Context, id string) (elmodel.Project, error) {
	data, err := c.doUnscoped(ctx, "GET", "/projects/id/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return elmodel.Project{}, err
	}
	var project elmodel.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return elmodel.Project{}, err
	}
	return project, nil
}

// GetProjectByName fetches the project with the given name.
func (c *Client) GetProjectByName(ctx context.Context, name string) (elmodel.Project, error) {
	data, err := c.doUnscoped(ctx, "GET", "/projects/name/"+url.PathEscape(name), nil, nil)
	if err != nil {
		return elmodel.Project{}, err
	}
	var project elmodel.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return elmodel.Project{}, err
	}
	return project, nil
}

// CreateProject creates a new project and returns it.
func (c *Client) CreateProject(ctx context.Context, newProject elmodel.NewProject) (elmodel.Project, error) {
	body, err := newProject.MarshalJSON()
	if err != nil {
		return elmodel.Project{}, &ClientError{Err: err}
	}
	data, err := c.doUnscoped(ctx, "POST", "/projects", nil, body)
	if err != nil {
		return elmodel.Project{}, err
	}
	var project elmodel.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return elmodel.Project{}, err
	}
	return project, nil
}

// DeleteProject deletes the project with the given identifier, including all the resources it
// contains. Deletion cannot be undone.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, err := c.doUnscoped(ctx, "DELETE", "/projects/id/"+url.PathEscape(id), nil, nil)
	return err
}
