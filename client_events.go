package eventline

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/exograd/go-eventline/elmodel"
)

// ListEvents fetches one page of the events of the project. The zero Cursor requests the first
// page with the default ordering and page size.
//
// ListEvents is a one-shot query; to continuously receive events as they occur, use WatchEvents.
func (c *Client) ListEvents(ctx context.Context, cursor elmodel.Cursor) (elmodel.Page[elmodel.Event], error) {
	data, err := c.do(ctx, "GET", "/events", cursor.URLQuery(), nil)
	if err != nil {
		return elmodel.Page[elmodel.Event]{}, err
	}
	return elmodel.UnmarshalPage[elmodel.Event](data)
}

// GetEvent fetches the event with the given identifier.
func (c *Client) GetEvent(ctx context.Context, id string) (elmodel.Event, error) {
	data, err := c.do(ctx, "GET", "/events/id/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return elmodel.Event{}, err
	}
	var event elmodel.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return elmodel.Event{}, err
	}
	return event, nil
}

// CreateEvent submits a custom event, triggering any job whose trigger matches it. It returns
// the event as stored by the service.
func (c *Client) CreateEvent(ctx context.Context, newEvent elmodel.NewEvent) (elmodel.Event, error) {
	body, err := newEvent.MarshalJSON()
	if err != nil {
		return elmodel.Event{}, &ClientError{Err: err} // COVERAGE: there is no way to simulate this condition in unit tests
	}
	data, err := c.do(ctx, "POST", "/events", nil, body)
	if err != nil {
		return elmodel.Event{}, err
	}
	var event elmodel.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return elmodel.Event{}, err
	}
	return event, nil
}

// ReplayEvent submits a copy of an existing event, triggering any job whose trigger matches it.
// It returns the new event; the OriginalEventID field of the copy identifies the event it was
// replayed from.
func (c *Client) ReplayEvent(ctx context.Context, id string) (elmodel.Event, error) {
	data, err := c.do(ctx, "POST", "/events/id/"+url.PathEscape(id)+"/replay", nil, nil)
	if err != nil {
		return elmodel.Event{}, err
	}
	var event elmodel.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return elmodel.Event{}, err
	}
	return event, nil
}
