package eventline

import (
	"context"
	"testing"

	"github.com/exograd/go-eventline/elmodel"
	"github.com/exograd/go-eventline/testhelpers/elservices"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEvents(t *testing.T) {
	events := []elmodel.Event{elservices.NewTestEvent("evt-1"), elservices.NewTestEvent("evt-2")}
	handler := httphelpers.HandlerWithJSONResponse(elservices.NewEventPageData(events...), nil)
	withTestClient(t, handler, Config{ProjectID: "prj-1"}, func(p clientTestParams) {
		result, err := p.client.ListEvents(context.Background(), elmodel.Cursor{Size: 2})
		require.NoError(t, err)
		assert.Equal(t, events, result.Elements)
		assert.False(t, result.HasNext())

		r := <-p.requestsCh
		assert.Equal(t, "GET", r.Request.Method)
		assert.Equal(t, "/events", r.Request.URL.Path)
		assert.Equal(t, "2", r.Request.URL.Query().Get("size"))
	})
}

func TestGetEvent(t *testing.T) {
	event := elservices.NewTestEvent("evt-1")
	handler := httphelpers.HandlerWithJSONResponse(event, nil)
	withTestClient(t, handler, Config{ProjectID: "prj-1"}, func(p clientTestParams) {
		result, err := p.client.GetEvent(context.Background(), "evt-1")
		require.NoError(t, err)
		assert.Equal(t, event, result)

		r := <-p.requestsCh
		assert.Equal(t, "GET", r.Request.Method)
		assert.Equal(t, "/events/id/evt-1", r.Request.URL.Path)
	})
}

func TestCreateEvent(t *testing.T) {
	event := elservices.NewTestEvent("evt-1")
	handler := httphelpers.HandlerWithJSONResponse(event, nil)
	withTestClient(t, handler, Config{ProjectID: "prj-1"}, func(p clientTestParams) {
		newEvent := elmodel.NewEvent{
			Connector: "github",
			Name:      "push",
			Data:      ldvalue.ObjectBuild().SetString("branch", "main").Build(),
		}
		result, err := p.client.CreateEvent(context.Background(), newEvent)
		require.NoError(t, err)
		assert.Equal(t, event, result)

		r := <-p.requestsCh
		assert.Equal(t, "POST", r.Request.Method)
		assert.Equal(t, "/events", r.Request.URL.Path)
		assert.JSONEq(t, `{"connector": "github", "name": "push", "data": {"branch": "main"}}`, string(r.Body))
	})
}

func TestReplayEvent(t *testing.T) {
	replayed := elservices.NewTestEvent("evt-2")
	replayed.OriginalEventID = "evt-1"
	handler := httphelpers.HandlerWithJSONResponse(replayed, nil)
	withTestClient(t, handler, Config{ProjectID: "prj-1"}, func(p clientTestParams) {
		result, err := p.client.ReplayEvent(context.Background(), "evt-1")
		require.NoError(t, err)
		assert.Equal(t, replayed, result)
		assert.Equal(t, "evt-1", result.OriginalEventID)

		r := <-p.requestsCh
		assert.Equal(t, "POST", r.Request.Method)
		assert.Equal(t, "/events/id/evt-1/replay", r.Request.URL.Path)
		assert.Len(t, r.Body, 0)
	})
}
