package eventline

import (
	"context"
	"testing"

	"github.com/exograd/go-eventline/elmodel"

	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListIdentities(t *testing.T) {
	page := elmodel.Page[elmodel.Identity]{Elements: []elmodel.Identity{testIdentity("id-1")}}
	withTestClient(t, handlerForPage(page), Config{ProjectID: "prj-1"}, func(p clientTestParams) {
		result, err := p.client.ListIdentities(context.Background(), elmodel.Cursor{})
		require.NoError(t, err)
		assert.Equal(t, page.Elements, result.Elements)

		r := <-p.requestsCh
		assert.Equal(t, "GET", r.Request.Method)
		assert.Equal(t, "/identities", r.Request.URL.Path)
		assert.Equal(t, "prj-1", r.Request.Header.Get(projectIDHeader))
	})
}

func TestGetIdentity(t *testing.T) {
	identity := testIdentity("id-1")
	handler := httphelpers.HandlerWithJSONResponse(identity, nil)
	withTestClient(t, handler, Config{ProjectID: "prj-1"}, func(p clientTestParams) {
		result, err := p.client.GetIdentity(context.Background(), "id-1")
		require.NoError(t, err)
		assert.Equal(t, identity, result)

		r := <-p.requestsCh
		assert.Equal(t, "GET", r.Request.Method)
		assert.Equal(t, "/identities/id/id-1", r.Request.URL.Path)
	})
}

func TestDeleteIdentity(t *testing.T) {
	handler := httphelpers.HandlerWithStatus(204)
	withTestClient(t, handler, Config{ProjectID: "prj-1"}, func(p clientTestParams) {
		require.NoError(t, p.client.DeleteIdentity(context.Background(), "id-1"))

		r := <-p.requestsCh
		assert.Equal(t, "DELETE", r.Request.Method)
		assert.Equal(t, "/identities/id/id-1", r.Request.URL.Path)
	})
}
