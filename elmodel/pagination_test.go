package elmodel

import (
	"encoding/json"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v3/jsonhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorURLQuery(t *testing.T) {
	t.Run("empty cursor produces no parameters", func(t *testing.T) {
		assert.Empty(t, Cursor{}.URLQuery())
	})

	t.Run("all parameters", func(t *testing.T) {
		c := Cursor{Before: "id0", After: "id1", Size: 20, Sort: "id", Order: OrderDesc}
		values := c.URLQuery()
		assert.Equal(t, "id0", values.Get("before"))
		assert.Equal(t, "id1", values.Get("after"))
		assert.Equal(t, "20", values.Get("size"))
		assert.Equal(t, "id", values.Get("sort"))
		assert.Equal(t, "desc", values.Get("order"))
	})
}

func TestCursorSerialization(t *testing.T) {
	t.Run("parses", func(t *testing.T) {
		var c Cursor
		require.NoError(t, json.Unmarshal([]byte(`{"after": "id1", "size": 20, "order": "asc"}`), &c))
		assert.Equal(t, Cursor{After: "id1", Size: 20, Order: OrderAsc}, c)
	})

	t.Run("rejects unknown sort order", func(t *testing.T) {
		var c Cursor
		err := json.Unmarshal([]byte(`{"order": "sideways"}`), &c)
		assertInvalidObject(t, err, "cursor", "invalid cursor: field 'order' is not a valid sort order")
	})

	t.Run("round trip", func(t *testing.T) {
		c := Cursor{Before: "id0", Size: 5, Order: OrderDesc}
		data, err := json.Marshal(c)
		require.NoError(t, err)
		jsonhelpers.AssertEqual(t, `{"before": "id0", "size": 5, "order": "desc"}`, data)
	})
}

func TestPageParsing(t *testing.T) {
	pageJSON := `{
		"elements": [
			{"id": "p1", "org_id": "o1", "name": "website", "creation_time": "2022-02-01T12:00:00Z"},
			{"id": "p2", "org_id": "o1", "name": "infra", "creation_time": "2022-02-02T12:00:00Z"}
		],
		"previous": {"before": "p1", "size": 2},
		"next": {"after": "p2", "size": 2}
	}`

	t.Run("parses elements and cursors", func(t *testing.T) {
		page, err := UnmarshalPage[Project]([]byte(pageJSON))
		require.NoError(t, err)
		require.Len(t, page.Elements, 2)
		assert.Equal(t, "website", page.Elements[0].Name)
		assert.Equal(t, "infra", page.Elements[1].Name)
		assert.True(t, page.HasPrevious())
		assert.True(t, page.HasNext())
		assert.Equal(t, "p2", page.Next.After)
	})

	t.Run("last page has no next cursor", func(t *testing.T) {
		page, err := UnmarshalPage[Project]([]byte(`{"elements": []}`))
		require.NoError(t, err)
		assert.Empty(t, page.Elements)
		assert.False(t, page.HasPrevious())
		assert.False(t, page.HasNext())
	})

	t.Run("tolerates explicit null cursors", func(t *testing.T) {
		page, err := UnmarshalPage[Project]([]byte(`{"elements": [], "previous": null, "next": null}`))
		require.NoError(t, err)
		assert.False(t, page.HasPrevious())
		assert.False(t, page.HasNext())
	})

	t.Run("requires the elements field", func(t *testing.T) {
		_, err := UnmarshalPage[Project]([]byte(`{}`))
		assertInvalidObject(t, err, "page", "invalid page: missing field 'elements'")
	})

	t.Run("propagates element validation errors", func(t *testing.T) {
		_, err := UnmarshalPage[Project]([]byte(`{"elements": [{"id": "p1"}]}`))
		assertInvalidObject(t, err, "project", "invalid project: missing field 'org_id'")
	})

	t.Run("marshals pages the way the API does", func(t *testing.T) {
		page, err := UnmarshalPage[Project]([]byte(pageJSON))
		require.NoError(t, err)
		data, err := MarshalPage(page)
		require.NoError(t, err)
		jsonhelpers.AssertEqual(t, pageJSON, data)
	})
}
