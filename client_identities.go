package eventline

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/exograd/go-eventline/elmodel"
)

// ListIdentities fetches one page of the identities of the project. The zero Cursor requests the
// first page with the default ordering and page size.
func (c *Client) ListIdentities(ctx context.Context, cursor elmodel.Cursor) (elmodel.Page[elmodel.Identity], error) {
	data, err := c.do(ctx, "GET", "/identities", cursor.URLQuery(), nil)
	if err != nil {
		return elmodel.Page[elmodel.Identity]{}, err
	}
	return elmodel.UnmarshalPage[elmodel.Identity](data)
}

// GetIdentity fetches the identity with the given identifier.
func (c *Client) GetIdentity(ctx context.Context, id string) (elmodel.Identity, error) {
	data, err := c.do(ctx, "GET", "/identities/id/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return elmodel.Identity{}, err
	}
	var identity elmodel.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return elmodel.Identity{}, err
	}
	return identity, nil
}

// DeleteIdentity deletes the identity with the given identifier. Jobs that depend on the identity
// will fail until it is recreated.
func (c *Client) DeleteIdentity(ctx context.Context, id string) error {
	_, err := c.do(ctx, "DELETE", "/identities/id/"+url.PathEscape(id), nil, nil)
	return err
}
