package kinto

import (
	"context"
	"net/http"

	"github.com/webcreds/credsync/pkg/constants"
)

// CollectionInfo is the metadata of one collection.
type CollectionInfo struct {
	ID           string `json:"id"`
	Status       string `json:"status,omitempty"`
	LastModified int64  `json:"last_modified"`
}

// BatchRequest is one subrequest inside a grouped batch write.
type BatchRequest struct {
	Method string    `json:"method"`
	Path   string    `json:"path"`
	Body   BatchBody `json:"body"`
}

// BatchBody carries the {"data": ...} payload of a batch subrequest.
type BatchBody struct {
	Data any `json:"data"`
}

// NewCreateRequest builds a batch subrequest that creates a record.
func (c *Client) NewCreateRequest(collection string, data any) BatchRequest {
	return BatchRequest{
		Method: http.MethodPost,
		Path:   c.recordsPath(collection),
		Body:   BatchBody{Data: data},
	}
}

// NewUpdateRequest builds a batch subrequest that updates a record by id.
func (c *Client) NewUpdateRequest(collection, id string, data any) BatchRequest {
	return BatchRequest{
		Method: http.MethodPatch,
		Path:   c.recordPath(collection, id),
		Body:   BatchBody{Data: data},
	}
}

// reviewPatch is the metadata payload that flags a collection for
// human sign-off.
type reviewPatch struct {
	Status       string `json:"status"`
	LastModified int64  `json:"last_modified"`
}

// RequestReview flags the collection for review, carrying the
// collection's current last_modified into the patch so the server can
// detect concurrent edits.
func (c *Client) RequestReview(ctx context.Context, collection string) error {
	info, err := c.Collection(ctx, collection)
	if err != nil {
		return err
	}

	return c.PatchCollection(ctx, collection, reviewPatch{
		Status:       constants.StatusToReview,
		LastModified: info.LastModified,
	})
}
