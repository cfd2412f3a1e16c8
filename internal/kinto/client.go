// Package kinto implements a thin client for the subset of the Kinto
// record-storage HTTP API this tool needs: listing, creating and
// updating records, grouped batch writes, and collection metadata
// reads/patches within a single bucket.
package kinto

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/webcreds/credsync/internal/transport"
	"github.com/webcreds/credsync/pkg/errors"
)

// maxErrorBody bounds how much of an error response body gets copied
// into an error message.
const maxErrorBody = 512

// Client talks to one bucket of a Kinto-compatible server.
type Client struct {
	transport *transport.Client
	server    string
	bucket    string
}

// New creates a client for the given server base URL and bucket.
func New(server, bucket string, auth transport.Authenticator) *Client {
	return NewWithTransport(server, bucket, transport.New(auth))
}

// NewWithTransport creates a client using an existing transport client.
func NewWithTransport(server, bucket string, tc *transport.Client) *Client {
	return &Client{
		transport: tc,
		server:    strings.TrimRight(server, "/"),
		bucket:    bucket,
	}
}

// Bucket returns the bucket this client operates on.
func (c *Client) Bucket() string {
	return c.bucket
}

// ListRecords fetches all records of a collection and decodes them into
// out, which must be a pointer to a slice.
func (c *Client) ListRecords(ctx context.Context, collection string, out any) error {
	body, err := c.do(ctx, "list", collection, http.MethodGet, c.recordsPath(collection), nil)
	if err != nil {
		return err
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errors.WrapStorage("list", collection, err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return errors.WrapStorage("list", collection, err)
	}
	return nil
}

// CreateRecord creates a new record; the server assigns its id.
func (c *Client) CreateRecord(ctx context.Context, collection string, data any) error {
	_, err := c.do(ctx, "create", collection, http.MethodPost, c.recordsPath(collection), envelope{Data: data})
	return err
}

// UpdateRecord overwrites the attributes of an existing record by id.
func (c *Client) UpdateRecord(ctx context.Context, collection, id string, data any) error {
	_, err := c.do(ctx, "update", collection, http.MethodPatch, c.recordPath(collection, id), envelope{Data: data})
	return err
}

// Collection reads the collection metadata.
func (c *Client) Collection(ctx context.Context, collection string) (*CollectionInfo, error) {
	body, err := c.do(ctx, "get", collection, http.MethodGet, c.collectionPath(collection), nil)
	if err != nil {
		return nil, err
	}

	resp := struct {
		Data CollectionInfo `json:"data"`
	}{}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.WrapStorage("get", collection, err)
	}
	return &resp.Data, nil
}

// PatchCollection partially merges data into the collection metadata.
func (c *Client) PatchCollection(ctx context.Context, collection string, data any) error {
	_, err := c.do(ctx, "patch", collection, http.MethodPatch, c.collectionPath(collection), envelope{Data: data})
	return err
}

// Batch submits a grouped set of requests in one round trip. The server
// applies subrequests in order; any subrequest failure surfaces as a
// StorageError naming the failing path.
func (c *Client) Batch(ctx context.Context, requests []BatchRequest) error {
	if len(requests) == 0 {
		return nil
	}

	payload := struct {
		Requests []BatchRequest `json:"requests"`
	}{Requests: requests}

	body, err := c.do(ctx, "batch", "batch", http.MethodPost, "/batch", payload)
	if err != nil {
		return err
	}

	resp := struct {
		Responses []struct {
			Status int    `json:"status"`
			Path   string `json:"path"`
		} `json:"responses"`
	}{}
	if err := json.Unmarshal(body, &resp); err != nil {
		return errors.WrapStorage("batch", "batch", err)
	}

	for _, sub := range resp.Responses {
		if sub.Status >= http.StatusBadRequest {
			return &errors.StorageError{
				Operation:  "batch",
				Collection: sub.Path,
				StatusCode: sub.Status,
				Message:    "subrequest failed",
			}
		}
	}
	return nil
}

// envelope wraps request payloads in the {"data": ...} shape the
// server expects.
type envelope struct {
	Data any `json:"data"`
}

// do performs one request against the server and returns the response
// body, mapping transport failures and non-2xx statuses to StorageError.
func (c *Client) do(ctx context.Context, operation, collection, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.WrapStorage(operation, collection, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	resp, err := c.transport.Send(ctx, method, c.server+path, reqBody)
	if err != nil {
		return nil, errors.WrapStorage(operation, collection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapStorage(operation, collection, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &errors.StorageError{
			Operation:  operation,
			Collection: collection,
			StatusCode: resp.StatusCode,
			Message:    truncate(string(body)),
		}
	}
	return body, nil
}

func (c *Client) collectionPath(collection string) string {
	return fmt.Sprintf("/buckets/%s/collections/%s", c.bucket, collection)
}

func (c *Client) recordsPath(collection string) string {
	return c.collectionPath(collection) + "/records"
}

func (c *Client) recordPath(collection, id string) string {
	return c.recordsPath(collection) + "/" + id
}

func truncate(s string) string {
	if len(s) > maxErrorBody {
		return s[:maxErrorBody]
	}
	return s
}
