package sync

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/webcreds/credsync/internal/kinto"
)

// fakeSource serves canned feed payloads or a canned error.
type fakeSource struct {
	realms [][]string
	rules  map[string]string
	err    error
}

func (s *fakeSource) RealmGroups(_ context.Context) ([][]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.realms, nil
}

func (s *fakeSource) PasswordRules(_ context.Context) (map[string]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rules, nil
}

// storeCall records one write-side call against the fake store.
type storeCall struct {
	Op         string // "create", "update", "batch", "review"
	Collection string
	ID         string
	Data       any
	Batch      []kinto.BatchRequest
}

// fakeStore implements Store over in-memory records and records every
// write it receives.
type fakeStore struct {
	records map[string][]any // collection → raw records
	calls   []storeCall

	listErr   error
	writeErr  error
	reviewErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string][]any)}
}

func (f *fakeStore) ListRecords(_ context.Context, collection string, out any) error {
	if f.listErr != nil {
		return f.listErr
	}
	records := f.records[collection]
	if records == nil {
		records = []any{}
	}
	encoded, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, out)
}

func (f *fakeStore) CreateRecord(_ context.Context, collection string, data any) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.calls = append(f.calls, storeCall{Op: "create", Collection: collection, Data: data})
	return nil
}

func (f *fakeStore) UpdateRecord(_ context.Context, collection, id string, data any) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.calls = append(f.calls, storeCall{Op: "update", Collection: collection, ID: id, Data: data})
	return nil
}

func (f *fakeStore) Batch(_ context.Context, requests []kinto.BatchRequest) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.calls = append(f.calls, storeCall{Op: "batch", Batch: requests})
	return nil
}

func (f *fakeStore) NewCreateRequest(collection string, data any) kinto.BatchRequest {
	return kinto.BatchRequest{
		Method: http.MethodPost,
		Path:   "/buckets/test/collections/" + collection + "/records",
		Body:   kinto.BatchBody{Data: data},
	}
}

func (f *fakeStore) NewUpdateRequest(collection, id string, data any) kinto.BatchRequest {
	return kinto.BatchRequest{
		Method: http.MethodPatch,
		Path:   "/buckets/test/collections/" + collection + "/records/" + id,
		Body:   kinto.BatchBody{Data: data},
	}
}

func (f *fakeStore) RequestReview(_ context.Context, collection string) error {
	if f.reviewErr != nil {
		return f.reviewErr
	}
	f.calls = append(f.calls, storeCall{Op: "review", Collection: collection})
	return nil
}

// ops returns the sequence of operation names seen by the store.
func (f *fakeStore) ops() []string {
	names := make([]string, 0, len(f.calls))
	for _, call := range f.calls {
		names = append(names, call.Op)
	}
	return names
}
