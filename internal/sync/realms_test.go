package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/webcreds/credsync/pkg/errors"
)

const realmsColl = "websites-with-shared-credential-backends"

func TestRealms_CreatesWhenDestinationEmpty(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{realms: [][]string{{"a.com", "b.com"}}}

	r := NewRealms(store, source, realmsColl, false, nil)
	outcome, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ActionCreate, outcome.Action)
	assert.True(t, outcome.Reviewed)
	require.Equal(t, []string{"create", "review"}, store.ops())

	body, ok := store.calls[0].Data.(realmsBody)
	require.True(t, ok)
	assert.Equal(t, [][]string{{"a.com", "b.com"}}, body.RelatedRealms)
}

func TestRealms_NoopWhenIdentical(t *testing.T) {
	store := newFakeStore()
	store.records[realmsColl] = []any{
		RealmsRecord{ID: "rec1", RelatedRealms: [][]string{{"a.com", "b.com"}}},
	}
	source := &fakeSource{realms: [][]string{{"a.com", "b.com"}}}

	r := NewRealms(store, source, realmsColl, false, nil)
	outcome, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ActionNone, outcome.Action)
	assert.False(t, outcome.Reviewed)
	assert.Empty(t, store.calls)
}

func TestRealms_UpdatesWhenChanged(t *testing.T) {
	store := newFakeStore()
	store.records[realmsColl] = []any{
		RealmsRecord{ID: "rec1", RelatedRealms: [][]string{{"a.com"}}},
	}
	source := &fakeSource{realms: [][]string{{"a.com", "b.com"}}}

	r := NewRealms(store, source, realmsColl, false, nil)
	outcome, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ActionUpdate, outcome.Action)
	require.Equal(t, []string{"update", "review"}, store.ops())
	assert.Equal(t, "rec1", store.calls[0].ID)

	body := store.calls[0].Data.(realmsBody)
	assert.Equal(t, [][]string{{"a.com", "b.com"}}, body.RelatedRealms)
}

func TestRealms_DryRunWritesNothing(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{realms: [][]string{{"a.com"}}}

	r := NewRealms(store, source, realmsColl, true, nil)
	outcome, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ActionCreate, outcome.Action)
	assert.False(t, outcome.Reviewed)
	assert.Empty(t, store.calls)
}

func TestRealms_MultipleRecordsIsError(t *testing.T) {
	store := newFakeStore()
	store.records[realmsColl] = []any{
		RealmsRecord{ID: "rec1"},
		RealmsRecord{ID: "rec2"},
	}
	source := &fakeSource{realms: [][]string{}}

	r := NewRealms(store, source, realmsColl, false, nil)
	_, err := r.Reconcile(context.Background())

	var storageErr *pkgerrors.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Contains(t, storageErr.Message, "at most one record")
}

func TestRealms_FetchFailureAborts(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{err: &pkgerrors.FetchError{URL: "u", Message: "down"}}

	r := NewRealms(store, source, realmsColl, false, nil)
	_, err := r.Reconcile(context.Background())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsUpstreamUnavailable(err))
	assert.Empty(t, store.calls)
}

func TestRealms_WriteFailurePropagates(t *testing.T) {
	store := newFakeStore()
	store.writeErr = errors.New("forbidden")
	source := &fakeSource{realms: [][]string{{"a.com"}}}

	r := NewRealms(store, source, realmsColl, false, nil)
	_, err := r.Reconcile(context.Background())

	require.Error(t, err)
	var syncErr *pkgerrors.SyncError
	require.True(t, errors.As(err, &syncErr))
	assert.Equal(t, realmsColl, syncErr.Collection)
}

func TestRealms_ReviewFailurePropagates(t *testing.T) {
	store := newFakeStore()
	store.reviewErr = errors.New("conflict")
	source := &fakeSource{realms: [][]string{{"a.com"}}}

	r := NewRealms(store, source, realmsColl, false, nil)
	_, err := r.Reconcile(context.Background())

	require.Error(t, err)
	// The record write already landed before the review patch failed.
	require.Equal(t, []string{"create"}, store.ops())
}
