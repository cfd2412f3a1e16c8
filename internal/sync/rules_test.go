package sync

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/webcreds/credsync/pkg/errors"
)

const rulesColl = "password-rules"

func TestRules_CreatesNewDomain(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{rules: map[string]string{"x.com": "minlength: 8"}}

	r := NewRules(store, source, rulesColl, false, nil)
	outcome, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ActionBatch, outcome.Action)
	assert.Equal(t, 1, outcome.Creates)
	assert.Equal(t, 0, outcome.Updates)
	assert.True(t, outcome.Reviewed)
	require.Equal(t, []string{"batch", "review"}, store.ops())

	batch := store.calls[0].Batch
	require.Len(t, batch, 1)
	assert.Equal(t, http.MethodPost, batch[0].Method)
	record := batch[0].Body.Data.(RuleRecord)
	assert.Equal(t, "x.com", record.Domain)
	assert.Equal(t, "minlength: 8", record.Rules)
}

func TestRules_UpdatesChangedDomain(t *testing.T) {
	store := newFakeStore()
	store.records[rulesColl] = []any{
		RuleRecord{ID: "r1", Domain: "x.com", Rules: "minlength: 8"},
	}
	source := &fakeSource{rules: map[string]string{"x.com": "minlength: 12"}}

	r := NewRules(store, source, rulesColl, false, nil)
	outcome, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Updates)
	batch := store.calls[0].Batch
	require.Len(t, batch, 1)
	assert.Equal(t, http.MethodPatch, batch[0].Method)
	assert.Contains(t, batch[0].Path, "/records/r1")
	record := batch[0].Body.Data.(RuleRecord)
	assert.Equal(t, "minlength: 12", record.Rules)
}

func TestRules_ReviewRequestedEvenWithoutChanges(t *testing.T) {
	store := newFakeStore()
	store.records[rulesColl] = []any{
		RuleRecord{ID: "r1", Domain: "x.com", Rules: "minlength: 8"},
	}
	source := &fakeSource{rules: map[string]string{"x.com": "minlength: 8"}}

	r := NewRules(store, source, rulesColl, false, nil)
	outcome, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ActionNone, outcome.Action)
	assert.True(t, outcome.Reviewed)
	// No batch is submitted for an empty plan, but the review flag
	// still goes up on every run.
	require.Equal(t, []string{"review"}, store.ops())
}

func TestRules_StaleDomainsNeverTouched(t *testing.T) {
	store := newFakeStore()
	store.records[rulesColl] = []any{
		RuleRecord{ID: "r1", Domain: "x.com", Rules: "minlength: 8"},
		RuleRecord{ID: "r2", Domain: "stale.com", Rules: "minlength: 4"},
	}
	source := &fakeSource{rules: map[string]string{"x.com": "minlength: 8"}}

	r := NewRules(store, source, rulesColl, false, nil)
	_, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	for _, call := range store.calls {
		for _, sub := range call.Batch {
			record := sub.Body.Data.(RuleRecord)
			assert.NotEqual(t, "stale.com", record.Domain)
		}
	}
}

func TestRules_MixedBatchGroupsAllDirectives(t *testing.T) {
	store := newFakeStore()
	store.records[rulesColl] = []any{
		RuleRecord{ID: "r1", Domain: "changed.com", Rules: "old"},
	}
	source := &fakeSource{rules: map[string]string{
		"changed.com": "new",
		"added.com":   "minlength: 10",
	}}

	r := NewRules(store, source, rulesColl, false, nil)
	outcome, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Creates)
	assert.Equal(t, 1, outcome.Updates)
	// One grouped batch carrying both directives, then the review patch.
	require.Equal(t, []string{"batch", "review"}, store.ops())
	assert.Len(t, store.calls[0].Batch, 2)
}

func TestRules_BatchFailureSkipsReview(t *testing.T) {
	store := newFakeStore()
	store.writeErr = errors.New("boom")
	source := &fakeSource{rules: map[string]string{"x.com": "minlength: 8"}}

	r := NewRules(store, source, rulesColl, false, nil)
	_, err := r.Reconcile(context.Background())

	require.Error(t, err)
	assert.Empty(t, store.ops())
}

func TestRules_DryRunPlansWithoutWrites(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{rules: map[string]string{"x.com": "minlength: 8"}}

	r := NewRules(store, source, rulesColl, true, nil)
	outcome, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Creates)
	assert.False(t, outcome.Reviewed)
	assert.Empty(t, store.calls)
}

func TestRules_FetchFailureAborts(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{err: &pkgerrors.FetchError{URL: "u", Message: "down"}}

	r := NewRules(store, source, rulesColl, false, nil)
	_, err := r.Reconcile(context.Background())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsUpstreamUnavailable(err))
	assert.Empty(t, store.calls)
}

func TestRules_ListFailureAborts(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("unreachable")
	source := &fakeSource{rules: map[string]string{"x.com": "minlength: 8"}}

	r := NewRules(store, source, rulesColl, false, nil)
	_, err := r.Reconcile(context.Background())

	require.Error(t, err)
	assert.Empty(t, store.calls)
}
