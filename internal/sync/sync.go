// Package sync implements the two reconciliation flows: realm groups
// and per-domain password rules. Each flow compares an upstream feed
// against its destination collection, applies the minimal set of
// creates/updates, and flags the collection for human review.
package sync

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/webcreds/credsync/internal/kinto"
	"github.com/webcreds/credsync/pkg/differ"
)

// Store is the slice of the record-storage client the reconcilers use.
// *kinto.Client satisfies it; tests substitute fakes so each stage's
// failure mode is observable without a live server.
type Store interface {
	ListRecords(ctx context.Context, collection string, out any) error
	CreateRecord(ctx context.Context, collection string, data any) error
	UpdateRecord(ctx context.Context, collection, id string, data any) error
	Batch(ctx context.Context, requests []kinto.BatchRequest) error
	NewCreateRequest(collection string, data any) kinto.BatchRequest
	NewUpdateRequest(collection, id string, data any) kinto.BatchRequest
	RequestReview(ctx context.Context, collection string) error
}

// Source provides the upstream feeds. *upstream.Fetcher satisfies it.
type Source interface {
	RealmGroups(ctx context.Context) ([][]string, error)
	PasswordRules(ctx context.Context) (map[string]string, error)
}

// Action describes what a reconciliation did to its collection.
type Action string

const (
	// ActionNone means the destination already matched the source.
	ActionNone Action = "none"
	// ActionCreate means a record was (or would be) created.
	ActionCreate Action = "create"
	// ActionUpdate means a record was (or would be) updated.
	ActionUpdate Action = "update"
	// ActionBatch means a grouped batch write was (or would be) applied.
	ActionBatch Action = "batch"
)

// Outcome summarizes one reconciliation flow.
type Outcome struct {
	Collection string
	Action     Action
	Creates    int
	Updates    int
	Reviewed   bool

	// Plan holds the rules changeset that was (or would be) applied.
	// Nil for the realms flow.
	Plan *differ.RulesChangeset
}

// logger returns log or the nop logger.
func logger(log *zerolog.Logger) *zerolog.Logger {
	if log == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return log
}
