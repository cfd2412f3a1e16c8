package sync

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/webcreds/credsync/pkg/differ"
	"github.com/webcreds/credsync/pkg/errors"
)

// RealmsRecord is the single record of the realms collection: one
// ordered sequence of realm groups.
type RealmsRecord struct {
	ID            string     `json:"id,omitempty"`
	RelatedRealms [][]string `json:"relatedRealms"`
}

// realmsBody is the record payload written on create and update; the
// id travels in the URL, not the body.
type realmsBody struct {
	RelatedRealms [][]string `json:"relatedRealms"`
}

// Realms reconciles the shared-credential realm groups collection.
type Realms struct {
	store      Store
	source     Source
	collection string
	dryRun     bool
	log        *zerolog.Logger
}

// NewRealms creates the realms reconciler.
func NewRealms(store Store, source Source, collection string, dryRun bool, log *zerolog.Logger) *Realms {
	return &Realms{
		store:      store,
		source:     source,
		collection: collection,
		dryRun:     dryRun,
		log:        logger(log),
	}
}

// Reconcile fetches the upstream realm groups, compares them against
// the stored sequence, and replaces the record wholesale when they
// differ. The review flag is only raised when something was written.
func (r *Realms) Reconcile(ctx context.Context) (*Outcome, error) {
	source, err := r.source.RealmGroups(ctx)
	if err != nil {
		return nil, errors.WrapSync(r.collection, err)
	}

	id, current, err := r.loadDestination(ctx)
	if err != nil {
		return nil, errors.WrapSync(r.collection, err)
	}

	outcome := &Outcome{Collection: r.collection, Action: ActionNone}

	switch {
	case id == "":
		outcome.Action = ActionCreate
		outcome.Creates = 1
	case differ.RealmsChanged(source, current):
		outcome.Action = ActionUpdate
		outcome.Updates = 1
	default:
		r.log.Info().Str("collection", r.collection).Msg("Realm groups unchanged")
		return outcome, nil
	}

	r.log.Info().
		Str("collection", r.collection).
		Str("action", string(outcome.Action)).
		Int("groups", len(source)).
		Bool("dry_run", r.dryRun).
		Msg("Realm groups differ from destination")

	if r.dryRun {
		return outcome, nil
	}

	if err := r.write(ctx, id, source); err != nil {
		return nil, errors.WrapSync(r.collection, err)
	}

	if err := r.store.RequestReview(ctx, r.collection); err != nil {
		return nil, errors.WrapSync(r.collection, err)
	}
	outcome.Reviewed = true

	return outcome, nil
}

// loadDestination lists the realms collection, which holds at most one
// record. More than one record means the collection is corrupt.
func (r *Realms) loadDestination(ctx context.Context) (string, [][]string, error) {
	var records []RealmsRecord
	if err := r.store.ListRecords(ctx, r.collection, &records); err != nil {
		return "", nil, err
	}

	switch len(records) {
	case 0:
		return "", nil, nil
	case 1:
		return records[0].ID, records[0].RelatedRealms, nil
	default:
		return "", nil, &errors.StorageError{
			Operation:  "list",
			Collection: r.collection,
			Message:    fmt.Sprintf("expected at most one record, found %d", len(records)),
		}
	}
}

// write creates the record or replaces its realm sequence in full.
func (r *Realms) write(ctx context.Context, id string, source [][]string) error {
	body := realmsBody{RelatedRealms: source}
	if id == "" {
		return r.store.CreateRecord(ctx, r.collection, body)
	}
	return r.store.UpdateRecord(ctx, r.collection, id, body)
}
