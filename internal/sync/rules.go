package sync

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/webcreds/credsync/internal/kinto"
	"github.com/webcreds/credsync/pkg/differ"
	"github.com/webcreds/credsync/pkg/errors"
)

// RuleRecord is one per-domain record of the rules collection.
type RuleRecord struct {
	ID     string `json:"id,omitempty"`
	Domain string `json:"domain"`
	Rules  string `json:"password-rules"`
}

// Rules reconciles the per-domain password rules collection.
type Rules struct {
	store      Store
	source     Source
	collection string
	dryRun     bool
	log        *zerolog.Logger
}

// NewRules creates the rules reconciler.
func NewRules(store Store, source Source, collection string, dryRun bool, log *zerolog.Logger) *Rules {
	return &Rules{
		store:      store,
		source:     source,
		collection: collection,
		dryRun:     dryRun,
		log:        logger(log),
	}
}

// Reconcile fetches the upstream rules, plans per-domain creates and
// updates, applies them as one grouped batch, and then flags the
// collection for review. The review flag is raised on every run, even
// when the plan was empty; domains that disappeared upstream are never
// touched.
func (r *Rules) Reconcile(ctx context.Context) (*Outcome, error) {
	outcome := &Outcome{Collection: r.collection, Action: ActionNone}

	changeset, err := r.Plan(ctx)
	if err != nil {
		return nil, errors.WrapSync(r.collection, err)
	}

	outcome.Creates = len(changeset.Creates)
	outcome.Updates = len(changeset.Updates)
	outcome.Plan = changeset
	if changeset.HasChanges() {
		outcome.Action = ActionBatch
	}

	r.log.Info().
		Str("collection", r.collection).
		Int("creates", outcome.Creates).
		Int("updates", outcome.Updates).
		Bool("dry_run", r.dryRun).
		Msgf("Planned rules changes: %s", changeset.String())

	if r.dryRun {
		return outcome, nil
	}

	if err := r.apply(ctx, changeset); err != nil {
		return nil, errors.WrapSync(r.collection, err)
	}

	if err := r.store.RequestReview(ctx, r.collection); err != nil {
		return nil, errors.WrapSync(r.collection, err)
	}
	outcome.Reviewed = true

	return outcome, nil
}

// Plan loads the destination and computes the changeset without
// writing anything.
func (r *Rules) Plan(ctx context.Context) (*differ.RulesChangeset, error) {
	source, err := r.source.PasswordRules(ctx)
	if err != nil {
		return nil, err
	}

	current, err := r.loadDestination(ctx)
	if err != nil {
		return nil, err
	}

	return differ.PlanRules(source, current), nil
}

// loadDestination lists the rules collection and keys it by domain.
func (r *Rules) loadDestination(ctx context.Context) (map[string]differ.RuleState, error) {
	var records []RuleRecord
	if err := r.store.ListRecords(ctx, r.collection, &records); err != nil {
		return nil, err
	}

	current := make(map[string]differ.RuleState, len(records))
	for _, record := range records {
		current[record.Domain] = differ.RuleState{ID: record.ID, Rules: record.Rules}
	}
	return current, nil
}

// apply submits all directives as one grouped batch write.
func (r *Rules) apply(ctx context.Context, changeset *differ.RulesChangeset) error {
	if !changeset.HasChanges() {
		return nil
	}

	requests := make([]kinto.BatchRequest, 0, len(changeset.Creates)+len(changeset.Updates))
	for _, create := range changeset.Creates {
		requests = append(requests, r.store.NewCreateRequest(r.collection, RuleRecord{
			Domain: create.Domain,
			Rules:  create.Rules,
		}))
	}
	for _, update := range changeset.Updates {
		requests = append(requests, r.store.NewUpdateRequest(r.collection, update.ID, RuleRecord{
			Domain: update.Domain,
			Rules:  update.Rules,
		}))
	}

	return r.store.Batch(ctx, requests)
}
