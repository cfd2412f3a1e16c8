// Package credsync synchronizes two upstream quirk feeds — shared
// credential realm groups and per-domain password rules — into two
// collections of a Kinto-compatible record-storage server, flagging
// changed collections for human review.
package credsync

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/webcreds/credsync/internal/kinto"
	"github.com/webcreds/credsync/internal/sync"
	"github.com/webcreds/credsync/internal/transport"
	"github.com/webcreds/credsync/internal/upstream"
	"github.com/webcreds/credsync/pkg/logging"
)

// State is a stage of the runner's progression. Each run walks the
// states in order; any failure moves to StateFailed and stops.
type State string

const (
	// StateUninitialized is the initial state.
	StateUninitialized State = "uninitialized"
	// StateCredentialsChecked means configuration validation passed.
	StateCredentialsChecked State = "credentials-checked"
	// StateAuthenticated means the authenticated storage client exists.
	StateAuthenticated State = "authenticated"
	// StateRealmsReconciled means the realms flow completed.
	StateRealmsReconciled State = "realms-reconciled"
	// StateRulesReconciled means the rules flow completed.
	StateRulesReconciled State = "rules-reconciled"
	// StateDone means the whole run succeeded.
	StateDone State = "done"
	// StateFailed is reachable from any state.
	StateFailed State = "failed"
)

// Runner executes one synchronization run: credentials check, client
// construction, realms reconciliation, rules reconciliation. Strictly
// sequential; the first error collapses the run with no compensation
// for writes that already landed.
type Runner struct {
	cfg    Config
	state  State
	log    *zerolog.Logger
	client *http.Client

	// Injected collaborators; built in the authenticate stage when nil.
	store  sync.Store
	source sync.Source

	result *Result
}

// New creates a Runner for the given configuration. Validation happens
// in Run so the failure is attributable to the credentials stage.
func New(cfg Config, opts ...Option) (*Runner, error) {
	r := &Runner{
		cfg:   cfg.withDefaults(),
		state: StateUninitialized,
		log:   logging.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// State returns the runner's current state.
func (r *Runner) State() State {
	return r.state
}

// Run executes the synchronization. It returns the run result on
// success; on any failure the runner lands in StateFailed and the
// error carries the failing stage's kind.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	r.result = &Result{DryRun: r.cfg.DryRun}

	stages := []struct {
		state State
		fn    func(context.Context) error
	}{
		{StateCredentialsChecked, r.checkCredentials},
		{StateAuthenticated, r.authenticate},
		{StateRealmsReconciled, r.reconcileRealms},
		{StateRulesReconciled, r.reconcileRules},
	}

	for _, stage := range stages {
		if err := stage.fn(ctx); err != nil {
			r.state = StateFailed
			r.log.Error().Err(err).Str("stage", string(stage.state)).Msg("Run failed")
			return nil, err
		}
		r.state = stage.state
	}

	r.state = StateDone
	r.log.Info().
		Str("realms", string(r.result.Realms.Action)).
		Int("rule_creates", r.result.Rules.Creates).
		Int("rule_updates", r.result.Rules.Updates).
		Bool("dry_run", r.cfg.DryRun).
		Msg("Sync completed successfully")

	return r.result, nil
}

// checkCredentials validates the configuration. No network calls have
// happened yet, so a missing credential fails the run before any
// request is made.
func (r *Runner) checkCredentials(_ context.Context) error {
	return r.cfg.Validate()
}

// authenticate constructs the authenticated storage client and the
// upstream fetcher, unless tests injected their own.
func (r *Runner) authenticate(_ context.Context) error {
	if r.store == nil {
		auth := &transport.BasicAuth{
			Username: r.cfg.WriterUsername,
			Password: r.cfg.WriterPassword,
		}
		tc := transport.NewWithHTTPClient(auth, r.client)
		r.store = kinto.NewWithTransport(r.cfg.Server, r.cfg.Bucket, tc)
	}
	if r.source == nil {
		r.source = upstream.NewWithURLs(r.cfg.RealmsFeedURL, r.cfg.RulesFeedURL, r.client)
	}
	return nil
}

func (r *Runner) reconcileRealms(ctx context.Context) error {
	realms := sync.NewRealms(r.store, r.source, r.cfg.RealmsCollection, r.cfg.DryRun, r.log)
	outcome, err := realms.Reconcile(ctx)
	if err != nil {
		return err
	}
	r.result.Realms = outcome
	return nil
}

func (r *Runner) reconcileRules(ctx context.Context) error {
	rules := sync.NewRules(r.store, r.source, r.cfg.RulesCollection, r.cfg.DryRun, r.log)
	outcome, err := rules.Reconcile(ctx)
	if err != nil {
		return err
	}
	r.result.Rules = outcome
	return nil
}
