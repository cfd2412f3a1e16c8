package credsync

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/webcreds/credsync/internal/sync"
)

// Option is a function that configures a Runner.
type Option func(*Runner) error

// WithLogger sets the logger used for run diagnostics.
func WithLogger(log *zerolog.Logger) Option {
	return func(r *Runner) error {
		if log != nil {
			r.log = log
		}
		return nil
	}
}

// WithHTTPClient sets the http.Client used for both the upstream
// fetches and the storage calls.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Runner) error {
		r.client = client
		return nil
	}
}

// WithStore injects a storage client, bypassing construction from the
// configured server and credentials. Used in tests.
func WithStore(store sync.Store) Option {
	return func(r *Runner) error {
		r.store = store
		return nil
	}
}

// WithSource injects an upstream feed source. Used in tests.
func WithSource(source sync.Source) Option {
	return func(r *Runner) error {
		r.source = source
		return nil
	}
}
