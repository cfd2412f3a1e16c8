package credsync

import (
	"github.com/webcreds/credsync/pkg/constants"
	"github.com/webcreds/credsync/pkg/errors"
)

// Config is the explicit runner configuration. It is validated once at
// the start of a run; nothing else reads ambient process state.
type Config struct {
	// Server is the record-storage server base URL, including the API
	// version prefix (e.g. https://settings.example.com/v1).
	Server string

	// Bucket holds both destination collections.
	Bucket string

	// WriterUsername and WriterPassword are the writer credentials used
	// to build the Basic auth token. Both are required.
	WriterUsername string
	WriterPassword string

	// RealmsCollection and RulesCollection name the destination
	// collections.
	RealmsCollection string
	RulesCollection  string

	// RealmsFeedURL and RulesFeedURL are the upstream feed endpoints.
	RealmsFeedURL string
	RulesFeedURL  string

	// DryRun plans changes without writing anything.
	DryRun bool
}

// withDefaults fills zero-valued fields with the standard endpoints
// and collection names.
func (c Config) withDefaults() Config {
	if c.Bucket == "" {
		c.Bucket = constants.DefaultBucket
	}
	if c.RealmsCollection == "" {
		c.RealmsCollection = constants.RealmsCollection
	}
	if c.RulesCollection == "" {
		c.RulesCollection = constants.RulesCollection
	}
	if c.RealmsFeedURL == "" {
		c.RealmsFeedURL = constants.RealmsFeedURL
	}
	if c.RulesFeedURL == "" {
		c.RulesFeedURL = constants.RulesFeedURL
	}
	return c
}

// Validate checks the configuration before any network activity.
func (c Config) Validate() error {
	if c.WriterUsername == "" {
		return errors.NewConfigError("writer_user", "writer username is empty", errors.ErrMissingCredentials)
	}
	if c.WriterPassword == "" {
		return errors.NewConfigError("writer_pass", "writer password is empty", errors.ErrMissingCredentials)
	}
	if c.Server == "" {
		return errors.NewConfigError("server", "server address is empty", nil)
	}
	return nil
}
