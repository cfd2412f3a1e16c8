// Package constants defines shared constants for the credsync system.
package constants

import "time"

const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultBucket is the record-storage bucket holding both collections.
	DefaultBucket = "main-workspace"

	// RealmsCollection is the destination collection for shared-credential
	// realm groups.
	RealmsCollection = "websites-with-shared-credential-backends"

	// RulesCollection is the destination collection for per-domain
	// password rules.
	RulesCollection = "password-rules"

	// RealmsFeedURL is the upstream feed of realm groups: an array of
	// arrays of domain names sharing one credential backend.
	RealmsFeedURL = "https://raw.githubusercontent.com/apple/password-manager-resources/main/quirks/websites-with-shared-credential-backends.json"

	// RulesFeedURL is the upstream feed of password rules: an object
	// mapping domain to {"password-rules": string}.
	RulesFeedURL = "https://raw.githubusercontent.com/apple/password-manager-resources/main/quirks/password-rules.json"

	// StatusToReview is the collection metadata status requesting human
	// sign-off before changes propagate.
	StatusToReview = "to-review"
)
