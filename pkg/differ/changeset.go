// Package differ provides change detection between the upstream quirk
// feeds and the record-storage collections.
package differ

import (
	"fmt"
	"strings"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeCreate indicates a record must be created.
	ChangeTypeCreate ChangeType = "create"
	// ChangeTypeUpdate indicates an existing record must be updated.
	ChangeTypeUpdate ChangeType = "update"
)

// RuleState is the destination-side view of one per-domain rules record.
type RuleState struct {
	ID    string
	Rules string
}

// RuleCreate is a directive to create a new per-domain rules record.
type RuleCreate struct {
	Domain string `json:"domain" yaml:"domain"`
	Rules  string `json:"password-rules" yaml:"password-rules"`
}

// RuleUpdate is a directive to overwrite the rules of an existing record.
type RuleUpdate struct {
	ID     string `json:"id" yaml:"id"`
	Domain string `json:"domain" yaml:"domain"`
	Rules  string `json:"password-rules" yaml:"password-rules"`
}

// RulesChangeset holds the planned writes for the rules collection.
// Stale destination-only domains are never represented here.
type RulesChangeset struct {
	Creates []RuleCreate `json:"creates" yaml:"creates"`
	Updates []RuleUpdate `json:"updates" yaml:"updates"`
}

// HasChanges returns true if the changeset contains any directives.
func (c *RulesChangeset) HasChanges() bool {
	return len(c.Creates) > 0 || len(c.Updates) > 0
}

// Summary returns counts of planned creates and updates.
func (c *RulesChangeset) Summary() (creates, updates int) {
	return len(c.Creates), len(c.Updates)
}

// String returns a short human-readable summary.
func (c *RulesChangeset) String() string {
	if !c.HasChanges() {
		return "no changes"
	}

	var parts []string
	if len(c.Creates) > 0 {
		parts = append(parts, fmt.Sprintf("%d to create", len(c.Creates)))
	}
	if len(c.Updates) > 0 {
		parts = append(parts, fmt.Sprintf("%d to update", len(c.Updates)))
	}
	return strings.Join(parts, ", ")
}
