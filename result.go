package credsync

import "github.com/webcreds/credsync/internal/sync"

// Result summarizes one completed run.
type Result struct {
	Realms *sync.Outcome
	Rules  *sync.Outcome
	DryRun bool
}

// HasChanges returns true if either flow wrote (or, in dry-run mode,
// would write) anything.
func (r *Result) HasChanges() bool {
	if r.Realms != nil && r.Realms.Action != sync.ActionNone {
		return true
	}
	if r.Rules != nil && r.Rules.Action != sync.ActionNone {
		return true
	}
	return false
}
