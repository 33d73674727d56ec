package profile

import (
	"time"
)

// Expand loads and merges the external definitions of all sub-profiles
// referenced by the given profile, directly or through other sub-profiles,
// into one composite tree.
//
// Merging may introduce new sub-profile references, so the loop re-queries
// the tree and runs until the sub-profile count stops growing, a monotone
// fixpoint. Cycles are tolerated: a sub-profile already marked loaded is
// skipped.
func (m *Manager) Expand(root *Profile) {
	if root.IsLoaded() {
		return
	}
	start := time.Now()

	prevCount := 0
	subs := root.AllSubProfiles()
	count := len(subs)
	for count > prevCount {
		for _, sub := range subs {
			if sub.IsLoaded() {
				continue
			}
			external := m.load(sub.Name(), sub.Type())
			if external != nil {
				root.Merge(external)
			} else {
				// No separate file; the reference carries all its data.
				m.log.V(1).Info("referenced sub-profile has no profile file",
					"name", sub.Name(), "type", sub.Type(),
					"referencedFrom", root.Name())
			}
			sub.SetLoaded(true)
		}

		prevCount = count
		subs = root.AllSubProfiles()
		count = len(subs)
	}

	root.SetLoaded(true)
	m.metrics.observeExpand(time.Since(start))
}
