// Package table owns every known peer view except the local node's own.
// It provides the lookup, merge, iteration, and expiry operations the
// gossip engine drives; it never decides policy about what a status
// transition means, only records it and reports whether one happened.
package table

import (
	"time"

	"golang.org/x/exp/maps"

	"github.com/flowmesh/swim/internal/node"
)

// Transition describes a status change upsert caused, so the caller can
// fire its EVENT callback exactly once per real transition.
type Transition struct {
	View     node.View
	Previous node.Status
	Changed  bool
}

// Table holds every peer view known locally, keyed by ID. The self view
// is never stored here.
type Table struct {
	peers map[node.ID]node.View
}

// New returns an empty table.
func New() *Table {
	return &Table{peers: make(map[node.ID]node.View)}
}

// Find returns an exact-match lookup by id.
func (t *Table) Find(id node.ID) (node.View, bool) {
	v, ok := t.peers[id]
	return v, ok
}

// Upsert merges remote into the table per the membership reconciliation
// rule (spec §4.3):
//
//   - unknown id: insert a copy of remote with SeenTime set, coercing
//     StatusUnknown to StatusJoining.
//   - known id, remote.CanReplace(local): overwrite wholesale, keep the
//     freshly supplied seenTime, coerce StatusUnknown to StatusJoining.
//   - known id, !remote.CanReplace(local): no-op.
func (t *Table) Upsert(remote node.View, seenTime time.Time) Transition {
	local, ok := t.peers[remote.ID]
	if !ok {
		next := remote.Clone()
		next.SeenTime = seenTime
		if next.Status == node.StatusUnknown {
			next.Status = node.StatusJoining
		}
		t.peers[remote.ID] = next
		return Transition{View: next, Previous: node.StatusUnknown, Changed: true}
	}

	if !remote.CanReplace(local) {
		return Transition{View: local, Previous: local.Status, Changed: false}
	}

	next := remote.Clone()
	next.SeenTime = seenTime
	if next.Status == node.StatusUnknown {
		next.Status = node.StatusJoining
	}
	prev := local.Status
	t.peers[remote.ID] = next
	return Transition{View: next, Previous: prev, Changed: next.Status != prev}
}

// Set overwrites id's entry unconditionally, bypassing CanReplace. The
// engine uses this for local mutations it knows are legitimate (e.g.
// escalating suspicion), not for merging remote data.
func (t *Table) Set(v node.View) {
	t.peers[v.ID] = v
}

// delete removes id's entry outright, regardless of status. Its only
// caller is CleanupExpired.
func (t *Table) delete(id node.ID) {
	delete(t.peers, id)
}

// Iter calls fn for every peer view, in unspecified order. fn must not
// mutate the table.
func (t *Table) Iter(fn func(node.View)) {
	for _, v := range t.peers {
		fn(v)
	}
}

// Snapshot returns a copy of every peer view. The slice and the View
// values are the caller's own; each view's Metadata map is the same map
// the table holds.
func (t *Table) Snapshot() []node.View {
	return maps.Values(t.peers)
}

// Len reports the number of known peers, excluding self.
func (t *Table) Len() int { return len(t.peers) }

// CleanupExpired removes every peer whose status is not StatusOnline and
// whose SeenTime is older than timeout, measured against now.
func (t *Table) CleanupExpired(now time.Time, timeout time.Duration) {
	for id, v := range t.peers {
		if v.Status == node.StatusOnline {
			continue
		}
		if now.Sub(v.SeenTime) >= timeout {
			t.delete(id)
		}
	}
}

// Clear drops every peer.
func (t *Table) Clear() {
	t.peers = make(map[node.ID]node.View)
}
