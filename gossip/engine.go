// Package gossip is the SWIM-style membership state machine: a
// deterministic, transport-agnostic core that maintains a cluster-wide
// view of member nodes, detects failures probabilistically, and
// propagates membership and metadata changes via periodic peer
// exchange. It performs no I/O; all delivery is delegated to the
// SendFunc and EventFunc callbacks supplied at construction.
//
// The engine assumes a single logical driver: Tick, TickFullBroadcast,
// HandleMessage, Meet, Join, Leave, Reset, and the read accessors must
// be invoked in a serialized order. An embedder driving it from
// multiple goroutines must provide its own mutual exclusion; the
// engine itself takes no locks.
package gossip

import (
	"time"

	"github.com/flowmesh/swim/internal/node"
	"github.com/flowmesh/swim/internal/selector"
	"github.com/flowmesh/swim/internal/table"
)

// Engine is the gossip state machine. Construct one with New.
type Engine struct {
	cfg   Config
	self  node.View
	table *table.Table

	sentMessages     uint64
	receivedMessages uint64
	lastTickDuration time.Duration
}

// New constructs an Engine around self, whose status is forced to
// StatusOnline as required by spec §3.1. cfg.Send must be non-nil;
// a nil Send fails construction.
func New(self node.View, cfg Config) (*Engine, error) {
	cfg = cfg.Merge(DefaultConfig())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	self = self.Clone()
	self.Status = node.StatusOnline
	self.SeenTime = cfg.Clock.Now()

	return &Engine{cfg: cfg, self: self, table: table.New()}, nil
}

// Self returns a copy of the local node's own view.
func (e *Engine) Self() node.View { return e.self }

// Size returns the number of known peers, excluding self.
func (e *Engine) Size() int { return e.table.Len() }

// GetNodes returns a snapshot of every known peer view.
func (e *Engine) GetNodes() []node.View { return e.table.Snapshot() }

// FindNode looks up id, including self when queried.
func (e *Engine) FindNode(id node.ID) (node.View, bool) {
	if id == e.self.ID {
		return e.self, true
	}
	return e.table.Find(id)
}

// GetStats returns a snapshot of the engine's counters.
func (e *Engine) GetStats() Stats {
	return Stats{
		KnownNodes:       e.table.Len(),
		SentMessages:     e.sentMessages,
		ReceivedMessages: e.receivedMessages,
		LastTickDuration: e.lastTickDuration,
	}
}

// CleanupExpired removes every non-online peer whose SeenTime is older
// than timeout.
func (e *Engine) CleanupExpired(timeout time.Duration) {
	e.table.CleanupExpired(e.cfg.Clock.Now(), timeout)
}

// Reset clears every peer and reinitializes the local view's
// heartbeat, version, and seen time. It exists for tests and clean
// restarts.
func (e *Engine) Reset() {
	e.table.Clear()
	e.self.Heartbeat = 1
	e.self.Version = 0
	e.self.SeenTime = e.cfg.Clock.Now()
	e.sentMessages = 0
	e.receivedMessages = 0
	e.lastTickDuration = 0
}

// emitEvent invokes cfg.Event if it is set, and never for a no-op
// transition (spec §5: "EVENT is fired exactly once per observed
// transition").
func (e *Engine) emitEvent(view node.View, previous node.Status) {
	if view.Status == previous {
		return
	}
	if e.cfg.Event == nil {
		return
	}
	e.cfg.Event(view, previous)
}

func (e *Engine) send(msg Message, target node.View) {
	e.cfg.Send(msg, target)
	e.sentMessages++
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.IncrCounter("gossip.sent", 1)
	}
}

// selfEntry returns the single-element entries list every outbound
// message carries the sender's own view in.
func (e *Engine) selfEntry() []node.View { return []node.View{e.self.Clone()} }

func (e *Engine) sample(k int, exclude *node.ID, identity string) []node.View {
	return selector.Select(e.table.Snapshot(), e.self.ID, exclude, k, e.cfg.Clock.Now(), identity)
}
