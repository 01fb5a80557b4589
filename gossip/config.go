package gossip

import (
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/flowmesh/swim/internal/clock"
	"github.com/flowmesh/swim/internal/node"
	"github.com/flowmesh/swim/metrics"
)

// SendFunc is invoked by the engine to request delivery of msg to
// target. It is fire-and-forget from the engine's perspective: the
// engine does not depend on its outcome and must never be re-entered
// from inside it.
type SendFunc func(msg Message, target node.View)

// EventFunc is invoked synchronously on every real status transition.
// It may be nil; the engine skips invocation gracefully when it is.
type EventFunc func(view node.View, previous node.Status)

// Config configures a new Engine. It follows the project-wide
// Merge/DefaultConfig convention: a zero-value field in cfg falls back
// to the corresponding field in the argument passed to Merge.
type Config struct {
	// Send is required; a nil Send fails construction (spec §7).
	Send SendFunc
	// Event is optional.
	Event EventFunc

	Clock  clock.Clock
	Logger *zap.Logger
	// Metrics is an optional side-channel stats sink; nil disables it.
	Metrics metrics.Sink

	HeartbeatInterval  time.Duration
	FailureTimeout     time.Duration
	GossipFanout       int
	SyncFanout         int
	SuspicionThreshold uint32
}

func (cfg Config) Merge(def Config) Config {
	if cfg.Send == nil {
		cfg.Send = def.Send
	}
	if cfg.Event == nil {
		cfg.Event = def.Event
	}
	if cfg.Clock == nil {
		cfg.Clock = def.Clock
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	if cfg.Metrics == nil {
		cfg.Metrics = def.Metrics
	}
	if cfg.HeartbeatInterval == 0 {
		cfg.HeartbeatInterval = def.HeartbeatInterval
	}
	if cfg.FailureTimeout == 0 {
		cfg.FailureTimeout = def.FailureTimeout
	}
	if cfg.GossipFanout == 0 {
		cfg.GossipFanout = def.GossipFanout
	}
	if cfg.SyncFanout == 0 {
		cfg.SyncFanout = def.SyncFanout
	}
	if cfg.SuspicionThreshold == 0 {
		cfg.SuspicionThreshold = def.SuspicionThreshold
	}
	return cfg
}

func (cfg Config) Validate() error {
	if cfg.Send == nil {
		return errors.New("gossip: Config.Send must be set")
	}
	return nil
}

// DefaultConfig returns the defaults named in spec §4.4.
func DefaultConfig() Config {
	return Config{
		Clock:              clock.System{},
		Logger:             zap.NewNop(),
		HeartbeatInterval:  100 * time.Millisecond,
		FailureTimeout:     2000 * time.Millisecond,
		GossipFanout:       3,
		SyncFanout:         2,
		SuspicionThreshold: 3,
	}
}
