package gossip

import "time"

// Stats is a read-only snapshot of the engine's counters (spec §4.7).
// The engine performs no synchronization over the counters it derives
// this from; it assumes a single logical driver (spec §5).
type Stats struct {
	KnownNodes       int
	SentMessages     uint64
	ReceivedMessages uint64
	LastTickDuration time.Duration
}
