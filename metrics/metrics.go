// Package metrics adapts the gossip engine's optional stats side
// channel onto github.com/armon/go-metrics. It is additive
// instrumentation only: the engine's own Stats snapshot (spec §4.7)
// remains the source of truth regardless of whether a Sink is wired in.
package metrics

import "time"

// Sink is the minimal surface the gossip engine needs to publish
// counters and timings through. It is satisfied by *Armon below, or by
// any other adapter an embedder wants to plug in.
type Sink interface {
	IncrCounter(name string, delta float32)
	MeasureSince(name string, start time.Time)
}
