package gossip

import (
	"time"

	"go.uber.org/zap"

	"github.com/flowmesh/swim/internal/node"
)

// Tick executes exactly the ordered steps of spec §4.4: record the
// self view's seen time, gossip with a sampled fanout, advance the
// local heartbeat and version, then run the failure-detection pass.
// Outbound sends happen before the heartbeat increment and before
// failure detection, in that order.
func (e *Engine) Tick() {
	start := e.cfg.Clock.Now()
	e.self.SeenTime = start

	targets := e.sample(e.cfg.GossipFanout, nil, "tick")
	for _, target := range targets {
		e.sendPingTo(target)
	}

	e.self.Heartbeat++
	e.self.Version++

	e.detectFailures(start)

	e.lastTickDuration = e.cfg.Clock.Now().Sub(start)
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.MeasureSince("gossip.tick_duration", start)
	}
}

// TickFullBroadcast is a variant of Tick that, in place of step 2's
// sampled fanout, pings every online peer. Steps 1, 3, and 4 are
// unchanged; it exists to rapidly propagate critical configuration
// changes.
func (e *Engine) TickFullBroadcast() {
	start := e.cfg.Clock.Now()
	e.self.SeenTime = start

	for _, v := range e.table.Snapshot() {
		if v.Status == node.StatusOnline {
			e.sendPingTo(v)
		}
	}

	e.self.Heartbeat++
	e.self.Version++

	e.detectFailures(start)

	e.lastTickDuration = e.cfg.Clock.Now().Sub(start)
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.MeasureSince("gossip.tick_duration", start)
	}
}

func (e *Engine) sendPingTo(target node.View) {
	entries := append(e.selfEntry(), e.sample(e.cfg.SyncFanout, &target.ID, "tick:"+target.ID.String())...)
	msg := Message{
		Sender:    e.self.ID,
		Type:      Ping,
		Timestamp: e.self.Heartbeat,
		Entries:   entries,
	}
	e.send(msg, target)
}

// detectFailures runs the escalation pass of spec §4.4 step 4. The
// suspicion counter advances at most once per FailureTimeout elapsed
// (tick-driven escalation); HandleMessage resets it (message-driven
// reset). See spec §9's Open Questions.
func (e *Engine) detectFailures(now time.Time) {
	for _, v := range e.table.Snapshot() {
		switch v.Status {
		case node.StatusOnline:
			if now.Sub(v.SeenTime) >= e.cfg.FailureTimeout {
				prev := v.Status
				v.Status = node.StatusSuspect
				v.LastSuspected = now
				v.SuspicionCount = 1
				v.Version++
				e.table.Set(v)
				e.logTransition(v, prev)
				e.emitEvent(v, prev)
			}
		case node.StatusSuspect:
			if now.Sub(v.LastSuspected) >= e.cfg.FailureTimeout {
				prev := v.Status
				v.SuspicionCount++
				v.LastSuspected = now
				v.Version++
				if v.SuspicionCount > e.cfg.SuspicionThreshold {
					v.Status = node.StatusFailed
				}
				e.table.Set(v)
				e.logTransition(v, prev)
				e.emitEvent(v, prev)
			}
		}
	}
}

func (e *Engine) logTransition(v node.View, previous node.Status) {
	if v.Status == previous {
		return
	}
	e.cfg.Logger.Debug("node status transition",
		zap.Stringer("id", v.ID),
		zap.Stringer("from", previous),
		zap.Stringer("to", v.Status),
		zap.Uint32("suspicion_count", v.SuspicionCount),
	)
}
