package gossip

import (
	"time"

	"go.uber.org/zap"

	"github.com/flowmesh/swim/internal/node"
)

// HandleMessage executes the ordered steps of spec §4.5: it locates or
// admits the sender, advances the sender's fields, merges every
// anti-entropy entry the message carries, and replies with a pong when
// the message type calls for one.
//
// Mutating the sender's view happens strictly before merging Entries,
// so any EVENT for the sender's own transition is delivered before any
// EVENT for a peer learned from the entries list (spec §5).
func (e *Engine) HandleMessage(msg Message, recvTime time.Time) {
	e.receivedMessages++
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.IncrCounter("gossip.received", 1)
	}

	sender, ok := e.locateSender(msg, recvTime)
	if !ok {
		e.cfg.Logger.Debug("dropping message from unknown sender",
			zap.Stringer("sender", msg.Sender), zap.Stringer("type", msg.Type))
		return
	}

	sender = e.advanceSender(sender, msg, recvTime)

	for _, entry := range msg.Entries {
		// The self view never enters the peer table (spec §3.1); a
		// peer's anti-entropy sample may legitimately contain it.
		if entry.ID == e.self.ID {
			continue
		}
		tr := e.table.Upsert(entry, recvTime)
		e.logTransition(tr.View, tr.Previous)
		if tr.Changed {
			e.emitEvent(tr.View, tr.Previous)
		}
		// A leave carries the departing node's view; mark it failed.
		if msg.Type == Leave {
			if left, ok := e.table.Find(entry.ID); ok && left.Status != node.StatusFailed {
				prev := left.Status
				left.Status = node.StatusFailed
				left.Version++
				e.table.Set(left)
				e.logTransition(left, prev)
				e.emitEvent(left, prev)
			}
		}
	}

	if msg.Type.expectsReply() {
		e.replyPong(sender)
	}
}

// locateSender finds msg.Sender in the table, admitting it first if
// the message is an explicit meet/join that carries the sender's own
// entry (spec §4.5 step 2). Returns ok=false if the message must be
// discarded.
func (e *Engine) locateSender(msg Message, recvTime time.Time) (node.View, bool) {
	if v, ok := e.table.Find(msg.Sender); ok {
		return v, true
	}

	if !msg.Type.isAdmission() {
		return node.View{}, false
	}

	for _, entry := range msg.Entries {
		if entry.ID == msg.Sender {
			tr := e.table.Upsert(entry, recvTime)
			e.logTransition(tr.View, tr.Previous)
			e.emitEvent(tr.View, tr.Previous)
			return tr.View, true
		}
	}
	return node.View{}, false
}

// advanceSender applies spec §4.5 step 3 and returns the updated view.
func (e *Engine) advanceSender(sender node.View, msg Message, recvTime time.Time) node.View {
	prev := sender.Status

	if msg.Timestamp > sender.Heartbeat {
		sender.Heartbeat = msg.Timestamp
	}
	sender.SeenTime = recvTime
	sender.Version++

	if prev == node.StatusSuspect {
		sender.SuspicionCount = 0
	}
	if prev == node.StatusJoining {
		sender.Status = node.StatusOnline
	}
	if msg.Type == Leave {
		sender.Status = node.StatusFailed
	}

	e.table.Set(sender)
	e.logTransition(sender, prev)
	e.emitEvent(sender, prev)
	return sender
}

func (e *Engine) replyPong(sender node.View) {
	entries := append(e.selfEntry(), e.sample(e.cfg.SyncFanout, &sender.ID, "handle_message:"+sender.ID.String())...)
	msg := Message{
		Sender:    e.self.ID,
		Type:      Pong,
		Timestamp: e.self.Heartbeat,
		Entries:   entries,
	}
	e.send(msg, sender)
}
