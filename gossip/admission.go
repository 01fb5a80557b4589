package gossip

import "github.com/flowmesh/swim/internal/node"

// Meet introduces target to the local table and sends it a meet
// message. A meet targeting self is a no-op.
func (e *Engine) Meet(target node.View) {
	e.admit(target, Meet)
}

// Join is semantically identical to Meet today; the distinction is
// kept for future extension (authenticated admission vs. discovery),
// per spec §4.6.
func (e *Engine) Join(target node.View) {
	e.admit(target, Join)
}

func (e *Engine) admit(target node.View, typ Type) {
	if target.ID == e.self.ID {
		return
	}

	if _, ok := e.table.Find(target.ID); !ok {
		next := target.Clone()
		next.Status = node.StatusJoining
		next.SeenTime = e.cfg.Clock.Now()
		e.table.Set(next)
		e.emitEvent(next, node.StatusUnknown)
	}

	msg := Message{
		Sender:    e.self.ID,
		Type:      typ,
		Timestamp: e.self.Heartbeat,
		Entries:   e.selfEntry(),
	}
	e.send(msg, target)
}

// Leave announces id's departure to every online peer other than the
// leaver, then marks id as failed locally. A leave for an unknown id,
// or for self, is a no-op (spec §4.6, §9's Open Questions).
func (e *Engine) Leave(id node.ID) {
	if id == e.self.ID {
		return
	}

	leaver, ok := e.table.Find(id)
	if !ok {
		return
	}

	msg := Message{
		Sender:    e.self.ID,
		Type:      Leave,
		Timestamp: e.self.Heartbeat,
		Entries:   []node.View{leaver.Clone()},
	}
	for _, v := range e.table.Snapshot() {
		if v.Status != node.StatusOnline || v.ID == id {
			continue
		}
		e.send(msg, v)
	}

	prev := leaver.Status
	leaver.Status = node.StatusFailed
	leaver.Version++
	e.table.Set(leaver)
	e.emitEvent(leaver, prev)
}
