package gossip_test

import (
	"github.com/flowmesh/swim/gossip"
	"github.com/flowmesh/swim/internal/clock"
	"github.com/flowmesh/swim/internal/node"
)

// network is an in-memory router between Engines, used in place of a
// real transport. It exists only for tests: the engine never talks to
// the network directly, only through the SendFunc it is constructed
// with.
//
// SendFunc only enqueues; nothing is delivered until drain is called.
// This mirrors spec §5's reentrancy rule ("the transport MUST NOT
// re-enter the core inline from SEND"): a real transport posts to its
// own queue instead of calling back into the core from inside Send,
// and this helper does the same rather than recursing into
// HandleMessage while the driving call (Meet/Tick/HandleMessage) is
// still on the stack.
type network struct {
	clk      *clock.Manual
	byID     map[node.ID]*gossip.Engine
	delivery []delivered
	pending  []delivered
}

type delivered struct {
	From, To node.ID
	Msg      gossip.Message
}

func newNetwork(clk *clock.Manual) *network {
	return &network{clk: clk, byID: make(map[node.ID]*gossip.Engine)}
}

// add constructs and registers an Engine for self, wiring its SendFunc
// to enqueue into this network rather than deliver inline.
func (n *network) add(self node.View) *gossip.Engine {
	var e *gossip.Engine
	cfg := gossip.Config{
		Clock: n.clk,
		Send: func(msg gossip.Message, target node.View) {
			d := delivered{From: e.Self().ID, To: target.ID, Msg: msg}
			n.delivery = append(n.delivery, d)
			n.pending = append(n.pending, d)
		},
	}
	var err error
	e, err = gossip.New(self, cfg)
	if err != nil {
		panic(err)
	}
	n.byID[self.ID] = e
	return e
}

// drain delivers every pending message to its recipient, including any
// further messages (e.g. pong replies) that delivery itself enqueues,
// until the queue is empty.
func (n *network) drain() {
	for len(n.pending) > 0 {
		d := n.pending[0]
		n.pending = n.pending[1:]
		if recipient, ok := n.byID[d.To]; ok {
			recipient.HandleMessage(d.Msg, n.clk.Now())
		}
	}
}

func idOf(b byte) node.ID {
	var id node.ID
	id[0] = b
	return id
}
