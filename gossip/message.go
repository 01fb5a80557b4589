package gossip

import "github.com/flowmesh/swim/internal/node"

// Type is the closed set of message kinds the engine sends and
// understands.
type Type uint8

const (
	Ping Type = iota
	Pong
	Meet
	Join
	Leave
	Update
)

func (t Type) String() string {
	switch t {
	case Ping:
		return "ping"
	case Pong:
		return "pong"
	case Meet:
		return "meet"
	case Join:
		return "join"
	case Leave:
		return "leave"
	case Update:
		return "update"
	default:
		return "invalid"
	}
}

// isAdmission reports whether t is one of the message types that may
// introduce a previously-unknown sender into the table (spec §4.5 step
// 2): meet and join.
func (t Type) isAdmission() bool { return t == Meet || t == Join }

// expectsReply reports whether handling t should produce a pong, per
// spec §4.5 step 5.
func (t Type) expectsReply() bool { return t == Ping || t == Meet || t == Join }

// Message is the wire-level contract the engine places on its
// transport and codec collaborators. Every field must round-trip,
// including the full Entries list with its Metadata maps; the codec
// owns escaping and integer representation, not the engine.
type Message struct {
	Sender    node.ID
	Type      Type
	Timestamp uint64
	Entries   []node.View
}
