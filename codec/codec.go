// Package codec turns a gossip.Message into bytes and back. The engine
// itself never encodes anything; a transport collaborator owns that, and
// this package is where that collaborator gets its wire format from.
package codec

import "github.com/flowmesh/swim/gossip"

// Codec marshals and unmarshals a single gossip.Message. Implementations
// own escaping and integer representation (spec §6.3); the engine places
// no constraints on the wire format beyond a lossless round trip,
// including every Entries[i].Metadata map.
type Codec interface {
	Marshal(msg gossip.Message) ([]byte, error)
	Unmarshal(b []byte) (gossip.Message, error)
}
