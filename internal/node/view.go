package node

import (
	"time"

	"github.com/flowmesh/swim/internal/address"
)

// View is the local belief about one cluster member. It is always
// passed and stored by value (copy-on-deliver, per the engine's
// reentrancy contract); nothing downstream should retain a pointer into
// a table entry past the call that handed it out.
type View struct {
	ID       ID
	Address  address.Address
	Role     string
	Region   string
	Metadata map[string]string

	// ConfigEpoch and Heartbeat are the two fields CanReplace/NewerThan
	// order on. For a given ID in the local table the pair never goes
	// down in CanReplace order; Heartbeat alone can drop when an entry
	// with a higher ConfigEpoch replaces the stored one.
	ConfigEpoch uint64
	Heartbeat   uint64

	// Version increments on every local mutation of this entry. It has
	// no bearing on reconciliation; it exists purely for embedders to
	// detect "something changed" cheaply.
	Version uint64

	// SeenTime is the last local time a message FROM or ABOUT this node
	// was accepted. Zero until the node is first observed.
	SeenTime time.Time

	Status Status

	SuspicionCount uint32
	LastSuspected  time.Time
}

// Clone returns a deep copy, so the caller may freely mutate Metadata
// without aliasing the original.
func (v View) Clone() View {
	if v.Metadata != nil {
		m := make(map[string]string, len(v.Metadata))
		for k, val := range v.Metadata {
			m[k] = val
		}
		v.Metadata = m
	}
	return v
}

// NewerThan reports whether v is more live than other: heartbeat
// dominates, config epoch breaks ties. It tracks liveness progress.
func (v View) NewerThan(other View) bool {
	if v.Heartbeat != other.Heartbeat {
		return v.Heartbeat > other.Heartbeat
	}
	return v.ConfigEpoch > other.ConfigEpoch
}

// CanReplace reports whether v carries more configuration authority
// than other: config epoch dominates, heartbeat breaks ties. It is the
// rule the membership table uses when merging an incoming entry over a
// stored one.
func (v View) CanReplace(other View) bool {
	if v.ConfigEpoch != other.ConfigEpoch {
		return v.ConfigEpoch > other.ConfigEpoch
	}
	return v.Heartbeat > other.Heartbeat
}
