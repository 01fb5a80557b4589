// Package dedup wraps a transport's inbound path with duplicate-delivery
// suppression. A gossip round fans the same update out through several
// peers; by the time it reaches a given node it may have arrived twice
// already. The engine tolerates that (handling the same message twice is
// idempotent), but there is no reason to pay for a second table merge and
// a second round of re-gossip when the first one already did the work.
package dedup

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/flowmesh/swim/gossip"
	"github.com/flowmesh/swim/internal/node"
)

// key identifies a message for suppression purposes: the same sender
// reporting the same heartbeat-stamped round twice is a duplicate,
// regardless of which peer relayed it.
type key struct {
	sender node.ID
	typ    gossip.Type
	stamp  uint64
}

// Suppressor remembers the most recently seen message keys and reports
// whether a given message has already been handled. It is not
// goroutine-safe; callers running the engine on a single logical driver
// (spec §5) may use it directly, others must guard it themselves.
type Suppressor struct {
	cache *lru.Cache
}

// New constructs a Suppressor that remembers up to capacity distinct
// message keys, evicting the least recently used once full.
func New(capacity int) (*Suppressor, error) {
	cache, err := lru.New(capacity)
	if err != nil {
		return nil, err
	}
	return &Suppressor{cache: cache}, nil
}

// Seen reports whether msg has already passed through this Suppressor,
// recording it as seen if not.
func (s *Suppressor) Seen(msg gossip.Message) bool {
	k := key{sender: msg.Sender, typ: msg.Type, stamp: msg.Timestamp}
	if s.cache.Contains(k) {
		return true
	}
	s.cache.Add(k, struct{}{})
	return false
}

// Len reports how many distinct keys are currently remembered.
func (s *Suppressor) Len() int { return s.cache.Len() }
