// Package selector implements uniform random-k sampling over a
// membership table, excluding the self view and, optionally, one named
// id. Sampling must not be predictable: every call reseeds from fresh
// entropy rather than reusing a package-level generator.
package selector

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
	"time"

	"github.com/twmb/murmur3"

	"github.com/flowmesh/swim/internal/node"
)

// Select returns up to k views sampled uniformly without replacement
// from peers, excluding self and, if non-nil, the view whose ID equals
// *exclude. identity is mixed into the seed alongside the clock reading
// and a CSPRNG draw; pass the name of the calling operation (e.g.
// "tick" or "handle_message") so concurrent callers never collide on
// seed material.
func Select(peers []node.View, self node.ID, exclude *node.ID, k int, now time.Time, identity string) []node.View {
	candidates := make([]node.View, 0, len(peers))
	for _, v := range peers {
		if v.ID == self {
			continue
		}
		if exclude != nil && v.ID == *exclude {
			continue
		}
		candidates = append(candidates, v)
	}

	if k >= len(candidates) {
		return candidates
	}
	if k <= 0 {
		return nil
	}

	rng := mathrand.New(mathrand.NewSource(seed(now, identity)))
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates[:k]
}

// seed mixes a CSPRNG draw, the clock reading (as UnixNano), and a murmur3
// hash of the caller's logical identity into a single int64 seed, so
// that repeated calls from the same call site at the same instant still
// diverge.
func seed(now time.Time, identity string) int64 {
	var entropy [8]byte
	_, _ = rand.Read(entropy[:]) // crypto/rand.Read on the default reader never errors in practice.

	s := binary.LittleEndian.Uint64(entropy[:])
	s ^= uint64(now.UnixNano())
	s ^= uint64(murmur3.Sum32([]byte(identity)))
	return int64(s)
}
