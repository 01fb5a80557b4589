// Package node holds the data model the gossip engine reconciles: node
// identity, the local view of a member, and the ordering relations used
// to merge competing views.
package node

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/cockroachdb/errors"
)

// ID is a 16-byte opaque member identifier. It is only ever compared for
// equality; callers must not assume any ordering, encoding, or structure
// beyond that.
type ID [16]byte

// Nil is the zero ID, never assigned to a real member.
var Nil ID

// NewID generates a random 16-byte identifier from a CSPRNG.
func NewID() (ID, error) {
	var id ID
	if _, err := rand.Read(id[:]); err != nil {
		return id, errors.Wrap(err, "generate node id")
	}
	return id, nil
}

// IDFromBytes copies b into an ID. It panics if b is not exactly 16
// bytes long, shorter or longer.
func IDFromBytes(b []byte) ID {
	var id ID
	if len(b) != len(id) {
		panic(errors.Newf("node id must be %d bytes, got %d", len(id), len(b)))
	}
	copy(id[:], b)
	return id
}

func (id ID) String() string { return hex.EncodeToString(id[:]) }

// IsNil reports whether id is the zero value.
func (id ID) IsNil() bool { return id == Nil }

// MarshalText renders id as hex, so codecs built on encoding.TextMarshaler
// (yaml.v3 among them) emit a readable scalar instead of a byte array.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (id *ID) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return errors.Wrap(err, "decode node id")
	}
	if len(b) != len(*id) {
		return errors.Newf("node id must be %d bytes, got %d", len(*id), len(b))
	}
	copy(id[:], b)
	return nil
}
