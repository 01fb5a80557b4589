package codec

import (
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/flowmesh/swim/gossip"
)

// YAML is a gopkg.in/yaml.v3-based textual Codec. node.ID implements
// encoding.TextMarshaler, so it round-trips as a hex scalar rather than a
// 16-element byte array; everything else marshals structurally. yaml.v3
// writes a nil slice or map as an empty one, so Unmarshal turns an empty
// Entries list and an empty Metadata map back into nil.
type YAML struct{}

func (YAML) Marshal(msg gossip.Message) ([]byte, error) {
	b, err := yaml.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "marshal gossip message")
	}
	return b, nil
}

func (YAML) Unmarshal(b []byte) (gossip.Message, error) {
	var msg gossip.Message
	if err := yaml.Unmarshal(b, &msg); err != nil {
		return gossip.Message{}, errors.Wrap(err, "unmarshal gossip message")
	}
	if len(msg.Entries) == 0 {
		msg.Entries = nil
	}
	for i := range msg.Entries {
		if len(msg.Entries[i].Metadata) == 0 {
			msg.Entries[i].Metadata = nil
		}
	}
	return msg, nil
}
