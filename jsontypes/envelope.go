// Package jsontypes defines the JSON wire shapes exchanged between the
// game server and its clients, one struct per message, each carrying a
// "type" discriminator the way the server's own previous protocol did.
// Because the message sets are proper tagged unions rather than a
// handful of flat variants, each direction is wrapped in an envelope
// that carries the type string alongside the type-specific payload.
package jsontypes

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrUnknownMessageType is returned when an envelope's type tag does not
// match any known client or server message.
var ErrUnknownMessageType = errors.New("jsontypes: unknown message type")

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func marshalEnvelope(typ string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "jsontypes: marshal payload")
	}
	// omit an empty "{}" payload for argument-less messages, matching
	// the terse single-field messages the teacher protocol used.
	if string(raw) == "{}" {
		raw = nil
	}
	return json.Marshal(envelope{Type: typ, Payload: raw})
}
