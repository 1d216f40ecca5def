package jsontypes

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/joe-loach/cambio/cambio"
)

// Client message type tags.
const (
	TypeJoin            = "join"
	TypeGetLobbyInfo    = "get_lobby_info"
	TypeStart           = "start"
	TypeSnap            = "snap"
	TypeDecision        = "decision"
	TypeConfirmNewRound = "confirm_new_round"
	TypeSkipNewRound    = "skip_new_round"
	TypeContinue        = "continue"
	TypeLeave           = "leave"
	TypeCambio          = "cambio"
)

// ClientEvent is anything a connected player can send to the server.
type ClientEvent interface {
	clientEvent()
}

// Join requests entry to the lobby. A nil ID requests a brand-new
// player; a non-nil ID requests to rejoin a previously-assigned one.
type Join struct {
	ID *uuid.UUID `json:"id,omitempty"`
}

func (Join) clientEvent() {}

// GetLobbyInfo asks for the current seating without joining.
type GetLobbyInfo struct{}

func (GetLobbyInfo) clientEvent() {}

// Start is sent by the host to leave the lobby and begin play.
type Start struct{}

func (Start) clientEvent() {}

// Snap attempts to play into the post-turn snap window. Card is the
// card the player claims to be snapping with; the engine's handling of
// it is documented on engine.Game.HandleSnap.
type Snap struct {
	Card cambio.Card `json:"card"`
}

func (Snap) clientEvent() {}

// DecisionMsg records the acting player's choice for the card just
// drawn.
type DecisionMsg struct {
	Decision cambio.Decision `json:"decision"`
}

func (DecisionMsg) clientEvent() {}

// ConfirmNewRound votes to continue into another round.
type ConfirmNewRound struct{}

func (ConfirmNewRound) clientEvent() {}

// SkipNewRound ends the game at the current round.
type SkipNewRound struct{}

func (SkipNewRound) clientEvent() {}

// Continue acknowledges a server message requiring no state change;
// used by clients pacing themselves through end-of-round summaries.
type Continue struct{}

func (Continue) clientEvent() {}

// Leave disconnects cleanly, distinguishing a deliberate exit from a
// dropped connection.
type Leave struct{}

func (Leave) clientEvent() {}

// Cambio calls Cambio: the acting or watching player ends the current
// round, which moves straight to EndRound on the engine's next Advance.
// Accepted only while the engine is waiting on a decision or a snap, or
// has a decision pending; see engine.Game.CambioCall.
type Cambio struct{}

func (Cambio) clientEvent() {}

// EncodeClientEvent frames e as a tagged, length-ready JSON payload.
func EncodeClientEvent(e ClientEvent) ([]byte, error) {
	switch v := e.(type) {
	case Join:
		return marshalEnvelope(TypeJoin, v)
	case GetLobbyInfo:
		return marshalEnvelope(TypeGetLobbyInfo, v)
	case Start:
		return marshalEnvelope(TypeStart, v)
	case Snap:
		return marshalEnvelope(TypeSnap, v)
	case DecisionMsg:
		return marshalEnvelope(TypeDecision, v)
	case ConfirmNewRound:
		return marshalEnvelope(TypeConfirmNewRound, v)
	case SkipNewRound:
		return marshalEnvelope(TypeSkipNewRound, v)
	case Continue:
		return marshalEnvelope(TypeContinue, v)
	case Leave:
		return marshalEnvelope(TypeLeave, v)
	case Cambio:
		return marshalEnvelope(TypeCambio, v)
	default:
		return nil, errors.Errorf("jsontypes: unknown client event %T", e)
	}
}

// DecodeClientEvent unwraps a tagged payload into a concrete
// ClientEvent.
func DecodeClientEvent(data []byte) (ClientEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "jsontypes: decode envelope")
	}
	switch env.Type {
	case TypeJoin:
		var v Join
		return v, unmarshalPayload(env.Payload, &v)
	case TypeGetLobbyInfo:
		return GetLobbyInfo{}, nil
	case TypeStart:
		return Start{}, nil
	case TypeSnap:
		var v Snap
		return v, unmarshalPayload(env.Payload, &v)
	case TypeDecision:
		var v DecisionMsg
		return v, unmarshalPayload(env.Payload, &v)
	case TypeConfirmNewRound:
		return ConfirmNewRound{}, nil
	case TypeSkipNewRound:
		return SkipNewRound{}, nil
	case TypeContinue:
		return Continue{}, nil
	case TypeLeave:
		return Leave{}, nil
	case TypeCambio:
		return Cambio{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownMessageType, "type %q", env.Type)
	}
}

func unmarshalPayload(raw json.RawMessage, out interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "jsontypes: decode payload")
	}
	return nil
}
