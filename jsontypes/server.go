package jsontypes

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/joe-loach/cambio/cambio"
)

// Server message type tags.
const (
	TypeAssignID        = "assign_id"
	TypeEnter           = "enter"
	TypeJoined          = "joined"
	TypeLeft            = "left"
	TypeLobbyInfo       = "lobby_info"
	TypeStartRound      = "start_round"
	TypeStartTurn       = "start_turn"
	TypeDrawCard        = "draw_card"
	TypeFirstPeek       = "first_peek"
	TypeWaitForDecision = "wait_for_decision"
	TypeWaitForSnap     = "wait_for_snap"
	TypeEndTurn         = "end_turn"
	TypeWaitForNewRound = "wait_for_new_round"
	TypeEndRound        = "end_round"
	TypeCambioCalled    = "cambio_called"
	TypeShowAll         = "show_all"
	TypeWinner          = "winner"
	TypeServerClosing   = "server_closing"
	TypeErrorMsg        = "error"
)

// ServerEvent is anything the server can send to a connected player.
type ServerEvent interface {
	serverEvent()
}

// AssignID is the first message a newly-accepted connection receives:
// its allocated (or confirmed, on rejoin) player id. It is always
// followed, once registration completes, by a separate Enter.
type AssignID struct {
	ID uuid.UUID `json:"id"`
}

func (AssignID) serverEvent() {}

// Enter confirms that registration has completed and the connection is
// now live in the lobby.
type Enter struct{}

func (Enter) serverEvent() {}

// Joined broadcasts that a new player took a seat.
type Joined struct {
	ID uuid.UUID `json:"id"`
}

func (Joined) serverEvent() {}

// Left broadcasts that a player's seat was vacated.
type Left struct {
	ID uuid.UUID `json:"id"`
}

func (Left) serverEvent() {}

// LobbyInfo answers a GetLobbyInfo request.
type LobbyInfo struct {
	Players []uuid.UUID `json:"players"`
	Host    uuid.UUID   `json:"host"`
}

func (LobbyInfo) serverEvent() {}

// StartRound announces a new round has begun.
type StartRound struct {
	Round int `json:"round"`
}

func (StartRound) serverEvent() {}

// StartTurn announces whose turn it is.
type StartTurn struct {
	Seat int `json:"seat"`
}

func (StartTurn) serverEvent() {}

// DrawCard announces the card drawn at the top of a turn.
type DrawCard struct {
	Seat int         `json:"seat"`
	Card cambio.Card `json:"card"`
}

func (DrawCard) serverEvent() {}

// FirstPeek privately reveals a player's own first two dealt cards.
// Unlike every other round-start event, this is never broadcast: each
// player is sent only their own pair, via Hub.BroadcastMap.
type FirstPeek struct {
	CardA cambio.Card `json:"card_a"`
	CardB cambio.Card `json:"card_b"`
}

func (FirstPeek) serverEvent() {}

// WaitForDecision announces the deadline by which the acting seat must
// submit a DecisionMsg.
type WaitForDecision struct {
	Seat     int       `json:"seat"`
	Deadline time.Time `json:"deadline"`
}

func (WaitForDecision) serverEvent() {}

// WaitForSnap announces the deadline for the post-turn snap window.
type WaitForSnap struct {
	Deadline time.Time `json:"deadline"`
}

func (WaitForSnap) serverEvent() {}

// EndTurn announces a turn has concluded.
type EndTurn struct {
	Seat int `json:"seat"`
}

func (EndTurn) serverEvent() {}

// WaitForNewRound announces the post-round confirmation window and its
// running tally.
type WaitForNewRound struct {
	Confirmations int       `json:"confirmations"`
	Needed        int       `json:"needed"`
	Deadline      time.Time `json:"deadline"`
}

func (WaitForNewRound) serverEvent() {}

// EndRound announces a round has concluded.
type EndRound struct {
	Round int `json:"round"`
}

func (EndRound) serverEvent() {}

// CambioCalled announces that Cambio has been called and the round is
// ending now. Seat is the seat whose turn it was when the call was
// accepted, which is not necessarily the player who sent it.
type CambioCalled struct {
	Seat int `json:"seat"`
}

func (CambioCalled) serverEvent() {}

// ShowAll is defined for wire compatibility with earlier protocol
// iterations but is never emitted by this driver: the round-end flow
// goes straight from EndRound to Winner.
type ShowAll struct {
	Players []cambio.PlayerData `json:"players"`
}

func (ShowAll) serverEvent() {}

// WinnerKind mirrors engine.WinnerKind for the wire.
type WinnerKind string

const (
	WinnerKindPlayer WinnerKind = "player"
	WinnerKindTied   WinnerKind = "tied"
)

// Winner announces the outcome of a finished game.
type Winner struct {
	Kind   WinnerKind  `json:"kind"`
	Winner *uuid.UUID  `json:"winner,omitempty"`
	Tied   []uuid.UUID `json:"tied,omitempty"`
}

func (Winner) serverEvent() {}

// ServerClosing is broadcast to every connection immediately before the
// server shuts down.
type ServerClosing struct{}

func (ServerClosing) serverEvent() {}

// ErrorMsg reports a protocol- or engine-level error kind to the client
// that caused it.
type ErrorMsg struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (ErrorMsg) serverEvent() {}

// EncodeServerEvent frames e as a tagged, length-ready JSON payload.
func EncodeServerEvent(e ServerEvent) ([]byte, error) {
	switch v := e.(type) {
	case AssignID:
		return marshalEnvelope(TypeAssignID, v)
	case Enter:
		return marshalEnvelope(TypeEnter, v)
	case Joined:
		return marshalEnvelope(TypeJoined, v)
	case Left:
		return marshalEnvelope(TypeLeft, v)
	case LobbyInfo:
		return marshalEnvelope(TypeLobbyInfo, v)
	case StartRound:
		return marshalEnvelope(TypeStartRound, v)
	case StartTurn:
		return marshalEnvelope(TypeStartTurn, v)
	case DrawCard:
		return marshalEnvelope(TypeDrawCard, v)
	case FirstPeek:
		return marshalEnvelope(TypeFirstPeek, v)
	case WaitForDecision:
		return marshalEnvelope(TypeWaitForDecision, v)
	case WaitForSnap:
		return marshalEnvelope(TypeWaitForSnap, v)
	case EndTurn:
		return marshalEnvelope(TypeEndTurn, v)
	case WaitForNewRound:
		return marshalEnvelope(TypeWaitForNewRound, v)
	case EndRound:
		return marshalEnvelope(TypeEndRound, v)
	case CambioCalled:
		return marshalEnvelope(TypeCambioCalled, v)
	case ShowAll:
		return marshalEnvelope(TypeShowAll, v)
	case Winner:
		return marshalEnvelope(TypeWinner, v)
	case ServerClosing:
		return marshalEnvelope(TypeServerClosing, v)
	case ErrorMsg:
		return marshalEnvelope(TypeErrorMsg, v)
	default:
		return nil, errors.Errorf("jsontypes: unknown server event %T", e)
	}
}

// DecodeServerEvent unwraps a tagged payload into a concrete
// ServerEvent, for use by the thin matching client.
func DecodeServerEvent(data []byte) (ServerEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "jsontypes: decode envelope")
	}
	switch env.Type {
	case TypeAssignID:
		var v AssignID
		return v, unmarshalPayload(env.Payload, &v)
	case TypeEnter:
		return Enter{}, nil
	case TypeJoined:
		var v Joined
		return v, unmarshalPayload(env.Payload, &v)
	case TypeLeft:
		var v Left
		return v, unmarshalPayload(env.Payload, &v)
	case TypeLobbyInfo:
		var v LobbyInfo
		return v, unmarshalPayload(env.Payload, &v)
	case TypeStartRound:
		var v StartRound
		return v, unmarshalPayload(env.Payload, &v)
	case TypeStartTurn:
		var v StartTurn
		return v, unmarshalPayload(env.Payload, &v)
	case TypeDrawCard:
		var v DrawCard
		return v, unmarshalPayload(env.Payload, &v)
	case TypeFirstPeek:
		var v FirstPeek
		return v, unmarshalPayload(env.Payload, &v)
	case TypeWaitForDecision:
		var v WaitForDecision
		return v, unmarshalPayload(env.Payload, &v)
	case TypeWaitForSnap:
		var v WaitForSnap
		return v, unmarshalPayload(env.Payload, &v)
	case TypeEndTurn:
		var v EndTurn
		return v, unmarshalPayload(env.Payload, &v)
	case TypeWaitForNewRound:
		var v WaitForNewRound
		return v, unmarshalPayload(env.Payload, &v)
	case TypeEndRound:
		var v EndRound
		return v, unmarshalPayload(env.Payload, &v)
	case TypeCambioCalled:
		var v CambioCalled
		return v, unmarshalPayload(env.Payload, &v)
	case TypeShowAll:
		var v ShowAll
		return v, unmarshalPayload(env.Payload, &v)
	case TypeWinner:
		var v Winner
		return v, unmarshalPayload(env.Payload, &v)
	case TypeServerClosing:
		return ServerClosing{}, nil
	case TypeErrorMsg:
		var v ErrorMsg
		return v, unmarshalPayload(env.Payload, &v)
	default:
		return nil, errors.Wrapf(ErrUnknownMessageType, "type %q", env.Type)
	}
}
