package jsontypes

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/joe-loach/cambio/cambio"
)

func TestClientEventRoundTrip(t *testing.T) {
	id := uuid.New()
	cases := []ClientEvent{
		Join{ID: &id},
		Join{},
		GetLobbyInfo{},
		Start{},
		Snap{Card: cambio.NewCard(cambio.Hearts, cambio.Ten)},
		DecisionMsg{Decision: cambio.BlindSwap},
		ConfirmNewRound{},
		SkipNewRound{},
		Continue{},
		Leave{},
		Cambio{},
	}
	for _, want := range cases {
		data, err := EncodeClientEvent(want)
		require.NoError(t, err)
		got, err := DecodeClientEvent(data)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestServerEventRoundTrip(t *testing.T) {
	id := uuid.New()
	winner := uuid.New()
	cases := []ServerEvent{
		AssignID{ID: id},
		Enter{},
		Joined{ID: id},
		Left{ID: id},
		LobbyInfo{Players: []uuid.UUID{id}, Host: id},
		StartRound{Round: 2},
		StartTurn{Seat: 1},
		DrawCard{Seat: 0, Card: cambio.NewCard(cambio.Clubs, cambio.Jack)},
		FirstPeek{CardA: cambio.NewCard(cambio.Hearts, cambio.Ace), CardB: cambio.JokerCard},
		EndTurn{Seat: 0},
		EndRound{Round: 1},
		CambioCalled{Seat: 1},
		Winner{Kind: WinnerKindPlayer, Winner: &winner},
		ServerClosing{},
		ErrorMsg{Kind: "invalid_join", Message: "bad id"},
	}
	for _, want := range cases {
		data, err := EncodeServerEvent(want)
		require.NoError(t, err)
		got, err := DecodeServerEvent(data)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestDecodeUnknownTypeFails(t *testing.T) {
	_, err := DecodeClientEvent([]byte(`{"type":"not_a_real_type"}`))
	require.ErrorIs(t, err, ErrUnknownMessageType)
}

// TestDrawCardWireShape pins down the actual JSON bytes, not just a
// round trip: Card must encode as the tagged {"Normal":{...}}/"Joker"
// shape the external protocol promises, not Go's default struct tags.
func TestDrawCardWireShape(t *testing.T) {
	data, err := EncodeServerEvent(DrawCard{Seat: 0, Card: cambio.NewCard(cambio.Hearts, cambio.King)})
	require.NoError(t, err)
	require.JSONEq(t,
		`{"type":"draw_card","payload":{"seat":0,"card":{"Normal":{"suit":"Hearts","face":"King"}}}}`,
		string(data))
}

func TestDecisionMsgWireShape(t *testing.T) {
	data, err := EncodeClientEvent(DecisionMsg{Decision: cambio.BlindSwap})
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"decision","payload":{"decision":"BlindSwap"}}`, string(data))
}
