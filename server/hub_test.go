package server

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/joe-loach/cambio/jsontypes"
)

func TestRegisterAndSend(t *testing.T) {
	h := NewHub()
	id := uuid.New()
	ch := h.Register(id)

	require.NoError(t, h.Send(id, Command{Kind: CommandEvent, Event: jsontypes.AssignID{ID: id}}))
	cmd := <-ch
	require.Equal(t, jsontypes.AssignID{ID: id}, cmd.Event)
}

func TestSendToRemovedPlayerFails(t *testing.T) {
	h := NewHub()
	id := uuid.New()
	h.Register(id)
	h.Remove(id)

	err := h.Send(id, Command{Kind: CommandEvent})
	require.ErrorIs(t, err, ErrQueueClosed)
}

func TestBroadcastEventReachesEveryPlayer(t *testing.T) {
	h := NewHub()
	a, b := uuid.New(), uuid.New()
	chA := h.Register(a)
	chB := h.Register(b)

	h.BroadcastEvent(jsontypes.ServerClosing{})

	require.Equal(t, jsontypes.ServerClosing{}, (<-chA).Event)
	require.Equal(t, jsontypes.ServerClosing{}, (<-chB).Event)
}

func TestBroadcastMapSendsDistinctEventPerPlayer(t *testing.T) {
	h := NewHub()
	a, b := uuid.New(), uuid.New()
	chA := h.Register(a)
	chB := h.Register(b)

	h.BroadcastMap(func(id uuid.UUID) jsontypes.ServerEvent {
		return jsontypes.AssignID{ID: id}
	})

	require.Equal(t, jsontypes.AssignID{ID: a}, (<-chA).Event)
	require.Equal(t, jsontypes.AssignID{ID: b}, (<-chB).Event)
}

func TestIncomingAndConnBusesDeliverInOrder(t *testing.T) {
	h := NewHub()
	id := uuid.New()

	h.PublishIncoming(InboundEvent{ID: id, Event: jsontypes.Start{}})
	h.PublishConn(ConnEvent{Kind: ConnConnected, ID: id})

	in := <-h.Incoming()
	require.Equal(t, id, in.ID)

	ce := <-h.ConnEvents()
	require.Equal(t, ConnConnected, ce.Kind)
}
