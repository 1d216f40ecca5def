package server

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joe-loach/cambio/jsontypes"
)

func TestFrameWriterReaderRoundTrip(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	w := NewFrameWriter(server)
	r := NewFrameReader(client)

	done := make(chan error, 1)
	go func() {
		done <- w.WriteServerEvent(jsontypes.StartRound{Round: 3})
	}()

	raw, err := r.ReadFrame()
	require.NoError(t, err)
	require.NoError(t, <-done)

	event, err := jsontypes.DecodeServerEvent(raw)
	require.NoError(t, err)
	require.Equal(t, jsontypes.StartRound{Round: 3}, event)
}

func TestReadClientEventDecodesTaggedPayload(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	w := NewFrameWriter(client)
	r := NewFrameReader(server)

	go func() {
		data, err := jsontypes.EncodeClientEvent(jsontypes.Start{})
		require.NoError(t, err)
		require.NoError(t, w.WriteFrame(data))
	}()

	event, err := r.ReadClientEvent()
	require.NoError(t, err)
	require.Equal(t, jsontypes.Start{}, event)
}

func TestReadFrameRejectsOversizeLength(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	go func() {
		_, _ = client.Write([]byte{0x7f, 0xff, 0xff, 0xff})
	}()

	r := NewFrameReader(server)
	_, err := r.ReadFrame()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrProtocol)
}
