package server

import (
	"net"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joe-loach/cambio/jsontypes"
)

// PlayerConn owns one client socket: it forwards decoded inbound events
// to the hub's incoming bus, and writes outbound commands queued for it
// back onto the wire, until either side closes.
type PlayerConn struct {
	id   uuid.UUID
	conn net.Conn
	hub  *Hub
	log  *zap.SugaredLogger
}

// Spawn starts the worker's read and write loops in a new goroutine and
// returns a channel that receives exactly one CloseReason when the
// worker has fully torn down. commands must already be registered with
// hub (via hub.Register) before Spawn is called, so the caller can
// safely unicast to id the instant Spawn returns.
func Spawn(id uuid.UUID, conn net.Conn, commands <-chan Command, hub *Hub, log *zap.SugaredLogger) <-chan CloseReason {
	pc := &PlayerConn{id: id, conn: conn, hub: hub, log: log}
	done := make(chan CloseReason, 1)
	go pc.run(done, commands)
	return done
}

func (pc *PlayerConn) run(done chan<- CloseReason, commands <-chan Command) {
	reader := NewFrameReader(pc.conn)
	writer := NewFrameWriter(pc.conn)

	inbound := make(chan jsontypes.ClientEvent)
	readErr := make(chan error, 1)
	go func() {
		for {
			event, err := reader.ReadClientEvent()
			if err != nil {
				readErr <- err
				return
			}
			inbound <- event
		}
	}()

	reason := pc.loop(writer, commands, inbound, readErr)
	pc.conn.Close()
	done <- reason
}

func (pc *PlayerConn) loop(
	writer *FrameWriter,
	commands <-chan Command,
	inbound <-chan jsontypes.ClientEvent,
	readErr <-chan error,
) CloseReason {
	for {
		select {
		case cmd, ok := <-commands:
			if !ok {
				return CloseExhausted
			}
			if cmd.Kind == CommandClose {
				return CloseRequest
			}
			if err := writer.WriteServerEvent(cmd.Event); err != nil {
				pc.log.Warnw("write failed", "player", pc.id, "error", err)
				return CloseError
			}

		case event := <-inbound:
			switch event.(type) {
			case jsontypes.Leave:
				return CloseRequest
			case jsontypes.GetLobbyInfo:
				if err := writer.WriteServerEvent(pc.hub.LobbyInfo()); err != nil {
					return CloseError
				}
			default:
				pc.hub.PublishIncoming(InboundEvent{ID: pc.id, Event: event})
			}

		case err := <-readErr:
			pc.log.Debugw("read stopped", "player", pc.id, "error", err)
			return CloseError
		}
	}
}
