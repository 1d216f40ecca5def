package server

import (
	"net"
	"strconv"

	"github.com/google/uuid"
	"github.com/tevino/abool"
	"go.uber.org/zap"

	"github.com/joe-loach/cambio/jsontypes"
)

// Acceptor binds the listener and gates new connections on an atomic
// flag the lobby and driver flip as the game moves between phases:
// accepting while in the lobby, closed to new joins once play starts.
type Acceptor struct {
	listener  net.Listener
	hub       *Hub
	game      *Seating
	accepting *abool.AtomicBool
	log       *zap.SugaredLogger

	terminations chan playerDone
}

type playerDone struct {
	id     uuid.UUID
	reason CloseReason
}

// NewAcceptor binds a TCP listener on the given port.
func NewAcceptor(port int, hub *Hub, game *Seating, log *zap.SugaredLogger) (*Acceptor, error) {
	l, err := net.Listen("tcp4", portAddr(port))
	if err != nil {
		return nil, err
	}
	return &Acceptor{
		listener:     l,
		hub:          hub,
		game:         game,
		accepting:    abool.New(),
		log:          log,
		terminations: make(chan playerDone, MaxPlayerCount),
	}, nil
}

func portAddr(port int) string {
	return ":" + strconv.Itoa(port)
}

// SetAccepting toggles whether new connections are admitted. The lobby
// phase enables it on entry and disables it on exit, mirroring the
// original server's connect_enabled flag.
func (a *Acceptor) SetAccepting(v bool) {
	a.accepting.SetTo(v)
}

// Close shuts down the listener, unblocking Run.
func (a *Acceptor) Close() error {
	return a.listener.Close()
}

// Run accepts connections until the listener is closed. Each accepted
// connection is handshaked, seated, and handed a worker goroutine; its
// eventual termination is funneled to the returned channel.
func (a *Acceptor) Run() <-chan playerDone {
	go func() {
		for {
			conn, err := a.listener.Accept()
			if err != nil {
				return
			}
			if !a.accepting.IsSet() {
				conn.Close()
				continue
			}
			go a.onConnect(conn)
		}
	}()
	return a.terminations
}

func (a *Acceptor) onConnect(conn net.Conn) {
	reader := NewFrameReader(conn)
	writer := NewFrameWriter(conn)

	event, err := reader.ReadClientEvent()
	if err != nil {
		a.log.Debugw("handshake read failed", "error", err)
		conn.Close()
		return
	}
	join, ok := event.(jsontypes.Join)
	if !ok {
		a.log.Warnw("expected join, got different message", "event", event)
		conn.Close()
		return
	}

	id := a.resolveJoinID(join)

	if err := writer.WriteServerEvent(jsontypes.AssignID{ID: id}); err != nil {
		a.log.Warnw("assign_id write failed", "player", id, "error", err)
		conn.Close()
		return
	}

	if a.game.PlayerCount() >= MaxPlayerCount {
		_ = writer.WriteServerEvent(jsontypes.ErrorMsg{Kind: "invalid_join", Message: "lobby full"})
		conn.Close()
		return
	}
	if !a.game.Exists(id) {
		if err := a.game.TryAddPlayer(id); err != nil {
			_ = writer.WriteServerEvent(jsontypes.ErrorMsg{Kind: "invalid_join", Message: err.Error()})
			conn.Close()
			return
		}
	}

	a.hub.BroadcastEvent(jsontypes.Joined{ID: id})
	a.hub.PublishConn(ConnEvent{Kind: ConnConnected, ID: id})

	// Register before spawning the worker so the unicast Enter below is
	// guaranteed to be the first command the worker ever dequeues: no
	// other goroutine writes to conn until Spawn takes over.
	commands := a.hub.Register(id)
	done := Spawn(id, conn, commands, a.hub, a.log)
	if err := a.hub.Send(id, Command{Kind: CommandEvent, Event: jsontypes.Enter{}}); err != nil {
		a.log.Warnw("enter send failed", "player", id, "error", err)
	}
	go func() {
		reason := <-done
		a.terminations <- playerDone{id: id, reason: reason}
	}()
}

// resolveJoinID assigns a fresh id for Join{ID: nil}. For Join{ID: id}
// it accepts the claimed id only if id is currently seated in GameData
// and not already connected; otherwise it logs a warning and allocates
// a new id instead of honoring the claim.
func (a *Acceptor) resolveJoinID(join jsontypes.Join) uuid.UUID {
	if join.ID == nil {
		return uuid.New()
	}
	id := *join.ID
	if !a.game.Exists(id) {
		a.log.Warnw("join named an unknown id, assigning a new one", "id", id)
		return uuid.New()
	}
	for _, existing := range a.hub.Connections() {
		if existing == id {
			a.log.Warnw("join named an id already connected, assigning a new one", "id", id)
			return uuid.New()
		}
	}
	return id
}
