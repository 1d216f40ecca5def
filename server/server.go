// Package server implements a TCP server for playing Cambio.
//
// The wire protocol is length-delimited JSON: every message is a 4-byte
// big-endian length followed by that many bytes of a tagged JSON object,
// e.g.
//
//	{"type":"join"}
//	{"type":"assign_id","payload":{"id":"3fa..."}}
//	{"type":"enter"}
//
// A connection starts by sending Join (with no id for a new player, or
// an existing id to rejoin) and receiving AssignID, carrying its player
// id, followed by Enter. From there the lobby phase accepts Start (from
// the host, seat 0, once at least MinPlayerCount are seated) and
// GetLobbyInfo; anything else sent during the lobby is dropped. Once play begins no further connections
// are accepted, and the full Decision/Snap/ConfirmNewRound/SkipNewRound
// vocabulary from jsontypes becomes live.
//
// GameServer sequences exactly one lobby followed by exactly one game:
// it does not recycle a finished lobby into a new one. A process
// restart is expected between games, matching the scope this package
// was built to cover.
package server

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/joe-loach/cambio/engine"
	"github.com/joe-loach/cambio/jsontypes"
)

// GameServer owns one lobby's full lifecycle: accept connections, run
// the lobby phase, run the engine to completion, then close out.
type GameServer struct {
	cfg Config
	log *zap.SugaredLogger

	hub      *Hub
	game     Seating
	acceptor *Acceptor
}

// New binds a listener on cfg.ServerPort and returns a GameServer ready
// to Run.
func New(cfg Config, log *zap.SugaredLogger) (*GameServer, error) {
	hub := NewHub()
	s := &GameServer{cfg: cfg, log: log, hub: hub}
	acceptor, err := NewAcceptor(cfg.ServerPort, hub, &s.game, log)
	if err != nil {
		return nil, err
	}
	s.acceptor = acceptor
	return s, nil
}

// Addr reports the address the acceptor is bound to.
func (s *GameServer) Addr() string {
	return s.acceptor.listener.Addr().String()
}

// Run executes the lobby phase, then the game phase, then broadcasts
// ServerClosing and tears down every connection. It returns when the
// game reaches its winner, or ctx is cancelled.
func (s *GameServer) Run(ctx context.Context) error {
	terminations := s.acceptor.Run()
	defer s.acceptor.Close()

	lobby := NewLobby(s.hub, &s.game, s.acceptor, s.log)
	seating, err := lobby.Run(ctx, terminations)
	if err != nil {
		s.hub.BroadcastEvent(jsontypes.ServerClosing{})
		return err
	}

	eng := engine.NewGame(seating, rand.New(rand.NewSource(time.Now().UnixNano())))
	play := NewPlay(s.hub, eng, s.cfg, s.log)
	err = play.Run(ctx, terminations)

	s.hub.BroadcastEvent(jsontypes.ServerClosing{})
	s.closeAllConnections()
	return err
}

func (s *GameServer) closeAllConnections() {
	for _, id := range s.hub.Connections() {
		_ = s.hub.Send(id, Command{Kind: CommandClose})
	}
}
