package server

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joe-loach/cambio/jsontypes"
)

// Lobby is the accept-until-started phase: it seats connecting players,
// republishes lobby info as seating changes, and watches for the host
// (seat 0) to send Start once enough players are seated.
type Lobby struct {
	hub      *Hub
	game     *Seating
	acceptor *Acceptor
	log      *zap.SugaredLogger
}

func NewLobby(hub *Hub, game *Seating, acceptor *Acceptor, log *zap.SugaredLogger) *Lobby {
	return &Lobby{hub: hub, game: game, acceptor: acceptor, log: log}
}

// Run accepts connections until either the host starts the game with
// enough players seated, or ctx is cancelled. It returns the seated
// player ids in seating order.
func (l *Lobby) Run(ctx context.Context, terminations <-chan playerDone) ([]uuid.UUID, error) {
	l.acceptor.SetAccepting(true)
	defer l.acceptor.SetAccepting(false)
	l.publishLobbyInfo()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case ce := <-l.hub.ConnEvents():
			if ce.Kind == ConnConnected {
				l.publishLobbyInfo()
				if l.game.PlayerCount() >= MaxPlayerCount {
					l.acceptor.SetAccepting(false)
				}
			}

		case done := <-terminations:
			l.game.RemovePlayer(done.id)
			l.hub.Remove(done.id)
			l.hub.BroadcastEvent(jsontypes.Left{ID: done.id})
			l.hub.PublishConn(ConnEvent{Kind: ConnDisconnected, ID: done.id, Reason: done.reason})
			l.publishLobbyInfo()
			if l.game.PlayerCount() < MaxPlayerCount {
				l.acceptor.SetAccepting(true)
			}

		case in := <-l.hub.Incoming():
			if _, ok := in.Event.(jsontypes.Start); !ok {
				continue
			}
			if !l.canStart(in.ID) {
				continue
			}
			l.acceptor.SetAccepting(false)
			return l.seatOrder(), nil
		}
	}
}

// canStart reports whether id is the host (seat 0) and enough players
// are seated to begin.
func (l *Lobby) canStart(id uuid.UUID) bool {
	if l.game.PlayerCount() < MinPlayerCount {
		return false
	}
	return l.game.SeatOf(id) == 0
}

func (l *Lobby) seatOrder() []uuid.UUID {
	return l.game.Order()
}

func (l *Lobby) publishLobbyInfo() {
	info := jsontypes.LobbyInfo{Players: l.seatOrder()}
	if len(info.Players) > 0 {
		info.Host = info.Players[0]
	}
	l.hub.SetLobbyInfo(info)
}
