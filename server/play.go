package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joe-loach/cambio/cambio"
	"github.com/joe-loach/cambio/engine"
	"github.com/joe-loach/cambio/jsontypes"
)

// Play drives one lobby's engine.Game from StateSetup to StateExit,
// translating engine events to broadcasts and client events to engine
// input, and servicing real-time deadlines the engine reports it's
// waiting on.
type Play struct {
	hub  *Hub
	game *engine.Game
	cfg  Config
	log  *zap.SugaredLogger
}

func NewPlay(hub *Hub, game *engine.Game, cfg Config, log *zap.SugaredLogger) *Play {
	return &Play{hub: hub, game: game, cfg: cfg, log: log}
}

// Run pumps the engine to completion, or until ctx is cancelled.
func (p *Play) Run(ctx context.Context, terminations <-chan playerDone) error {
	for {
		for {
			event, ok := p.game.PollEvent()
			if !ok {
				break
			}
			p.dispatch(event)
		}
		if p.game.State() == engine.StateExit {
			return nil
		}

		if p.game.Advance(time.Now()) {
			continue
		}

		deadline, waiting := p.game.PollWaitDeadline()
		var timer <-chan time.Time
		if waiting {
			timer = time.After(time.Until(deadline))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-timer:
			p.game.Advance(time.Now())

		case in := <-p.hub.Incoming():
			p.handleInput(in)

		case done := <-terminations:
			p.handleDisconnect(done)
		}
	}
}

func (p *Play) handleInput(in InboundEvent) {
	now := time.Now()
	switch ev := in.Event.(type) {
	case jsontypes.DecisionMsg:
		if err := p.game.HandleDecision(ev.Decision, now); err != nil {
			p.sendError(in.ID, err)
		}
	case jsontypes.Snap:
		// The driver always evaluates a snap against a hardcoded Joker,
		// regardless of the card the client claims: the engine never
		// learns the identity of the card being snapped.
		if err := p.game.HandleSnap(cambio.JokerCard, now); err != nil {
			p.sendError(in.ID, err)
		}
	case jsontypes.ConfirmNewRound:
		if err := p.game.ConfirmNewRound(now); err != nil {
			p.sendError(in.ID, err)
		}
	case jsontypes.SkipNewRound:
		if err := p.game.SkipNewRound(); err != nil {
			p.sendError(in.ID, err)
		}
	case jsontypes.Cambio:
		if !p.game.CambioCall(now) {
			p.sendError(in.ID, engine.ErrInvalidState)
		}
	default:
		// Continue and any other message carry no engine-level effect
		// during play.
	}
}

func (p *Play) sendError(id uuid.UUID, err error) {
	p.log.Debugw("rejected client input", "player", id, "error", err)
}

func (p *Play) handleDisconnect(done playerDone) {
	p.hub.Remove(done.id)
	p.hub.BroadcastEvent(jsontypes.Left{ID: done.id})
	p.hub.PublishConn(ConnEvent{Kind: ConnDisconnected, ID: done.id, Reason: done.reason})
	p.game.Data().RemovePlayer(done.id)
	if p.game.Data().PlayerCount() < MinPlayerCount {
		p.game.Interrupt()
	}
}

func (p *Play) dispatch(e engine.Event) {
	switch e.Kind {
	case engine.EventStartRound:
		p.hub.BroadcastEvent(jsontypes.StartRound{Round: e.Round})
	case engine.EventStartTurn:
		p.hub.BroadcastEvent(jsontypes.StartTurn{Seat: e.Seat})
	case engine.EventDrawCard:
		// Private draw: unicast only to the seat that drew the card.
		if id, ok := p.seatID(e.Seat); ok {
			_ = p.hub.Send(id, Command{Kind: CommandEvent, Event: jsontypes.DrawCard{Seat: e.Seat, Card: e.Card}})
		}
	case engine.EventWaitForDecision:
		p.hub.BroadcastEvent(jsontypes.WaitForDecision{Seat: e.Seat, Deadline: e.Deadline})
	case engine.EventWaitForSnap:
		p.hub.BroadcastEvent(jsontypes.WaitForSnap{Deadline: e.Deadline})
	case engine.EventEndTurn:
		p.hub.BroadcastEvent(jsontypes.EndTurn{Seat: e.Seat})
	case engine.EventWaitForNewRound:
		p.hub.BroadcastEvent(jsontypes.WaitForNewRound{
			Confirmations: e.Confirmations,
			Needed:        e.ConfirmNeeded,
			Deadline:      e.Deadline,
		})
	case engine.EventEndRound:
		p.hub.BroadcastEvent(jsontypes.EndRound{Round: e.Round})
	case engine.EventFindWinner:
		time.Sleep(p.cfg.ShowAllCooldown())
		p.hub.BroadcastEvent(toWireWinner(e.Winner))
	case engine.EventCambio:
		p.hub.BroadcastEvent(jsontypes.CambioCalled{Seat: e.Seat})
	case engine.EventFirstPeek:
		// Every player gets a private look at their own first two
		// cards: a genuinely per-recipient payload, not a single
		// shared broadcast.
		p.hub.BroadcastMap(p.firstPeekFor)
	case engine.EventSetup, engine.EventFirstDraw, engine.EventExit:
		// No direct wire event: these are bookkeeping transitions
		// clients observe indirectly through the events that follow
		// them (FirstPeek, StartRound, ServerClosing).
	}
}

// seatID resolves the player id currently occupying seat, if any.
func (p *Play) seatID(seat int) (uuid.UUID, bool) {
	players := p.game.Data().Players
	if seat < 0 || seat >= len(players) {
		return uuid.UUID{}, false
	}
	return players[seat].ID, true
}

// firstPeekFor builds the FirstPeek payload for one player, drawn from
// that player's own first two dealt cards. Used with hub.BroadcastMap so
// every player sees only their own starting pair.
func (p *Play) firstPeekFor(id uuid.UUID) jsontypes.ServerEvent {
	for _, pl := range p.game.Data().Players {
		if pl.ID == id && len(pl.Hand) >= 2 {
			return jsontypes.FirstPeek{CardA: pl.Hand[0], CardB: pl.Hand[1]}
		}
	}
	return jsontypes.FirstPeek{}
}

func toWireWinner(w engine.WinnerResult) jsontypes.Winner {
	if w.Kind == engine.WinnerPlayer {
		id := w.Winner
		return jsontypes.Winner{Kind: jsontypes.WinnerKindPlayer, Winner: &id}
	}
	return jsontypes.Winner{Kind: jsontypes.WinnerKindTied, Tied: w.Tied}
}
