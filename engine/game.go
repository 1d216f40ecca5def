// Package engine implements the Cambio round/turn state machine. The
// engine is pure: it performs no I/O, owns no socket or timer, and
// advances exactly one transition per Advance call. Real time enters
// only through the `now` and `at` parameters its driver supplies, and
// randomness only through the *rand.Rand passed to NewGame.
package engine

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/joe-loach/cambio/cambio"
)

// ErrInvalidState is returned when an input is rejected because the
// engine isn't in a state that accepts it (e.g. a Decision delivered
// while nothing is waiting for one).
var ErrInvalidState = errors.New("engine: input invalid for current state")

// ErrInvalidDecision is returned when a decision isn't a member of the
// drawn card's valid set.
var ErrInvalidDecision = errors.New("engine: decision not valid for drawn card")

// Game is one lobby's authoritative round/turn state machine.
type Game struct {
	state State
	data  cambio.GameData
	deck  cambio.Deck
	rng   *rand.Rand

	round    int
	turnSeat int

	pendingCard     cambio.Card
	pendingDecision cambio.Decision

	confirmations int
	confirmNeeded int
	skipped       bool

	waitEmitted bool
	deadline    time.Time

	events []Event
}

// NewGame seats the given players and returns a Game in StateSetup,
// ready for its first Advance.
func NewGame(ids []uuid.UUID, rng *rand.Rand) *Game {
	g := &Game{
		state: StateSetup,
		rng:   rng,
	}
	for _, id := range ids {
		_ = g.data.TryAddPlayer(id)
	}
	return g
}

// State reports the engine's current position in the lifecycle.
func (g *Game) State() State {
	return g.state
}

// Data exposes the current seating/hand/score snapshot. Callers must
// not mutate the returned slices.
func (g *Game) Data() *cambio.GameData {
	return &g.data
}

func (g *Game) push(e Event) {
	g.events = append(g.events, e)
}

// PollEvent pops the oldest undelivered event, FIFO.
func (g *Game) PollEvent() (Event, bool) {
	if len(g.events) == 0 {
		return Event{}, false
	}
	e := g.events[0]
	g.events = g.events[1:]
	return e, true
}

// PollWaitDeadline reports the deadline the engine is currently waiting
// on, if any. The driver uses this to schedule its next forced Advance.
func (g *Game) PollWaitDeadline() (time.Time, bool) {
	switch g.state {
	case StateWaitingForDecision, StateWaitingForSnap, StateWaitingForNewRound:
		return g.deadline, true
	default:
		return time.Time{}, false
	}
}

func (g *Game) enterWait(state State, now time.Time, d time.Duration) {
	g.state = state
	g.deadline = now.Add(d)
	g.waitEmitted = false
}

// Advance performs at most one step and returns whether anything
// happened (a state change or a queued event). While waiting for a
// decision, snap, or new-round confirmation, the first Advance after
// entering the wait emits the wait event and returns true; later calls
// return false until the deadline passes (or, for the new-round wait,
// until a skip or full confirmation arrives), so the wait event is not
// re-emitted every call.
func (g *Game) Advance(now time.Time) bool {
	switch g.state {
	case StateSetup:
		g.deck = cambio.FullDeck()
		g.deck.Shuffle(g.rng)
		g.push(Event{Kind: EventSetup})
		g.state = StateFirstDraw
		return true

	case StateFirstDraw:
		g.data.DealStartingHands(&g.deck)
		g.push(Event{Kind: EventFirstDraw})
		g.state = StateFirstPeek
		return true

	case StateFirstPeek:
		g.push(Event{Kind: EventFirstPeek})
		g.state = StateStartRound
		return true

	case StateStartRound:
		g.skipped = false
		g.turnSeat = g.round % g.data.PlayerCount()
		g.push(Event{Kind: EventStartRound, Round: g.round})
		g.state = StateStartTurn
		return true

	case StateStartTurn:
		g.push(Event{Kind: EventStartTurn, Seat: g.turnSeat})
		if g.deck.Len() == 0 {
			g.state = StateEndRound
			return true
		}
		g.state = StateDrawCard
		return true

	case StateDrawCard:
		card, ok := g.deck.Draw()
		if !ok {
			g.state = StateEndRound
			return true
		}
		g.pendingCard = card
		g.push(Event{Kind: EventDrawCard, Seat: g.turnSeat, Card: card})
		g.enterWait(StateWaitingForDecision, now, MaxDecisionTime)
		return true

	case StateWaitingForDecision:
		if !g.waitEmitted {
			g.push(Event{Kind: EventWaitForDecision, Seat: g.turnSeat, Deadline: g.deadline})
			g.waitEmitted = true
			return true
		}
		if now.Before(g.deadline) {
			return false
		}
		// Deadline passed with no decision: the turn ends immediately,
		// skipping PlayDecision and WaitingForSnaps entirely.
		g.state = StateEndTurn
		return true

	case StatePlayDecision:
		g.enterWait(StateWaitingForSnap, now, MaxSnapTime)
		return true

	case StateWaitingForSnap:
		if !g.waitEmitted {
			g.push(Event{Kind: EventWaitForSnap, Deadline: g.deadline})
			g.waitEmitted = true
			return true
		}
		if now.Before(g.deadline) {
			return false
		}
		g.state = StateEndTurn
		return true

	case StateSnapped:
		g.state = StateEndTurn
		return true

	case StateEndTurn:
		g.push(Event{Kind: EventEndTurn, Seat: g.turnSeat})
		g.advanceTurn()
		return true

	case StateCambioCall:
		g.push(Event{Kind: EventCambio, Seat: g.turnSeat})
		g.state = StateEndRound
		return true

	case StateWaitingForNewRound:
		if !g.waitEmitted {
			g.push(Event{
				Kind:          EventWaitForNewRound,
				Confirmations: g.confirmations,
				ConfirmNeeded: g.confirmNeeded,
				Deadline:      g.deadline,
			})
			g.waitEmitted = true
			return true
		}
		if g.skipped {
			g.state = StateFindWinner
			return true
		}
		if g.confirmations >= g.confirmNeeded {
			g.round++
			g.state = StateSetup
			return true
		}
		if now.Before(g.deadline) {
			return false
		}
		// Timeout without full confirmation behaves like a skip.
		g.state = StateFindWinner
		return true

	case StateEndRound:
		g.push(Event{Kind: EventEndRound, Round: g.round})
		g.confirmations = 0
		g.confirmNeeded = g.data.PlayerCount()
		g.enterWait(StateWaitingForNewRound, now, MaxNewRoundConfirmTime)
		return true

	case StateFindWinner:
		result := g.findWinner()
		g.push(Event{Kind: EventFindWinner, Winner: result})
		g.state = StateExit
		return true

	case StateExit:
		return false

	default:
		return false
	}
}

// advanceTurn moves to the next seat, or into EndRound once the deck
// has run dry.
func (g *Game) advanceTurn() {
	if g.deck.Len() == 0 {
		g.state = StateEndRound
		return
	}
	g.turnSeat = (g.turnSeat + 1) % g.data.PlayerCount()
	g.state = StateStartTurn
}

// HandleDecision records the acting player's decision for the card just
// drawn. It is only valid while waiting for a decision, and only for a
// decision in the drawn card's valid set. A decision delivered within
// the decision window moves to PlayDecision, which opens the snap
// window on the following Advance; one delivered (impossibly) after the
// window already elapsed ends the turn directly, same as a timeout.
func (g *Game) HandleDecision(d cambio.Decision, at time.Time) error {
	if g.state != StateWaitingForDecision {
		return ErrInvalidState
	}
	if !cambio.ValidSet(g.pendingCard).Contains(d) {
		return ErrInvalidDecision
	}
	if at.Before(g.deadline) {
		g.pendingDecision = d
		g.state = StatePlayDecision
	} else {
		g.state = StateEndTurn
	}
	return nil
}

// HandleSnap records a snap attempt during the post-turn snap window.
// The driver always passes a hardcoded Joker card regardless of what
// the client submitted, so the engine never learns the identity of the
// card being snapped; it only cares that the attempt landed in time.
func (g *Game) HandleSnap(_ cambio.Card, at time.Time) error {
	if g.state != StateWaitingForSnap {
		return ErrInvalidState
	}
	if !at.Before(g.deadline) {
		return ErrInvalidState
	}
	g.state = StateSnapped
	return nil
}

// Interrupt forces the game straight to FindWinner regardless of the
// current state, for the driver to call when the seated player count
// drops below the minimum mid-round and the round cannot continue.
func (g *Game) Interrupt() {
	if g.state == StateExit {
		return
	}
	g.state = StateFindWinner
}

// ConfirmNewRound records one player's vote to continue to another
// round. Valid only during the post-round confirmation wait.
func (g *Game) ConfirmNewRound(at time.Time) error {
	if g.state != StateWaitingForNewRound {
		return ErrInvalidState
	}
	g.confirmations++
	return nil
}

// SkipNewRound ends the game immediately on the next Advance, as if the
// confirmation window had timed out with nobody confirming. Any single
// player may trigger it.
func (g *Game) SkipNewRound() error {
	if g.state != StateWaitingForNewRound {
		return ErrInvalidState
	}
	g.skipped = true
	return nil
}

// CambioCall is valid only from WaitingForDecision, WaitingForSnaps, or
// PlayDecision; it is rejected (returns false) from every other state.
// From PlayDecision the engine first advances once, so the pending
// decision's effects resolve before the call is registered. Its effect
// is immediate: the next Advance forces EndRound, emitting Cambio,
// regardless of whose turn it would otherwise be.
func (g *Game) CambioCall(now time.Time) bool {
	switch g.state {
	case StateWaitingForDecision, StateWaitingForSnap:
	case StatePlayDecision:
		g.enterWait(StateWaitingForSnap, now, MaxSnapTime)
	default:
		return false
	}
	g.state = StateCambioCall
	return true
}

// findWinner groups players by score and returns the lowest-scoring
// group: a sole member wins outright, otherwise the group is Tied.
func (g *Game) findWinner() WinnerResult {
	if len(g.data.Players) == 0 {
		return WinnerResult{Kind: WinnerTied}
	}
	min := g.data.Players[0].Score
	for _, p := range g.data.Players[1:] {
		if p.Score < min {
			min = p.Score
		}
	}
	var lowest []uuid.UUID
	for _, p := range g.data.Players {
		if p.Score == min {
			lowest = append(lowest, p.ID)
		}
	}
	if len(lowest) == 1 {
		return WinnerResult{Kind: WinnerPlayer, Winner: lowest[0]}
	}
	return WinnerResult{Kind: WinnerTied, Tied: lowest}
}
