package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/joe-loach/cambio/cambio"
)

// EventKind discriminates the Event union.
type EventKind int

const (
	EventSetup EventKind = iota
	EventFirstDraw
	EventFirstPeek
	EventStartRound
	EventStartTurn
	EventDrawCard
	EventWaitForDecision
	EventWaitForSnap
	EventEndTurn
	EventWaitForNewRound
	EventEndRound
	EventCambio
	EventFindWinner
	EventExit
)

// WinnerKind discriminates a single winning player from a tie.
type WinnerKind int

const (
	WinnerPlayer WinnerKind = iota
	WinnerTied
)

// WinnerResult is the outcome computed by FindWinner: the seat(s) with
// the lowest score. A sole lowest-scoring player wins outright; a group
// of two or more tied at the lowest score produces a Tied result.
type WinnerResult struct {
	Kind   WinnerKind
	Winner uuid.UUID   // valid when Kind == WinnerPlayer
	Tied   []uuid.UUID // valid when Kind == WinnerTied
}

// Event is one item the engine has appended to its output queue. Fields
// not relevant to Kind are zero.
type Event struct {
	Kind EventKind

	Round           int
	Seat            int
	Card            cambio.Card
	Deadline        time.Time
	Confirmations   int
	ConfirmNeeded   int
	Winner          WinnerResult
}
